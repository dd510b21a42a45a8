/*
Copyright © 2024 the firespread authors.

firespread is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

firespread is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with firespread.  If not, see <http://www.gnu.org/licenses/>.
*/

package loaders

import (
	"fmt"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"

	"github.com/caldera-sim/firespread/raster"
	"github.com/caldera-sim/firespread/weather"
)

// NetCDFLandscapeLoader reads the eight aligned landscape layers out of
// a NetCDF file, one 2-D variable per layer, the same way
// popgrid.go:LoadCTMData reads CTM output variables.
type NetCDFLandscapeLoader struct {
	File     cdf.ReaderWriterAt
	CellSize float64
}

// variable names expected in the landscape NetCDF file.
const (
	varAspect           = "aspect"
	varSlope            = "slope"
	varElevation        = "elevation"
	varFuelModel        = "fuel_model"
	varCanopyCover      = "canopy_cover"
	varCanopyHeight     = "canopy_height"
	varCanopyBaseHeight = "canopy_base_height"
	varCrownBulkDensity = "crown_bulk_density"
)

// LoadLandscape implements LandscapeLoader.
func (n *NetCDFLandscapeLoader) LoadLandscape() (*weather.Landscape, error) {
	f, err := cdf.Open(n.File)
	if err != nil {
		return nil, fmt.Errorf("loaders.LoadLandscape: %v", err)
	}

	layers := map[string]*raster.Grid{}
	var rows, cols int
	for _, name := range []string{
		varAspect, varSlope, varElevation, varFuelModel,
		varCanopyCover, varCanopyHeight, varCanopyBaseHeight, varCrownBulkDensity,
	} {
		g, r, c, err := readGrid2D(f, name)
		if err != nil {
			return nil, fmt.Errorf("loaders.LoadLandscape: %v", err)
		}
		if rows == 0 {
			rows, cols = r, c
		} else if r != rows || c != cols {
			return nil, fmt.Errorf("loaders.LoadLandscape: variable %q has dims %dx%d, want %dx%d", name, r, c, rows, cols)
		}
		layers[name] = g
	}

	return &weather.Landscape{
		Aspect:           layers[varAspect],
		Slope:            layers[varSlope],
		Elevation:        layers[varElevation],
		FuelModel:        layers[varFuelModel],
		CanopyCover:      layers[varCanopyCover],
		CanopyHeight:     layers[varCanopyHeight],
		CanopyBaseHeight: layers[varCanopyBaseHeight],
		CrownBulkDensity: layers[varCrownBulkDensity],
		NumRows:          rows,
		NumCols:          cols,
		CellSize:         n.CellSize,
	}, nil
}

// readGrid2D reads one 2-D float32 variable into a *raster.Grid, the
// same read-then-widen-to-float64 pattern LoadCTMData uses.
func readGrid2D(f *cdf.File, name string) (*raster.Grid, int, int, error) {
	dims := f.Header.Lengths(name)
	if len(dims) != 2 {
		return nil, 0, 0, fmt.Errorf("variable %q has %d dimensions, want 2", name, len(dims))
	}
	rows, cols := dims[0], dims[1]

	r := f.Reader(name, nil, nil)
	data := sparse.ZerosDense(dims...)
	tmp := make([]float32, len(data.Elements))
	if _, err := r.Read(tmp); err != nil {
		return nil, 0, 0, fmt.Errorf("reading variable %q: %v", name, err)
	}

	g := raster.NewGrid(rows, cols)
	k := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			g.Set(i, j, float64(tmp[k]))
			k++
		}
	}
	return g, rows, cols, nil
}

// NetCDFWeatherLoader reads weather variables, each a 3-D (hour, row,
// col) band stack, from a NetCDF file. Variables with any other number
// of dimensions are rejected with an error.
type NetCDFWeatherLoader struct {
	File                 cdf.ReaderWriterAt
	ResolutionMultiplier int
}

// LoadWeatherVariable implements WeatherLoader.
func (n *NetCDFWeatherLoader) LoadWeatherVariable(name string) (weather.Variable, error) {
	f, err := cdf.Open(n.File)
	if err != nil {
		return weather.Variable{}, fmt.Errorf("loaders.LoadWeatherVariable: %v", err)
	}
	dims := f.Header.Lengths(name)

	switch len(dims) {
	case 0:
		return weather.Variable{}, fmt.Errorf("loaders.LoadWeatherVariable: variable %q has no dimensions", name)
	case 3:
		bands, rows, cols := dims[0], dims[1], dims[2]
		r := f.Reader(name, nil, nil)
		data := sparse.ZerosDense(dims...)
		tmp := make([]float32, len(data.Elements))
		if _, err := r.Read(tmp); err != nil {
			return weather.Variable{}, fmt.Errorf("loaders.LoadWeatherVariable: reading %q: %v", name, err)
		}
		g := raster.NewGrid3D(bands, rows, cols)
		k := 0
		for b := 0; b < bands; b++ {
			for i := 0; i < rows; i++ {
				for j := 0; j < cols; j++ {
					g.Set(b, i, j, float64(tmp[k]))
					k++
				}
			}
		}
		return weather.Variable{Raster: g, ResolutionMultiplier: n.ResolutionMultiplier}, nil
	default:
		return weather.Variable{}, fmt.Errorf("loaders.LoadWeatherVariable: variable %q has %d dimensions, want 3", name, len(dims))
	}
}

// NetCDFIgnitionLoader reads a 2-D perimeter-ignition raster.
type NetCDFIgnitionLoader struct {
	File     cdf.ReaderWriterAt
	Variable string
}

// LoadIgnitionRaster implements IgnitionLoader.
func (n *NetCDFIgnitionLoader) LoadIgnitionRaster() (*raster.Grid, error) {
	f, err := cdf.Open(n.File)
	if err != nil {
		return nil, fmt.Errorf("loaders.LoadIgnitionRaster: %v", err)
	}
	g, _, _, err := readGrid2D(f, n.Variable)
	if err != nil {
		return nil, fmt.Errorf("loaders.LoadIgnitionRaster: %v", err)
	}
	return g, nil
}

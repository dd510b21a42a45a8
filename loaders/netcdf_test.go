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
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
)

// writeNCFVar writes one float32-backed variable into f, the same
// start/end Writer shape inmap's own vargrid.go:writeNCF uses.
func writeNCFVar(t *testing.T, f *cdf.File, name string, data []float32) {
	t.Helper()
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("writing variable %q: %v", name, err)
	}
}

func TestNetCDFLandscapeLoaderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "landscape.nc")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("os.Create: %v", err)
	}

	h := cdf.NewHeader([]string{"row", "col"}, []int{2, 3})
	for _, v := range []string{
		"aspect", "slope", "elevation", "fuel_model",
		"canopy_cover", "canopy_height", "canopy_base_height", "crown_bulk_density",
	} {
		h.AddVariable(v, []string{"row", "col"}, []float32{0})
	}
	h.Define()

	cf, err := cdf.Create(f, h)
	if err != nil {
		t.Fatalf("cdf.Create: %v", err)
	}

	values := map[string][]float32{
		"aspect":             {180, 90, 0, 270, 45, 135},
		"slope":              {0.1, 0.2, 0.3, 0.0, 0.5, 0.4},
		"elevation":          {1000, 1010, 1020, 1030, 1040, 1050},
		"fuel_model":         {1, 1, 2, 2, 93, 1},
		"canopy_cover":       {10, 20, 30, 0, 0, 60},
		"canopy_height":      {40, 40, 0, 0, 0, 50},
		"canopy_base_height": {5, 5, 0, 0, 0, 8},
		"crown_bulk_density": {0.12, 0.12, 0, 0, 0, 0.15},
	}
	for _, name := range []string{
		"aspect", "slope", "elevation", "fuel_model",
		"canopy_cover", "canopy_height", "canopy_base_height", "crown_bulk_density",
	} {
		writeNCFVar(t, cf, name, values[name])
	}
	if err := cdf.UpdateNumRecs(f); err != nil {
		t.Fatalf("cdf.UpdateNumRecs: %v", err)
	}
	f.Close()

	rf, err := os.Open(path)
	if err != nil {
		t.Fatalf("os.Open: %v", err)
	}
	defer rf.Close()

	loader := &NetCDFLandscapeLoader{File: rf, CellSize: 98.4}
	l, err := loader.LoadLandscape()
	if err != nil {
		t.Fatalf("LoadLandscape: %v", err)
	}

	if l.NumRows != 2 || l.NumCols != 3 {
		t.Fatalf("dims = %dx%d, want 2x3", l.NumRows, l.NumCols)
	}
	if l.CellSize != 98.4 {
		t.Errorf("CellSize = %v, want 98.4", l.CellSize)
	}
	if got := l.Aspect.Get(0, 1); got != 90 {
		t.Errorf("Aspect(0,1) = %v, want 90", got)
	}
	if got := l.FuelModel.Get(1, 1); got != 93 {
		t.Errorf("FuelModel(1,1) = %v, want 93", got)
	}
	if got := l.Elevation.Get(1, 2); got != 1050 {
		t.Errorf("Elevation(1,2) = %v, want 1050", got)
	}
}

func TestNetCDFWeatherLoaderBands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weather.nc")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("os.Create: %v", err)
	}

	h := cdf.NewHeader([]string{"hour", "row", "col"}, []int{2, 2, 2})
	h.AddVariable("temperature", []string{"hour", "row", "col"}, []float32{0})
	h.Define()

	cf, err := cdf.Create(f, h)
	if err != nil {
		t.Fatalf("cdf.Create: %v", err)
	}
	writeNCFVar(t, cf, "temperature", []float32{60, 61, 62, 63, 70, 71, 72, 73})
	if err := cdf.UpdateNumRecs(f); err != nil {
		t.Fatalf("cdf.UpdateNumRecs: %v", err)
	}
	f.Close()

	rf, err := os.Open(path)
	if err != nil {
		t.Fatalf("os.Open: %v", err)
	}
	defer rf.Close()

	loader := &NetCDFWeatherLoader{File: rf, ResolutionMultiplier: 1}
	v, err := loader.LoadWeatherVariable("temperature")
	if err != nil {
		t.Fatalf("LoadWeatherVariable: %v", err)
	}
	if v.IsScalar() {
		t.Fatal("a 3-D NetCDF variable should load as a raster Variable, not a scalar")
	}
	if got := v.Raster.Band(0).Get(0, 0); got != 60 {
		t.Errorf("band 0 (0,0) = %v, want 60", got)
	}
	if got := v.Raster.Band(1).Get(1, 1); got != 73 {
		t.Errorf("band 1 (1,1) = %v, want 73", got)
	}
}

func TestNetCDFWeatherLoaderRejectsNon3D(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weather2d.nc")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("os.Create: %v", err)
	}
	h := cdf.NewHeader([]string{"row", "col"}, []int{2, 2})
	h.AddVariable("temperature", []string{"row", "col"}, []float32{0})
	h.Define()
	cf, err := cdf.Create(f, h)
	if err != nil {
		t.Fatalf("cdf.Create: %v", err)
	}
	writeNCFVar(t, cf, "temperature", []float32{1, 2, 3, 4})
	if err := cdf.UpdateNumRecs(f); err != nil {
		t.Fatalf("cdf.UpdateNumRecs: %v", err)
	}
	f.Close()

	rf, err := os.Open(path)
	if err != nil {
		t.Fatalf("os.Open: %v", err)
	}
	defer rf.Close()

	loader := &NetCDFWeatherLoader{File: rf}
	if _, err := loader.LoadWeatherVariable("temperature"); err == nil {
		t.Error("a 2-D weather variable should be rejected: the CLI expects a scalar from config instead")
	}
}

func TestNetCDFIgnitionLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ignition.nc")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("os.Create: %v", err)
	}
	h := cdf.NewHeader([]string{"row", "col"}, []int{2, 2})
	h.AddVariable("ignition", []string{"row", "col"}, []float32{0})
	h.Define()
	cf, err := cdf.Create(f, h)
	if err != nil {
		t.Fatalf("cdf.Create: %v", err)
	}
	writeNCFVar(t, cf, "ignition", []float32{0, 1, 0, 0})
	if err := cdf.UpdateNumRecs(f); err != nil {
		t.Fatalf("cdf.UpdateNumRecs: %v", err)
	}
	f.Close()

	rf, err := os.Open(path)
	if err != nil {
		t.Fatalf("os.Open: %v", err)
	}
	defer rf.Close()

	loader := &NetCDFIgnitionLoader{File: rf, Variable: "ignition"}
	g, err := loader.LoadIgnitionRaster()
	if err != nil {
		t.Fatalf("LoadIgnitionRaster: %v", err)
	}
	if got := g.Get(0, 1); got != 1 {
		t.Errorf("ignition(0,1) = %v, want 1", got)
	}
	if got := g.Get(1, 1); got != 0 {
		t.Errorf("ignition(1,1) = %v, want 0", got)
	}
}

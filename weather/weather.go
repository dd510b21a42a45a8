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

// Package weather samples per-cell landscape and weather values and
// derives fuel moisture from relative humidity and temperature. It
// holds the Landscape and Weather data types directly, rather than
// importing them from the root package, so that the root package can
// alias these types for its public API without an import cycle.
package weather

import (
	"math"

	"github.com/caldera-sim/firespread/raster"
)

// Landscape bundles the eight aligned 2-D arrays that describe the
// static terrain and fuel layers of a simulation.
type Landscape struct {
	Aspect           *raster.Grid // degrees CW from north
	Slope            *raster.Grid // tan(theta)
	Elevation        *raster.Grid // ft
	FuelModel        *raster.Grid // 1-256, encoded as double
	CanopyCover      *raster.Grid // %
	CanopyHeight     *raster.Grid // ft
	CanopyBaseHeight *raster.Grid // ft
	CrownBulkDensity *raster.Grid // kg/m^3

	NumRows, NumCols int
	CellSize         float64 // ft
}

// Variable is one scalar-or-raster weather input. A Variable is either
// a single scalar (Scalar set, Raster nil) or a 3-D raster with one
// band per simulated hour.
type Variable struct {
	Scalar               float64
	Raster               *raster.Grid3D
	ResolutionMultiplier int // weather cells are this many landscape cells wide
}

// IsScalar reports whether v is a constant value rather than a raster.
func (v Variable) IsScalar() bool { return v.Raster == nil }

// Weather bundles the four weather inputs.
type Weather struct {
	WindSpeed20ft     Variable // mph
	WindFromDirection Variable // degrees CW from north
	Temperature       Variable // deg F
	RelativeHumidity  Variable // %
}

// Perturbation describes one layer's stochastic offset configuration.
type Perturbation struct {
	SpatialType string // "global" or "pixel"
	Lo, Hi      float64
	Frequency   float64 // minutes; 0 means fixed for the whole simulation
}

// Constants is the per-cell, per-clock bundle extracted for the spread
// kernel.
type Constants struct {
	Aspect            float64
	Slope             float64
	Elevation         float64
	FuelModelNumber   float64
	CanopyCover       float64
	CanopyHeight      float64
	CanopyBaseHeight  float64
	CrownBulkDensity  float64
	WindSpeed20ft     float64
	WindFromDirection float64
	Temperature       float64
	RelativeHumidity  float64
}

// PerturbSource supplies the perturbation offset for one (variable,
// cell, clock) sample. The firespread/sampling package implements this
// for both global and pixel perturbation kinds.
type PerturbSource interface {
	Offset(layer string, cell raster.Cell, globalClock float64) float64
}

// SampleAt implements sample_at: maps landscape indices into
// weather-raster indices (via the resolution multiplier), selects the
// hour band for a 3-D variable, and adds the configured perturbation.
func SampleAt(v Variable, layer string, here raster.Cell, globalClock float64, perturb PerturbSource) float64 {
	base := v.Scalar
	if !v.IsScalar() {
		i, j := here.I, here.J
		if v.ResolutionMultiplier > 1 {
			i /= v.ResolutionMultiplier
			j /= v.ResolutionMultiplier
		}
		band := int(math.Floor(globalClock / 60))
		if band >= v.Raster.Bands() {
			band = v.Raster.Bands() - 1
		}
		if band < 0 {
			band = 0
		}
		base = v.Raster.Band(band).Get(i, j)
	}
	if perturb != nil {
		base += perturb.Offset(layer, here, globalClock)
	}
	return base
}

// ExtractConstants implements extract_constants: the
// per-cell, per-clock bundle of inputs the spread kernel needs.
func ExtractConstants(l *Landscape, w *Weather, globalClock float64, here raster.Cell, perturb PerturbSource) Constants {
	return Constants{
		Aspect:            l.Aspect.GetCell(here),
		Slope:             l.Slope.GetCell(here),
		Elevation:         l.Elevation.GetCell(here),
		FuelModelNumber:   l.FuelModel.GetCell(here),
		CanopyCover:       l.CanopyCover.GetCell(here),
		CanopyHeight:      l.CanopyHeight.GetCell(here),
		CanopyBaseHeight:  l.CanopyBaseHeight.GetCell(here),
		CrownBulkDensity:  l.CrownBulkDensity.GetCell(here),
		WindSpeed20ft:     SampleAt(w.WindSpeed20ft, "wind_speed_20ft", here, globalClock, perturb),
		WindFromDirection: SampleAt(w.WindFromDirection, "wind_from_direction", here, globalClock, perturb),
		Temperature:       SampleAt(w.Temperature, "temperature", here, globalClock, perturb),
		RelativeHumidity:  SampleAt(w.RelativeHumidity, "relative_humidity", here, globalClock, perturb),
	}
}

// DeadFuelMoisture holds the three dead fuel moisture classes.
type DeadFuelMoisture struct {
	OneHour, TenHour, HundredHour float64
}

// LiveFuelMoisture holds the two live fuel moisture classes.
type LiveFuelMoisture struct {
	Herb, Woody float64
}

// FuelMoisture bundles dead and live fuel moisture fractions.
type FuelMoisture struct {
	Dead DeadFuelMoisture
	Live LiveFuelMoisture
}

// EMC computes the equilibrium moisture content (%) from relative
// humidity, via the standard three-branch piecewise fit.
func EMC(rh, temp float64) float64 {
	switch {
	case rh < 10:
		return 0.03229 + 0.281073*rh - 0.000578*rh*temp
	case rh < 50:
		return 2.22749 + 0.160107*rh - 0.01478*temp
	default:
		return 21.0606 + 0.005565*rh*rh - 0.00035*rh*temp - 0.483199*rh
	}
}

// FuelMoistureFrom implements fuel_moisture: derives dead
// and live fuel moisture fractions from relative humidity and
// temperature via equilibrium moisture content.
func FuelMoistureFrom(rh, temp float64) FuelMoisture {
	emc := EMC(rh, temp) / 30

	return FuelMoisture{
		Dead: DeadFuelMoisture{
			OneHour:     emc + 0.002,
			TenHour:     emc + 0.015,
			HundredHour: emc + 0.025,
		},
		Live: LiveFuelMoisture{
			Herb:  emc * 2.0,
			Woody: emc * 0.5,
		},
	}
}

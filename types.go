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

// Package firespread is a raster-based wildfire spread engine: an
// adaptive-timestep cellular automaton driven by the Rothermel surface
// fire model, the Van Wagner/Cruz crown fire model, and a stochastic
// firebrand spotting model.
package firespread

import (
	"github.com/caldera-sim/firespread/raster"
	"github.com/caldera-sim/firespread/spotting"
	"github.com/caldera-sim/firespread/weather"
)

// Landscape and Weather are defined in firespread/weather so that both
// this package and the weather package itself can use them without an
// import cycle; Config and the engine's public API alias them here.
type Landscape = weather.Landscape
type Weather = weather.Weather
type PerturbationSpec = weather.Perturbation
type SpottingConfig = spotting.Config

// offsetToDegrees is the azimuth table.
var offsetToDegrees = map[[2]int]float64{
	{-1, 0}:  0,
	{-1, 1}:  45,
	{0, 1}:   90,
	{1, 1}:   135,
	{1, 0}:   180,
	{1, -1}:  225,
	{0, -1}:  270,
	{-1, -1}: 315,
}

// trajectoryOffsets lists the eight neighbor offsets in a fixed,
// deterministic iteration order (row-major over (di,dj)), so that
// tie-breaking among simultaneous ignition candidates is reproducible.
var trajectoryOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// BurnTrajectory is one outgoing vector from an active source cell.
type BurnTrajectory struct {
	Cell               raster.Cell
	Offset             [2]int
	SpreadDirection    float64
	TerrainDistance    float64
	SpreadRate         float64
	FireLineIntensity  float64
	FlameLength        float64
	FractionalDistance float64
	CrownFire          bool
}

// SpotScheduleEntry is one pending spot ignition.
type SpotScheduleEntry struct {
	TIgnite float64
	P       float64
}

// IgnitedCell identifies one cell that ignited during the run.
type IgnitedCell struct {
	I, J int
}

// Diagnostics counts numeric anomalies recovered locally rather than
// raised as errors. The engine increments ClampedNegativeRates and
// ClampedNegativeIntensities; DegenerateFirebrands is never incremented,
// since spotting.Spot does not report degenerate firebrand draws.
type Diagnostics struct {
	ClampedNegativeRates       int
	ClampedNegativeIntensities int
	DegenerateFirebrands       int
}

// Result is the engine's output record.
type Result struct {
	GlobalClock       float64
	IgnitedCells      []IgnitedCell
	FireSpread        *raster.Grid
	FlameLength       *raster.Grid
	FireLineIntensity *raster.Grid
	BurnTime          *raster.Grid
	FirebrandCount    *raster.Grid
	Diagnostics       Diagnostics
}

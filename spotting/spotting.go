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

// Package spotting implements firebrand transport: gating a spot-fire
// draw off an ignition event, dispersing firebrands downwind, and
// scheduling spot ignitions at their landing cells. Unit
// conversions into SI, where the underlying physical relations are
// defined, are kept as small pure functions rather than pulling in a
// dimension-checked unit library (see DESIGN.md).
package spotting

import (
	"math"
	"sort"

	"github.com/caldera-sim/firespread/fuel"
	"github.com/caldera-sim/firespread/raster"
	"github.com/caldera-sim/firespread/sampling"
	"github.com/caldera-sim/firespread/weather"
)

const gravity = 9.81 // m/s^2

// IntBound is either a fixed integer (Range nil) or a uniform [Min,Max]
// integer range.
type IntBound struct {
	Fixed int
	Range *[2]int
}

// Sample draws a value from b.
func (b IntBound) Sample(gen *sampling.Generator) int {
	if b.Range == nil {
		return b.Fixed
	}
	return gen.UniformInt(b.Range[0], b.Range[1])
}

// CountSpec describes num_firebrands: a fixed count, or a {lo,hi} pair
// (each possibly itself a uniform-int range) from which a firebrand
// count is drawn uniformly.
type CountSpec struct {
	Fixed *int
	Lo, Hi IntBound
}

// Sample draws the firebrand count for one ignition event.
func (c CountSpec) Sample(gen *sampling.Generator) int {
	if c.Fixed != nil {
		return *c.Fixed
	}
	lo, hi := c.Lo.Sample(gen), c.Hi.Sample(gen)
	return gen.UniformInt(lo, hi)
}

// PercentSpec is either a fixed percent or a [lo,hi] uniform range, used
// for crown_fire_spotting_percent.
type PercentSpec struct {
	Fixed *float64
	Range *[2]float64
}

// Sample draws a percent value from p.
func (p PercentSpec) Sample(gen *sampling.Generator) float64 {
	if p.Range == nil {
		return *p.Fixed
	}
	return gen.UniformFloat(p.Range[0], p.Range[1])
}

// FuelModelRange is an inclusive [Lo,Hi] fuel model code range.
type FuelModelRange struct{ Lo, Hi int }

// SurfaceSpotEntry is one row of the surface-fire spotting-percent
// table: fuel models in FuelModels get Percent.
type SurfaceSpotEntry struct {
	FuelModels FuelModelRange
	Percent    float64
}

// SurfaceSpotting configures surface-fire spotting eligibility and the
// ordered fuel-model lookup table. Later entries in SpottingPercent
// override earlier ones on overlapping ranges.
type SurfaceSpotting struct {
	CriticalFireLineIntensity float64
	SpottingPercent           []SurfaceSpotEntry
}

// PercentFor returns the configured spot percent for fuelModelNumber,
// or 0 if no entry matches.
func (s SurfaceSpotting) PercentFor(fuelModelNumber float64) float64 {
	n := int(fuelModelNumber)
	percent := 0.0
	for _, e := range s.SpottingPercent {
		if n >= e.FuelModels.Lo && n <= e.FuelModels.Hi {
			percent = e.Percent
		}
	}
	return percent
}

// Config is the spotting configuration block.
type Config struct {
	NumFirebrands            CountSpec
	AmbientGasDensity        float64 // kg/m^3
	SpecificHeatGas          float64 // kJ/(kg*K)
	DecayConstant            float64
	CrownFireSpottingPercent PercentSpec
	SurfaceFireSpotting      *SurfaceSpotting // nil disables surface spotting
}

// CrownSpotFire draws whether a crown-fire ignition event throws spot fires.
func CrownSpotFire(cfg Config, gen *sampling.Generator) bool {
	p := cfg.CrownFireSpottingPercent.Sample(gen)
	return p >= gen.UniformFloat(0, 1)
}

// SurfaceSpotFire draws whether a surface-fire ignition event throws spot fires.
func SurfaceSpotFire(cfg Config, fuelModelNumber, intensity float64, gen *sampling.Generator) bool {
	if cfg.SurfaceFireSpotting == nil {
		return false
	}
	if intensity <= cfg.SurfaceFireSpotting.CriticalFireLineIntensity {
		return false
	}
	percent := cfg.SurfaceFireSpotting.PercentFor(fuelModelNumber)
	return percent >= gen.UniformFloat(0, 1)
}

// Event is the ignition event spotting is invoked for.
type Event struct {
	Source          raster.Cell
	SourceElevation float64
	FuelModelNumber float64
	Intensity       float64 // Btu/ft-s
	FlameLength     float64 // ft
	CrownFire       bool
}

// SourceWeather is the weather sampled at the ignition event's source
// cell. Schroeder ignition probability at the landing cell uses the
// source's weather, not the landing cell's: the source is where the
// torching that released firebrands happened, and nothing in the
// dispersal model resamples weather at the landing site.
type SourceWeather struct {
	WindSpeed20ft     float64 // mph
	WindFromDirection float64 // degrees CW from north
	Temperature       float64 // deg F
	RelativeHumidity  float64 // %
}

// Candidate is a scheduled spot ignition: cell, its ignition time, and
// the aggregated spot probability p (used as the fractional fire_spread
// value for a partially-ignited cell).
type Candidate struct {
	Cell    raster.Cell
	TIgnite float64
	P       float64
}

func btuFtSToKWm(i float64) float64 { return i * 3.46165 }
func mphToMs(v float64) float64     { return v * 0.44704 }
func fToK(f float64) float64        { return (f-32)*5/9 + 273.15 }
func fToC(f float64) float64        { return (f - 32) * 5 / 9 }
func mToFt(m float64) float64       { return m * 3.28084 }
func degToRad(d float64) float64    { return d * math.Pi / 180 }
func radToDeg(r float64) float64    { return r * 180 / math.Pi }

// schroederIgnProb computes the Schroeder fine-fuel ignition probability.
func schroederIgnProb(rh, temp float64) float64 {
	moisture := weather.FuelMoistureFrom(rh, temp).Dead.OneHour
	tc := fToC(temp)
	const tig = 320.0
	cf := 0.266 + 0.0016*(tig+tc)/2
	qig := (tig-tc)*cf + (100-tc)*moisture + 18.54*(1-math.Exp(-15.1*moisture)) + 540*moisture
	x := (400 - qig) / 10
	if x < 0 {
		x = 0
	}
	return 4.8e-5 * math.Pow(x, 4.3) / 50
}

// timeToMaxHeight estimates the time a firebrand plume takes to reach
// its maximum height, in minutes.
func timeToMaxHeight(flameLengthM, windSI float64) float64 {
	if windSI <= 0 || flameLengthM <= 0 {
		return 0
	}
	const a = 5.963
	const b = a - 1.4
	const d = 0.003
	zMax := 0.39 * d * 1e5
	sec := 2*flameLengthM/windSI + 1.2 + (a/3)*math.Pow((b+zMax/flameLengthM)/a, 1.5) - a/3
	return sec / 60
}

// Spot runs the full firebrand spotting pipeline for one ignition
// event: gating, per-firebrand dispersal, firebrand accounting, and
// ignition scheduling. l supplies fuel model and elevation lookups for
// landing cells. The returned deposit map counts every firebrand that
// landed in-bounds on a burnable cell, keyed by landing cell,
// regardless of whether that cell went on to survive the
// ignition-probability draw; the returned candidates are only the
// landing cells that did survive it. Both are nil if the event is not
// gated into spotting.
func Spot(cfg Config, event Event, sw SourceWeather, l *weather.Landscape, gen *sampling.Generator, globalClock float64) ([]Candidate, map[raster.Cell]int) {
	var gated bool
	if event.CrownFire {
		gated = CrownSpotFire(cfg, gen)
	} else {
		gated = SurfaceSpotFire(cfg, event.FuelModelNumber, event.Intensity, gen)
	}
	if !gated {
		return nil, nil
	}

	n := cfg.NumFirebrands.Sample(gen)
	if n <= 0 {
		return nil, nil
	}

	intensitySI := btuFtSToKWm(event.Intensity)
	windSI := mphToMs(sw.WindSpeed20ft)
	tempK := fToK(sw.Temperature)

	var lc float64
	if cfg.AmbientGasDensity > 0 && cfg.SpecificHeatGas > 0 && tempK > 0 && intensitySI > 0 {
		lc = math.Pow(intensitySI/(cfg.AmbientGasDensity*cfg.SpecificHeatGas*tempK*math.Sqrt(gravity)), 2.0/3.0)
	}
	froude := math.Inf(1)
	if lc > 0 {
		froude = windSI / math.Sqrt(gravity*lc)
	}
	buoyancyDriven := froude <= 1

	ii, wi := intensitySI, windSI
	if ii <= 0 {
		ii = 1e-9
	}
	if wi <= 0 {
		wi = 1e-9
	}
	var muPar, sigmaPar float64
	if buoyancyDriven {
		muPar = 1.47*math.Pow(ii, 0.54)*math.Pow(wi, -0.55) + 1.14
		sigmaPar = 0.86*math.Pow(ii, -0.21)*math.Pow(wi, 0.44) + 0.19
	} else {
		muPar = 1.32*math.Pow(ii, 0.26)*math.Pow(wi, 0.11) - 0.02
		sigmaPar = 4.95*math.Pow(ii, -0.01)*math.Pow(wi, -0.02) - 3.48
	}

	windToDirection := math.Mod(sw.WindFromDirection+180, 360)
	halfCell := l.CellSize / 2

	firebrandCount := map[raster.Cell]int{}
	for k := 0; k < n; k++ {
		dPar := gen.LogNormal(muPar, sigmaPar)
		dPerp := gen.Normal(0, 0.92)
		dParFt := mToFt(dPar)
		dPerpFt := mToFt(dPerp)
		h := math.Hypot(dParFt, dPerpFt)

		theta := windToDirection
		switch {
		case dParFt != 0:
			theta += radToDeg(math.Atan2(dPerpFt, dParFt))
		case dPerpFt != 0:
			theta += 90
		}
		thetaRad := degToRad(theta)
		dx := -h * math.Cos(thetaRad)
		dy := h * math.Sin(thetaRad)

		di := int(dx / halfCell)
		dj := int(dy / halfCell)
		landing := raster.Cell{I: event.Source.I + di, J: event.Source.J + dj}
		if landing == event.Source || !l.FuelModel.InBounds(landing) {
			continue
		}
		if !fuel.Burnable(l.FuelModel.GetCell(landing)) {
			continue
		}
		firebrandCount[landing]++
	}
	if len(firebrandCount) == 0 {
		return nil, nil
	}

	flameLengthM := event.FlameLength / 3.28084
	tIgnite := globalClock + 2*timeToMaxHeight(flameLengthM, windSI) + 20
	pSchroeder := schroederIgnProb(sw.RelativeHumidity, sw.Temperature)

	cells := make([]raster.Cell, 0, len(firebrandCount))
	for c := range firebrandCount {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(a, b int) bool {
		if cells[a].I != cells[b].I {
			return cells[a].I < cells[b].I
		}
		return cells[a].J < cells[b].J
	})

	var candidates []Candidate
	for _, cell := range cells {
		k := firebrandCount[cell]
		landingElev := l.Elevation.GetCell(cell)
		dist := raster.TerrainDistance3D(l.CellSize, cell.I-event.Source.I, cell.J-event.Source.J, event.SourceElevation, landingElev)
		decay := math.Exp(-cfg.DecayConstant * dist)
		pSpot := 1 - math.Pow(1-pSchroeder*decay, float64(k))
		u := gen.UniformFloat(0, 1)
		if pSpot > u {
			candidates = append(candidates, Candidate{Cell: cell, TIgnite: tIgnite, P: pSpot})
		}
	}
	return candidates, firebrandCount
}

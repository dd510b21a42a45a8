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

package firespread

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/caldera-sim/firespread/fuel"
	"github.com/caldera-sim/firespread/raster"
	"github.com/caldera-sim/firespread/sampling"
)

// SimulationInputs is the engine's input record.
type SimulationInputs struct {
	Landscape               *Landscape
	Weather                 *Weather
	MaxRuntime              float64 // minutes
	EllipseAdjustmentFactor float64
	FoliarMoisture          float64 // fraction, e.g. 0.9 (already converted from percent)
	Perturbations           map[string]PerturbationSpec
	Spotting                *SpottingConfig
	RandomSeed              int64

	memoCapacity int // 0 means use defaultMemoCapacity; exposed for tests
}

const defaultMemoCapacity = 4096

// ignitionKind tags the three ignition variants.
type ignitionKind int

const (
	ignitionRandom ignitionKind = iota
	ignitionPoint
	ignitionPerimeter
)

// Ignition is a tagged variant selecting how the simulation seeds its
// first ignited cells.
type Ignition struct {
	kind      ignitionKind
	i, j      int
	perimeter *raster.Grid
}

// RandomIgnition reject-samples a burnable cell with a burnable
// neighbor.
func RandomIgnition() Ignition { return Ignition{kind: ignitionRandom} }

// PointIgnition seeds a single explicit cell.
func PointIgnition(i, j int) Ignition { return Ignition{kind: ignitionPoint, i: i, j: j} }

// PerimeterIgnition seeds every nonzero cell of perimeter as already
// burning at t=0.
func PerimeterIgnition(perimeter *raster.Grid) Ignition {
	return Ignition{kind: ignitionPerimeter, perimeter: perimeter}
}

// validateInputs checks SimulationInputs for the structural problems
// Run refuses to start with.
func validateInputs(in SimulationInputs) error {
	l := in.Landscape
	if l == nil {
		return newError(InvalidInput, "Run", fmt.Errorf("landscape is nil"))
	}
	layers := map[string]*raster.Grid{
		"aspect": l.Aspect, "slope": l.Slope, "elevation": l.Elevation,
		"fuel_model": l.FuelModel, "canopy_cover": l.CanopyCover,
		"canopy_height": l.CanopyHeight, "canopy_base_height": l.CanopyBaseHeight,
		"crown_bulk_density": l.CrownBulkDensity,
	}
	names := make([]string, 0, len(layers))
	for name := range layers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		g := layers[name]
		if g == nil {
			return newError(InvalidInput, "Run", fmt.Errorf("landscape layer %q is missing", name))
		}
		rows, cols := g.Dims()
		if rows != l.NumRows || cols != l.NumCols {
			return newError(InvalidInput, "Run", fmt.Errorf("landscape layer %q has dims %dx%d, want %dx%d", name, rows, cols, l.NumRows, l.NumCols))
		}
		var badCell error
		g.ForEach(func(i, j int, v float64) {
			if badCell == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
				badCell = fmt.Errorf("landscape layer %q has a non-finite value at (%d,%d)", name, i, j)
			}
		})
		if badCell != nil {
			return newError(InvalidInput, "Run", badCell)
		}
	}
	if in.MaxRuntime <= 0 {
		return newError(InvalidInput, "Run", fmt.Errorf("max_runtime must be > 0, got %v", in.MaxRuntime))
	}
	if in.Spotting != nil {
		if in.Spotting.CrownFireSpottingPercent.Fixed == nil && in.Spotting.CrownFireSpottingPercent.Range == nil {
			return newError(InvalidInput, "Run", fmt.Errorf("spotting is configured but crown_fire_spotting_percent is unset"))
		}
	}
	return nil
}

// engine holds the mutable state of one simulation run. It is never
// shared across goroutines; independent Monte Carlo runs each
// construct their own engine over the same immutable Landscape and
// Weather.
type engine struct {
	in      SimulationInputs
	gen     *sampling.Generator
	memo    *rothermelMemo
	perturb *sampling.PerturbationState
	log     *logrus.Entry

	globalClock float64

	fireSpread        *raster.Grid
	flameLength       *raster.Grid
	fireLineIntensity *raster.Grid
	burnTime          *raster.Grid
	firebrandCount    *raster.Grid

	activeFront  map[raster.Cell][]BurnTrajectory
	spotSchedule map[raster.Cell]SpotScheduleEntry

	ignited map[raster.Cell]bool
	order   []raster.Cell // insertion order, for a deterministic IgnitedCells result

	diag Diagnostics
}

func newEngine(in SimulationInputs, log *logrus.Entry) *engine {
	if log == nil {
		log = logrus.NewEntry(&logrus.Logger{Out: discardWriter{}, Level: logrus.PanicLevel, Formatter: &logrus.TextFormatter{}})
	}
	capacity := in.memoCapacity
	if capacity <= 0 {
		capacity = defaultMemoCapacity
	}
	rows, cols := in.Landscape.NumRows, in.Landscape.NumCols
	gen := sampling.NewGenerator(in.RandomSeed)

	e := &engine{
		in:                in,
		gen:               gen,
		memo:              newRothermelMemo(capacity),
		perturb:           sampling.NewPerturbationState(in.RandomSeed, gen, in.Perturbations),
		log:               log,
		fireSpread:        raster.NewGrid(rows, cols),
		flameLength:       raster.NewGrid(rows, cols),
		fireLineIntensity: raster.NewGrid(rows, cols),
		burnTime:          raster.NewGrid(rows, cols),
		firebrandCount:    raster.NewGrid(rows, cols),
		activeFront:       map[raster.Cell][]BurnTrajectory{},
		spotSchedule:      map[raster.Cell]SpotScheduleEntry{},
		ignited:           map[raster.Cell]bool{},
	}
	e.burnTime.Fill(-1)
	return e
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func (e *engine) burnable(c raster.Cell) bool {
	if !e.in.Landscape.FuelModel.InBounds(c) {
		return false
	}
	if e.fireSpread.GetCell(c) > 0 {
		return false
	}
	return fuel.Burnable(e.in.Landscape.FuelModel.GetCell(c))
}

func (e *engine) hasBurnableNeighbor(c raster.Cell) bool {
	for _, off := range trajectoryOffsets {
		n := raster.Cell{I: c.I + off[0], J: c.J + off[1]}
		if e.burnable(n) {
			return true
		}
	}
	return false
}

func (e *engine) markIgnited(c raster.Cell) {
	if !e.ignited[c] {
		e.ignited[c] = true
		e.order = append(e.order, c)
	}
}

func (e *engine) result() *Result {
	cells := make([]IgnitedCell, len(e.order))
	for i, c := range e.order {
		cells[i] = IgnitedCell{I: c.I, J: c.J}
	}
	r := &Result{
		GlobalClock:       e.globalClock,
		IgnitedCells:      cells,
		FireSpread:        e.fireSpread,
		FlameLength:       e.flameLength,
		FireLineIntensity: e.fireLineIntensity,
		BurnTime:          e.burnTime,
		Diagnostics:       e.diag,
	}
	if e.in.Spotting != nil {
		r.FirebrandCount = e.firebrandCount
	}
	return r
}

// Run drives one simulation to termination.
func Run(in SimulationInputs, ignition Ignition, log *logrus.Entry) (*Result, error) {
	if err := validateInputs(in); err != nil {
		return nil, err
	}

	e := newEngine(in, log)

	switch ignition.kind {
	case ignitionRandom:
		c, ok := e.seedRandom()
		if !ok {
			return nil, newError(IgnitionRejected, "Run", fmt.Errorf("no burnable cell with a burnable neighbor exists"))
		}
		e.seedPoint(c)
	case ignitionPoint:
		c := raster.Cell{I: ignition.i, J: ignition.j}
		if !e.in.Landscape.FuelModel.InBounds(c) || !fuel.Burnable(e.in.Landscape.FuelModel.GetCell(c)) || !e.hasBurnableNeighbor(c) {
			return nil, newError(IgnitionRejected, "Run", fmt.Errorf("ignition point (%d,%d) is out of bounds, non-burnable, or has no burnable neighbor", ignition.i, ignition.j))
		}
		e.seedPoint(c)
	case ignitionPerimeter:
		if err := e.seedPerimeter(ignition.perimeter); err != nil {
			return nil, err
		}
	}

	e.runLoop()
	return e.result(), nil
}

func (e *engine) seedRandom() (raster.Cell, bool) {
	rows, cols := e.in.Landscape.NumRows, e.in.Landscape.NumCols
	const maxAttempts = 10000
	for attempt := 0; attempt < maxAttempts; attempt++ {
		i := e.gen.UniformInt(0, rows-1)
		j := e.gen.UniformInt(0, cols-1)
		c := raster.Cell{I: i, J: j}
		if fuel.Burnable(e.in.Landscape.FuelModel.GetCell(c)) && e.hasBurnableNeighbor(c) {
			return c, true
		}
	}
	// Exhaustive fallback in row-major order, for small or densely
	// barriered grids where rejection sampling is unlikely to hit.
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			c := raster.Cell{I: i, J: j}
			if fuel.Burnable(e.in.Landscape.FuelModel.GetCell(c)) && e.hasBurnableNeighbor(c) {
				return c, true
			}
		}
	}
	return raster.Cell{}, false
}

func (e *engine) seedPoint(c raster.Cell) {
	e.fireSpread.SetCell(c, 1.0)
	e.flameLength.SetCell(c, 1.0)
	e.fireLineIntensity.SetCell(c, 1.0)
	e.burnTime.SetCell(c, e.globalClock)
	e.markIgnited(c)
	e.activeFront[c] = e.computeNeighborhood(c, [2]int{}, 0)
}

func (e *engine) seedPerimeter(perimeter *raster.Grid) error {
	if perimeter == nil {
		return newError(InvalidInput, "Run", fmt.Errorf("perimeter ignition requires a non-nil matrix"))
	}
	rows, cols := perimeter.Dims()
	if rows != e.in.Landscape.NumRows || cols != e.in.Landscape.NumCols {
		return newError(InvalidInput, "Run", fmt.Errorf("perimeter dims %dx%d do not match landscape %dx%d", rows, cols, e.in.Landscape.NumRows, e.in.Landscape.NumCols))
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if perimeter.Get(i, j) == 0 {
				continue
			}
			c := raster.Cell{I: i, J: j}
			e.fireSpread.SetCell(c, 1.0)
			e.flameLength.SetCell(c, -1.0)
			e.fireLineIntensity.SetCell(c, -1.0)
			e.burnTime.SetCell(c, -1.0)
			e.markIgnited(c)
		}
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if perimeter.Get(i, j) == 0 {
				continue
			}
			c := raster.Cell{I: i, J: j}
			if e.hasBurnableNeighbor(c) {
				e.activeFront[c] = e.computeNeighborhood(c, [2]int{}, 0)
			}
		}
	}
	return nil
}

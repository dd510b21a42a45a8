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

// Package montecarlo runs many independent firespread simulations over
// the same immutable landscape and weather, striping them across
// GOMAXPROCS workers the way inmap's run.go:Calculations stripes its
// per-cell calculators, and aggregates their outcomes into a
// burn-probability raster.
package montecarlo

import (
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	firespread "github.com/caldera-sim/firespread"
	"github.com/caldera-sim/firespread/raster"
)

// Run is one completed simulation's outcome, tagged with a UUID so
// parallel runs can be told apart without a shared counter.
type Run struct {
	ID     string
	Seed   int64
	Result *firespread.Result
	Err    error
}

// AggregateResult is the output of a Monte Carlo batch: the
// per-iteration runs, plus a burn-probability raster counting the
// fraction of successful runs in which each cell ignited (failed runs
// are left out of both numerator and denominator).
type AggregateResult struct {
	Runs            []Run
	BurnProbability *raster.Grid
}

// Options configures one Monte Carlo batch.
type Options struct {
	Iterations  int
	BaseInputs  firespread.SimulationInputs // RandomSeed is overridden per run
	NewIgnition func(seed int64) firespread.Ignition
	Log         *logrus.Entry
}

// RunBatch drives Options.Iterations independent simulations, each with
// its own seed derived from the batch seed and its own UUID, and
// aggregates their result matrices into a burn-probability raster.
// Independent runs share only the immutable Landscape/Weather in
// BaseInputs; each run allocates its own mutable result
// matrices inside firespread.Run.
func RunBatch(opts Options) *AggregateResult {
	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}

	runs := make([]Run, opts.Iterations)
	nprocs := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			for i := pp; i < opts.Iterations; i += nprocs {
				seed := opts.BaseInputs.RandomSeed + int64(i)
				in := opts.BaseInputs
				in.RandomSeed = seed

				ignition := opts.NewIgnition(seed)
				result, err := firespread.Run(in, ignition, log.WithField("run_index", i))
				runs[i] = Run{ID: uuid.NewString(), Seed: seed, Result: result, Err: err}
			}
		}(pp)
	}
	wg.Wait()

	agg := &AggregateResult{Runs: runs}
	rows, cols := opts.BaseInputs.Landscape.NumRows, opts.BaseInputs.Landscape.NumCols
	counts := raster.NewGrid(rows, cols)
	successful := 0
	for _, r := range runs {
		if r.Err != nil || r.Result == nil {
			continue
		}
		successful++
		for _, c := range r.Result.IgnitedCells {
			counts.Set(c.I, c.J, counts.Get(c.I, c.J)+1)
		}
	}

	prob := raster.NewGrid(rows, cols)
	if successful > 0 {
		counts.ForEach(func(i, j int, v float64) {
			prob.Set(i, j, v/float64(successful))
		})
	}
	agg.BurnProbability = prob

	log.WithFields(map[string]interface{}{
		"iterations": opts.Iterations,
		"successful": successful,
	}).Info("montecarlo: batch complete")

	return agg
}

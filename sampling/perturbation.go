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

package sampling

import (
	"math"
	"sort"
	"strconv"

	"github.com/caldera-sim/firespread/raster"
	"github.com/caldera-sim/firespread/weather"
)

// PerturbationState implements weather.PerturbSource, holding one
// perturbation offset generator per configured layer.
type PerturbationState struct {
	seed   int64
	specs  map[string]weather.Perturbation
	global map[string]float64 // layer -> pre-drawn offset, for spatial_type=="global"
}

// NewPerturbationState builds a PerturbationState for the given specs,
// pre-drawing the global offsets from gen (so they take their place in
// the simulation's guaranteed draw order) and leaving pixel offsets to
// be derived on demand, keyed rather than drawn in order.
func NewPerturbationState(seed int64, gen *Generator, specs map[string]weather.Perturbation) *PerturbationState {
	st := &PerturbationState{seed: seed, specs: specs, global: map[string]float64{}}

	layers := make([]string, 0, len(specs))
	for layer := range specs {
		layers = append(layers, layer)
	}
	sort.Strings(layers)

	for _, layer := range layers {
		spec := specs[layer]
		if spec.SpatialType == "global" {
			st.global[layer] = gen.UniformFloat(spec.Lo, spec.Hi)
		}
	}
	return st
}

// Offset implements weather.PerturbSource.
func (st *PerturbationState) Offset(layer string, cell raster.Cell, globalClock float64) float64 {
	spec, ok := st.specs[layer]
	if !ok {
		return 0
	}
	if spec.SpatialType == "global" {
		return st.global[layer]
	}

	epoch := "fixed"
	if spec.Frequency > 0 {
		epoch = strconv.Itoa(int(math.Floor(globalClock / spec.Frequency)))
	}
	return keyedUniform(st.seed, spec.Lo, spec.Hi,
		"pixel", layer, strconv.Itoa(cell.I), strconv.Itoa(cell.J), epoch)
}

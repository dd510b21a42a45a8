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

package weather

import (
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/caldera-sim/firespread/raster"
)

const tol = 1e-6

func TestVariableIsScalar(t *testing.T) {
	v := Variable{Scalar: 5.0}
	if !v.IsScalar() {
		t.Error("a Variable with no Raster should be scalar")
	}
	v2 := Variable{Raster: raster.NewGrid3D(1, 2, 2)}
	if v2.IsScalar() {
		t.Error("a Variable with a Raster should not be scalar")
	}
}

func TestSampleAtScalar(t *testing.T) {
	v := Variable{Scalar: 12.5}
	got := SampleAt(v, "wind_speed_20ft", raster.Cell{I: 1, J: 1}, 30, nil)
	if got != 12.5 {
		t.Errorf("SampleAt scalar = %v, want 12.5", got)
	}
}

func TestSampleAtRasterBand(t *testing.T) {
	g := raster.NewGrid3D(2, 3, 3)
	g.Set(0, 1, 1, 10)
	g.Set(1, 1, 1, 20)
	v := Variable{Raster: g}

	// globalClock=30 min falls in the first hour band (band 0).
	if got := SampleAt(v, "temperature", raster.Cell{I: 1, J: 1}, 30, nil); got != 10 {
		t.Errorf("band 0 sample = %v, want 10", got)
	}
	// globalClock=90 min falls in the second hour band (band 1).
	if got := SampleAt(v, "temperature", raster.Cell{I: 1, J: 1}, 90, nil); got != 20 {
		t.Errorf("band 1 sample = %v, want 20", got)
	}
	// Clock beyond the available bands clamps to the last band.
	if got := SampleAt(v, "temperature", raster.Cell{I: 1, J: 1}, 1000, nil); got != 20 {
		t.Errorf("out-of-range clock should clamp to last band, got %v", got)
	}
}

func TestSampleAtResolutionMultiplier(t *testing.T) {
	g := raster.NewGrid3D(1, 2, 2)
	g.Set(0, 0, 0, 7)
	v := Variable{Raster: g, ResolutionMultiplier: 3}

	// Landscape cell (2,1) maps to weather cell (2/3, 1/3) = (0,0), the
	// one weather cell set above.
	got := SampleAt(v, "temperature", raster.Cell{I: 2, J: 1}, 0, nil)
	if got != 7 {
		t.Errorf("resolution-multiplier sample = %v, want 7", got)
	}
}

type fixedPerturb struct{ offset float64 }

func (f fixedPerturb) Offset(layer string, cell raster.Cell, globalClock float64) float64 {
	return f.offset
}

func TestSampleAtAddsPerturbation(t *testing.T) {
	v := Variable{Scalar: 10}
	got := SampleAt(v, "temperature", raster.Cell{I: 0, J: 0}, 0, fixedPerturb{offset: 2.5})
	if got != 12.5 {
		t.Errorf("SampleAt with perturbation = %v, want 12.5", got)
	}
}

func newTestLandscape() *Landscape {
	l := &Landscape{
		Aspect:           raster.NewGrid(2, 2),
		Slope:            raster.NewGrid(2, 2),
		Elevation:        raster.NewGrid(2, 2),
		FuelModel:        raster.NewGrid(2, 2),
		CanopyCover:      raster.NewGrid(2, 2),
		CanopyHeight:     raster.NewGrid(2, 2),
		CanopyBaseHeight: raster.NewGrid(2, 2),
		CrownBulkDensity: raster.NewGrid(2, 2),
		NumRows:          2,
		NumCols:          2,
		CellSize:         98.4,
	}
	l.FuelModel.Fill(1)
	return l
}

func TestExtractConstants(t *testing.T) {
	l := newTestLandscape()
	l.Aspect.Set(0, 0, 180)
	l.Slope.Set(0, 0, 0.3)

	w := &Weather{
		WindSpeed20ft:     Variable{Scalar: 8},
		WindFromDirection: Variable{Scalar: 270},
		Temperature:       Variable{Scalar: 85},
		RelativeHumidity:  Variable{Scalar: 22},
	}

	c := ExtractConstants(l, w, 0, raster.Cell{I: 0, J: 0}, nil)
	if c.Aspect != 180 || c.Slope != 0.3 {
		t.Errorf("ExtractConstants landscape fields wrong: %+v", c)
	}
	if c.WindSpeed20ft != 8 || c.WindFromDirection != 270 {
		t.Errorf("ExtractConstants weather fields wrong: %+v", c)
	}
}

func TestEMCMonotoneInRH(t *testing.T) {
	lo := EMC(5, 70)
	mid := EMC(30, 70)
	hi := EMC(80, 70)
	if !(lo < mid && mid < hi) {
		t.Errorf("EMC should increase with relative humidity: lo=%v mid=%v hi=%v", lo, mid, hi)
	}
}

func TestFuelMoistureFromOrdering(t *testing.T) {
	mf := FuelMoistureFrom(40, 75)
	if mf.Dead.OneHour >= mf.Dead.TenHour {
		t.Errorf("expected 1hr < 10hr dead moisture: %+v", mf)
	}
	if mf.Dead.TenHour >= mf.Dead.HundredHour {
		t.Errorf("expected 10hr < 100hr dead moisture: %+v", mf)
	}
	if mf.Live.Herb <= mf.Live.Woody {
		t.Errorf("expected herb moisture > woody moisture under this fit: %+v", mf)
	}
}

func TestFuelMoistureFromDeterministic(t *testing.T) {
	a := FuelMoistureFrom(35, 80)
	b := FuelMoistureFrom(35, 80)
	if !floats.EqualWithinAbsOrRel(a.Dead.OneHour, b.Dead.OneHour, tol, tol) {
		t.Errorf("FuelMoistureFrom should be a pure function of (rh,temp): a=%v b=%v", a, b)
	}
}

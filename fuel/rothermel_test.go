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

package fuel

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

const tol = 1e-6

func moisturizedGrass(t *testing.T) Model {
	t.Helper()
	base, err := Build(1)
	if err != nil {
		t.Fatalf("Build(1): %v", err)
	}
	return Moisturize(base, Moisture{Dead1h: 0.06, Dead10h: 0.07, Dead100h: 0.08, LiveHerb: 0.60, LiveWoody: 0.90})
}

func TestRothermelNoWindNoSlopePositive(t *testing.T) {
	min := RothermelNoWindNoSlope(moisturizedGrass(t))
	if min.R0 <= 0 {
		t.Errorf("R0 = %v, want > 0", min.R0)
	}
	if min.ReactionIntensity <= 0 {
		t.Errorf("ReactionIntensity = %v, want > 0", min.ReactionIntensity)
	}
	if min.ResidenceTime <= 0 {
		t.Errorf("ResidenceTime = %v, want > 0", min.ResidenceTime)
	}
}

func TestRothermelNoWindNoSlopeWetterFuelSlower(t *testing.T) {
	dry, err := Build(1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	dry = Moisturize(dry, Moisture{Dead1h: 0.04, Dead10h: 0.05, Dead100h: 0.06, LiveHerb: 0.60, LiveWoody: 0.90})
	wet := Moisturize(dry, Moisture{Dead1h: 0.20, Dead10h: 0.20, Dead100h: 0.20, LiveHerb: 0.60, LiveWoody: 0.90})

	r0Dry := RothermelNoWindNoSlope(dry).R0
	r0Wet := RothermelNoWindNoSlope(wet).R0
	if r0Wet >= r0Dry {
		t.Errorf("wetter fuel should spread slower: R0(wet)=%v, R0(dry)=%v", r0Wet, r0Dry)
	}
}

func TestRothermelMaxNoWindNoSlopeMatchesR0(t *testing.T) {
	min := RothermelNoWindNoSlope(moisturizedGrass(t))
	max := RothermelMax(min, 0, 0, 0, 0, 1.0)
	if !floats.EqualWithinAbsOrRel(max.MaxSpreadRate, min.R0, tol, tol) {
		t.Errorf("with no wind and no slope, MaxSpreadRate = %v, want R0 = %v", max.MaxSpreadRate, min.R0)
	}
	if max.Eccentricity != 0 {
		t.Errorf("Eccentricity = %v, want 0 with no wind", max.Eccentricity)
	}
}

func TestRothermelMaxWindIncreasesRate(t *testing.T) {
	min := RothermelNoWindNoSlope(moisturizedGrass(t))
	calm := RothermelMax(min, 0, 0, 0, 0, 1.0)
	windy := RothermelMax(min, 10, 0, 0, 0, 1.0)
	if windy.MaxSpreadRate <= calm.MaxSpreadRate {
		t.Errorf("wind should increase max spread rate: calm=%v windy=%v", calm.MaxSpreadRate, windy.MaxSpreadRate)
	}
	if windy.Eccentricity <= 0 {
		t.Errorf("wind should produce a non-circular ellipse: eccentricity = %v", windy.Eccentricity)
	}
}

func TestRothermelAnyIsMaxAtMaxDirection(t *testing.T) {
	min := RothermelNoWindNoSlope(moisturizedGrass(t))
	max := RothermelMax(min, 10, 0, 0, 0, 1.0)
	rate := RothermelAny(max, max.MaxSpreadDirection)
	if !floats.EqualWithinAbsOrRel(rate, max.MaxSpreadRate, tol, tol) {
		t.Errorf("RothermelAny at MaxSpreadDirection = %v, want %v", rate, max.MaxSpreadRate)
	}
}

func TestRothermelAnySymmetricAboutMaxDirection(t *testing.T) {
	min := RothermelNoWindNoSlope(moisturizedGrass(t))
	max := RothermelMax(min, 10, 90, 0, 0, 1.0)
	left := RothermelAny(max, max.MaxSpreadDirection-30)
	right := RothermelAny(max, max.MaxSpreadDirection+30)
	if !floats.EqualWithinAbsOrRel(left, right, tol, tol) {
		t.Errorf("ellipse should be symmetric about the max-spread direction: left=%v right=%v", left, right)
	}
}

func TestRothermelAnyOppositeDirectionIsSlowest(t *testing.T) {
	min := RothermelNoWindNoSlope(moisturizedGrass(t))
	max := RothermelMax(min, 15, 0, 0, 0, 1.0)
	forward := RothermelAny(max, max.MaxSpreadDirection)
	backward := RothermelAny(max, math.Mod(max.MaxSpreadDirection+180, 360))
	if backward >= forward {
		t.Errorf("backing spread rate should be less than heading rate: backward=%v forward=%v", backward, forward)
	}
}

func TestWindAdjustmentFactorUnsheltered(t *testing.T) {
	waf := WindAdjustmentFactor(1.0, 0, 0)
	if waf <= 0 || waf > 1 {
		t.Errorf("WindAdjustmentFactor = %v, want in (0,1]", waf)
	}
}

func TestWindAdjustmentFactorShelteredIsSmaller(t *testing.T) {
	open := WindAdjustmentFactor(1.0, 0, 0)
	sheltered := WindAdjustmentFactor(1.0, 60, 70)
	if sheltered >= open {
		t.Errorf("a canopy should reduce midflame wind: open=%v sheltered=%v", open, sheltered)
	}
}

func TestByramIntensityAndFlameLength(t *testing.T) {
	intensity := ByramIntensity(6000, 2.0)
	if intensity <= 0 {
		t.Fatalf("ByramIntensity = %v, want > 0", intensity)
	}
	fl := ByramFlameLength(intensity)
	if fl <= 0 {
		t.Errorf("ByramFlameLength = %v, want > 0", fl)
	}
	// A tenfold increase in intensity should not produce a tenfold
	// increase in flame length: Byram's relation is sublinear (^0.46).
	fl2 := ByramFlameLength(intensity * 10)
	if fl2 >= fl*10 {
		t.Errorf("flame length should grow sublinearly with intensity: fl=%v fl2=%v", fl, fl2)
	}
}

func TestByramFlameLengthZeroIntensity(t *testing.T) {
	if fl := ByramFlameLength(0); fl != 0 {
		t.Errorf("ByramFlameLength(0) = %v, want 0", fl)
	}
}

func TestAndersonFlameDepthNonNegative(t *testing.T) {
	if d := AndersonFlameDepth(-5, 2); d != 0 {
		t.Errorf("AndersonFlameDepth with negative rate should clamp to 0, got %v", d)
	}
	if d := AndersonFlameDepth(10, 2); d != 20 {
		t.Errorf("AndersonFlameDepth(10,2) = %v, want 20", d)
	}
}

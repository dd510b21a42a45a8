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

// Package fuel implements the surface fire behavior model: fuel model
// construction from Anderson (1982) coefficients, the Rothermel (1972)
// spread-rate equations, and the Byram intensity/flame length relations.
// Every function here is pure and safe to memoize on its inputs.
package fuel

import "fmt"

// Model holds the particle and fuel-bed coefficients for one fuel model,
// plus the moisture content once Moisturize has been applied.
type Model struct {
	Number int

	// Ovendry fuel loading, tons/acre converted to lb/ft^2.
	Load1h, Load10h, Load100h, LoadHerb, LoadWoody float64

	// Surface-area-to-volume ratio, 1/ft.
	SAV1h, SAVHerb, SAVWoody float64

	Depth               float64 // fuel bed depth, ft
	HeatContent         float64 // Btu/lb
	ExtinctionMoisture  float64 // dead fuel moisture of extinction, fraction
	Dynamic             bool    // true if live herbaceous load transfers to dead as it cures

	Moisture Moisture
}

// Moisture holds fuel moisture fractions for each particle class.
type Moisture struct {
	Dead1h, Dead10h, Dead100h float64
	LiveHerb, LiveWoody       float64
}

// barrier fuel model codes: 91..99 inclusive are non-burnable.
const (
	barrierLo = 91
	barrierHi = 99
)

// Burnable reports whether fuelModelNumber (a 1..256 fuel model code)
// represents a burnable fuel.
func Burnable(fuelModelNumber float64) bool {
	n := int(fuelModelNumber)
	if float64(n) != fuelModelNumber {
		return false
	}
	if n <= 0 || n > 256 {
		return false
	}
	if n >= barrierLo && n <= barrierHi {
		return false
	}
	return true
}

// standard holds the 13 Anderson (1982) fuel models. Fuel model codes
// outside this table and outside the 91-99 barrier range are rejected by
// Build: this catalog covers the original 13 models rather than the
// full 40-model Scott & Burgan extension.
var standard = map[int]Model{
	1:  {Load1h: 0.0340, Load10h: 0, Load100h: 0, LoadHerb: 0, LoadWoody: 0, SAV1h: 3500, SAVHerb: 1500, SAVWoody: 1500, Depth: 1.0, HeatContent: 8000, ExtinctionMoisture: 0.12},
	2:  {Load1h: 0.0918, Load10h: 0.0459, Load100h: 0.0230, LoadHerb: 0.0230, LoadWoody: 0, SAV1h: 3000, SAVHerb: 1500, SAVWoody: 1500, Depth: 1.0, HeatContent: 8000, ExtinctionMoisture: 0.15, Dynamic: true},
	3:  {Load1h: 0.1382, Load10h: 0, Load100h: 0, LoadHerb: 0, LoadWoody: 0, SAV1h: 1500, SAVHerb: 1500, SAVWoody: 1500, Depth: 2.5, HeatContent: 8000, ExtinctionMoisture: 0.25},
	4:  {Load1h: 0.2300, Load10h: 0.1842, Load100h: 0.0918, LoadHerb: 0, LoadWoody: 0.2300, SAV1h: 2000, SAVHerb: 1500, SAVWoody: 1500, Depth: 6.0, HeatContent: 8000, ExtinctionMoisture: 0.20},
	5:  {Load1h: 0.0459, Load10h: 0.0230, Load100h: 0, LoadHerb: 0, LoadWoody: 0.0918, SAV1h: 2000, SAVHerb: 1500, SAVWoody: 1500, Depth: 2.0, HeatContent: 8000, ExtinctionMoisture: 0.20},
	6:  {Load1h: 0.0689, Load10h: 0.1148, Load100h: 0.0918, LoadHerb: 0, LoadWoody: 0, SAV1h: 1750, SAVHerb: 1500, SAVWoody: 1500, Depth: 2.5, HeatContent: 8000, ExtinctionMoisture: 0.25},
	7:  {Load1h: 0.0519, Load10h: 0.0859, Load100h: 0.0689, LoadHerb: 0, LoadWoody: 0.0170, SAV1h: 1750, SAVHerb: 1500, SAVWoody: 1500, Depth: 2.5, HeatContent: 8000, ExtinctionMoisture: 0.40},
	8:  {Load1h: 0.0689, Load10h: 0.0459, Load100h: 0.1148, LoadHerb: 0, LoadWoody: 0, SAV1h: 2000, SAVHerb: 1500, SAVWoody: 1500, Depth: 0.2, HeatContent: 8000, ExtinctionMoisture: 0.30},
	9:  {Load1h: 0.1341, Load10h: 0.0188, Load100h: 0.0069, LoadHerb: 0, LoadWoody: 0, SAV1h: 2500, SAVHerb: 1500, SAVWoody: 1500, Depth: 0.2, HeatContent: 8000, ExtinctionMoisture: 0.25},
	10: {Load1h: 0.1382, Load10h: 0.0918, Load100h: 0.2300, LoadHerb: 0, LoadWoody: 0.0918, SAV1h: 2000, SAVHerb: 1500, SAVWoody: 1500, Depth: 1.0, HeatContent: 8000, ExtinctionMoisture: 0.25},
	11: {Load1h: 0.0689, Load10h: 0.2071, Load100h: 0.2530, LoadHerb: 0, LoadWoody: 0, SAV1h: 1500, SAVHerb: 1500, SAVWoody: 1500, Depth: 1.0, HeatContent: 8000, ExtinctionMoisture: 0.15},
	12: {Load1h: 0.1842, Load10h: 0.6443, Load100h: 0.7576, LoadHerb: 0, LoadWoody: 0, SAV1h: 1500, SAVHerb: 1500, SAVWoody: 1500, Depth: 2.3, HeatContent: 8000, ExtinctionMoisture: 0.20},
	13: {Load1h: 0.3219, Load10h: 1.0560, Load100h: 1.2856, LoadHerb: 0, LoadWoody: 0, SAV1h: 1500, SAVHerb: 1500, SAVWoody: 1500, Depth: 3.0, HeatContent: 8000, ExtinctionMoisture: 0.25},
}

// Build returns the fuel model for integer code n. Loadings in the table
// above are already expressed in lb/ft^2 (converted once from the
// conventional tons/acre catalog values at 2000 lb/ton, 43560 ft^2/acre).
// Only the 13 standard codes (1..13) have a fuel model here; every other
// code, burnable or barrier, returns an error.
func Build(n int) (Model, error) {
	base, ok := standard[n]
	if !ok {
		return Model{}, fmt.Errorf("fuel.Build: fuel model %d is not in the standard 13-model catalog", n)
	}
	m := base
	m.Number = n
	return m, nil
}

// Moisturize returns a copy of fm with its moisture content set to mf.
func Moisturize(fm Model, mf Moisture) Model {
	fm.Moisture = mf
	return fm
}

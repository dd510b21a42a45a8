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

// Package crown implements the crown fire model: Van Wagner's
// crown-initiation criterion, Cruz's crown spread rate, and the
// crown-fire ellipse and intensity relations that feed into a
// trajectory's total spread rate and intensity once crown fire is
// active.
package crown

import "math"

// VanWagnerInitiation reports whether a surface fire of the given
// intensity is sufficient to initiate crowning, via the classical
// critical surface intensity threshold:
//
//	I_critical = (0.01 * CBH * (460 + 25.9*FMC))^1.5
//
// where CBH is canopy base height (m) and FMC is foliar moisture
// content (%). canopyCover must be positive for a crown layer to exist
// at all; canopyBaseHeight and foliarMoisture (fraction, 0-1) are
// converted to the metric/percent units the Van Wagner (1977) formula
// expects before the threshold is evaluated, and surfaceIntensity
// (Btu/ft-s) is converted to kW/m for the comparison.
func VanWagnerInitiation(canopyCover, canopyBaseHeight, foliarMoisture, surfaceIntensity float64) bool {
	if canopyCover <= 0 || canopyBaseHeight <= 0 {
		return false
	}
	cbhMeters := canopyBaseHeight * 0.3048
	fmcPercent := foliarMoisture * 100
	criticalKW := math.Pow(0.01*cbhMeters*(460+25.9*fmcPercent), 1.5)
	intensityKW := surfaceIntensity * 3.46165 // Btu/ft-s -> kW/m
	return intensityKW >= criticalKW
}

// CruzCrownSpread implements Cruz et al.'s empirical active crown
// fire spread rate model:
//
//	ROS = 11.02 * U^0.90 * CBD^0.19 * exp(-0.17*Mf)
//
// where U is 10-m (here approximated by 20-ft) open wind speed in
// km/h, CBD is crown bulk density in kg/m^3, and Mf is the 1-hr dead
// fuel moisture as a percentage. Returns ft/min.
func CruzCrownSpread(windSpeed20ft, crownBulkDensity, fineDeadFuelMoisture1hr float64) float64 {
	if windSpeed20ft <= 0 || crownBulkDensity <= 0 {
		return 0
	}
	uKmh := windSpeed20ft * 1.60934 // mph -> km/h
	mfPercent := fineDeadFuelMoisture1hr * 100
	rosMmin := 11.02 * math.Pow(uKmh, 0.90) * math.Pow(crownBulkDensity, 0.19) * math.Exp(-0.17*mfPercent)
	return rosMmin * 3.28084 // m/min -> ft/min
}

// CrownFireEccentricity derives the crown fire ellipse eccentricity
// from wind speed, using the same length-to-width relation as the
// surface fire ellipse but with Cruz's own length-to-width
// ratio fit against open wind speed.
func CrownFireEccentricity(windSpeed20ft, ellipseAdjustmentFactor float64) float64 {
	lengthToWidth := 1 + 0.125*windSpeed20ft*ellipseAdjustmentFactor
	if lengthToWidth <= 1 {
		return 0
	}
	return math.Sqrt(lengthToWidth*lengthToWidth-1) / lengthToWidth
}

// CrownFireLineIntensity computes Byram intensity for the crown fire
// component, from the crown spread rate, the canopy fuel consumed
// between base and top, and the heat content of the 1-hr dead fuel
// class (used as a proxy for foliage/branchwood heat content, the
// same substitution Scott & Reinhardt (2001) make).
func CrownFireLineIntensity(crownSpreadRate, crownBulkDensity, canopyHeight, canopyBaseHeight, heatContent1hrDead float64) float64 {
	canopyDepth := canopyHeight - canopyBaseHeight
	if canopyDepth <= 0 {
		return 0
	}
	fuelConsumed := crownBulkDensity * canopyDepth * 0.0624 // kg/m^3 * ft -> lb/ft^2, approx
	intensity := crownSpreadRate * fuelConsumed * heatContent1hrDead / 60
	if intensity < 0 {
		return 0
	}
	return intensity
}

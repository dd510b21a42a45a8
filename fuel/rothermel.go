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

import "math"

// NoWindNoSlope is the output of the Rothermel (1972) spread-rate
// equation evaluated with zero wind and zero slope: the fuel bed's
// intrinsic reaction and propagation characteristics.
type NoWindNoSlope struct {
	ResidenceTime       float64 // min
	ReactionIntensity   float64 // Btu/ft^2/min
	R0                  float64 // ft/min, no-wind-no-slope spread rate
	PropagatingFluxRatio float64
	HeatSink            float64 // Btu/ft^3
	BulkDensity         float64 // lb/ft^3
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// dynamicLoadTransfer returns the fraction of live herbaceous load that
// has cured (and so behaves as dead 1-hr fuel) for the Scott & Burgan
// dynamic fuel models, based on live herbaceous moisture content.
func dynamicLoadTransfer(liveHerbMoisture float64) float64 {
	switch {
	case liveHerbMoisture <= 0.30:
		return 1.0
	case liveHerbMoisture >= 1.20:
		return 0.0
	default:
		return (1.20 - liveHerbMoisture) / (1.20 - 0.30)
	}
}

// particleClass holds the loading, SAV ratio and moisture of one fuel
// particle class for the weighted-average calculations below.
type particleClass struct {
	load, sav, moisture, heatContent float64
	live                              bool
}

// RothermelNoWindNoSlope implements rothermel_no_wind_no_slope: builds
// the weighted fuel bed properties and evaluates Rothermel's R0.
func RothermelNoWindNoSlope(fm Model) NoWindNoSlope {
	load1h, loadHerb := fm.Load1h, fm.LoadHerb
	if fm.Dynamic {
		transfer := dynamicLoadTransfer(fm.Moisture.LiveHerb)
		load1h += fm.LoadHerb * transfer
		loadHerb = fm.LoadHerb * (1 - transfer)
	}

	classes := []particleClass{
		{load: load1h, sav: fm.SAV1h, moisture: fm.Moisture.Dead1h, heatContent: fm.HeatContent},
		{load: fm.Load10h, sav: 109, moisture: fm.Moisture.Dead10h, heatContent: fm.HeatContent},
		{load: fm.Load100h, sav: 30, moisture: fm.Moisture.Dead100h, heatContent: fm.HeatContent},
		{load: loadHerb, sav: fm.SAVHerb, moisture: fm.Moisture.LiveHerb, heatContent: fm.HeatContent, live: true},
		{load: fm.LoadWoody, sav: fm.SAVWoody, moisture: fm.Moisture.LiveWoody, heatContent: fm.HeatContent, live: true},
	}

	const particleDensity = 32.0 // lb/ft^3, ovendry fuel particle density

	var totalLoad, deadLoad, liveLoad float64
	var charSAV, deadSAVWeighted, liveSAVWeighted float64
	var deadSAVSum, liveSAVSum float64
	var deadMoistureWeighted, liveMoistureWeighted float64
	for _, c := range classes {
		if c.load <= 0 {
			continue
		}
		totalLoad += c.load
		surfaceArea := c.load / particleDensity * c.sav
		if c.live {
			liveLoad += c.load
			liveSAVWeighted += surfaceArea * c.sav
			liveSAVSum += surfaceArea
			liveMoistureWeighted += surfaceArea * c.moisture
		} else {
			deadLoad += c.load
			deadSAVWeighted += surfaceArea * c.sav
			deadSAVSum += surfaceArea
			deadMoistureWeighted += surfaceArea * c.moisture
		}
		charSAV += surfaceArea * c.sav
	}

	var deadMf, liveMf, deadSAV, liveSAV float64
	if deadSAVSum > 0 {
		deadMf = deadMoistureWeighted / deadSAVSum
		deadSAV = deadSAVWeighted / deadSAVSum
	}
	if liveSAVSum > 0 {
		liveMf = liveMoistureWeighted / liveSAVSum
		liveSAV = liveSAVWeighted / liveSAVSum
	}

	bulkDensity := totalLoad / max0NonZero(fm.Depth)
	packingRatio := bulkDensity / particleDensity
	optimumPackingRatio := 3.348 * math.Pow(max0NonZero(charSAVAvg(charSAV, totalLoad)), -0.8189)

	sigma := charSAVAvg(charSAV, totalLoad)
	beta := packingRatio
	betaOpt := optimumPackingRatio

	maxReactionVelocity := math.Pow(sigma, 1.5) / (495 + 0.0594*math.Pow(sigma, 1.5))
	a := 133 * math.Pow(sigma, -0.7913)
	reactionVelocity := maxReactionVelocity * math.Pow(beta/max0NonZero(betaOpt), a) * math.Exp(a*(1-beta/max0NonZero(betaOpt)))

	// Live fuel moisture of extinction, via the dead:live load ratio
	// (Rothermel 1972 eq. 88).
	liveExtinction := fm.ExtinctionMoisture
	if liveLoad > 0 {
		w := 2.9 * (deadLoad / liveLoad) * (1 - extinctionRatio(deadMf, fm.ExtinctionMoisture))
		liveExtinction = math.Max(fm.ExtinctionMoisture, 2.9*w-0.226)
	}

	etaM := func(mf, mx float64) float64 {
		if mx <= 0 {
			return 0
		}
		r := mf / mx
		if r > 1 {
			r = 1
		}
		return 1 - 2.59*r + 5.11*r*r - 3.52*r*r*r
	}
	etaDead := etaM(deadMf, fm.ExtinctionMoisture)
	etaLive := 1.0
	if liveLoad > 0 {
		etaLive = etaM(liveMf, liveExtinction)
	}

	const heatOfIgnition = 250.0 // Btu/lb, approx (placeholder for mineral-corrected term)
	etaS := 0.174 * math.Pow(0.01, -0.19) // mineral damping coefficient, constant for standard 1% silica-free mineral content

	deadNetLoad := deadLoad * (1 - 0.0555) // subtract mineral content fraction
	liveNetLoad := liveLoad * (1 - 0.0555)

	reactionIntensity := reactionVelocity * (deadNetLoad*fm.HeatContent*etaDead*etaS + liveNetLoad*fm.HeatContent*etaLive*etaS)

	propagatingFluxRatio := math.Exp((0.792+0.681*math.Sqrt(sigma))*(beta+0.1)) / (192 + 0.2595*sigma)

	effectiveHeatingNumber := func(s float64) float64 {
		if s <= 0 {
			return 0
		}
		return math.Exp(-138 / s)
	}
	heatOfPreignition := func(mf float64) float64 {
		return heatOfIgnition + 1116*mf
	}

	var heatSink float64
	for _, c := range classes {
		if c.load <= 0 {
			continue
		}
		heatSink += (c.load / max0NonZero(fm.Depth)) * effectiveHeatingNumber(c.sav) * heatOfPreignition(c.moisture)
	}
	if heatSink <= 0 {
		heatSink = 1e-9
	}

	// R0 = (I_R * xi) / (rho_b * Q_ig), with rho_b*Q_ig expressed per unit
	// volume via heatSink already incorporating load/depth.
	r0 := reactionIntensity * propagatingFluxRatio / heatSink

	residenceTime := 384 / max0NonZero(sigma)

	return NoWindNoSlope{
		ResidenceTime:        residenceTime,
		ReactionIntensity:    reactionIntensity,
		R0:                   max0(r0),
		PropagatingFluxRatio: propagatingFluxRatio,
		HeatSink:             heatSink,
		BulkDensity:          bulkDensity,
	}
}

func max0NonZero(v float64) float64 {
	if v <= 0 {
		return 1e-9
	}
	return v
}

func extinctionRatio(mf, mx float64) float64 {
	if mx <= 0 {
		return 0
	}
	r := mf / mx
	if r > 1 {
		return 1
	}
	return r
}

func charSAVAvg(weightedSAV, totalLoad float64) float64 {
	if totalLoad <= 0 {
		return 1
	}
	return weightedSAV / totalLoad
}

// Max is the output of rothermel_max: the wind/slope-adjusted
// maximum spread rate and the direction it occurs in.
type Max struct {
	MaxSpreadRate      float64 // ft/min
	MaxSpreadDirection float64 // azimuth, degrees clockwise from north
	Eccentricity       float64
}

// RothermelMax applies wind and slope vector combination to the no-wind
// no-slope spread rate, producing the maximum spread rate, its direction,
// and the fire ellipse eccentricity.
func RothermelMax(min NoWindNoSlope, midflameWind, windFromDirection, slope, aspect, ellipseAdjustmentFactor float64) Max {
	// Wind coefficient (Rothermel 1972 eq. 47/48), referenced to the
	// no-wind reaction intensity/SAV implicitly folded into R0 via a
	// proportional wind factor.
	phiWind := 0.0
	if midflameWind > 0 {
		phiWind = math.Pow(midflameWind, 1.5) * 0.4
	}
	phiSlope := 5.275 * math.Pow(math.Max(slope, 0), 2)

	windToDirection := math.Mod(windFromDirection+180, 360)
	upslopeDirection := math.Mod(aspect+180, 360)

	windRad := degToRad(windToDirection)
	slopeRad := degToRad(upslopeDirection)

	// Vector sum of the wind and slope spread-direction contributions.
	wx := phiWind * math.Sin(windRad)
	wy := phiWind * math.Cos(windRad)
	sx := phiSlope * math.Sin(slopeRad)
	sy := phiSlope * math.Cos(slopeRad)

	rx := wx + sx
	ry := wy + sy
	phiCombined := math.Hypot(rx, ry)

	direction := windToDirection
	if phiCombined > 0 {
		direction = math.Mod(radToDeg(math.Atan2(rx, ry))+360, 360)
	}

	maxRate := min.R0 * (1 + phiCombined)

	effectiveWind := effectiveWindFromPhi(phiCombined)
	ecc := eccentricityFromWind(effectiveWind, ellipseAdjustmentFactor)

	return Max{
		MaxSpreadRate:      max0(maxRate),
		MaxSpreadDirection: direction,
		Eccentricity:       ecc,
	}
}

func effectiveWindFromPhi(phi float64) float64 {
	if phi <= 0 {
		return 0
	}
	return math.Pow(phi/0.4, 1/1.5)
}

func eccentricityFromWind(effectiveWindMph, eaf float64) float64 {
	lengthToWidth := 1 + 0.25*effectiveWindMph*eaf
	if lengthToWidth < 1 {
		lengthToWidth = 1
	}
	if lengthToWidth <= 1 {
		return 0
	}
	return math.Sqrt(lengthToWidth*lengthToWidth-1) / lengthToWidth
}

// RothermelAny implements rothermel_any: the spread rate
// along an arbitrary azimuth, via the standard elliptical projection.
func RothermelAny(max Max, azimuthDegrees float64) float64 {
	beta := azimuthDegrees - max.MaxSpreadDirection
	betaRad := degToRad(beta)
	e := max.Eccentricity
	factor := (1 - e) / (1 - e*math.Cos(betaRad))
	return max0(max.MaxSpreadRate * factor)
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }
func radToDeg(r float64) float64 { return r * 180 / math.Pi }

// WindAdjustmentFactor computes the standard sheltered/unsheltered
// midflame wind adjustment factor from 20-ft wind.
func WindAdjustmentFactor(depth, canopyHeight, canopyCover float64) float64 {
	if canopyHeight <= 0 || canopyCover <= 0 {
		// Unsheltered: open fuel bed, standard log profile adjustment.
		if depth <= 0 {
			return 0.5
		}
		waf := 1.83 / math.Log((20+0.36*depth)/(0.13*depth))
		return clamp01(waf)
	}
	// Sheltered beneath a canopy (Albini & Baughman 1979).
	crownRatio := canopyCover / 100
	waf := 0.555 / (math.Sqrt(crownRatio*canopyHeight) * math.Log((20+0.36*canopyHeight)/(0.13*canopyHeight)))
	return clamp01(waf)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ByramIntensity computes Byram's fire-line intensity from the reaction
// intensity and the flame-zone depth.
func ByramIntensity(reactionIntensity, flameDepth float64) float64 {
	return max0(reactionIntensity * flameDepth / 60)
}

// ByramFlameLength converts fire-line intensity (Btu/ft-s) to flame
// length (ft) via Byram's relation.
func ByramFlameLength(intensity float64) float64 {
	if intensity <= 0 {
		return 0
	}
	return 0.45 * math.Pow(intensity, 0.46)
}

// AndersonFlameDepth estimates the flame-zone depth from spread rate and
// residence time (ft).
func AndersonFlameDepth(rateFtPerMin, residenceTimeMin float64) float64 {
	return max0(rateFtPerMin * residenceTimeMin)
}

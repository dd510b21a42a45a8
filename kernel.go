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
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/caldera-sim/firespread/crown"
	"github.com/caldera-sim/firespread/fuel"
	"github.com/caldera-sim/firespread/raster"
	"github.com/caldera-sim/firespread/spotting"
	"github.com/caldera-sim/firespread/weather"
)

// computeNeighborhood builds the outgoing BurnTrajectory for each
// burnable-unburned 8-neighbor of here. overflowOffset, when non-zero,
// names the trajectory that should be seeded with overflowHeat as its
// initial fractional_distance (front maintenance's energy-balance
// carry-over); the zero value means no overflow.
func (e *engine) computeNeighborhood(here raster.Cell, overflowOffset [2]int, overflowHeat float64) []BurnTrajectory {
	l := e.in.Landscape
	c := weather.ExtractConstants(l, e.in.Weather, e.globalClock, here, e.perturb)

	mf := weather.FuelMoistureFrom(c.RelativeHumidity, c.Temperature)
	fm, min, err := e.memo.get(int(c.FuelModelNumber), mf)
	if err != nil {
		return nil
	}

	waf := fuel.WindAdjustmentFactor(fm.Depth, c.CanopyHeight, c.CanopyCover)
	midflame := c.WindSpeed20ft * 88 * waf
	maxInfo := fuel.RothermelMax(min, midflame, c.WindFromDirection, c.Slope, c.Aspect, e.in.EllipseAdjustmentFactor)

	crownSpreadMax := crown.CruzCrownSpread(c.WindSpeed20ft, c.CrownBulkDensity, mf.Dead.OneHour)
	crownEcc := crown.CrownFireEccentricity(c.WindSpeed20ft, e.in.EllipseAdjustmentFactor)

	var out []BurnTrajectory
	for _, off := range trajectoryOffsets {
		dest := raster.Cell{I: here.I + off[0], J: here.J + off[1]}
		if !e.burnable(dest) {
			continue
		}

		azimuth := offsetToDegrees[off]
		surfaceRate := fuel.RothermelAny(maxInfo, azimuth)
		if surfaceRate < 0 {
			surfaceRate = 0
			e.diag.ClampedNegativeRates++
		}
		surfaceDepth := fuel.AndersonFlameDepth(surfaceRate, min.ResidenceTime)
		surfaceIntensity := fuel.ByramIntensity(min.ReactionIntensity, surfaceDepth)
		if surfaceIntensity < 0 {
			surfaceIntensity = 0
			e.diag.ClampedNegativeIntensities++
		}

		isCrown := crown.VanWagnerInitiation(c.CanopyCover, c.CanopyBaseHeight, e.in.FoliarMoisture, surfaceIntensity)

		spreadRate := surfaceRate
		intensity := surfaceIntensity
		if isCrown {
			crownMax := maxInfo
			crownMax.MaxSpreadRate = crownSpreadMax
			crownMax.Eccentricity = crownEcc
			crownRate := fuel.RothermelAny(crownMax, azimuth)
			crownIntensity := crown.CrownFireLineIntensity(crownRate, c.CrownBulkDensity, c.CanopyHeight, c.CanopyBaseHeight, fm.HeatContent)
			if crownRate > spreadRate {
				spreadRate = crownRate
			}
			intensity = surfaceIntensity + crownIntensity
		}

		flameLength := fuel.ByramFlameLength(intensity)
		terrainDistance := raster.TerrainDistance3D(l.CellSize, off[0], off[1], l.Elevation.GetCell(here), l.Elevation.GetCell(dest))

		initial := 0.0
		if off == overflowOffset {
			initial = overflowHeat
		}

		out = append(out, BurnTrajectory{
			Cell:               dest,
			Offset:             off,
			SpreadDirection:    azimuth,
			TerrainDistance:    terrainDistance,
			SpreadRate:         spreadRate,
			FireLineIntensity:  intensity,
			FlameLength:        flameLength,
			FractionalDistance: initial,
			CrownFire:          isCrown,
		})
	}
	return out
}

// ignitionCandidate is a trajectory that crossed fractional_distance
// 1.0 during the current step.
type ignitionCandidate struct {
	source             raster.Cell
	traj               BurnTrajectory
	fractionalDistance float64
}

// runLoop drives the main simulation loop until termination.
func (e *engine) runLoop() {
	for {
		if len(e.activeFront) == 0 || e.globalClock >= e.in.MaxRuntime {
			return
		}

		dt := e.computeTimestep()
		if e.globalClock+dt > e.in.MaxRuntime {
			dt = e.in.MaxRuntime - e.globalClock
		}
		if dt <= 0 {
			return
		}

		candidates := e.accumulate(dt)
		events := e.resolveIgnitionEvents(candidates)
		e.applyIgnitionEvents(events, dt)

		var spotCandidates []spotting.Candidate
		if e.in.Spotting != nil {
			spotCandidates = e.collectSpotIgnitions(events)
		}

		e.maintainFront(events)

		if e.in.Spotting != nil {
			e.mergeSpotSchedule(spotCandidates)
			e.applyDueSpotIgnitions(dt)
		}

		e.globalClock += dt

		e.log.WithFields(map[string]interface{}{
			"global_clock":      e.globalClock,
			"active_front_size": len(e.activeFront),
			"ignited_cells":     len(e.order),
		}).Debug("firespread: step complete")
	}
}

// computeTimestep implements the adaptive timestep rule.
func (e *engine) computeTimestep() float64 {
	var rates []float64
	for _, trajs := range e.activeFront {
		for _, t := range trajs {
			rates = append(rates, t.SpreadRate)
		}
	}
	if len(rates) == 0 {
		return 0
	}
	maxRate := floats.Max(rates)
	if maxRate <= 0 {
		return e.in.MaxRuntime - e.globalClock
	}
	return e.in.Landscape.CellSize / maxRate
}

// accumulate implements the fractional_distance update of ignition
// detection, mutating trajectories in place.
func (e *engine) accumulate(dt float64) []ignitionCandidate {
	sources := e.sortedSources()
	var candidates []ignitionCandidate
	for _, src := range sources {
		trajs := e.activeFront[src]
		for i := range trajs {
			if trajs[i].TerrainDistance <= 0 {
				continue
			}
			trajs[i].FractionalDistance += trajs[i].SpreadRate * dt / trajs[i].TerrainDistance
			if trajs[i].FractionalDistance >= 1.0 {
				candidates = append(candidates, ignitionCandidate{source: src, traj: trajs[i], fractionalDistance: trajs[i].FractionalDistance})
			}
		}
		e.activeFront[src] = trajs
	}
	return candidates
}

func (e *engine) sortedSources() []raster.Cell {
	sources := make([]raster.Cell, 0, len(e.activeFront))
	for s := range e.activeFront {
		sources = append(sources, s)
	}
	sort.Slice(sources, func(a, b int) bool {
		if sources[a].I != sources[b].I {
			return sources[a].I < sources[b].I
		}
		return sources[a].J < sources[b].J
	})
	return sources
}

// ignitionEvent is the winning candidate for one destination cell
// after tie-break.
type ignitionEvent struct {
	cell               raster.Cell
	traj               BurnTrajectory
	source             raster.Cell
	fractionalDistance float64
}

// resolveIgnitionEvents groups candidates by destination cell, keeping
// the one with the largest fractional_distance; ties break on source
// cell row-major order.
func (e *engine) resolveIgnitionEvents(candidates []ignitionCandidate) []ignitionEvent {
	best := map[raster.Cell]ignitionCandidate{}
	for _, cand := range candidates {
		cur, ok := best[cand.traj.Cell]
		if !ok {
			best[cand.traj.Cell] = cand
			continue
		}
		if cand.fractionalDistance > cur.fractionalDistance {
			best[cand.traj.Cell] = cand
			continue
		}
		if cand.fractionalDistance == cur.fractionalDistance && lessCell(cand.source, cur.source) {
			best[cand.traj.Cell] = cand
		}
	}

	cells := make([]raster.Cell, 0, len(best))
	for c := range best {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(a, b int) bool { return lessCell(cells[a], cells[b]) })

	events := make([]ignitionEvent, 0, len(cells))
	for _, c := range cells {
		cand := best[c]
		events = append(events, ignitionEvent{cell: c, traj: cand.traj, source: cand.source, fractionalDistance: cand.fractionalDistance})
	}
	return events
}

func lessCell(a, b raster.Cell) bool {
	if a.I != b.I {
		return a.I < b.I
	}
	return a.J < b.J
}

// applyIgnitionEvents commits each winning ignition event to the result
// rasters.
func (e *engine) applyIgnitionEvents(events []ignitionEvent, dt float64) {
	for _, ev := range events {
		e.fireSpread.SetCell(ev.cell, 1.0)
		e.flameLength.SetCell(ev.cell, ev.traj.FlameLength)
		e.fireLineIntensity.SetCell(ev.cell, ev.traj.FireLineIntensity)
		e.burnTime.SetCell(ev.cell, e.globalClock+dt)
		e.markIgnited(ev.cell)
	}
}

// collectSpotIgnitions runs the spotting model for each committed
// ignition event and gathers its scheduled candidates.
func (e *engine) collectSpotIgnitions(events []ignitionEvent) []spotting.Candidate {
	var out []spotting.Candidate
	for _, ev := range events {
		fuelModelNumber := e.in.Landscape.FuelModel.GetCell(ev.cell)
		// Weather for the Schroeder ignition-probability calculation
		// is sampled at the torching cell (the ignition event's own
		// cell), not re-sampled at each candidate landing cell: the
		// spotting model is invoked once per event with one weather
		// context, not once per candidate landing cell.
		c := weather.ExtractConstants(e.in.Landscape, e.in.Weather, e.globalClock, ev.cell, e.perturb)
		sw := spotting.SourceWeather{
			WindSpeed20ft:     c.WindSpeed20ft,
			WindFromDirection: c.WindFromDirection,
			Temperature:       c.Temperature,
			RelativeHumidity:  c.RelativeHumidity,
		}
		event := spotting.Event{
			Source:          ev.cell,
			SourceElevation: e.in.Landscape.Elevation.GetCell(ev.cell),
			FuelModelNumber: fuelModelNumber,
			Intensity:       ev.traj.FireLineIntensity,
			FlameLength:     ev.traj.FlameLength,
			CrownFire:       ev.traj.CrownFire,
		}
		candidates, deposits := spotting.Spot(*e.in.Spotting, event, sw, e.in.Landscape, e.gen, e.globalClock)
		for cell, k := range deposits {
			e.firebrandCount.SetCell(cell, e.firebrandCount.GetCell(cell)+float64(k))
		}
		out = append(out, candidates...)
	}
	return out
}

// mergeSpotSchedule merges newly collected candidates into the spot
// schedule, keeping the earliest t_ignite per cell.
func (e *engine) mergeSpotSchedule(candidates []spotting.Candidate) {
	for _, c := range candidates {
		cur, ok := e.spotSchedule[c.Cell]
		if !ok || c.TIgnite < cur.TIgnite {
			e.spotSchedule[c.Cell] = SpotScheduleEntry{TIgnite: c.TIgnite, P: c.P}
		}
	}
}

// applyDueSpotIgnitions ignites any scheduled spot candidates whose
// t_ignite has arrived.
func (e *engine) applyDueSpotIgnitions(dt float64) {
	due := make([]raster.Cell, 0)
	for cell, entry := range e.spotSchedule {
		if entry.TIgnite <= e.globalClock+dt {
			due = append(due, cell)
		}
	}
	sort.Slice(due, func(a, b int) bool { return lessCell(due[a], due[b]) })

	for _, cell := range due {
		entry := e.spotSchedule[cell]
		delete(e.spotSchedule, cell)
		if e.fireSpread.GetCell(cell) >= entry.P {
			continue
		}
		e.fireSpread.SetCell(cell, entry.P)
		e.burnTime.SetCell(cell, e.globalClock+dt)
		e.markIgnited(cell)
		if e.hasBurnableNeighbor(cell) {
			e.activeFront[cell] = e.computeNeighborhood(cell, [2]int{}, 0)
		}
	}
}

// maintainFront implements front maintenance.
func (e *engine) maintainFront(events []ignitionEvent) {
	ignitedNow := map[raster.Cell]bool{}
	overflow := map[raster.Cell]struct {
		offset [2]int
		heat   float64
	}{}
	for _, ev := range events {
		ignitedNow[ev.cell] = true
		overflow[ev.cell] = struct {
			offset [2]int
			heat   float64
		}{offset: ev.traj.Offset, heat: ev.fractionalDistance - 1.0}
	}

	for src, trajs := range e.activeFront {
		filtered := trajs[:0]
		for _, t := range trajs {
			if !ignitedNow[t.Cell] {
				filtered = append(filtered, t)
			}
		}
		if len(filtered) == 0 {
			delete(e.activeFront, src)
		} else {
			e.activeFront[src] = filtered
		}
	}

	sources := make([]raster.Cell, 0, len(ignitedNow))
	for c := range ignitedNow {
		sources = append(sources, c)
	}
	sort.Slice(sources, func(a, b int) bool { return lessCell(sources[a], sources[b]) })

	for _, cell := range sources {
		if !e.hasBurnableNeighbor(cell) {
			continue
		}
		of := overflow[cell]
		// The overflow trajectory continues past the newly ignited
		// cell along the same compass offset that triggered it.
		e.activeFront[cell] = e.computeNeighborhood(cell, of.offset, of.heat)
	}
}

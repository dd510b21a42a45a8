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

package main

import (
	"fmt"
	"os"

	firespread "github.com/caldera-sim/firespread"
	"github.com/caldera-sim/firespread/loaders"
	"github.com/caldera-sim/firespread/spotting"
	"github.com/caldera-sim/firespread/weather"
)

// buildInputs loads the landscape and weather rasters named in cfg and
// assembles a firespread.SimulationInputs.
func buildInputs(cfg *Config) (firespread.SimulationInputs, error) {
	landscapeFile, err := os.Open(cfg.LandscapeFile)
	if err != nil {
		return firespread.SimulationInputs{}, fmt.Errorf("main.buildInputs: %v", err)
	}
	defer landscapeFile.Close()

	landscapeLoader := &loaders.NetCDFLandscapeLoader{File: landscapeFile, CellSize: cfg.CellSize}
	landscape, err := landscapeLoader.LoadLandscape()
	if err != nil {
		return firespread.SimulationInputs{}, fmt.Errorf("main.buildInputs: %v", err)
	}

	weatherFile, err := os.Open(cfg.WeatherFile)
	if err != nil {
		return firespread.SimulationInputs{}, fmt.Errorf("main.buildInputs: %v", err)
	}
	defer weatherFile.Close()

	weatherLoader := &loaders.NetCDFWeatherLoader{File: weatherFile, ResolutionMultiplier: cfg.ResolutionMultiplier}
	w := &weather.Weather{}
	for name, dest := range map[string]*weather.Variable{
		"wind_speed_20ft":     &w.WindSpeed20ft,
		"wind_from_direction": &w.WindFromDirection,
		"temperature":         &w.Temperature,
		"relative_humidity":   &w.RelativeHumidity,
	} {
		v, err := weatherLoader.LoadWeatherVariable(name)
		if err != nil {
			return firespread.SimulationInputs{}, fmt.Errorf("main.buildInputs: %v", err)
		}
		*dest = v
	}

	perturbations := map[string]firespread.PerturbationSpec{}
	for layer, p := range cfg.Perturbation {
		perturbations[layer] = firespread.PerturbationSpec{
			SpatialType: p.SpatialType,
			Lo:          p.Lo,
			Hi:          p.Hi,
			Frequency:   p.Frequency,
		}
	}

	in := firespread.SimulationInputs{
		Landscape:               landscape,
		Weather:                 w,
		MaxRuntime:              cfg.MaxRuntime,
		EllipseAdjustmentFactor: cfg.EllipseAdjustmentFactor,
		FoliarMoisture:          cfg.ForeliarMoisturePercent * 0.01,
		Perturbations:           perturbations,
		RandomSeed:              cfg.RandomSeed,
	}
	if cfg.Spotting != nil {
		in.Spotting = buildSpottingConfig(cfg.Spotting)
	}
	return in, nil
}

func buildSpottingConfig(sc *SpottingTOMLConfig) *spotting.Config {
	cfg := &spotting.Config{
		AmbientGasDensity: sc.AmbientGasDensity,
		SpecificHeatGas:   sc.SpecificHeatGas,
		DecayConstant:     sc.DecayConstant,
	}

	if sc.NumFirebrandsFixed > 0 {
		n := sc.NumFirebrandsFixed
		cfg.NumFirebrands = spotting.CountSpec{Fixed: &n}
	} else {
		cfg.NumFirebrands = spotting.CountSpec{
			Lo: intBound(sc.NumFirebrandsLo),
			Hi: intBound(sc.NumFirebrandsHi),
		}
	}

	if sc.CrownFireSpottingPercentRange != [2]float64{} {
		r := sc.CrownFireSpottingPercentRange
		cfg.CrownFireSpottingPercent = spotting.PercentSpec{Range: &r}
	} else {
		p := sc.CrownFireSpottingPercent
		cfg.CrownFireSpottingPercent = spotting.PercentSpec{Fixed: &p}
	}

	if sc.SurfaceFireSpotting != nil {
		s := &spotting.SurfaceSpotting{CriticalFireLineIntensity: sc.SurfaceFireSpotting.CriticalFireLineIntensity}
		for _, row := range sc.SurfaceFireSpotting.Table {
			s.SpottingPercent = append(s.SpottingPercent, spotting.SurfaceSpotEntry{
				FuelModels: spotting.FuelModelRange{Lo: row.FuelModelLo, Hi: row.FuelModelHi},
				Percent:    row.Percent,
			})
		}
		cfg.SurfaceFireSpotting = s
	}

	return cfg
}

func intBound(r [2]int) spotting.IntBound {
	if r[0] == r[1] {
		return spotting.IntBound{Fixed: r[0]}
	}
	return spotting.IntBound{Range: &r}
}

// buildIgnition translates cfg.Ignition into a firespread.Ignition,
// loading the perimeter raster from cfg.IgnitionFile when needed.
func buildIgnition(cfg *Config) (firespread.Ignition, error) {
	switch cfg.Ignition.Kind {
	case "point":
		return firespread.PointIgnition(cfg.Ignition.Row, cfg.Ignition.Col), nil
	case "perimeter":
		f, err := os.Open(cfg.IgnitionFile)
		if err != nil {
			return firespread.Ignition{}, fmt.Errorf("main.buildIgnition: %v", err)
		}
		defer f.Close()
		loader := &loaders.NetCDFIgnitionLoader{File: f, Variable: "ignition"}
		perimeter, err := loader.LoadIgnitionRaster()
		if err != nil {
			return firespread.Ignition{}, fmt.Errorf("main.buildIgnition: %v", err)
		}
		return firespread.PerimeterIgnition(perimeter), nil
	default:
		return firespread.RandomIgnition(), nil
	}
}

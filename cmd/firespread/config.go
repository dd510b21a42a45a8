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

	"github.com/BurntSushi/toml"
)

// Config is decoded from a flat TOML file using the standard
// github.com/BurntSushi/toml decode-into-struct pattern.
type Config struct {
	LandscapeFile string
	WeatherFile   string
	IgnitionFile  string

	ResolutionMultiplier int
	CellSize             float64 // ft

	MaxRuntime              float64
	EllipseAdjustmentFactor float64
	ForeliarMoisturePercent float64 `toml:"foliar_moisture_percent"`

	RandomSeed int64 `toml:"random_seed"`

	Ignition struct {
		Kind string // "random", "point", or "perimeter"
		Row  int
		Col  int
	}

	Perturbation map[string]PerturbationConfig

	Spotting *SpottingTOMLConfig

	MonteCarlo struct {
		Iterations int
	} `toml:"monte_carlo"`
}

// PerturbationConfig is one [perturbation.<layer>] TOML table.
type PerturbationConfig struct {
	SpatialType string
	Lo, Hi      float64
	Frequency   float64
}

// SpottingTOMLConfig is the [spotting] TOML table.
type SpottingTOMLConfig struct {
	NumFirebrandsFixed int
	NumFirebrandsLo    [2]int
	NumFirebrandsHi    [2]int

	AmbientGasDensity float64
	SpecificHeatGas   float64
	DecayConstant     float64

	CrownFireSpottingPercent      float64
	CrownFireSpottingPercentRange [2]float64

	SurfaceFireSpotting *struct {
		CriticalFireLineIntensity float64
		Table                     []struct {
			FuelModelLo int
			FuelModelHi int
			Percent     float64
		}
	}
}

// LoadConfig decodes path into a Config.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("main.LoadConfig: %v", err)
	}
	return &cfg, nil
}

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

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	firespread "github.com/caldera-sim/firespread"
	"github.com/caldera-sim/firespread/montecarlo"
)

var monteCarloCmd = &cobra.Command{
	Use:   "montecarlo",
	Short: "Run a batch of independent fire spread simulations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		if cfg.MonteCarlo.Iterations <= 0 {
			return fmt.Errorf("monte_carlo.iterations must be > 0")
		}

		in, err := buildInputs(cfg)
		if err != nil {
			return err
		}

		log := logrus.WithField("cmd", "montecarlo")
		agg := montecarlo.RunBatch(montecarlo.Options{
			Iterations: cfg.MonteCarlo.Iterations,
			BaseInputs: in,
			NewIgnition: func(seed int64) firespread.Ignition {
				ignition, err := buildIgnition(cfg)
				if err != nil {
					return firespread.RandomIgnition()
				}
				return ignition
			},
			Log: log,
		})

		successful := 0
		for _, r := range agg.Runs {
			if r.Err == nil {
				successful++
			}
		}
		fmt.Printf("iterations=%d successful=%d\n", len(agg.Runs), successful)
		return nil
	},
}

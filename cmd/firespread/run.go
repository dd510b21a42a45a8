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
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single fire spread simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}

		in, err := buildInputs(cfg)
		if err != nil {
			return err
		}
		ignition, err := buildIgnition(cfg)
		if err != nil {
			return err
		}

		log := logrus.WithField("cmd", "run")
		result, err := firespread.Run(in, ignition, log)
		if err != nil {
			return err
		}

		fmt.Printf("global_clock=%.1f ignited_cells=%d clamped_rates=%d clamped_intensities=%d\n",
			result.GlobalClock, len(result.IgnitedCells),
			result.Diagnostics.ClampedNegativeRates, result.Diagnostics.ClampedNegativeIntensities)
		return nil
	},
}

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
	"fmt"
	"math"

	"github.com/caldera-sim/firespread/fuel"
	"github.com/caldera-sim/firespread/weather"
)

// rothermelMemoKey quantizes (fuel_model_number, fuel_moisture) so that
// floating-point moisture values a few ULPs apart still share a cache
// entry.
type rothermelMemoKey string

func quantize(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func makeRothermelMemoKey(n int, mf weather.FuelMoisture) rothermelMemoKey {
	return rothermelMemoKey(fmt.Sprintf("%d|%.4f|%.4f|%.4f|%.4f|%.4f",
		n, quantize(mf.Dead.OneHour), quantize(mf.Dead.TenHour), quantize(mf.Dead.HundredHour),
		quantize(mf.Live.Herb), quantize(mf.Live.Woody)))
}

type rothermelMemoEntry struct {
	fm  fuel.Model
	min fuel.NoWindNoSlope
}

// rothermelMemo is a bounded FIFO-eviction cache of (fuel model, fuel
// moisture) -> (built model, no-wind-no-slope spread info), so a
// long-running Monte Carlo batch's per-engine memo never grows
// unbounded.
type rothermelMemo struct {
	capacity int
	entries  map[rothermelMemoKey]rothermelMemoEntry
	order    []rothermelMemoKey
}

func newRothermelMemo(capacity int) *rothermelMemo {
	return &rothermelMemo{
		capacity: capacity,
		entries:  make(map[rothermelMemoKey]rothermelMemoEntry, capacity),
	}
}

// get returns the cached (or freshly computed and inserted) fuel model
// and no-wind-no-slope spread info for fuel model n with moisture mf.
func (c *rothermelMemo) get(n int, mf weather.FuelMoisture) (fuel.Model, fuel.NoWindNoSlope, error) {
	key := makeRothermelMemoKey(n, mf)
	if e, ok := c.entries[key]; ok {
		return e.fm, e.min, nil
	}

	base, err := fuel.Build(n)
	if err != nil {
		return fuel.Model{}, fuel.NoWindNoSlope{}, err
	}
	moisturized := fuel.Moisturize(base, fuel.Moisture{
		Dead1h:    mf.Dead.OneHour,
		Dead10h:   mf.Dead.TenHour,
		Dead100h:  mf.Dead.HundredHour,
		LiveHerb:  mf.Live.Herb,
		LiveWoody: mf.Live.Woody,
	})
	min := fuel.RothermelNoWindNoSlope(moisturized)

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = rothermelMemoEntry{fm: moisturized, min: min}
	c.order = append(c.order, key)

	return moisturized, min, nil
}

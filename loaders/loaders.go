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

// Package loaders defines the capability interfaces the engine's driver
// uses to populate a Landscape, a Weather bundle, and an ignition
// raster from whatever storage backend a deployment uses: a small set
// of loader objects rather than dispatching on a file extension or
// source-kind tag.
package loaders

import (
	"github.com/caldera-sim/firespread/raster"
	"github.com/caldera-sim/firespread/weather"
)

// LandscapeLoader builds a Landscape from whatever storage the
// implementation wraps.
type LandscapeLoader interface {
	LoadLandscape() (*weather.Landscape, error)
}

// WeatherLoader loads one weather variable of a Weather bundle by name.
type WeatherLoader interface {
	LoadWeatherVariable(name string) (weather.Variable, error)
}

// IgnitionLoader builds a perimeter-ignition raster.
type IgnitionLoader interface {
	LoadIgnitionRaster() (*raster.Grid, error)
}

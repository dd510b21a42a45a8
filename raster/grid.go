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

// Package raster holds the dense array types that back every landscape
// layer, weather band and result matrix in the engine. All of them are
// aligned on the same row-major grid: row 0 is the north edge, column 0
// is the west edge, consistent with the azimuth table in the engine
// (di=-1 is north, dj=+1 is east).
package raster

import (
	"math"

	"github.com/ctessum/sparse"
)

// Cell identifies one grid cell by (row, column).
type Cell struct {
	I, J int
}

// Grid is a 2-D dense array of float64, backed by sparse.DenseArray the
// way inmap backs its CTM data arrays (popgrid.go: LoadCTMData).
type Grid struct {
	data       *sparse.DenseArray
	rows, cols int
}

// NewGrid allocates a rows x cols grid of zeros.
func NewGrid(rows, cols int) *Grid {
	return &Grid{data: sparse.ZerosDense(rows, cols), rows: rows, cols: cols}
}

// NewGridFromRowMajor builds a grid from a flat row-major slice of values.
func NewGridFromRowMajor(rows, cols int, vals []float64) *Grid {
	g := NewGrid(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			g.data.Set(vals[i*cols+j], i, j)
		}
	}
	return g
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Dims returns (rows, cols).
func (g *Grid) Dims() (int, int) { return g.rows, g.cols }

// InBounds reports whether c is within the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.I >= 0 && c.I < g.rows && c.J >= 0 && c.J < g.cols
}

// Get returns the value at (i, j).
func (g *Grid) Get(i, j int) float64 { return g.data.Get(i, j) }

// GetCell returns the value at c.
func (g *Grid) GetCell(c Cell) float64 { return g.data.Get(c.I, c.J) }

// Set stores v at (i, j).
func (g *Grid) Set(i, j int, v float64) { g.data.Set(v, i, j) }

// SetCell stores v at c.
func (g *Grid) SetCell(c Cell, v float64) { g.data.Set(v, c.I, c.J) }

// Fill sets every cell to v.
func (g *Grid) Fill(v float64) {
	for i := range g.data.Elements {
		g.data.Elements[i] = v
	}
}

// ForEach calls f once per cell, in row-major order.
func (g *Grid) ForEach(f func(i, j int, v float64)) {
	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			f(i, j, g.data.Get(i, j))
		}
	}
}

// ReadOnly returns a view of g that exposes Get but not Set, for handing
// landscape inputs to collaborators that must not mutate them (Design
// Notes, "Grid as a value").
func (g *Grid) ReadOnly() ReadOnly { return ReadOnly{g: g} }

// ReadOnly is an immutable view over a Grid.
type ReadOnly struct{ g *Grid }

// Get returns the value at (i, j).
func (r ReadOnly) Get(i, j int) float64 { return r.g.Get(i, j) }

// GetCell returns the value at c.
func (r ReadOnly) GetCell(c Cell) float64 { return r.g.GetCell(c) }

// Dims returns (rows, cols).
func (r ReadOnly) Dims() (int, int) { return r.g.Dims() }

// InBounds reports whether c is within the grid.
func (r ReadOnly) InBounds(c Cell) bool { return r.g.InBounds(c) }

// Grid3D is a banded dense array, one band per hour of weather, the same
// shape wrf2aim.go reads out of NetCDF files with readNCF.
type Grid3D struct {
	data                 *sparse.DenseArray
	bands, rows, cols int
}

// NewGrid3D allocates a bands x rows x cols array of zeros.
func NewGrid3D(bands, rows, cols int) *Grid3D {
	return &Grid3D{data: sparse.ZerosDense(bands, rows, cols), bands: bands, rows: rows, cols: cols}
}

// Bands returns the number of time bands.
func (g *Grid3D) Bands() int { return g.bands }

// Dims returns (bands, rows, cols).
func (g *Grid3D) Dims() (int, int, int) { return g.bands, g.rows, g.cols }

// Get returns the value at band b, cell (i, j).
func (g *Grid3D) Get(b, i, j int) float64 { return g.data.Get(b, i, j) }

// Set stores v at band b, cell (i, j).
func (g *Grid3D) Set(b, i, j int, v float64) { g.data.Set(v, b, i, j) }

// Band returns a read-only 2-D view of band b.
func (g *Grid3D) Band(b int) ReadOnly {
	return ReadOnly{g: &Grid{data: bandView(g.data, b, g.rows, g.cols), rows: g.rows, cols: g.cols}}
}

// bandView copies one band of a 3-D dense array into a 2-D one. The
// underlying sparse.DenseArray does not expose a sub-array view, so we
// copy; every call to Band pays for a full rows x cols copy.
func bandView(d *sparse.DenseArray, b, rows, cols int) *sparse.DenseArray {
	out := sparse.ZerosDense(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(d.Get(b, i, j), i, j)
		}
	}
	return out
}

// TerrainDistance3D returns the 3-D distance in feet between two cells
// cellSize apart horizontally and separated by the given elevation
// difference, used by both trajectory construction and
// firebrand landing accounting.
func TerrainDistance3D(cellSize float64, di, dj int, elevSource, elevDest float64) float64 {
	dx := cellSize * float64(di)
	dy := cellSize * float64(dj)
	dz := elevDest - elevSource
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

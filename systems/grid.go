// Package systems provides the grid environment and ECS systems for the simulation.
package systems

import (
	"github.com/pthm-cable/neurogrid/neural"
)

// Grid is a bounded rectangular world of cells with an occupancy count per
// cell. It answers sensory queries for brains and validates moves.
type Grid struct {
	cols      int
	rows      int
	exclusive bool // at most one organism per cell
	depth     int  // look window depth in cells
	bound     float64
	counts    []uint16 // flat occupancy, row-major
}

// NewGrid creates an empty grid.
func NewGrid(cols, rows int, exclusive bool, visionDepth int, bound float64) *Grid {
	return &Grid{
		cols:      cols,
		rows:      rows,
		exclusive: exclusive,
		depth:     visionDepth,
		bound:     bound,
		counts:    make([]uint16, cols*rows),
	}
}

// Columns returns the grid width in cells.
func (g *Grid) Columns() int { return g.cols }

// Rows returns the grid height in cells.
func (g *Grid) Rows() int { return g.rows }

// Exclusive reports whether cells hold at most one organism.
func (g *Grid) Exclusive() bool { return g.exclusive }

// OutOfBounds reports whether (x, y) lies outside the grid.
func (g *Grid) OutOfBounds(x, y int) bool {
	return x < 0 || y < 0 || x >= g.cols || y >= g.rows
}

// Count returns the number of organisms in cell (x, y), 0 when out of bounds.
func (g *Grid) Count(x, y int) int {
	if g.OutOfBounds(x, y) {
		return 0
	}
	return int(g.counts[y*g.cols+x])
}

// Occupied reports whether any organism is in cell (x, y).
func (g *Grid) Occupied(x, y int) bool {
	return g.Count(x, y) > 0
}

// CanEnter reports whether an organism may be placed in (x, y).
func (g *Grid) CanEnter(x, y int) bool {
	if g.OutOfBounds(x, y) {
		return false
	}
	return !g.exclusive || g.counts[y*g.cols+x] == 0
}

// Place records an organism in (x, y). Returns false if the cell cannot be entered.
func (g *Grid) Place(x, y int) bool {
	if !g.CanEnter(x, y) {
		return false
	}
	g.counts[y*g.cols+x]++
	return true
}

// Remove clears one organism from (x, y). Empty or out-of-bounds cells are ignored.
func (g *Grid) Remove(x, y int) {
	if g.OutOfBounds(x, y) {
		return
	}
	if i := y*g.cols + x; g.counts[i] > 0 {
		g.counts[i]--
	}
}

// Move relocates an organism from (x, y) by (dx, dy). Blocked or
// out-of-bounds targets leave it in place and return ok=false.
func (g *Grid) Move(x, y, dx, dy int) (nx, ny int, ok bool) {
	nx, ny = x+dx, y+dy
	if (dx == 0 && dy == 0) || !g.CanEnter(nx, ny) {
		return x, y, false
	}
	g.Remove(x, y)
	g.counts[ny*g.cols+nx]++
	return nx, ny, true
}

// Clear empties every cell.
func (g *Grid) Clear() {
	clear(g.counts)
}

// Sense implements neural.Environment. Look receptors count occupied or
// out-of-bounds cells in a depth-deep window on one side of (x, y),
// normalized to [0, bound]. X and Y report the position scaled to [0, bound).
func (g *Grid) Sense(kind neural.ReceptorKind, x, y int) float64 {
	d := g.depth
	switch kind {
	case neural.LookUp:
		return g.look(x-d, x+d+1, y+1, y+d+1)
	case neural.LookDown:
		return g.look(x-d, x+d+1, y-d, y)
	case neural.LookLeft:
		return g.look(x-d, x, y-d, y+d+1)
	case neural.LookRight:
		return g.look(x+1, x+d+1, y-d, y+d+1)
	case neural.SenseX:
		return float64(x) / float64(g.cols) * g.bound
	case neural.SenseY:
		return float64(y) / float64(g.rows) * g.bound
	}
	return 0
}

// look scans the half-open window [x0,x1) x [y0,y1).
func (g *Grid) look(x0, x1, y0, y1 int) float64 {
	if g.depth == 0 {
		return 0
	}
	hits := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if g.OutOfBounds(x, y) || g.counts[y*g.cols+x] > 0 {
				hits++
			}
		}
	}
	cells := float64((2*g.depth + 1) * g.depth)
	return float64(hits) / cells * g.bound
}

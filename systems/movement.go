package systems

import "github.com/pthm-cable/neurogrid/neural"

// actionDeltas maps each action category to a one-cell step.
var actionDeltas = [neural.NumActions][2]int{
	neural.MoveUp:    {0, 1},
	neural.MoveDown:  {0, -1},
	neural.MoveLeft:  {-1, 0},
	neural.MoveRight: {1, 0},
}

// ActionDelta returns the cell offset for a single action category.
func ActionDelta(a neural.ActionKind) (dx, dy int) {
	d := actionDeltas[a]
	return d[0], d[1]
}

// ApplyActions attempts one move per set bit, in category order, and returns
// the final position and number of moves that succeeded. Rejected moves are
// silently skipped.
func ApplyActions(g *Grid, x, y int, actions neural.ActionVector) (nx, ny, moved int) {
	nx, ny = x, y
	for a, on := range actions {
		if !on {
			continue
		}
		dx, dy := ActionDelta(neural.ActionKind(a))
		var ok bool
		if nx, ny, ok = g.Move(nx, ny, dx, dy); ok {
			moved++
		}
	}
	return nx, ny, moved
}

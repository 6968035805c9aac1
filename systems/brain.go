package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/neurogrid/components"
)

// BrainSystem steps every organism's brain once per tick and turns the
// fired action categories into moves on the grid.
type BrainSystem struct {
	filter *ecs.Filter3[components.Position, components.Organism, components.Brain]
}

// NewBrainSystem creates a brain system over every organism in w.
func NewBrainSystem(w *ecs.World) *BrainSystem {
	return &BrainSystem{
		filter: ecs.NewFilter3[components.Position, components.Organism, components.Brain](w),
	}
}

// Update runs one tick in query order. Each organism senses the grid as
// left by the organisms before it. onMove, if set, receives every organism
// that moved at least once. Returns the number of successful moves.
func (s *BrainSystem) Update(grid *Grid, onMove func(id uint32, moves int)) int {
	total := 0
	query := s.filter.Query()
	for query.Next() {
		pos, org, brain := query.Get()

		actions := brain.SimulateStep()
		if !actions.Any() {
			continue
		}
		x, y, moved := ApplyActions(grid, pos.X, pos.Y, actions)
		pos.X, pos.Y = x, y
		if moved > 0 {
			total += moved
			if onMove != nil {
				onMove(org.ID, moved)
			}
		}
	}
	return total
}

// Size returns the summed neuron and synapse count of every brain.
func (s *BrainSystem) Size() int64 {
	var size int64
	query := s.filter.Query()
	for query.Next() {
		_, _, brain := query.Get()
		size += int64(brain.Size())
	}
	return size
}

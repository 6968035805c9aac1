package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/neurogrid/components"
	"github.com/pthm-cable/neurogrid/neural"
)

type fixedLocator struct{ x, y int }

func (l fixedLocator) Position() (int, int) { return l.x, l.y }

// newMover builds a brain whose action neuron for a fires every tick with no
// input, and whose other action neurons never fire.
func newMover(t *testing.T, grid *Grid, a neural.ActionKind) *neural.Brain {
	t.Helper()
	cfg := neural.DefaultBrainConfig()
	cfg.InterNeurons = 0
	cfg.Synapses = 0
	b, err := neural.NewBrain(rand.New(rand.NewSource(42)), cfg, grid, fixedLocator{})
	if err != nil {
		t.Fatalf("NewBrain: %v", err)
	}
	for _, h := range b.Handles(neural.KindAction) {
		if n := b.Neuron(h); n.Action == a {
			n.Threshold = n.Resting - 10
			n.APLength = 0
		}
	}
	return b
}

func TestBrainSystemMovesOrganisms(t *testing.T) {
	world := ecs.NewWorld()
	grid := NewGrid(5, 5, false, 1, 1)
	mapper := ecs.NewMap3[components.Position, components.Organism, components.Brain](world)
	posMap := ecs.NewMap1[components.Position](world)

	brain := newMover(t, grid, neural.MoveRight)
	pos := components.Position{X: 0, Y: 2}
	org := components.Organism{ID: 7}
	br := components.Brain{Brain: brain}
	e := mapper.NewEntity(&pos, &org, &br)
	grid.Place(0, 2)

	sys := NewBrainSystem(world)
	if got := sys.Size(); got != int64(brain.Size()) {
		t.Errorf("Size() = %d, want %d", got, brain.Size())
	}

	perOrganism := make(map[uint32]int)
	total := 0
	for tick := 0; tick < 6; tick++ {
		total += sys.Update(grid, func(id uint32, n int) { perOrganism[id] += n })
	}

	// Four moves reach the right edge; the last two are blocked.
	if total != 4 || perOrganism[7] != 4 {
		t.Errorf("moves = %d (organism 7: %d), want 4", total, perOrganism[7])
	}
	if p := posMap.Get(e); p.X != 4 || p.Y != 2 {
		t.Errorf("position = (%d,%d), want (4,2)", p.X, p.Y)
	}
	if grid.Count(4, 2) != 1 || grid.Count(0, 2) != 0 {
		t.Errorf("grid counts: (4,2)=%d (0,2)=%d", grid.Count(4, 2), grid.Count(0, 2))
	}
}

func TestBrainSystemExclusiveCells(t *testing.T) {
	world := ecs.NewWorld()
	grid := NewGrid(4, 1, true, 1, 1)
	if !grid.Exclusive() {
		t.Fatal("grid not exclusive")
	}
	mapper := ecs.NewMap3[components.Position, components.Organism, components.Brain](world)

	// A mover at x=0 runs into a still organism at x=2.
	for i, x := range []int{0, 2} {
		action := neural.MoveRight
		if i == 1 {
			action = neural.MoveUp // blocked by the grid's single row
		}
		pos := components.Position{X: x}
		org := components.Organism{ID: uint32(i + 1)}
		br := components.Brain{Brain: newMover(t, grid, action)}
		mapper.NewEntity(&pos, &org, &br)
		grid.Place(x, 0)
	}

	sys := NewBrainSystem(world)
	total := 0
	for tick := 0; tick < 5; tick++ {
		total += sys.Update(grid, nil)
	}
	if total != 1 {
		t.Errorf("moves = %d, want 1", total)
	}
	if grid.Count(1, 0) != 1 || grid.Count(2, 0) != 1 {
		t.Errorf("grid counts: (1,0)=%d (2,0)=%d", grid.Count(1, 0), grid.Count(2, 0))
	}
}

package game

import (
	"context"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/neurogrid/neural"
	"github.com/pthm-cable/neurogrid/telemetry"
)

// survivor is what refill needs from a kept organism.
type survivor struct {
	id         uint32
	generation uint32
	brain      *neural.Brain
}

// scatterCell draws a random cell outside the survival zone that the grid
// lets an organism enter. With exclusive cells, the population never exceeds
// the scatter cells, so a free one always exists.
func (s *Simulation) scatterCell() (x, y int) {
	cols := s.grid.Columns()
	for {
		c := s.scatterCells[s.rng.Intn(len(s.scatterCells))]
		x, y = c%cols, c/cols
		if s.grid.CanEnter(x, y) {
			return x, y
		}
	}
}

// scatter resets every brain and moves every organism to a random cell
// outside the survival zone.
func (s *Simulation) scatter() {
	s.grid.Clear()

	query := s.entityFilter.Query()
	for query.Next() {
		pos, _, brain := query.Get()
		brain.Reset()
		pos.X, pos.Y = s.scatterCell()
		s.grid.Place(pos.X, pos.Y)
	}
}

// runTicks runs the brain system once per tick. Returns the work done for
// perf normalization.
func (s *Simulation) runTicks(ctx context.Context) (int64, error) {
	size := s.brainSystem.Size()

	for t := 0; t < s.cfg.Epoch.Ticks; t++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		s.collector.RecordMoves(s.brainSystem.Update(s.grid, s.lifetime.RecordMoves))
	}

	return size * int64(s.cfg.Epoch.Ticks), nil
}

// selectSurvivors applies the survival zone with reprieve and cull chances
// and removes every organism that is not kept. Returns the survivors and a
// brain sample of the whole pre-selection population.
func (s *Simulation) selectSurvivors() ([]survivor, []telemetry.BrainSample) {
	reprieve := s.cfg.Selection.ReprieveChance
	cull := s.cfg.Selection.CullChance

	// First pass: decide (must complete before modifying)
	type removal struct {
		entity ecs.Entity
		id     uint32
		x, y   int
	}
	var toRemove []removal
	var survivors []survivor
	samples := make([]telemetry.BrainSample, 0, s.population)

	query := s.entityFilter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, org, brain := query.Get()

		samples = append(samples, telemetry.BrainSample{
			Inter:      brain.NumInter(),
			Synapses:   brain.NumSynapses(),
			Generation: org.Generation,
		})
		s.collector.RecordSpikes(brain.Spikes())

		passed := s.zone.Contains(pos.X, pos.Y)
		var kept bool
		if passed {
			kept = s.rng.Float64() >= cull
		} else {
			kept = s.rng.Float64() < reprieve
		}
		s.collector.RecordSelection(passed, kept)

		if kept {
			survivors = append(survivors, survivor{id: org.ID, generation: org.Generation, brain: brain.Brain})
			continue
		}
		toRemove = append(toRemove, removal{entity: entity, id: org.ID, x: pos.X, y: pos.Y})
	}

	// Second pass: remove
	for _, r := range toRemove {
		s.removeOrganism(r.entity, r.x, r.y, r.id)
	}
	for _, sv := range survivors {
		s.lifetime.RecordSurvival(sv.id)
	}

	return survivors, samples
}

// refill restores the target population. A fraction of the missing
// organisms are offspring of uniformly chosen survivors, the rest get fresh
// random brains. With no survivors the whole population is fresh.
func (s *Simulation) refill(survivors []survivor) error {
	missing := s.cfg.Population.Organisms - s.population
	if missing <= 0 {
		return nil
	}

	offspring := 0
	if len(survivors) > 0 {
		offspring = int(s.cfg.Selection.OffspringFraction * float64(missing))
	} else {
		slog.Warn("population_extinct", "epoch", s.epoch, "refill", missing)
	}

	for i := 0; i < offspring; i++ {
		parent := survivors[s.rng.Intn(len(survivors))]
		x, y := s.scatterCell()
		s.spawnOffspring(parent, x, y)
	}
	for i := offspring; i < missing; i++ {
		x, y := s.scatterCell()
		if err := s.spawnFresh(x, y); err != nil {
			return err
		}
	}
	return nil
}

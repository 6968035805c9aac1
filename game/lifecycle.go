package game

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/neurogrid/components"
	"github.com/pthm-cable/neurogrid/neural"
)

// organismLocator reads an organism's position from the world each time a
// receptor samples.
type organismLocator struct {
	entity ecs.Entity
	posMap *ecs.Map1[components.Position]
}

func (l organismLocator) Position() (x, y int) {
	pos := l.posMap.Get(l.entity)
	return pos.X, pos.Y
}

func (s *Simulation) locator(e ecs.Entity) neural.Locator {
	return organismLocator{entity: e, posMap: s.posMap}
}

// spawnInitialPopulation creates the starting organisms on random cells
// outside the survival zone.
func (s *Simulation) spawnInitialPopulation() error {
	for i := 0; i < s.cfg.Population.Organisms; i++ {
		x, y := s.scatterCell()
		if err := s.spawnFresh(x, y); err != nil {
			return err
		}
	}
	return nil
}

// newOrganism creates the entity with an empty brain slot so the brain can
// be bound to the entity's position before it is installed.
func (s *Simulation) newOrganism(x, y int, parentID, generation uint32) (ecs.Entity, components.Organism) {
	org := components.Organism{
		ID:         s.nextID,
		ParentID:   parentID,
		Generation: generation,
		BirthEpoch: s.epoch,
	}
	s.nextID++

	pos := components.Position{X: x, Y: y}
	brain := components.Brain{}
	entity := s.entityMapper.NewEntity(&pos, &org, &brain)
	s.grid.Place(x, y)
	s.population++

	s.lifetime.Register(org.ID, org.BirthEpoch, generation, parentID)
	return entity, org
}

// spawnFresh creates an organism with a random brain.
func (s *Simulation) spawnFresh(x, y int) error {
	entity, org := s.newOrganism(x, y, 0, 0)

	brain, err := neural.NewBrain(s.rng, s.brainCfg, s.grid, s.locator(entity))
	if err != nil {
		s.removeOrganism(entity, x, y, org.ID)
		return fmt.Errorf("spawning organism %d: %w", org.ID, err)
	}
	s.brainMap.Get(entity).Brain = brain

	s.collector.RecordFresh()
	return nil
}

// spawnOffspring creates an organism whose brain is a mutated copy of the
// parent's.
func (s *Simulation) spawnOffspring(parent survivor, x, y int) {
	entity, _ := s.newOrganism(x, y, parent.id, parent.generation+1)

	brain, stats := parent.brain.CopyAndMutate(s.rng, s.locator(entity), s.mutCfg)
	s.brainMap.Get(entity).Brain = brain

	s.lifetime.RecordChild(parent.id)
	s.collector.RecordOffspring(stats)
}

// removeOrganism drops the entity, its brain and its grid occupancy.
// Must not be called while a query is iterating.
func (s *Simulation) removeOrganism(e ecs.Entity, x, y int, id uint32) {
	s.grid.Remove(x, y)
	s.lifetime.Remove(id)
	s.world.RemoveEntity(e)
	s.population--
}

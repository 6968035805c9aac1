// Package game runs the epoch loop: organisms with spiking brains are
// scattered on a grid, act for a fixed number of ticks, and are selected by
// whether they ended inside the survival zone.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/neurogrid/components"
	"github.com/pthm-cable/neurogrid/config"
	"github.com/pthm-cable/neurogrid/neural"
	"github.com/pthm-cable/neurogrid/systems"
	"github.com/pthm-cable/neurogrid/telemetry"
)

// Simulation holds the world and every piece of per-run state.
type Simulation struct {
	cfg      *config.Config
	brainCfg neural.BrainConfig
	mutCfg   neural.MutationConfig

	world *ecs.World
	rng   *rand.Rand
	seed  int64

	// Entity mapper for creating organisms
	entityMapper *ecs.Map3[
		components.Position,
		components.Organism,
		components.Brain,
	]

	// Filter for querying organisms
	entityFilter *ecs.Filter3[
		components.Position,
		components.Organism,
		components.Brain,
	]

	// Component mappers for single-entity access
	posMap   *ecs.Map1[components.Position]
	brainMap *ecs.Map1[components.Brain]

	brainSystem *systems.BrainSystem

	grid         *systems.Grid
	zone         systems.SurvivalZone
	scatterCells []int // cell indices outside the survival zone

	epoch      int
	nextID     uint32 // 0 is reserved for "no parent"
	population int

	// Telemetry
	collector     *telemetry.Collector
	lifetime      *telemetry.LifetimeTracker
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.EpochStats)
}

// NewSimulation validates the configuration, opens output files and spawns
// the initial population with fresh brains.
func NewSimulation(opts Options) (*Simulation, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	cfg.Recompute()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Population.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	outputManager, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := outputManager.WriteConfig(cfg); err != nil {
		outputManager.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	world := ecs.NewWorld()

	s := &Simulation{
		cfg:      cfg,
		brainCfg: cfg.BrainConfig(),
		mutCfg:   cfg.MutationConfig(),
		world:    world,
		rng:      rand.New(rand.NewSource(seed)),
		seed:     seed,

		entityMapper: ecs.NewMap3[
			components.Position,
			components.Organism,
			components.Brain,
		](world),
		entityFilter: ecs.NewFilter3[
			components.Position,
			components.Organism,
			components.Brain,
		](world),
		posMap:   ecs.NewMap1[components.Position](world),
		brainMap: ecs.NewMap1[components.Brain](world),

		brainSystem: systems.NewBrainSystem(world),

		grid: systems.NewGrid(cfg.World.Columns, cfg.World.Rows, cfg.World.ExclusiveCells,
			cfg.Sensing.VisionDepth, cfg.Sensing.Bound),
		zone: systems.SurvivalZone{
			MinX: cfg.Derived.ZoneMinX,
			MaxX: cfg.Derived.ZoneMaxX,
			MinY: cfg.Derived.ZoneMinY,
			MaxY: cfg.Derived.ZoneMaxY,
		},

		nextID: 1,

		collector:     telemetry.NewCollector(),
		lifetime:      telemetry.NewLifetimeTracker(),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		outputManager: outputManager,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}

	for y := 0; y < cfg.World.Rows; y++ {
		for x := 0; x < cfg.World.Columns; x++ {
			if !s.zone.Contains(x, y) {
				s.scatterCells = append(s.scatterCells, y*cfg.World.Columns+x)
			}
		}
	}

	if err := s.spawnInitialPopulation(); err != nil {
		outputManager.Close()
		return nil, err
	}

	slog.Info("simulation_created",
		"run_id", s.collector.RunID(),
		"seed", seed,
		"organisms", cfg.Population.Organisms,
		"grid", fmt.Sprintf("%dx%d", cfg.World.Columns, cfg.World.Rows),
	)

	return s, nil
}

// RunEpoch runs one full epoch: scatter, ticks, selection and refill.
// It returns ctx.Err() if the context is cancelled during the ticks; the
// population is then left unselected and the next call starts a fresh
// scatter.
func (s *Simulation) RunEpoch(ctx context.Context) (telemetry.EpochStats, error) {
	if err := ctx.Err(); err != nil {
		return telemetry.EpochStats{}, err
	}

	s.perfCollector.StartEpoch()

	s.perfCollector.StartPhase(telemetry.PhaseScatter)
	s.scatter()

	s.perfCollector.StartPhase(telemetry.PhaseTicks)
	work, err := s.runTicks(ctx)
	if err != nil {
		s.collector.Reset()
		return telemetry.EpochStats{}, err
	}

	s.perfCollector.StartPhase(telemetry.PhaseSelection)
	population := s.population
	survivors, samples := s.selectSurvivors()

	s.perfCollector.StartPhase(telemetry.PhaseRefill)
	if err := s.refill(survivors); err != nil {
		return telemetry.EpochStats{}, err
	}

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	stats := s.collector.Flush(s.epoch, population, len(survivors), samples, s.lifetime.OldestAge())
	s.perfCollector.EndEpoch(work)
	s.flushTelemetry(stats)

	s.epoch++
	return stats, nil
}

// Run executes epochs until the count is reached or ctx is cancelled.
// A non-positive count runs until cancellation.
func (s *Simulation) Run(ctx context.Context, epochs int) error {
	for i := 0; epochs <= 0 || i < epochs; i++ {
		if _, err := s.RunEpoch(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes output files.
func (s *Simulation) Close() error {
	return s.outputManager.Close()
}

// Epoch returns the number of completed epochs.
func (s *Simulation) Epoch() int { return s.epoch }

// Population returns the current number of organisms.
func (s *Simulation) Population() int { return s.population }

// Seed returns the seed the run's random source was created with.
func (s *Simulation) Seed() int64 { return s.seed }

// RunID returns the identifier stamped on every telemetry record.
func (s *Simulation) RunID() string { return s.collector.RunID() }

// Config returns the configuration the simulation runs with.
func (s *Simulation) Config() *config.Config { return s.cfg }

// Grid returns the occupancy grid.
func (s *Simulation) Grid() *systems.Grid { return s.grid }

// Zone returns the survival zone in cells.
func (s *Simulation) Zone() systems.SurvivalZone { return s.zone }

package main

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/neurogrid/config"
	"github.com/pthm-cable/neurogrid/game"
	"github.com/pthm-cable/neurogrid/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	epochs     int
	seeds      []int64
	baseConfig *config.Config

	mu           sync.Mutex
	lastSurvival float64 // mean survival rate from most recent Evaluate call
	lastDepth    float64 // mean generation depth from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, epochs int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		epochs:     epochs,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastSurvival returns the mean survival rate from the most recent evaluation.
func (fe *FitnessEvaluator) LastSurvival() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSurvival
}

// LastDepth returns the mean generation depth from the most recent evaluation.
func (fe *FitnessEvaluator) LastDepth() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastDepth
}

// scoreWarmupFraction is the share of leading epochs ignored when scoring.
const scoreWarmupFraction = 0.5

// runResult holds the results from a single simulation run.
type runResult struct {
	epochStats []telemetry.EpochStats // collected via StatsCallback each epoch
	err        error
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	survival float64
	depth    float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negative mean survival rate over the scored epochs.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			if result.err != nil {
				slog.Warn("evaluation failed", "seed", s, "error", result.err)
				return
			}
			results[idx] = fe.score(result.epochStats)
		}(i, seed)
	}
	wg.Wait()

	// Aggregate results
	var totalSurvival, totalDepth float64
	for _, r := range results {
		totalSurvival += r.survival
		totalDepth += r.depth
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastSurvival = totalSurvival / n
	fe.lastDepth = totalDepth / n
	fe.mu.Unlock()

	return computeFitness(totalSurvival / n)
}

// runSimulation executes a single headless simulation run.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	// Create a fresh config copy and apply parameters
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}

	sim, err := game.NewSimulation(game.Options{
		Seed:   seed,
		Config: cfg,
		StatsCallback: func(stats telemetry.EpochStats) {
			result.epochStats = append(result.epochStats, stats)
		},
	})
	if err != nil {
		result.err = err
		return result
	}
	defer sim.Close()

	result.err = sim.Run(context.Background(), fe.epochs)
	return result
}

// copyConfig creates a deep copy of the base config. Config holds only
// value fields, so a struct copy is enough.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// score reduces one run's epochs to the mean survival rate and mean
// generation depth after warmup.
func (fe *FitnessEvaluator) score(epochs []telemetry.EpochStats) seedResult {
	skip := int(float64(len(epochs)) * scoreWarmupFraction)
	scored := epochs[skip:]
	if len(scored) == 0 {
		return seedResult{}
	}

	survival := make([]float64, len(scored))
	depth := make([]float64, len(scored))
	for i, e := range scored {
		survival[i] = e.SurvivalRate
		depth[i] = e.GenerationMean
	}
	return seedResult{
		survival: stat.Mean(survival, nil),
		depth:    stat.Mean(depth, nil),
	}
}

// computeFitness maps a survival rate in [0,1] to a CMA-ES objective.
func computeFitness(survival float64) float64 {
	if math.IsNaN(survival) {
		return 0
	}
	return -survival
}

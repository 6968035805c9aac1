package telemetry

import (
	"github.com/google/uuid"

	"github.com/pthm-cable/neurogrid/neural"
)

// BrainSample is the per-organism data the collector needs at epoch end.
type BrainSample struct {
	Inter      int
	Synapses   int
	Generation uint32
}

// Collector accumulates events within an epoch and produces EpochStats.
type Collector struct {
	runID string

	// Event counters for the current epoch
	passed    int
	reprieved int
	culled    int
	offspring int
	fresh     int
	spikes    int
	moves     int
	mutations neural.MutationStats
}

// NewCollector creates a collector stamped with a fresh run identifier.
func NewCollector() *Collector {
	return NewCollectorWithRunID(uuid.NewString())
}

// NewCollectorWithRunID creates a collector with a caller-supplied run identifier.
func NewCollectorWithRunID(runID string) *Collector {
	return &Collector{runID: runID}
}

// RunID returns the run identifier stamped on every record.
func (c *Collector) RunID() string {
	return c.runID
}

// RecordSelection records one organism's selection outcome.
func (c *Collector) RecordSelection(passed, kept bool) {
	switch {
	case passed && kept:
		c.passed++
	case passed:
		c.passed++
		c.culled++
	case kept:
		c.reprieved++
	}
}

// RecordOffspring records a clone+mutate birth.
func (c *Collector) RecordOffspring(m neural.MutationStats) {
	c.offspring++
	c.mutations.Add(m)
}

// RecordFresh records a birth with a random brain.
func (c *Collector) RecordFresh() {
	c.fresh++
}

// RecordSpikes adds firings observed during the ticks.
func (c *Collector) RecordSpikes(n int) {
	c.spikes += n
}

// RecordMoves adds successful moves observed during the ticks.
func (c *Collector) RecordMoves(n int) {
	c.moves += n
}

// Flush produces EpochStats and resets counters for the next epoch.
// The caller must provide:
// - epoch: the epoch just completed
// - population: organisms that ran the ticks
// - survivors: organisms kept by selection
// - brains: one sample per organism that ran the ticks
// - oldestAge: epochs survived by the longest-lived organism
func (c *Collector) Flush(epoch, population, survivors int, brains []BrainSample, oldestAge int) EpochStats {
	inter := make([]float64, len(brains))
	synapses := make([]float64, len(brains))
	generations := make([]float64, len(brains))
	for i, b := range brains {
		inter[i] = float64(b.Inter)
		synapses[i] = float64(b.Synapses)
		generations[i] = float64(b.Generation)
	}
	interDist := ComputeDistribution(inter)
	synDist := ComputeDistribution(synapses)
	genDist := ComputeDistribution(generations)

	var survivalRate float64
	if population > 0 {
		survivalRate = float64(survivors) / float64(population)
	}

	stats := EpochStats{
		RunID: c.runID,
		Epoch: epoch,

		Population: population,
		Passed:     c.passed,
		Reprieved:  c.reprieved,
		Culled:     c.culled,
		Survivors:  survivors,
		Offspring:  c.offspring,
		Fresh:      c.fresh,
		Extinct:    survivors == 0,

		SurvivalRate: survivalRate,

		Spikes: c.spikes,
		Moves:  c.moves,

		InterMean:   interDist.Mean,
		InterStd:    interDist.Std,
		SynapseMean: synDist.Mean,
		SynapseStd:  synDist.Std,
		SynapseP10:  synDist.P10,
		SynapseP50:  synDist.P50,
		SynapseP90:  synDist.P90,

		GenerationMean: genDist.Mean,
		GenerationMax:  int(genDist.Max),
		OldestAge:      oldestAge,

		Pruned:             c.mutations.Pruned,
		NeuronsInserted:    c.mutations.NeuronsInserted,
		NeuronsDeleted:     c.mutations.NeuronsDeleted,
		NeuronsSubstituted: c.mutations.NeuronsSubstituted,
		SynapsesInserted:   c.mutations.SynapsesInserted,
		SynapsesDeleted:    c.mutations.SynapsesDeleted,
		ParamEdits:         c.mutations.ParamEdits,
	}

	c.Reset()
	return stats
}

// Reset discards the counters of an epoch that will not be flushed.
func (c *Collector) Reset() {
	c.passed = 0
	c.reprieved = 0
	c.culled = 0
	c.offspring = 0
	c.fresh = 0
	c.spikes = 0
	c.moves = 0
	c.mutations = neural.MutationStats{}
}

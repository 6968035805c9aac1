package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// EpochStats holds aggregated statistics for one epoch.
type EpochStats struct {
	RunID string `csv:"run_id"`
	Epoch int    `csv:"epoch"`

	// Population flow
	Population int  `csv:"population"` // size during the ticks
	Passed     int  `csv:"passed"`     // inside the survival zone at epoch end
	Reprieved  int  `csv:"reprieved"`  // failed but kept
	Culled     int  `csv:"culled"`     // passed but removed anyway
	Survivors  int  `csv:"survivors"`
	Offspring  int  `csv:"offspring"`
	Fresh      int  `csv:"fresh"`
	Extinct    bool `csv:"extinct"` // no survivors, population rebuilt from scratch

	SurvivalRate float64 `csv:"survival_rate"`

	// Activity during the ticks
	Spikes int `csv:"spikes"`
	Moves  int `csv:"moves"`

	// Brain size distribution of the population during the ticks
	InterMean   float64 `csv:"inter_mean"`
	InterStd    float64 `csv:"inter_std"`
	SynapseMean float64 `csv:"synapse_mean"`
	SynapseStd  float64 `csv:"synapse_std"`
	SynapseP10  float64 `csv:"synapse_p10"`
	SynapseP50  float64 `csv:"synapse_p50"`
	SynapseP90  float64 `csv:"synapse_p90"`

	// Lineage
	GenerationMean float64 `csv:"generation_mean"`
	GenerationMax  int     `csv:"generation_max"`
	OldestAge      int     `csv:"oldest_age"` // epochs survived by the longest-lived organism

	// Mutation totals over this epoch's offspring
	Pruned             int `csv:"pruned"`
	NeuronsInserted    int `csv:"neurons_inserted"`
	NeuronsDeleted     int `csv:"neurons_deleted"`
	NeuronsSubstituted int `csv:"neurons_substituted"`
	SynapsesInserted   int `csv:"synapses_inserted"`
	SynapsesDeleted    int `csv:"synapses_deleted"`
	ParamEdits         int `csv:"param_edits"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Max           float64
}

// ComputeDistribution calculates mean, sample standard deviation and
// empirical quantiles. Returns zeros for an empty sample.
func ComputeDistribution(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var d Distribution
	if n == 1 {
		d.Mean = sorted[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(sorted, nil)
	}
	d.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	d.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	d.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	d.Max = sorted[n-1]
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s EpochStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("epoch", s.Epoch),
		slog.Int("population", s.Population),
		slog.Int("passed", s.Passed),
		slog.Int("reprieved", s.Reprieved),
		slog.Int("culled", s.Culled),
		slog.Int("survivors", s.Survivors),
		slog.Int("offspring", s.Offspring),
		slog.Int("fresh", s.Fresh),
		slog.Bool("extinct", s.Extinct),
		slog.Float64("survival_rate", s.SurvivalRate),
		slog.Int("spikes", s.Spikes),
		slog.Int("moves", s.Moves),
		slog.Float64("inter_mean", s.InterMean),
		slog.Float64("synapse_mean", s.SynapseMean),
		slog.Float64("synapse_p50", s.SynapseP50),
		slog.Float64("generation_mean", s.GenerationMean),
		slog.Int("generation_max", s.GenerationMax),
		slog.Int("oldest_age", s.OldestAge),
		slog.Int("neurons_inserted", s.NeuronsInserted),
		slog.Int("neurons_deleted", s.NeuronsDeleted),
		slog.Int("synapses_inserted", s.SynapsesInserted),
		slog.Int("synapses_deleted", s.SynapsesDeleted),
		slog.Int("pruned", s.Pruned),
	)
}

// LogStats logs the epoch stats using slog.
func (s EpochStats) LogStats() {
	slog.Info("stats", "run_id", s.RunID, "epoch_stats", s)
}

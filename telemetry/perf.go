package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one epoch.
const (
	PhaseScatter   = "scatter"
	PhaseTicks     = "ticks"
	PhaseSelection = "selection"
	PhaseRefill    = "refill"
	PhaseTelemetry = "telemetry"
)

// PerfSample holds timing data for a single epoch.
type PerfSample struct {
	EpochDuration time.Duration
	Phases        map[string]time.Duration
	Work          int64 // ticks * sum over organisms of (neurons + synapses)
}

// PerfCollector tracks performance metrics over a rolling window of epochs.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	epochStart    time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of epochs to average over.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 20
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartEpoch begins timing a new epoch.
func (p *PerfCollector) StartEpoch() {
	p.epochStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	// End previous phase if any
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndEpoch finishes timing the current epoch and records the sample.
// work is the brain workload of the tick phase, used for normalization.
func (p *PerfCollector) EndEpoch(work int64) {
	now := time.Now()
	// End final phase
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		EpochDuration: now.Sub(p.epochStart),
		Phases:        p.currentPhases,
		Work:          work,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Epoch timing
	AvgEpochDuration time.Duration
	MinEpochDuration time.Duration
	MaxEpochDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total epoch time
	PhasePct map[string]float64

	// Throughput
	EpochsPerSecond float64
	NsPerUnit       float64 // tick phase time per (tick * neuron-or-synapse)
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var total time.Duration
	var minEpoch, maxEpoch time.Duration
	var work int64
	phaseSum := make(map[string]time.Duration)

	// Iterate over valid samples
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.EpochDuration
		work += s.Work

		if i == 0 || s.EpochDuration < minEpoch {
			minEpoch = s.EpochDuration
		}
		if s.EpochDuration > maxEpoch {
			maxEpoch = s.EpochDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)

	// Calculate phase averages and percentages
	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var epochsPerSec float64
	if avg > 0 {
		epochsPerSec = float64(time.Second) / float64(avg)
	}
	var nsPerUnit float64
	if work > 0 {
		nsPerUnit = float64(phaseSum[PhaseTicks]) / float64(work)
	}

	return PerfStats{
		AvgEpochDuration: avg,
		MinEpochDuration: minEpoch,
		MaxEpochDuration: maxEpoch,
		PhaseAvg:         phaseAvg,
		PhasePct:         phasePct,
		EpochsPerSecond:  epochsPerSec,
		NsPerUnit:        nsPerUnit,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_epoch_us", s.AvgEpochDuration.Microseconds(),
		"min_epoch_us", s.MinEpochDuration.Microseconds(),
		"max_epoch_us", s.MaxEpochDuration.Microseconds(),
		"epochs_per_sec", s.EpochsPerSecond,
		"ns_per_unit", s.NsPerUnit,
	}

	phases := []string{PhaseScatter, PhaseTicks, PhaseSelection, PhaseRefill, PhaseTelemetry}
	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_epoch_us", s.AvgEpochDuration.Microseconds()),
		slog.Int64("min_epoch_us", s.MinEpochDuration.Microseconds()),
		slog.Int64("max_epoch_us", s.MaxEpochDuration.Microseconds()),
		slog.Float64("epochs_per_sec", s.EpochsPerSecond),
		slog.Float64("ns_per_unit", s.NsPerUnit),
	}

	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	RunID        string  `csv:"run_id"`
	Epoch        int     `csv:"epoch"`
	AvgEpochUS   int64   `csv:"avg_epoch_us"`
	MinEpochUS   int64   `csv:"min_epoch_us"`
	MaxEpochUS   int64   `csv:"max_epoch_us"`
	EpochsPerSec float64 `csv:"epochs_per_sec"`
	NsPerUnit    float64 `csv:"ns_per_unit"`
	ScatterPct   float64 `csv:"scatter_pct"`
	TicksPct     float64 `csv:"ticks_pct"`
	SelectionPct float64 `csv:"selection_pct"`
	RefillPct    float64 `csv:"refill_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(runID string, epoch int) PerfStatsCSV {
	return PerfStatsCSV{
		RunID:        runID,
		Epoch:        epoch,
		AvgEpochUS:   s.AvgEpochDuration.Microseconds(),
		MinEpochUS:   s.MinEpochDuration.Microseconds(),
		MaxEpochUS:   s.MaxEpochDuration.Microseconds(),
		EpochsPerSec: s.EpochsPerSecond,
		NsPerUnit:    s.NsPerUnit,
		ScatterPct:   s.PhasePct[PhaseScatter],
		TicksPct:     s.PhasePct[PhaseTicks],
		SelectionPct: s.PhasePct[PhaseSelection],
		RefillPct:    s.PhasePct[PhaseRefill],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}

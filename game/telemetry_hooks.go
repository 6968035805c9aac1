package game

import (
	"log/slog"

	"github.com/pthm-cable/neurogrid/telemetry"
)

// flushTelemetry hands a completed epoch's stats to the callback, the log
// and the CSV output.
func (s *Simulation) flushTelemetry(stats telemetry.EpochStats) {
	perfStats := s.perfCollector.Stats()

	slog.Info("epoch_complete",
		"epoch", stats.Epoch,
		"population", stats.Population,
		"survivors", stats.Survivors,
		"offspring", stats.Offspring,
		"fresh", stats.Fresh,
		"synapse_mean", stats.SynapseMean,
	)

	// Call stats callback if provided
	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if s.outputManager != nil {
		if err := s.outputManager.WriteEpoch(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.outputManager.WritePerf(perfStats, stats.RunID, stats.Epoch); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

package game

import (
	"github.com/pthm-cable/neurogrid/config"
	"github.com/pthm-cable/neurogrid/telemetry"
)

// Options configures a Simulation.
type Options struct {
	Seed      int64          // 0 = population.seed, then time-based
	Config    *config.Config // nil = global config.Cfg()
	LogStats  bool           // log epoch and perf stats via slog
	OutputDir string         // empty = no CSV output

	// StatsCallback is called with every completed epoch's stats.
	StatsCallback func(telemetry.EpochStats)
}

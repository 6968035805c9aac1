package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/neurogrid/config"
	"github.com/pthm-cable/neurogrid/game"
	"github.com/pthm-cable/neurogrid/neural"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = population.seed, then time-based)")
	epochs := flag.Int("epochs", 100, "Stop after N epochs (0 = until interrupted)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim, err := game.NewSimulation(game.Options{
		Seed:      *seed,
		Config:    cfg,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer sim.Close()

	grid, zone := sim.Grid(), sim.Zone()
	slog.Info("starting_headless_simulation",
		"run_id", sim.RunID(),
		"seed", sim.Seed(),
		"epochs", *epochs,
		"grid", fmt.Sprintf("%dx%d", grid.Columns(), grid.Rows()),
		"exclusive_cells", grid.Exclusive(),
		"zone", fmt.Sprintf("(%d,%d)-(%d,%d)", zone.MinX, zone.MinY, zone.MaxX, zone.MaxY),
		"receptors", descriptorIDs(neural.ReceptorDescriptors()),
		"actions", descriptorIDs(neural.ActionDescriptors()),
		"output_dir", *outputDir,
	)

	start := time.Now()
	err = sim.Run(ctx, *epochs)
	switch {
	case errors.Is(err, context.Canceled):
		slog.Info("interrupted", "epoch", sim.Epoch())
	case err != nil:
		slog.Error("simulation failed", "epoch", sim.Epoch(), "error", err)
		sim.Close()
		os.Exit(1)
	default:
		slog.Info("max epochs reached", "epoch", sim.Epoch(), "elapsed", time.Since(start).String())
	}
}

func descriptorIDs(descs []neural.IODescriptor) []string {
	ids := make([]string, len(descs))
	for i, d := range descs {
		ids[i] = d.ID
	}
	return ids
}

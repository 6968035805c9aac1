// Package main tunes mutation and wiring parameters with CMA-ES, maximizing
// the fraction of organisms that reach the survival zone.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/neurogrid/config"
)

type options struct {
	configPath string
	epochs     int
	seeds      int
	maxEvals   int
	population int
	outputDir  string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.IntVar(&opts.epochs, "epochs", 60, "Epochs per simulation run")
	flag.IntVar(&opts.seeds, "seeds", 3, "Seeds averaged per evaluation")
	flag.IntVar(&opts.maxEvals, "max-evals", 200, "Evaluation budget")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = 4 + 3*dim/2)")
	flag.StringVar(&opts.outputDir, "output", "", "Directory for optimize_log.csv and best_config.yaml")
	flag.Parse()

	if opts.outputDir == "" {
		log.Fatal("--output is required")
	}

	// Simulation runs log through slog; keep only warnings.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

// search remembers the best evaluation seen so far. CMA-ES only reports
// its final mean, which can be worse than an earlier sample.
type search struct {
	evals       int
	bestFitness float64
	best        []float64
	started     time.Time
}

func (s *search) observe(fitness float64, values []float64) {
	s.evals++
	if s.best == nil || fitness < s.bestFitness {
		s.bestFitness = fitness
		s.best = append(s.best[:0], values...)
	}
}

func (s *search) eta(budget int) time.Duration {
	if s.evals == 0 {
		return 0
	}
	perEval := time.Since(s.started) / time.Duration(s.evals)
	return time.Duration(budget-s.evals) * perEval
}

func run(opts options) error {
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := config.Init(opts.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()
	evalSeeds := make([]int64, opts.seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, opts.epochs, evalSeeds, baseCfg)

	evals, err := createEvalLog(filepath.Join(opts.outputDir, "optimize_log.csv"))
	if err != nil {
		return err
	}
	defer evals.Close()

	st := &search{started: time.Now()}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			values := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(values)
			st.observe(fitness, values)

			rec := newEvalRecord(st.evals, fitness, evaluator.LastSurvival(), evaluator.LastDepth(), values)
			if err := evals.Write(rec); err != nil {
				slog.Warn("eval_log_write_failed", "error", err)
			}
			fmt.Printf("[%d/%d] survival %.3f, generation mean %.1f, best %.3f, eta %s\n",
				st.evals, opts.maxEvals, rec.Survival, rec.GenerationMean, -st.bestFitness,
				st.eta(opts.maxEvals).Round(time.Second))
			return fitness
		},
	}

	dim := params.Dim()
	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + 3*dim/2
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	settings := &optimize.Settings{FuncEvaluations: opts.maxEvals}
	initX := params.Normalize(params.Clamp(params.ExtractFromConfig(baseCfg)))

	fmt.Printf("CMA-ES over %d parameters: population %d, budget %d evals, %d seeds x %d epochs each\n",
		dim, popSize, opts.maxEvals, opts.seeds, opts.epochs)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		// Budget exhaustion is reported as an error; the best sample still stands.
		slog.Warn("optimization_stopped", "error", err)
	}

	best := st.best
	switch {
	case best != nil:
	case result != nil:
		best = params.Clamp(params.Denormalize(result.X))
	default:
		best = params.Clamp(params.ExtractFromConfig(baseCfg))
	}

	fmt.Printf("\n%d evals in %s, best survival %.3f\n",
		st.evals, time.Since(st.started).Round(time.Second), -st.bestFitness)
	for i, p := range params.Specs {
		fmt.Printf("  %-20s %.6f\n", p.Name, best[i])
	}

	return writeBestConfig(opts, params, best)
}

// writeBestConfig reloads the base config so the snapshot carries only the
// user's overrides plus the tuned values.
func writeBestConfig(opts options, params *ParamVector, best []float64) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("reloading config: %w", err)
	}
	params.ApplyToConfig(cfg, best)

	path := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	fmt.Printf("\nbest config: %s\n", path)
	return nil
}

// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/neurogrid/neural"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Population PopulationConfig `yaml:"population"`
	Brain      BrainConfig      `yaml:"brain"`
	Neuron     NeuronConfig     `yaml:"neuron"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Sensing    SensingConfig    `yaml:"sensing"`
	Epoch      EpochConfig      `yaml:"epoch"`
	Survival   SurvivalConfig   `yaml:"survival"`
	Selection  SelectionConfig  `yaml:"selection"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds grid dimensions.
type WorldConfig struct {
	Columns        int  `yaml:"columns"`
	Rows           int  `yaml:"rows"`
	ExclusiveCells bool `yaml:"exclusive_cells"` // at most one organism per cell
}

// PopulationConfig holds population size and seeding.
type PopulationConfig struct {
	Organisms int   `yaml:"organisms"` // target size restored after every epoch
	Seed      int64 `yaml:"seed"`      // 0 = time-based
}

// BrainConfig holds brain construction parameters.
type BrainConfig struct {
	InterNeurons int     `yaml:"inter_neurons"`
	Synapses     int     `yaml:"synapses"`      // requested wiring draws at birth
	StrengthMax  float64 `yaml:"strength_max"`  // synapse weights lie in [-max, max]
	InvertedRate float64 `yaml:"inverted_rate"` // probability a new inter neuron is inverted
}

// NeuronConfig holds the parameter ranges for freshly randomized neurons.
type NeuronConfig struct {
	Threshold      float64 `yaml:"threshold"`
	Resting        float64 `yaml:"resting"`
	DecayMin       float64 `yaml:"decay_min"`
	DecayMax       float64 `yaml:"decay_max"`
	APLengthMax    int     `yaml:"ap_length_max"`
	SensitivityMin float64 `yaml:"sensitivity_min"`
	SensitivityMax float64 `yaml:"sensitivity_max"`
}

// MutationConfig holds reproduction mutation parameters.
type MutationConfig struct {
	Chance           float64 `yaml:"chance"`
	Magnitude        float64 `yaml:"magnitude"`
	DecayScale       float64 `yaml:"decay_scale"`
	SensitivityScale float64 `yaml:"sensitivity_scale"`
}

// SensingConfig holds sensory receptor parameters.
type SensingConfig struct {
	VisionDepth int     `yaml:"vision_depth"` // cells scanned in each look direction
	Bound       float64 `yaml:"bound"`        // receptor outputs are normalized to [0, bound]
}

// EpochConfig holds epoch timing.
type EpochConfig struct {
	Ticks int `yaml:"ticks"`
}

// SurvivalConfig is the survival zone as fractions of the grid (exclusive bounds).
type SurvivalConfig struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinY float64 `yaml:"min_y"`
	MaxY float64 `yaml:"max_y"`
}

// SelectionConfig holds the stochastic selection and refill policy.
type SelectionConfig struct {
	ReprieveChance    float64 `yaml:"reprieve_chance"`
	CullChance        float64 `yaml:"cull_chance"`
	OffspringFraction float64 `yaml:"offspring_fraction"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int `yaml:"perf_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ZoneMinX, ZoneMaxX int // survival zone in cells, exclusive
	ZoneMinY, ZoneMaxY int
	ScatterCells       int // cells outside the survival zone
	MaxSynapses        int // theoretical edge limit for the configured brain
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	cols, rows := c.World.Columns, c.World.Rows

	c.Derived.ZoneMinX = int(c.Survival.MinX * float64(cols))
	c.Derived.ZoneMaxX = int(c.Survival.MaxX * float64(cols))
	c.Derived.ZoneMinY = int(c.Survival.MinY * float64(rows))
	c.Derived.ZoneMaxY = int(c.Survival.MaxY * float64(rows))

	zoneW := max(0, c.Derived.ZoneMaxX-c.Derived.ZoneMinX-1)
	zoneH := max(0, c.Derived.ZoneMaxY-c.Derived.ZoneMinY-1)
	c.Derived.ScatterCells = cols*rows - zoneW*zoneH

	c.Derived.MaxSynapses = neural.MaxSynapses(c.Brain.InterNeurons)
}

// Recompute refreshes derived values after fields were changed in code.
func (c *Config) Recompute() {
	c.computeDerived()
}

// Validate checks the configuration for values the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.World.Columns <= 0 || c.World.Rows <= 0 {
		errs = append(errs, fmt.Errorf("world must be at least 1x1, got %dx%d", c.World.Columns, c.World.Rows))
	}
	if c.Population.Organisms <= 0 {
		errs = append(errs, fmt.Errorf("population.organisms must be positive, got %d", c.Population.Organisms))
	}
	if c.Brain.InterNeurons < 0 || c.Brain.Synapses < 0 {
		errs = append(errs, errors.New("brain.inter_neurons and brain.synapses must not be negative"))
	}
	if c.Brain.Synapses > c.Derived.MaxSynapses {
		errs = append(errs, fmt.Errorf("brain.synapses %d exceeds maximum %d for %d inter neurons",
			c.Brain.Synapses, c.Derived.MaxSynapses, c.Brain.InterNeurons))
	}
	if c.Brain.StrengthMax <= 0 {
		errs = append(errs, fmt.Errorf("brain.strength_max must be positive, got %v", c.Brain.StrengthMax))
	}
	if c.Neuron.DecayMin <= 0 || c.Neuron.DecayMax >= 1 || c.Neuron.DecayMin > c.Neuron.DecayMax {
		errs = append(errs, fmt.Errorf("neuron decay range must lie inside (0,1), got [%v, %v]",
			c.Neuron.DecayMin, c.Neuron.DecayMax))
	}
	if c.Neuron.APLengthMax < 0 {
		errs = append(errs, fmt.Errorf("neuron.ap_length_max must not be negative, got %d", c.Neuron.APLengthMax))
	}
	if c.Epoch.Ticks <= 0 {
		errs = append(errs, fmt.Errorf("epoch.ticks must be positive, got %d", c.Epoch.Ticks))
	}
	if c.Sensing.VisionDepth < 0 {
		errs = append(errs, fmt.Errorf("sensing.vision_depth must not be negative, got %d", c.Sensing.VisionDepth))
	}

	probs := []struct {
		name string
		p    float64
	}{
		{"brain.inverted_rate", c.Brain.InvertedRate},
		{"mutation.chance", c.Mutation.Chance},
		{"selection.reprieve_chance", c.Selection.ReprieveChance},
		{"selection.cull_chance", c.Selection.CullChance},
		{"selection.offspring_fraction", c.Selection.OffspringFraction},
		{"survival.min_x", c.Survival.MinX},
		{"survival.max_x", c.Survival.MaxX},
		{"survival.min_y", c.Survival.MinY},
		{"survival.max_y", c.Survival.MaxY},
	}
	for _, pr := range probs {
		if pr.p < 0 || pr.p > 1 {
			errs = append(errs, fmt.Errorf("%s must lie in [0,1], got %v", pr.name, pr.p))
		}
	}

	if c.Derived.ScatterCells <= 0 {
		errs = append(errs, errors.New("survival zone covers the whole grid, nowhere to scatter organisms"))
	}
	if c.World.ExclusiveCells && c.Population.Organisms > c.Derived.ScatterCells {
		errs = append(errs, fmt.Errorf("%d organisms do not fit in %d cells outside the survival zone",
			c.Population.Organisms, c.Derived.ScatterCells))
	}

	return errors.Join(errs...)
}

// BrainConfig converts the brain and neuron sections into the neural package's form.
func (c *Config) BrainConfig() neural.BrainConfig {
	return neural.BrainConfig{
		InterNeurons: c.Brain.InterNeurons,
		Synapses:     c.Brain.Synapses,
		StrengthMax:  c.Brain.StrengthMax,
		InvertedRate: c.Brain.InvertedRate,
		Neuron: neural.NeuronParams{
			Threshold:      c.Neuron.Threshold,
			Resting:        c.Neuron.Resting,
			DecayMin:       c.Neuron.DecayMin,
			DecayMax:       c.Neuron.DecayMax,
			APLengthMax:    c.Neuron.APLengthMax,
			SensitivityMin: c.Neuron.SensitivityMin,
			SensitivityMax: c.Neuron.SensitivityMax,
		},
	}
}

// MutationConfig converts the mutation section into the neural package's form.
func (c *Config) MutationConfig() neural.MutationConfig {
	return neural.MutationConfig{
		Chance:           c.Mutation.Chance,
		Magnitude:        c.Mutation.Magnitude,
		DecayScale:       c.Mutation.DecayScale,
		SensitivityScale: c.Mutation.SensitivityScale,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

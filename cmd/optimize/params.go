// Package main provides CMA-ES optimization for neurogrid mutation parameters.
package main

import (
	"github.com/pthm-cable/neurogrid/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Mutation
			{Name: "mutation_chance", Path: "mutation.chance", Min: 0.0, Max: 0.5, Default: 0.1},
			{Name: "mutation_magnitude", Path: "mutation.magnitude", Min: 0.5, Max: 8.0, Default: 3.0},
			// Brain
			{Name: "inverted_rate", Path: "brain.inverted_rate", Min: 0.0, Max: 0.5, Default: 0.1},
			{Name: "synapses", Path: "brain.synapses", Min: 4, Max: 120, Default: 40},
			// Selection
			{Name: "offspring_fraction", Path: "selection.offspring_fraction", Min: 0.2, Max: 1.0, Default: 0.7},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct. The synapse
// count is additionally capped at what the configured brain can hold.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	// Clamp values to ensure they're within bounds
	clamped := pv.Clamp(values)

	// Order must match Specs order
	i := 0

	cfg.Mutation.Chance = clamped[i]; i++
	cfg.Mutation.Magnitude = clamped[i]; i++

	cfg.Brain.InvertedRate = clamped[i]; i++
	cfg.Brain.Synapses = int(clamped[i]); i++

	cfg.Selection.OffspringFraction = clamped[i]

	cfg.Recompute()
	cfg.Brain.Synapses = min(cfg.Brain.Synapses, cfg.Derived.MaxSynapses)
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Mutation.Chance,
		cfg.Mutation.Magnitude,
		cfg.Brain.InvertedRate,
		float64(cfg.Brain.Synapses),
		cfg.Selection.OffspringFraction,
	}
}

package neural

// NumReceptors is the number of sensory neurons in every brain, one per ReceptorKind.
const NumReceptors = int(numReceptorKinds)

// NumActions is the number of action categories, one action neuron each at birth.
const NumActions = int(numActionKinds)

// Clamp range for mutated decay rates; keeps DecayRate strictly inside (0,1).
const (
	minDecayRate = 0.01
	maxDecayRate = 0.99
)

// BrainConfig holds brain construction parameters.
type BrainConfig struct {
	InterNeurons int
	Synapses     int     // wiring draws at birth; realized edges may be fewer
	StrengthMax  float64 // weights lie in [-StrengthMax, StrengthMax]
	InvertedRate float64 // chance a fresh inter neuron is inverted
	Neuron       NeuronParams
}

// NeuronParams holds the ranges fresh neurons are drawn from.
type NeuronParams struct {
	Threshold      float64
	Resting        float64
	DecayMin       float64
	DecayMax       float64
	APLengthMax    int // inclusive
	SensitivityMin float64
	SensitivityMax float64
}

// MutationConfig holds clone+mutate parameters.
type MutationConfig struct {
	Chance           float64 // per-field and per-structural-draw gate
	Magnitude        float64 // perturbation scale, also the number of structural draws (rounded up)
	DecayScale       float64 // decay perturbation = U(0, Magnitude*DecayScale)
	SensitivityScale float64 // sensitivity perturbation = U(0, Magnitude*SensitivityScale)
}

// DefaultBrainConfig returns a configuration with sensible defaults.
func DefaultBrainConfig() BrainConfig {
	return BrainConfig{
		InterNeurons: 8,
		Synapses:     40,
		StrengthMax:  10,
		InvertedRate: 0.1,
		Neuron: NeuronParams{
			Threshold:      -55,
			Resting:        -70,
			DecayMin:       0.7,
			DecayMax:       0.9,
			APLengthMax:    2,
			SensitivityMin: 0.5,
			SensitivityMax: 1.5,
		},
	}
}

// DefaultMutationConfig returns mutation defaults.
func DefaultMutationConfig() MutationConfig {
	return MutationConfig{
		Chance:           0.1,
		Magnitude:        3,
		DecayScale:       0.01,
		SensitivityScale: 0.1,
	}
}

// MaxSynapses returns the theoretical edge limit for a brain with the given
// number of inter neurons: every (sensory|inter) -> (inter|action) pair except
// inter self-loops.
func MaxSynapses(interNeurons int) int {
	return (interNeurons+NumReceptors)*(interNeurons+NumActions) - interNeurons
}

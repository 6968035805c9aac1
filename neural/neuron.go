// Package neural provides spiking neural network brains for organisms.
package neural

import "math/rand"

// Kind identifies the neuron variant. The set is closed: sum and fire switch on it.
type Kind uint8

const (
	KindSensory Kind = iota
	KindInter
	KindAction
)

func (k Kind) String() string {
	switch k {
	case KindSensory:
		return "sensory"
	case KindInter:
		return "inter"
	case KindAction:
		return "action"
	}
	return "unknown"
}

// State is the phase of a neuron's action potential.
type State uint8

const (
	StateIdle     State = iota // APTimer < 0
	StateCharging              // 0 <= APTimer < APLength
	StateFire                  // APTimer == APLength
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCharging:
		return "charging"
	case StateFire:
		return "fire"
	}
	return "unknown"
}

// Neuron is a single spiking unit. Sensory neurons overwrite their potential
// from a receptor each tick; inter and action neurons accumulate Incoming.
type Neuron struct {
	ID        int // unique within its Kind
	Kind      Kind
	Threshold float64
	Resting   float64
	Potential float64
	DecayRate float64 // in (0,1); near 1 decays slowly
	Inverted  bool    // fires below threshold instead of above
	APLength  int     // ticks between initiation and firing
	APTimer   int     // -1 when idle
	Incoming  float64 // current pushed by upstream firings, consumed next Sum

	// Sensory only
	Sense       ReceptorKind
	Sensitivity float64
	receptor    SensoryReceptor

	// Action only
	Action ActionKind
	active bool

	out      []Synapse
	outIndex map[Handle]int
	parents  map[Handle]struct{}
}

func newNeuron(kind Kind, id int) *Neuron {
	return &Neuron{
		ID:       id,
		Kind:     kind,
		APTimer:  -1,
		outIndex: make(map[Handle]int),
		parents:  make(map[Handle]struct{}),
	}
}

// newInterNeuron creates a randomized inter neuron.
func newInterNeuron(rng *rand.Rand, cfg BrainConfig, id int) *Neuron {
	n := newNeuron(KindInter, id)
	n.randomize(rng, cfg.Neuron)
	n.Inverted = rng.Float64() < cfg.InvertedRate
	return n
}

// newActionNeuron creates a randomized action neuron for the given category.
func newActionNeuron(rng *rand.Rand, p NeuronParams, action ActionKind) *Neuron {
	n := newNeuron(KindAction, int(action))
	n.randomize(rng, p)
	n.Action = action
	return n
}

// newSensoryNeuron creates a sensory neuron. Sensory neurons rest at zero and
// fire immediately on any positive sample.
func newSensoryNeuron(rng *rand.Rand, p NeuronParams, sense ReceptorKind, r SensoryReceptor) *Neuron {
	n := newNeuron(KindSensory, int(sense))
	n.DecayRate = p.DecayMin + rng.Float64()*(p.DecayMax-p.DecayMin)
	n.Sense = sense
	n.Sensitivity = p.SensitivityMin + rng.Float64()*(p.SensitivityMax-p.SensitivityMin)
	n.receptor = r
	return n
}

func (n *Neuron) randomize(rng *rand.Rand, p NeuronParams) {
	n.Threshold = p.Threshold
	n.Resting = p.Resting
	n.Potential = p.Resting
	n.DecayRate = p.DecayMin + rng.Float64()*(p.DecayMax-p.DecayMin)
	n.APLength = rng.Intn(p.APLengthMax + 1)
	n.APTimer = -1
}

// State returns the current action potential phase.
func (n *Neuron) State() State {
	switch {
	case n.APTimer < 0:
		return StateIdle
	case n.APTimer == n.APLength:
		return StateFire
	default:
		return StateCharging
	}
}

// ThresholdReached reports inverted XOR (potential > threshold).
func (n *Neuron) ThresholdReached() bool {
	return n.Inverted != (n.Potential > n.Threshold)
}

// firesAtRest reports whether the neuron reaches its threshold at resting
// potential, so it spikes with no input at all.
func (n *Neuron) firesAtRest() bool {
	return n.Inverted != (n.Resting > n.Threshold)
}

// Active reports whether an action neuron fired during the current tick.
func (n *Neuron) Active() bool {
	return n.active
}

// decay relaxes potential exponentially toward resting.
func (n *Neuron) decay() {
	n.Potential = n.Resting + (n.Potential-n.Resting)*n.DecayRate
}

func (n *Neuron) sum() {
	switch n.Kind {
	case KindSensory:
		if n.receptor != nil {
			n.Potential = n.receptor.Sample() * n.Sensitivity
		}
	default:
		n.Potential += n.Incoming
		n.Incoming = 0
	}
}

// fire advances the action potential timer and, on reaching APLength, delivers
// the spike. Returns true if the neuron fired this tick.
func (n *Neuron) fire(arena []*Neuron) bool {
	if n.ThresholdReached() && n.APTimer < 0 {
		n.APTimer = 0
	}

	if n.APTimer == n.APLength {
		switch n.Kind {
		case KindAction:
			n.active = true
		default:
			for _, s := range n.out {
				arena[s.Target].Incoming += s.Weight
			}
		}
		n.Potential = n.Resting
		n.APTimer = -1
		return true
	}

	if n.APTimer >= 0 {
		n.APTimer++
	}
	return false
}

// reset returns dynamic state to rest, keeping parameters and edges.
func (n *Neuron) reset() {
	n.Potential = n.Resting
	n.APTimer = -1
	n.Incoming = 0
	n.active = false
}

// cloneParams copies parameters into a fresh neuron at rest with no edges.
func (n *Neuron) cloneParams() *Neuron {
	c := newNeuron(n.Kind, n.ID)
	c.Threshold = n.Threshold
	c.Resting = n.Resting
	c.Potential = n.Resting
	c.DecayRate = n.DecayRate
	c.Inverted = n.Inverted
	c.APLength = n.APLength
	c.Sense = n.Sense
	c.Sensitivity = n.Sensitivity
	c.Action = n.Action
	return c
}

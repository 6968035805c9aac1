package neural

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrTooManySynapses is returned when the requested wiring draws exceed the
// number of distinct edges the brain could hold.
var ErrTooManySynapses = errors.New("requested synapses exceed maximum")

// Brain is the spiking network owned by one organism. Neurons live in an
// arena addressed by Handle; edges are stored on their source with a parent
// set on the target.
type Brain struct {
	cfg BrainConfig
	env Environment

	arena   []*Neuron
	sensory []Handle
	inter   []Handle
	action  []Handle

	numSynapses int
	spikes      int
}

// NewBrain creates a randomly wired brain. Sensory receptors are bound to
// owner and query env; either may be nil, in which case receptors sample 0.
func NewBrain(rng *rand.Rand, cfg BrainConfig, env Environment, owner Locator) (*Brain, error) {
	if max := MaxSynapses(cfg.InterNeurons); cfg.Synapses > max {
		return nil, fmt.Errorf("%w: requested %d, max %d for %d inter neurons",
			ErrTooManySynapses, cfg.Synapses, max, cfg.InterNeurons)
	}

	b := newBrain(cfg, env)
	for k := ReceptorKind(0); k < numReceptorKinds; k++ {
		b.add(newSensoryNeuron(rng, cfg.Neuron, k, NewReceptor(env, k, owner)))
	}
	for a := ActionKind(0); a < numActionKinds; a++ {
		b.add(newActionNeuron(rng, cfg.Neuron, a))
	}
	for i := 0; i < cfg.InterNeurons; i++ {
		b.add(newInterNeuron(rng, cfg, i))
	}
	for i := 0; i < cfg.Synapses; i++ {
		b.wireRandom(rng)
	}
	return b, nil
}

func newBrain(cfg BrainConfig, env Environment) *Brain {
	return &Brain{cfg: cfg, env: env}
}

// add places n in the arena and its kind list.
func (b *Brain) add(n *Neuron) Handle {
	h := Handle(len(b.arena))
	b.arena = append(b.arena, n)
	switch n.Kind {
	case KindSensory:
		b.sensory = append(b.sensory, h)
	case KindInter:
		b.inter = append(b.inter, h)
	case KindAction:
		b.action = append(b.action, h)
	}
	return h
}

// live returns the neuron at h, or nil for out-of-range handles and tombstones.
func (b *Brain) live(h Handle) *Neuron {
	if h < 0 || int(h) >= len(b.arena) {
		return nil
	}
	return b.arena[h]
}

// wireRandom makes one random draw from {sensory, inter} to {inter, action}.
// Colliding draws are dropped.
func (b *Brain) wireRandom(rng *rand.Rand) bool {
	nPre := len(b.sensory) + len(b.inter)
	nPost := len(b.inter) + len(b.action)
	if nPre == 0 || nPost == 0 {
		return false
	}

	var pre, post Handle
	if i := rng.Intn(nPre); i < len(b.sensory) {
		pre = b.sensory[i]
	} else {
		pre = b.inter[i-len(b.sensory)]
	}
	if i := rng.Intn(nPost); i < len(b.inter) {
		post = b.inter[i]
	} else {
		post = b.action[i-len(b.inter)]
	}
	return b.CreateSynapse(rng, pre, post, AutoWeight)
}

// SimulateStep advances the brain one tick and returns which action
// categories fired. Phases run globally: every neuron decays, then every
// neuron sums, then every neuron fires, so each synapse hop costs one tick.
func (b *Brain) SimulateStep() ActionVector {
	for _, h := range b.action {
		b.arena[h].active = false
	}

	groups := [3][]Handle{b.sensory, b.inter, b.action}
	for _, g := range groups {
		for _, h := range g {
			b.arena[h].decay()
		}
	}
	for _, g := range groups {
		for _, h := range g {
			b.arena[h].sum()
		}
	}
	for _, g := range groups {
		for _, h := range g {
			if b.arena[h].fire(b.arena) {
				b.spikes++
			}
		}
	}

	var out ActionVector
	for _, h := range b.action {
		if n := b.arena[h]; n.active {
			out[n.Action] = true
		}
	}
	return out
}

// Reset returns every neuron to rest and clears the spike counter.
func (b *Brain) Reset() {
	for _, n := range b.arena {
		if n != nil {
			n.reset()
		}
	}
	b.spikes = 0
}

// Config returns the construction parameters.
func (b *Brain) Config() BrainConfig { return b.cfg }

func (b *Brain) NumSensory() int  { return len(b.sensory) }
func (b *Brain) NumInter() int    { return len(b.inter) }
func (b *Brain) NumAction() int   { return len(b.action) }
func (b *Brain) NumSynapses() int { return b.numSynapses }

// NumNeurons returns the number of live neurons.
func (b *Brain) NumNeurons() int {
	return len(b.sensory) + len(b.inter) + len(b.action)
}

// Size is neurons plus synapses, the unit of per-tick work.
func (b *Brain) Size() int {
	return b.NumNeurons() + b.numSynapses
}

// Spikes returns the number of firings since construction or the last Reset.
func (b *Brain) Spikes() int { return b.spikes }

// Neuron returns the neuron at h, or nil if h is not live.
func (b *Brain) Neuron(h Handle) *Neuron {
	return b.live(h)
}

// Handles returns a copy of the live handles of the given kind in creation order.
func (b *Brain) Handles(kind Kind) []Handle {
	var src []Handle
	switch kind {
	case KindSensory:
		src = b.sensory
	case KindInter:
		src = b.inter
	case KindAction:
		src = b.action
	}
	out := make([]Handle, len(src))
	copy(out, src)
	return out
}

package neural

import (
	"math"
	"math/rand"
	"slices"
)

// MutationStats counts the edits applied by one CopyAndMutate call.
type MutationStats struct {
	Pruned             int // parentless inter neurons that could never fire
	NeuronsInserted    int
	NeuronsDeleted     int
	NeuronsSubstituted int
	SynapsesInserted   int
	SynapsesDeleted    int
	ParamEdits         int
}

// Add accumulates o into s.
func (s *MutationStats) Add(o MutationStats) {
	s.Pruned += o.Pruned
	s.NeuronsInserted += o.NeuronsInserted
	s.NeuronsDeleted += o.NeuronsDeleted
	s.NeuronsSubstituted += o.NeuronsSubstituted
	s.SynapsesInserted += o.SynapsesInserted
	s.SynapsesDeleted += o.SynapsesDeleted
	s.ParamEdits += o.ParamEdits
}

type structuralOp uint8

const (
	opInsertNeuron structuralOp = iota
	opDeleteNeuron
	opSubstituteNeuron
	opInsertSynapse
	opDeleteSynapse
	numStructuralOps
)

// Clone returns a copy of b bound to owner, with unreachable inter neurons
// pruned and every remaining edge weight preserved. An inter neuron is
// unreachable when it has no parents and does not fire at rest. The copy
// starts at rest. b is not modified.
func (b *Brain) Clone(owner Locator) *Brain {
	c, _ := b.clone(owner)
	return c
}

// CopyAndMutate clones b for owner and applies structural then parametric
// mutation to the clone. b is not modified.
func (b *Brain) CopyAndMutate(rng *rand.Rand, owner Locator, mc MutationConfig) (*Brain, MutationStats) {
	c, pruned := b.clone(owner)
	stats := MutationStats{Pruned: pruned}
	c.mutateStructure(rng, mc, &stats)
	c.mutateParams(rng, mc, &stats)
	return c, stats
}

func (b *Brain) clone(owner Locator) (*Brain, int) {
	c := newBrain(b.cfg, b.env)
	remap := make(map[Handle]Handle, len(b.arena))
	pruned := 0

	for _, h := range b.sensory {
		n := b.arena[h]
		cn := n.cloneParams()
		cn.receptor = NewReceptor(b.env, n.Sense, owner)
		remap[h] = c.add(cn)
	}
	for _, h := range b.inter {
		n := b.arena[h]
		if len(n.parents) == 0 && !n.firesAtRest() {
			pruned++
			continue
		}
		remap[h] = c.add(n.cloneParams())
	}
	for _, h := range b.action {
		remap[h] = c.add(b.arena[h].cloneParams())
	}

	for _, g := range [2][]Handle{b.sensory, b.inter} {
		for _, h := range g {
			src, ok := remap[h]
			if !ok {
				continue
			}
			for _, s := range b.arena[h].out {
				if dst, ok := remap[s.Target]; ok {
					c.CreateSynapse(nil, src, dst, s.Weight)
				}
			}
		}
	}
	return c, pruned
}

// mutateStructure makes ceil(Magnitude) draws, each applied with probability Chance.
func (b *Brain) mutateStructure(rng *rand.Rand, mc MutationConfig, stats *MutationStats) {
	draws := int(math.Ceil(mc.Magnitude))
	for i := 0; i < draws; i++ {
		if rng.Float64() >= mc.Chance {
			continue
		}
		switch structuralOp(rng.Intn(int(numStructuralOps))) {
		case opInsertNeuron:
			b.insertNeuron(rng)
			stats.NeuronsInserted++
		case opDeleteNeuron:
			if b.deleteNeuron(rng) {
				stats.NeuronsDeleted++
			}
		case opSubstituteNeuron:
			if b.substituteNeuron(rng) {
				stats.NeuronsSubstituted++
			}
		case opInsertSynapse:
			if b.wireRandom(rng) {
				stats.SynapsesInserted++
			}
		case opDeleteSynapse:
			if b.deleteRandomSynapse(rng) {
				stats.SynapsesDeleted++
			}
		}
	}
}

// insertNeuron appends a fresh unconnected inter neuron with the next id.
func (b *Brain) insertNeuron(rng *rand.Rand) Handle {
	id := 0
	for _, h := range b.inter {
		if n := b.arena[h]; n.ID >= id {
			id = n.ID + 1
		}
	}
	return b.add(newInterNeuron(rng, b.cfg, id))
}

// deleteNeuron detaches a random inter neuron and tombstones it.
func (b *Brain) deleteNeuron(rng *rand.Rand) bool {
	if len(b.inter) == 0 {
		return false
	}
	i := rng.Intn(len(b.inter))
	h := b.inter[i]
	b.detach(h)
	b.arena[h] = nil
	b.inter = slices.Delete(b.inter, i, i+1)
	return true
}

// substituteNeuron re-randomizes a random inter neuron in place. Its id and
// edges are kept.
func (b *Brain) substituteNeuron(rng *rand.Rand) bool {
	if len(b.inter) == 0 {
		return false
	}
	n := b.arena[b.inter[rng.Intn(len(b.inter))]]
	fresh := newInterNeuron(rng, b.cfg, n.ID)
	n.Threshold = fresh.Threshold
	n.Resting = fresh.Resting
	n.DecayRate = fresh.DecayRate
	n.Inverted = fresh.Inverted
	n.APLength = fresh.APLength
	n.reset()
	return true
}

// deleteRandomSynapse removes one outgoing edge of a random sensory or inter neuron.
func (b *Brain) deleteRandomSynapse(rng *rand.Rand) bool {
	nPre := len(b.sensory) + len(b.inter)
	if nPre == 0 {
		return false
	}
	var h Handle
	if i := rng.Intn(nPre); i < len(b.sensory) {
		h = b.sensory[i]
	} else {
		h = b.inter[i-len(b.sensory)]
	}
	n := b.arena[h]
	if len(n.out) == 0 {
		return false
	}
	return b.RemoveSynapse(h, n.out[rng.Intn(len(n.out))].Target)
}

// mutateParams applies independent per-field perturbations to every neuron.
// Perturbations are additive; only decay is clamped to stay inside (0,1).
func (b *Brain) mutateParams(rng *rand.Rand, mc MutationConfig, stats *MutationStats) {
	for _, n := range b.arena {
		if n == nil {
			continue
		}
		if rng.Float64() < mc.Chance {
			if rng.Intn(2) == 0 {
				n.APLength++
			} else if n.APLength > 0 {
				n.APLength--
			}
			stats.ParamEdits++
		}
		if rng.Float64() < mc.Chance {
			n.Threshold += signedUniform(rng, mc.Magnitude)
			stats.ParamEdits++
		}
		if rng.Float64() < mc.Chance {
			n.Resting += signedUniform(rng, mc.Magnitude)
			n.Potential = n.Resting
			stats.ParamEdits++
		}
		if rng.Float64() < mc.Chance {
			d := n.DecayRate + signedUniform(rng, mc.Magnitude*mc.DecayScale)
			n.DecayRate = math.Min(maxDecayRate, math.Max(minDecayRate, d))
			stats.ParamEdits++
		}
		if n.Kind == KindSensory && rng.Float64() < mc.Chance {
			n.Sensitivity += signedUniform(rng, mc.Magnitude*mc.SensitivityScale)
			stats.ParamEdits++
		}
	}
}

// signedUniform returns ±U(0, scale) with a fair sign.
func signedUniform(rng *rand.Rand, scale float64) float64 {
	d := rng.Float64() * scale
	if rng.Intn(2) == 0 {
		return -d
	}
	return d
}

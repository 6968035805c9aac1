package neural

import (
	"math"
	"math/rand"
	"sort"
)

// Handle addresses a neuron in its brain's arena. Handles are stable for the
// lifetime of a brain; deleted neurons leave a tombstone until the next clone.
type Handle int32

// Synapse is an outgoing edge owned by its source neuron.
type Synapse struct {
	Target Handle
	Weight float64
}

// AutoWeight asks CreateSynapse to draw a uniform weight in ±StrengthMax.
var AutoWeight = math.NaN()

// CreateSynapse adds an edge src -> dst. Self-loops, duplicates, edges out of
// action neurons, edges into sensory neurons and tombstoned endpoints are
// silently rejected. A weight of AutoWeight is drawn from rng; any other value
// is used verbatim.
func (b *Brain) CreateSynapse(rng *rand.Rand, src, dst Handle, weight float64) bool {
	if src == dst {
		return false
	}
	from, to := b.live(src), b.live(dst)
	if from == nil || to == nil || from.Kind == KindAction || to.Kind == KindSensory {
		return false
	}
	if _, dup := to.parents[src]; dup {
		return false
	}

	if math.IsNaN(weight) {
		weight = (rng.Float64()*2 - 1) * b.cfg.StrengthMax
	}

	from.outIndex[dst] = len(from.out)
	from.out = append(from.out, Synapse{Target: dst, Weight: weight})
	to.parents[src] = struct{}{}
	b.numSynapses++
	return true
}

// RemoveSynapse deletes the edge src -> dst if present.
func (b *Brain) RemoveSynapse(src, dst Handle) bool {
	from, to := b.live(src), b.live(dst)
	if from == nil || to == nil {
		return false
	}
	if !from.removeOut(dst) {
		return false
	}
	delete(to.parents, src)
	b.numSynapses--
	return true
}

// removeOut swap-removes the outgoing edge to dst.
func (n *Neuron) removeOut(dst Handle) bool {
	i, ok := n.outIndex[dst]
	if !ok {
		return false
	}
	last := len(n.out) - 1
	if i != last {
		n.out[i] = n.out[last]
		n.outIndex[n.out[i].Target] = i
	}
	n.out = n.out[:last]
	delete(n.outIndex, dst)
	return true
}

// detach removes every edge into and out of h.
func (b *Brain) detach(h Handle) {
	n := b.live(h)
	if n == nil {
		return
	}
	for p := range n.parents {
		if parent := b.arena[p]; parent != nil && parent.removeOut(h) {
			b.numSynapses--
		}
	}
	clear(n.parents)

	for _, s := range n.out {
		delete(b.arena[s.Target].parents, h)
		b.numSynapses--
	}
	n.out = n.out[:0]
	clear(n.outIndex)
}

// Synapses returns a copy of h's outgoing edges.
func (b *Brain) Synapses(h Handle) []Synapse {
	n := b.live(h)
	if n == nil {
		return nil
	}
	out := make([]Synapse, len(n.out))
	copy(out, n.out)
	return out
}

// Parents returns the sources of h's incoming edges in ascending handle order.
func (b *Brain) Parents(h Handle) []Handle {
	n := b.live(h)
	if n == nil {
		return nil
	}
	parents := make([]Handle, 0, len(n.parents))
	for p := range n.parents {
		parents = append(parents, p)
	}
	sort.Slice(parents, func(i, j int) bool { return parents[i] < parents[j] })
	return parents
}

// HasSynapse reports whether the edge src -> dst exists.
func (b *Brain) HasSynapse(src, dst Handle) bool {
	to := b.live(dst)
	if to == nil {
		return false
	}
	_, ok := to.parents[src]
	return ok
}

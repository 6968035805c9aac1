package telemetry

import (
	"testing"

	"github.com/pthm-cable/neurogrid/neural"
)

func TestCollectorFlush(t *testing.T) {
	c := NewCollectorWithRunID("run-1")

	c.RecordSelection(true, true)   // passed, kept
	c.RecordSelection(true, true)   // passed, kept
	c.RecordSelection(true, false)  // passed, culled anyway
	c.RecordSelection(false, true)  // failed, reprieved
	c.RecordSelection(false, false) // failed, culled
	c.RecordOffspring(neural.MutationStats{NeuronsInserted: 1, ParamEdits: 3})
	c.RecordOffspring(neural.MutationStats{SynapsesDeleted: 2, ParamEdits: 1})
	c.RecordFresh()
	c.RecordSpikes(40)
	c.RecordMoves(7)

	brains := []BrainSample{
		{Inter: 8, Synapses: 30, Generation: 0},
		{Inter: 9, Synapses: 34, Generation: 2},
		{Inter: 7, Synapses: 26, Generation: 4},
		{Inter: 8, Synapses: 30, Generation: 2},
		{Inter: 8, Synapses: 30, Generation: 2},
	}
	s := c.Flush(3, 5, 3, brains, 6)

	if s.RunID != "run-1" || s.Epoch != 3 {
		t.Errorf("run/epoch = %q/%d", s.RunID, s.Epoch)
	}
	if s.Passed != 3 || s.Culled != 1 || s.Reprieved != 1 {
		t.Errorf("passed/culled/reprieved = %d/%d/%d, want 3/1/1", s.Passed, s.Culled, s.Reprieved)
	}
	if s.Offspring != 2 || s.Fresh != 1 {
		t.Errorf("offspring/fresh = %d/%d, want 2/1", s.Offspring, s.Fresh)
	}
	if s.SurvivalRate != 0.6 {
		t.Errorf("survival rate = %v, want 0.6", s.SurvivalRate)
	}
	if s.Extinct {
		t.Error("extinct with survivors")
	}
	if s.InterMean != 8 || s.SynapseMean != 30 {
		t.Errorf("inter/synapse mean = %v/%v, want 8/30", s.InterMean, s.SynapseMean)
	}
	if s.GenerationMax != 4 || s.GenerationMean != 2 {
		t.Errorf("generation max/mean = %d/%v, want 4/2", s.GenerationMax, s.GenerationMean)
	}
	if s.NeuronsInserted != 1 || s.SynapsesDeleted != 2 || s.ParamEdits != 4 {
		t.Errorf("mutation totals = %d/%d/%d", s.NeuronsInserted, s.SynapsesDeleted, s.ParamEdits)
	}
	if s.Spikes != 40 || s.Moves != 7 || s.OldestAge != 6 {
		t.Errorf("spikes/moves/oldest = %d/%d/%d", s.Spikes, s.Moves, s.OldestAge)
	}

	// Counters reset after flush.
	next := c.Flush(4, 5, 0, nil, 0)
	if next.Passed != 0 || next.Offspring != 0 || next.Spikes != 0 || next.ParamEdits != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
	if !next.Extinct {
		t.Error("zero survivors not flagged extinct")
	}
}

func TestNewCollectorRunID(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	if a.RunID() == "" || a.RunID() == b.RunID() {
		t.Errorf("run ids not unique: %q %q", a.RunID(), b.RunID())
	}
}

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.Register(1, 0, 0, 0)
	lt.Register(2, 0, 0, 0)
	lt.Register(3, 1, 1, 1)
	lt.Register(4, 1, 1, 1)

	lt.RecordChild(1)
	lt.RecordChild(1)
	lt.RecordSurvival(1)
	lt.RecordSurvival(1)
	lt.RecordSurvival(3)
	lt.RecordMoves(3, 5)
	lt.RecordSurvival(99) // unknown ids are ignored

	if got := lt.Get(1).Children; got != 2 {
		t.Errorf("children = %d, want 2", got)
	}
	if got := lt.OldestAge(); got != 2 {
		t.Errorf("oldest age = %d, want 2", got)
	}
	// Two fresh organisms plus one parent lineage.
	if got := lt.ActiveLineageCount(); got != 3 {
		t.Errorf("lineages = %d, want 3", got)
	}

	removed := lt.Remove(3)
	if removed == nil || removed.Moves != 5 || removed.Generation != 1 {
		t.Errorf("removed stats = %+v", removed)
	}
	if lt.Count() != 3 || lt.Get(3) != nil {
		t.Errorf("count = %d after remove", lt.Count())
	}
}

func TestCollectorResetDiscardsEpoch(t *testing.T) {
	c := NewCollectorWithRunID("run-2")
	c.RecordMoves(12)
	c.RecordSpikes(30)
	c.RecordSelection(true, true)
	c.RecordOffspring(neural.MutationStats{ParamEdits: 2})
	c.Reset()

	c.RecordMoves(3)
	s := c.Flush(0, 1, 1, []BrainSample{{Inter: 1}}, 0)
	if s.Moves != 3 || s.Spikes != 0 || s.Passed != 0 || s.Offspring != 0 || s.ParamEdits != 0 {
		t.Errorf("stats after reset = %+v", s)
	}
	if c.RunID() != "run-2" {
		t.Errorf("run id changed to %q", c.RunID())
	}
}

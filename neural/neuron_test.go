package neural

import (
	"fmt"
	"testing"
)

// constReceptor always samples the same value.
type constReceptor float64

func (c constReceptor) Sample() float64 { return float64(c) }

func TestDecayMovesTowardResting(t *testing.T) {
	tests := []struct {
		potential, resting, decay float64
	}{
		{-50, -70, 0.8},
		{-90, -70, 0.8},
		{10, 0, 0.01},
		{-69.9, -70, 0.99},
		{100, -70, 0.5},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("p=%v/r=%v/d=%v", tt.potential, tt.resting, tt.decay), func(t *testing.T) {
			n := newNeuron(KindInter, 0)
			n.Potential = tt.potential
			n.Resting = tt.resting
			n.DecayRate = tt.decay

			n.decay()

			lo, hi := tt.resting, tt.potential
			if lo > hi {
				lo, hi = hi, lo
			}
			if n.Potential <= lo || n.Potential >= hi {
				t.Errorf("decayed potential %v not strictly between %v and %v", n.Potential, lo, hi)
			}
		})
	}
}

func TestDecayAtRestingIsFixedPoint(t *testing.T) {
	n := newNeuron(KindInter, 0)
	n.Potential, n.Resting, n.DecayRate = -70, -70, 0.8
	n.decay()
	if n.Potential != -70 {
		t.Errorf("potential at rest moved to %v", n.Potential)
	}
}

func TestThresholdReachedIsInvertedXor(t *testing.T) {
	tests := []struct {
		name      string
		potential float64
		inverted  bool
		want      bool
	}{
		{"above", -50, false, true},
		{"below", -60, false, false},
		{"equal", -55, false, false},
		{"above inverted", -50, true, false},
		{"below inverted", -60, true, true},
		{"equal inverted", -55, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newNeuron(KindInter, 0)
			n.Threshold = -55
			n.Potential = tt.potential
			n.Inverted = tt.inverted

			if got := n.ThresholdReached(); got != tt.want {
				t.Errorf("ThresholdReached() = %v, want %v", got, tt.want)
			}
			if got, xor := n.ThresholdReached(), n.Inverted != (n.Potential > n.Threshold); got != xor {
				t.Errorf("ThresholdReached() = %v, inverted XOR above = %v", got, xor)
			}
		})
	}
}

func TestFireAfterAPLength(t *testing.T) {
	for apLength := 0; apLength <= 3; apLength++ {
		t.Run(fmt.Sprintf("ap=%d", apLength), func(t *testing.T) {
			target := newNeuron(KindInter, 1)
			n := newNeuron(KindInter, 0)
			n.Threshold, n.Resting, n.Potential = -55, -70, -50
			n.APLength = apLength
			n.out = []Synapse{{Target: 1, Weight: 7}}
			n.outIndex[1] = 0
			arena := []*Neuron{n, target}

			firedAt := -1
			for call := 1; call <= apLength+2; call++ {
				if n.fire(arena) {
					firedAt = call
					break
				}
				if n.State() == StateIdle {
					t.Fatalf("call %d: neuron went idle before firing", call)
				}
			}

			if firedAt != apLength+1 {
				t.Errorf("fired on call %d, want %d", firedAt, apLength+1)
			}
			if n.Potential != n.Resting {
				t.Errorf("potential after fire = %v, want resting %v", n.Potential, n.Resting)
			}
			if n.APTimer != -1 {
				t.Errorf("APTimer after fire = %d, want -1", n.APTimer)
			}
			if target.Incoming != 7 {
				t.Errorf("target incoming = %v, want 7", target.Incoming)
			}
		})
	}
}

func TestFireBelowThresholdStaysIdle(t *testing.T) {
	n := newNeuron(KindInter, 0)
	n.Threshold, n.Resting, n.Potential = -55, -70, -70

	if n.fire([]*Neuron{n}) {
		t.Error("neuron at rest fired")
	}
	if n.State() != StateIdle {
		t.Errorf("state = %v, want idle", n.State())
	}
}

func TestActionNeuronLatches(t *testing.T) {
	n := newNeuron(KindAction, int(MoveLeft))
	n.Action = MoveLeft
	n.Threshold, n.Resting, n.Potential = -55, -70, -40

	if !n.fire([]*Neuron{n}) {
		t.Fatal("action neuron above threshold did not fire")
	}
	if !n.Active() {
		t.Error("action neuron did not latch active")
	}

	n.reset()
	if n.Active() {
		t.Error("reset did not clear the latch")
	}
}

func TestSensorySumOverwritesPotential(t *testing.T) {
	n := newNeuron(KindSensory, int(SenseX))
	n.Sensitivity = 0.5
	n.receptor = constReceptor(8)
	n.Potential = 100
	n.Incoming = 42

	n.sum()

	if n.Potential != 4 {
		t.Errorf("potential = %v, want 4", n.Potential)
	}
	if n.Incoming != 42 {
		t.Errorf("sensory sum consumed incoming current")
	}
}

func TestInterSumConsumesIncoming(t *testing.T) {
	n := newNeuron(KindInter, 0)
	n.Potential = -70
	n.Incoming = 20

	n.sum()

	if n.Potential != -50 {
		t.Errorf("potential = %v, want -50", n.Potential)
	}
	if n.Incoming != 0 {
		t.Errorf("incoming = %v, want 0", n.Incoming)
	}
}

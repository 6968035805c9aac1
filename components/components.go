// Package components defines ECS components for the simulation.
package components

import "github.com/pthm-cable/neurogrid/neural"

// Brain holds the organism's spiking network. The brain is owned by the
// entity and dropped with it.
type Brain struct {
	*neural.Brain
}

package neural

// Environment answers sensing queries for an organism at a grid position.
// The returned value is raw; sensory neurons apply their own sensitivity.
type Environment interface {
	Sense(kind ReceptorKind, x, y int) float64
}

// Locator reports the current position of the organism owning a brain.
type Locator interface {
	Position() (x, y int)
}

// SensoryReceptor produces one scalar per tick for a sensory neuron.
type SensoryReceptor interface {
	Sample() float64
}

// EnvironmentFunc adapts a function to the Environment interface.
type EnvironmentFunc func(kind ReceptorKind, x, y int) float64

// Sense calls f.
func (f EnvironmentFunc) Sense(kind ReceptorKind, x, y int) float64 {
	return f(kind, x, y)
}

// envReceptor samples the environment at its owner's current position.
type envReceptor struct {
	env   Environment
	kind  ReceptorKind
	owner Locator
}

// NewReceptor builds a receptor of the given kind bound to owner.
// A nil environment or owner yields a receptor that always samples 0.
func NewReceptor(env Environment, kind ReceptorKind, owner Locator) SensoryReceptor {
	return &envReceptor{env: env, kind: kind, owner: owner}
}

func (r *envReceptor) Sample() float64 {
	if r.env == nil || r.owner == nil {
		return 0
	}
	x, y := r.owner.Position()
	return r.env.Sense(r.kind, x, y)
}

package neural

// IODescriptor describes a brain input or output.
type IODescriptor struct {
	ID          string  // Unique identifier
	Label       string  // Display name
	Description string  // Extended description
	Min         float64 // Minimum raw value
	Max         float64 // Maximum raw value (in units of the sensing bound for receptors)
	Group       string  // Logical grouping
}

// ReceptorKind selects what a sensory neuron samples from the environment.
type ReceptorKind uint8

const (
	LookUp ReceptorKind = iota
	LookDown
	LookLeft
	LookRight
	SenseX
	SenseY
	numReceptorKinds
)

// ActionKind is an action category; each has one bit in the ActionVector.
type ActionKind uint8

const (
	MoveUp ActionKind = iota
	MoveDown
	MoveLeft
	MoveRight
	numActionKinds
)

var receptorDescriptors = [NumReceptors]IODescriptor{
	{ID: "look_up", Label: "Look Up", Description: "Occupied or out-of-bounds cells above", Min: 0, Max: 1, Group: "vision"},
	{ID: "look_down", Label: "Look Down", Description: "Occupied or out-of-bounds cells below", Min: 0, Max: 1, Group: "vision"},
	{ID: "look_left", Label: "Look Left", Description: "Occupied or out-of-bounds cells to the left", Min: 0, Max: 1, Group: "vision"},
	{ID: "look_right", Label: "Look Right", Description: "Occupied or out-of-bounds cells to the right", Min: 0, Max: 1, Group: "vision"},
	{ID: "x", Label: "X", Description: "Column / columns", Min: 0, Max: 1, Group: "position"},
	{ID: "y", Label: "Y", Description: "Row / rows", Min: 0, Max: 1, Group: "position"},
}

var actionDescriptors = [NumActions]IODescriptor{
	{ID: "move_up", Label: "Up", Description: "Move one cell up (y+1)", Min: 0, Max: 1, Group: "movement"},
	{ID: "move_down", Label: "Down", Description: "Move one cell down (y-1)", Min: 0, Max: 1, Group: "movement"},
	{ID: "move_left", Label: "Left", Description: "Move one cell left (x-1)", Min: 0, Max: 1, Group: "movement"},
	{ID: "move_right", Label: "Right", Description: "Move one cell right (x+1)", Min: 0, Max: 1, Group: "movement"},
}

// ReceptorDescriptors returns metadata for all receptor kinds, indexed by kind.
func ReceptorDescriptors() []IODescriptor {
	return receptorDescriptors[:]
}

// ActionDescriptors returns metadata for all action kinds, indexed by kind.
func ActionDescriptors() []IODescriptor {
	return actionDescriptors[:]
}

func (k ReceptorKind) String() string {
	if int(k) < NumReceptors {
		return receptorDescriptors[k].ID
	}
	return "unknown"
}

func (a ActionKind) String() string {
	if int(a) < NumActions {
		return actionDescriptors[a].ID
	}
	return "unknown"
}

// ActionVector holds one outcome bit per action category for a single tick.
type ActionVector [NumActions]bool

// Any reports whether any bit is set.
func (v ActionVector) Any() bool {
	for _, b := range v {
		if b {
			return true
		}
	}
	return false
}

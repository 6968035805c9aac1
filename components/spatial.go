package components

// Position is an entity's grid cell.
type Position struct {
	X, Y int
}

package systems

// SurvivalZone is an axis-aligned rectangle of cells with exclusive bounds.
type SurvivalZone struct {
	MinX, MaxX int
	MinY, MaxY int
}

// Contains reports whether (x, y) lies strictly inside the zone.
func (z SurvivalZone) Contains(x, y int) bool {
	return x > z.MinX && x < z.MaxX && y > z.MinY && y < z.MaxY
}

package components

// Organism bundles identity and lineage.
type Organism struct {
	ID         uint32
	ParentID   uint32 // 0 for organisms with a fresh random brain
	Generation uint32 // 0 for fresh organisms, parent+1 for offspring
	BirthEpoch int
}

// Fresh reports whether the organism was created with a random brain rather
// than inheriting one.
func (o Organism) Fresh() bool {
	return o.ParentID == 0
}

package telemetry

// LifetimeStats tracks per-organism statistics over its lifetime.
type LifetimeStats struct {
	BirthEpoch int
	Generation uint32
	ParentID   uint32

	EpochsSurvived int
	Children       int
	Moves          int
}

// LifetimeTracker manages per-organism lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new organism.
func (lt *LifetimeTracker) Register(id uint32, birthEpoch int, generation, parentID uint32) {
	lt.stats[id] = &LifetimeStats{
		BirthEpoch: birthEpoch,
		Generation: generation,
		ParentID:   parentID,
	}
}

// Get returns the lifetime stats for an organism, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes an organism's stats and returns them.
func (lt *LifetimeTracker) Remove(id uint32) *LifetimeStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// RecordSurvival increments the epochs-survived count.
func (lt *LifetimeTracker) RecordSurvival(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.EpochsSurvived++
	}
}

// RecordChild increments the children count.
func (lt *LifetimeTracker) RecordChild(parentID uint32) {
	if s := lt.stats[parentID]; s != nil {
		s.Children++
	}
}

// RecordMoves adds successful moves.
func (lt *LifetimeTracker) RecordMoves(id uint32, n int) {
	if s := lt.stats[id]; s != nil {
		s.Moves += n
	}
}

// Count returns the number of tracked organisms.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// OldestAge returns the largest EpochsSurvived among tracked organisms.
func (lt *LifetimeTracker) OldestAge() int {
	oldest := 0
	for _, s := range lt.stats {
		if s.EpochsSurvived > oldest {
			oldest = s.EpochsSurvived
		}
	}
	return oldest
}

// ActiveLineageCount returns the number of distinct parents among tracked
// organisms, counting each fresh organism as its own lineage.
func (lt *LifetimeTracker) ActiveLineageCount() int {
	seen := make(map[uint32]struct{})
	fresh := 0
	for _, s := range lt.stats {
		if s.ParentID == 0 {
			fresh++
			continue
		}
		seen[s.ParentID] = struct{}{}
	}
	return len(seen) + fresh
}

package tagging

// A VictimFinder decides which slot of a full set should be evicted.
type VictimFinder interface {
	FindVictim(set *Set) int
}

// LRUVictimFinder selects the least recently used line to evict.
type LRUVictimFinder struct {
}

// NewLRUVictimFinder returns a newly constructed LRU evictor.
func NewLRUVictimFinder() *LRUVictimFinder {
	e := new(LRUVictimFinder)
	return e
}

// FindVictim returns the slot of the least recently used line in a set.
func (e *LRUVictimFinder) FindVictim(set *Set) int {
	return set.LRUSlot()
}

// Package cache models a set-associative, write-back cache and reports
// hit/miss/eviction and dirty-byte statistics for a replayed access
// stream.
package cache

import (
	"github.com/sarchlab/csim/cache/internal/tagging"
)

// An Op is the kind of a memory access.
type Op int

// The two access kinds a trace can carry.
const (
	Load Op = iota
	Store
)

func (o Op) String() string {
	if o == Store {
		return "S"
	}

	return "L"
}

// Stats accumulates the aggregate outcome of all accesses replayed so
// far. DirtyBytesResident counts bytes currently dirty across all sets;
// DirtyBytesEvicted counts bytes that were dirty at the moment their
// line was evicted.
type Stats struct {
	Hits               uint64
	Misses             uint64
	Evictions          uint64
	DirtyBytesResident uint64
	DirtyBytesEvicted  uint64
}

// An AccessResult describes what a single access did to the cache.
type AccessResult struct {
	// Hit is true when the tag was already resident.
	Hit bool
	// ColdMiss is true when the access missed in a set that held no
	// lines at all.
	ColdMiss bool
	// Evicted is true when the miss pushed out a resident line.
	Evicted bool
	// EvictedDirty is true when the evicted line was dirty.
	EvictedDirty bool
	// SetID and Tag are the decoded location of the access.
	SetID int
	Tag   uint64
}

// String returns the outcome label of the access, as reported in
// verbose output and access recording.
func (r AccessResult) String() string {
	switch {
	case r.Hit:
		return "hit"
	case r.Evicted:
		return "miss eviction"
	case r.ColdMiss:
		return "cold miss"
	default:
		return "miss"
	}
}

// A Model is the cache state for one trace replay: one Set per set
// index plus the running statistics. A Model is exclusively owned by a
// single replay loop and is not safe for concurrent use.
type Model struct {
	setIndexBits     int
	blockOffsetBits  int
	wayAssociativity int
	blockSize        uint64

	sets         []*tagging.Set
	victimFinder tagging.VictimFinder

	stats Stats
}

// NumSets returns the number of sets in the cache.
func (m *Model) NumSets() int {
	return len(m.sets)
}

// BlockSize returns the block size in bytes.
func (m *Model) BlockSize() uint64 {
	return m.blockSize
}

// Stats returns a copy of the statistics accumulated so far.
func (m *Model) Stats() Stats {
	return m.stats
}

// Access replays one memory access against the cache and returns what
// happened. On a hit the line moves to the most-recently-used position;
// a Store hit marks the line dirty. On a miss a new line is installed,
// evicting the victim chosen by the victim finder when the set is full.
// Dirty bytes carried by an evicted line move from the resident to the
// evicted counter.
func (m *Model) Access(op Op, addr uint64) AccessResult {
	tag, setID := tagging.Decode(addr, m.setIndexBits, m.blockOffsetBits)
	set := m.sets[setID]
	result := AccessResult{SetID: setID, Tag: tag}

	if slot, found := set.Lookup(tag); found {
		m.stats.Hits++
		result.Hit = true

		line := set.Line(slot)
		if op == Store && !line.Dirty {
			line.Dirty = true
			m.stats.DirtyBytesResident += m.blockSize
		}

		set.Visit(slot)

		return result
	}

	m.stats.Misses++
	result.ColdMiss = set.Len() == 0

	if set.IsFull() {
		victim := set.Evict(m.victimFinder.FindVictim(set))
		m.stats.Evictions++
		result.Evicted = true

		if victim.Dirty {
			result.EvictedDirty = true
			m.stats.DirtyBytesEvicted += m.blockSize
			m.stats.DirtyBytesResident -= m.blockSize
		}
	}

	dirty := op == Store
	if dirty {
		m.stats.DirtyBytesResident += m.blockSize
	}

	set.Insert(tag, dirty)

	return result
}

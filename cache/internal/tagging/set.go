// Package tagging maintains the tag state of a set-associative cache:
// which block occupies each line, whether the line is dirty, and the
// recency order used for LRU replacement.
package tagging

// A Line is the tag-side state of one cache line.
type Line struct {
	Tag   uint64
	Dirty bool
}

const nilSlot = -1

// A Set holds the resident lines that one set index maps to, at most
// one per way. Lines live in a fixed arena allocated when the set is
// created, so a miss never allocates. The recency order is an
// index-linked list over arena slots, and a tag-to-slot map keeps
// Lookup O(1).
type Set struct {
	lines []Line
	prev  []int
	next  []int

	mru int
	lru int

	freeSlots []int
	slotOfTag map[uint64]int
}

// NewSet creates an empty set with capacity numWays.
func NewSet(numWays int) *Set {
	s := &Set{
		lines:     make([]Line, numWays),
		prev:      make([]int, numWays),
		next:      make([]int, numWays),
		mru:       nilSlot,
		lru:       nilSlot,
		freeSlots: make([]int, 0, numWays),
		slotOfTag: make(map[uint64]int, numWays),
	}

	for slot := numWays - 1; slot >= 0; slot-- {
		s.prev[slot] = nilSlot
		s.next[slot] = nilSlot
		s.freeSlots = append(s.freeSlots, slot)
	}

	return s
}

// Len returns the number of resident lines.
func (s *Set) Len() int {
	return len(s.slotOfTag)
}

// IsFull returns true when every way holds a line.
func (s *Set) IsFull() bool {
	return len(s.freeSlots) == 0
}

// Lookup finds the slot holding tag, if it is resident.
func (s *Set) Lookup(tag uint64) (slot int, ok bool) {
	slot, ok = s.slotOfTag[tag]
	if !ok {
		return nilSlot, false
	}

	return slot, true
}

// Line returns the line at slot. The pointer stays valid until the slot
// is evicted.
func (s *Set) Line(slot int) *Line {
	return &s.lines[slot]
}

// Visit moves the line at slot to the most-recently-used position.
func (s *Set) Visit(slot int) {
	if s.mru == slot {
		return
	}

	s.unlink(slot)
	s.linkFront(slot)
}

// Insert places a new line at the most-recently-used position and
// returns its slot. The set must not be full and the tag must not be
// resident already.
func (s *Set) Insert(tag uint64, dirty bool) int {
	if s.IsFull() {
		panic("inserting into a full set")
	}

	if _, resident := s.slotOfTag[tag]; resident {
		panic("inserting a tag that is already resident")
	}

	slot := s.freeSlots[len(s.freeSlots)-1]
	s.freeSlots = s.freeSlots[:len(s.freeSlots)-1]

	s.lines[slot] = Line{Tag: tag, Dirty: dirty}
	s.slotOfTag[tag] = slot
	s.linkFront(slot)

	return slot
}

// Evict removes the line at slot and returns its final state. The slot
// goes back to the free pool.
func (s *Set) Evict(slot int) Line {
	line := s.lines[slot]

	s.unlink(slot)
	delete(s.slotOfTag, line.Tag)
	s.lines[slot] = Line{}
	s.freeSlots = append(s.freeSlots, slot)

	return line
}

// LRUSlot returns the slot of the least-recently-used line, or -1 when
// the set is empty.
func (s *Set) LRUSlot() int {
	return s.lru
}

// MRUToLRU returns the resident tags from most to least recently used.
func (s *Set) MRUToLRU() []uint64 {
	tags := make([]uint64, 0, len(s.slotOfTag))
	for slot := s.mru; slot != nilSlot; slot = s.next[slot] {
		tags = append(tags, s.lines[slot].Tag)
	}

	return tags
}

func (s *Set) linkFront(slot int) {
	s.prev[slot] = nilSlot
	s.next[slot] = s.mru

	if s.mru != nilSlot {
		s.prev[s.mru] = slot
	}

	s.mru = slot

	if s.lru == nilSlot {
		s.lru = slot
	}
}

func (s *Set) unlink(slot int) {
	if s.prev[slot] != nilSlot {
		s.next[s.prev[slot]] = s.next[slot]
	} else if s.mru == slot {
		s.mru = s.next[slot]
	}

	if s.next[slot] != nilSlot {
		s.prev[s.next[slot]] = s.prev[slot]
	} else if s.lru == slot {
		s.lru = s.prev[slot]
	}

	s.prev[slot] = nilSlot
	s.next[slot] = nilSlot
}

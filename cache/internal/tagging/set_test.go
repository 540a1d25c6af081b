package tagging

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Set", func() {
	var set *Set

	BeforeEach(func() {
		set = NewSet(4)
	})

	It("should start empty", func() {
		Expect(set.Len()).To(Equal(0))
		Expect(set.IsFull()).To(BeFalse())
		Expect(set.LRUSlot()).To(Equal(-1))
	})

	It("should not find a tag that was never inserted", func() {
		_, found := set.Lookup(0x100)
		Expect(found).To(BeFalse())
	})

	It("should find an inserted tag", func() {
		slot := set.Insert(0x100, false)

		foundSlot, found := set.Lookup(0x100)
		Expect(found).To(BeTrue())
		Expect(foundSlot).To(Equal(slot))
		Expect(set.Line(foundSlot).Tag).To(Equal(uint64(0x100)))
	})

	It("should keep the dirty flag of an inserted line", func() {
		slot := set.Insert(0x100, true)
		Expect(set.Line(slot).Dirty).To(BeTrue())
	})

	It("should order lines from MRU to LRU", func() {
		set.Insert(1, false)
		set.Insert(2, false)
		set.Insert(3, false)

		Expect(set.MRUToLRU()).To(Equal([]uint64{3, 2, 1}))
	})

	It("should move a visited line to the MRU position", func() {
		set.Insert(1, false)
		set.Insert(2, false)
		set.Insert(3, false)

		slot1, _ := set.Lookup(1)
		set.Visit(slot1)

		Expect(set.MRUToLRU()).To(Equal([]uint64{1, 3, 2}))
	})

	It("should leave the order unchanged when visiting the MRU line", func() {
		set.Insert(1, false)
		slot2 := set.Insert(2, false)

		set.Visit(slot2)

		Expect(set.MRUToLRU()).To(Equal([]uint64{2, 1}))
	})

	It("should become full after inserting capacity lines", func() {
		for tag := uint64(0); tag < 4; tag++ {
			set.Insert(tag, false)
		}

		Expect(set.IsFull()).To(BeTrue())
		Expect(set.Len()).To(Equal(4))
	})

	It("should evict the LRU line", func() {
		set.Insert(1, false)
		set.Insert(2, true)
		set.Insert(3, false)

		victim := set.Evict(set.LRUSlot())

		Expect(victim.Tag).To(Equal(uint64(1)))
		Expect(victim.Dirty).To(BeFalse())
		Expect(set.Len()).To(Equal(2))

		_, found := set.Lookup(1)
		Expect(found).To(BeFalse())
	})

	It("should return the dirty state of the evicted line", func() {
		set.Insert(1, true)

		victim := set.Evict(set.LRUSlot())

		Expect(victim.Dirty).To(BeTrue())
	})

	It("should reuse the slot of an evicted line", func() {
		for tag := uint64(0); tag < 4; tag++ {
			set.Insert(tag, false)
		}
		set.Evict(set.LRUSlot())

		Expect(set.IsFull()).To(BeFalse())

		set.Insert(10, false)
		Expect(set.IsFull()).To(BeTrue())
		Expect(set.MRUToLRU()).To(Equal([]uint64{10, 3, 2, 1}))
	})

	It("should panic when inserting into a full set", func() {
		for tag := uint64(0); tag < 4; tag++ {
			set.Insert(tag, false)
		}

		Expect(func() { set.Insert(4, false) }).To(Panic())
	})

	It("should panic when inserting a resident tag", func() {
		set.Insert(1, false)

		Expect(func() { set.Insert(1, false) }).To(Panic())
	})

	It("should track the LRU slot across a long access sequence", func() {
		slots := make(map[uint64]int)
		for tag := uint64(0); tag < 4; tag++ {
			slots[tag] = set.Insert(tag, false)
		}

		// Touch in the order 2, 0, 3, 1; LRU should then be 2.
		set.Visit(slots[2])
		set.Visit(slots[0])
		set.Visit(slots[3])
		set.Visit(slots[1])

		Expect(set.Line(set.LRUSlot()).Tag).To(Equal(uint64(2)))
		Expect(set.MRUToLRU()).To(Equal([]uint64{1, 3, 0, 2}))
	})
})

package tagging

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Decode", func() {
	It("should drop the block offset", func() {
		tag, setID := Decode(0x1234_5678, 4, 6)

		Expect(tag).To(Equal(uint64(0x1234_5678) >> 10))
		Expect(setID).To(Equal(int((0x1234_5678 >> 6) & 0xF)))
	})

	It("should map everything to set 0 when there are no set bits", func() {
		tag, setID := Decode(0xDEAD_BEEF, 0, 0)

		Expect(setID).To(Equal(0))
		Expect(tag).To(Equal(uint64(0xDEAD_BEEF)))
	})

	It("should reconstruct the address from tag, set, and offset", func() {
		addrs := []uint64{
			0,
			1,
			0x40,
			0x7FF,
			0x1234_5678_9ABC_DEF0,
			0xFFFF_FFFF_FFFF_FFFF,
		}

		for _, addr := range addrs {
			for _, geometry := range [][2]int{{0, 0}, {1, 0}, {0, 3}, {5, 6}, {16, 10}} {
				s, b := geometry[0], geometry[1]
				tag, setID := Decode(addr, s, b)
				offset := addr & ((1 << uint(b)) - 1)

				rebuilt := tag<<uint(s+b) | uint64(setID)<<uint(b) | offset
				Expect(rebuilt).To(Equal(addr))
			}
		}
	})
})

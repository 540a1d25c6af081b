package tagging

// AddressWidth is the number of bits in a simulated memory address.
const AddressWidth = 64

// Decode splits an address into its tag and set index, given the number
// of set-index bits and block-offset bits. The block offset is dropped,
// as it never participates in hit/miss decisions.
//
// Decode assumes setIndexBits+blockOffsetBits < AddressWidth. The bound
// is enforced when the cache is built, not here.
func Decode(addr uint64, setIndexBits, blockOffsetBits int) (
	tag uint64,
	setID int,
) {
	tag = addr >> uint(setIndexBits+blockOffsetBits)
	setID = int((addr >> uint(blockOffsetBits)) & ((1 << uint(setIndexBits)) - 1))

	return
}

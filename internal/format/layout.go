// Package format houses the low-level layout of heap blocks: word size,
// alignment, the fixed header record written in front of every payload, and
// the little-endian helpers used to read and write it. Higher-level packages
// never touch header bytes directly; they go through this package so the
// layout lives in exactly one place.
package format

const (
	// WordSize is the machine word the allocators align to. Block sizes,
	// header offsets and client pointers are all multiples of it.
	WordSize = 8

	// WordMask is WordSize-1, used for round-up arithmetic.
	WordMask = WordSize - 1

	// HeaderSize is the number of bytes of metadata preceding every payload.
	//
	// Header layout (little-endian words):
	//
	//	Offset  Size  Description
	//	0x00    8     Payload size in bytes (word aligned)
	//	0x08    8     Tag: low 32 bits magic, bit 32 set when the block is in use
	//	0x10    8     Next link (header offset, or -1)
	//	0x18    8     Prev link (header offset, or -1); free-list variants only
	//	0x20    ...   Payload
	HeaderSize = 4 * WordSize

	// MinBlockSize is the smallest footprint a block may have: a header plus
	// one payload word. Split arithmetic is expressed in terms of it.
	MinBlockSize = HeaderSize + WordSize

	// MinPayload is the payload handed out for a zero-byte request.
	MinPayload = WordSize
)

// Header field offsets, relative to the start of a header.
const (
	SizeOffset = 0x00
	TagOffset  = 0x08
	NextOffset = 0x10
	PrevOffset = 0x18
)

const (
	// TagMagic marks a word as a block header. It reads "hblk" in a hex dump.
	TagMagic uint32 = 0x6b6c6268

	// TagUsedBit is set in the tag word while the block belongs to a client.
	TagUsedBit uint64 = 1 << 32

	// NilLink is the encoded form of an absent link.
	NilLink int64 = -1
)

// Tag builds the tag word for a header.
func Tag(used bool) uint64 {
	t := uint64(TagMagic)
	if used {
		t |= TagUsedBit
	}
	return t
}

// TagValid reports whether t carries the header magic.
func TagValid(t uint64) bool {
	return uint32(t) == TagMagic
}

// TagUsed reports whether the used bit is set in t.
func TagUsed(t uint64) bool {
	return t&TagUsedBit != 0
}

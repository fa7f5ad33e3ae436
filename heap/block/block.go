// Package block implements the header record shared by every allocator.
//
// A block is a header followed by its payload, both living inside an
// arena. Blocks are named by the offset of their header (a Ref); links
// between blocks are stored as Refs inside the header words, so nothing
// here ever holds a Go pointer into the arena.
package block

import "github.com/joshuapare/heapkit/internal/format"

// Ref is the arena offset of a block header.
type Ref int

// Nil is the absent link.
const Nil Ref = Ref(format.NilLink)

// Footprint returns the bytes a block with the given payload size occupies.
func Footprint(size int) int {
	return format.HeaderSize + size
}

// PayloadSize converts a request into the payload size actually reserved.
// Zero-byte requests get one word so every block is addressable.
func PayloadSize(n int) int {
	return max(format.Align(n), format.MinPayload)
}

// CanSplit reports whether a free block of payload size s can give n bytes
// to a client and still host a remainder block of at least one word.
func CanSplit(s, n int) bool {
	return s >= format.MinBlockSize+n
}

// RemainderSize is the payload size of the block carved off by a split of
// an s-byte block serving n bytes. The remainder header starts n bytes into
// the original payload.
func RemainderSize(s, n int) int {
	return format.WordSize + s - n - format.MinBlockSize
}

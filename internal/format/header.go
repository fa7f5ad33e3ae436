package format

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
)

// Header is a decoded block header plus a view of its payload.
type Header struct {
	Offset int    // Offset of the header within the arena
	Size   int    // Payload size in bytes
	Used   bool   // True while the block belongs to a client
	Next   int64  // Encoded next link (NilLink when absent)
	Prev   int64  // Encoded prev link (NilLink when absent)
	Data   []byte // Payload bytes (alias of underlying buffer)
}

// Footprint returns the bytes the block occupies, header included.
func (h Header) Footprint() int {
	return HeaderSize + h.Size
}

// DecodeHeader decodes the header at off and returns it together with the
// offset of its physical successor. The successor offset equals len(b) for the
// last block of an arena.
func DecodeHeader(b []byte, off int) (Header, int, error) {
	if off < 0 || !buf.Has(b, off, HeaderSize) {
		return Header{}, 0, fmt.Errorf("header: %w", ErrTruncated)
	}
	if !IsAligned(off) {
		return Header{}, 0, fmt.Errorf("header at %d: %w", off, ErrMisaligned)
	}
	tag := buf.U64LE(b[off+TagOffset:])
	if !TagValid(tag) {
		return Header{}, 0, fmt.Errorf("header at %d: %w", off, ErrSignatureMismatch)
	}
	size := buf.I64LE(b[off+SizeOffset:])
	if size < 0 || !IsAligned(int(size)) {
		return Header{}, 0, fmt.Errorf("header at %d: size %d: %w", off, size, ErrMisaligned)
	}
	payload, ok := buf.Slice(b, off+HeaderSize, int(size))
	if !ok {
		return Header{}, 0, fmt.Errorf("header at %d: payload of %d bytes: %w", off, size, ErrTruncated)
	}
	return Header{
		Offset: off,
		Size:   int(size),
		Used:   TagUsed(tag),
		Next:   buf.I64LE(b[off+NextOffset:]),
		Prev:   buf.I64LE(b[off+PrevOffset:]),
		Data:   payload,
	}, off + HeaderSize + int(size), nil
}

// EncodeHeader writes a complete header at off. The payload is left untouched.
func EncodeHeader(b []byte, off, size int, used bool, next, prev int64) {
	PutI64(b, off+SizeOffset, int64(size))
	PutU64(b, off+TagOffset, Tag(used))
	PutI64(b, off+NextOffset, next)
	PutI64(b, off+PrevOffset, prev)
}

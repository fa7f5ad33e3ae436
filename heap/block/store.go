package block

import (
	"fmt"

	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/internal/format"
)

// Store reads and writes block headers inside an arena.
//
// Accessors trust the Ref they are given; use HeaderOf or Valid to check
// untrusted input first.
type Store struct {
	a *arena.Arena
}

// NewStore returns a Store over a.
func NewStore(a *arena.Arena) *Store {
	return &Store{a: a}
}

// Arena returns the underlying arena.
func (s *Store) Arena() *arena.Arena { return s.a }

// Append grows the arena by one block of payload size and initializes it.
func (s *Store) Append(size int, used bool) (Ref, error) {
	off, err := s.a.Grow(Footprint(size))
	if err != nil {
		return Nil, err
	}
	r := Ref(off)
	s.Init(r, size, used)
	return r, nil
}

// Init writes a fresh header at r with both links cleared.
func (s *Store) Init(r Ref, size int, used bool) {
	format.EncodeHeader(s.a.Bytes(), int(r), size, used, format.NilLink, format.NilLink)
}

// Size returns r's payload size in bytes.
func (s *Store) Size(r Ref) int {
	return int(format.ReadI64(s.a.Bytes(), int(r)+format.SizeOffset))
}

// SetSize overwrites r's payload size.
func (s *Store) SetSize(r Ref, size int) {
	format.PutI64(s.a.Bytes(), int(r)+format.SizeOffset, int64(size))
}

// Used reports whether r is owned by a client.
func (s *Store) Used(r Ref) bool {
	return format.TagUsed(format.ReadU64(s.a.Bytes(), int(r)+format.TagOffset))
}

// SetUsed rewrites r's tag, keeping the magic intact.
func (s *Store) SetUsed(r Ref, used bool) {
	format.PutU64(s.a.Bytes(), int(r)+format.TagOffset, format.Tag(used))
}

// Next returns r's forward link.
func (s *Store) Next(r Ref) Ref {
	return Ref(format.ReadI64(s.a.Bytes(), int(r)+format.NextOffset))
}

// SetNext sets r's forward link.
func (s *Store) SetNext(r, next Ref) {
	format.PutI64(s.a.Bytes(), int(r)+format.NextOffset, int64(next))
}

// Prev returns r's backward link. Only free lists use it.
func (s *Store) Prev(r Ref) Ref {
	return Ref(format.ReadI64(s.a.Bytes(), int(r)+format.PrevOffset))
}

// SetPrev sets r's backward link.
func (s *Store) SetPrev(r, prev Ref) {
	format.PutI64(s.a.Bytes(), int(r)+format.PrevOffset, int64(prev))
}

// Payload returns the arena offset of r's first payload byte.
func (s *Store) Payload(r Ref) int {
	return int(r) + format.HeaderSize
}

// End returns the offset just past r's payload.
func (s *Store) End(r Ref) int {
	return int(r) + Footprint(s.Size(r))
}

// PhysicalNext returns the block that starts where r ends, or Nil if r is
// the last block in the arena. It never follows links.
func (s *Store) PhysicalNext(r Ref) Ref {
	end := s.End(r)
	if end >= s.a.Len() {
		return Nil
	}
	return Ref(end)
}

// Data returns r's payload bytes.
func (s *Store) Data(r Ref) []byte {
	p := s.Payload(r)
	return s.a.Bytes()[p : p+s.Size(r)]
}

// Valid reports whether r names a well-formed header inside the arena.
func (s *Store) Valid(r Ref) bool {
	_, _, err := format.DecodeHeader(s.a.Bytes(), int(r))
	return err == nil
}

// HeaderOf recovers the header of the block whose payload starts at off.
func (s *Store) HeaderOf(off int) (Ref, error) {
	if off < format.HeaderSize || !format.IsAligned(off) {
		return Nil, fmt.Errorf("payload offset %d: %w", off, format.ErrMisaligned)
	}
	r := off - format.HeaderSize
	if _, _, err := format.DecodeHeader(s.a.Bytes(), r); err != nil {
		return Nil, err
	}
	return Ref(r), nil
}

// Split shrinks r to n payload bytes and writes a free remainder header
// directly after it. The caller must check CanSplit and owns linking the
// remainder into whatever structure it maintains.
func (s *Store) Split(r Ref, n int) Ref {
	total := s.Size(r)
	rem := Ref(s.Payload(r) + n)
	s.SetSize(r, n)
	s.Init(rem, RemainderSize(total, n), false)
	return rem
}

// Absorb merges next, which must start where r ends, into r. The absorbed
// header becomes part of r's payload.
func (s *Store) Absorb(r, next Ref) {
	s.SetSize(r, s.Size(r)+s.Size(next)+format.HeaderSize)
}

// Walk visits every block in address order, stopping early when fn returns
// false. It fails on the first header that does not decode.
func (s *Store) Walk(fn func(Ref) bool) error {
	data := s.a.Bytes()
	for off := 0; off < len(data); {
		_, next, err := format.DecodeHeader(data, off)
		if err != nil {
			return fmt.Errorf("block walk: %w", err)
		}
		if !fn(Ref(off)) {
			return nil
		}
		off = next
	}
	return nil
}

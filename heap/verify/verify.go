package verify

import (
	"errors"
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// ValidationError describes one violated invariant.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]interface{}
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Layout is the result of a physical walk.
type Layout struct {
	Headers []int        // header offsets in address order
	Free    map[int]bool // header offsets of free blocks
}

// Blocks walks the arena in address order and validates every header.
func Blocks(data []byte) error {
	_, err := Walk(data)
	return err
}

// Walk is Blocks that also returns what it found.
func Walk(data []byte) (Layout, error) {
	l := Layout{Free: make(map[int]bool)}
	for off := 0; off < len(data); {
		h, next, err := format.DecodeHeader(data, off)
		if err != nil {
			msg := err.Error()
			if errors.Is(err, format.ErrTruncated) {
				msg = fmt.Sprintf("block overhangs arena end 0x%X: %v", len(data), err)
			}
			return l, &ValidationError{Type: "Blocks", Message: msg, Offset: off}
		}
		if h.Size < format.WordSize {
			return l, &ValidationError{
				Type:    "Blocks",
				Message: fmt.Sprintf("payload smaller than one word: %d bytes", h.Size),
				Offset:  off,
			}
		}
		l.Headers = append(l.Headers, off)
		if !h.Used {
			l.Free[off] = true
		}
		off = next
	}
	return l, nil
}

// Chain checks that next links starting at head visit every block in
// address order and end in a nil link.
func Chain(data []byte, head int64) error {
	l, err := Walk(data)
	if err != nil {
		return err
	}
	if len(l.Headers) == 0 {
		if head != format.NilLink {
			return &ValidationError{Type: "Chain", Message: fmt.Sprintf("empty arena but head=%d", head), Offset: -1}
		}
		return nil
	}

	cur := head
	for i, want := range l.Headers {
		if cur != int64(want) {
			return &ValidationError{
				Type:    "Chain",
				Message: fmt.Sprintf("link #%d points to %d, physical block is at %d", i, cur, want),
				Offset:  want,
				Details: map[string]interface{}{"link": cur, "physical": want},
			}
		}
		cur = format.ReadI64(data, want+format.NextOffset)
	}
	if cur != format.NilLink {
		last := l.Headers[len(l.Headers)-1]
		return &ValidationError{
			Type:    "Chain",
			Message: fmt.Sprintf("last block links to %d instead of nil", cur),
			Offset:  last,
		}
	}
	return nil
}

// FreeList checks the doubly linked free list starting at head.
func FreeList(data []byte, head int64) error {
	l, err := Walk(data)
	if err != nil {
		return err
	}
	known := make(map[int]bool, len(l.Headers))
	for _, h := range l.Headers {
		known[h] = true
	}

	seen := make(map[int]bool)
	prev := format.NilLink
	for cur := head; cur != format.NilLink; {
		off := int(cur)
		if !known[off] {
			return &ValidationError{
				Type:    "FreeList",
				Message: fmt.Sprintf("link %d does not name a block", cur),
				Offset:  int(prev),
			}
		}
		if seen[off] {
			return &ValidationError{Type: "FreeList", Message: "cycle in free list", Offset: off}
		}
		seen[off] = true
		if !l.Free[off] {
			return &ValidationError{Type: "FreeList", Message: "used block on free list", Offset: off}
		}
		if back := format.ReadI64(data, off+format.PrevOffset); back != prev {
			return &ValidationError{
				Type:    "FreeList",
				Message: fmt.Sprintf("prev link is %d, expected %d", back, prev),
				Offset:  off,
			}
		}
		prev = cur
		cur = format.ReadI64(data, off+format.NextOffset)
	}

	for _, h := range l.Headers {
		if l.Free[h] && !seen[h] {
			return &ValidationError{Type: "FreeList", Message: "free block not reachable from free list", Offset: h}
		}
	}
	return nil
}

// Top checks that top names the physically last block, or is nil for an
// empty arena.
func Top(data []byte, top int64) error {
	l, err := Walk(data)
	if err != nil {
		return err
	}
	want := format.NilLink
	if n := len(l.Headers); n > 0 {
		want = int64(l.Headers[n-1])
	}
	if top != want {
		return &ValidationError{
			Type:    "Top",
			Message: fmt.Sprintf("top is %d, last block is at %d", top, want),
			Offset:  -1,
		}
	}
	return nil
}

// Package fit implements the free-block selection policies.
//
// The search functions are pure: they read a List and return a block, and
// never modify anything. The implicit allocator passes its full block
// chain, the explicit allocator passes its free list.
package fit

import (
	"fmt"

	"github.com/joshuapare/heapkit/heap/block"
)

// Strategy selects which free block satisfies a request.
type Strategy int

const (
	FirstFit Strategy = iota // first sufficient block from the head
	NextFit                  // first sufficient block from a cursor, wrapping once
	BestFit                  // smallest sufficient block
	WorstFit                 // largest sufficient block
)

func (s Strategy) String() string {
	switch s {
	case FirstFit:
		return "first-fit"
	case NextFit:
		return "next-fit"
	case BestFit:
		return "best-fit"
	case WorstFit:
		return "worst-fit"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return s >= FirstFit && s <= WorstFit
}

// ParseStrategy maps a String() form back to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	for s := FirstFit; s <= WorstFit; s++ {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("fit: unknown strategy %q", name)
}

// List is a singly traversable sequence of blocks.
type List interface {
	Head() block.Ref
	Next(r block.Ref) block.Ref
	Size(r block.Ref) int
	Used(r block.Ref) bool
}

// Find returns the block chosen by s for a request of need payload bytes,
// or block.Nil. start is where next-fit begins its revolution; Nil means
// the head. The other strategies ignore it. An invalid s finds nothing.
func Find(s Strategy, l List, need int, start block.Ref) block.Ref {
	switch s {
	case FirstFit:
		return firstFit(l, need)
	case NextFit:
		return nextFit(l, need, start)
	case BestFit:
		return bestFit(l, need)
	case WorstFit:
		return worstFit(l, need)
	default:
		return block.Nil
	}
}

func fits(l List, r block.Ref, need int) bool {
	return !l.Used(r) && l.Size(r) >= need
}

func firstFit(l List, need int) block.Ref {
	for r := l.Head(); r != block.Nil; r = l.Next(r) {
		if fits(l, r, need) {
			return r
		}
	}
	return block.Nil
}

func nextFit(l List, need int, start block.Ref) block.Ref {
	if start == block.Nil {
		start = l.Head()
	}
	if start == block.Nil {
		return block.Nil
	}
	r := start
	for {
		if fits(l, r, need) {
			return r
		}
		if r = l.Next(r); r == block.Nil {
			r = l.Head()
		}
		if r == start {
			return block.Nil
		}
	}
}

func bestFit(l List, need int) block.Ref {
	best := block.Nil
	for r := l.Head(); r != block.Nil; r = l.Next(r) {
		if fits(l, r, need) && (best == block.Nil || l.Size(r) < l.Size(best)) {
			best = r
		}
	}
	return best
}

func worstFit(l List, need int) block.Ref {
	worst := block.Nil
	for r := l.Head(); r != block.Nil; r = l.Next(r) {
		if fits(l, r, need) && (worst == block.Nil || l.Size(r) > l.Size(worst)) {
			worst = r
		}
	}
	return worst
}

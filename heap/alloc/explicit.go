package alloc

import (
	"github.com/joshuapare/heapkit/heap/block"
	"github.com/joshuapare/heapkit/heap/fit"
	"github.com/joshuapare/heapkit/heap/verify"
)

// Explicit keeps free blocks on a doubly linked list, newest first. The
// list order has nothing to do with address order; physical neighbors are
// found from a block's offset and size.
//
// Used blocks carry no links. Free merges forward with a free physical
// successor and pushes the result onto the list head.
type Explicit struct {
	*core

	strategy    fit.Strategy
	heapStart   block.Ref
	top         block.Ref // physically last block
	freeHead    block.Ref
	searchStart block.Ref // next-fit cursor, Nil means the head
}

// NewExplicit creates an Explicit allocator with an empty arena.
func NewExplicit(cfg *Config) (*Explicit, error) {
	c, err := resolveConfig(cfg)
	if err != nil {
		return nil, err
	}
	co, err := newCore(c.Arena)
	if err != nil {
		return nil, err
	}
	return newExplicit(co, c.Strategy), nil
}

func newExplicit(co *core, s fit.Strategy) *Explicit {
	return &Explicit{
		core:        co,
		strategy:    s,
		heapStart:   block.Nil,
		top:         block.Nil,
		freeHead:    block.Nil,
		searchStart: block.Nil,
	}
}

// Alloc takes a block off the free list, splitting off a remainder that
// goes back on the list, or appends a new block on a miss.
func (e *Explicit) Alloc(size int) (Ptr, error) {
	e.stats.AllocCalls++
	n, err := e.payloadFor(size)
	if err != nil {
		return 0, err
	}

	r := e.find(e.strategy, n)
	if r == block.Nil {
		if r, err = e.grow(n, true); err != nil {
			return 0, err
		}
		e.stats.SlowPath++
		if e.heapStart == block.Nil {
			e.heapStart = r
		}
		e.top = r
		return e.ptr(r), nil
	}

	e.stats.FastPath++
	succ := e.store.Next(r)
	e.remove(r)
	if block.CanSplit(e.store.Size(r), n) {
		rem := e.store.Split(r, n)
		e.pushFront(rem)
		if r == e.top {
			e.top = rem
		}
		e.logSplit(r, rem)
	}
	if succ != block.Nil {
		e.searchStart = succ
	} else {
		e.searchStart = e.freeHead
	}
	e.store.SetUsed(r, true)
	return e.ptr(r), nil
}

// Free marks the block unused, merges a free physical successor into it,
// and pushes it onto the free list.
func (e *Explicit) Free(p Ptr) error {
	r, err := e.release(p)
	if err != nil {
		return err
	}
	e.store.SetUsed(r, false)

	if e.canCoalesce(r) {
		next := e.physicalNext(r)
		e.remove(next)
		e.store.Absorb(r, next)
		if next == e.top {
			e.top = r
		}
		e.logCoalesce(r, next)
	}
	e.pushFront(r)
	return nil
}

// physicalNext returns the block after r in memory, or Nil for top.
func (e *Explicit) physicalNext(r block.Ref) block.Ref {
	if r == e.top {
		return block.Nil
	}
	return e.store.PhysicalNext(r)
}

func (e *Explicit) canCoalesce(r block.Ref) bool {
	if e.store.Used(r) {
		return false
	}
	next := e.physicalNext(r)
	return next != block.Nil && !e.store.Used(next)
}

// pushFront inserts r at the head of the free list.
func (e *Explicit) pushFront(r block.Ref) {
	e.store.SetPrev(r, block.Nil)
	e.store.SetNext(r, e.freeHead)
	if e.freeHead != block.Nil {
		e.store.SetPrev(e.freeHead, r)
	}
	e.freeHead = r
}

// remove unlinks r from the free list. A cursor naming r moves to its
// list successor.
func (e *Explicit) remove(r block.Ref) {
	prev, next := e.store.Prev(r), e.store.Next(r)
	if prev != block.Nil {
		e.store.SetNext(prev, next)
	} else {
		e.freeHead = next
	}
	if next != block.Nil {
		e.store.SetPrev(next, prev)
	}
	e.store.SetNext(r, block.Nil)
	e.store.SetPrev(r, block.Nil)
	if e.searchStart == r {
		e.searchStart = next
	}
}

// Find runs strategy s over the free list for a size-byte request without
// allocating.
func (e *Explicit) Find(s fit.Strategy, size int) block.Ref {
	n, err := e.payloadFor(size)
	if err != nil {
		return block.Nil
	}
	return e.find(s, n)
}

func (e *Explicit) find(s fit.Strategy, n int) block.Ref {
	return fit.Find(s, chain{e.store, e.freeHead}, n, e.searchStart)
}

// FreeList returns the free list from head to tail.
func (e *Explicit) FreeList() []block.Ref {
	var out []block.Ref
	if e.closed {
		return out
	}
	for r := e.freeHead; r != block.Nil; r = e.store.Next(r) {
		out = append(out, r)
	}
	return out
}

// Bytes returns the payload of a live block.
func (e *Explicit) Bytes(p Ptr) ([]byte, error) { return e.bytes(p) }

// Stats returns the operation counters.
func (e *Explicit) Stats() Stats { return e.stats }

// Report walks the arena and summarizes its blocks.
func (e *Explicit) Report() Report { return e.report() }

// Verify checks the physical layout, the free list and top.
func (e *Explicit) Verify() error {
	if err := e.verifyBlocks(); err != nil {
		return err
	}
	data := e.arena.Bytes()
	if err := verify.FreeList(data, int64(e.freeHead)); err != nil {
		return err
	}
	return verify.Top(data, int64(e.top))
}

// Close releases the arena.
func (e *Explicit) Close() error { return e.close() }

var _ Allocator = (*Explicit)(nil)

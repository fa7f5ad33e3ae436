package alloc

import (
	"github.com/joshuapare/heapkit/heap/block"
	"github.com/joshuapare/heapkit/heap/fit"
	"github.com/joshuapare/heapkit/heap/verify"
)

// Implicit keeps every block, used or free, on one chain in address order.
// The chain doubles as the free structure: searches skip used blocks.
//
// Free performs a single forward merge with the physical successor when
// both are free. There is no backward merge, so freeing neighbors from low
// to high address leaves them separate.
type Implicit struct {
	*core

	strategy      fit.Strategy
	heapStart     block.Ref
	top           block.Ref
	lastAllocated block.Ref // next-fit cursor
}

// NewImplicit creates an Implicit allocator with an empty arena.
func NewImplicit(cfg *Config) (*Implicit, error) {
	c, err := resolveConfig(cfg)
	if err != nil {
		return nil, err
	}
	co, err := newCore(c.Arena)
	if err != nil {
		return nil, err
	}
	return &Implicit{
		core:          co,
		strategy:      c.Strategy,
		heapStart:     block.Nil,
		top:           block.Nil,
		lastAllocated: block.Nil,
	}, nil
}

// Alloc serves size bytes from the first block the strategy selects,
// splitting off any usable remainder, or appends a new block on a miss.
func (im *Implicit) Alloc(size int) (Ptr, error) {
	im.stats.AllocCalls++
	n, err := im.payloadFor(size)
	if err != nil {
		return 0, err
	}

	r := im.find(im.strategy, n)
	if r != block.Nil {
		im.stats.FastPath++
		if block.CanSplit(im.store.Size(r), n) {
			rem := im.store.Split(r, n)
			im.store.SetNext(rem, im.store.Next(r))
			im.store.SetNext(r, rem)
			if r == im.top {
				im.top = rem
			}
			im.logSplit(r, rem)
		}
		im.store.SetUsed(r, true)
	} else {
		if r, err = im.grow(n, true); err != nil {
			return 0, err
		}
		im.stats.SlowPath++
		if im.top != block.Nil {
			im.store.SetNext(im.top, r)
		} else {
			im.heapStart = r
		}
		im.top = r
	}

	im.lastAllocated = r
	return im.ptr(r), nil
}

// Free marks the block unused and merges it with a free successor.
func (im *Implicit) Free(p Ptr) error {
	r, err := im.release(p)
	if err != nil {
		return err
	}
	im.store.SetUsed(r, false)

	if im.canCoalesce(r) {
		next := im.store.Next(r)
		im.store.Absorb(r, next)
		im.store.SetNext(r, im.store.Next(next))
		if next == im.top {
			im.top = r
		}
		if next == im.lastAllocated {
			im.lastAllocated = r
		}
		im.logCoalesce(r, next)
	}
	return nil
}

// canCoalesce reports whether r and its chain successor are both free and
// physically adjacent.
func (im *Implicit) canCoalesce(r block.Ref) bool {
	next := im.store.Next(r)
	if next == block.Nil {
		return false
	}
	return !im.store.Used(r) && !im.store.Used(next) && im.store.End(r) == int(next)
}

// Find runs strategy s for a size-byte request without allocating.
func (im *Implicit) Find(s fit.Strategy, size int) block.Ref {
	n, err := im.payloadFor(size)
	if err != nil {
		return block.Nil
	}
	return im.find(s, n)
}

func (im *Implicit) find(s fit.Strategy, n int) block.Ref {
	start := block.Nil
	if im.lastAllocated != block.Nil {
		start = im.store.Next(im.lastAllocated)
	}
	return fit.Find(s, chain{im.store, im.heapStart}, n, start)
}

// Bytes returns the payload of a live block.
func (im *Implicit) Bytes(p Ptr) ([]byte, error) { return im.bytes(p) }

// Stats returns the operation counters.
func (im *Implicit) Stats() Stats { return im.stats }

// Report walks the arena and summarizes its blocks.
func (im *Implicit) Report() Report { return im.report() }

// Verify checks that the chain covers every block in address order and
// that top is the last block.
func (im *Implicit) Verify() error {
	if err := im.verifyBlocks(); err != nil {
		return err
	}
	data := im.arena.Bytes()
	if err := verify.Chain(data, int64(im.heapStart)); err != nil {
		return err
	}
	return verify.Top(data, int64(im.top))
}

// Close releases the arena.
func (im *Implicit) Close() error { return im.close() }

var _ Allocator = (*Implicit)(nil)

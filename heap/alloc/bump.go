package alloc

import (
	"github.com/joshuapare/heapkit/heap/block"
	"github.com/joshuapare/heapkit/heap/verify"
)

// Bump is an append-only allocator. Every Alloc grows the arena by exactly
// one block and links it after the previous one. Free clears the used bit
// but the space is dead until the whole arena is closed.
type Bump struct {
	*core

	heapStart block.Ref // first block ever created
	top       block.Ref // last block created
}

// NewBump creates a Bump allocator with an empty arena.
func NewBump(cfg *Config) (*Bump, error) {
	c, err := resolveConfig(cfg)
	if err != nil {
		return nil, err
	}
	co, err := newCore(c.Arena)
	if err != nil {
		return nil, err
	}
	return &Bump{core: co, heapStart: block.Nil, top: block.Nil}, nil
}

// Alloc appends a new used block.
func (b *Bump) Alloc(size int) (Ptr, error) {
	b.stats.AllocCalls++
	n, err := b.payloadFor(size)
	if err != nil {
		return 0, err
	}
	r, err := b.grow(n, true)
	if err != nil {
		return 0, err
	}
	b.stats.SlowPath++

	if b.top != block.Nil {
		b.store.SetNext(b.top, r)
	} else {
		b.heapStart = r
	}
	b.top = r
	return b.ptr(r), nil
}

// Free marks the block unused. The space is not reclaimed.
func (b *Bump) Free(p Ptr) error {
	r, err := b.release(p)
	if err != nil {
		return err
	}
	b.store.SetUsed(r, false)
	return nil
}

// Bytes returns the payload of a live block.
func (b *Bump) Bytes(p Ptr) ([]byte, error) { return b.bytes(p) }

// Stats returns the operation counters.
func (b *Bump) Stats() Stats { return b.stats }

// Report walks the arena and summarizes its blocks.
func (b *Bump) Report() Report { return b.report() }

// Verify checks that the blocks tile the arena and are chained in address
// order ending at top.
func (b *Bump) Verify() error {
	if err := b.verifyBlocks(); err != nil {
		return err
	}
	data := b.arena.Bytes()
	if err := verify.Chain(data, int64(b.heapStart)); err != nil {
		return err
	}
	return verify.Top(data, int64(b.top))
}

// Close releases the arena.
func (b *Bump) Close() error { return b.close() }

var _ Allocator = (*Bump)(nil)

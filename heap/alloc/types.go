package alloc

import (
	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/heap/fit"
)

// Ptr is a client-visible payload address. Zero is the null pointer.
type Ptr uint64

// Allocator is the interface every strategy implements.
//
// Implementations:
//   - Bump: append-only, no reuse
//   - Implicit: address-ordered chain of all blocks
//   - Explicit: LIFO free list
//   - Segregated: one Explicit per size class
type Allocator interface {
	// Alloc reserves at least size bytes and returns a word-aligned pointer.
	// Zero-byte requests get a one-word block.
	Alloc(size int) (Ptr, error)

	// Free releases a pointer returned by Alloc on the same allocator.
	Free(p Ptr) error

	// Bytes returns the payload of a live block. On heap-backed arenas the
	// slice is invalidated by the next growth.
	Bytes(p Ptr) ([]byte, error)

	// Stats returns operation counters.
	Stats() Stats

	// Report walks the arena and summarizes its blocks.
	Report() Report

	// Verify checks the arena against the allocator's invariants.
	Verify() error

	// Close releases the arena. Subsequent calls fail with ErrClosed.
	Close() error
}

// Config controls allocator construction.
type Config struct {
	// Strategy is the fit policy for Implicit, Explicit and Segregated buckets.
	Strategy fit.Strategy

	// Arena configures the backing arena. Segregated derives one window per
	// bucket from it.
	Arena arena.Config

	// Classes defines Segregated's size classes. Nil means ConfigPowerOfTwo.
	Classes *SizeClassConfig
}

// DefaultConfig is used when a constructor is given a nil config.
var DefaultConfig = Config{
	Strategy: fit.FirstFit,
	Arena:    arena.DefaultConfig,
}

func resolveConfig(cfg *Config) (Config, error) {
	c := DefaultConfig
	if cfg != nil {
		c = *cfg
	}
	if !c.Strategy.Valid() {
		return c, ErrBadConfig
	}
	return c, nil
}

package arena

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

const (
	// DefaultBase is the address of offset 0 when Config.Base is unset.
	DefaultBase uint64 = 1 << 32

	// DefaultLimit caps arena growth when Config.Limit is unset.
	DefaultLimit = 1 << 30
)

// Config controls how an Arena is created.
type Config struct {
	// Base is the client-visible address of offset 0. Must be word aligned.
	// Distinct arenas should use disjoint windows [Base, Base+Limit).
	Base uint64

	// Limit is the maximum number of bytes the arena may grow to.
	Limit int

	// Mapped selects the reserve/commit backing instead of a Go slice.
	Mapped bool
}

// DefaultConfig is used when New is given a nil config.
var DefaultConfig = Config{Base: DefaultBase, Limit: DefaultLimit}

// Arena is a growable contiguous byte region addressed by offset.
type Arena struct {
	backing Backing
	data    []byte
	base    uint64
	limit   int
	closed  bool
}

// New creates an empty arena.
func New(cfg *Config) (*Arena, error) {
	c := DefaultConfig
	if cfg != nil {
		c = *cfg
	}
	if c.Base == 0 {
		c.Base = DefaultBase
	}
	if c.Limit == 0 {
		c.Limit = DefaultLimit
	}
	if c.Limit < 0 || c.Base%format.WordSize != 0 {
		return nil, fmt.Errorf("%w: base=0x%x limit=%d", ErrBadConfig, c.Base, c.Limit)
	}
	if c.Base+uint64(c.Limit) < c.Base {
		return nil, fmt.Errorf("%w: window overflows address space", ErrBadConfig)
	}

	var b Backing
	if c.Mapped {
		var err error
		if b, err = NewMappedBacking(c.Limit); err != nil {
			return nil, fmt.Errorf("arena: %w", err)
		}
	} else {
		b = NewHeapBacking(c.Limit)
	}
	return NewWithBacking(b, c.Base, c.Limit), nil
}

// NewWithBacking wraps an existing Backing. base must be word aligned.
func NewWithBacking(b Backing, base uint64, limit int) *Arena {
	return &Arena{backing: b, base: base, limit: limit}
}

// Grow extends the arena by n bytes and returns the offset of the first new
// byte. On failure the arena is unchanged and the error wraps ErrOutOfMemory.
func (a *Arena) Grow(n int) (int, error) {
	if a.closed {
		return 0, ErrClosed
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: grow by %d", ErrBadConfig, n)
	}
	off := len(a.data)
	data, err := a.backing.Extend(n)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	a.data = data
	return off, nil
}

// Bytes returns the whole region. Heap-backed slices are invalidated by Grow.
func (a *Arena) Bytes() []byte { return a.data }

// Len returns the current size in bytes.
func (a *Arena) Len() int { return len(a.data) }

// Limit returns the configured growth cap.
func (a *Arena) Limit() int { return a.limit }

// Base returns the address of offset 0.
func (a *Arena) Base() uint64 { return a.base }

// Addr converts an offset to an address.
func (a *Arena) Addr(off int) uint64 { return a.base + uint64(off) }

// Offset converts an address back to an offset. ok is false when addr lies
// outside the grown region.
func (a *Arena) Offset(addr uint64) (int, bool) {
	if !a.Contains(addr) {
		return 0, false
	}
	return int(addr - a.base), true
}

// Contains reports whether addr falls inside the grown region.
func (a *Arena) Contains(addr uint64) bool {
	return addr >= a.base && addr-a.base < uint64(len(a.data))
}

// Owns reports whether addr falls inside the arena's address window,
// grown or not.
func (a *Arena) Owns(addr uint64) bool {
	return addr >= a.base && addr-a.base < uint64(a.limit)
}

// Slice returns data[off:off+n] with bounds checking.
func (a *Arena) Slice(off, n int) ([]byte, error) {
	if _, err := buf.CheckRange(len(a.data), off, n); err != nil {
		return nil, fmt.Errorf("arena: %w", err)
	}
	return a.data[off : off+n], nil
}

// Close releases the backing. Further growth fails with ErrClosed.
func (a *Arena) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.data = nil
	return a.backing.Release()
}

// Closed reports whether Close has been called.
func (a *Arena) Closed() bool { return a.closed }

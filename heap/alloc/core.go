package alloc

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/heap/block"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/format"
)

// core is the state every strategy shares: the arena, the header store and
// the counters.
type core struct {
	arena  *arena.Arena
	store  *block.Store
	stats  Stats
	closed bool

	// Test hook: called before each arena growth with the bytes requested.
	onGrow func(int)
}

func newCore(cfg arena.Config) (*core, error) {
	a, err := arena.New(&cfg)
	if err != nil {
		if errors.Is(err, arena.ErrBadConfig) {
			return nil, fmt.Errorf("%w: %w", ErrBadConfig, err)
		}
		return nil, err
	}
	return &core{arena: a, store: block.NewStore(a)}, nil
}

// payloadFor validates a request and converts it to a payload size.
func (c *core) payloadFor(n int) (int, error) {
	if c.closed {
		return 0, ErrClosed
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	// n is bounded before rounding so Align cannot overflow.
	room := c.arena.Limit() - format.HeaderSize
	if n > room {
		return 0, fmt.Errorf("%w: request of %d bytes exceeds arena limit %d", ErrOutOfMemory, n, c.arena.Limit())
	}
	size := block.PayloadSize(n)
	if size > room {
		return 0, fmt.Errorf("%w: request of %d bytes exceeds arena limit %d", ErrOutOfMemory, n, c.arena.Limit())
	}
	return size, nil
}

// grow appends one block of payload size to the arena.
func (c *core) grow(size int, used bool) (block.Ref, error) {
	need := block.Footprint(size)
	if c.onGrow != nil {
		c.onGrow(need)
	}
	r, err := c.store.Append(size, used)
	if err != nil {
		Logger().Debug("arena growth failed",
			zap.Int("bytes", need),
			zap.Int("arena", c.arena.Len()),
			zap.Error(err))
		return block.Nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	c.stats.GrowCalls++
	c.stats.GrowBytes += int64(need)
	if ce := Logger().Check(zap.DebugLevel, "arena grown"); ce != nil {
		ce.Write(
			zap.Int("bytes", need),
			zap.Int("block", int(r)),
			zap.Int("arena", c.arena.Len()))
	}
	return r, nil
}

func (c *core) ptr(r block.Ref) Ptr {
	return Ptr(c.arena.Addr(c.store.Payload(r)))
}

// lookup resolves p to its header and requires the block to be in use.
func (c *core) lookup(p Ptr) (block.Ref, error) {
	if c.closed {
		return block.Nil, ErrClosed
	}
	off, ok := c.arena.Offset(uint64(p))
	if !ok {
		return block.Nil, fmt.Errorf("%w: 0x%x", ErrBadPointer, uint64(p))
	}
	r, err := c.store.HeaderOf(off)
	if err != nil {
		return block.Nil, fmt.Errorf("%w: 0x%x: %w", ErrInvalidFree, uint64(p), err)
	}
	if !c.store.Used(r) {
		return block.Nil, fmt.Errorf("%w: 0x%x is not allocated", ErrInvalidFree, uint64(p))
	}
	return r, nil
}

// Header returns the header of the live block p points at.
func (c *core) Header(p Ptr) (block.Ref, error) {
	return c.lookup(p)
}

// release validates p for Free, counting rejections.
func (c *core) release(p Ptr) (block.Ref, error) {
	r, err := c.lookup(p)
	if err != nil {
		if !errors.Is(err, ErrClosed) {
			c.stats.InvalidFrees++
			Logger().Debug("free rejected", zap.Uint64("ptr", uint64(p)), zap.Error(err))
		}
		return block.Nil, err
	}
	c.stats.FreeCalls++
	return r, nil
}

func (c *core) bytes(p Ptr) ([]byte, error) {
	r, err := c.lookup(p)
	if err != nil {
		return nil, err
	}
	return c.store.Data(r), nil
}

func (c *core) logSplit(r, rem block.Ref) {
	c.stats.SplitCount++
	if ce := Logger().Check(zap.DebugLevel, "split"); ce != nil {
		ce.Write(
			zap.Int("block", int(r)),
			zap.Int("size", c.store.Size(r)),
			zap.Int("remainder", int(rem)),
			zap.Int("remainder_size", c.store.Size(rem)))
	}
}

func (c *core) logCoalesce(r, absorbed block.Ref) {
	c.stats.CoalesceCount++
	if ce := Logger().Check(zap.DebugLevel, "coalesce"); ce != nil {
		ce.Write(
			zap.Int("block", int(r)),
			zap.Int("absorbed", int(absorbed)),
			zap.Int("size", c.store.Size(r)))
	}
}

func (c *core) report() Report {
	if c.closed {
		return Report{}
	}
	return scan(c.store)
}

func (c *core) verifyBlocks() error {
	if c.closed {
		return ErrClosed
	}
	return verify.Blocks(c.arena.Bytes())
}

func (c *core) close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.arena.Close()
}

// chain adapts a linked sequence of headers to fit.List.
type chain struct {
	s    *block.Store
	head block.Ref
}

func (l chain) Head() block.Ref { return l.head }
func (l chain) Next(r block.Ref) block.Ref { return l.s.Next(r) }
func (l chain) Size(r block.Ref) int { return l.s.Size(r) }
func (l chain) Used(r block.Ref) bool { return l.s.Used(r) }

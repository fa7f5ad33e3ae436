package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/block"
	"github.com/joshuapare/heapkit/heap/fit"
)

// variant constructs one allocator strategy behind the common interface.
type variant struct {
	name string
	new  func(*Config) (Allocator, error)
}

func variants() []variant {
	return []variant{
		{"bump", func(c *Config) (Allocator, error) { return NewBump(c) }},
		{"implicit", func(c *Config) (Allocator, error) { return NewImplicit(c) }},
		{"explicit", func(c *Config) (Allocator, error) { return NewExplicit(c) }},
		{"segregated", func(c *Config) (Allocator, error) { return NewSegregated(c) }},
	}
}

// reusing lists the variants that recycle freed memory.
func reusing() []variant {
	return variants()[1:]
}

func open(t testing.TB, v variant, cfg *Config) Allocator {
	t.Helper()
	a, err := v.new(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func openImplicit(t testing.TB, s fit.Strategy) *Implicit {
	t.Helper()
	cfg := DefaultConfig
	cfg.Strategy = s
	im, err := NewImplicit(&cfg)
	require.NoError(t, err)
	t.Cleanup(func() { im.Close() })
	return im
}

func openExplicit(t testing.TB, s fit.Strategy) *Explicit {
	t.Helper()
	cfg := DefaultConfig
	cfg.Strategy = s
	e, err := NewExplicit(&cfg)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

// mustAlloc allocates or fails the test.
func mustAlloc(t testing.TB, a Allocator, n int) Ptr {
	t.Helper()
	p, err := a.Alloc(n)
	require.NoError(t, err, "Alloc(%d)", n)
	require.NotZero(t, p)
	return p
}

func mustFree(t testing.TB, a Allocator, p Ptr) {
	t.Helper()
	require.NoError(t, a.Free(p), "Free(0x%x)", uint64(p))
}

// header returns the block behind a live pointer.
func header(t testing.TB, a interface{ Header(Ptr) (block.Ref, error) }, p Ptr) block.Ref {
	t.Helper()
	r, err := a.Header(p)
	require.NoError(t, err)
	return r
}

// assertInvariants verifies the allocator after a mutation.
func assertInvariants(t testing.TB, a Allocator) {
	t.Helper()
	require.NoError(t, a.Verify())
}

// fill writes a pattern derived from seed into the first n payload bytes.
func fill(t testing.TB, a Allocator, p Ptr, n int, seed byte) {
	t.Helper()
	b, err := a.Bytes(p)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(b), n)
	for i := range n {
		b[i] = seed + byte(i*7)
	}
}

// check compares the first n payload bytes against fill's pattern.
func check(t testing.TB, a Allocator, p Ptr, n int, seed byte) {
	t.Helper()
	b, err := a.Bytes(p)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(b), n)
	for i := range n {
		if b[i] != seed+byte(i*7) {
			t.Fatalf("ptr 0x%x byte %d: got 0x%02x want 0x%02x", uint64(p), i, b[i], seed+byte(i*7))
		}
	}
}

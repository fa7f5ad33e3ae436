package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/internal/format"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	a, err := arena.New(&arena.Config{Limit: 1 << 20})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return NewStore(a)
}

func TestPayloadSize(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 8}, {1, 8}, {7, 8}, {8, 8}, {9, 16}, {100, 104}, {128, 128}, {129, 136},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PayloadSize(tt.in), "PayloadSize(%d)", tt.in)
	}
}

func TestFootprint(t *testing.T) {
	assert.Equal(t, format.HeaderSize+104, Footprint(104))
	assert.Equal(t, format.MinBlockSize, Footprint(PayloadSize(0)))
}

func TestCanSplit(t *testing.T) {
	// 104-byte block serving 80 leaves 24, not enough for header + word.
	assert.False(t, CanSplit(104, 80))
	assert.True(t, CanSplit(120, 80))
	assert.False(t, CanSplit(119, 80))
	assert.True(t, CanSplit(format.MinBlockSize, 0))
}

func TestSplit_RemainderArithmetic(t *testing.T) {
	tests := []struct{ s, n int }{
		{120, 80}, {256, 8}, {1024, 512}, {48, 8},
	}
	for _, tt := range tests {
		s := newStore(t)
		r, err := s.Append(tt.s, false)
		require.NoError(t, err)
		require.True(t, CanSplit(tt.s, tt.n))

		rem := s.Split(r, tt.n)

		want := format.WordSize + tt.s - tt.n - format.MinBlockSize
		assert.Equal(t, want, s.Size(rem), "S=%d n=%d", tt.s, tt.n)
		assert.Equal(t, tt.n, s.Size(r))
		assert.Equal(t, Ref(s.Payload(r)+tt.n), rem)
		assert.Equal(t, rem, s.PhysicalNext(r), "remainder is physically adjacent")
		assert.Equal(t, s.Arena().Len(), s.End(rem), "split preserves total footprint")
		assert.False(t, s.Used(rem))
		assert.Equal(t, Nil, s.Next(rem))
		assert.Equal(t, Nil, s.Prev(rem))
	}
}

func TestAbsorb_RestoresOriginalBlock(t *testing.T) {
	s := newStore(t)
	r, err := s.Append(256, false)
	require.NoError(t, err)

	rem := s.Split(r, 64)
	s.Absorb(r, rem)

	assert.Equal(t, 256, s.Size(r))
	assert.Equal(t, Nil, s.PhysicalNext(r))
}

func TestHeaderFields(t *testing.T) {
	s := newStore(t)
	a, err := s.Append(16, true)
	require.NoError(t, err)
	b, err := s.Append(32, false)
	require.NoError(t, err)

	assert.Equal(t, Ref(0), a)
	assert.Equal(t, Ref(Footprint(16)), b)
	assert.True(t, s.Used(a))
	assert.False(t, s.Used(b))

	s.SetNext(a, b)
	s.SetPrev(b, a)
	assert.Equal(t, b, s.Next(a))
	assert.Equal(t, a, s.Prev(b))

	s.SetUsed(a, false)
	assert.False(t, s.Used(a))
	assert.Equal(t, b, s.Next(a), "SetUsed keeps links")

	copy(s.Data(a), "sixteen bytes!!!")
	assert.Equal(t, "sixteen bytes!!!", string(s.Data(a)))
	assert.Equal(t, 32, s.Size(b), "payload write stays inside its block")
}

func TestHeaderOf(t *testing.T) {
	s := newStore(t)
	a, err := s.Append(16, true)
	require.NoError(t, err)
	b, err := s.Append(16, true)
	require.NoError(t, err)

	got, err := s.HeaderOf(s.Payload(b))
	require.NoError(t, err)
	assert.Equal(t, b, got)

	rejects := map[string]int{
		"before first header": 0,
		"unaligned":           s.Payload(a) + 3,
		"inside payload":      s.Payload(a) + 8,
		"past end":            s.Arena().Len() + format.HeaderSize,
	}
	for name, off := range rejects {
		t.Run(name, func(t *testing.T) {
			_, err := s.HeaderOf(off)
			require.Error(t, err)
		})
	}
}

func TestWalk(t *testing.T) {
	s := newStore(t)
	var want []Ref
	for _, n := range []int{8, 24, 104, 8} {
		r, err := s.Append(n, n != 24)
		require.NoError(t, err)
		want = append(want, r)
	}

	var got []Ref
	require.NoError(t, s.Walk(func(r Ref) bool {
		got = append(got, r)
		return true
	}))
	assert.Equal(t, want, got)

	count := 0
	require.NoError(t, s.Walk(func(Ref) bool {
		count++
		return count < 2
	}))
	assert.Equal(t, 2, count)

	// Corrupt the third header's magic.
	format.PutU64(s.Arena().Bytes(), int(want[2])+format.TagOffset, 0)
	require.Error(t, s.Walk(func(Ref) bool { return true }))
	assert.False(t, s.Valid(want[2]))
	assert.True(t, s.Valid(want[1]))
}

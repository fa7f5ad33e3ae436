package alloc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/fit"
	"github.com/joshuapare/heapkit/internal/format"
)

func TestReport_AfterOperations(t *testing.T) {
	im := openImplicit(t, fit.FirstFit)

	a := mustAlloc(t, im, 100)
	mustAlloc(t, im, 8)
	c := mustAlloc(t, im, 300)
	mustAlloc(t, im, 8)
	mustFree(t, im, a)
	mustFree(t, im, c)

	r := im.Report()
	assert.Equal(t, 4, r.Blocks)
	assert.Equal(t, 2, r.UsedBlocks)
	assert.Equal(t, 2, r.FreeBlocks)
	assert.Equal(t, 16, r.UsedBytes)
	assert.Equal(t, 104+304, r.FreeBytes)
	assert.Equal(t, 304, r.LargestFree)
	assert.Equal(t, 4*format.HeaderSize+104+8+304+8, r.ArenaBytes)
	assert.Equal(t, 4*format.HeaderSize, r.Overhead())
	assert.InDelta(t, 100*104.0/408.0, r.Fragmentation(), 1e-9)
}

func TestReport_NoFreeBytes(t *testing.T) {
	assert.Zero(t, Report{}.Fragmentation())
	assert.Zero(t, Report{FreeBytes: 64, LargestFree: 64}.Fragmentation())
}

func TestStats_Counters(t *testing.T) {
	e := openExplicit(t, fit.FirstFit)

	a := mustAlloc(t, e, 256)
	b := mustAlloc(t, e, 256)
	mustFree(t, e, b)
	mustFree(t, e, a)   // merges b
	mustAlloc(t, e, 64) // split
	_ = e.Free(a + 1)   // rejected

	st := e.Stats()
	assert.Equal(t, int64(3), st.AllocCalls)
	assert.Equal(t, int64(2), st.FreeCalls)
	assert.Equal(t, int64(1), st.FastPath)
	assert.Equal(t, int64(2), st.SlowPath)
	assert.Equal(t, int64(2), st.GrowCalls)
	assert.Equal(t, int64(2*(256+format.HeaderSize)), st.GrowBytes)
	assert.Equal(t, int64(1), st.SplitCount)
	assert.Equal(t, int64(1), st.CoalesceCount)
	assert.Equal(t, int64(1), st.InvalidFrees)
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	err := WriteReport(&buf, Report{
		Blocks:      3,
		UsedBlocks:  2,
		FreeBlocks:  1,
		UsedBytes:   1200000,
		FreeBytes:   34464,
		LargestFree: 34464,
		ArenaBytes:  1234560,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "ARENA REPORT")
	assert.Contains(t, out, "1,234,560 bytes", "digit grouping")
	assert.Contains(t, out, "3 (2 used, 1 free)")
	assert.Contains(t, out, "Fragmentation:   0.0%")
}

func TestWriteStats(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStats(&buf, Stats{AllocCalls: 1500000, FastPath: 1000000, SlowPath: 500000}))
	assert.Contains(t, buf.String(), "1,500,000 (fast 1,000,000, slow 500,000)")
}

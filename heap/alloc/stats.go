package alloc

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/heap/block"
)

// Stats holds operation counters for testing and instrumentation.
type Stats struct {
	AllocCalls    int64 // Alloc calls, including failed ones
	FreeCalls     int64 // Free calls that released a block
	FastPath      int64 // Allocations served from existing free space
	SlowPath      int64 // Allocations that grew the arena
	GrowCalls     int64 // Successful arena growths
	GrowBytes     int64 // Bytes added by arena growth
	SplitCount    int64 // Blocks split to return a remainder
	CoalesceCount int64 // Forward merges performed by Free
	InvalidFrees  int64 // Free calls rejected by pointer validation
}

func (s *Stats) add(o Stats) {
	s.AllocCalls += o.AllocCalls
	s.FreeCalls += o.FreeCalls
	s.FastPath += o.FastPath
	s.SlowPath += o.SlowPath
	s.GrowCalls += o.GrowCalls
	s.GrowBytes += o.GrowBytes
	s.SplitCount += o.SplitCount
	s.CoalesceCount += o.CoalesceCount
	s.InvalidFrees += o.InvalidFrees
}

// Report summarizes the blocks currently in an arena.
type Report struct {
	Blocks      int // Total blocks
	UsedBlocks  int // Blocks owned by clients
	FreeBlocks  int // Blocks available for reuse
	UsedBytes   int // Payload bytes in used blocks
	FreeBytes   int // Payload bytes in free blocks
	LargestFree int // Largest free payload
	ArenaBytes  int // Arena length, headers included
}

// Fragmentation returns external fragmentation as a percentage: the share
// of free bytes that are not in the largest free block.
func (r Report) Fragmentation() float64 {
	if r.FreeBytes == 0 {
		return 0
	}
	return 100 * (1 - float64(r.LargestFree)/float64(r.FreeBytes))
}

// Overhead returns the bytes spent on headers.
func (r Report) Overhead() int {
	return r.ArenaBytes - r.UsedBytes - r.FreeBytes
}

func (r *Report) add(o Report) {
	r.Blocks += o.Blocks
	r.UsedBlocks += o.UsedBlocks
	r.FreeBlocks += o.FreeBlocks
	r.UsedBytes += o.UsedBytes
	r.FreeBytes += o.FreeBytes
	r.LargestFree = max(r.LargestFree, o.LargestFree)
	r.ArenaBytes += o.ArenaBytes
}

// scan builds a Report from a physical walk of s.
func scan(s *block.Store) Report {
	r := Report{ArenaBytes: s.Arena().Len()}
	// A walk error leaves a partial report; Verify reports the cause.
	_ = s.Walk(func(b block.Ref) bool {
		size := s.Size(b)
		r.Blocks++
		if s.Used(b) {
			r.UsedBlocks++
			r.UsedBytes += size
		} else {
			r.FreeBlocks++
			r.FreeBytes += size
			r.LargestFree = max(r.LargestFree, size)
		}
		return true
	})
	return r
}

// WriteReport writes a formatted arena report to w.
func WriteReport(w io.Writer, r Report) error {
	p := message.NewPrinter(language.English)
	pct := func(n int) float64 {
		if r.ArenaBytes == 0 {
			return 0
		}
		return 100 * float64(n) / float64(r.ArenaBytes)
	}

	_, err := p.Fprintf(w, "\n====== ARENA REPORT ======\n"+
		"  Arena:           %d bytes\n"+
		"  Blocks:          %d (%d used, %d free)\n"+
		"  Used payload:    %d bytes (%.1f%%)\n"+
		"  Free payload:    %d bytes (%.1f%%)\n"+
		"  Header overhead: %d bytes (%.1f%%)\n"+
		"  Largest free:    %d bytes\n"+
		"  Fragmentation:   %.1f%%\n"+
		"==========================\n",
		r.ArenaBytes,
		r.Blocks, r.UsedBlocks, r.FreeBlocks,
		r.UsedBytes, pct(r.UsedBytes),
		r.FreeBytes, pct(r.FreeBytes),
		r.Overhead(), pct(r.Overhead()),
		r.LargestFree,
		r.Fragmentation(),
	)
	return err
}

// WriteStats writes the counters in s to w.
func WriteStats(w io.Writer, s Stats) error {
	p := message.NewPrinter(language.English)
	_, err := p.Fprintf(w, "\n====== ALLOCATOR STATS ======\n"+
		"  Alloc calls:     %d (fast %d, slow %d)\n"+
		"  Free calls:      %d (rejected %d)\n"+
		"  Grows:           %d (%d bytes)\n"+
		"  Splits:          %d\n"+
		"  Coalesces:       %d\n"+
		"=============================\n",
		s.AllocCalls, s.FastPath, s.SlowPath,
		s.FreeCalls, s.InvalidFrees,
		s.GrowCalls, s.GrowBytes,
		s.SplitCount,
		s.CoalesceCount,
	)
	return err
}

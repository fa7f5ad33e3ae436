// Package alloc provides heap allocators that carve client blocks out of a
// single growable arena.
//
// # Overview
//
// Four strategies share one block layout (see heap/block):
//
//   - Bump: every Alloc appends a new block; Free only clears the used bit
//     and the space is never reused.
//   - Implicit: one address-ordered chain links every block, used or free.
//     Searches walk the whole chain. Free merges forward into a free
//     physical neighbor.
//   - Explicit: a doubly linked free list holds only free blocks, in LIFO
//     order. Physical neighbors are found by address arithmetic. Free
//     merges forward and pushes the block onto the list.
//   - Segregated: several Explicit allocators ("buckets"), one per size
//     class, each with its own arena.
//
// # Quick Start
//
//	a, err := alloc.NewExplicit(nil)
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	p, err := a.Alloc(100)
//	buf, _ := a.Bytes(p)
//	copy(buf, data)
//	_ = a.Free(p)
//
// # Pointers
//
// A Ptr is the arena base address plus the payload offset, so it is
// word aligned and never zero. Pointers from different allocators never
// collide as long as their arena windows are disjoint; Segregated relies
// on this to route Free.
//
// # Fit Strategies
//
// Implicit and Explicit accept a fit.Strategy in Config (first, next, best
// or worst fit). Find runs the search without allocating.
//
// # Errors
//
// Every failed call leaves the allocator unchanged. Free and Bytes
// validate the pointer (bounds, alignment, header magic and used bit)
// before touching anything, so double frees and wild pointers surface as
// ErrInvalidFree or ErrBadPointer.
//
// # Logging
//
// Debug events (growth, split, coalesce, rejected frees) go to a zap
// logger that is a no-op by default. Install one with SetLogger, or set
// HEAP_LOG_ALLOC=1 to get a development logger on stderr.
//
// # Thread Safety
//
// Allocators are not safe for concurrent use.
package alloc

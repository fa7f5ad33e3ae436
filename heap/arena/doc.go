// Package arena owns the contiguous byte region an allocator carves blocks
// out of.
//
// An Arena only ever grows. Growth is delegated to a Backing, which must
// keep previously returned bytes in place relative to each other so that
// offsets handed out earlier stay valid:
//
//	a, err := arena.New(&arena.Config{Limit: 1 << 20})
//	off, err := a.Grow(64)   // off is the old length
//	addr := a.Addr(off)      // stable client-visible address
//
// Two backings are provided. The heap backing keeps the region in a Go
// slice and may move it on growth; only offsets are stable. The mapped
// backing reserves address space once and commits pages on demand, so the
// region never moves.
package arena

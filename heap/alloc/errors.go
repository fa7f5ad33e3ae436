package alloc

import "errors"

var (
	// ErrOutOfMemory indicates the arena could not grow to satisfy a request.
	// It wraps arena.ErrOutOfMemory when the backing refused.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrInvalidFree indicates a pointer that does not name a live block.
	ErrInvalidFree = errors.New("alloc: invalid free")

	// ErrBadPointer indicates a pointer outside every arena owned by the allocator.
	ErrBadPointer = errors.New("alloc: pointer outside arena")

	// ErrBadSize indicates a negative request size.
	ErrBadSize = errors.New("alloc: negative size")

	// ErrBadConfig indicates an unusable Config or SizeClassConfig.
	ErrBadConfig = errors.New("alloc: invalid config")

	// ErrClosed indicates use of an allocator after Close.
	ErrClosed = errors.New("alloc: allocator closed")
)

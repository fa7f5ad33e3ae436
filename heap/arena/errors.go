package arena

import "errors"

var (
	// ErrOutOfMemory is returned when the backing cannot supply more bytes.
	ErrOutOfMemory = errors.New("arena: out of memory")

	// ErrLimit is returned by backings when growth would pass the configured limit.
	ErrLimit = errors.New("arena: limit exceeded")

	// ErrClosed is returned by operations on a closed arena.
	ErrClosed = errors.New("arena: closed")

	// ErrBadConfig is returned for an unusable Config.
	ErrBadConfig = errors.New("arena: invalid config")
)

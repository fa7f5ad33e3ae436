package format

import "errors"

var (
	// ErrSignatureMismatch indicates a header did not carry the block magic.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrMisaligned indicates an offset or size that is not word aligned.
	ErrMisaligned = errors.New("format: misaligned")
)

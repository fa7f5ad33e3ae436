// Package vmem reserves a contiguous virtual address range up front and
// commits pages from it on demand, so the usable prefix can grow without the
// base address ever moving.
package vmem

import (
	"errors"
	"fmt"
	"os"

	"github.com/joshuapare/heapkit/internal/format"
)

// ErrExhausted is returned when a commit would exceed the reservation.
var ErrExhausted = errors.New("vmem: reservation exhausted")

// ErrReleased is returned when committing into a released region.
var ErrReleased = errors.New("vmem: region released")

// Region is a reserved address range. Only the first Committed bytes are
// readable and writable.
type Region struct {
	data      []byte
	committed int
	pageSize  int
}

// Reserve reserves size bytes of address space, rounded up to whole pages.
func Reserve(size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("vmem: invalid reservation size %d", size)
	}
	page := os.Getpagesize()
	size = format.PageAlign(size, page)
	data, err := reserve(size)
	if err != nil {
		return nil, fmt.Errorf("vmem: reserve %d bytes: %w", size, err)
	}
	return &Region{data: data, pageSize: page}, nil
}

// Cap returns the reserved size in bytes.
func (r *Region) Cap() int { return len(r.data) }

// Committed returns the number of bytes currently backed by memory.
func (r *Region) Committed() int { return r.committed }

// Commit ensures at least n bytes from the start of the region are usable
// and returns them. Committing less than what is already committed is a no-op.
func (r *Region) Commit(n int) ([]byte, error) {
	if r.data == nil {
		return nil, ErrReleased
	}
	if n > len(r.data) {
		return nil, fmt.Errorf("%w: want %d, reserved %d", ErrExhausted, n, len(r.data))
	}
	if n > r.committed {
		target := format.PageAlign(n, r.pageSize)
		if target > len(r.data) {
			target = len(r.data)
		}
		if err := commit(r.data[r.committed:target]); err != nil {
			return nil, fmt.Errorf("vmem: commit %d bytes: %w", target-r.committed, err)
		}
		r.committed = target
	}
	return r.data[:n], nil
}

// Release returns the whole reservation to the OS. Safe to call twice.
func (r *Region) Release() error {
	if r.data == nil {
		return nil
	}
	err := release(r.data)
	r.data = nil
	r.committed = 0
	return err
}

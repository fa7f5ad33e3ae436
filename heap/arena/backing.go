package arena

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/vmem"
)

// Backing supplies the raw bytes behind an Arena.
//
// Extend grows the region by n bytes and returns the whole region. The
// prefix returned by earlier calls must be preserved. On error the region
// is unchanged.
type Backing interface {
	Extend(n int) ([]byte, error)
	Release() error
}

// minHeapCap is the first capacity a heap backing allocates.
const minHeapCap = 4096

type heapBacking struct {
	data  []byte
	limit int
}

// NewHeapBacking returns a Backing over a Go slice that doubles its capacity
// as needed, never exceeding limit bytes.
func NewHeapBacking(limit int) Backing {
	return &heapBacking{limit: limit}
}

func (h *heapBacking) Extend(n int) ([]byte, error) {
	newLen, ok := buf.AddOverflowSafe(len(h.data), n)
	if !ok || newLen > h.limit {
		return nil, fmt.Errorf("%w: have %d, want +%d, limit %d", ErrLimit, len(h.data), n, h.limit)
	}
	if newLen > cap(h.data) {
		newCap := max(cap(h.data)*2, newLen, minHeapCap)
		newCap = min(newCap, h.limit)
		grown := make([]byte, len(h.data), newCap)
		copy(grown, h.data)
		h.data = grown
	}
	h.data = h.data[:newLen]
	return h.data, nil
}

func (h *heapBacking) Release() error {
	h.data = nil
	return nil
}

type mappedBacking struct {
	region *vmem.Region
	length int
}

// NewMappedBacking reserves limit bytes of address space and commits pages
// as the arena grows. The returned region never moves.
func NewMappedBacking(limit int) (Backing, error) {
	region, err := vmem.Reserve(limit)
	if err != nil {
		return nil, err
	}
	return &mappedBacking{region: region}, nil
}

func (m *mappedBacking) Extend(n int) ([]byte, error) {
	newLen, ok := buf.AddOverflowSafe(m.length, n)
	if !ok || newLen > m.region.Cap() {
		return nil, fmt.Errorf("%w: have %d, want +%d, reserved %d", ErrLimit, m.length, n, m.region.Cap())
	}
	data, err := m.region.Commit(newLen)
	if err != nil {
		return nil, err
	}
	m.length = newLen
	return data, nil
}

func (m *mappedBacking) Release() error {
	return m.region.Release()
}

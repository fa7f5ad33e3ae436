package alloc

import (
	"fmt"
	"math"
	"sort"

	"github.com/joshuapare/heapkit/internal/format"
)

// SizeClassConfig defines the size classes of a Segregated allocator.
// Different configurations trade bucket count against internal
// fragmentation.
type SizeClassConfig struct {
	// Name for this configuration (for benchmarking)
	Name string

	// Small classes grow linearly up to SmallMax.
	SmallIncrement int
	SmallMax       int

	// Medium classes grow geometrically up to MediumMax. Requests larger
	// than MediumMax share the overflow bucket.
	MediumMax    int
	GrowthFactor float64
}

// Predefined configurations.
var (
	// PowerOfTwo: 8, 16, 32, 64, 128 and an overflow bucket.
	ConfigPowerOfTwo = SizeClassConfig{
		Name:           "PowerOfTwo",
		SmallIncrement: 8,
		SmallMax:       8,
		MediumMax:      128,
		GrowthFactor:   2.0,
	}

	// FineGrained: 8-128 step 8 (16 classes) + 128-4K log growth (~9 classes).
	ConfigFineGrained = SizeClassConfig{
		Name:           "FineGrained",
		SmallIncrement: 8,
		SmallMax:       128,
		MediumMax:      4096,
		GrowthFactor:   1.5,
	}

	// Coarse: 32-256 step 32 (8 classes) + 256-8K doubling (5 classes).
	ConfigCoarse = SizeClassConfig{
		Name:           "Coarse",
		SmallIncrement: 32,
		SmallMax:       256,
		MediumMax:      8192,
		GrowthFactor:   2.0,
	}
)

// Validate reports whether c describes a usable class table.
func (c SizeClassConfig) Validate() error {
	switch {
	case c.SmallIncrement <= 0 || !format.IsAligned(c.SmallIncrement):
		return fmt.Errorf("%w: %s: small increment %d must be a positive multiple of %d",
			ErrBadConfig, c.Name, c.SmallIncrement, format.WordSize)
	case c.SmallMax < c.SmallIncrement:
		return fmt.Errorf("%w: %s: small max %d below increment %d", ErrBadConfig, c.Name, c.SmallMax, c.SmallIncrement)
	case c.MediumMax < c.SmallMax:
		return fmt.Errorf("%w: %s: medium max %d below small max %d", ErrBadConfig, c.Name, c.MediumMax, c.SmallMax)
	case c.MediumMax > c.SmallMax && c.GrowthFactor <= 1:
		return fmt.Errorf("%w: %s: growth factor %.2f must exceed 1", ErrBadConfig, c.Name, c.GrowthFactor)
	}
	return nil
}

// sizeClassTable holds the computed inclusive upper bound of each class.
// Sizes above the last bound go to the overflow class len(bounds).
type sizeClassTable struct {
	config SizeClassConfig
	bounds []int
}

// newSizeClassTable computes class bounds from config.
func newSizeClassTable(config SizeClassConfig) (*sizeClassTable, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	t := &sizeClassTable{config: config}

	// Phase 1: linear
	size := 0
	for size+config.SmallIncrement <= config.SmallMax {
		size += config.SmallIncrement
		t.bounds = append(t.bounds, size)
	}

	// Phase 2: geometric, word aligned, capped at MediumMax
	for size < config.MediumMax {
		next := format.Align(int(math.Ceil(float64(size) * config.GrowthFactor)))
		if next <= size {
			next = size + format.WordSize // Ensure progress
		}
		next = min(next, config.MediumMax)
		t.bounds = append(t.bounds, next)
		size = next
	}
	return t, nil
}

// classOf returns the class index for a request of size bytes.
func (t *sizeClassTable) classOf(size int) int {
	return sort.SearchInts(t.bounds, size)
}

// NumClasses returns the number of buckets, overflow included.
func (t *sizeClassTable) NumClasses() int {
	return len(t.bounds) + 1
}

// String returns a human-readable description of the size class table.
func (t *sizeClassTable) String() string {
	return t.config.Name
}

package alloc

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/joshuapare/heapkit/heap/arena"
)

// bucketWindow is the address space set aside for each bucket's arena.
// Bucket i's arena starts at Config.Arena.Base + i*bucketWindow.
const bucketWindow uint64 = 1 << 40

// Segregated routes each request to an Explicit allocator chosen by size
// class. Buckets never share memory, so a block stays in the bucket that
// created it for its whole life.
type Segregated struct {
	table   *sizeClassTable
	buckets []*Explicit
	base    uint64
	closed  bool
}

// NewSegregated creates one empty Explicit bucket per size class.
func NewSegregated(cfg *Config) (*Segregated, error) {
	c, err := resolveConfig(cfg)
	if err != nil {
		return nil, err
	}
	classes := ConfigPowerOfTwo
	if c.Classes != nil {
		classes = *c.Classes
	}
	table, err := newSizeClassTable(classes)
	if err != nil {
		return nil, err
	}

	ac := c.Arena
	if ac.Base == 0 {
		ac.Base = arena.DefaultBase
	}
	if ac.Limit == 0 {
		ac.Limit = arena.DefaultLimit
	}
	if uint64(ac.Limit) > bucketWindow {
		return nil, fmt.Errorf("%w: arena limit %d exceeds bucket window %d", ErrBadConfig, ac.Limit, bucketWindow)
	}

	s := &Segregated{table: table, base: ac.Base}
	for i := range table.NumClasses() {
		bc := ac
		bc.Base = ac.Base + uint64(i)*bucketWindow
		if bc.Base < ac.Base {
			s.Close()
			return nil, fmt.Errorf("%w: bucket %d window overflows address space", ErrBadConfig, i)
		}
		co, err := newCore(bc)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("bucket %d: %w", i, err)
		}
		s.buckets = append(s.buckets, newExplicit(co, c.Strategy))
	}

	Logger().Debug("segregated allocator created",
		zap.String("classes", table.String()),
		zap.Int("buckets", len(s.buckets)),
		zap.Ints("bounds", table.bounds))
	return s, nil
}

// BucketOf returns the bucket index for a request of size bytes. It depends
// only on size and the class table.
func (s *Segregated) BucketOf(size int) int {
	return s.table.classOf(size)
}

// NumBuckets returns the number of buckets, overflow included.
func (s *Segregated) NumBuckets() int {
	return len(s.buckets)
}

// Bucket returns bucket i for inspection, or nil if i is outside
// [0, NumBuckets()).
func (s *Segregated) Bucket(i int) *Explicit {
	if i < 0 || i >= len(s.buckets) {
		return nil
	}
	return s.buckets[i]
}

// Alloc forwards to the bucket for size.
func (s *Segregated) Alloc(size int) (Ptr, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if size < 0 {
		return 0, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	return s.buckets[s.BucketOf(size)].Alloc(size)
}

// Free forwards to the bucket whose arena holds p.
func (s *Segregated) Free(p Ptr) error {
	i, err := s.owner(p)
	if err != nil {
		return err
	}
	b := s.buckets[i]
	r, err := b.Header(p)
	if err != nil {
		b.stats.InvalidFrees++
		return err
	}
	// Coalescing can grow a block past its class bound; the arena window is
	// the authority.
	if class := s.BucketOf(b.store.Size(r)); class != i {
		if ce := Logger().Check(zap.DebugLevel, "bucket drift"); ce != nil {
			ce.Write(
				zap.Uint64("ptr", uint64(p)),
				zap.Int("bucket", i),
				zap.Int("size_class", class),
				zap.Int("size", b.store.Size(r)))
		}
	}
	return b.Free(p)
}

// BucketOfPtr returns the index of the bucket that owns p.
func (s *Segregated) BucketOfPtr(p Ptr) (int, error) {
	return s.owner(p)
}

func (s *Segregated) owner(p Ptr) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	addr := uint64(p)
	if addr < s.base {
		return 0, fmt.Errorf("%w: 0x%x", ErrBadPointer, addr)
	}
	i := (addr - s.base) / bucketWindow
	if i >= uint64(len(s.buckets)) || !s.buckets[i].arena.Contains(addr) {
		return 0, fmt.Errorf("%w: 0x%x", ErrBadPointer, addr)
	}
	return int(i), nil
}

// Bytes returns the payload of a live block.
func (s *Segregated) Bytes(p Ptr) ([]byte, error) {
	i, err := s.owner(p)
	if err != nil {
		return nil, err
	}
	return s.buckets[i].Bytes(p)
}

// Stats sums the counters of every bucket.
func (s *Segregated) Stats() Stats {
	var st Stats
	for _, b := range s.buckets {
		st.add(b.Stats())
	}
	return st
}

// Report sums the reports of every bucket.
func (s *Segregated) Report() Report {
	var r Report
	for _, b := range s.buckets {
		r.add(b.Report())
	}
	return r
}

// Verify checks every bucket.
func (s *Segregated) Verify() error {
	if s.closed {
		return ErrClosed
	}
	for i, b := range s.buckets {
		if err := b.Verify(); err != nil {
			return fmt.Errorf("bucket %d: %w", i, err)
		}
	}
	return nil
}

// Close releases every bucket's arena.
func (s *Segregated) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var errs []error
	for _, b := range s.buckets {
		errs = append(errs, b.Close())
	}
	return errors.Join(errs...)
}

var _ Allocator = (*Segregated)(nil)

package alloc

import (
	"math/rand"
	"testing"

	"github.com/joshuapare/heapkit/heap/fit"
)

// BenchmarkAlloc_Churn measures steady-state alloc/free with a bounded live set.
func BenchmarkAlloc_Churn(b *testing.B) {
	for _, v := range variants() {
		b.Run(v.name, func(b *testing.B) {
			a, err := v.new(nil)
			if err != nil {
				b.Fatal(err)
			}
			defer a.Close()

			rng := rand.New(rand.NewSource(1))
			ring := make([]Ptr, 256)

			b.ResetTimer()
			b.ReportAllocs()

			for i := range b.N {
				slot := i % len(ring)
				if ring[slot] != 0 {
					if err := a.Free(ring[slot]); err != nil {
						b.Fatal(err)
					}
				}
				p, err := a.Alloc(8 + rng.Intn(256))
				if err != nil {
					b.Fatal(err)
				}
				ring[slot] = p
			}
		})
	}
}

// BenchmarkFind compares fit strategies over a fragmented free list.
func BenchmarkFind(b *testing.B) {
	for s := fit.FirstFit; s <= fit.WorstFit; s++ {
		b.Run(s.String(), func(b *testing.B) {
			e, err := NewExplicit(&Config{Strategy: s})
			if err != nil {
				b.Fatal(err)
			}
			defer e.Close()

			var ptrs []Ptr
			for i := range 2000 {
				p, err := e.Alloc(8 + (i*37)%512)
				if err != nil {
					b.Fatal(err)
				}
				ptrs = append(ptrs, p)
			}
			for i := 0; i < len(ptrs); i += 2 {
				if err := e.Free(ptrs[i]); err != nil {
					b.Fatal(err)
				}
			}

			b.ResetTimer()
			b.ReportAllocs()

			for range b.N {
				e.Find(s, 300)
			}
		})
	}
}

package vmem

import (
	"errors"
	"os"
	"testing"
)

func TestReserveCommitGrowsInPlace(t *testing.T) {
	page := os.Getpagesize()
	r, err := Reserve(4 * page)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	defer func() {
		if err := r.Release(); err != nil {
			t.Fatalf("Release: %v", err)
		}
	}()

	if r.Cap() != 4*page {
		t.Fatalf("Cap = %d, want %d", r.Cap(), 4*page)
	}

	first, err := r.Commit(100)
	if err != nil {
		t.Fatalf("Commit(100): %v", err)
	}
	if len(first) != 100 {
		t.Fatalf("len = %d, want 100", len(first))
	}
	if r.Committed() != page {
		t.Fatalf("Committed = %d, want one page (%d)", r.Committed(), page)
	}
	first[0], first[99] = 0xAB, 0xCD

	second, err := r.Commit(3 * page)
	if err != nil {
		t.Fatalf("Commit(3 pages): %v", err)
	}
	if &second[0] != &first[0] {
		t.Fatalf("base address moved after commit")
	}
	if second[0] != 0xAB || second[99] != 0xCD {
		t.Fatalf("committed bytes lost: 0x%x 0x%x", second[0], second[99])
	}
	second[3*page-1] = 0x11
}

func TestCommitBeyondReservation(t *testing.T) {
	page := os.Getpagesize()
	r, err := Reserve(page)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	defer r.Release()

	if _, err := r.Commit(page + 1); !errors.Is(err, ErrExhausted) {
		t.Fatalf("Commit past cap: err = %v, want ErrExhausted", err)
	}
	if r.Committed() != 0 {
		t.Fatalf("Committed = %d after failed commit, want 0", r.Committed())
	}
}

func TestReleaseTwiceAndCommitAfterRelease(t *testing.T) {
	r, err := Reserve(1)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := r.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := r.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}
	if _, err := r.Commit(1); !errors.Is(err, ErrReleased) {
		t.Fatalf("Commit after release: err = %v, want ErrReleased", err)
	}
}

func TestReserveRejectsNonPositive(t *testing.T) {
	if _, err := Reserve(0); err == nil {
		t.Fatalf("Reserve(0) should fail")
	}
}

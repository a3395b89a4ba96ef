package store

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/roach88/deck/internal/ir"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedSlides inserts slides numbered 1..n with ids "s1".."sN"; activeAt 0 means none active.
func seedSlides(t *testing.T, s *Store, n int, activeAt int64) {
	t.Helper()
	ctx := context.Background()
	for i := int64(1); i <= int64(n); i++ {
		slide := ir.Slide{
			ID:     "s" + strconv.FormatInt(i, 10),
			Number: i,
			Data:   "data-" + strconv.FormatInt(i, 10),
			Active: i == activeAt,
		}
		if err := s.Slides().Insert(ctx, slide); err != nil {
			t.Fatalf("Insert(%d) failed: %v", i, err)
		}
	}
}

func numbersOf(slides []ir.Slide) []int64 {
	out := make([]int64, len(slides))
	for i, s := range slides {
		out[i] = s.Number
	}
	return out
}

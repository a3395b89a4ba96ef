package testutil

import (
	"path/filepath"
	"testing"

	"github.com/roach88/deck/internal/store"
)

// NewStore opens a file-backed store in t.TempDir, closed on cleanup.
func NewStore(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "deck.db"))
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

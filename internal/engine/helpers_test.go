package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/deck/internal/ir"
	"github.com/roach88/deck/internal/store"
	"github.com/roach88/deck/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEngine returns an engine with deterministic ids ("s-1", ...) and seqs.
func newTestEngine(t *testing.T, opts ...Option) (*Engine, *store.Store) {
	t.Helper()
	s := testutil.NewStore(t)
	base := []Option{
		WithClock(testutil.NewDeterministicClock()),
		WithIDGenerator(testutil.NewSequentialIDs("s")),
		WithLogger(discardLogger()),
	}
	return New(s, append(base, opts...)...), s
}

// loadDeck loads slides 1..n with ids "d1".."dN"; activeAt 0 leaves none active.
func loadDeck(t *testing.T, e *Engine, n int, activeAt int64) {
	t.Helper()
	slides := make([]ir.Slide, 0, n)
	for i := int64(1); i <= int64(n); i++ {
		slides = append(slides, ir.Slide{
			ID:     "d" + strconv.FormatInt(i, 10),
			Number: i,
			Data:   "page " + strconv.FormatInt(i, 10),
			Active: i == activeAt,
		})
	}
	require.NoError(t, e.LoadCollection(context.Background(), slides, nil))
}

func collection(t *testing.T, e *Engine) []ir.Slide {
	t.Helper()
	slides, err := e.FullCollection(context.Background())
	require.NoError(t, err)
	return slides
}

func numbers(slides []ir.Slide) []int64 {
	out := make([]int64, len(slides))
	for i, s := range slides {
		out[i] = s.Number
	}
	return out
}

func activeNumber(t *testing.T, e *Engine) int64 {
	t.Helper()
	slide, ok, err := e.CurrentActive(context.Background())
	require.NoError(t, err)
	if !ok {
		return 0
	}
	return slide.Number
}

// requireInvariants checks unique numbers and at most one active slide.
func requireInvariants(t *testing.T, e *Engine) {
	t.Helper()
	seen := make(map[int64]bool)
	active := 0
	for _, s := range collection(t, e) {
		require.GreaterOrEqual(t, s.Number, int64(1), "slide %s has number %d", s.ID, s.Number)
		require.False(t, seen[s.Number], "number %d appears twice", s.Number)
		seen[s.Number] = true
		if s.Active {
			active++
		}
	}
	require.LessOrEqual(t, active, 1, "more than one active slide")
}

// failingRecorder rejects every recording.
type failingRecorder struct{ calls int }

func (r *failingRecorder) Record(context.Context, ir.Recording) error {
	r.calls++
	return errors.New("audit log unavailable")
}

// faultyDeck fails Shift inside transactions to exercise rollback.
type faultyDeck struct {
	*store.Store
}

func (d faultyDeck) Atomic(ctx context.Context, fn func(store.Collection) error) error {
	return d.Store.Atomic(ctx, func(c store.Collection) error {
		return fn(faultyCollection{c})
	})
}

type faultyCollection struct {
	store.Collection
}

var errShiftFailed = errors.New("disk full")

func (faultyCollection) Shift(context.Context, int64, int64) (int64, error) {
	return 0, errShiftFailed
}

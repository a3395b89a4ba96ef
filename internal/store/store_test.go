package store

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/deck/internal/ir"
	"github.com/roach88/deck/internal/queryir"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_OpensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	require.NoError(t, err)
	seedSlides(t, s1, 2, 1)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	n, err := s2.Slides().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	seedSlides(t, s, 3, 2)
	n, err := s.Slides().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n, "in-memory deck must survive across statements")
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("user_version", "2"))
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{}
	assert.NoError(t, s.Close())
}

func TestSchema_UniqueNumber(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Slides().Insert(ctx, ir.Slide{ID: "a", Number: 1}))
	err := s.Slides().Insert(ctx, ir.Slide{ID: "b", Number: 1})
	assert.Error(t, err, "duplicate number must be rejected")
}

func TestSchema_SingleActive(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Slides().Insert(ctx, ir.Slide{ID: "a", Number: 1, Active: true}))
	err := s.Slides().Insert(ctx, ir.Slide{ID: "b", Number: 2, Active: true})
	assert.Error(t, err, "second active slide must be rejected")

	// Several inactive slides are fine.
	require.NoError(t, s.Slides().Insert(ctx, ir.Slide{ID: "c", Number: 3}))
	require.NoError(t, s.Slides().Insert(ctx, ir.Slide{ID: "d", Number: 4}))
}

func TestSchema_PositiveNumber(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, n := range []int64{0, -1, math.MinInt64} {
		err := s.Slides().Insert(ctx, ir.Slide{ID: "bad", Number: n})
		assert.Error(t, err, "number %d must be rejected", n)
	}

	count, err := s.Slides().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMigrateToV2_AddsNumberCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)

	// Simulate a v1 deck whose slides table predates the number check.
	for _, stmt := range []string{
		`DROP TABLE slides`,
		`CREATE TABLE slides (
			id     TEXT PRIMARY KEY,
			number INTEGER NOT NULL,
			data   TEXT NOT NULL,
			active INTEGER NOT NULL DEFAULT 0 CHECK (active IN (0, 1))
		)`,
		`CREATE UNIQUE INDEX idx_slides_number ON slides(number)`,
		`INSERT INTO slides (id, number, data, active) VALUES
			('low', -9, '', 0), ('zero', 0, '', 0), ('a', 1, '', 1), ('b', 2, '', 0)`,
		`PRAGMA user_version = 1`,
	} {
		_, err := s.DB().Exec(stmt)
		require.NoError(t, err)
	}
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	got, err := s.Slides().Find(ctx, queryir.Select{})
	require.NoError(t, err)
	ids := make([]string, len(got))
	for i, slide := range got {
		ids[i] = slide.ID
	}
	assert.Equal(t, []string{"a", "b", "low", "zero"}, ids)
	assert.Equal(t, []int64{1, 2, 3, 4}, numbersOf(got))

	assert.Error(t, s.Slides().Insert(ctx, ir.Slide{ID: "c", Number: 0}))
	assert.Error(t, s.Slides().Insert(ctx, ir.Slide{ID: "d", Number: 5, Active: true}),
		"single-active index must survive the rebuild")
	assert.NoError(t, s.verifyPragma("user_version", "2"))
}

func TestMigrateToV1_ClearsExtraActive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)

	// Simulate a pre-v1 deck: drop the index and the version marker.
	_, err = s.DB().Exec(`DROP INDEX idx_slides_single_active`)
	require.NoError(t, err)
	_, err = s.DB().Exec(`PRAGMA user_version = 0`)
	require.NoError(t, err)
	_, err = s.DB().Exec(`INSERT INTO slides (id, number, data, active) VALUES ('a', 1, '', 1), ('b', 2, '', 1)`)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	active, err := s.Slides().Find(context.Background(), activeOnly())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "a", active[0].ID)
}

func TestAtomic_CommitsOnSuccess(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	err := s.Atomic(ctx, func(c Collection) error {
		if err := c.Insert(ctx, ir.Slide{ID: "a", Number: 1}); err != nil {
			return err
		}
		return c.Insert(ctx, ir.Slide{ID: "b", Number: 2})
	})
	require.NoError(t, err)

	n, err := s.Slides().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestAtomic_RollsBackOnError(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Atomic(ctx, func(c Collection) error {
		if err := c.Insert(ctx, ir.Slide{ID: "a", Number: 1}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := s.Slides().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "failed transaction must leave no rows")
}

func TestView_SeesCommittedRows(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedSlides(t, s, 2, 0)

	var got int64
	err := s.View(ctx, func(c Collection) error {
		var err error
		got, err = c.Count(ctx)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/deck/internal/ir"
)

func mustRecording(t *testing.T, op string, args ir.Args, seq int64) ir.Recording {
	t.Helper()
	rec, err := ir.NewRecording(op, args, seq)
	require.NoError(t, err)
	return rec
}

func TestRecord_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := mustRecording(t, ir.OpInsert, ir.Args{
		"location": int64(2),
		"slide":    map[string]any{"number": int64(1), "data": "hello"},
	}, 1)
	require.NoError(t, s.Record(ctx, rec))

	got, err := s.ReadRecordings(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec.ID, got[0].ID)
	assert.Equal(t, int64(1), got[0].Seq)
	assert.Equal(t, ir.OpInsert, got[0].Operation)
	assert.Equal(t, ir.EngineVersion, got[0].EngineVersion)

	loc, err := got[0].Args.Int("location")
	require.NoError(t, err)
	assert.Equal(t, int64(2), loc)

	slide, err := got[0].Args.Object("slide")
	require.NoError(t, err)
	data, err := slide.String("data")
	require.NoError(t, err)
	assert.Equal(t, "hello", data)
}

func TestRecord_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := mustRecording(t, ir.OpReset, ir.Args{}, 1)
	require.NoError(t, s.Record(ctx, rec))
	require.NoError(t, s.Record(ctx, rec))

	got, err := s.ReadRecordings(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRecord_NilArgsStoredAsEmptyObject(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := ir.Recording{ID: "r1", Seq: 1, Operation: ir.OpDelete, EngineVersion: ir.EngineVersion}
	require.NoError(t, s.Record(ctx, rec))

	var stored string
	require.NoError(t, s.DB().QueryRow(`SELECT args FROM recordings WHERE id = 'r1'`).Scan(&stored))
	assert.Equal(t, "{}", stored)
}

func TestReadRecordings_Ordering(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, seq := range []int64{3, 1, 2} {
		require.NoError(t, s.Record(ctx, mustRecording(t, ir.OpOffset, ir.Args{"amount": seq}, seq)))
	}

	got, err := s.ReadRecordings(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, rec := range got {
		assert.Equal(t, int64(i+1), rec.Seq)
	}

	since, err := s.ReadRecordingsSince(ctx, 2)
	require.NoError(t, err)
	require.Len(t, since, 1)
	assert.Equal(t, int64(3), since[0].Seq)
}

func TestReadRecordings_Empty(t *testing.T) {
	s := createTestStore(t)

	got, err := s.ReadRecordings(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLastSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seq, err := s.LastSeq(ctx)
	require.NoError(t, err)
	assert.Zero(t, seq)

	require.NoError(t, s.Record(ctx, mustRecording(t, ir.OpBlank, ir.Args{"data": ""}, 7)))
	seq, err = s.LastSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), seq)
}

package store

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/deck/internal/ir"
	"github.com/roach88/deck/internal/queryir"
)

func activeOnly() queryir.Select {
	return queryir.Select{Filter: queryir.Equals{Field: ir.FieldActive, Value: true}}
}

func TestSlides_InsertAndFind(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Inserted out of order; reads come back ordered by number.
	for _, slide := range []ir.Slide{
		{ID: "c", Number: 3, Data: "three"},
		{ID: "a", Number: 1, Data: "one", Active: true},
		{ID: "b", Number: 2, Data: "two"},
	} {
		require.NoError(t, s.Slides().Insert(ctx, slide))
	}

	got, err := s.Slides().Find(ctx, queryir.Select{})
	require.NoError(t, err)
	assert.Equal(t, []ir.Slide{
		{ID: "a", Number: 1, Data: "one", Active: true},
		{ID: "b", Number: 2, Data: "two"},
		{ID: "c", Number: 3, Data: "three"},
	}, got)
}

func TestSlides_FindEmptyReturnsEmptySlice(t *testing.T) {
	s := createTestStore(t)

	got, err := s.Slides().Find(context.Background(), queryir.Select{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSlides_FindProjection(t *testing.T) {
	s := createTestStore(t)
	seedSlides(t, s, 2, 1)

	got, err := s.Slides().Find(context.Background(), queryir.Ordering())
	require.NoError(t, err)
	assert.Equal(t, []ir.Slide{
		{ID: "s1", Number: 1},
		{ID: "s2", Number: 2},
	}, got, "projected-out fields stay zero")
}

func TestSlides_FindInvalidQuery(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Slides().Find(context.Background(), queryir.Select{Fields: []string{"title"}})
	assert.Error(t, err)
}

func TestSlides_FindOne(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedSlides(t, s, 4, 2)

	tests := []struct {
		name   string
		query  queryir.Select
		wantID string
		found  bool
	}{
		{"active", queryir.ActiveSlide(), "s2", true},
		{"slide at 3", queryir.SlideAt(3), "s3", true},
		{"slide at 9", queryir.SlideAt(9), "", false},
		{"first from 3", queryir.FirstFrom(3), "s3", true},
		{"first from 5", queryir.FirstFrom(5), "", false},
		{"last before 3", queryir.LastBefore(3), "s2", true},
		{"last before 1", queryir.LastBefore(1), "", false},
		{"last", queryir.Last(), "s4", true},
		{"limit ignored", queryir.Select{Limit: 10}, "s1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := s.Slides().FindOne(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestSlides_Remove(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedSlides(t, s, 2, 0)

	ok, err := s.Slides().Remove(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Slides().Remove(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok, "second remove finds nothing")

	n, err := s.Slides().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSlides_RemoveAll(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedSlides(t, s, 5, 3)

	n, err := s.Slides().RemoveAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	n, err = s.Slides().RemoveAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSlides_SetActive(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedSlides(t, s, 3, 0)

	n, err := s.Slides().SetActive(ctx, 2, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	active, ok, err := s.Slides().FindOne(ctx, queryir.ActiveSlide())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "s2", active.ID)

	n, err = s.Slides().SetActive(ctx, 7, true)
	require.NoError(t, err)
	assert.Zero(t, n, "missing number changes nothing")

	n, err = s.Slides().SetActive(ctx, 2, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, ok, err = s.Slides().FindOne(ctx, queryir.ActiveSlide())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSlides_Shift(t *testing.T) {
	tests := []struct {
		name   string
		after  int64
		amount int64
		moved  int64
		want   []int64
	}{
		{"shift up by one", 1, 1, 2, []int64{1, 3, 4}},
		{"shift up by five", 2, 5, 1, []int64{1, 2, 8}},
		{"shift everything", 0, 2, 3, []int64{3, 4, 5}},
		{"shift nothing above max", 3, 4, 0, []int64{1, 2, 3}},
		{"zero amount", 0, 0, 0, []int64{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := createTestStore(t)
			ctx := context.Background()
			seedSlides(t, s, 3, 1)

			var moved int64
			err := s.Atomic(ctx, func(c Collection) error {
				var err error
				moved, err = c.Shift(ctx, tt.after, tt.amount)
				return err
			})
			require.NoError(t, err)
			assert.Equal(t, tt.moved, moved)

			got, err := s.Slides().Find(ctx, queryir.Select{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, numbersOf(got))
		})
	}
}

func TestSlides_ShiftDownClosesGap(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedSlides(t, s, 4, 0)

	err := s.Atomic(ctx, func(c Collection) error {
		if _, err := c.Remove(ctx, "s2"); err != nil {
			return err
		}
		_, err := c.Shift(ctx, 2, -1)
		return err
	})
	require.NoError(t, err)

	got, err := s.Slides().Find(ctx, queryir.Select{})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, numbersOf(got))
	assert.Equal(t, "s3", got[1].ID)
	assert.Equal(t, "s4", got[2].ID)
}

func TestSlides_ShiftBelowOne(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedSlides(t, s, 3, 0)

	err := s.Atomic(ctx, func(c Collection) error {
		_, err := c.Shift(ctx, 0, -1)
		return err
	})
	require.ErrorIs(t, err, ErrShiftBelowOne)

	got, err := s.Slides().Find(ctx, queryir.Select{})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, numbersOf(got))
}

func TestSlides_ShiftOverflow(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedSlides(t, s, 2, 1)
	require.NoError(t, s.Slides().Insert(ctx, ir.Slide{ID: "top", Number: math.MaxInt64 - 1}))

	err := s.Atomic(ctx, func(c Collection) error {
		_, err := c.Shift(ctx, 1, 2)
		return err
	})
	require.ErrorIs(t, err, ErrShiftOverflow)

	got, err := s.Slides().Find(ctx, queryir.Select{})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, math.MaxInt64 - 1}, numbersOf(got))

	// Exactly reaching the largest number is allowed.
	err = s.Atomic(ctx, func(c Collection) error {
		_, err := c.Shift(ctx, 1, 1)
		return err
	})
	require.NoError(t, err)
	got, err = s.Slides().Find(ctx, queryir.Select{})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, math.MaxInt64}, numbersOf(got))
}

func TestSlides_ShiftKeepsActiveFlag(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedSlides(t, s, 3, 3)

	err := s.Atomic(ctx, func(c Collection) error {
		_, err := c.Shift(ctx, 1, 1)
		return err
	})
	require.NoError(t, err)

	active, ok, err := s.Slides().FindOne(ctx, queryir.ActiveSlide())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "s3", active.ID)
	assert.Equal(t, int64(4), active.Number)
}

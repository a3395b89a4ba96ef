package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/roach88/deck/internal/ir"
	"github.com/roach88/deck/internal/queryir"
	"github.com/roach88/deck/internal/querysql"
)

// ErrShiftBelowOne is returned when a shift would move a slide to number < 1.
var ErrShiftBelowOne = errors.New("shift would move a slide below number 1")

// ErrShiftOverflow is returned when a shift would push a slide number past
// the largest int64.
var ErrShiftOverflow = errors.New("shift would overflow a slide number")

// Collection is the slide collection as seen by the engine.
// Implementations must be safe to use inside Store.Atomic.
type Collection interface {
	Insert(ctx context.Context, s ir.Slide) error
	Remove(ctx context.Context, id string) (bool, error)
	RemoveAll(ctx context.Context) (int64, error)
	FindOne(ctx context.Context, q queryir.Select) (ir.Slide, bool, error)
	Find(ctx context.Context, q queryir.Select) ([]ir.Slide, error)
	Count(ctx context.Context) (int64, error)
	SetActive(ctx context.Context, number int64, active bool) (int64, error)
	Shift(ctx context.Context, after, amount int64) (int64, error)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Slides is the SQLite-backed Collection.
type Slides struct {
	q querier
}

var _ Collection = (*Slides)(nil)

// Insert adds a slide row as given. The UNIQUE index on number and the
// single-active index reject rows that would break deck invariants.
func (c *Slides) Insert(ctx context.Context, s ir.Slide) error {
	_, err := c.q.ExecContext(ctx, `
		INSERT INTO slides (id, number, data, active)
		VALUES (?, ?, ?, ?)
	`, s.ID, s.Number, s.Data, boolToInt(s.Active))
	if err != nil {
		return fmt.Errorf("insert slide %q: %w", s.ID, err)
	}
	return nil
}

// Remove deletes the slide with the given id and reports whether it existed.
func (c *Slides) Remove(ctx context.Context, id string) (bool, error) {
	res, err := c.q.ExecContext(ctx, `DELETE FROM slides WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("remove slide %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove slide %q: rows affected: %w", id, err)
	}
	return n > 0, nil
}

// RemoveAll deletes every slide and returns how many were removed.
func (c *Slides) RemoveAll(ctx context.Context) (int64, error) {
	res, err := c.q.ExecContext(ctx, `DELETE FROM slides`)
	if err != nil {
		return 0, fmt.Errorf("remove all slides: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("remove all slides: rows affected: %w", err)
	}
	return n, nil
}

// FindOne returns the first slide matching q. The limit is forced to 1.
func (c *Slides) FindOne(ctx context.Context, q queryir.Select) (ir.Slide, bool, error) {
	q.Limit = 1
	slides, err := c.Find(ctx, q)
	if err != nil {
		return ir.Slide{}, false, err
	}
	if len(slides) == 0 {
		return ir.Slide{}, false, nil
	}
	return slides[0], true, nil
}

// Find returns every slide matching q in deterministic order.
// Fields left out of a projection keep their zero value.
//
// Returns an empty slice (not nil) if nothing matches.
func (c *Slides) Find(ctx context.Context, q queryir.Select) ([]ir.Slide, error) {
	query, params, err := querysql.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("find slides: %w", err)
	}

	fields := q.Fields
	if len(fields) == 0 {
		fields = ir.SlideFields
	}

	rows, err := c.q.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("find slides: %w", err)
	}
	defer rows.Close()

	slides := []ir.Slide{}
	for rows.Next() {
		s, err := scanSlide(rows, fields)
		if err != nil {
			return nil, err
		}
		slides = append(slides, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slides: %w", err)
	}
	return slides, nil
}

// Count returns the number of slides in the deck.
func (c *Slides) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := c.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM slides`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count slides: %w", err)
	}
	return n, nil
}

// SetActive writes the active flag of the slide at number and returns the
// number of rows changed (0 when no slide has that number).
func (c *Slides) SetActive(ctx context.Context, number int64, active bool) (int64, error) {
	res, err := c.q.ExecContext(ctx, `
		UPDATE slides SET active = ? WHERE number = ?
	`, boolToInt(active), number)
	if err != nil {
		return 0, fmt.Errorf("set active %d: %w", number, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("set active %d: rows affected: %w", number, err)
	}
	return n, nil
}

// Shift adds amount to the number of every slide with number > after and
// returns how many slides moved.
//
// Rows move one at a time, highest first when shifting up and lowest first
// when shifting down, so the UNIQUE index never sees a transient duplicate
// and no row leaves the positive range. Run it inside Store.Atomic.
func (c *Slides) Shift(ctx context.Context, after, amount int64) (int64, error) {
	if amount == 0 {
		return 0, nil
	}

	var lowest, highest sql.NullInt64
	err := c.q.QueryRowContext(ctx, `
		SELECT MIN(number), MAX(number) FROM slides WHERE number > ?
	`, after).Scan(&lowest, &highest)
	if err != nil {
		return 0, fmt.Errorf("shift: %w", err)
	}
	if !lowest.Valid {
		return 0, nil
	}
	if amount < 0 && lowest.Int64+amount < 1 {
		return 0, fmt.Errorf("shift after %d by %d: %w", after, amount, ErrShiftBelowOne)
	}
	if amount > 0 && highest.Int64 > math.MaxInt64-amount {
		return 0, fmt.Errorf("shift after %d by %d: %w", after, amount, ErrShiftOverflow)
	}

	order := "DESC"
	if amount < 0 {
		order = "ASC"
	}
	ids, err := c.idsAfter(ctx, after, order)
	if err != nil {
		return 0, fmt.Errorf("shift: %w", err)
	}

	for _, id := range ids {
		if _, err := c.q.ExecContext(ctx, `
			UPDATE slides SET number = number + ? WHERE id = ?
		`, amount, id); err != nil {
			return 0, fmt.Errorf("shift slide %q: %w", id, err)
		}
	}
	return int64(len(ids)), nil
}

// idsAfter lists the ids of slides with number > after in the given order.
func (c *Slides) idsAfter(ctx context.Context, after int64, order string) ([]string, error) {
	rows, err := c.q.QueryContext(ctx,
		`SELECT id FROM slides WHERE number > ? ORDER BY number `+order, after)
	if err != nil {
		return nil, fmt.Errorf("list slides after %d: %w", after, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan slide id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slide ids: %w", err)
	}
	return ids, nil
}

// scanSlide reads one row whose columns are fields, in order.
func scanSlide(rows *sql.Rows, fields []string) (ir.Slide, error) {
	var s ir.Slide
	dest := make([]any, len(fields))
	for i, f := range fields {
		switch f {
		case ir.FieldID:
			dest[i] = &s.ID
		case ir.FieldNumber:
			dest[i] = &s.Number
		case ir.FieldData:
			dest[i] = &s.Data
		case ir.FieldActive:
			dest[i] = &s.Active
		default:
			return ir.Slide{}, fmt.Errorf("scan slide: unknown field %q", f)
		}
	}
	if err := rows.Scan(dest...); err != nil {
		return ir.Slide{}, fmt.Errorf("scan slide: %w", err)
	}
	return s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

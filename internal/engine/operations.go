package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/roach88/deck/internal/ir"
	"github.com/roach88/deck/internal/queryir"
	"github.com/roach88/deck/internal/store"
)

// InsertAt inserts a slide at location + slide.Number and returns it.
//
// slide.Number is relative and 1 marks the slide that becomes active.
// The previously active slide is deactivated when location is non-zero or
// the new slide takes over activation. An occupied target pushes it and
// every slide above it up by one.
func (e *Engine) InsertAt(ctx context.Context, location int64, slide ir.NewSlide) (ir.Slide, error) {
	return e.insertWithID(ctx, location, slide, "")
}

// insertWithID inserts under a known id; an empty id is generated.
func (e *Engine) insertWithID(ctx context.Context, location int64, slide ir.NewSlide, id string) (ir.Slide, error) {
	if err := checkInsert(location, slide); err != nil {
		return ir.Slide{}, e.finish(ir.OpInsert, err)
	}
	if id == "" {
		id = e.ids.Generate()
	}
	e.record(ctx, ir.OpInsert, insertArgs(location, slide, id))

	inserted, err := e.insertAt(ctx, location, slide, id)
	return inserted, e.finish(ir.OpInsert, err)
}

func checkInsert(location int64, slide ir.NewSlide) error {
	if location < 0 {
		return invalidArgument(ir.OpInsert, "location must be >= 0, got %d", location)
	}
	if slide.Number < 1 {
		return invalidArgument(ir.OpInsert, "relative slide number must be >= 1, got %d", slide.Number)
	}
	if location > math.MaxInt64-slide.Number {
		return numberOverflow(ir.OpInsert, location, slide.Number)
	}
	return nil
}

func insertArgs(location int64, slide ir.NewSlide, id string) ir.Args {
	return ir.Args{
		"location": location,
		"slide":    ir.Args{"number": slide.Number, "data": slide.Data},
		"id":       id,
	}
}

func (e *Engine) insertAt(ctx context.Context, location int64, slide ir.NewSlide, id string) (ir.Slide, error) {
	const op = ir.OpInsert
	target := location + slide.Number
	makeActive := slide.Number == 1

	var inserted ir.Slide
	err := e.atomic(ctx, op, func(c store.Collection) error {
		last, ok, err := c.FindOne(ctx, queryir.Last())
		if err != nil {
			return err
		}
		var highest int64
		if ok {
			highest = last.Number
		}
		if target-1 > highest {
			return &DeckError{
				Code:    ErrCodeOutOfRange,
				Op:      op,
				Message: fmt.Sprintf("slide number %d is past the end of the deck (highest %d)", target, highest),
				Details: map[string]string{
					"number":  fmt.Sprintf("%d", target),
					"highest": fmt.Sprintf("%d", highest),
				},
			}
		}

		active, hasActive, err := c.FindOne(ctx, queryir.ActiveSlide())
		if err != nil {
			return err
		}
		if hasActive && (location != 0 || makeActive) {
			if err := setActive(ctx, c, op, active.Number, false); err != nil {
				return err
			}
		}

		if err := makeRoom(ctx, c, op, target); err != nil {
			return err
		}
		inserted = ir.Slide{ID: id, Number: target, Data: slide.Data}
		if err := c.Insert(ctx, inserted); err != nil {
			return err
		}

		if makeActive {
			if err := setActive(ctx, c, op, target, true); err != nil {
				return err
			}
			inserted.Active = true
		}
		return nil
	})
	if err != nil {
		return ir.Slide{}, err
	}
	return inserted, nil
}

// Offset shifts every slide after the active one by amount and returns how
// many slides moved. A negative amount may not move a slide onto or below
// the active slide.
func (e *Engine) Offset(ctx context.Context, amount int64) (int64, error) {
	e.record(ctx, ir.OpOffset, ir.Args{"amount": amount})
	moved, err := e.offset(ctx, amount)
	return moved, e.finish(ir.OpOffset, err)
}

func (e *Engine) offset(ctx context.Context, amount int64) (int64, error) {
	const op = ir.OpOffset

	var moved int64
	err := e.atomic(ctx, op, func(c store.Collection) error {
		active, ok, err := c.FindOne(ctx, queryir.ActiveSlide())
		if err != nil {
			return err
		}
		if !ok {
			return noActiveSlide(op)
		}

		if amount > 0 {
			last, ok, err := c.FindOne(ctx, queryir.Last())
			if err != nil {
				return err
			}
			if ok && last.Number > active.Number && last.Number > math.MaxInt64-amount {
				return numberOverflow(op, last.Number, amount)
			}
		}
		if amount < 0 {
			next, ok, err := c.FindOne(ctx, queryir.FirstFrom(active.Number+1))
			if err != nil {
				return err
			}
			if ok && next.Number+amount <= active.Number {
				return &DeckError{
					Code:    ErrCodeNumberCollision,
					Op:      op,
					Message: fmt.Sprintf("offset %d would move slide %d onto or below active slide %d", amount, next.Number, active.Number),
					Details: map[string]string{
						"amount": fmt.Sprintf("%d", amount),
						"active": fmt.Sprintf("%d", active.Number),
					},
				}
			}
		}

		moved, err = c.Shift(ctx, active.Number, amount)
		return err
	})
	if err != nil {
		return 0, err
	}
	return moved, nil
}

// Blank inserts a slide holding data right after the active slide (or at 1
// when nothing is active) and makes it the active slide.
func (e *Engine) Blank(ctx context.Context, data string) (ir.Slide, error) {
	return e.blankWithID(ctx, data, "")
}

func (e *Engine) blankWithID(ctx context.Context, data, id string) (ir.Slide, error) {
	if id == "" {
		id = e.ids.Generate()
	}
	e.record(ctx, ir.OpBlank, ir.Args{"data": data, "id": id})
	slide, err := e.blank(ctx, data, id)
	return slide, e.finish(ir.OpBlank, err)
}

func (e *Engine) blank(ctx context.Context, data, id string) (ir.Slide, error) {
	const op = ir.OpBlank

	var inserted ir.Slide
	err := e.atomic(ctx, op, func(c store.Collection) error {
		active, ok, err := c.FindOne(ctx, queryir.ActiveSlide())
		if err != nil {
			return err
		}
		number := int64(1)
		if ok {
			if active.Number == math.MaxInt64 {
				return numberOverflow(op, active.Number, 1)
			}
			number = active.Number + 1
			if err := setActive(ctx, c, op, active.Number, false); err != nil {
				return err
			}
		}

		if err := makeRoom(ctx, c, op, number); err != nil {
			return err
		}
		inserted = ir.Slide{ID: id, Number: number, Data: data}
		if err := c.Insert(ctx, inserted); err != nil {
			return err
		}
		if err := setActive(ctx, c, op, number, true); err != nil {
			return err
		}
		inserted.Active = true
		return nil
	})
	if err != nil {
		return ir.Slide{}, err
	}
	return inserted, nil
}

// Delete removes the active slide, closes the gap it leaves and activates
// the slide that now holds its number (or the one before it when the last
// slide was deleted). It returns the removed slide.
//
// Deleting from an empty deck is a no-op reported by ok=false.
func (e *Engine) Delete(ctx context.Context) (removed ir.Slide, ok bool, err error) {
	e.record(ctx, ir.OpDelete, ir.Args{})
	removed, ok, err = e.delete(ctx)
	return removed, ok, e.finish(ir.OpDelete, err)
}

func (e *Engine) delete(ctx context.Context) (ir.Slide, bool, error) {
	const op = ir.OpDelete

	var (
		removed ir.Slide
		ok      bool
	)
	err := e.atomic(ctx, op, func(c store.Collection) error {
		n, err := c.Count(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}

		active, found, err := c.FindOne(ctx, queryir.ActiveSlide())
		if err != nil {
			return err
		}
		if !found {
			return noActiveSlide(op)
		}

		if _, err := c.Remove(ctx, active.ID); err != nil {
			return err
		}
		if _, err := c.Shift(ctx, active.Number, -1); err != nil {
			return err
		}

		next, found, err := c.FindOne(ctx, queryir.FirstFrom(active.Number))
		if err != nil {
			return err
		}
		if !found {
			next, found, err = c.FindOne(ctx, queryir.LastBefore(active.Number))
			if err != nil {
				return err
			}
		}
		if found {
			if err := setActive(ctx, c, op, next.Number, true); err != nil {
				return err
			}
		}

		removed, ok = active, true
		return nil
	})
	if err != nil {
		return ir.Slide{}, false, err
	}
	return removed, ok, nil
}

// Reset removes every slide and returns how many were removed.
func (e *Engine) Reset(ctx context.Context) (int64, error) {
	e.record(ctx, ir.OpReset, ir.Args{})
	n, err := e.reset(ctx)
	return n, e.finish(ir.OpReset, err)
}

func (e *Engine) reset(ctx context.Context) (int64, error) {
	var removed int64
	err := e.atomic(ctx, ir.OpReset, func(c store.Collection) error {
		var err error
		removed, err = c.RemoveAll(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// Move changes the active slide and returns the slide active afterwards.
//
// Relative moves past either end of the deck leave it unchanged. Absolute
// moves to a number no slide holds are refused with SLIDE_NOT_FOUND.
func (e *Engine) Move(ctx context.Context, req ir.MoveRequest) (ir.Slide, error) {
	if err := checkMove(req); err != nil {
		return ir.Slide{}, e.finish(ir.OpMove, err)
	}
	e.record(ctx, ir.OpMove, ir.Args{"request": req.Arg()})
	slide, err := e.move(ctx, req)
	return slide, e.finish(ir.OpMove, err)
}

func checkMove(req ir.MoveRequest) error {
	switch r := req.(type) {
	case nil:
		return invalidArgument(ir.OpMove, "move request is required")
	case ir.MoveAbsolute:
		if r.Number < 1 {
			return invalidArgument(ir.OpMove, "slide number must be >= 1, got %d", r.Number)
		}
	case ir.MoveRelative:
		if r.Direction != ir.Prev && r.Direction != ir.Next {
			return invalidArgument(ir.OpMove, "unknown direction %s", r.Direction)
		}
	}
	return nil
}

func (e *Engine) move(ctx context.Context, req ir.MoveRequest) (ir.Slide, error) {
	const op = ir.OpMove

	var current ir.Slide
	err := e.atomic(ctx, op, func(c store.Collection) error {
		active, ok, err := c.FindOne(ctx, queryir.ActiveSlide())
		if err != nil {
			return err
		}
		if !ok {
			return noActiveSlide(op)
		}
		current = active

		var target ir.Slide
		switch r := req.(type) {
		case ir.MoveRelative:
			number := active.Number + r.Direction.Step()
			if number < 1 {
				return nil
			}
			target, ok, err = c.FindOne(ctx, queryir.SlideAt(number))
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		case ir.MoveAbsolute:
			if r.Number == active.Number {
				return nil
			}
			target, ok, err = c.FindOne(ctx, queryir.SlideAt(r.Number))
			if err != nil {
				return err
			}
			if !ok {
				return slideNotFound(op, r.Number)
			}
		}

		if err := setActive(ctx, c, op, active.Number, false); err != nil {
			return err
		}
		if err := setActive(ctx, c, op, target.Number, true); err != nil {
			return err
		}
		target.Active = true
		current = target
		return nil
	})
	if err != nil {
		return ir.Slide{}, err
	}
	return current, nil
}

// SetActive sets the active flag of the slide at number.
//
// Activating a slide while a different slide is active is refused with
// ACTIVE_CONFLICT; deactivate it first. Repeating a call is a no-op.
func (e *Engine) SetActive(ctx context.Context, number int64, active bool) error {
	if number < 1 {
		return e.finish(ir.OpActive, invalidArgument(ir.OpActive, "slide number must be >= 1, got %d", number))
	}
	e.record(ctx, ir.OpActive, ir.Args{"number": number, "active": active})
	return e.finish(ir.OpActive, e.setActive(ctx, number, active))
}

func (e *Engine) setActive(ctx context.Context, number int64, active bool) error {
	return e.atomic(ctx, ir.OpActive, func(c store.Collection) error {
		return setActive(ctx, c, ir.OpActive, number, active)
	})
}

// setActive is the single writer of the active flag.
func setActive(ctx context.Context, c store.Collection, op string, number int64, active bool) error {
	slide, ok, err := c.FindOne(ctx, queryir.SlideAt(number))
	if err != nil {
		return err
	}
	if !ok {
		return slideNotFound(op, number)
	}
	if slide.Active == active {
		return nil
	}

	if active {
		current, ok, err := c.FindOne(ctx, queryir.ActiveSlide())
		if err != nil {
			return err
		}
		if ok {
			return &DeckError{
				Code:    ErrCodeActiveConflict,
				Op:      op,
				Message: fmt.Sprintf("slide %d is already active", current.Number),
				Details: map[string]string{
					"active": fmt.Sprintf("%d", current.Number),
					"number": fmt.Sprintf("%d", number),
				},
			}
		}
	}

	_, err = c.SetActive(ctx, number, active)
	return err
}

// makeRoom pushes the slide at number, and every slide above it, up by one.
// Nothing moves when number is free.
func makeRoom(ctx context.Context, c store.Collection, op string, number int64) error {
	_, taken, err := c.FindOne(ctx, queryir.SlideAt(number))
	if err != nil || !taken {
		return err
	}
	last, _, err := c.FindOne(ctx, queryir.Last())
	if err != nil {
		return err
	}
	if last.Number == math.MaxInt64 {
		return numberOverflow(op, last.Number, 1)
	}
	_, err = c.Shift(ctx, number-1, 1)
	return err
}

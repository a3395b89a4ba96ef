package engine

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/roach88/deck/internal/ir"
	"github.com/roach88/deck/internal/store"
)

const opLoad = "slides.load"

// Load stores one slide exactly as given. Loads are not recorded.
//
// Only the shape is checked (non-empty id, number >= 1); a number or active
// flag that clashes with the deck is rejected by the store.
func (e *Engine) Load(ctx context.Context, slide ir.Slide) error {
	if slide.ID == "" {
		return invalidArgument(opLoad, "slide id is required")
	}
	if slide.Number < 1 {
		return invalidArgument(opLoad, "slide %q: number must be >= 1, got %d", slide.ID, slide.Number)
	}

	return e.atomic(ctx, opLoad, func(c store.Collection) error {
		return c.Insert(ctx, slide)
	})
}

// LoadCollection loads slides in ascending number order and then calls
// finished. The input slice is not modified; slides sharing a number keep
// their input order.
//
// finished is only called when every slide loaded. A failed load stops the
// batch and leaves the slides loaded before it in place.
func (e *Engine) LoadCollection(ctx context.Context, slides []ir.Slide, finished func()) error {
	sorted := slices.Clone(slides)
	slices.SortStableFunc(sorted, func(a, b ir.Slide) int {
		return cmp.Compare(a.Number, b.Number)
	})

	for i, s := range sorted {
		if err := e.Load(ctx, s); err != nil {
			return fmt.Errorf("load collection: slide %d of %d: %w", i+1, len(sorted), err)
		}
	}

	e.logger.Debug("deck loaded", "slides", len(sorted))
	if finished != nil {
		finished()
	}
	return nil
}

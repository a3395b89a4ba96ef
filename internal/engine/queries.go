package engine

import (
	"context"
	"fmt"

	"github.com/roach88/deck/internal/ir"
	"github.com/roach88/deck/internal/queryir"
	"github.com/roach88/deck/internal/store"
)

// CurrentActive returns the active slide; ok is false when none is active.
func (e *Engine) CurrentActive(ctx context.Context) (slide ir.Slide, ok bool, err error) {
	err = e.deck.View(ctx, func(c store.Collection) error {
		slide, ok, err = c.FindOne(ctx, queryir.ActiveSlide())
		return err
	})
	if err != nil {
		return ir.Slide{}, false, fmt.Errorf("current active: %w", err)
	}
	return slide, ok, nil
}

// ActiveField returns one field of the active slide. Only that column is read.
func (e *Engine) ActiveField(ctx context.Context, field string) (any, bool, error) {
	if !ir.IsSlideField(field) {
		return nil, false, invalidArgument("", "unknown slide field %q", field)
	}

	q := queryir.ActiveSlide()
	q.Fields = []string{field}

	var (
		slide ir.Slide
		ok    bool
	)
	err := e.deck.View(ctx, func(c store.Collection) error {
		var err error
		slide, ok, err = c.FindOne(ctx, q)
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("active field %s: %w", field, err)
	}
	if !ok {
		return nil, false, nil
	}

	v, err := slide.Field(field)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// OrderingProjection returns the id and number of every slide, ascending by number.
func (e *Engine) OrderingProjection(ctx context.Context) ([]ir.SlideRef, error) {
	var slides []ir.Slide
	err := e.deck.View(ctx, func(c store.Collection) error {
		var err error
		slides, err = c.Find(ctx, queryir.Ordering())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("ordering projection: %w", err)
	}

	refs := make([]ir.SlideRef, len(slides))
	for i, s := range slides {
		refs[i] = s.Ref()
	}
	return refs, nil
}

// FullCollection returns every slide, ascending by number.
func (e *Engine) FullCollection(ctx context.Context) ([]ir.Slide, error) {
	var slides []ir.Slide
	err := e.deck.View(ctx, func(c store.Collection) error {
		var err error
		slides, err = c.Find(ctx, queryir.Select{})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("full collection: %w", err)
	}
	return slides, nil
}

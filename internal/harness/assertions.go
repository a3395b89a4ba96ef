package harness

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/deck/internal/ir"
)

// AssertionError describes a failed assertion with a dump of the final deck.
type AssertionError struct {
	Type     string
	Expected any
	Actual   any
	Deck     []ir.Slide
}

func (e *AssertionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: expected %v, got %v", e.Type, e.Expected, e.Actual)
	if len(e.Deck) > 0 {
		b.WriteString("\ndeck:")
		for _, s := range e.Deck {
			marker := " "
			if s.Active {
				marker = "*"
			}
			fmt.Fprintf(&b, "\n  %s %3d %s", marker, s.Number, s.ID)
		}
	}
	return b.String()
}

func evaluateAssertion(a Assertion, r *Result) error {
	switch a.Type {
	case AssertActive:
		return assertActive(a, r)
	case AssertOrder:
		return assertOrder(a, r)
	case AssertCount:
		if len(r.Deck) != *a.Count {
			return fail(a, *a.Count, len(r.Deck), r)
		}
		return nil
	case AssertSlide:
		return assertSlide(a, r)
	case AssertRecorded:
		n := 0
		for _, rec := range r.Recordings {
			if rec.Operation == a.Operation {
				n++
			}
		}
		if n != *a.Count {
			return fail(a, fmt.Sprintf("%d x %s", *a.Count, a.Operation), n, r)
		}
		return nil
	case AssertRecordedOrder:
		ops := make([]string, 0, len(r.Recordings))
		for _, rec := range r.Recordings {
			ops = append(ops, rec.Operation)
		}
		if !reflect.DeepEqual(ops, nonNil(a.Operations)) {
			return fail(a, a.Operations, ops, r)
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertActive(a Assertion, r *Result) error {
	var active *ir.Slide
	for i := range r.Deck {
		if r.Deck[i].Active {
			active = &r.Deck[i]
			break
		}
	}

	if a.Number != nil && *a.Number == 0 {
		if active != nil {
			return fail(a, "no active slide", active.ID, r)
		}
		return nil
	}
	if active == nil {
		return fail(a, expectedActive(a), "no active slide", r)
	}
	if a.ID != "" && active.ID != a.ID {
		return fail(a, expectedActive(a), active.ID, r)
	}
	if a.Number != nil && active.Number != *a.Number {
		return fail(a, expectedActive(a), active.Number, r)
	}
	return nil
}

func expectedActive(a Assertion) string {
	if a.ID != "" {
		return a.ID
	}
	return fmt.Sprintf("number %d", *a.Number)
}

func assertOrder(a Assertion, r *Result) error {
	ids := make([]string, 0, len(r.Deck))
	for _, s := range r.Deck {
		ids = append(ids, s.ID)
	}
	if !reflect.DeepEqual(ids, nonNil(a.IDs)) {
		return fail(a, a.IDs, ids, r)
	}
	return nil
}

func assertSlide(a Assertion, r *Result) error {
	var slide *ir.Slide
	for i := range r.Deck {
		if r.Deck[i].ID == a.ID {
			slide = &r.Deck[i]
			break
		}
	}
	if slide == nil {
		return fail(a, a.ID, "missing", r)
	}

	for field, want := range a.Expect {
		got, err := slide.Field(field)
		if err != nil {
			return err
		}
		if !sameValue(want, got) {
			return fail(a, fmt.Sprintf("%s.%s = %v", a.ID, field, want), got, r)
		}
	}
	return nil
}

// sameValue compares a YAML-decoded value with a slide field value.
func sameValue(want, got any) bool {
	switch w := want.(type) {
	case int:
		g, ok := got.(int64)
		return ok && g == int64(w)
	case int64:
		g, ok := got.(int64)
		return ok && g == w
	default:
		return want == got
	}
}

func fail(a Assertion, expected, actual any, r *Result) error {
	return &AssertionError{Type: a.Type, Expected: expected, Actual: actual, Deck: r.Deck}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

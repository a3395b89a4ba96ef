package queryir

import (
	"fmt"

	"github.com/roach88/deck/internal/ir"
)

// ValidationError describes one problem found in a query.
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks field names against the slide columns, value types, and
// the limit. Returns all problems, not just the first.
func Validate(q Query) []ValidationError {
	v := &validator{}
	switch sel := q.(type) {
	case Select:
		v.validateSelect(sel)
	case *Select:
		if sel == nil {
			v.add("query", "nil query")
			break
		}
		v.validateSelect(*sel)
	case nil:
		v.add("query", "nil query")
	default:
		v.add("query", fmt.Sprintf("unknown query type %T", q))
	}
	return v.errs
}

type validator struct {
	errs []ValidationError
}

func (v *validator) add(path, msg string) {
	v.errs = append(v.errs, ValidationError{Path: path, Message: msg})
}

func (v *validator) validateSelect(sel Select) {
	seen := make(map[string]bool, len(sel.Fields))
	for i, f := range sel.Fields {
		path := fmt.Sprintf("fields[%d]", i)
		if !ir.IsSlideField(f) {
			v.add(path, fmt.Sprintf("unknown slide field %q", f))
		}
		if seen[f] {
			v.add(path, fmt.Sprintf("duplicate field %q", f))
		}
		seen[f] = true
	}
	if sel.Limit < 0 {
		v.add("limit", "must be >= 0")
	}
	v.validatePredicate("filter", sel.Filter)
}

func (v *validator) validatePredicate(path string, p Predicate) {
	switch pred := p.(type) {
	case nil:
	case Equals:
		v.validateComparison(path, pred.Field, pred.Value, false)
	case Greater:
		v.validateComparison(path, pred.Field, pred.Value, true)
	case Less:
		v.validateComparison(path, pred.Field, pred.Value, true)
	case And:
		for i, sub := range pred.Predicates {
			v.validatePredicate(fmt.Sprintf("%s.and[%d]", path, i), sub)
		}
	default:
		v.add(path, fmt.Sprintf("unknown predicate type %T", p))
	}
}

func (v *validator) validateComparison(path, field string, value any, ordered bool) {
	if !ir.IsSlideField(field) {
		v.add(path, fmt.Sprintf("unknown slide field %q", field))
	}
	switch value.(type) {
	case string, int64, int:
	case bool:
		if ordered {
			v.add(path, fmt.Sprintf("field %q: bool values cannot be ordered", field))
		}
	case nil:
		v.add(path, fmt.Sprintf("field %q compared to nil", field))
	default:
		v.add(path, fmt.Sprintf("field %q: unsupported value type %T", field, value))
	}
}

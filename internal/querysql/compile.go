// Package querysql compiles queryir selects to parameterized SQLite SQL
// against the slides table.
package querysql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/deck/internal/ir"
	"github.com/roach88/deck/internal/queryir"
)

// Table is the slides table name.
const Table = "slides"

// Compile converts a select to SQL and its parameters.
//
// Every statement ends in ORDER BY number, id COLLATE BINARY so results are
// deterministic. Values are always bound as ? parameters, never interpolated;
// field names are checked against the slide columns by queryir.Validate first.
func Compile(q queryir.Query) (string, []any, error) {
	if errs := queryir.Validate(q); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = e
		}
		return "", nil, fmt.Errorf("invalid query: %w", errors.Join(joined...))
	}

	var sel queryir.Select
	switch query := q.(type) {
	case queryir.Select:
		sel = query
	case *queryir.Select:
		sel = *query
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(Columns(sel.Fields))
	sb.WriteString(" FROM ")
	sb.WriteString(Table)

	var params []any
	if sel.Filter != nil {
		where, whereParams := compilePredicate(sel.Filter)
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
		params = whereParams
	}

	dir := "ASC"
	if sel.Descending {
		dir = "DESC"
	}
	fmt.Fprintf(&sb, " ORDER BY number %s, id COLLATE BINARY %s", dir, dir)

	if sel.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		params = append(params, sel.Limit)
	}

	return sb.String(), params, nil
}

// Columns returns the SELECT column list for the projected fields.
// An empty projection selects every slide column in storage order.
func Columns(fields []string) string {
	if len(fields) == 0 {
		fields = ir.SlideFields
	}
	return strings.Join(fields, ", ")
}

func compilePredicate(p queryir.Predicate) (string, []any) {
	switch pred := p.(type) {
	case queryir.Equals:
		return pred.Field + " = ?", []any{param(pred.Value)}
	case queryir.Greater:
		return pred.Field + " > ?", []any{param(pred.Value)}
	case queryir.Less:
		return pred.Field + " < ?", []any{param(pred.Value)}
	case queryir.And:
		if len(pred.Predicates) == 0 {
			return "1 = 1", nil
		}
		parts := make([]string, 0, len(pred.Predicates))
		var params []any
		for _, sub := range pred.Predicates {
			sql, subParams := compilePredicate(sub)
			parts = append(parts, "("+sql+")")
			params = append(params, subParams...)
		}
		return strings.Join(parts, " AND "), params
	default:
		// Unreachable after Validate.
		return "1 = 0", nil
	}
}

// param maps a literal to its SQLite representation. Booleans are stored as 0/1.
func param(v any) any {
	switch val := v.(type) {
	case bool:
		if val {
			return 1
		}
		return 0
	case int:
		return int64(val)
	default:
		return val
	}
}

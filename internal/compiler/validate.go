package compiler

import (
	"fmt"
	"slices"

	"github.com/roach88/deck/internal/ir"
)

// Deck validation codes (E200-E299)
const (
	ErrEmptyID           = "E201" // slide id is required
	ErrNonPositiveNumber = "E202" // number must be >= 1
	ErrDuplicateID       = "E203" // two slides share an id
	ErrDuplicateNumber   = "E204" // two slides share a number
	ErrMultipleActive    = "E205" // more than one active slide
	WarnNumberGap        = "W201" // numbers are not contiguous
)

// Severity of a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationError represents a deck validation finding.
type ValidationError struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// HasErrors reports whether any finding has error severity.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidateDeck checks the rules that span slides.
// Returns all findings (does not fail-fast), in slide order.
//
// Gaps in numbering are warnings: an offset legitimately opens them.
func ValidateDeck(slides []ir.Slide) []ValidationError {
	var errs []ValidationError
	add := func(i int, field, code string, sev Severity, format string, args ...any) {
		errs = append(errs, ValidationError{
			Field:    fmt.Sprintf("slides[%d].%s", i, field),
			Message:  fmt.Sprintf(format, args...),
			Code:     code,
			Severity: sev,
		})
	}

	ids := make(map[string]int)
	numbers := make(map[int64]int)
	firstActive := -1

	for i, s := range slides {
		if s.ID == "" {
			add(i, ir.FieldID, ErrEmptyID, SeverityError, "id is required")
		} else if prev, ok := ids[s.ID]; ok {
			add(i, ir.FieldID, ErrDuplicateID, SeverityError, "id %q already used by slides[%d]", s.ID, prev)
		} else {
			ids[s.ID] = i
		}

		if s.Number < 1 {
			add(i, ir.FieldNumber, ErrNonPositiveNumber, SeverityError, "number must be >= 1, got %d", s.Number)
		} else if prev, ok := numbers[s.Number]; ok {
			add(i, ir.FieldNumber, ErrDuplicateNumber, SeverityError, "number %d already used by slides[%d]", s.Number, prev)
		} else {
			numbers[s.Number] = i
		}

		if s.Active {
			if firstActive >= 0 {
				add(i, ir.FieldActive, ErrMultipleActive, SeverityError, "slides[%d] is already active", firstActive)
			} else {
				firstActive = i
			}
		}
	}

	sorted := make([]int64, 0, len(numbers))
	for n := range numbers {
		sorted = append(sorted, n)
	}
	slices.Sort(sorted)
	for i, n := range sorted {
		if n != int64(i+1) {
			errs = append(errs, ValidationError{
				Field:    "slides",
				Message:  fmt.Sprintf("numbers are not contiguous: expected %d, found %d", i+1, n),
				Code:     WarnNumberGap,
				Severity: SeverityWarning,
			})
			break
		}
	}

	return errs
}

package engine

import (
	"errors"
	"fmt"
)

// DeckError is returned when a deck operation is refused.
//
// A DeckError always means nothing was written: arguments are checked
// before recording and preconditions are checked before any deck write.
// Storage failures are never DeckErrors; they are wrapped and propagated.
type DeckError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op is the recorded operation name (e.g. "slides.move").
	Op string

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes deck errors.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates a malformed argument (negative
	// location, relative number < 1, unknown field...).
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeNoActiveSlide indicates the operation needs an active slide.
	ErrCodeNoActiveSlide ErrorCode = "NO_ACTIVE_SLIDE"

	// ErrCodeSlideNotFound indicates no slide has the requested number.
	ErrCodeSlideNotFound ErrorCode = "SLIDE_NOT_FOUND"

	// ErrCodeOutOfRange indicates a slide number past the end of the deck
	// or past the largest number a slide can hold.
	ErrCodeOutOfRange ErrorCode = "OUT_OF_RANGE"

	// ErrCodeNumberCollision indicates a shift would overlap existing numbers.
	ErrCodeNumberCollision ErrorCode = "NUMBER_COLLISION"

	// ErrCodeActiveConflict indicates activating while another slide is active.
	ErrCodeActiveConflict ErrorCode = "ACTIVE_CONFLICT"
)

// Error implements the error interface.
func (e *DeckError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s (op=%s)", e.Code, e.Message, e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func hasCode(err error, codes ...ErrorCode) bool {
	var de *DeckError
	if !errors.As(err, &de) {
		return false
	}
	for _, c := range codes {
		if de.Code == c {
			return true
		}
	}
	return false
}

// IsDeckError returns true for any refused deck operation.
// Uses errors.As to handle wrapped errors.
func IsDeckError(err error) bool {
	var de *DeckError
	return errors.As(err, &de)
}

// IsValidationError returns true if an argument was rejected.
func IsValidationError(err error) bool {
	return hasCode(err, ErrCodeInvalidArgument, ErrCodeOutOfRange)
}

// IsNoActiveSlide returns true if the operation needed an active slide.
func IsNoActiveSlide(err error) bool {
	return hasCode(err, ErrCodeNoActiveSlide)
}

// IsNotFound returns true if the referenced slide does not exist.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeSlideNotFound)
}

// IsPreconditionError returns true if the deck state refused the operation.
func IsPreconditionError(err error) bool {
	return hasCode(err, ErrCodeNoActiveSlide, ErrCodeSlideNotFound, ErrCodeNumberCollision, ErrCodeActiveConflict)
}

// ErrorCodeOf returns the DeckError code of err, or "" when err is not one.
func ErrorCodeOf(err error) ErrorCode {
	var de *DeckError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func invalidArgument(op, format string, args ...any) *DeckError {
	return &DeckError{Code: ErrCodeInvalidArgument, Op: op, Message: fmt.Sprintf(format, args...)}
}

// numberOverflow reports that number+amount does not fit in a slide number.
func numberOverflow(op string, number, amount int64) *DeckError {
	return &DeckError{
		Code:    ErrCodeOutOfRange,
		Op:      op,
		Message: fmt.Sprintf("slide number %d + %d exceeds the largest slide number", number, amount),
		Details: map[string]string{
			"number": fmt.Sprintf("%d", number),
			"amount": fmt.Sprintf("%d", amount),
		},
	}
}

func noActiveSlide(op string) *DeckError {
	return &DeckError{Code: ErrCodeNoActiveSlide, Op: op, Message: "deck has no active slide"}
}

func slideNotFound(op string, number int64) *DeckError {
	return &DeckError{
		Code:    ErrCodeSlideNotFound,
		Op:      op,
		Message: fmt.Sprintf("no slide with number %d", number),
		Details: map[string]string{"number": fmt.Sprintf("%d", number)},
	}
}

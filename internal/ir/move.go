package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Direction is a relative move step.
type Direction int

const (
	// Prev moves activation to the slide numbered one lower.
	Prev Direction = iota + 1
	// Next moves activation to the slide numbered one higher.
	Next
)

// String returns the wire token for d ("prev" or "next").
func (d Direction) String() string {
	switch d {
	case Prev:
		return "prev"
	case Next:
		return "next"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Step returns the number delta for d.
func (d Direction) Step() int64 {
	if d == Prev {
		return -1
	}
	return 1
}

// MoveRequest is a sealed variant: MoveAbsolute or MoveRelative.
//
//	switch r := req.(type) {
//	case MoveAbsolute:
//	case MoveRelative:
//	}
type MoveRequest interface {
	moveRequest()
	// Arg returns the request as recorded in the audit log:
	// an int64 for absolute moves, the direction token for relative ones.
	Arg() any
}

// MoveAbsolute activates the slide with the given number.
type MoveAbsolute struct {
	Number int64
}

func (MoveAbsolute) moveRequest() {}

// Arg implements MoveRequest.
func (m MoveAbsolute) Arg() any { return m.Number }

// MoveRelative activates the neighbor of the active slide.
type MoveRelative struct {
	Direction Direction
}

func (MoveRelative) moveRequest() {}

// Arg implements MoveRequest.
func (m MoveRelative) Arg() any { return m.Direction.String() }

// ParseMoveRequest parses "prev", "next" or a decimal slide number.
func ParseMoveRequest(s string) (MoveRequest, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prev":
		return MoveRelative{Direction: Prev}, nil
	case "next":
		return MoveRelative{Direction: Next}, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("move request %q: want \"prev\", \"next\" or a slide number", s)
	}
	return MoveAbsolute{Number: n}, nil
}

// MoveRequestFromArg rebuilds a request from its recorded form: an integer
// slide number or one of the tokens "prev" and "next".
func MoveRequestFromArg(v any) (MoveRequest, error) {
	switch val := v.(type) {
	case string:
		switch val {
		case "prev":
			return MoveRelative{Direction: Prev}, nil
		case "next":
			return MoveRelative{Direction: Next}, nil
		}
		return nil, fmt.Errorf("move request %q: want \"prev\", \"next\" or an integer slide number", val)
	case int64:
		return MoveAbsolute{Number: val}, nil
	case int:
		return MoveAbsolute{Number: int64(val)}, nil
	default:
		return nil, fmt.Errorf("move request: unsupported type %T", v)
	}
}

package ir

import "fmt"

// Slide field names, shared by projections, queries and the CLI.
const (
	FieldID     = "id"
	FieldNumber = "number"
	FieldData   = "data"
	FieldActive = "active"
)

// SlideFields lists every slide column in storage order.
var SlideFields = []string{FieldID, FieldNumber, FieldData, FieldActive}

// Slide is one page of the deck.
// Number is the 1-based position; Data is the opaque serialized content.
type Slide struct {
	ID     string `json:"id" yaml:"id"`
	Number int64  `json:"number" yaml:"number"`
	Data   string `json:"data" yaml:"data"`
	Active bool   `json:"active" yaml:"active"`
}

// SlideRef is the ordering projection of a slide.
type SlideRef struct {
	ID     string `json:"id" yaml:"id"`
	Number int64  `json:"number" yaml:"number"`
}

// NewSlide is the payload for inserting a slide relative to a location.
// Number is relative to the location; 1 marks the first slide of a batch.
type NewSlide struct {
	Number int64  `json:"number" yaml:"number"`
	Data   string `json:"data" yaml:"data"`
}

// Ref returns the ordering projection of s.
func (s Slide) Ref() SlideRef {
	return SlideRef{ID: s.ID, Number: s.Number}
}

// Field returns the value of the named slide field.
func (s Slide) Field(name string) (any, error) {
	switch name {
	case FieldID:
		return s.ID, nil
	case FieldNumber:
		return s.Number, nil
	case FieldData:
		return s.Data, nil
	case FieldActive:
		return s.Active, nil
	default:
		return nil, fmt.Errorf("unknown slide field %q", name)
	}
}

// IsSlideField reports whether name is a slide column.
func IsSlideField(name string) bool {
	for _, f := range SlideFields {
		if f == name {
			return true
		}
	}
	return false
}

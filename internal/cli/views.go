package cli

import (
	"fmt"
	"strings"

	"github.com/roach88/deck/internal/ir"
)

// Result payloads. Each is encoded as-is in JSON output and printed through
// its String method in text output.

type slideView ir.Slide

func (s slideView) String() string {
	return formatSlide(ir.Slide(s))
}

func formatSlide(s ir.Slide) string {
	marker := " "
	if s.Active {
		marker = "*"
	}
	return fmt.Sprintf("%s %3d  %-12s %q", marker, s.Number, s.ID, s.Data)
}

type deckView []ir.Slide

func (d deckView) String() string {
	if len(d) == 0 {
		return "Deck is empty."
	}
	lines := make([]string, 0, len(d))
	for _, s := range d {
		lines = append(lines, formatSlide(s))
	}
	return strings.Join(lines, "\n")
}

type orderView []ir.SlideRef

func (o orderView) String() string {
	if len(o) == 0 {
		return "Deck is empty."
	}
	lines := make([]string, 0, len(o))
	for _, r := range o {
		lines = append(lines, fmt.Sprintf("%3d  %s", r.Number, r.ID))
	}
	return strings.Join(lines, "\n")
}

type countView struct {
	Operation string `json:"operation"`
	Count     int64  `json:"count"`
	noun      string
}

func (c countView) String() string {
	return fmt.Sprintf("%d %s", c.Count, c.noun)
}

type deleteView struct {
	Deleted *ir.Slide `json:"deleted"`
}

func (d deleteView) String() string {
	if d.Deleted == nil {
		return "Deck is empty; nothing deleted."
	}
	return fmt.Sprintf("Deleted %s (was number %d)", d.Deleted.ID, d.Deleted.Number)
}

type activateView struct {
	Number int64 `json:"number"`
	Active bool  `json:"active"`
}

func (a activateView) String() string {
	if a.Active {
		return fmt.Sprintf("Slide %d is active", a.Number)
	}
	return fmt.Sprintf("Slide %d is inactive", a.Number)
}

type activeView struct {
	Slide *ir.Slide `json:"slide"`
}

func (a activeView) String() string {
	if a.Slide == nil {
		return "No active slide."
	}
	return formatSlide(*a.Slide)
}

type fieldView struct {
	Field string `json:"field"`
	Value any    `json:"value"`
	Found bool   `json:"found"`
}

func (f fieldView) String() string {
	if !f.Found {
		return "No active slide."
	}
	return fmt.Sprint(f.Value)
}

type messageView struct {
	Message string `json:"message"`
}

func (m messageView) String() string {
	return m.Message
}

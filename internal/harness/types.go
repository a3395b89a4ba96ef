package harness

import "github.com/roach88/deck/internal/ir"

// StepOutcome records how one step ended.
type StepOutcome struct {
	Op    string `json:"op"`
	Error string `json:"error,omitempty"` // DeckError code, empty on success
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step and assertion matched.
	Pass bool `json:"pass"`

	// Steps holds one outcome per scenario step.
	Steps []StepOutcome `json:"steps"`

	// Deck is the final deck in ascending number order.
	Deck []ir.Slide `json:"deck"`

	// Recordings is the final recording log in seq order.
	Recordings []ir.Recording `json:"recordings"`

	// Errors contains step and assertion failures.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Steps:      []StepOutcome{},
		Deck:       []ir.Slide{},
		Recordings: []ir.Recording{},
		Errors:     []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

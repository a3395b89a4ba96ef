package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/deck/internal/ir"
)

// Snapshot renders the deterministic parts of a result as canonical JSON:
// the final deck, the recording log without content ids, and the step
// outcomes. Recording ids are left out so snapshots survive changes to
// the id scheme.
func Snapshot(name string, r *Result) ([]byte, error) {
	deck := make([]any, 0, len(r.Deck))
	for _, s := range r.Deck {
		deck = append(deck, map[string]any{
			"id":     s.ID,
			"number": s.Number,
			"data":   s.Data,
			"active": s.Active,
		})
	}

	recordings := make([]any, 0, len(r.Recordings))
	for _, rec := range r.Recordings {
		args := rec.Args
		if args == nil {
			args = ir.Args{}
		}
		recordings = append(recordings, map[string]any{
			"seq":       rec.Seq,
			"operation": rec.Operation,
			"args":      map[string]any(args),
		})
	}

	steps := make([]any, 0, len(r.Steps))
	for _, s := range r.Steps {
		step := map[string]any{"op": s.Op}
		if s.Error != "" {
			step["error"] = s.Error
		}
		steps = append(steps, step)
	}

	return ir.MarshalCanonical(map[string]any{
		"scenario":   name,
		"deck":       deck,
		"recordings": recordings,
		"steps":      steps,
	})
}

// RunWithGolden runs a scenario and compares its snapshot against
// testdata/golden/<name>.golden. Regenerate with `go test -update`.
func RunWithGolden(t *testing.T, scenario *Scenario) *Result {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		t.Fatalf("scenario %s failed to run: %v", scenario.Name, err)
	}

	AssertGolden(t, scenario.Name, result)
	return result
}

// AssertGolden compares a result snapshot with its golden file.
func AssertGolden(t *testing.T, name string, r *Result) {
	t.Helper()

	snapshot, err := Snapshot(name, r)
	if err != nil {
		t.Fatalf("failed to snapshot %s: %v", name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, snapshot)
}

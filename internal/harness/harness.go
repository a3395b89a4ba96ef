package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/deck/internal/compiler"
	"github.com/roach88/deck/internal/engine"
	"github.com/roach88/deck/internal/ir"
	"github.com/roach88/deck/internal/store"
	"github.com/roach88/deck/internal/testutil"
)

// Run executes a scenario against a fresh in-memory deck.
//
// Step failures and assertion failures are collected in the Result.
// Run itself returns an error only for problems the scenario cannot
// express: storage failures, unreadable deck files, malformed step args.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	eng := engine.New(st,
		engine.WithClock(testutil.NewDeterministicClock()),
		engine.WithIDGenerator(testutil.NewSequentialIDs("slide")),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	setup, err := setupSlides(scenario)
	if err != nil {
		return nil, err
	}
	if err := eng.LoadCollection(ctx, setup, nil); err != nil {
		return nil, fmt.Errorf("failed to load setup: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		err := eng.Invoke(ctx, step.Op, ir.Args(step.Args))
		if err != nil && !engine.IsDeckError(err) {
			return nil, fmt.Errorf("steps[%d] %s: %w", i, step.Op, err)
		}

		code := string(engine.ErrorCodeOf(err))
		result.Steps = append(result.Steps, StepOutcome{Op: step.Op, Error: code})

		if code != step.ExpectError {
			result.AddError(fmt.Sprintf("steps[%d] %s: expected error %q, got %q",
				i, step.Op, step.ExpectError, code))
		}
	}

	result.Deck, err = eng.FullCollection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck: %w", err)
	}

	result.Recordings, err = st.ReadRecordings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read recordings: %w", err)
	}

	for i, a := range scenario.Assertions {
		if err := evaluateAssertion(a, result); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}

	return result, nil
}

func setupSlides(scenario *Scenario) ([]ir.Slide, error) {
	if scenario.Deck == "" {
		return scenario.Setup, nil
	}
	src, err := os.ReadFile(scenario.Deck)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck: %w", err)
	}
	slides, err := compiler.CompileDeckFile(scenario.Deck, src)
	if err != nil {
		return nil, fmt.Errorf("failed to compile deck: %w", err)
	}
	return slides, nil
}

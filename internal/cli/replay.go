package cli

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/deck/internal/engine"
	"github.com/roach88/deck/internal/ir"
	"github.com/roach88/deck/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Verify bool
}

// SkippedResult is a recording the replayed deck refused.
type SkippedResult struct {
	Seq       int64  `json:"seq"`
	Operation string `json:"operation"`
	Code      string `json:"code"`
}

// ReplayResult holds the replay result.
type ReplayResult struct {
	Recordings    int             `json:"recordings"`
	Applied       int             `json:"applied"`
	Skipped       []SkippedResult `json:"skipped"`
	Slides        int             `json:"slides"`
	Deterministic bool            `json:"deterministic"`
	Matches       *bool           `json:"matches,omitempty"` // set with --verify
}

func (r ReplayResult) ok() bool {
	return r.Deterministic && (r.Matches == nil || *r.Matches)
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay the recording log and verify determinism",
		Long: `Rebuild the deck from the recording log, twice, in private in-memory
databases, and check that both runs produce the same deck and the same
re-recorded log. With --verify the rebuilt deck must also equal the deck
stored in the database (only true when every slide came from recorded
operations, since load is not recorded).

Exit codes:
  0 - Replay is deterministic (and matches, with --verify)
  1 - Determinism or --verify check failed
  2 - Command error (database not found, malformed recording, etc.)

Examples:
  deck replay --db talk.db
  deck replay --db talk.db --verify --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts.RootOptions, func(ctx context.Context, s *session) error {
				return runReplay(ctx, opts, s)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "also compare the rebuilt deck with the stored deck")

	return cmd
}

func runReplay(ctx context.Context, opts *ReplayOptions, s *session) error {
	recs, err := s.store.ReadRecordings(ctx)
	if err != nil {
		return err
	}
	s.out.VerboseLog("Replaying %d recording(s)", len(recs))

	first, err := replayFresh(ctx, opts, recs)
	if err != nil {
		return err
	}
	second, err := replayFresh(ctx, opts, recs)
	if err != nil {
		return err
	}

	result := ReplayResult{
		Recordings: len(recs),
		Applied:    first.result.Applied,
		Skipped:    make([]SkippedResult, 0, len(first.result.Skipped)),
		Slides:     len(first.deck),
		Deterministic: reflect.DeepEqual(first.deck, second.deck) &&
			reflect.DeepEqual(first.log, second.log),
	}
	for _, sk := range first.result.Skipped {
		result.Skipped = append(result.Skipped, SkippedResult{Seq: sk.Seq, Operation: sk.Operation, Code: string(sk.Code)})
	}

	if opts.Verify {
		stored, err := s.engine.FullCollection(ctx)
		if err != nil {
			return err
		}
		matches := reflect.DeepEqual(stored, first.deck)
		result.Matches = &matches
	}

	return outputReplay(s.out, result)
}

type replayRun struct {
	result engine.ReplayResult
	deck   []ir.Slide
	log    []ir.Recording
}

// replayFresh applies recs to an empty in-memory deck with a fresh clock.
func replayFresh(ctx context.Context, opts *ReplayOptions, recs []ir.Recording) (*replayRun, error) {
	mem, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("open replay store: %w", err)
	}
	defer mem.Close()

	eng := engine.New(mem, engine.WithLogger(opts.Logger))
	result, err := eng.Replay(ctx, recs)
	if err != nil {
		return nil, err
	}

	deck, err := eng.FullCollection(ctx)
	if err != nil {
		return nil, err
	}
	log, err := mem.ReadRecordings(ctx)
	if err != nil {
		return nil, err
	}
	return &replayRun{result: result, deck: deck, log: log}, nil
}

func outputReplay(f *OutputFormatter, result ReplayResult) error {
	if f.Format == "json" {
		response := CLIResponse{Status: "ok", Data: result}
		if !result.ok() {
			response.Status = "error"
			response.Error = &CLIError{
				Code:    "E_DETERMINISM",
				Message: "replay verification failed",
			}
		}
		if err := f.encode(response); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(f.Writer, formatReplayText(result, f.Verbose))
	}

	if !result.ok() {
		return NewExitError(ExitFailure, "replay verification failed")
	}
	return nil
}

func formatReplayText(result ReplayResult, verbose bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Replay Summary: %d recording(s), %d applied, %d skipped\n",
		result.Recordings, result.Applied, len(result.Skipped))
	fmt.Fprintf(&b, "  Slides: %d\n", result.Slides)
	if verbose {
		for _, sk := range result.Skipped {
			fmt.Fprintf(&b, "  Skipped seq %d %s: %s\n", sk.Seq, sk.Operation, sk.Code)
		}
	}
	if result.Matches != nil && !*result.Matches {
		b.WriteString("  Warning: rebuilt deck differs from the stored deck!\n")
	}

	if result.ok() {
		b.WriteString("✓ Replay verified")
	} else if !result.Deterministic {
		b.WriteString("✗ Determinism verification failed")
	} else {
		b.WriteString("✗ Replay verification failed")
	}
	return b.String()
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/deck/internal/engine"
	"github.com/roach88/deck/internal/metrics"
	"github.com/roach88/deck/internal/store"
)

// session is one command's view of the deck database.
type session struct {
	store   *store.Store
	engine  *engine.Engine
	metrics *metrics.Metrics
	out     *OutputFormatter
}

// withSession opens the configured database, resumes the engine clock from
// the recording log and runs fn. The metrics textfile, when configured, is
// written after fn returns, whatever its outcome.
func withSession(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, s *session) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Config.Database.Path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	m := metrics.New()
	eng, err := engine.Resume(ctx, st,
		engine.WithLogger(opts.Logger),
		engine.WithObserver(m.ObserveOperation),
	)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to resume engine", err)
	}

	s := &session{store: st, engine: eng, metrics: m, out: opts.formatter(cmd)}
	s.out.VerboseLog("Using database %s (seq %d)", opts.Config.Database.Path, eng.Seq())

	defer func() {
		if werr := s.writeMetrics(ctx, opts.Config.Metrics.File); werr != nil && err == nil {
			err = WrapExitError(ExitCommandError, "failed to write metrics", werr)
		}
	}()

	if err := fn(ctx, s); err != nil {
		return s.out.ReportError(err)
	}
	return nil
}

func (s *session) writeMetrics(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	n, err := s.store.Slides().Count(ctx)
	if err != nil {
		return fmt.Errorf("count slides: %w", err)
	}
	s.metrics.SetDeckSize(int(n))
	return s.metrics.WriteTextfile(path)
}

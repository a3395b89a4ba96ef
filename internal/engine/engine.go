package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/deck/internal/ir"
	"github.com/roach88/deck/internal/store"
)

// Deck is the transactional slide collection the engine works on.
// Implemented by *store.Store.
type Deck interface {
	Atomic(ctx context.Context, fn func(store.Collection) error) error
	View(ctx context.Context, fn func(store.Collection) error) error
}

// Recorder receives one recording per invoked deck operation.
// Implemented by *store.Store.
type Recorder interface {
	Record(ctx context.Context, rec ir.Recording) error
}

// Observer is told the outcome of every operation (err is nil on success).
type Observer func(op string, err error)

// Engine applies deck operations while keeping numbers unique and at most
// one slide active.
type Engine struct {
	deck     Deck
	recorder Recorder
	clock    SeqClock
	ids      IDGenerator
	logger   *slog.Logger
	observe  Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder replaces the recorder. nil disables recording.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r == nil {
			r = nopRecorder{}
		}
		e.recorder = r
	}
}

// WithClock sets the logical clock used for recording seqs.
func WithClock(c SeqClock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithIDGenerator sets the generator for new slide ids.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithObserver registers a callback run after every operation.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observe = o
	}
}

// New creates an Engine over d.
//
// When d also implements Recorder (as *store.Store does) it records its own
// operations; otherwise recording is off until WithRecorder is given.
// The clock starts at 0; use Resume to continue an existing log.
func New(d Deck, opts ...Option) *Engine {
	e := &Engine{
		deck:     d,
		recorder: nopRecorder{},
		clock:    NewClock(),
		ids:      UUIDv7Generator{},
		logger:   slog.Default(),
	}
	if r, ok := d.(Recorder); ok {
		e.recorder = r
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Resume creates an Engine whose clock continues after the last recording
// already in s. Options are applied after the resumed clock, so WithClock
// still wins.
func Resume(ctx context.Context, s *store.Store, opts ...Option) (*Engine, error) {
	seq, err := s.LastSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("resume engine: %w", err)
	}
	opts = append([]Option{WithClock(NewClockAt(seq))}, opts...)
	return New(s, opts...), nil
}

// Seq returns the seq of the most recent recording this engine stamped.
func (e *Engine) Seq() int64 {
	return e.clock.Current()
}

// record stamps and hands off a recording. Failures are logged, never returned.
func (e *Engine) record(ctx context.Context, op string, args ir.Args) {
	rec, err := ir.NewRecording(op, args, e.clock.Next())
	if err != nil {
		e.logger.Warn("recording dropped", "op", op, "error", err)
		return
	}
	if err := e.recorder.Record(ctx, rec); err != nil {
		e.logger.Warn("recording failed", "op", op, "seq", rec.Seq, "error", err)
	}
}

// finish reports the outcome of op to the observer and the log.
func (e *Engine) finish(op string, err error) error {
	if e.observe != nil {
		e.observe(op, err)
	}
	switch {
	case err == nil:
		e.logger.Debug("deck operation", "op", op)
	case IsDeckError(err):
		e.logger.Debug("deck operation refused", "op", op, "code", ErrorCodeOf(err), "error", err)
	default:
		e.logger.Error("deck operation failed", "op", op, "error", err)
	}
	return err
}

// atomic runs fn in a transaction, wrapping storage errors with op.
// DeckErrors pass through unwrapped so callers can match on them.
func (e *Engine) atomic(ctx context.Context, op string, fn func(store.Collection) error) error {
	err := e.deck.Atomic(ctx, fn)
	if err == nil || IsDeckError(err) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, ir.Recording) error { return nil }

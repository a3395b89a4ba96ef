package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/deck/internal/ir"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print every slide in number order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(ctx context.Context, s *session) error {
				slides, err := s.engine.FullCollection(ctx)
				if err != nil {
					return err
				}
				return s.out.Success(deckView(slides))
			})
		},
	}
}

// NewOrderCommand creates the order command.
func NewOrderCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "Print slide ids and numbers in number order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(ctx context.Context, s *session) error {
				refs, err := s.engine.OrderingProjection(ctx)
				if err != nil {
					return err
				}
				return s.out.Success(orderView(refs))
			})
		},
	}
}

// NewActiveCommand creates the active command.
func NewActiveCommand(rootOpts *RootOptions) *cobra.Command {
	var field string

	cmd := &cobra.Command{
		Use:   "active",
		Short: "Print the active slide, or one of its fields",
		Long: `Print the active slide, or one of its fields with --field.

Fields: id, number, data, active.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(ctx context.Context, s *session) error {
				if field != "" {
					value, ok, err := s.engine.ActiveField(ctx, field)
					if err != nil {
						return err
					}
					return s.out.Success(fieldView{Field: field, Value: value, Found: ok})
				}

				slide, ok, err := s.engine.CurrentActive(ctx)
				if err != nil {
					return err
				}
				var view activeView
				if ok {
					view.Slide = &slide
				}
				return s.out.Success(view)
			})
		},
	}

	cmd.Flags().StringVar(&field, "field", "", "print only this field")

	return cmd
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	var since int64

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the recording log",
		Long: `Print recorded operations in seq order.

Examples:
  deck log
  deck log --since 10 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(ctx context.Context, s *session) error {
				recs, err := s.store.ReadRecordingsSince(ctx, since)
				if err != nil {
					return err
				}
				return s.out.Success(logView(recs))
			})
		},
	}

	cmd.Flags().Int64Var(&since, "since", 0, "only recordings with seq greater than this")

	return cmd
}

type logView []ir.Recording

func (l logView) String() string {
	if len(l) == 0 {
		return "No recordings."
	}
	var b strings.Builder
	for i, rec := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		args, err := ir.MarshalCanonical(rec.Args)
		if err != nil {
			args = []byte("?")
		}
		fmt.Fprintf(&b, "%4d  %-14s %s", rec.Seq, rec.Operation, args)
	}
	return b.String()
}

package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/deck/internal/ir"
)

// InsertOptions holds flags for the insert command.
type InsertOptions struct {
	*RootOptions
	Location int64
	Number   int64
	Data     string
}

// NewInsertCommand creates the insert command.
func NewInsertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InsertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "insert",
		Short: "Insert a slide at location + number",
		Long: `Insert a slide at number = --at + --number.

--number is relative to --at; 1 marks the first slide of a batch and
makes the new slide active. An occupied number shifts that slide and
every slide above it up by one.

Examples:
  deck insert --data "Agenda"
  deck insert --at 3 --number 1 --data "Q&A"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts.RootOptions, func(ctx context.Context, s *session) error {
				slide, err := s.engine.InsertAt(ctx, opts.Location, ir.NewSlide{Number: opts.Number, Data: opts.Data})
				if err != nil {
					return err
				}
				return s.out.Success(slideView(slide))
			})
		},
	}

	cmd.Flags().Int64Var(&opts.Location, "at", 0, "location the number is relative to")
	cmd.Flags().Int64Var(&opts.Number, "number", 1, "number relative to --at (>= 1)")
	cmd.Flags().StringVar(&opts.Data, "data", "", "slide content")

	return cmd
}

// NewBlankCommand creates the blank command.
func NewBlankCommand(rootOpts *RootOptions) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "blank",
		Short: "Insert a slide after the active one and activate it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(ctx context.Context, s *session) error {
				slide, err := s.engine.Blank(ctx, data)
				if err != nil {
					return err
				}
				return s.out.Success(slideView(slide))
			})
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "slide content")

	return cmd
}

// NewOffsetCommand creates the offset command.
func NewOffsetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "offset <amount>",
		Short: "Shift every slide after the active one",
		Long: `Shift every slide numbered above the active slide by amount.

Negative amounts follow "--" so they are not read as flags:
  deck offset 2
  deck offset -- -1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid amount %q", args[0]))
			}
			return withSession(cmd, rootOpts, func(ctx context.Context, s *session) error {
				moved, err := s.engine.Offset(ctx, amount)
				if err != nil {
					return err
				}
				return s.out.Success(countView{Operation: ir.OpOffset, Count: moved, noun: "slide(s) moved"})
			})
		},
	}
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the active slide and close the gap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(ctx context.Context, s *session) error {
				removed, ok, err := s.engine.Delete(ctx)
				if err != nil {
					return err
				}
				var view deleteView
				if ok {
					view.Deleted = &removed
				}
				return s.out.Success(view)
			})
		},
	}
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Remove every slide",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(ctx context.Context, s *session) error {
				removed, err := s.engine.Reset(ctx)
				if err != nil {
					return err
				}
				return s.out.Success(countView{Operation: ir.OpReset, Count: removed, noun: "slide(s) removed"})
			})
		},
	}
}

// NewMoveCommand creates the move command.
func NewMoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move <prev|next|N>",
		Short: "Move activation to a neighbor or to slide N",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := ir.ParseMoveRequest(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid move request", err)
			}
			return withSession(cmd, rootOpts, func(ctx context.Context, s *session) error {
				slide, err := s.engine.Move(ctx, req)
				if err != nil {
					return err
				}
				return s.out.Success(slideView(slide))
			})
		},
	}
}

// NewActivateCommand creates the activate command.
func NewActivateCommand(rootOpts *RootOptions) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "activate <N>",
		Short: "Set the active flag of slide N",
		Long: `Set the active flag of slide N.

Activating fails with ACTIVE_CONFLICT while another slide is active;
deactivate it first with --off.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid slide number %q", args[0]))
			}
			return withSession(cmd, rootOpts, func(ctx context.Context, s *session) error {
				if err := s.engine.SetActive(ctx, number, !off); err != nil {
					return err
				}
				return s.out.Success(activateView{Number: number, Active: !off})
			})
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "deactivate instead")

	return cmd
}

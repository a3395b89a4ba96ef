package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/deck/internal/ir"
)

// InvokeOptions holds flags for the invoke command.
type InvokeOptions struct {
	*RootOptions
	Args string
}

type invokeView struct {
	Operation string `json:"operation"`
	Seq       int64  `json:"seq"`
}

func (v invokeView) String() string {
	return fmt.Sprintf("✓ %s (seq %d)", v.Operation, v.Seq)
}

// NewInvokeCommand creates the invoke command.
func NewInvokeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InvokeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "invoke <operation>",
		Short: "Invoke a recorded operation by name",
		Long: `Invoke a deck operation using its recorded name and argument layout,
exactly as it appears in "deck log --format json".

Examples:
  deck invoke slides.offset --args '{"amount":2}'
  deck invoke slides.move --args '{"request":"next"}'
  deck invoke slides.insert --args '{"location":1,"slide":{"number":1,"data":"Q&A"}}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invokeOperation(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Args, "args", "{}", "operation arguments as JSON")

	return cmd
}

func invokeOperation(opts *InvokeOptions, op string, cmd *cobra.Command) error {
	if !ir.RecordedOps[op] {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown operation %q", op))
	}

	args, err := ir.DecodeArgs([]byte(opts.Args))
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --args JSON", err)
	}

	return withSession(cmd, opts.RootOptions, func(ctx context.Context, s *session) error {
		if err := s.engine.Invoke(ctx, op, args); err != nil {
			return err
		}
		return s.out.Success(invokeView{Operation: op, Seq: s.engine.Seq()})
	})
}

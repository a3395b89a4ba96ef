package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/deck/internal/compiler"
	"github.com/roach88/deck/internal/ir"
	"github.com/roach88/deck/internal/store"
)

// LoadOptions holds flags for the load command.
type LoadOptions struct {
	*RootOptions
	Replace bool
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "load <deck-file>",
		Short: "Load a deck document into the database",
		Long: `Load slides from a CUE, JSON or YAML deck document.

Slides are stored exactly as written; loading is not recorded. The deck
must be empty unless --replace is given, which removes the current
slides first. Documents with validation errors are rejected.

Examples:
  deck load talk.cue
  deck load talk.yaml --replace`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Replace, "replace", false, "remove existing slides first")

	return cmd
}

func runLoad(opts *LoadOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	doc, err := LoadDeckFile(path)
	if err != nil {
		return reportLoadError(formatter, err)
	}
	if compiler.HasErrors(doc.Findings) {
		return outputFindings(formatter, doc.Findings)
	}
	for _, w := range doc.Findings {
		formatter.VerboseLog("warning: %s", w.Error())
	}

	return withSession(cmd, opts.RootOptions, func(ctx context.Context, s *session) error {
		n, err := s.store.Slides().Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 && !opts.Replace {
			if ferr := s.out.Error(ErrCodeDeckNotEmpty, fmt.Sprintf("deck already holds %d slide(s); use --replace", n), nil); ferr != nil {
				return ferr
			}
			return NewExitError(ExitFailure, "deck not empty")
		}
		if n > 0 {
			err := s.store.Atomic(ctx, func(c store.Collection) error {
				_, err := c.RemoveAll(ctx)
				return err
			})
			if err != nil {
				return err
			}
			s.out.VerboseLog("Removed %d slide(s)", n)
		}

		err = s.engine.LoadCollection(ctx, doc.Slides, func() {
			s.out.VerboseLog("Loaded %s", doc.Path)
		})
		if err != nil {
			return err
		}
		return s.out.Success(countView{Operation: "load", Count: int64(len(doc.Slides)), noun: "slide(s) loaded"})
	})
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "save <deck-file>",
		Short: "Write the deck to a document",
		Long: `Write every slide to a CUE, JSON or YAML deck document.
The format follows the file extension; the file can be loaded again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			format, err := compiler.FormatFromPath(path)
			if err != nil {
				return reportLoadError(rootOpts.formatter(cmd), &LoadError{Code: ErrCodeFormat, Message: "unsupported deck document", Err: err})
			}

			return withSession(cmd, rootOpts, func(ctx context.Context, s *session) error {
				slides, err := s.engine.FullCollection(ctx)
				if err != nil {
					return err
				}
				if err := writeDeck(path, slides, format); err != nil {
					return reportLoadError(s.out, err)
				}
				return s.out.Success(countView{Operation: "save", Count: int64(len(slides)), noun: "slide(s) saved"})
			})
		},
	}
}

func writeDeck(path string, slides []ir.Slide, format compiler.Format) error {
	data, err := compiler.ExportDeck(slides, format)
	if err != nil {
		return &LoadError{Code: ErrCodeGeneric, Message: "failed to export deck", Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &LoadError{Code: ErrCodeWriteFailed, Message: "failed to write deck file", Err: err}
	}
	return nil
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Slides   int                        `json:"slides"`
	Findings []compiler.ValidationError `json:"findings,omitempty"`
}

func (r ValidationResult) String() string {
	var b strings.Builder
	for _, f := range r.Findings {
		fmt.Fprintf(&b, "%s %s\n", f.Severity, f.Error())
	}
	if r.Valid {
		fmt.Fprintf(&b, "✓ Deck is valid (%d slides)", r.Slides)
	} else {
		fmt.Fprintf(&b, "✗ Deck is invalid")
	}
	return b.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <deck-file>",
		Short: "Check a deck document without loading it",
		Long: `Check a deck document against the deck schema and the deck invariants:
unique ids, unique numbers >= 1, at most one active slide. Number gaps
are reported as warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)

			doc, err := LoadDeckFile(args[0])
			if err != nil {
				return reportLoadError(formatter, err)
			}
			if compiler.HasErrors(doc.Findings) {
				return outputFindings(formatter, doc.Findings)
			}
			return formatter.Success(ValidationResult{Valid: true, Slides: len(doc.Slides), Findings: doc.Findings})
		},
	}
}

// outputFindings reports a deck with validation errors and returns ExitFailure.
func outputFindings(f *OutputFormatter, findings []compiler.ValidationError) error {
	if f.Format == "json" {
		if err := f.Error(ErrCodeInvalidDeck, "deck validation failed", findings); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(f.Writer, ValidationResult{Valid: false, Findings: findings})
	}
	return NewExitError(ExitFailure, "deck validation failed")
}

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <deck-file>",
		Short: "Compile a deck document to JSON, YAML or CUE",
		Long: `Compile a deck document: apply schema defaults, check it, and write
the result in the format of --output (stdout as JSON when omitted).

Examples:
  deck compile talk.cue
  deck compile talk.cue -o talk.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file; format follows the extension")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	doc, err := LoadDeckFile(path)
	if err != nil {
		return reportLoadError(formatter, err)
	}
	if compiler.HasErrors(doc.Findings) {
		return outputFindings(formatter, doc.Findings)
	}

	if opts.Output == "" {
		data, err := compiler.ExportDeck(doc.Slides, compiler.FormatJSON)
		if err != nil {
			return reportLoadError(formatter, &LoadError{Code: ErrCodeGeneric, Message: "failed to export deck", Err: err})
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	format, err := compiler.FormatFromPath(opts.Output)
	if err != nil {
		return reportLoadError(formatter, &LoadError{Code: ErrCodeFormat, Message: "unsupported output document", Err: err})
	}
	if err := writeDeck(opts.Output, doc.Slides, format); err != nil {
		return reportLoadError(formatter, err)
	}
	formatter.VerboseLog("Compiled %s (%s) to %s (%s)", path, doc.Format, opts.Output, format)
	return formatter.Success(messageView{Message: fmt.Sprintf("✓ Compiled %d slide(s) to %s", len(doc.Slides), opts.Output)})
}

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/deck/internal/compiler"
	"github.com/roach88/deck/internal/ir"
)

// LoadResult contains a compiled deck document.
type LoadResult struct {
	Path     string
	Format   compiler.Format
	Slides   []ir.Slide
	Findings []compiler.ValidationError // errors and warnings from ValidateDeck
}

// LoadError represents an error that occurred while loading a deck document.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// CLI error codes. Deck refusals use the engine's DeckError codes instead.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeFormat       = "E006" // Unknown document format
	ErrCodeCompile      = "E007" // Document does not match the deck schema
	ErrCodeWriteFailed  = "E008" // File write error
	ErrCodeInvalidDeck  = "E009" // ValidateDeck reported errors
	ErrCodeDeckNotEmpty = "E010" // load into a non-empty deck without --replace
)

// LoadDeckFile reads, compiles and validates a deck document.
// The format follows the file extension (.cue, .json, .yaml, .yml).
// Validation findings are returned in the result, not as an error.
func LoadDeckFile(path string) (*LoadResult, error) {
	format, err := compiler.FormatFromPath(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeFormat, Message: "unsupported deck document", Err: err}
	}

	src, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("deck file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: "failed to read deck file", Err: err}
	}

	slides, err := compiler.CompileDeckFile(path, src)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeCompile, Message: "failed to compile deck", Err: err}
	}

	return &LoadResult{
		Path:     path,
		Format:   format,
		Slides:   slides,
		Findings: compiler.ValidateDeck(slides),
	}, nil
}

// reportLoadError prints a LoadError and converts it to an ExitError.
func reportLoadError(f *OutputFormatter, err error) error {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		return f.ReportError(err)
	}
	message := loadErr.Message
	if loadErr.Err != nil {
		message = fmt.Sprintf("%s: %v", loadErr.Message, loadErr.Err)
	}
	if ferr := f.Error(loadErr.Code, message, nil); ferr != nil {
		return ferr
	}
	return WrapExitError(ExitCommandError, loadErr.Message, loadErr.Err)
}

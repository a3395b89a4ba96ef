package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/format"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/deck/internal/ir"
)

// DeckSchema is the CUE schema every deck document must satisfy.
const DeckSchema = `
#Slide: {
	id:     string & !=""
	number: int & >=1
	data:   string | *""
	active: bool | *false
}

#Deck: {
	slides: [...#Slide]
}
`

// Format names a deck document encoding.
type Format string

const (
	FormatCUE  Format = "cue"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return FormatCUE, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported deck file extension %q (want .cue, .json, .yaml or .yml)", filepath.Ext(path))
	}
}

type deckDoc struct {
	Slides []ir.Slide `json:"slides" yaml:"slides"`
}

// CompileDeckFile parses a deck document. The filename selects the format
// and is used in error positions.
func CompileDeckFile(filename string, src []byte) ([]ir.Slide, error) {
	f, err := FormatFromPath(filename)
	if err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	var v cue.Value
	switch f {
	case FormatCUE, FormatJSON:
		// JSON is valid CUE.
		v = ctx.CompileBytes(src, cue.Filename(filename))
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(src, &doc); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		v = ctx.Encode(doc)
	}
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return CompileDeck(v)
}

// CompileDeck validates v against #Deck and decodes its slides.
//
// v may be a struct with a slides list or the list itself. Missing data
// defaults to "" and missing active to false.
func CompileDeck(v cue.Value) ([]ir.Slide, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if !v.Exists() {
		return nil, &CompileError{Field: "deck", Message: "deck value does not exist"}
	}

	ctx := v.Context()
	if v.IncompleteKind() == cue.ListKind {
		v = ctx.CompileString("{}").FillPath(cue.ParsePath("slides"), v)
	}

	schema := ctx.CompileString(DeckSchema, cue.Filename("deck_schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("deck schema: %w", err)
	}

	deck := schema.LookupPath(cue.ParsePath("#Deck")).Unify(v)
	if err := deck.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var doc deckDoc
	if err := deck.Decode(&doc); err != nil {
		return nil, formatCUEError(err)
	}
	if doc.Slides == nil {
		doc.Slides = []ir.Slide{}
	}
	return doc.Slides, nil
}

// ExportDeck renders slides as a deck document that CompileDeckFile reads back.
func ExportDeck(slides []ir.Slide, f Format) ([]byte, error) {
	if slides == nil {
		slides = []ir.Slide{}
	}
	doc := deckDoc{Slides: slides}

	switch f {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("export deck: %w", err)
		}
		return buf.Bytes(), nil

	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("export deck: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("export deck: %w", err)
		}
		return buf.Bytes(), nil

	case FormatCUE:
		v := cuecontext.New().Encode(doc)
		if err := v.Err(); err != nil {
			return nil, fmt.Errorf("export deck: %w", err)
		}
		out, err := format.Node(v.Syntax(cue.Concrete(true)))
		if err != nil {
			return nil, fmt.Errorf("export deck: %w", err)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("export deck: unsupported format %q", f)
	}
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	ce := &CompileError{Field: "deck", Message: first.Error()}
	if path := first.Path(); len(path) > 0 {
		ce.Field = strings.Join(path, ".")
	}
	if positions := errors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/deck/internal/engine"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("E005", "deck file not found", map[string]string{"path": "talk.cue"})
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E005", resp.Error.Code)
	assert.Equal(t, "deck file not found", resp.Error.Message)
	assert.Equal(t, map[string]any{"path": "talk.cue"}, resp.Error.Details)
}

func TestOutputFormatter_TextSuccessUsesStringer(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success(countView{Operation: "slides.reset", Count: 3, noun: "slide(s) removed"}))
	assert.Equal(t, "3 slide(s) removed\n", buf.String())
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Error("NO_ACTIVE_SLIDE", "no slide is active", map[string]string{"op": "x"}))
	assert.Equal(t, "Error [NO_ACTIVE_SLIDE]: no slide is active\n", buf.String())

	buf.Reset()
	formatter.Verbose = true
	require.NoError(t, formatter.Error("NO_ACTIVE_SLIDE", "no slide is active", map[string]string{"op": "x"}))
	assert.Contains(t, buf.String(), "Details: map[op:x]")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut}

	formatter.VerboseLog("hidden %d", 1)
	assert.Empty(t, errOut.String())

	formatter.Verbose = true
	formatter.VerboseLog("shown %d", 2)
	assert.Equal(t, "shown 2\n", errOut.String())
	assert.Empty(t, out.String())
}

func TestOutputFormatter_GetErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	formatter := &OutputFormatter{Writer: out}
	assert.Same(t, out, formatter.GetErrWriter())
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitFailure},
		{"exit error", NewExitError(ExitCommandError, "bad"), ExitCommandError},
		{"wrapped exit error", fmt.Errorf("ctx: %w", WrapExitError(ExitFailure, "x", errors.New("y"))), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "bad", NewExitError(ExitCommandError, "bad").Error())

	inner := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "failed to write", inner)
	assert.Equal(t, "failed to write: disk full", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestReportError(t *testing.T) {
	t.Run("deck error exits 1", func(t *testing.T) {
		buf := &bytes.Buffer{}
		f := &OutputFormatter{Format: "json", Writer: buf}

		err := f.ReportError(&engine.DeckError{
			Code:    engine.ErrCodeSlideNotFound,
			Op:      "slides.move",
			Message: "no slide numbered 9",
			Details: map[string]string{"number": "9"},
		})
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.True(t, engine.IsNotFound(err))

		resp := decodeResponse(t, buf.String())
		require.NotNil(t, resp.Error)
		assert.Equal(t, "SLIDE_NOT_FOUND", resp.Error.Code)
	})

	t.Run("exit error passes through", func(t *testing.T) {
		buf := &bytes.Buffer{}
		f := &OutputFormatter{Format: "text", Writer: buf}

		in := NewExitError(ExitFailure, "deck not empty")
		assert.Same(t, in, f.ReportError(in))
		assert.Empty(t, buf.String())
	})

	t.Run("other errors exit 2", func(t *testing.T) {
		buf := &bytes.Buffer{}
		f := &OutputFormatter{Format: "text", Writer: buf}

		err := f.ReportError(errors.New("database is locked"))
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Equal(t, "Error [E001]: database is locked\n", buf.String())
	})
}

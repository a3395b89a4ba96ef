package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newDB returns a database path in a temp dir and hides DECK_* variables
// from the environment for the rest of the test.
func newDB(t *testing.T) string {
	t.Helper()
	for _, key := range []string{
		"DECK_DATABASE_PATH",
		"DECK_LOG_LEVEL",
		"DECK_LOG_FORMAT",
		"DECK_METRICS_FILE",
		"DECK_OUTPUT_FORMAT",
	} {
		t.Setenv(key, "")
	}
	return filepath.Join(t.TempDir(), "deck.db")
}

// runCLI executes the root command against db and returns stdout.
func runCLI(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--db", db}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// mustRun is runCLI that fails the test on error.
func mustRun(t *testing.T, db string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, db, args...)
	require.NoError(t, err, "deck %v\n%s", args, out)
	return out
}

// decodeResponse parses a JSON CLIResponse.
func decodeResponse(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayEmptyDatabase(t *testing.T) {
	db := newDB(t)

	out := mustRun(t, db, "replay", "--verify")
	assert.Contains(t, out, "Replay Summary: 0 recording(s), 0 applied, 0 skipped")
	assert.Contains(t, out, "✓ Replay verified")
}

func TestReplayVerify(t *testing.T) {
	db := newDB(t)
	mustRun(t, db, "blank", "--data", "a")
	mustRun(t, db, "blank", "--data", "b")
	mustRun(t, db, "insert", "--at", "0", "--data", "title")
	mustRun(t, db, "move", "next")
	mustRun(t, db, "offset", "2")
	_, err := runCLI(t, db, "move", "4")
	require.Error(t, err)
	mustRun(t, db, "delete")

	out := mustRun(t, db, "--verbose", "replay", "--verify")
	assert.Contains(t, out, "7 recording(s), 6 applied, 1 skipped")
	assert.Contains(t, out, "Skipped seq 6 slides.move: SLIDE_NOT_FOUND")
	assert.Contains(t, out, "✓ Replay verified")
}

func TestReplayJSON(t *testing.T) {
	db := newDB(t)
	_, err := runCLI(t, db, "offset", "1")
	require.Error(t, err)
	mustRun(t, db, "blank", "--data", "a")

	resp := decodeResponse(t, mustRun(t, db, "--format", "json", "replay", "--verify"))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(2), data["recordings"])
	assert.Equal(t, float64(1), data["applied"])
	assert.Equal(t, float64(1), data["slides"])
	assert.Equal(t, true, data["deterministic"])
	assert.Equal(t, true, data["matches"])

	skipped := data["skipped"].([]any)
	require.Len(t, skipped, 1)
	assert.Equal(t, "NO_ACTIVE_SLIDE", skipped[0].(map[string]any)["code"])
}

func TestReplayVerify_LoadedSlidesDiffer(t *testing.T) {
	db := newDB(t)
	mustRun(t, db, "load", writeFile(t, t.TempDir(), "talk.yaml", twoSlidesYAML))
	mustRun(t, db, "blank", "--data", "c")

	// Without --verify only determinism is checked.
	out := mustRun(t, db, "replay")
	assert.Contains(t, out, "✓ Replay verified")

	out, err := runCLI(t, db, "replay", "--verify")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "rebuilt deck differs from the stored deck")
	assert.Contains(t, out, "✗ Replay verification failed")
}

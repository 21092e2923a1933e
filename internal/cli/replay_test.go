package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hexlife/internal/store"
	"github.com/roach88/hexlife/internal/testutil"
)

func executeReplay(t *testing.T, rootOpts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// recordRuns records two runs into a fresh database and returns its path.
func recordRuns(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")
	pattern := testutil.WriteFile(t, dir, "pair.txt", testutil.Pair)

	_, err := executeRun(t, &RootOptions{Format: "text"}, "run-a",
		"--db", dbPath, "--pattern", pattern, "--seed", "40", "--ticks", "30")
	require.NoError(t, err)
	_, err = executeRun(t, &RootOptions{Format: "text"}, "run-b",
		"--db", dbPath, "--rows", "9", "--cols", "7", "--seed", "3", "--workers", "3", "--ticks", "40")
	require.NoError(t, err)
	return dbPath
}

func TestReplayMissingDatabaseFlag(t *testing.T) {
	_, err := executeReplay(t, &RootOptions{Format: "text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestReplayEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	st.Close()

	out, err := executeReplay(t, &RootOptions{Format: "text"}, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs found")
}

func TestReplayEmptyDatabaseJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, err := executeReplay(t, &RootOptions{Format: "json"}, "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   ReplayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.Data.TotalRuns)
	assert.True(t, resp.Data.AllVerified)
}

func TestReplayVerifiesRecordedRuns(t *testing.T) {
	dbPath := recordRuns(t)

	out, err := executeReplay(t, &RootOptions{Format: "text", Verbose: true}, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Replay Summary: 2 run(s)")
	assert.Contains(t, out, "✓ Run: run-a")
	assert.Contains(t, out, "✓ Run: run-b")
	assert.Contains(t, out, "Ticks: 30")
	assert.Contains(t, out, "Ticks: 40")
	assert.Contains(t, out, "All runs replayed identically")
}

func TestReplaySingleRun(t *testing.T) {
	dbPath := recordRuns(t)

	out, err := executeReplay(t, &RootOptions{Format: "json"}, "--db", dbPath, "--run", "run-b")
	require.NoError(t, err)

	var resp struct {
		Data ReplayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Runs, 1)
	assert.Equal(t, "run-b", resp.Data.Runs[0].RunID)
	assert.Equal(t, 40, resp.Data.Runs[0].Ticks)
	assert.True(t, resp.Data.Runs[0].Verified)
}

func TestReplayDetectsDivergence(t *testing.T) {
	dbPath := recordRuns(t)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	_, err = st.DB().Exec(`UPDATE ticks SET alive = alive + 1 WHERE run_id = 'run-b' AND seq = 5`)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := executeReplay(t, &RootOptions{Format: "text"}, "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✓ Run: run-a")
	assert.Contains(t, out, "✗ Run: run-b")
	assert.Contains(t, out, "Diverged at seq 5: alive")
	assert.Contains(t, out, "Replay verification failed")
}

func TestReplayDivergenceJSON(t *testing.T) {
	dbPath := recordRuns(t)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	_, err = st.DB().Exec(`UPDATE ticks SET label = 'stable' WHERE run_id = 'run-a' AND seq = 1`)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := executeReplay(t, &RootOptions{Format: "json"}, "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_DIVERGED", resp.Error.Code)
}

func TestReplayUnknownRun(t *testing.T) {
	dbPath := recordRuns(t)

	_, err := executeReplay(t, &RootOptions{Format: "text"}, "--db", dbPath, "--run", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

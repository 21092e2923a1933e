package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hexlife/internal/store"
	"github.com/roach88/hexlife/internal/telemetry"
	"github.com/roach88/hexlife/internal/testutil"
)

// executeRun runs the run command with a fixed run ID.
func executeRun(t *testing.T, rootOpts *RootOptions, runID string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := newRunCommand(&RunOptions{
		RootOptions: rootOpts,
		IDs:         store.NewFixedGenerator(runID),
	})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRunMissingDatabaseFlag(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--ticks", "5"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
	assert.Contains(t, err.Error(), "db")
}

func TestRunInvalidDatabasePath(t *testing.T) {
	_, err := executeRun(t, &RootOptions{Format: "text"}, "run-1",
		"--db", "/nonexistent/dir/runs.db", "--rows", "4", "--cols", "4", "--ticks", "1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to open database")
}

func TestRunInvalidOverride(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	_, err := executeRun(t, &RootOptions{Format: "text"}, "run-1",
		"--db", dbPath, "--p-alive", "1.5", "--ticks", "1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRunMissingPatternFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	_, err := executeRun(t, &RootOptions{Format: "text"}, "run-1",
		"--db", dbPath, "--pattern", "/nonexistent/pattern.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read pattern")
}

func TestRunHaltsOnRepeat(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")
	csvPath := filepath.Join(dir, "ticks.csv")
	pattern := testutil.WriteFile(t, dir, "pair.txt", testutil.Pair)
	configPath := testutil.WriteFile(t, dir, "hexlife.yaml", "simulation:\n  auto_reseed: false\n")

	out, err := executeRun(t, &RootOptions{Format: "text", Config: configPath}, "run-halt",
		"--db", dbPath, "--pattern", pattern, "--ticks", "10", "--csv", csvPath, "--tag", "case=halt")
	require.NoError(t, err)

	assert.Contains(t, out, "Run run-halt")
	assert.Contains(t, out, "Ticks: 3 (0 reseeds)")
	assert.Contains(t, out, "Final: 2 alive, unclassified")
	assert.Contains(t, out, "Halted on a repeated state")

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := telemetry.ReadRecords(f)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, records[2].Halted)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	run, err := st.ReadRun(ctx, "run-halt")
	require.NoError(t, err)
	assert.Equal(t, "O.\n.O", run.Pattern)
	assert.Equal(t, "B2/S34", run.Rule)
	assert.False(t, run.AutoReseed)
	assert.Equal(t, map[string]string{"case": "halt"}, run.Tags)

	ticks, err := st.ReadTicks(ctx, "run-halt")
	require.NoError(t, err)
	assert.Len(t, ticks, 3)
}

func TestRunJSON(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")

	out, err := executeRun(t, &RootOptions{Format: "json"}, "run-json",
		"--db", dbPath, "--rows", "8", "--cols", "8", "--seed", "5", "--ticks", "25")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   RunSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-json", resp.Data.RunID)
	assert.Equal(t, 25, resp.Data.Ticks)
	assert.False(t, resp.Data.Halted, "unlimited auto-reseed never halts")
	assert.Equal(t, 25, resp.Data.Alive.Count)

	total := 0
	for _, n := range resp.Data.Labels {
		total += n
	}
	assert.Equal(t, 25, total)
}

func TestRunCancelledContext(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	buf := &bytes.Buffer{}
	cmd := newRunCommand(&RunOptions{
		RootOptions: &RootOptions{Format: "text"},
		IDs:         store.NewFixedGenerator("run-cancel"),
	})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--db", dbPath, "--rows", "6", "--cols", "6", "--ticks", "-1"})

	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Contains(t, buf.String(), "Ticks: 0 (0 reseeds)")
	assert.Contains(t, buf.String(), "Interrupted")
}

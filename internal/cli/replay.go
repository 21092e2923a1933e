package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/hexlife/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - specific run only
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	RunID      string `json:"run_id"`
	Ticks      int    `json:"ticks"`
	Reseeds    int    `json:"reseeds"`
	Halted     bool   `json:"halted"`
	FinalAlive int    `json:"final_alive"`
	FinalLabel string `json:"final_label"`
	Verified   bool   `json:"verified"`
	Divergence string `json:"divergence,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs        []ReplayRunResult `json:"runs"`
	TotalRuns   int               `json:"total_runs"`
	AllVerified bool              `json:"all_verified"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-simulate stored runs and verify determinism",
		Long: `Re-simulate every stored run from its recorded parameters and compare
each replayed tick with the logged one: seq, epoch, seed, generation,
verdict, label, alive count and grid fingerprint.

Exit codes:
  0 - All runs replayed identically
  1 - A run diverged from its log
  2 - Command error (database not found, etc.)

Examples:
  hexlife replay --db ./runs.db
  hexlife replay --db ./runs.db --run 0190f3c2-...
  hexlife replay --db ./runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay a specific run only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var runIDs []string
	if opts.RunID != "" {
		runIDs = []string{opts.RunID}
	} else {
		runIDs, err = st.ListRunIDs(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
	}

	result := ReplayResult{
		Runs:        make([]ReplayRunResult, 0, len(runIDs)),
		TotalRuns:   len(runIDs),
		AllVerified: true,
	}
	if len(runIDs) == 0 && opts.Format != "json" {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs found in database.")
		return nil
	}

	for _, id := range runIDs {
		runResult, err := verifyRun(ctx, st, id)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", id), err)
		}
		result.Runs = append(result.Runs, runResult)
		if !runResult.Verified {
			result.AllVerified = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// verifyRun summarizes a stored run and replays it once against its log.
func verifyRun(ctx context.Context, st *store.Store, runID string) (ReplayRunResult, error) {
	state, err := st.GetRunState(ctx, runID)
	if err != nil {
		return ReplayRunResult{}, err
	}
	replay, err := st.VerifyRun(ctx, runID)
	if err != nil {
		return ReplayRunResult{}, err
	}

	r := ReplayRunResult{
		RunID:      runID,
		Ticks:      state.TickCount,
		Reseeds:    state.Epochs,
		Halted:     state.Halted,
		FinalAlive: state.FinalAlive,
		FinalLabel: state.FinalLabel,
		Verified:   replay.OK(),
	}
	if !replay.OK() {
		r.Divergence = replay.Divergence.String()
	}
	return r, nil
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.AllVerified {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_DIVERGED",
			Message: "replay diverged from the stored log",
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !result.AllVerified {
		return NewExitError(ExitFailure, "replay diverged from the stored log")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d run(s)\n", result.TotalRuns)
	fmt.Fprintln(w)

	for _, run := range result.Runs {
		status := "✓"
		if !run.Verified {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Run: %s\n", status, run.RunID)
		fmt.Fprintf(w, "  Ticks: %s, %s reseeds\n", formatCount(run.Ticks), formatCount(run.Reseeds))
		if verbose {
			fmt.Fprintf(w, "  Final: %s alive, %s\n", formatCount(run.FinalAlive), run.FinalLabel)
			fmt.Fprintf(w, "  Halted: %v\n", run.Halted)
		}
		if !run.Verified {
			fmt.Fprintf(w, "  Diverged at %s\n", run.Divergence)
		}
		fmt.Fprintln(w)
	}

	if result.AllVerified {
		fmt.Fprintln(w, "✓ All runs replayed identically")
		return nil
	}

	fmt.Fprintln(w, "✗ Replay verification failed")
	return NewExitError(ExitFailure, "replay diverged from the stored log")
}

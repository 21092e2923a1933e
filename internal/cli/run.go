package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/hexlife/internal/engine"
	"github.com/roach88/hexlife/internal/session"
	"github.com/roach88/hexlife/internal/store"
	"github.com/roach88/hexlife/internal/telemetry"
)

const tickBufferSize = 256

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	simFlags
	Database string
	Ticks    int
	CSV      string
	Tags     map[string]string

	// IDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs store.IDGenerator
}

// RunSummary is the payload printed when a run ends.
type RunSummary struct {
	RunID       string            `json:"run_id"`
	Ticks       int               `json:"ticks"`
	Reseeds     int               `json:"reseeds"`
	Halted      bool              `json:"halted"`
	Interrupted bool              `json:"interrupted,omitempty"`
	FinalAlive  int               `json:"final_alive"`
	FinalLabel  string            `json:"final_label"`
	Alive       telemetry.Summary `json:"alive"`
	Labels      map[string]int    `json:"labels"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a session and record every tick",
		Long: `Run a simulation session and record it in a SQLite run log.

Each tick checks for a repeated state, steps the grid and labels the
result. A repeated state reseeds the grid when auto_reseed is on and halts
the session otherwise. Every tick is written to the database so the run
can be verified later with "hexlife replay".

Examples:
  hexlife run --db ./runs.db
  hexlife run --db ./runs.db --ticks 500 --seed 7 --csv ticks.csv
  hexlife run --db ./runs.db --pattern glider.txt --ticks -1`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", 1000, "ticks to run (-1 runs until halted or interrupted)")
	cmd.Flags().StringVar(&opts.CSV, "csv", "", "also write per-tick telemetry to this CSV file")
	cmd.Flags().StringToStringVar(&opts.Tags, "tag", nil, "run tags as key=value (repeatable)")
	opts.simFlags.bind(cmd)

	return cmd
}

func runSession(opts *RunOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	pattern, err := opts.simFlags.apply(cmd, cfg)
	if err != nil {
		return err
	}
	rule, err := cfg.Rule()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid rule", err)
	}

	ids := opts.IDs
	if ids == nil {
		ids = store.UUIDv7Generator{}
	}
	run := store.Run{
		ID:           ids.Generate(),
		Rows:         cfg.Grid.Rows,
		Cols:         cfg.Grid.Cols,
		Rule:         rule.String(),
		Seed:         cfg.Simulation.Seed,
		PAlive:       cfg.Simulation.PAlive,
		HistoryLimit: cfg.Simulation.HistoryLimit,
		Workers:      cfg.Simulation.Workers,
		AutoReseed:   cfg.Simulation.AutoReseed,
		MaxReseeds:   cfg.Simulation.MaxReseeds,
		CycleGuard:   cfg.Simulation.CycleGuard,
		Tags:         opts.Tags,
	}
	if pattern != nil {
		run.Pattern = pattern.String()
	}

	slog.Info("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx, cancel := signalContext(cmd)
	defer cancel()
	// Log writes ignore the interrupt so every tick produced is persisted.
	storeCtx := context.WithoutCancel(ctx)

	if err := st.CreateRun(storeCtx, run); err != nil {
		return WrapExitError(ExitCommandError, "failed to record run", err)
	}
	sess, err := run.NewSession()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start session", err)
	}

	var csvw *telemetry.CSVWriter
	if opts.CSV != "" {
		f, err := os.Create(opts.CSV)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to create CSV file", err)
		}
		defer f.Close()
		csvw = telemetry.NewCSVWriter(f)
	}

	buf := st.NewTickBuffer(run.ID, tickBufferSize)
	collector := telemetry.NewCollector()
	var last session.Tick

	slog.Info("run created",
		"run", run.ID,
		"rows", run.Rows,
		"cols", run.Cols,
		"rule", run.Rule,
	)
	n, runErr := sess.Run(ctx, opts.Ticks, func(t session.Tick) error {
		last = t
		if err := buf.Add(storeCtx, t); err != nil {
			return err
		}
		if csvw != nil {
			if err := csvw.Write(t); err != nil {
				return err
			}
		}
		return collector.Add(t)
	})

	interrupted := errors.Is(runErr, context.Canceled)
	if runErr != nil && !interrupted {
		return WrapExitError(ExitFailure, "session error", runErr)
	}
	if err := buf.Flush(storeCtx); err != nil {
		return WrapExitError(ExitFailure, "failed to write ticks", err)
	}
	slog.Info("run recorded", "run", run.ID, "ticks", n, "halted", sess.Halted())

	summary := RunSummary{
		RunID:       run.ID,
		Ticks:       n,
		Reseeds:     collector.Reseeds(),
		Halted:      collector.Halted(),
		Interrupted: interrupted,
		FinalAlive:  last.Alive,
		FinalLabel:  last.Label.String(),
		Alive:       collector.Alive(),
		Labels:      labelCounts(collector),
	}
	return outputRunSummary(opts, cmd, summary)
}

func labelCounts(c *telemetry.Collector) map[string]int {
	counts := make(map[string]int)
	for _, l := range []engine.Label{engine.Unclassified, engine.Stable, engine.Oscillating, engine.Chaotic} {
		if n := c.LabelCount(l); n > 0 {
			counts[l.String()] = n
		}
	}
	return counts
}

// signalContext cancels on SIGINT/SIGTERM or when the command's own
// context is done.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func outputRunSummary(opts *RunOptions, cmd *cobra.Command, s RunSummary) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return formatter.Success(s)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Run %s\n", s.RunID)
	fmt.Fprintf(w, "  Ticks: %s (%s reseeds)\n", formatCount(s.Ticks), formatCount(s.Reseeds))
	fmt.Fprintf(w, "  Final: %s alive, %s\n", formatCount(s.FinalAlive), s.FinalLabel)
	fmt.Fprintf(w, "  Alive: %s\n", s.Alive)
	switch {
	case s.Halted:
		fmt.Fprintln(w, "  Halted on a repeated state")
	case s.Interrupted:
		fmt.Fprintln(w, "  Interrupted")
	}
	return nil
}

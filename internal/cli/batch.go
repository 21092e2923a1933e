package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/hexlife/internal/engine"
)

// progressEvery is how often verbose batch runs log progress.
const progressEvery = 1000

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	simFlags
	Steps int
}

// BatchResult is the payload printed after a batch.
type BatchResult struct {
	Rows        int                    `json:"rows"`
	Cols        int                    `json:"cols"`
	Rule        string                 `json:"rule"`
	Seed        int64                  `json:"seed"`
	Steps       int                    `json:"steps"`
	Workers     int                    `json:"workers"`
	Stats       engine.SimulationStats `json:"stats"`
	Fingerprint string                 `json:"fingerprint"`
	ElapsedMS   int64                  `json:"elapsed_ms"`
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Advance a grid many generations without tracking",
		Long: `Advance a grid a fixed number of generations with no cycle checks
or labels, then report the final population.

The step count defaults to simulation.batch_steps from the config.

Examples:
  hexlife batch
  hexlife batch --steps 50000 --workers 8 --rows 512 --cols 512
  hexlife batch --pattern glider.txt --steps 100 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Steps, "steps", 0, "generations to run (overrides simulation.batch_steps)")
	opts.simFlags.bind(cmd)

	return cmd
}

func runBatch(opts *BatchOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("steps") {
		cfg.Simulation.BatchSteps = opts.Steps
	}
	pattern, err := opts.simFlags.apply(cmd, cfg)
	if err != nil {
		return err
	}

	eng, err := cfg.NewEngine()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create engine", err)
	}
	if pattern != nil {
		if err := eng.Load(pattern); err != nil {
			return WrapExitError(ExitCommandError, "failed to load pattern", err)
		}
	} else {
		eng.Randomize(cfg.Simulation.Seed)
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	start := time.Now()
	var stats engine.SimulationStats
	if opts.Verbose {
		stats, err = eng.RunBatchObserved(ctx, eng.BatchSteps(), func(generation, alive int) {
			if generation%progressEvery == 0 {
				slog.Debug("batch progress", "generation", generation, "alive", alive)
			}
		})
	} else {
		stats, err = eng.RunDefaultBatch(ctx)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "batch interrupted", err)
	}
	elapsed := time.Since(start)

	rows, cols := eng.Dimensions()
	result := BatchResult{
		Rows:        rows,
		Cols:        cols,
		Rule:        eng.Rule().String(),
		Seed:        cfg.Simulation.Seed,
		Steps:       eng.BatchSteps(),
		Workers:     cfg.Simulation.Workers,
		Stats:       stats,
		Fingerprint: eng.Fingerprint().String(),
		ElapsedMS:   elapsed.Milliseconds(),
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Ran %s generations of %s on %dx%d in %s\n",
		formatCount(result.Steps), result.Rule, rows, cols, elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "  Alive: %s  Dead: %s  Ratio: %s\n",
		formatCount(stats.Alive), formatCount(stats.Dead), stats.RatioString())
	fmt.Fprintf(w, "  Fingerprint: %s\n", result.Fingerprint)
	return nil
}

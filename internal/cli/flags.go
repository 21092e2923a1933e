package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/hexlife/internal/config"
	"github.com/roach88/hexlife/internal/engine"
	"github.com/roach88/hexlife/internal/grid"
)

// simFlags are the config overrides shared by run and batch.
type simFlags struct {
	Rows        int
	Cols        int
	Seed        int64
	PAlive      float64
	Workers     int
	Rule        string
	PatternFile string
}

func (f *simFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.Rows, "rows", 0, "grid rows (overrides grid.rows)")
	cmd.Flags().IntVar(&f.Cols, "cols", 0, "grid columns (overrides grid.cols)")
	cmd.Flags().Int64Var(&f.Seed, "seed", 0, "base seed (overrides simulation.seed)")
	cmd.Flags().Float64Var(&f.PAlive, "p-alive", 0, "randomize probability (overrides simulation.p_alive)")
	cmd.Flags().IntVar(&f.Workers, "workers", 0, "step workers (overrides simulation.workers)")
	cmd.Flags().StringVar(&f.Rule, "rule", "", "transition rule in B/S notation, e.g. B2/S34")
	cmd.Flags().StringVar(&f.PatternFile, "pattern", "", "start from an ASCII pattern file instead of a random grid")
}

// apply overlays the flags the user set on cfg, loads the pattern file if
// one was given and revalidates. A pattern fixes the grid dimensions.
func (f *simFlags) apply(cmd *cobra.Command, cfg *config.Config) (*grid.Grid, error) {
	flags := cmd.Flags()
	if flags.Changed("rows") {
		cfg.Grid.Rows = f.Rows
	}
	if flags.Changed("cols") {
		cfg.Grid.Cols = f.Cols
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed = f.Seed
	}
	if flags.Changed("p-alive") {
		cfg.Simulation.PAlive = f.PAlive
	}
	if flags.Changed("workers") {
		cfg.Simulation.Workers = f.Workers
	}
	if flags.Changed("rule") {
		rule, err := engine.ParseRule(f.Rule)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid rule", err)
		}
		cfg.Simulation.SurvivalCounts = rule.SurvivalCounts()
		cfg.Simulation.BirthCounts = rule.BirthCounts()
	}

	var pattern *grid.Grid
	if f.PatternFile != "" {
		data, err := os.ReadFile(f.PatternFile)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to read pattern", err)
		}
		pattern, err = grid.Parse(string(data))
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("invalid pattern %s", f.PatternFile), err)
		}
		cfg.Grid.Rows, cfg.Grid.Cols = pattern.Rows(), pattern.Cols()
	}

	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return pattern, nil
}

package engine

import (
	"context"
	"fmt"

	"github.com/roach88/hexlife/internal/grid"
)

// DefaultBatchSteps is the default number of generations for a batch run.
const DefaultBatchSteps = 10000

// BatchRunner advances a grid a fixed number of generations without
// classification or cycle checks, then reports population statistics.
//
// Unlike the session driver, a batch never exits early on its own: the loop
// runs exactly the requested number of steps. The only early exit is context
// cancellation, checked between steps.
type BatchRunner struct {
	// Rule is the transition rule. The zero Rule kills every cell, so callers
	// normally pass DefaultRule() or a configured rule.
	Rule Rule

	// Workers is the row-band parallelism passed to StepInto.
	Workers int

	// OnStep, if set, is called after every generation with the 1-based
	// generation number and the alive count.
	OnStep func(generation, alive int)
}

// Run applies Rule to a copy of g exactly steps times.
//
// g is not modified. steps == 0 returns a copy equal to g. Returns an
// INVALID_ARGUMENT RuntimeError if steps < 0, and the context error (wrapped)
// if ctx is cancelled before the last step; the partial grid is returned
// alongside it.
func (b *BatchRunner) Run(ctx context.Context, g *grid.Grid, steps int) (*grid.Grid, SimulationStats, error) {
	if steps < 0 {
		return nil, SimulationStats{}, NewInvalidArgumentError("batch", "step count %d is negative", steps)
	}

	cur := g.Clone()
	nxt := grid.New(g.Rows(), g.Cols())
	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return cur, StatsOf(cur), fmt.Errorf("batch interrupted after %d of %d steps: %w", i-1, steps, err)
		}
		StepInto(nxt, cur, b.Rule, b.Workers)
		cur, nxt = nxt, cur
		if b.OnStep != nil {
			b.OnStep(i, cur.AliveCount())
		}
	}
	return cur, StatsOf(cur), nil
}

package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/hexlife/internal/engine"
	"github.com/roach88/hexlife/internal/grid"
	"github.com/roach88/hexlife/internal/session"
	"github.com/roach88/hexlife/internal/store"
)

const (
	defaultSeed   = 1
	defaultPAlive = engine.DefaultAliveProbability
	defaultRule   = "B2/S34"
	bufferSize    = 64
)

// Harness executes scenarios against a store.
type Harness struct {
	store *store.Store
	ids   store.IDGenerator
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database under the fixed run ID
// "scenario-<name>". Ticks are written through the store and read back in
// seq order, so the trace is exactly what a persisted run would replay.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a cancellable context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store: st,
		ids:   store.NewFixedGenerator("scenario-" + scenario.Name),
	}
	return h.run(ctx, scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	run, err := runOf(h.ids.Generate(), scenario)
	if err != nil {
		return nil, err
	}
	if err := h.store.CreateRun(ctx, run); err != nil {
		return nil, err
	}

	sess, err := run.NewSession()
	if err != nil {
		return nil, err
	}

	buf := h.store.NewTickBuffer(run.ID, bufferSize)
	n, err := sess.Run(ctx, scenario.Ticks, func(t session.Tick) error {
		return buf.Add(ctx, t)
	})
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	if err := buf.Flush(ctx); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	ticks, err := h.store.ReadTicks(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	for _, t := range ticks {
		result.Trace = append(result.Trace, eventOf(t))
	}
	result.FinalPattern = sess.Engine().Snapshot().String()

	for _, failure := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(failure)
	}

	slog.Debug("scenario complete",
		"scenario", scenario.Name,
		"ticks", n,
		"pass", result.Pass,
	)
	return result, nil
}

// runOf maps a scenario to the run record that drives it.
func runOf(id string, s *Scenario) (store.Run, error) {
	run := store.Run{
		ID:           id,
		Rows:         s.Rows,
		Cols:         s.Cols,
		Rule:         s.Rule,
		Seed:         defaultSeed,
		PAlive:       defaultPAlive,
		HistoryLimit: s.HistoryLimit,
		Workers:      1,
		AutoReseed:   s.AutoReseed,
		MaxReseeds:   s.MaxReseeds,
		CycleGuard:   true,
		Tags:         map[string]string{"scenario": s.Name},
	}
	if run.Rule == "" {
		run.Rule = defaultRule
	}
	if run.HistoryLimit == 0 {
		run.HistoryLimit = engine.DefaultHistoryLimit
	}
	if s.Seed != nil {
		run.Seed = *s.Seed
	}
	if s.PAlive != nil {
		run.PAlive = *s.PAlive
	}
	if s.CycleGuard != nil {
		run.CycleGuard = *s.CycleGuard
	}

	if s.Pattern != "" {
		g, err := grid.Parse(s.Pattern)
		if err != nil {
			return store.Run{}, fmt.Errorf("scenario %s: pattern: %w", s.Name, err)
		}
		run.Rows, run.Cols = g.Rows(), g.Cols()
		run.Pattern = g.String()
	}
	return run, nil
}

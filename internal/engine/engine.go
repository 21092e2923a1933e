package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/hexlife/internal/grid"
)

// DefaultAliveProbability is the chance of a cell starting alive in Randomize.
const DefaultAliveProbability = 0.2

// Engine owns a grid together with its cycle guard and classifier.
//
// Thread-safety model: none. An Engine must be driven from one goroutine at
// a time; hosts that share it must serialize every call.
//
// INVARIANTS:
//   - Grid dimensions never change after New.
//   - cur and nxt always share a shape; nxt is scratch space for Step.
//   - Clear, Randomize and Load reset the generation counter, the cycle
//     guard and the classifier window.
type Engine struct {
	cur *grid.Grid
	nxt *grid.Grid

	rule         Rule
	pAlive       float64
	historyLimit int
	workers      int
	batchSteps   int

	generation int
	guard      *CycleGuard
	classifier *Classifier
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithRule sets the transition rule.
//
// Default: DefaultRule() (B2/S34)
func WithRule(r Rule) Option {
	return func(e *Engine) {
		e.rule = r
	}
}

// WithAliveProbability sets the probability used by Randomize.
//
// Default: 0.2 (DefaultAliveProbability)
func WithAliveProbability(p float64) Option {
	return func(e *Engine) {
		e.pAlive = p
	}
}

// WithHistoryLimit sets the classifier window.
//
// Default: 100 (DefaultHistoryLimit)
func WithHistoryLimit(n int) Option {
	return func(e *Engine) {
		e.historyLimit = n
	}
}

// WithWorkers sets how many row bands Step processes concurrently.
//
// Default: 1 (serial)
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithBatchSteps sets the step count used by RunDefaultBatch.
//
// Default: 10000 (DefaultBatchSteps)
func WithBatchSteps(n int) Option {
	return func(e *Engine) {
		e.batchSteps = n
	}
}

// New creates an Engine with an all-dead rows x cols grid.
//
// Returns an INVALID_ARGUMENT RuntimeError if a dimension is below 1 or an
// option is out of range.
func New(rows, cols int, opts ...Option) (*Engine, error) {
	if rows < 1 || cols < 1 {
		return nil, NewInvalidArgumentError("new", "grid dimensions %dx%d must be at least 1x1", rows, cols)
	}

	e := &Engine{
		rule:         DefaultRule(),
		pAlive:       DefaultAliveProbability,
		historyLimit: DefaultHistoryLimit,
		workers:      1,
		batchSteps:   DefaultBatchSteps,
	}

	// Apply options
	for _, opt := range opts {
		opt(e)
	}

	if err := validateProbability("new", e.pAlive); err != nil {
		return nil, err
	}
	if e.historyLimit < 1 {
		return nil, NewInvalidArgumentError("new", "history limit %d must be at least 1", e.historyLimit)
	}
	if e.workers < 1 {
		return nil, NewInvalidArgumentError("new", "workers %d must be at least 1", e.workers)
	}
	if e.batchSteps < 0 {
		return nil, NewInvalidArgumentError("new", "batch steps %d is negative", e.batchSteps)
	}

	e.cur = grid.New(rows, cols)
	e.nxt = grid.New(rows, cols)
	e.guard = NewCycleGuard()
	e.classifier = NewClassifier(e.historyLimit)
	return e, nil
}

func validateProbability(op string, p float64) error {
	if !(p >= 0 && p <= 1) {
		return NewInvalidArgumentError(op, "alive probability %v outside [0, 1]", p)
	}
	return nil
}

// Dimensions returns the grid's rows and columns.
func (e *Engine) Dimensions() (rows, cols int) {
	return e.cur.Rows(), e.cur.Cols()
}

// AliveCount returns the number of alive cells.
func (e *Engine) AliveCount() int {
	return e.cur.AliveCount()
}

// Stats returns the current population statistics.
func (e *Engine) Stats() SimulationStats {
	return StatsOf(e.cur)
}

// Generation returns the number of steps since the last clear, randomize or load.
func (e *Engine) Generation() int {
	return e.generation
}

// Rule returns the transition rule.
func (e *Engine) Rule() Rule { return e.rule }

// AliveProbability returns the probability Randomize uses.
func (e *Engine) AliveProbability() float64 { return e.pAlive }

// HistoryLimit returns the classifier window size.
func (e *Engine) HistoryLimit() int { return e.historyLimit }

// BatchSteps returns the configured default batch length.
func (e *Engine) BatchSteps() int { return e.batchSteps }

// Snapshot returns an immutable copy of the current grid.
func (e *Engine) Snapshot() grid.Snapshot {
	return e.cur.Snapshot()
}

// Fingerprint returns the content hash of the current grid.
func (e *Engine) Fingerprint() grid.Fingerprint {
	return e.cur.Fingerprint()
}

// Toggle flips the cell at (row, col).
//
// Returns an OUT_OF_BOUNDS RuntimeError for an invalid address and leaves
// the grid untouched. Toggle does not reset tracking; call ResetTracking if
// the edit should start a fresh run.
func (e *Engine) Toggle(row, col int) error {
	if err := e.cur.Toggle(grid.Addr{Row: row, Col: col}); err != nil {
		var be *grid.BoundsError
		if errors.As(err, &be) {
			return NewOutOfBoundsError("toggle", be)
		}
		return err
	}
	return nil
}

// Clear kills every cell and starts a fresh run.
func (e *Engine) Clear() {
	e.cur.Clear()
	e.restart()
	slog.Debug("grid cleared")
}

// Randomize reseeds the grid with the configured alive probability and
// starts a fresh run. The same seed always yields the same grid.
func (e *Engine) Randomize(seed int64) {
	e.cur.Randomize(grid.NewRand(seed), e.pAlive)
	e.restart()
	slog.Debug("grid randomized", "seed", seed, "p_alive", e.pAlive, "alive", e.cur.AliveCount())
}

// RandomizeWith is Randomize with an explicit alive probability.
func (e *Engine) RandomizeWith(seed int64, pAlive float64) error {
	if err := validateProbability("randomize", pAlive); err != nil {
		return err
	}
	e.cur.Randomize(grid.NewRand(seed), pAlive)
	e.restart()
	slog.Debug("grid randomized", "seed", seed, "p_alive", pAlive, "alive", e.cur.AliveCount())
	return nil
}

// Load replaces the grid's cells with g's and starts a fresh run.
// g must have the engine's dimensions.
func (e *Engine) Load(g *grid.Grid) error {
	if !e.cur.CopyFrom(g) {
		rows, cols := e.Dimensions()
		return NewInvalidArgumentError("load", "pattern is %dx%d, engine grid is %dx%d", g.Rows(), g.Cols(), rows, cols)
	}
	e.restart()
	return nil
}

// ResetTracking forgets the cycle guard's seen states and the classifier
// window without touching the grid or the generation counter.
func (e *Engine) ResetTracking() {
	e.guard.Reset()
	e.classifier.Reset()
}

func (e *Engine) restart() {
	e.generation = 0
	e.ResetTracking()
}

// Step advances one generation and returns the new alive count.
func (e *Engine) Step() int {
	StepInto(e.nxt, e.cur, e.rule, e.workers)
	e.cur, e.nxt = e.nxt, e.cur
	e.generation++
	return e.cur.AliveCount()
}

// Classify labels the current grid against the classifier window.
// Drivers call it once per displayed generation.
func (e *Engine) Classify() Label {
	return e.classifier.Classify(e.cur.Snapshot())
}

// CycleCheck reports whether the current grid was already seen since the
// last reset, recording it if not.
func (e *Engine) CycleCheck() Verdict {
	return e.guard.Observe(e.cur)
}

// RunBatch advances the grid exactly steps generations with no cycle checks
// or classification and returns the final statistics.
//
// On success the engine adopts the final grid, the generation counter
// advances by steps, and tracking is reset because the skipped generations
// were never observed. On error the engine is left unchanged.
func (e *Engine) RunBatch(ctx context.Context, steps int) (SimulationStats, error) {
	return e.runBatch(ctx, steps, nil)
}

// RunBatchObserved is RunBatch with a per-generation callback.
func (e *Engine) RunBatchObserved(ctx context.Context, steps int, onStep func(generation, alive int)) (SimulationStats, error) {
	return e.runBatch(ctx, steps, onStep)
}

// RunDefaultBatch runs BatchSteps() generations.
func (e *Engine) RunDefaultBatch(ctx context.Context) (SimulationStats, error) {
	return e.runBatch(ctx, e.batchSteps, nil)
}

func (e *Engine) runBatch(ctx context.Context, steps int, onStep func(generation, alive int)) (SimulationStats, error) {
	start := e.generation
	runner := &BatchRunner{Rule: e.rule, Workers: e.workers}
	if onStep != nil {
		runner.OnStep = func(generation, alive int) {
			onStep(start+generation, alive)
		}
	}

	final, stats, err := runner.Run(ctx, e.cur, steps)
	if err != nil {
		return SimulationStats{}, err
	}

	e.cur.CopyFrom(final)
	e.generation += steps
	e.ResetTracking()

	slog.Info("batch complete",
		"steps", steps,
		"generation", e.generation,
		"alive", stats.Alive,
		"dead", stats.Dead,
		"ratio", stats.RatioString(),
	)
	return stats, nil
}

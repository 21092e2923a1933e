package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hexlife/internal/grid"
)

func newTestEngine(t *testing.T, rows, cols int, opts ...Option) *Engine {
	t.Helper()
	e, err := New(rows, cols, opts...)
	require.NoError(t, err)
	return e
}

func TestNew_Defaults(t *testing.T) {
	e := newTestEngine(t, 10, 20)

	rows, cols := e.Dimensions()
	assert.Equal(t, 10, rows)
	assert.Equal(t, 20, cols)
	assert.Equal(t, 0, e.AliveCount())
	assert.Equal(t, 0, e.Generation())
	assert.Equal(t, "B2/S34", e.Rule().String())
	assert.Equal(t, DefaultAliveProbability, e.AliveProbability())
	assert.Equal(t, DefaultHistoryLimit, e.HistoryLimit())
	assert.Equal(t, DefaultBatchSteps, e.BatchSteps())
}

func TestNew_WithOptions(t *testing.T) {
	e := newTestEngine(t, 3, 3,
		WithRule(MustRule([]int{2, 3}, []int{3})),
		WithAliveProbability(0.5),
		WithHistoryLimit(7),
		WithWorkers(4),
		WithBatchSteps(12),
	)
	assert.Equal(t, "B3/S23", e.Rule().String())
	assert.Equal(t, 0.5, e.AliveProbability())
	assert.Equal(t, 7, e.HistoryLimit())
	assert.Equal(t, 12, e.BatchSteps())
}

func TestNew_InvalidArguments(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		opts       []Option
	}{
		{"zero rows", 0, 5, nil},
		{"negative cols", 5, -1, nil},
		{"probability above one", 5, 5, []Option{WithAliveProbability(1.5)}},
		{"negative probability", 5, 5, []Option{WithAliveProbability(-0.1)}},
		{"zero history", 5, 5, []Option{WithHistoryLimit(0)}},
		{"zero workers", 5, 5, []Option{WithWorkers(0)}},
		{"negative batch", 5, 5, []Option{WithBatchSteps(-10)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.rows, tt.cols, tt.opts...)
			require.Error(t, err)
			assert.True(t, IsInvalidArgument(err))
		})
	}
}

func TestEngine_Toggle(t *testing.T) {
	e := newTestEngine(t, 3, 3)

	require.NoError(t, e.Toggle(1, 2))
	assert.Equal(t, 1, e.AliveCount())
	assert.True(t, e.Snapshot().Alive(1, 2))

	err := e.Toggle(3, 0)
	require.Error(t, err)
	assert.True(t, IsOutOfBounds(err))
	assert.Equal(t, 1, e.AliveCount(), "failed toggle leaves grid untouched")
}

func TestEngine_StepReturnsAliveCount(t *testing.T) {
	e := newTestEngine(t, 2, 2)
	require.NoError(t, e.Load(grid.MustParse("O.\n.O")))

	assert.Equal(t, 2, e.Step())
	assert.Equal(t, ".O\nO.", e.Snapshot().String())
	assert.Equal(t, 1, e.Generation())
}

func TestEngine_AllDeadIsStable(t *testing.T) {
	e := newTestEngine(t, 5, 5)

	assert.Equal(t, Continue, e.CycleCheck())
	assert.Equal(t, Chaotic, e.Classify())

	assert.Equal(t, 0, e.Step())
	assert.Equal(t, Stable, e.Classify())
	assert.Equal(t, LoopDetected, e.CycleCheck())
}

func TestEngine_OscillatorTrajectory(t *testing.T) {
	e := newTestEngine(t, 4, 4)
	require.NoError(t, e.Load(grid.MustParse(`
		.O.O
		....
		....
		....
	`)))

	var labels []Label
	var verdicts []Verdict
	for i := 0; i < 4; i++ {
		verdicts = append(verdicts, e.CycleCheck())
		labels = append(labels, e.Classify())
		e.Step()
	}
	assert.Equal(t, []Verdict{Continue, Continue, LoopDetected, LoopDetected}, verdicts)
	assert.Equal(t, []Label{Chaotic, Chaotic, Oscillating, Oscillating}, labels)
}

func TestEngine_RandomizeReproducible(t *testing.T) {
	a := newTestEngine(t, 25, 25)
	b := newTestEngine(t, 25, 25)
	a.Randomize(1234)
	b.Randomize(1234)

	assert.True(t, a.Snapshot().Equal(b.Snapshot()))
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Greater(t, a.AliveCount(), 0)
}

func TestEngine_RandomizeResetsRun(t *testing.T) {
	e := newTestEngine(t, 6, 6)
	e.Randomize(1)
	e.CycleCheck()
	e.Classify()
	e.Step()
	e.Step()
	require.Equal(t, 2, e.Generation())

	e.Randomize(1)
	assert.Equal(t, 0, e.Generation())
	assert.Equal(t, Continue, e.CycleCheck(), "guard forgets states on reseed")
	assert.Equal(t, Chaotic, e.Classify(), "classifier forgets states on reseed")
}

func TestEngine_RandomizeWith(t *testing.T) {
	e := newTestEngine(t, 4, 4)

	require.NoError(t, e.RandomizeWith(9, 1))
	assert.Equal(t, 16, e.AliveCount())

	err := e.RandomizeWith(9, 2)
	assert.True(t, IsInvalidArgument(err))
	assert.Equal(t, 16, e.AliveCount(), "rejected reseed leaves grid untouched")
}

func TestEngine_Clear(t *testing.T) {
	e := newTestEngine(t, 4, 4)
	require.NoError(t, e.RandomizeWith(2, 1))
	e.Step()
	e.CycleCheck()

	e.Clear()
	assert.Equal(t, 0, e.AliveCount())
	assert.Equal(t, 0, e.Generation())
	assert.Equal(t, Continue, e.CycleCheck())
}

func TestEngine_LoadShapeMismatch(t *testing.T) {
	e := newTestEngine(t, 3, 3)
	err := e.Load(grid.New(2, 3))
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
}

func TestEngine_ResetTrackingKeepsGrid(t *testing.T) {
	e := newTestEngine(t, 2, 2)
	require.NoError(t, e.Load(grid.MustParse("O.\n.O")))
	e.CycleCheck()
	e.Step()

	e.ResetTracking()
	assert.Equal(t, 1, e.Generation())
	assert.Equal(t, 2, e.AliveCount())
	assert.Equal(t, Continue, e.CycleCheck())
}

func TestEngine_RunBatch(t *testing.T) {
	e := newTestEngine(t, 2, 2)
	require.NoError(t, e.Load(grid.MustParse("O.\n.O")))
	e.CycleCheck()

	stats, err := e.RunBatch(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, SimulationStats{Alive: 2, Dead: 2}, stats)
	assert.Equal(t, 5, e.Generation())
	assert.Equal(t, ".O\nO.", e.Snapshot().String())
	assert.Equal(t, Continue, e.CycleCheck(), "tracking is reset after a batch")
}

func TestEngine_RunBatchZeroSteps(t *testing.T) {
	e := newTestEngine(t, 8, 8)
	e.Randomize(77)
	before := e.Snapshot()

	stats, err := e.RunBatch(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, e.Snapshot().Equal(before))
	assert.Equal(t, before.AliveCount(), stats.Alive)
	assert.Equal(t, 64-before.AliveCount(), stats.Dead)
}

func TestEngine_RunBatchNegativeLeavesEngineUntouched(t *testing.T) {
	e := newTestEngine(t, 4, 4)
	e.Randomize(5)
	before := e.Snapshot()

	_, err := e.RunBatch(context.Background(), -3)
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
	assert.True(t, e.Snapshot().Equal(before))
	assert.Equal(t, 0, e.Generation())
}

func TestEngine_RunBatchObserved(t *testing.T) {
	e := newTestEngine(t, 2, 2)
	require.NoError(t, e.Load(grid.MustParse("O.\n.O")))
	e.Step()

	var gens []int
	_, err := e.RunBatchObserved(context.Background(), 3, func(generation, alive int) {
		gens = append(gens, generation)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, gens, "generations continue from the engine's counter")
}

func TestEngine_RunDefaultBatch(t *testing.T) {
	e := newTestEngine(t, 3, 3, WithBatchSteps(4))
	_, err := e.RunDefaultBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, e.Generation())
}

func TestEngine_ParallelWorkersMatchSerial(t *testing.T) {
	serial := newTestEngine(t, 40, 40)
	parallel := newTestEngine(t, 40, 40, WithWorkers(6))
	serial.Randomize(8)
	parallel.Randomize(8)

	for i := 0; i < 20; i++ {
		assert.Equal(t, serial.Step(), parallel.Step())
	}
	assert.Equal(t, serial.Fingerprint(), parallel.Fingerprint())
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hexlife/internal/grid"
)

// centerWith builds a 5x5 grid whose center (2,2) has the given state and
// exactly k alive neighbors.
func centerWith(t *testing.T, c grid.Cell, k int) *grid.Grid {
	t.Helper()
	g := grid.New(5, 5)
	require.NoError(t, g.Set(2, 2, c))
	for _, a := range grid.Neighbors(grid.Addr{Row: 2, Col: 2}, 5, 5)[:k] {
		require.NoError(t, g.Set(a.Row, a.Col, grid.Alive))
	}
	require.Equal(t, k, g.AliveNeighbors(2, 2))
	return g
}

func TestStep_RuleTable(t *testing.T) {
	tests := []struct {
		name      string
		cell      grid.Cell
		neighbors int
		wantAlive bool
	}{
		{"alive with 2 dies", grid.Alive, 2, false},
		{"alive with 3 survives", grid.Alive, 3, true},
		{"alive with 4 survives", grid.Alive, 4, true},
		{"alive with 5 dies", grid.Alive, 5, false},
		{"alive with 6 dies", grid.Alive, 6, false},
		{"dead with 1 stays dead", grid.Dead, 1, false},
		{"dead with 2 is born", grid.Dead, 2, true},
		{"dead with 3 stays dead", grid.Dead, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := Step(centerWith(t, tt.cell, tt.neighbors), DefaultRule())
			assert.Equal(t, tt.wantAlive, next.Alive(2, 2))
		})
	}
}

func TestStep_AllDeadIsFixedPoint(t *testing.T) {
	g := grid.New(6, 9)
	next := Step(g, DefaultRule())
	assert.True(t, next.Equal(g))
	assert.Equal(t, 0, next.AliveCount())
}

func TestStep_TwoByTwoOscillator(t *testing.T) {
	a := grid.MustParse("O.\n.O")
	b := Step(a, DefaultRule())
	assert.Equal(t, ".O\nO.", b.String())
	assert.True(t, Step(b, DefaultRule()).Equal(a))
}

func TestStep_FourByFourOscillator(t *testing.T) {
	a := grid.MustParse(`
		.O.O
		....
		....
		....
	`)
	b := Step(a, DefaultRule())
	assert.Equal(t, "..O.\n..O.\n....\n....", b.String())
	assert.True(t, Step(b, DefaultRule()).Equal(a))
}

func TestStep_SingleCellDies(t *testing.T) {
	g := grid.MustParse("...\n.O.\n...")
	assert.Equal(t, 0, Step(g, DefaultRule()).AliveCount())
}

func TestStep_PreservesDimensionsAndDoesNotMutate(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {1, 7}, {7, 1}, {4, 5}, {16, 16}} {
		g := grid.New(dims[0], dims[1])
		g.Randomize(grid.NewRand(int64(dims[0]*31+dims[1])), 0.4)
		before := g.Clone()

		next := Step(g, DefaultRule())
		assert.Equal(t, g.Rows(), next.Rows())
		assert.Equal(t, g.Cols(), next.Cols())
		assert.True(t, g.Equal(before), "source must not be modified")

		for r := 0; r < next.Rows(); r++ {
			for _, c := range next.Row(r) {
				assert.Contains(t, []grid.Cell{grid.Dead, grid.Alive}, c)
			}
		}
	}
}

func TestStep_Deterministic(t *testing.T) {
	g := grid.New(30, 30)
	g.Randomize(grid.NewRand(99), 0.2)

	first := Step(g, DefaultRule())
	for i := 0; i < 5; i++ {
		assert.True(t, Step(g, DefaultRule()).Equal(first))
	}
}

func TestStepInto_ParallelMatchesSerial(t *testing.T) {
	src := grid.New(37, 23)
	src.Randomize(grid.NewRand(5), 0.3)
	serial := Step(src, DefaultRule())

	for _, workers := range []int{2, 3, 4, 8, 64} {
		dst := grid.New(37, 23)
		StepInto(dst, src, DefaultRule(), workers)
		assert.True(t, dst.Equal(serial), "workers=%d", workers)
	}
}

func TestStepInto_OverwritesDestination(t *testing.T) {
	src := grid.New(3, 3)
	dst := grid.MustParse("OOO\nOOO\nOOO")
	StepInto(dst, src, DefaultRule(), 1)
	assert.Equal(t, 0, dst.AliveCount())
}

func recoverError(t *testing.T, fn func()) (err error) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		var ok bool
		err, ok = r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
	}()
	fn()
	return nil
}

func TestStepInto_DimensionMismatchPanics(t *testing.T) {
	err := recoverError(t, func() {
		StepInto(grid.New(3, 3), grid.New(3, 4), DefaultRule(), 1)
	})
	assert.True(t, IsDimensionMismatch(err))
	assert.Contains(t, err.Error(), "3x3")
}

func TestStepInto_AliasPanics(t *testing.T) {
	g := grid.New(2, 2)
	err := recoverError(t, func() {
		StepInto(g, g, DefaultRule(), 1)
	})
	assert.True(t, IsInvalidArgument(err))
}

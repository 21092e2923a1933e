package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeighbors_EvenColumn(t *testing.T) {
	got := Neighbors(Addr{2, 2}, 5, 5)
	want := []Addr{{1, 2}, {2, 1}, {2, 3}, {3, 2}, {1, 3}, {1, 1}}
	assert.Equal(t, want, got)
}

func TestNeighbors_OddColumn(t *testing.T) {
	got := Neighbors(Addr{2, 1}, 5, 5)
	want := []Addr{{1, 1}, {2, 0}, {2, 2}, {3, 1}, {3, 2}, {3, 0}}
	assert.Equal(t, want, got)
}

func TestNeighbors_DropsOutOfBounds(t *testing.T) {
	// Top-left corner, even column: up-diagonals fall off the grid.
	assert.Equal(t, []Addr{{0, 1}, {1, 0}}, Neighbors(Addr{0, 0}, 5, 5))

	// Bottom-left corner, even column: keeps the up-right diagonal.
	assert.Equal(t, []Addr{{3, 0}, {4, 1}, {3, 1}}, Neighbors(Addr{4, 0}, 5, 5))

	// A 1x1 grid has no neighbors at all.
	assert.Empty(t, Neighbors(Addr{0, 0}, 1, 1))
}

func TestNeighborCount_Table(t *testing.T) {
	want := [5][5]int{
		{2, 5, 3, 5, 2},
		{4, 6, 6, 6, 4},
		{4, 6, 6, 6, 4},
		{4, 6, 6, 6, 4},
		{3, 3, 5, 3, 3},
	}
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			a := Addr{r, c}
			assert.Equal(t, want[r][c], NeighborCount(a, 5, 5), "cell %s", a)
			assert.Len(t, Neighbors(a, 5, 5), want[r][c], "cell %s", a)
		}
	}
}

func TestNeighborCount_Bounds(t *testing.T) {
	for _, dims := range [][2]int{{2, 2}, {3, 7}, {8, 5}, {10, 10}} {
		rows, cols := dims[0], dims[1]
		minCount := MaxNeighbors
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				n := NeighborCount(Addr{r, c}, rows, cols)
				assert.LessOrEqual(t, n, MaxNeighbors)
				assert.GreaterOrEqual(t, n, 2)
				minCount = min(minCount, n)
				if r > 0 && r < rows-1 && c > 0 && c < cols-1 {
					assert.Equal(t, MaxNeighbors, n, "interior cell (%d,%d)", r, c)
				}
			}
		}
		// The top-left corner always has the fewest neighbors.
		assert.Equal(t, minCount, NeighborCount(Addr{0, 0}, rows, cols), "grid %dx%d", rows, cols)
	}
}

func TestNeighbors_Symmetric(t *testing.T) {
	const rows, cols = 6, 7
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			a := Addr{r, c}
			for _, b := range Neighbors(a, rows, cols) {
				assert.Contains(t, Neighbors(b, rows, cols), a, "%s lists %s but not vice versa", a, b)
			}
		}
	}
}

func TestAliveNeighbors(t *testing.T) {
	g := MustParse(`
		.....
		.O.O.
		..O..
		..O..
		.....
	`)
	// (2,2) sees (1,1), (1,3) diagonally and (3,2) below.
	assert.Equal(t, 3, g.AliveNeighbors(2, 2))
	// (1,2) sees (1,1), (1,3) and (2,2).
	assert.Equal(t, 3, g.AliveNeighbors(1, 2))
	assert.Equal(t, 0, g.AliveNeighbors(4, 4))
}

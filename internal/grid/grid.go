package grid

import (
	"math/rand/v2"
	"slices"
)

// Grid stores a rows x cols matrix of cells in row-major order.
//
// A Grid is mutable and not safe for concurrent writes. Read-only sharing
// goes through Snapshot.
type Grid struct {
	rows, cols int
	cells      []Cell
}

// New allocates an all-dead grid. Non-positive dimensions are clamped to 1.
func New(rows, cols int) *Grid {
	if rows <= 0 {
		rows = 1
	}
	if cols <= 0 {
		cols = 1
	}
	return &Grid{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Len returns rows*cols.
func (g *Grid) Len() int { return len(g.cells) }

// SameShape reports whether g and other have identical dimensions.
func (g *Grid) SameShape(other *Grid) bool {
	return g.rows == other.rows && g.cols == other.cols
}

func (g *Grid) index(row, col int) int { return row*g.cols + col }

func (g *Grid) check(a Addr) error {
	if !a.In(g.rows, g.cols) {
		return &BoundsError{Addr: a, Rows: g.rows, Cols: g.cols}
	}
	return nil
}

// At returns the cell at (row, col).
func (g *Grid) At(row, col int) (Cell, error) {
	if err := g.check(Addr{row, col}); err != nil {
		return Dead, err
	}
	return g.cells[g.index(row, col)], nil
}

// Alive reports whether (row, col) is alive. Out-of-bounds addresses read as dead.
func (g *Grid) Alive(row, col int) bool {
	if !(Addr{row, col}).In(g.rows, g.cols) {
		return false
	}
	return g.cells[g.index(row, col)] == Alive
}

// Set writes a cell value.
func (g *Grid) Set(row, col int, c Cell) error {
	if err := g.check(Addr{row, col}); err != nil {
		return err
	}
	g.cells[g.index(row, col)] = c
	return nil
}

// Toggle flips the cell at a between Dead and Alive.
func (g *Grid) Toggle(a Addr) error {
	if err := g.check(a); err != nil {
		return err
	}
	i := g.index(a.Row, a.Col)
	g.cells[i] ^= Alive
	return nil
}

// Clear sets every cell dead.
func (g *Grid) Clear() {
	clear(g.cells)
}

// Randomize sets each cell alive independently with probability pAlive.
// pAlive is clamped to [0, 1].
func (g *Grid) Randomize(r *rand.Rand, pAlive float64) {
	pAlive = min(max(pAlive, 0), 1)
	for i := range g.cells {
		if r.Float64() < pAlive {
			g.cells[i] = Alive
		} else {
			g.cells[i] = Dead
		}
	}
}

// AliveCount returns the number of alive cells.
func (g *Grid) AliveCount() int {
	n := 0
	for _, c := range g.cells {
		n += int(c)
	}
	return n
}

// Equal reports whether both grids have the same dimensions and cells.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || !g.SameShape(other) {
		return false
	}
	return slices.Equal(g.cells, other.cells)
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{rows: g.rows, cols: g.cols, cells: cells}
}

// CopyFrom overwrites g's cells with src's. Both grids must share a shape.
func (g *Grid) CopyFrom(src *Grid) bool {
	if !g.SameShape(src) {
		return false
	}
	copy(g.cells, src.cells)
	return true
}

// Row exposes one row of the backing slice. Used by the stepper to write
// disjoint bands without per-cell bounds checks.
func (g *Grid) Row(row int) []Cell {
	start := row * g.cols
	return g.cells[start : start+g.cols]
}

// Snapshot returns an immutable copy of the grid.
func (g *Grid) Snapshot() Snapshot {
	return Snapshot{g: g.Clone()}
}

// String renders the grid with 'O' for alive and '.' for dead, one line per row.
func (g *Grid) String() string {
	return format(g)
}

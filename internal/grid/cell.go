package grid

import "fmt"

// Cell is the state of a single grid cell.
type Cell uint8

const (
	Dead  Cell = 0
	Alive Cell = 1
)

// String returns "alive" or "dead".
func (c Cell) String() string {
	if c == Alive {
		return "alive"
	}
	return "dead"
}

// Addr identifies a cell by row and column.
type Addr struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String formats the address as "(row,col)".
func (a Addr) String() string {
	return fmt.Sprintf("(%d,%d)", a.Row, a.Col)
}

// In reports whether the address lies inside a rows x cols grid.
func (a Addr) In(rows, cols int) bool {
	return a.Row >= 0 && a.Row < rows && a.Col >= 0 && a.Col < cols
}

// BoundsError is returned when an address falls outside the grid.
type BoundsError struct {
	Addr Addr
	Rows int
	Cols int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("address %s out of bounds for %dx%d grid", e.Addr, e.Rows, e.Cols)
}

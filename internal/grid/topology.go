package grid

// offset is a (row, col) delta.
type offset struct{ dr, dc int }

// Base offsets shared by every column, then the two diagonals that depend
// on column parity. Even columns lean up, odd columns lean down.
var (
	baseOffsets = [4]offset{{-1, 0}, {0, -1}, {0, +1}, {+1, 0}}
	evenDiag    = [2]offset{{-1, +1}, {-1, -1}}
	oddDiag     = [2]offset{{+1, +1}, {+1, -1}}
)

// MaxNeighbors is the neighbor count of an interior cell.
const MaxNeighbors = 6

func diagonals(col int) [2]offset {
	if col%2 == 0 {
		return evenDiag
	}
	return oddDiag
}

// Neighbors returns the in-bounds neighbors of a in a rows x cols grid.
// Edges do not wrap, so the result holds between 0 and 6 addresses.
func Neighbors(a Addr, rows, cols int) []Addr {
	return AppendNeighbors(make([]Addr, 0, MaxNeighbors), a, rows, cols)
}

// AppendNeighbors appends the neighbors of a to dst and returns the extended slice.
func AppendNeighbors(dst []Addr, a Addr, rows, cols int) []Addr {
	add := func(o offset) {
		n := Addr{Row: a.Row + o.dr, Col: a.Col + o.dc}
		if n.In(rows, cols) {
			dst = append(dst, n)
		}
	}
	for _, o := range baseOffsets {
		add(o)
	}
	for _, o := range diagonals(a.Col) {
		add(o)
	}
	return dst
}

// NeighborCount returns the number of in-bounds neighbors of a.
func NeighborCount(a Addr, rows, cols int) int {
	n := 0
	for _, o := range baseOffsets {
		if (Addr{a.Row + o.dr, a.Col + o.dc}).In(rows, cols) {
			n++
		}
	}
	for _, o := range diagonals(a.Col) {
		if (Addr{a.Row + o.dr, a.Col + o.dc}).In(rows, cols) {
			n++
		}
	}
	return n
}

// AliveNeighbors counts the alive neighbors of (row, col) in g.
func (g *Grid) AliveNeighbors(row, col int) int {
	n := 0
	for _, o := range baseOffsets {
		if g.Alive(row+o.dr, col+o.dc) {
			n++
		}
	}
	for _, o := range diagonals(col) {
		if g.Alive(row+o.dr, col+o.dc) {
			n++
		}
	}
	return n
}

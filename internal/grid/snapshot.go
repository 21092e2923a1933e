package grid

// Snapshot is a read-only view of a grid at one point in time.
// The zero value is an empty 0x0 snapshot.
type Snapshot struct {
	g *Grid
}

// Rows returns the number of rows.
func (s Snapshot) Rows() int {
	if s.g == nil {
		return 0
	}
	return s.g.rows
}

// Cols returns the number of columns.
func (s Snapshot) Cols() int {
	if s.g == nil {
		return 0
	}
	return s.g.cols
}

// Alive reports whether (row, col) is alive.
func (s Snapshot) Alive(row, col int) bool {
	if s.g == nil {
		return false
	}
	return s.g.Alive(row, col)
}

// AliveCount returns the number of alive cells.
func (s Snapshot) AliveCount() int {
	if s.g == nil {
		return 0
	}
	return s.g.AliveCount()
}

// Equal reports cell-wise equality.
func (s Snapshot) Equal(other Snapshot) bool {
	if s.g == nil || other.g == nil {
		return s.g == other.g
	}
	return s.g.Equal(other.g)
}

// Fingerprint returns the content hash of the snapshot.
func (s Snapshot) Fingerprint() Fingerprint {
	if s.g == nil {
		return 0
	}
	return Of(s.g)
}

// Grid returns a mutable copy of the snapshot.
func (s Snapshot) Grid() *Grid {
	if s.g == nil {
		return nil
	}
	return s.g.Clone()
}

// String renders the snapshot like Grid.String.
func (s Snapshot) String() string {
	if s.g == nil {
		return ""
	}
	return format(s.g)
}

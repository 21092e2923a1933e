package grid

import (
	"fmt"
	"strings"
)

// Characters used by Parse and String.
const (
	AliveRune = 'O'
	DeadRune  = '.'
)

func format(g *Grid) string {
	var b strings.Builder
	b.Grow(g.rows * (g.cols + 1))
	for r := 0; r < g.rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, c := range g.Row(r) {
			if c == Alive {
				b.WriteByte(AliveRune)
			} else {
				b.WriteByte(DeadRune)
			}
		}
	}
	return b.String()
}

// Parse builds a grid from an ASCII picture: one line per row, 'O' (or '#')
// for alive and '.' (or '_') for dead. Blank lines and surrounding spaces
// are ignored. All rows must have the same width.
func Parse(picture string) (*Grid, error) {
	var lines []string
	for _, line := range strings.Split(picture, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("parse grid: empty picture")
	}

	cols := len(lines[0])
	g := New(len(lines), cols)
	for r, line := range lines {
		if len(line) != cols {
			return nil, fmt.Errorf("parse grid: row %d has width %d, expected %d", r, len(line), cols)
		}
		row := g.Row(r)
		for c := 0; c < cols; c++ {
			switch line[c] {
			case AliveRune, '#':
				row[c] = Alive
			case DeadRune, '_':
				row[c] = Dead
			default:
				return nil, fmt.Errorf("parse grid: unexpected %q at %s", line[c], Addr{r, c})
			}
		}
	}
	return g, nil
}

// MustParse is like Parse but panics on error.
// Use only in tests or with literal pictures.
func MustParse(picture string) *Grid {
	g, err := Parse(picture)
	if err != nil {
		panic(err)
	}
	return g
}

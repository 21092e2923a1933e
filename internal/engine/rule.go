package engine

import (
	"fmt"
	"strings"

	"github.com/roach88/hexlife/internal/grid"
)

// Rule is a totalistic birth/survival rule over hex neighbor counts.
//
// Bit n of birth (survive) is set when a dead (alive) cell with exactly n
// alive neighbors is alive in the next generation. Counts range over
// 0..grid.MaxNeighbors. The zero Rule kills every cell.
type Rule struct {
	birth   uint8
	survive uint8
}

// DefaultRule is B2/S34: a dead cell with exactly 2 alive neighbors is born,
// an alive cell with 3 or 4 survives, everything else is dead.
func DefaultRule() Rule {
	return MustRule([]int{3, 4}, []int{2})
}

// NewRule builds a rule from survival and birth neighbor counts.
func NewRule(survival, birth []int) (Rule, error) {
	var r Rule
	for _, n := range survival {
		if n < 0 || n > grid.MaxNeighbors {
			return Rule{}, NewInvalidArgumentError("rule", "survival count %d outside 0..%d", n, grid.MaxNeighbors)
		}
		r.survive |= 1 << n
	}
	for _, n := range birth {
		if n < 0 || n > grid.MaxNeighbors {
			return Rule{}, NewInvalidArgumentError("rule", "birth count %d outside 0..%d", n, grid.MaxNeighbors)
		}
		r.birth |= 1 << n
	}
	return r, nil
}

// MustRule is like NewRule but panics on error.
func MustRule(survival, birth []int) Rule {
	r, err := NewRule(survival, birth)
	if err != nil {
		panic(err)
	}
	return r
}

// ParseRule parses "B<digits>/S<digits>" notation, e.g. "B2/S34".
// The halves may appear in either order and letters are case-insensitive.
func ParseRule(s string) (Rule, error) {
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(s)), "/")
	if len(parts) != 2 {
		return Rule{}, NewInvalidArgumentError("rule", "%q: want B<counts>/S<counts>", s)
	}

	var birth, survival []int
	var sawB, sawS bool
	for _, part := range parts {
		if part == "" {
			return Rule{}, NewInvalidArgumentError("rule", "%q: empty half", s)
		}
		counts := make([]int, 0, len(part)-1)
		for _, ch := range part[1:] {
			if ch < '0' || ch > '9' {
				return Rule{}, NewInvalidArgumentError("rule", "%q: unexpected %q", s, ch)
			}
			counts = append(counts, int(ch-'0'))
		}
		switch part[0] {
		case 'B':
			birth, sawB = counts, true
		case 'S':
			survival, sawS = counts, true
		default:
			return Rule{}, NewInvalidArgumentError("rule", "%q: halves must start with B or S", s)
		}
	}
	if !sawB || !sawS {
		return Rule{}, NewInvalidArgumentError("rule", "%q: need one B half and one S half", s)
	}
	return NewRule(survival, birth)
}

// Next returns the state of a cell with n alive neighbors in the next generation.
func (r Rule) Next(c grid.Cell, n int) grid.Cell {
	if n < 0 || n > grid.MaxNeighbors {
		return grid.Dead
	}
	mask := r.birth
	if c == grid.Alive {
		mask = r.survive
	}
	if mask&(1<<n) != 0 {
		return grid.Alive
	}
	return grid.Dead
}

// SurvivalCounts returns the neighbor counts that keep an alive cell alive.
func (r Rule) SurvivalCounts() []int { return maskCounts(r.survive) }

// BirthCounts returns the neighbor counts that bring a dead cell to life.
func (r Rule) BirthCounts() []int { return maskCounts(r.birth) }

// String formats the rule as "B2/S34".
func (r Rule) String() string {
	var b strings.Builder
	b.WriteByte('B')
	for _, n := range r.BirthCounts() {
		fmt.Fprintf(&b, "%d", n)
	}
	b.WriteString("/S")
	for _, n := range r.SurvivalCounts() {
		fmt.Fprintf(&b, "%d", n)
	}
	return b.String()
}

func maskCounts(mask uint8) []int {
	counts := []int{}
	for n := 0; n <= grid.MaxNeighbors; n++ {
		if mask&(1<<n) != 0 {
			counts = append(counts, n)
		}
	}
	return counts
}

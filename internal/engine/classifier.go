package engine

import (
	"fmt"

	"github.com/roach88/hexlife/internal/grid"
)

// DefaultHistoryLimit is the default classifier window.
const DefaultHistoryLimit = 100

// Label is the classifier's verdict on the recent trajectory.
type Label int

const (
	// Unclassified is the zero Label, used when no classification was made.
	Unclassified Label = iota
	// Stable means the grid equals the immediately preceding generation.
	Stable
	// Oscillating means the grid equals an earlier entry in the window.
	Oscillating
	// Chaotic means no match was found in the window.
	Chaotic
)

var labelNames = [...]string{
	Unclassified: "unclassified",
	Stable:       "stable",
	Oscillating:  "oscillating",
	Chaotic:      "chaotic",
}

// String returns the lowercase label name.
func (l Label) String() string {
	if l < 0 || int(l) >= len(labelNames) {
		return fmt.Sprintf("label(%d)", int(l))
	}
	return labelNames[l]
}

// ParseLabel is the inverse of Label.String.
func ParseLabel(s string) (Label, error) {
	for i, name := range labelNames {
		if name == s {
			return Label(i), nil
		}
	}
	return Unclassified, fmt.Errorf("unknown label %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(b []byte) error {
	parsed, err := ParseLabel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

type historyEntry struct {
	snap grid.Snapshot
	fp   grid.Fingerprint
}

// Classifier labels a trajectory from a bounded window of recent snapshots.
//
// The label is a heuristic over the window, not a proof of periodicity: a
// cycle longer than the window reads as Chaotic.
//
// Not safe for concurrent use.
type Classifier struct {
	limit   int
	history []historyEntry
}

// NewClassifier creates a classifier keeping at most limit snapshots.
// A non-positive limit selects DefaultHistoryLimit.
func NewClassifier(limit int) *Classifier {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &Classifier{limit: limit, history: make([]historyEntry, 0, limit+1)}
}

// Classify appends s to the window and labels it.
//
// Stable is checked before Oscillating: a state equal to its immediate
// predecessor is Stable even though it also matches an earlier entry.
func (c *Classifier) Classify(s grid.Snapshot) Label {
	cur := historyEntry{snap: s, fp: s.Fingerprint()}
	c.history = append(c.history, cur)
	if len(c.history) > c.limit {
		copy(c.history, c.history[1:])
		c.history[len(c.history)-1] = historyEntry{}
		c.history = c.history[:len(c.history)-1]
	}

	n := len(c.history)
	if n >= 2 && sameState(c.history[n-2], cur) {
		return Stable
	}
	for _, prev := range c.history[:n-1] {
		if sameState(prev, cur) {
			return Oscillating
		}
	}
	return Chaotic
}

func sameState(a, b historyEntry) bool {
	return a.fp == b.fp && a.snap.Equal(b.snap)
}

// Len returns the number of snapshots in the window.
func (c *Classifier) Len() int { return len(c.history) }

// Limit returns the window size.
func (c *Classifier) Limit() int { return c.limit }

// Reset empties the window.
func (c *Classifier) Reset() {
	clear(c.history)
	c.history = c.history[:0]
}

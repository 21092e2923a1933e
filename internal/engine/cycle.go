package engine

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/roach88/hexlife/internal/grid"
)

// Verdict is the outcome of a cycle check.
type Verdict int

const (
	// Continue means the observed state is new since the last reset.
	Continue Verdict = iota
	// LoopDetected means the observed state was already seen since the last reset.
	LoopDetected
)

// String returns "continue" or "loop_detected".
func (v Verdict) String() string {
	if v == LoopDetected {
		return "loop_detected"
	}
	return "continue"
}

// ParseVerdict is the inverse of Verdict.String.
func ParseVerdict(s string) (Verdict, error) {
	switch s {
	case "continue":
		return Continue, nil
	case "loop_detected":
		return LoopDetected, nil
	}
	return Continue, fmt.Errorf("unknown verdict %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (v Verdict) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Verdict) UnmarshalText(b []byte) error {
	parsed, err := ParseVerdict(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// CycleGuard remembers grid fingerprints seen since the last reset and
// reports when a state repeats.
//
// A repeat means the trajectory has entered a cycle: the rule is
// deterministic, so every later state is already known. The guard only
// reports; deciding whether to reseed belongs to the driver.
//
// Fingerprint equality is treated as state equality. See grid.Fingerprint
// for the collision bound.
//
// Not safe for concurrent use.
type CycleGuard struct {
	seen mapset.Set[grid.Fingerprint]
}

// NewCycleGuard creates an empty guard.
func NewCycleGuard() *CycleGuard {
	return &CycleGuard{seen: mapset.New[grid.Fingerprint]()}
}

// Observe fingerprints g and records it.
// Returns LoopDetected if the state was already seen, Continue otherwise.
func (c *CycleGuard) Observe(g *grid.Grid) Verdict {
	return c.ObserveFingerprint(g.Fingerprint())
}

// ObserveFingerprint is Observe for a precomputed fingerprint.
func (c *CycleGuard) ObserveFingerprint(fp grid.Fingerprint) Verdict {
	if c.seen.Has(fp) {
		return LoopDetected
	}
	c.seen.Put(fp)
	return Continue
}

// Seen reports whether fp was observed since the last reset without recording it.
func (c *CycleGuard) Seen(fp grid.Fingerprint) bool {
	return c.seen.Has(fp)
}

// Reset forgets every observed state.
func (c *CycleGuard) Reset() {
	c.seen = mapset.New[grid.Fingerprint]()
}

// Size returns the number of distinct states recorded since the last reset.
func (c *CycleGuard) Size() int {
	return c.seen.Size()
}

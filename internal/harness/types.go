package harness

import (
	"github.com/roach88/hexlife/internal/engine"
	"github.com/roach88/hexlife/internal/session"
)

// TraceEvent is one tick as recorded in a scenario trace.
type TraceEvent struct {
	Seq        int64          `json:"seq"`
	Epoch      int            `json:"epoch"`
	Generation int            `json:"generation"`
	Verdict    engine.Verdict `json:"verdict"`
	Label      engine.Label   `json:"label"`
	Alive      int            `json:"alive"`
	Reseeded   bool           `json:"reseeded,omitempty"`
	Halted     bool           `json:"halted,omitempty"`
}

func eventOf(t session.Tick) TraceEvent {
	return TraceEvent{
		Seq:        t.Seq,
		Epoch:      t.Epoch,
		Generation: t.Generation,
		Verdict:    t.Verdict,
		Label:      t.Label,
		Alive:      t.Alive,
		Reseeded:   t.Reseeded,
		Halted:     t.Halted,
	}
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace holds every tick in seq order.
	Trace []TraceEvent `json:"trace"`

	// FinalPattern is the grid after the last tick.
	FinalPattern string `json:"final_pattern"`

	// Errors holds assertion failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Last returns the final trace event, or false for an empty trace.
func (r *Result) Last() (TraceEvent, bool) {
	if len(r.Trace) == 0 {
		return TraceEvent{}, false
	}
	return r.Trace[len(r.Trace)-1], true
}

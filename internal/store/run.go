package store

import (
	"fmt"

	"github.com/roach88/hexlife/internal/engine"
	"github.com/roach88/hexlife/internal/grid"
	"github.com/roach88/hexlife/internal/session"
)

// Run holds everything needed to re-simulate a stored run.
type Run struct {
	ID           string
	Rows         int
	Cols         int
	Rule         string
	Seed         int64
	PAlive       float64
	HistoryLimit int
	Workers      int
	AutoReseed   bool
	MaxReseeds   int
	CycleGuard   bool
	// Pattern is the starting picture; empty means the grid was
	// randomized from Seed.
	Pattern string
	Tags    map[string]string
}

// NewSession builds the engine and session described by r and puts the
// grid in its starting state.
func (r Run) NewSession(opts ...session.Option) (*session.Session, error) {
	rule, err := engine.ParseRule(r.Rule)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", r.ID, err)
	}
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	eng, err := engine.New(r.Rows, r.Cols,
		engine.WithRule(rule),
		engine.WithAliveProbability(r.PAlive),
		engine.WithHistoryLimit(r.HistoryLimit),
		engine.WithWorkers(workers),
	)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", r.ID, err)
	}

	base := []session.Option{
		session.WithSeed(r.Seed),
		session.WithAutoReseed(r.AutoReseed),
		session.WithMaxReseeds(r.MaxReseeds),
		session.WithCycleGuard(r.CycleGuard),
	}
	s := session.New(eng, append(base, opts...)...)

	if r.Pattern == "" {
		s.Randomize()
		return s, nil
	}
	g, err := grid.Parse(r.Pattern)
	if err != nil {
		return nil, fmt.Errorf("run %s: pattern: %w", r.ID, err)
	}
	if err := s.Load(g); err != nil {
		return nil, fmt.Errorf("run %s: %w", r.ID, err)
	}
	return s, nil
}

// Reseed records one auto-reseed.
type Reseed struct {
	Seq   int64
	Epoch int
	Seed  int64
}

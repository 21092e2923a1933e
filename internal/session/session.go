package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/hexlife/internal/engine"
	"github.com/roach88/hexlife/internal/grid"
)

// ErrHalted is returned by Tick once the session has stopped on a repeated
// state.
var ErrHalted = errors.New("session halted")

// Tick records one driver iteration.
type Tick struct {
	Seq         int64            `json:"seq"`
	Epoch       int              `json:"epoch"`
	Seed        int64            `json:"seed"`
	Generation  int              `json:"generation"`
	Verdict     engine.Verdict   `json:"verdict"`
	Label       engine.Label     `json:"label"`
	Alive       int              `json:"alive"`
	Fingerprint grid.Fingerprint `json:"fingerprint"`
	Reseeded    bool             `json:"reseeded,omitempty"`
	Halted      bool             `json:"halted,omitempty"`
}

// Session runs the check, step and classify loop over an Engine.
//
// Not safe for concurrent use.
type Session struct {
	eng   *engine.Engine
	clock *Clock

	baseSeed   int64
	autoReseed bool
	maxReseeds int
	cycleGuard bool

	seed   int64
	epoch  int
	halted bool
}

// Option configures a Session.
type Option func(*Session)

// WithSeed sets the base seed. Epoch n reseeds with base+n.
//
// Default: 1
func WithSeed(seed int64) Option {
	return func(s *Session) {
		s.baseSeed = seed
	}
}

// WithAutoReseed controls whether a repeated state reseeds the grid
// instead of halting the session.
//
// Default: true
func WithAutoReseed(on bool) Option {
	return func(s *Session) {
		s.autoReseed = on
	}
}

// WithMaxReseeds halts the session after n reseeds. Zero means unlimited.
//
// Default: 0
func WithMaxReseeds(n int) Option {
	return func(s *Session) {
		s.maxReseeds = n
	}
}

// WithCycleGuard enables or disables the per-tick cycle check. With the
// guard disabled the session never reseeds or halts, which lets the
// classifier observe oscillation.
//
// Default: true
func WithCycleGuard(on bool) Option {
	return func(s *Session) {
		s.cycleGuard = on
	}
}

// WithClock sets the sequence clock.
//
// Default: NewClock()
func WithClock(c *Clock) Option {
	return func(s *Session) {
		s.clock = c
	}
}

// New creates a session over eng. The grid is left as is; call Randomize
// or Load to start a run from a known state.
func New(eng *engine.Engine, opts ...Option) *Session {
	s := &Session{
		eng:        eng,
		clock:      NewClock(),
		baseSeed:   1,
		autoReseed: true,
		cycleGuard: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxReseeds < 0 {
		s.maxReseeds = 0
	}
	s.seed = s.baseSeed
	return s
}

// Engine returns the driven engine.
func (s *Session) Engine() *engine.Engine { return s.eng }

// Epoch returns the number of reseeds since the last Randomize or Load.
func (s *Session) Epoch() int { return s.epoch }

// Seed returns the seed of the current epoch.
func (s *Session) Seed() int64 { return s.seed }

// BaseSeed returns the configured base seed.
func (s *Session) BaseSeed() int64 { return s.baseSeed }

// Halted reports whether the session stopped on a repeated state.
func (s *Session) Halted() bool { return s.halted }

// Seq returns the last sequence number handed out.
func (s *Session) Seq() int64 { return s.clock.Current() }

// Randomize seeds the grid with the base seed and restarts at epoch 0.
func (s *Session) Randomize() {
	s.restart()
	s.eng.Randomize(s.seed)
}

// Load installs pattern as the grid and restarts at epoch 0.
func (s *Session) Load(pattern *grid.Grid) error {
	if err := s.eng.Load(pattern); err != nil {
		return err
	}
	s.restart()
	return nil
}

func (s *Session) restart() {
	s.epoch = 0
	s.seed = s.baseSeed
	s.halted = false
}

func (s *Session) reseed() {
	s.epoch++
	s.seed = s.baseSeed + int64(s.epoch)
	s.eng.Randomize(s.seed)
}

// Tick runs one iteration.
//
// A repeated state reseeds the grid with the next epoch's seed and skips
// the step. Without auto-reseed, or once max reseeds is reached, the
// session halts: the returned Tick has Halted set and an Unclassified
// label, and later calls return ErrHalted.
func (s *Session) Tick() (Tick, error) {
	if s.halted {
		return Tick{}, ErrHalted
	}

	t := Tick{Seq: s.clock.Next(), Verdict: engine.Continue}
	if s.cycleGuard {
		t.Verdict = s.eng.CycleCheck()
	}

	if t.Verdict == engine.LoopDetected {
		loopAt := s.eng.Generation()
		if !s.autoReseed || (s.maxReseeds > 0 && s.epoch >= s.maxReseeds) {
			s.halted = true
			t.Halted = true
			s.fill(&t)
			slog.Info("loop detected, halting",
				"seq", t.Seq,
				"generation", loopAt,
				"epoch", s.epoch,
			)
			return t, nil
		}
		s.reseed()
		t.Reseeded = true
		slog.Info("loop detected, reseeding",
			"seq", t.Seq,
			"generation", loopAt,
			"epoch", s.epoch,
			"seed", s.seed,
		)
	} else {
		s.eng.Step()
	}

	t.Label = s.eng.Classify()
	s.fill(&t)
	slog.Debug("tick",
		"seq", t.Seq,
		"generation", t.Generation,
		"alive", t.Alive,
		"label", t.Label.String(),
	)
	return t, nil
}

func (s *Session) fill(t *Tick) {
	t.Epoch = s.epoch
	t.Seed = s.seed
	t.Generation = s.eng.Generation()
	t.Alive = s.eng.AliveCount()
	t.Fingerprint = s.eng.Fingerprint()
}

// Sink receives every tick produced by Run. A non-nil error stops the run.
type Sink func(Tick) error

// Run ticks until n ticks have run, the session halts, ctx is done or sink
// fails. It returns the number of ticks produced. A halt is a normal end
// and returns a nil error. A negative n runs until halt or cancellation.
func (s *Session) Run(ctx context.Context, n int, sink Sink) (int, error) {
	slog.Info("session started",
		"seed", s.baseSeed,
		"auto_reseed", s.autoReseed,
		"cycle_guard", s.cycleGuard,
		"ticks", n,
	)

	done := 0
	for n < 0 || done < n {
		if err := ctx.Err(); err != nil {
			return done, fmt.Errorf("session interrupted after %d ticks: %w", done, err)
		}
		t, err := s.Tick()
		if errors.Is(err, ErrHalted) {
			break
		}
		if err != nil {
			return done, err
		}
		done++
		if sink != nil {
			if err := sink(t); err != nil {
				return done, fmt.Errorf("tick %d: %w", t.Seq, err)
			}
		}
		if t.Halted {
			break
		}
	}

	slog.Info("session stopped",
		"ticks", done,
		"epoch", s.epoch,
		"halted", s.halted,
		"generation", s.eng.Generation(),
	)
	return done, nil
}

package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/roach88/hexlife/internal/session"
)

// RunState summarizes a stored run.
type RunState struct {
	Run        Run
	TickCount  int
	LastSeq    int64
	Epochs     int // reseeds recorded
	Halted     bool
	FinalAlive int
	FinalLabel string
}

// GetRunState loads a run and summarizes its ticks.
func (s *Store) GetRunState(ctx context.Context, runID string) (RunState, error) {
	run, err := s.ReadRun(ctx, runID)
	if err != nil {
		return RunState{}, fmt.Errorf("get run state: %w", err)
	}
	ticks, err := s.ReadTicks(ctx, runID)
	if err != nil {
		return RunState{}, fmt.Errorf("get run state: %w", err)
	}
	reseeds, err := s.ReadReseeds(ctx, runID)
	if err != nil {
		return RunState{}, fmt.Errorf("get run state: %w", err)
	}

	state := RunState{Run: run, TickCount: len(ticks), Epochs: len(reseeds)}
	if n := len(ticks); n > 0 {
		last := ticks[n-1]
		state.LastSeq = last.Seq
		state.Halted = last.Halted
		state.FinalAlive = last.Alive
		state.FinalLabel = last.Label.String()
	}
	return state, nil
}

// Divergence describes the first tick where a replay disagrees with the
// stored log.
type Divergence struct {
	Seq   int64
	Field string
	Want  string // stored
	Got   string // replayed
}

func (d Divergence) String() string {
	return fmt.Sprintf("seq %d: %s: stored %s, replayed %s", d.Seq, d.Field, d.Want, d.Got)
}

// ReplayResult is the outcome of VerifyRun.
type ReplayResult struct {
	RunID      string
	Ticks      int
	Divergence *Divergence
}

// OK reports whether the replay matched every stored tick.
func (r ReplayResult) OK() bool { return r.Divergence == nil }

// VerifyRun re-simulates a stored run from its recorded parameters and
// compares every replayed tick with the stored one.
func (s *Store) VerifyRun(ctx context.Context, runID string) (ReplayResult, error) {
	run, err := s.ReadRun(ctx, runID)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("verify run %s: %w", runID, err)
	}
	stored, err := s.ReadTicks(ctx, runID)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("verify run %s: %w", runID, err)
	}

	sess, err := run.NewSession()
	if err != nil {
		return ReplayResult{}, err
	}

	result := ReplayResult{RunID: runID, Ticks: len(stored)}
	for _, want := range stored {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		got, err := sess.Tick()
		if err != nil {
			result.Divergence = &Divergence{Seq: want.Seq, Field: "tick", Want: "present", Got: err.Error()}
			return result, nil
		}
		if d := compareTicks(want, got); d != nil {
			result.Divergence = d
			return result, nil
		}
	}
	return result, nil
}

func compareTicks(want, got session.Tick) *Divergence {
	fields := []struct {
		name      string
		want, got string
	}{
		{"seq", strconv.FormatInt(want.Seq, 10), strconv.FormatInt(got.Seq, 10)},
		{"epoch", strconv.Itoa(want.Epoch), strconv.Itoa(got.Epoch)},
		{"seed", strconv.FormatInt(want.Seed, 10), strconv.FormatInt(got.Seed, 10)},
		{"generation", strconv.Itoa(want.Generation), strconv.Itoa(got.Generation)},
		{"verdict", want.Verdict.String(), got.Verdict.String()},
		{"label", want.Label.String(), got.Label.String()},
		{"alive", strconv.Itoa(want.Alive), strconv.Itoa(got.Alive)},
		{"fingerprint", want.Fingerprint.String(), got.Fingerprint.String()},
		{"reseeded", strconv.FormatBool(want.Reseeded), strconv.FormatBool(got.Reseeded)},
		{"halted", strconv.FormatBool(want.Halted), strconv.FormatBool(got.Halted)},
	}
	for _, f := range fields {
		if f.want != f.got {
			return &Divergence{Seq: want.Seq, Field: f.name, Want: f.want, Got: f.got}
		}
	}
	return nil
}

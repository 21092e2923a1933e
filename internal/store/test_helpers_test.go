package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/hexlife/internal/session"
)

// createTestStore opens a fresh store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun returns a small patterned run that halts on a 2-cycle.
func createTestRun(id string) Run {
	return Run{
		ID:           id,
		Rows:         2,
		Cols:         2,
		Rule:         "B2/S34",
		Seed:         10,
		PAlive:       0.2,
		HistoryLimit: 100,
		Workers:      1,
		AutoReseed:   false,
		CycleGuard:   true,
		Pattern:      "O.\n.O",
	}
}

// recordRun creates run and stores every tick of a fresh session over it.
func recordRun(t *testing.T, s *Store, run Run, n int) {
	t.Helper()
	ctx := context.Background()
	if err := s.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun() failed: %v", err)
	}
	sess, err := run.NewSession()
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	buf := s.NewTickBuffer(run.ID, 8)
	if _, err := sess.Run(ctx, n, func(tk session.Tick) error { return buf.Add(ctx, tk) }); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if err := buf.Flush(ctx); err != nil {
		t.Fatalf("Flush() failed: %v", err)
	}
}

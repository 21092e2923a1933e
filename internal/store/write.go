package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/hexlife/internal/session"
)

// CreateRun inserts a run record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - rewriting the same run
// is silently ignored.
func (s *Store) CreateRun(ctx context.Context, run Run) error {
	tagsJSON, err := marshalTags(run.Tags)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, rows, cols, rule, seed, p_alive, history_limit, workers, auto_reseed, max_reseeds, cycle_guard, pattern, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Rows,
		run.Cols,
		run.Rule,
		run.Seed,
		run.PAlive,
		run.HistoryLimit,
		run.Workers,
		boolInt(run.AutoReseed),
		run.MaxReseeds,
		boolInt(run.CycleGuard),
		run.Pattern,
		tagsJSON,
	)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func writeTick(ctx context.Context, db execer, runID string, t session.Tick) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO ticks
		(run_id, seq, epoch, seed, generation, verdict, label, alive, fingerprint, reseeded, halted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`,
		runID,
		t.Seq,
		t.Epoch,
		t.Seed,
		t.Generation,
		t.Verdict.String(),
		t.Label.String(),
		t.Alive,
		t.Fingerprint.String(),
		boolInt(t.Reseeded),
		boolInt(t.Halted),
	)
	if err != nil {
		return fmt.Errorf("write tick %d: %w", t.Seq, err)
	}

	if t.Reseeded {
		if err := writeReseed(ctx, db, runID, Reseed{Seq: t.Seq, Epoch: t.Epoch, Seed: t.Seed}); err != nil {
			return err
		}
	}
	return nil
}

func writeReseed(ctx context.Context, db execer, runID string, r Reseed) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO reseeds (run_id, seq, epoch, seed)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, epoch) DO NOTHING
	`, runID, r.Seq, r.Epoch, r.Seed)
	if err != nil {
		return fmt.Errorf("write reseed %d: %w", r.Epoch, err)
	}
	return nil
}

// WriteTick appends one tick to a run. A reseeded tick also records a
// reseeds row. Duplicate seqs are silently ignored.
//
// Note: The run must exist (foreign key constraint).
func (s *Store) WriteTick(ctx context.Context, runID string, t session.Tick) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write tick: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := writeTick(ctx, tx, runID, t); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write tick: commit: %w", err)
	}
	return nil
}

// WriteTicks appends ticks in a single transaction.
func (s *Store) WriteTicks(ctx context.Context, runID string, ticks []session.Tick) error {
	if len(ticks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write ticks: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, t := range ticks {
		if err := writeTick(ctx, tx, runID, t); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write ticks: commit: %w", err)
	}
	return nil
}

// WriteReseed records an auto-reseed directly. WriteTick already does this
// for reseeded ticks.
func (s *Store) WriteReseed(ctx context.Context, runID string, r Reseed) error {
	return writeReseed(ctx, s.db, runID, r)
}

// TickBuffer batches ticks for a run and flushes them with WriteTicks.
// Its Add method is a session.Sink.
type TickBuffer struct {
	store *Store
	runID string
	size  int
	buf   []session.Tick
}

// NewTickBuffer creates a buffer that flushes every size ticks.
func (s *Store) NewTickBuffer(runID string, size int) *TickBuffer {
	if size < 1 {
		size = 1
	}
	return &TickBuffer{store: s, runID: runID, size: size, buf: make([]session.Tick, 0, size)}
}

// Add buffers t, flushing when the buffer is full.
func (b *TickBuffer) Add(ctx context.Context, t session.Tick) error {
	b.buf = append(b.buf, t)
	if len(b.buf) >= b.size {
		return b.Flush(ctx)
	}
	return nil
}

// Flush writes any buffered ticks.
func (b *TickBuffer) Flush(ctx context.Context) error {
	if err := b.store.WriteTicks(ctx, b.runID, b.buf); err != nil {
		return err
	}
	b.buf = b.buf[:0]
	return nil
}

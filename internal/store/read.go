package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/hexlife/internal/session"
)

// ReadRun retrieves a run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, rows, cols, rule, seed, p_alive, history_limit, workers, auto_reseed, max_reseeds, cycle_guard, pattern, tags
		FROM runs
		WHERE id = ?
	`, id)

	var (
		run        Run
		autoReseed int
		cycleGuard int
		tagsJSON   string
	)
	err := row.Scan(
		&run.ID,
		&run.Rows,
		&run.Cols,
		&run.Rule,
		&run.Seed,
		&run.PAlive,
		&run.HistoryLimit,
		&run.Workers,
		&autoReseed,
		&run.MaxReseeds,
		&cycleGuard,
		&run.Pattern,
		&tagsJSON,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}

	run.AutoReseed = autoReseed != 0
	run.CycleGuard = cycleGuard != 0
	run.Tags, err = unmarshalTags(tagsJSON)
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ReadTicks returns every tick of a run in seq order.
// Returns an empty slice (not nil) if the run has no ticks.
func (s *Store) ReadTicks(ctx context.Context, runID string) ([]session.Tick, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, epoch, seed, generation, verdict, label, alive, fingerprint, reseeded, halted
		FROM ticks
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query ticks: %w", err)
	}
	defer rows.Close()

	ticks := []session.Tick{}
	for rows.Next() {
		var r tickRow
		if err := rows.Scan(
			&r.seq,
			&r.epoch,
			&r.seed,
			&r.generation,
			&r.verdict,
			&r.label,
			&r.alive,
			&r.fingerprint,
			&r.reseeded,
			&r.halted,
		); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		t, err := r.decode()
		if err != nil {
			return nil, err
		}
		ticks = append(ticks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ticks: %w", err)
	}
	return ticks, nil
}

// ReadReseeds returns a run's reseeds in seq order.
func (s *Store) ReadReseeds(ctx context.Context, runID string) ([]Reseed, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, epoch, seed
		FROM reseeds
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query reseeds: %w", err)
	}
	defer rows.Close()

	reseeds := []Reseed{}
	for rows.Next() {
		var r Reseed
		if err := rows.Scan(&r.Seq, &r.Epoch, &r.Seed); err != nil {
			return nil, fmt.Errorf("scan reseed: %w", err)
		}
		reseeds = append(reseeds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reseeds: %w", err)
	}
	return reseeds, nil
}

// ListRunIDs returns every run ID. UUIDv7 IDs sort in creation order.
func (s *Store) ListRunIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM runs ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return ids, nil
}

// CountLabels returns how many ticks of a run carry each label.
func (s *Store) CountLabels(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT label, COUNT(*)
		FROM ticks
		WHERE run_id = ?
		GROUP BY label
		ORDER BY label ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("count labels: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			label string
			n     int
		)
		if err := rows.Scan(&label, &n); err != nil {
			return nil, fmt.Errorf("scan label count: %w", err)
		}
		counts[label] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate label counts: %w", err)
	}
	return counts, nil
}

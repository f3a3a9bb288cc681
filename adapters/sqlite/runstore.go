package sqlite

import (
	"context"
	"time"

	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/run"
	"github.com/artpar/tiger/ports"
)

// RunStore implements ports.RunStore using SQLite.
type RunStore struct {
	db *DB
}

var _ ports.RunStore = (*RunStore)(nil)

// NewRunStore creates a new SQLite run store.
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db}
}

// Record stores a finished run.
func (s *RunStore) Record(ctx context.Context, r run.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, mod, started_at, duration_ms, files, items, advice, info, warnings, errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Mod, r.StartedAt.UTC(), r.Duration.Milliseconds(), r.Files, r.Items,
		r.Counts[report.Advice], r.Counts[report.Info], r.Counts[report.Warning], r.Counts[report.Error])
	return err
}

// Recent returns up to limit runs, newest first.
func (s *RunStore) Recent(ctx context.Context, limit int) ([]run.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, mod, started_at, duration_ms, files, items, advice, info, warnings, errors
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []run.Run
	for rows.Next() {
		var r run.Run
		var ms int64
		var advice, info, warnings, errors int
		if err := rows.Scan(&r.ID, &r.Mod, &r.StartedAt, &ms, &r.Files, &r.Items, &advice, &info, &warnings, &errors); err != nil {
			return nil, err
		}
		r.Duration = time.Duration(ms) * time.Millisecond
		r.Counts = map[report.Severity]int{
			report.Advice:  advice,
			report.Info:    info,
			report.Warning: warnings,
			report.Error:   errors,
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

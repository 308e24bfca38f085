package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateRun creates a new pipeline run record and returns its ID
func (db *DB) CreateRun(ctx context.Context, query, resumeName string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO pipeline_runs (query, resume_name, status)
		 VALUES ($1, $2, 'running')
		 RETURNING id`,
		query, resumeName,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// RunCounts holds the per-run totals recorded on completion.
type RunCounts struct {
	EmailsFetched int
	Opportunities int
	RepliesSent   int
}

// CompleteRun marks a pipeline run as completed and records its totals.
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string, counts RunCounts) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE pipeline_runs
		 SET status = $1, emails_fetched = $2, opportunities = $3, replies_sent = $4, completed_at = NOW()
		 WHERE id = $5`,
		status, counts.EmailsFetched, counts.Opportunities, counts.RepliesSent, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves a pipeline run by ID
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, query, COALESCE(resume_name, ''), status, emails_fetched, opportunities, replies_sent, created_at, completed_at
		 FROM pipeline_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.Query, &run.ResumeName, &run.Status,
		&run.EmailsFetched, &run.Opportunities, &run.RepliesSent,
		&run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves recent pipeline runs
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, query, COALESCE(resume_name, ''), status, emails_fetched, opportunities, replies_sent, created_at, completed_at
		 FROM pipeline_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Query, &run.ResumeName, &run.Status,
			&run.EmailsFetched, &run.Opportunities, &run.RepliesSent,
			&run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// DeleteRun deletes a pipeline run and all its artifacts (via cascade)
func (db *DB) DeleteRun(ctx context.Context, runID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM pipeline_runs WHERE id = $1`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}

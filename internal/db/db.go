// Package db provides PostgreSQL persistence for pipeline runs, stage
// artifacts, and tracked applications.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pipeline stage names used as artifact keys.
const (
	StageEmails        = "emails"
	StageFiltered      = "filtered_emails"
	StageOpportunities = "opportunities"
	StageMatches       = "match_results"
	StageTailored      = "tailored_resumes"
	StageDrafts        = "reply_drafts"
	StageReplies       = "reply_results"
	StageCorrelated    = "correlated"
	StageSummary       = "summary"
)

// Run is one pipeline execution record.
type Run struct {
	ID            uuid.UUID  `json:"id"`
	Query         string     `json:"query"`
	ResumeName    string     `json:"resume_name,omitempty"`
	Status        string     `json:"status"`
	EmailsFetched int        `json:"emails_fetched"`
	Opportunities int        `json:"opportunities"`
	RepliesSent   int        `json:"replies_sent"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// InitSchema creates the tables if they do not exist.
func (db *DB) InitSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS pipeline_runs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			query TEXT NOT NULL DEFAULT '',
			resume_name TEXT,
			status TEXT NOT NULL DEFAULT 'running',
			emails_fetched INT NOT NULL DEFAULT 0,
			opportunities INT NOT NULL DEFAULT 0,
			replies_sent INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS artifacts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			run_id UUID NOT NULL REFERENCES pipeline_runs(id) ON DELETE CASCADE,
			stage TEXT NOT NULL,
			content JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (run_id, stage)
		)`,
		`CREATE TABLE IF NOT EXISTS tracked_applications (
			job_id TEXT PRIMARY KEY,
			company TEXT,
			status TEXT NOT NULL,
			content JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to init schema: %w", err)
		}
	}
	return nil
}

package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveArtifact stores a JSON artifact for a pipeline stage, replacing any
// earlier artifact for the same run and stage.
func (db *DB) SaveArtifact(ctx context.Context, runID uuid.UUID, stage string, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO artifacts (run_id, stage, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, stage) DO UPDATE SET content = $3, created_at = NOW()`,
		runID, stage, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", stage, err)
	}
	return nil
}

// GetArtifact retrieves a stage artifact and unmarshals it into out. A nil
// error with ok=false means no artifact exists for that stage.
func (db *DB) GetArtifact(ctx context.Context, runID uuid.UUID, stage string, out any) (bool, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM artifacts WHERE run_id = $1 AND stage = $2`,
		runID, stage,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to get artifact %s: %w", stage, err)
	}
	if len(content) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(content, out); err != nil {
		return false, fmt.Errorf("failed to decode artifact %s: %w", stage, err)
	}
	return true, nil
}

// ArtifactSummary is a lightweight view of an artifact for listing
type ArtifactSummary struct {
	ID        uuid.UUID `json:"id"`
	Stage     string    `json:"stage"`
	CreatedAt time.Time `json:"created_at"`
}

// ListArtifacts retrieves the artifacts saved for a run, oldest first.
func (db *DB) ListArtifacts(ctx context.Context, runID uuid.UUID) ([]ArtifactSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, stage, created_at FROM artifacts
		 WHERE run_id = $1 ORDER BY created_at ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []ArtifactSummary
	for rows.Next() {
		var a ArtifactSummary
		if err := rows.Scan(&a.ID, &a.Stage, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}

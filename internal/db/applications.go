package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sergiomunoz/opportunity-pipeline/internal/tracking"
)

// SaveApplications upserts the full tracked-application set. Each application
// is stored as a JSONB document keyed by job ID, with company and status
// lifted into columns for querying.
func (db *DB) SaveApplications(ctx context.Context, apps []tracking.TrackedApplication) error {
	for i := range apps {
		app := &apps[i]
		jsonBytes, err := json.Marshal(app)
		if err != nil {
			return fmt.Errorf("failed to marshal application %s: %w", app.JobID, err)
		}
		_, err = db.pool.Exec(ctx,
			`INSERT INTO tracked_applications (job_id, company, status, content, updated_at)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (job_id) DO UPDATE SET company = $2, status = $3, content = $4, updated_at = $5`,
			app.JobID, app.Company, string(app.Status), jsonBytes, app.LastUpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save application %s: %w", app.JobID, err)
		}
	}
	return nil
}

// LoadApplications retrieves all tracked applications, most recently updated
// first.
func (db *DB) LoadApplications(ctx context.Context) ([]tracking.TrackedApplication, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT content FROM tracked_applications ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []tracking.TrackedApplication
	for rows.Next() {
		var content []byte
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		var app tracking.TrackedApplication
		if err := json.Unmarshal(content, &app); err != nil {
			return nil, fmt.Errorf("failed to decode application: %w", err)
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// DeleteApplication removes one tracked application.
func (db *DB) DeleteApplication(ctx context.Context, jobID string) error {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM tracked_applications WHERE job_id = $1`, jobID)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("application not found: %s", jobID)
	}
	return nil
}

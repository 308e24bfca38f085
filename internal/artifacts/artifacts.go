// Package artifacts reads and writes the JSON artifact files that connect
// pipeline stages. Every file carries the same envelope: a generation
// timestamp, an item count, and the items themselves.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Default artifact filenames, one per pipeline stage output.
const (
	MessagesFile      = "messages.json"
	FilteredFile      = "filtered.json"
	OpportunitiesFile = "opportunities.json"
	MatchResultsFile  = "match_results.json"
	TailoringFile     = "tailoring_results.json"
	DraftsFile        = "reply_drafts.json"
	ReplyResultsFile  = "reply_results.json"
	CorrelatedFile    = "correlated.json"

	// AnalyticsFile and AnalyticsReportFile hold filter analytics, written
	// on demand rather than by a stage.
	AnalyticsFile       = "filter_analytics.json"
	AnalyticsReportFile = "filter_analytics.txt"
)

// Envelope wraps a list of artifacts with provenance metadata.
type Envelope[T any] struct {
	GeneratedAtUTC string `json:"generated_at_utc"`
	Count          int    `json:"count"`
	Items          []T    `json:"items"`
}

// Write marshals items into an envelope and writes them to path, creating
// parent directories as needed.
func Write[T any](path string, items []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	env := Envelope[T]{
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
		Count:          len(items),
		Items:          items,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact file: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact file %s: %w", path, err)
	}
	return nil
}

// Read loads an artifact envelope from path and returns its items. Unknown
// fields inside items are preserved when the item type carries an Extra map.
func Read[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact file %s: %w", path, err)
	}

	var env Envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse artifact file %s: %w", path, err)
	}
	return env.Items, nil
}

// ReadOptional behaves like Read but treats a missing file as an empty
// collection, matching the correlator's tolerance for absent sources.
func ReadOptional[T any](path string) ([]T, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return Read[T](path)
}

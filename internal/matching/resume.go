// Package matching scores a candidate resume against extracted opportunities.
// The model grades each dimension; the overall score, grade, and
// recommendation are derived deterministically so reruns with the same
// dimension scores always agree.
package matching

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

// LoadResume reads and validates a resume JSON file.
func LoadResume(path string) (*types.Resume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading resume: %w", err)
	}

	var resume types.Resume
	if err := json.Unmarshal(data, &resume); err != nil {
		return nil, fmt.Errorf("parsing resume %s: %w", path, err)
	}
	if err := resume.Validate(); err != nil {
		return nil, fmt.Errorf("invalid resume %s: %w", path, err)
	}

	resume.SourceFile = path
	return &resume, nil
}

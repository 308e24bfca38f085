//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// ChangeCategory classifies a single tailoring change.
type ChangeCategory string

// Tailoring change categories.
const (
	ChangeSummary       ChangeCategory = "summary"
	ChangeSkills        ChangeCategory = "skills"
	ChangeExperience    ChangeCategory = "experience"
	ChangeCertification ChangeCategory = "certifications"
	ChangeKeywords      ChangeCategory = "keywords"
)

// TailoringChange records one modification the tailoring engine applied.
type TailoringChange struct {
	Category ChangeCategory `json:"category"`
	Field    string         `json:"field,omitempty"`
	Before   string         `json:"before,omitempty"`
	After    string         `json:"after,omitempty"`
	Reason   string         `json:"reason,omitempty"`
}

// TailoringReport summarizes the changes applied while tailoring a resume
// to one opportunity.
type TailoringReport struct {
	JobID            string            `json:"job_id"`
	JobTitle         string            `json:"job_title,omitempty"`
	Company          string            `json:"company,omitempty"`
	Changes          []TailoringChange `json:"changes,omitempty"`
	DocumentFilename string            `json:"document_filename,omitempty"`
	Timestamp        *time.Time        `json:"timestamp,omitempty"`
	Extra            map[string]any    `json:"extra,omitempty"`
}

// TotalChanges returns the number of changes in the report.
func (r *TailoringReport) TotalChanges() int {
	return len(r.Changes)
}

// CategoriesChanged returns the distinct change categories touched, in first
// occurrence order.
func (r *TailoringReport) CategoriesChanged() []ChangeCategory {
	seen := make(map[ChangeCategory]bool, len(r.Changes))
	var out []ChangeCategory
	for _, c := range r.Changes {
		if !seen[c.Category] {
			seen[c.Category] = true
			out = append(out, c.Category)
		}
	}
	return out
}

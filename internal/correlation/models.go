// Package correlation links every pipeline artifact (email, opportunity,
// match result, tailoring report, reply draft, reply result) by the shared
// job ID, producing one correlated record per opportunity with a derived
// lifecycle stage plus aggregate statistics over the whole set.
package correlation

import (
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

// EmailSummary is the lightweight view of the source email attached to a
// correlated opportunity.
type EmailSummary struct {
	MessageID      string   `json:"message_id"`
	ThreadID       string   `json:"thread_id,omitempty"`
	Subject        string   `json:"subject"`
	From           string   `json:"from"`
	ReceivedAt     string   `json:"received_at,omitempty"`
	Snippet        string   `json:"snippet,omitempty"`
	Labels         []string `json:"labels,omitempty"`
	HasAttachments bool     `json:"has_attachments"`
}

// MatchSummary is the lightweight view of a match result.
type MatchSummary struct {
	OverallScore   float64              `json:"overall_score"`
	Grade          types.MatchGrade     `json:"match_grade"`
	Recommendation types.Recommendation `json:"recommendation"`
	TopStrengths   []string             `json:"top_strengths,omitempty"`
	TopConcerns    []string             `json:"top_concerns,omitempty"`
	MissingSkills  []string             `json:"missing_skills,omitempty"`
}

// TailoringSummary is the lightweight view of a tailoring report.
type TailoringSummary struct {
	TotalChanges      int                    `json:"total_changes"`
	CategoriesChanged []types.ChangeCategory `json:"categories_changed,omitempty"`
	// DocumentPath is set only when the generated document was verified to
	// exist on disk.
	DocumentPath string `json:"document_path,omitempty"`
}

// ReplySummary merges the draft and send-result views of a reply. A draft may
// exist without a send result; when both exist the result's status wins over
// the draft's mere presence.
type ReplySummary struct {
	HasDraft          bool              `json:"has_draft"`
	Status            types.ReplyStatus `json:"status"`
	To                string            `json:"to,omitempty"`
	Subject           string            `json:"subject,omitempty"`
	ProviderMessageID string            `json:"provider_message_id,omitempty"`
	Error             string            `json:"error,omitempty"`
	SentAt            string            `json:"sent_at,omitempty"`
}

// CorrelatedOpportunity is the unified per-opportunity record: identity fields
// copied from the extracted opportunity (falling back to the email for the
// subject-derived title), the derived stage, and whichever optional artifact
// summaries share the job ID. Records are immutable once built; a fresh
// Correlate call rebuilds everything from scratch.
type CorrelatedOpportunity struct {
	JobID          string `json:"job_id"`
	JobTitle       string `json:"job_title"`
	Company        string `json:"company"`
	RecruiterName  string `json:"recruiter_name,omitempty"`
	RecruiterEmail string `json:"recruiter_email,omitempty"`

	Stage            Stage `json:"stage"`
	PipelineComplete bool  `json:"pipeline_complete"`

	Locations []string `json:"locations,omitempty"`
	Remote    *bool    `json:"remote,omitempty"`
	Hybrid    *bool    `json:"hybrid,omitempty"`

	Email     *EmailSummary     `json:"email,omitempty"`
	Match     *MatchSummary     `json:"match,omitempty"`
	Tailoring *TailoringSummary `json:"tailoring,omitempty"`
	Reply     *ReplySummary     `json:"reply,omitempty"`

	EmailReceivedAt string `json:"email_received_at,omitempty"`
	MatchedAt       string `json:"matched_at,omitempty"`
	TailoredAt      string `json:"tailored_at,omitempty"`
	RepliedAt       string `json:"replied_at,omitempty"`
}

// CompanyCount is one entry in the summary's top-companies list.
type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

// Summary holds aggregate statistics over a correlated set. It is always
// recomputed from the records, never stored incrementally.
type Summary struct {
	TotalOpportunities int    `json:"total_opportunities"`
	ResumeName         string `json:"resume_name,omitempty"`
	GeneratedAt        string `json:"generated_at"`

	ByStage          map[Stage]int                `json:"by_stage"`
	ByGrade          map[types.MatchGrade]int     `json:"by_grade"`
	ByRecommendation map[types.Recommendation]int `json:"by_recommendation"`

	PipelineCompleteCount int `json:"pipeline_complete_count"`

	MatchedCount  int     `json:"matched_count"`
	AvgMatchScore float64 `json:"avg_match_score,omitempty"`
	MaxMatchScore float64 `json:"max_match_score,omitempty"`
	MinMatchScore float64 `json:"min_match_score,omitempty"`

	TailoredCount         int `json:"tailored_count"`
	TotalTailoringChanges int `json:"total_tailoring_changes"`
	DocumentsGenerated    int `json:"documents_generated"`

	RepliesDrafted int `json:"replies_drafted"`
	RepliesDryRun  int `json:"replies_dry_run"`
	RepliesSent    int `json:"replies_sent"`
	RepliesFailed  int `json:"replies_failed"`

	TopCompanies []CompanyCount `json:"top_companies,omitempty"`
}

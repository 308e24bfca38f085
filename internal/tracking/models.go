// Package tracking manages the post-reply lifecycle of applications:
// interviews, offers, and final outcomes, with a full status audit trail.
// Applications are bootstrapped from correlated opportunities and persisted
// through the db package.
package tracking

import "time"

// ApplicationStatus is the post-reply lifecycle stage.
type ApplicationStatus string

// Application statuses.
const (
	StatusApplied      ApplicationStatus = "applied"
	StatusInterviewing ApplicationStatus = "interviewing"
	StatusOffered      ApplicationStatus = "offered"
	StatusClosed       ApplicationStatus = "closed"
)

// FinalOutcome is the terminal result of a closed application.
type FinalOutcome string

// Final outcomes.
const (
	OutcomeAccepted  FinalOutcome = "accepted"
	OutcomeDeclined  FinalOutcome = "declined"
	OutcomeRejected  FinalOutcome = "rejected"
	OutcomeWithdrawn FinalOutcome = "withdrawn"
	OutcomeGhosted   FinalOutcome = "ghosted"
)

// InterviewType classifies an interview round.
type InterviewType string

// Interview types.
const (
	InterviewPhoneScreen   InterviewType = "phone_screen"
	InterviewTechnical     InterviewType = "technical"
	InterviewBehavioral    InterviewType = "behavioral"
	InterviewSystemDesign  InterviewType = "system_design"
	InterviewHiringManager InterviewType = "hiring_manager"
	InterviewPanel         InterviewType = "panel"
	InterviewOnsite        InterviewType = "onsite"
	InterviewOther         InterviewType = "other"
)

// StatusChange is one entry in an application's audit trail.
type StatusChange struct {
	From      ApplicationStatus `json:"from_status"`
	To        ApplicationStatus `json:"to_status"`
	Timestamp time.Time         `json:"timestamp"`
	Note      string            `json:"note,omitempty"`
}

// InterviewRecord is one interview round.
type InterviewRecord struct {
	Type        InterviewType `json:"interview_type"`
	ScheduledAt *time.Time    `json:"scheduled_at,omitempty"`
	Completed   bool          `json:"completed"`
	Interviewer string        `json:"interviewer,omitempty"`
	Notes       string        `json:"notes,omitempty"`
	Round       int           `json:"round_number"`
	CreatedAt   time.Time     `json:"created_at"`
}

// OfferDetails captures a received offer.
type OfferDetails struct {
	Salary     string     `json:"salary,omitempty"`
	Equity     string     `json:"equity,omitempty"`
	StartDate  string     `json:"start_date,omitempty"`
	Deadline   string     `json:"deadline,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	ReceivedAt *time.Time `json:"received_at,omitempty"`
}

// TrackedApplication is the full tracked state of one application.
type TrackedApplication struct {
	JobID          string            `json:"job_id"`
	JobTitle       string            `json:"job_title,omitempty"`
	Company        string            `json:"company,omitempty"`
	RecruiterName  string            `json:"recruiter_name,omitempty"`
	RecruiterEmail string            `json:"recruiter_email,omitempty"`
	Status         ApplicationStatus `json:"status"`
	FinalOutcome   FinalOutcome      `json:"final_outcome,omitempty"`
	MatchScore     *float64          `json:"match_score,omitempty"`
	MatchGrade     string            `json:"match_grade,omitempty"`
	Interviews     []InterviewRecord `json:"interviews,omitempty"`
	Offer          *OfferDetails     `json:"offer,omitempty"`
	StatusHistory  []StatusChange    `json:"status_history,omitempty"`
	Notes          []string          `json:"notes,omitempty"`
	AppliedAt      time.Time         `json:"applied_at"`
	LastUpdatedAt  time.Time         `json:"last_updated_at"`
	ClosedAt       *time.Time        `json:"closed_at,omitempty"`
}

// Active reports whether the application is still in play.
func (a *TrackedApplication) Active() bool {
	return a.Status != StatusClosed
}

// TrackingSummary aggregates statistics across tracked applications.
type TrackingSummary struct {
	TotalApplications int            `json:"total_applications"`
	Active            int            `json:"active"`
	ByStatus          map[string]int `json:"by_status"`
	ByOutcome         map[string]int `json:"by_outcome,omitempty"`
	TotalInterviews   int            `json:"total_interviews"`
	OffersReceived    int            `json:"offers_received"`
	AverageScore      float64        `json:"average_match_score,omitempty"`
	TopCompanies      []CompanyCount `json:"top_companies,omitempty"`
}

// CompanyCount is one entry in the summary's company breakdown.
type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

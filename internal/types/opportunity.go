//nolint:revive // types is a standard Go package name pattern
package types

// SourceEmail references the email a job opportunity was extracted from.
// MessageID is the shared identifier that links the opportunity to every
// other pipeline artifact.
type SourceEmail struct {
	MessageID string `json:"message_id"`
	ThreadID  string `json:"thread_id,omitempty"`
	Subject   string `json:"subject,omitempty"`
	From      string `json:"from,omitempty"`
}

// Opportunity is a structured job opportunity extracted from a filtered email.
// Extraction is the gate that promotes a raw email into a trackable
// opportunity: only extracted opportunities appear in correlated output.
type Opportunity struct {
	SourceEmail    SourceEmail    `json:"source_email"`
	JobTitle       string         `json:"job_title"`
	Company        string         `json:"company"`
	RecruiterName  string         `json:"recruiter_name,omitempty"`
	RecruiterEmail string         `json:"recruiter_email,omitempty"`
	Locations      []string       `json:"locations,omitempty"`
	Remote         *bool          `json:"remote,omitempty"`
	Hybrid         *bool          `json:"hybrid,omitempty"`
	SalaryText     string         `json:"salary_text,omitempty"`
	JobURL         string         `json:"job_url,omitempty"`
	Keywords       []string       `json:"keywords,omitempty"`
	Description    string         `json:"description,omitempty"`
	Extra          map[string]any `json:"extra,omitempty"`
}

// JobID returns the shared opportunity identifier, or "" when the source
// email reference is missing.
func (o *Opportunity) JobID() string {
	return o.SourceEmail.MessageID
}

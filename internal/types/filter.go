//nolint:revive // types is a standard Go package name pattern
package types

// FilterDecision is a single filter's verdict on one email.
type FilterDecision struct {
	FilterName string   `json:"filter_name"`
	Passed     bool     `json:"passed"`
	Reasons    []string `json:"reasons,omitempty"`
}

// FilterOutcome aggregates the decisions of every filter applied to an email.
type FilterOutcome struct {
	Passed    bool             `json:"passed"`
	Reasons   []string         `json:"reasons,omitempty"`
	Decisions []FilterDecision `json:"decisions,omitempty"`
}

// FilteredMessage pairs a message with its filter outcome so downstream
// stages can keep rejected messages for analytics.
type FilteredMessage struct {
	Message EmailMessage  `json:"message"`
	Outcome FilterOutcome `json:"outcome"`
}

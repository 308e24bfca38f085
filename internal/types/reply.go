//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// ReplyStatus is the send outcome of a composed reply.
type ReplyStatus string

// Reply statuses.
const (
	ReplyNotSent ReplyStatus = "not_sent"
	ReplyDryRun  ReplyStatus = "dry_run"
	ReplySent    ReplyStatus = "sent"
	ReplyFailed  ReplyStatus = "failed"
)

// EmailDraft is a composed reply that has not necessarily been sent.
// OriginalTo preserves the intended recipient when sending is redirected to
// an override address, so reports still show who the reply was meant for.
type EmailDraft struct {
	JobID           string         `json:"job_id"`
	To              string         `json:"to"`
	OriginalTo      string         `json:"original_to,omitempty"`
	Cc              []string       `json:"cc,omitempty"`
	Bcc             []string       `json:"bcc,omitempty"`
	Subject         string         `json:"subject"`
	BodyText        string         `json:"body_text"`
	InReplyTo       string         `json:"in_reply_to,omitempty"`
	References      string         `json:"references,omitempty"`
	ThreadID        string         `json:"thread_id,omitempty"`
	AttachmentPaths []string       `json:"attachment_paths,omitempty"`
	Extra           map[string]any `json:"extra,omitempty"`
}

// ReplyResult is the outcome of attempting to send a draft.
type ReplyResult struct {
	Draft             EmailDraft  `json:"draft"`
	Status            ReplyStatus `json:"status"`
	ProviderMessageID string      `json:"provider_message_id,omitempty"`
	Error             string      `json:"error,omitempty"`
	Timestamp         *time.Time  `json:"timestamp,omitempty"`
}

// JobID returns the shared opportunity identifier carried by the draft.
func (r *ReplyResult) JobID() string {
	return r.Draft.JobID
}

// Sent reports whether the reply was actually transmitted.
func (r *ReplyResult) Sent() bool {
	return r.Status == ReplySent
}

// Package types provides type definitions for the pipeline artifacts exchanged
// between stages: email messages, extracted opportunities, match results,
// tailoring reports, reply drafts, and reply results.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// EmailHeaders holds the RFC 2822 headers the pipeline cares about.
type EmailHeaders struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Cc         string `json:"cc,omitempty"`
	Date       string `json:"date"`
	Subject    string `json:"subject"`
	MessageID  string `json:"message_id_header,omitempty"` // RFC 2822 Message-ID, distinct from the provider ID
	InReplyTo  string `json:"in_reply_to,omitempty"`
	References string `json:"references,omitempty"`
}

// Attachment describes a single attachment on a fetched message.
type Attachment struct {
	Filename     string `json:"filename"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	AttachmentID string `json:"attachment_id"`
}

// EmailMessage is a fetched email, normalized from the provider representation.
// MessageID is the provider message identifier and doubles as the job ID that
// ties every downstream artifact to this message.
type EmailMessage struct {
	MessageID    string         `json:"message_id"`
	ThreadID     string         `json:"thread_id,omitempty"`
	InternalDate *time.Time     `json:"internal_date,omitempty"`
	Headers      EmailHeaders   `json:"headers"`
	Snippet      string         `json:"snippet,omitempty"`
	BodyText     string         `json:"body_text,omitempty"`
	BodyHTML     string         `json:"body_html,omitempty"`
	Labels       []string       `json:"labels,omitempty"`
	Attachments  []Attachment   `json:"attachments,omitempty"`
	Extra        map[string]any `json:"extra,omitempty"`
}

// HasAttachments reports whether the message carries at least one attachment.
func (m *EmailMessage) HasAttachments() bool {
	return len(m.Attachments) > 0
}

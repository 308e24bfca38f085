package gmail

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmailapi "google.golang.org/api/gmail/v1"
)

func encode(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestParseMessageMultipart(t *testing.T) {
	msg := &gmailapi.Message{
		Id:           "m1",
		ThreadId:     "t1",
		Snippet:      "We have an opening",
		LabelIds:     []string{"INBOX", "UNREAD"},
		InternalDate: 1735689600000, // 2025-01-01T00:00:00Z
		Payload: &gmailapi.MessagePart{
			MimeType: "multipart/mixed",
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "From", Value: "Jane Doe <jane@acme.com>"},
				{Name: "To", Value: "ada@example.com"},
				{Name: "Subject", Value: "Platform Engineer opening"},
				{Name: "Date", Value: "Wed, 01 Jan 2025 00:00:00 +0000"},
				{Name: "Message-ID", Value: "<orig@acme.com>"},
			},
			Parts: []*gmailapi.MessagePart{
				{
					MimeType: "multipart/alternative",
					Parts: []*gmailapi.MessagePart{
						{MimeType: "text/plain", Body: &gmailapi.MessagePartBody{Data: encode("plain body")}},
						{MimeType: "text/html", Body: &gmailapi.MessagePartBody{Data: encode("<p>html body</p>")}},
					},
				},
				{
					MimeType: "application/pdf",
					Filename: "jd.pdf",
					Body:     &gmailapi.MessagePartBody{AttachmentId: "att1", Size: 1234},
				},
			},
		},
	}

	parsed := parseMessage(msg)

	assert.Equal(t, "m1", parsed.MessageID)
	assert.Equal(t, "t1", parsed.ThreadID)
	assert.Equal(t, "Jane Doe <jane@acme.com>", parsed.Headers.From)
	assert.Equal(t, "Platform Engineer opening", parsed.Headers.Subject)
	assert.Equal(t, "<orig@acme.com>", parsed.Headers.MessageID)
	assert.Equal(t, "plain body", parsed.BodyText)
	assert.Equal(t, "<p>html body</p>", parsed.BodyHTML)
	require.NotNil(t, parsed.InternalDate)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), *parsed.InternalDate)
	require.Len(t, parsed.Attachments, 1)
	assert.Equal(t, "jd.pdf", parsed.Attachments[0].Filename)
	assert.Equal(t, "att1", parsed.Attachments[0].AttachmentID)
	assert.True(t, parsed.HasAttachments())
}

func TestParseMessageSinglePartHTML(t *testing.T) {
	msg := &gmailapi.Message{
		Id: "m2",
		Payload: &gmailapi.MessagePart{
			MimeType: "text/html",
			Body:     &gmailapi.MessagePartBody{Data: encode("<p>only html</p>")},
		},
	}

	parsed := parseMessage(msg)
	assert.Empty(t, parsed.BodyText)
	assert.Equal(t, "<p>only html</p>", parsed.BodyHTML)
}

func TestParseMessageNoPayload(t *testing.T) {
	parsed := parseMessage(&gmailapi.Message{Id: "m3", Snippet: "s"})
	assert.Equal(t, "m3", parsed.MessageID)
	assert.Empty(t, parsed.BodyText)
	assert.Empty(t, parsed.Attachments)
}

func TestDecodeBodyUnpadded(t *testing.T) {
	raw := base64.RawURLEncoding.EncodeToString([]byte("abcde"))
	assert.Equal(t, "abcde", decodeBody(raw))
	assert.Equal(t, "", decodeBody("!!not base64!!"))
}

func TestFetchOptionsQuery(t *testing.T) {
	after := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	opts := FetchOptions{Query: "category:primary", After: after, Before: before}
	assert.Equal(t, "category:primary after:1735689600 before:1738368000", opts.query())

	assert.Equal(t, "", (&FetchOptions{}).query())
	assert.Equal(t, "after:1735689600", (&FetchOptions{After: after}).query())
}

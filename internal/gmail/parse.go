package gmail

import (
	"encoding/base64"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

// parseMessage converts a full Gmail API message into the pipeline's
// normalized form. The Gmail message ID becomes the job ID every downstream
// artifact references.
func parseMessage(msg *gmailapi.Message) *types.EmailMessage {
	out := &types.EmailMessage{
		MessageID: msg.Id,
		ThreadID:  msg.ThreadId,
		Snippet:   msg.Snippet,
		Labels:    msg.LabelIds,
	}
	if msg.InternalDate > 0 {
		t := time.UnixMilli(msg.InternalDate).UTC()
		out.InternalDate = &t
	}
	if msg.Payload == nil {
		return out
	}

	out.Headers = types.EmailHeaders{
		From:       header(msg.Payload.Headers, "From"),
		To:         header(msg.Payload.Headers, "To"),
		Cc:         header(msg.Payload.Headers, "Cc"),
		Date:       header(msg.Payload.Headers, "Date"),
		Subject:    header(msg.Payload.Headers, "Subject"),
		MessageID:  header(msg.Payload.Headers, "Message-ID"),
		InReplyTo:  header(msg.Payload.Headers, "In-Reply-To"),
		References: header(msg.Payload.Headers, "References"),
	}

	out.BodyText, out.BodyHTML = extractBodies(msg.Payload)
	out.Attachments = extractAttachments(msg.Payload)
	return out
}

func header(headers []*gmailapi.MessagePartHeader, name string) string {
	for _, h := range headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// extractBodies walks the MIME tree collecting the first text/plain and
// text/html parts.
func extractBodies(payload *gmailapi.MessagePart) (text, html string) {
	if payload.Body != nil && payload.Body.Data != "" && len(payload.Parts) == 0 {
		decoded := decodeBody(payload.Body.Data)
		if payload.MimeType == "text/html" {
			return "", decoded
		}
		return decoded, ""
	}

	var walk func(parts []*gmailapi.MessagePart)
	walk = func(parts []*gmailapi.MessagePart) {
		for _, part := range parts {
			switch part.MimeType {
			case "text/plain":
				if text == "" && part.Body != nil && part.Body.Data != "" {
					text = decodeBody(part.Body.Data)
				}
			case "text/html":
				if html == "" && part.Body != nil && part.Body.Data != "" {
					html = decodeBody(part.Body.Data)
				}
			}
			if len(part.Parts) > 0 {
				walk(part.Parts)
			}
		}
	}
	walk(payload.Parts)
	return text, html
}

func decodeBody(data string) string {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		// Gmail sometimes omits padding.
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(decoded)
}

func extractAttachments(payload *gmailapi.MessagePart) []types.Attachment {
	var out []types.Attachment

	var walk func(parts []*gmailapi.MessagePart)
	walk = func(parts []*gmailapi.MessagePart) {
		for _, part := range parts {
			if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
				out = append(out, types.Attachment{
					Filename:     part.Filename,
					MimeType:     part.MimeType,
					Size:         part.Body.Size,
					AttachmentID: part.Body.AttachmentId,
				})
			}
			if len(part.Parts) > 0 {
				walk(part.Parts)
			}
		}
	}
	walk(payload.Parts)
	return out
}

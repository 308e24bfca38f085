package reply

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

const mimeBoundary = "opportunity_pipeline_boundary"

// buildMIME assembles the raw RFC 2822 message for a draft: multipart/mixed
// with a plain-text body, threading headers, and base64 attachments. Missing
// attachment files are skipped and returned so the caller can log them.
func buildMIME(draft *types.EmailDraft, fromAddress string) (raw []byte, skipped []string, err error) {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", fromAddress)
	fmt.Fprintf(&b, "To: %s\r\n", draft.To)
	if len(draft.Cc) > 0 {
		fmt.Fprintf(&b, "Cc: %s\r\n", strings.Join(draft.Cc, ", "))
	}
	if len(draft.Bcc) > 0 {
		fmt.Fprintf(&b, "Bcc: %s\r\n", strings.Join(draft.Bcc, ", "))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", encodeHeader(draft.Subject))
	if draft.InReplyTo != "" {
		fmt.Fprintf(&b, "In-Reply-To: %s\r\n", draft.InReplyTo)
	}
	if draft.References != "" {
		fmt.Fprintf(&b, "References: %s\r\n", draft.References)
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mimeBoundary)

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(draft.BodyText)
	b.WriteString("\r\n")

	for _, path := range draft.AttachmentPaths {
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			skipped = append(skipped, path)
			continue
		}
		contentType := mime.TypeByExtension(filepath.Ext(path))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
		fmt.Fprintf(&b, "Content-Type: %s; name=%q\r\n", contentType, filepath.Base(path))
		b.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n\r\n", filepath.Base(path))
		writeBase64Lines(&b, content)
		b.WriteString("\r\n")
	}
	fmt.Fprintf(&b, "--%s--", mimeBoundary)

	return []byte(b.String()), skipped, nil
}

// encodeHeader RFC 2047-encodes a header value when it carries non-ASCII.
func encodeHeader(value string) string {
	for _, r := range value {
		if r > 127 {
			return fmt.Sprintf("=?utf-8?B?%s?=", base64.StdEncoding.EncodeToString([]byte(value)))
		}
	}
	return value
}

// writeBase64Lines writes base64 content in 76-character lines per RFC 2045.
func writeBase64Lines(b *strings.Builder, content []byte) {
	encoded := base64.StdEncoding.EncodeToString(content)
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	b.WriteString("\r\n")
}

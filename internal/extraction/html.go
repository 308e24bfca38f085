// Package extraction turns filtered emails into structured job opportunities.
// Two extractors are provided: a deterministic rule-based one and an
// LLM-backed one whose output is validated against a JSON schema. Extraction
// is the gate into the rest of the pipeline: a message with no extracted
// opportunity never appears in correlated output.
package extraction

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blankLines = regexp.MustCompile(`\n{3,}`)

// HTMLToText converts an HTML email body to plain text. Script and style
// blocks are dropped, block elements become line breaks, and runs of blank
// lines are collapsed.
func HTMLToText(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, head").Remove()

	// Force breaks after block elements so text doesn't run together.
	doc.Find("p, div, br, li, tr, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	text := doc.Text()
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text), nil
}

// BodyText returns the best plain-text body for a message: the text part if
// present, otherwise the HTML part converted to text.
func BodyText(bodyText, bodyHTML string) string {
	if strings.TrimSpace(bodyText) != "" {
		return bodyText
	}
	if strings.TrimSpace(bodyHTML) == "" {
		return ""
	}
	text, err := HTMLToText(bodyHTML)
	if err != nil {
		return ""
	}
	return text
}

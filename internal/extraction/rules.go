package extraction

import (
	"context"
	"regexp"
	"strings"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

var (
	fromHeaderRe = regexp.MustCompile(`(?s)^(.+?)\s*<([^>]+)>`)
	linkRe       = regexp.MustCompile(`https?://[^\s)>"]+`)
	locationRe   = regexp.MustCompile(`(?i)locations?\s*[:\-]\s*(.+)`)
	salaryRe     = regexp.MustCompile(`(?i)\$\s*\d[\d,.]*\s*(?:k\b)?(?:\s*[-–]\s*\$?\s*\d[\d,.]*\s*(?:k\b)?)?(?:\s*(?:per|/)\s*(?:hour|hr|year|yr|day))?`)
	subjectNoise = regexp.MustCompile(`(?i)^(re:|fwd?:)\s*`)
	listSplitRe  = regexp.MustCompile(`[,\n;|]+`)

	skillLabelRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)mandatory skills\s*[:\-]\s*(.+)`),
		regexp.MustCompile(`(?i)required skills\s*[:\-]\s*(.+)`),
		regexp.MustCompile(`(?i)primary skill set\s*[:\-]\s*(.+)`),
		regexp.MustCompile(`(?i)preferred skills\s*[:\-]\s*(.+)`),
		regexp.MustCompile(`(?i)tech(?:nology)? stack\s*[:\-]\s*(.+)`),
	}
)

// RuleBasedExtractor builds an opportunity from regex heuristics alone. It
// never fails; fields it cannot find are simply left empty. It serves as the
// fallback when the LLM extractor is unavailable or returns invalid output.
type RuleBasedExtractor struct{}

// NewRuleBasedExtractor returns the deterministic extractor.
func NewRuleBasedExtractor() *RuleBasedExtractor { return &RuleBasedExtractor{} }

// Name implements Extractor.
func (e *RuleBasedExtractor) Name() string { return "rules" }

// Extract implements Extractor.
func (e *RuleBasedExtractor) Extract(_ context.Context, msg *types.EmailMessage) (*types.Opportunity, error) {
	subject := msg.Headers.Subject
	body := BodyText(msg.BodyText, msg.BodyHTML)
	text := subject + "\n" + body

	name, addr := parseFromHeader(msg.Headers.From)

	opp := &types.Opportunity{
		SourceEmail: types.SourceEmail{
			MessageID: msg.MessageID,
			ThreadID:  msg.ThreadID,
			Subject:   subject,
			From:      msg.Headers.From,
		},
		JobTitle:       extractTitle(subject, body),
		Company:        companyFromAddress(addr),
		RecruiterName:  name,
		RecruiterEmail: addr,
		Locations:      extractLocations(text),
		Keywords:       extractSkills(text),
		Description:    msg.Snippet,
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "remote") {
		opp.Remote = boolPtr(true)
	}
	if strings.Contains(lower, "hybrid") {
		opp.Hybrid = boolPtr(true)
	}
	if m := salaryRe.FindString(text); m != "" {
		opp.SalaryText = strings.TrimSpace(m)
	}
	if links := linkRe.FindAllString(body, -1); len(links) > 0 {
		opp.JobURL = links[0]
	}

	return opp, nil
}

func boolPtr(b bool) *bool { return &b }

// parseFromHeader splits "Name <user@host>" into its parts. A bare address
// yields an empty name.
func parseFromHeader(from string) (name, addr string) {
	if m := fromHeaderRe.FindStringSubmatch(from); m != nil {
		return strings.Trim(m[1], `" `), strings.TrimSpace(m[2])
	}
	if strings.Contains(from, "@") {
		return "", strings.TrimSpace(from)
	}
	return strings.TrimSpace(from), ""
}

// companyFromAddress guesses a company name from the sender's domain:
// jane@acme-corp.com becomes "Acme Corp".
func companyFromAddress(addr string) string {
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return ""
	}
	domain := addr[at+1:]
	label := strings.SplitN(domain, ".", 2)[0]
	label = strings.ReplaceAll(label, "-", " ")
	if label == "" || label == "gmail" || label == "outlook" || label == "yahoo" {
		return ""
	}
	words := strings.Fields(label)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func extractTitle(subject, body string) string {
	subject = strings.TrimSpace(subjectNoise.ReplaceAllString(strings.TrimSpace(subject), ""))
	if subject != "" {
		// "Platform Engineer - Location: Austin" style subjects carry the
		// title before the location marker.
		if i := strings.Index(strings.ToLower(subject), "location"); i > 0 {
			if title := strings.Trim(subject[:i], " -:|"); title != "" {
				return title
			}
		}
		return subject
	}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			if len(line) > 120 {
				line = line[:120]
			}
			return line
		}
	}
	return ""
}

func extractLocations(text string) []string {
	var out []string
	for _, m := range locationRe.FindAllStringSubmatch(text, -1) {
		if loc := strings.TrimSpace(m[1]); loc != "" {
			out = append(out, loc)
		}
	}
	return dedupe(out)
}

func extractSkills(text string) []string {
	var out []string
	for _, re := range skillLabelRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			for _, item := range listSplitRe.Split(m[1], -1) {
				if s := strings.TrimSpace(item); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return dedupe(out)
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(item))
	}
	return out
}

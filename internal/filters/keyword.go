package filters

import (
	"context"
	"fmt"
	"strings"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

// KeywordFilter is the cheap first-pass filter: sender domain lists, strong
// recruiter-outreach patterns, role titles, and keyword hits, with promo and
// admissions noise as negative signals.
type KeywordFilter struct {
	rules *Rules
	// minKeywordHits is the number of weak keyword hits that passes a
	// message with no other signal.
	minKeywordHits int
}

// NewKeywordFilter builds a keyword filter. A nil rules uses DefaultRules.
func NewKeywordFilter(rules *Rules) *KeywordFilter {
	if rules == nil {
		rules = DefaultRules()
	}
	return &KeywordFilter{rules: rules, minKeywordHits: 2}
}

// Name implements Filter.
func (f *KeywordFilter) Name() string { return "keyword" }

// Evaluate implements Filter. The decision order is: denied domain rejects,
// strong signal accepts, admissions noise rejects, then role titles, known
// job domains, and keyword hits accept, and promo noise rejects whatever is
// left with no positive signal.
func (f *KeywordFilter) Evaluate(_ context.Context, msg *types.EmailMessage) (types.FilterDecision, error) {
	decision := types.FilterDecision{FilterName: f.Name()}

	domain := senderDomain(msg.Headers.From)
	if domain != "" && f.rules.NonJobDomains[domain] {
		decision.Reasons = append(decision.Reasons, fmt.Sprintf("sender domain %s is on the deny list", domain))
		return decision, nil
	}

	text := searchText(msg)

	for _, p := range f.rules.StrongSignalPatterns {
		if p.MatchString(text) {
			decision.Passed = true
			decision.Reasons = append(decision.Reasons, "strong recruiter outreach signal: "+p.String())
			return decision, nil
		}
	}

	for _, p := range f.rules.EduNegativePatterns {
		if p.MatchString(text) {
			decision.Reasons = append(decision.Reasons, "admissions/education noise: "+p.String())
			return decision, nil
		}
	}

	if domain != "" && f.rules.JobSourceDomains[domain] {
		decision.Passed = true
		decision.Reasons = append(decision.Reasons, fmt.Sprintf("sender domain %s is a known job platform", domain))
		return decision, nil
	}

	for _, p := range f.rules.RoleTitlePatterns {
		if p.MatchString(text) {
			decision.Passed = true
			decision.Reasons = append(decision.Reasons, "role title match: "+p.String())
			return decision, nil
		}
	}

	hits := 0
	for _, kw := range f.rules.JobKeywords {
		if strings.Contains(text, kw) {
			hits++
		}
	}
	if hits >= f.minKeywordHits {
		decision.Passed = true
		decision.Reasons = append(decision.Reasons, fmt.Sprintf("%d job keyword hits", hits))
		return decision, nil
	}

	for _, p := range f.rules.PromoNegativePatterns {
		if p.MatchString(text) {
			decision.Reasons = append(decision.Reasons, "promotional noise: "+p.String())
			return decision, nil
		}
	}

	if hits == 1 {
		decision.Passed = true
		decision.Reasons = append(decision.Reasons, "single job keyword hit with no negative signal")
		return decision, nil
	}

	decision.Reasons = append(decision.Reasons, "no job signal found")
	return decision, nil
}

// senderDomain extracts the registrable-looking domain from a From header,
// handling both "Name <user@host>" and bare addresses. Subdomains collapse to
// the last two labels so mail.linkedin.com matches linkedin.com.
func senderDomain(from string) string {
	addr := from
	if i := strings.LastIndex(from, "<"); i >= 0 {
		addr = strings.TrimSuffix(from[i+1:], ">")
	}
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return ""
	}
	domain := strings.ToLower(strings.TrimSpace(addr[at+1:]))
	parts := strings.Split(domain, ".")
	if len(parts) > 2 {
		domain = strings.Join(parts[len(parts)-2:], ".")
	}
	return domain
}

// searchText concatenates subject, snippet and body in lowercase for pattern
// matching. Body text is capped so pathological messages stay cheap.
func searchText(msg *types.EmailMessage) string {
	const bodyCap = 8192
	body := msg.BodyText
	if len(body) > bodyCap {
		body = body[:bodyCap]
	}
	return strings.ToLower(msg.Headers.Subject + "\n" + msg.Snippet + "\n" + body)
}

// Package filters decides whether fetched emails look like genuine job
// opportunities. Filters are composable: each returns a FilterDecision and
// the Pipeline aggregates them into a final FilterOutcome.
package filters

import "regexp"

// Rules holds the pattern sets the keyword filter evaluates. All regular
// expressions are case-insensitive.
type Rules struct {
	// JobSourceDomains are sender domains that usually carry job email
	// (ATS and job board platforms).
	JobSourceDomains map[string]bool
	// NonJobDomains are sender domains that never carry job email; a hit is
	// an immediate reject.
	NonJobDomains map[string]bool
	// JobKeywords are plain substrings counted as weak positive signals.
	JobKeywords []string
	// StrongSignalPatterns indicate recruiter outreach with high confidence.
	StrongSignalPatterns []*regexp.Regexp
	// RoleTitlePatterns match common role titles.
	RoleTitlePatterns []*regexp.Regexp
	// PromoNegativePatterns match promotional/billing noise; a hit rejects
	// only when no positive signal was found.
	PromoNegativePatterns []*regexp.Regexp
	// EduNegativePatterns match university admissions noise; a hit rejects
	// unless a strong signal was found.
	EduNegativePatterns []*regexp.Regexp
}

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile("(?i)"+p))
	}
	return out
}

// DefaultRules returns the built-in rule set.
func DefaultRules() *Rules {
	return &Rules{
		JobSourceDomains: map[string]bool{
			"linkedin.com":        true,
			"indeed.com":          true,
			"greenhouse.io":       true,
			"lever.co":            true,
			"workday.com":         true,
			"myworkday.com":       true,
			"smartrecruiters.com": true,
			"ashbyhq.com":         true,
			"wellfound.com":       true,
			"hired.com":           true,
			"ziprecruiter.com":    true,
		},
		NonJobDomains: map[string]bool{
			"amazon-orders.com": true,
			"paypal.com":        true,
			"spotify.com":       true,
			"netflix.com":       true,
			"uber.com":          true,
			"doordash.com":      true,
		},
		JobKeywords: []string{
			"job opportunity", "open position", "open role", "we're hiring",
			"we are hiring", "job opening", "career opportunity", "apply now",
			"your application", "interview", "recruiter", "talent acquisition",
			"phone screen", "take-home", "offer letter", "compensation",
		},
		StrongSignalPatterns: compileAll([]string{
			`\byour (?:profile|background|experience) (?:caught|matches|stood out)`,
			`\b(?:reaching|reached) out (?:about|regarding|to discuss)`,
			`\bI(?:'m| am) a (?:technical )?recruiter\b`,
			`\bexciting (?:opportunity|role|position)\b`,
			`\bschedule (?:a|your) (?:call|interview|chat)\b`,
			`\bnext steps? in (?:the|our) (?:interview|hiring) process\b`,
		}),
		RoleTitlePatterns: compileAll([]string{
			`\b(?:software|backend|frontend|full[- ]?stack|platform|site reliability|data|ml|machine learning|devops|cloud) engineer\b`,
			`\bengineering manager\b`,
			`\b(?:senior|staff|principal|lead) (?:engineer|developer)\b`,
			`\bdeveloper advocate\b`,
		}),
		PromoNegativePatterns: compileAll([]string{
			`\bunsubscribe\b.*\bmarketing\b`,
			`\b(?:\d+|\w+)% off\b`,
			`\bflash sale\b`,
			`\byour (?:order|invoice|receipt|subscription)\b`,
			`\bfree shipping\b`,
		}),
		EduNegativePatterns: compileAll([]string{
			`\badmissions?\b`,
			`\benroll(?:ment)? (?:now|today|deadline)\b`,
			`\btuition\b`,
			`\bbootcamp (?:starts|cohort)\b`,
		}),
	}
}

// Package analytics aggregates filter decisions into pass/fail statistics:
// per-filter verdicts, reason counts, and sender-domain breakdowns. It
// consumes the filtered-messages artifact, so it can run during a pipeline
// run or afterwards against saved artifacts.
package analytics

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

// FilterStats counts one filter's verdicts across every evaluated message.
type FilterStats struct {
	Name      string         `json:"name"`
	Evaluated int            `json:"evaluated"`
	Passed    int            `json:"passed"`
	Failed    int            `json:"failed"`
	Reasons   map[string]int `json:"reasons,omitempty"`
}

// PassRate returns the percentage of evaluated messages this filter passed.
func (s *FilterStats) PassRate() float64 {
	if s.Evaluated == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Evaluated) * 100
}

// DomainStats counts filter outcomes per sender domain.
type DomainStats struct {
	Domain string `json:"domain"`
	Total  int    `json:"total"`
	Passed int    `json:"passed"`
	Failed int    `json:"failed"`
}

// PassRate returns the percentage of this domain's messages that passed.
func (s *DomainStats) PassRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Total) * 100
}

// FilterAnalytics is the aggregated view over one filtering run.
type FilterAnalytics struct {
	GeneratedAtUTC string         `json:"generated_at_utc"`
	TotalMessages  int            `json:"total_messages"`
	Passed         int            `json:"passed"`
	Failed         int            `json:"failed"`
	Filters        []FilterStats  `json:"filters,omitempty"`
	Domains        []DomainStats  `json:"domains,omitempty"`
	PassReasons    map[string]int `json:"pass_reasons,omitempty"`
	FailReasons    map[string]int `json:"fail_reasons,omitempty"`
}

// PassRate returns the overall percentage of messages that passed filtering.
func (a *FilterAnalytics) PassRate() float64 {
	if a.TotalMessages == 0 {
		return 0
	}
	return float64(a.Passed) / float64(a.TotalMessages) * 100
}

// Build aggregates filtered messages into analytics. Filters are listed in
// first-seen order; domains are sorted by volume descending, then name.
func Build(filtered []types.FilteredMessage) FilterAnalytics {
	a := FilterAnalytics{
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
		TotalMessages:  len(filtered),
		PassReasons:    make(map[string]int),
		FailReasons:    make(map[string]int),
	}

	filterIdx := make(map[string]int)
	domainIdx := make(map[string]int)

	for i := range filtered {
		fm := &filtered[i]

		reasons := a.FailReasons
		if fm.Outcome.Passed {
			a.Passed++
			reasons = a.PassReasons
		} else {
			a.Failed++
		}
		for _, reason := range fm.Outcome.Reasons {
			reasons[reason]++
		}

		if domain := senderDomain(fm.Message.Headers.From); domain != "" {
			idx, ok := domainIdx[domain]
			if !ok {
				idx = len(a.Domains)
				domainIdx[domain] = idx
				a.Domains = append(a.Domains, DomainStats{Domain: domain})
			}
			a.Domains[idx].Total++
			if fm.Outcome.Passed {
				a.Domains[idx].Passed++
			} else {
				a.Domains[idx].Failed++
			}
		}

		for _, decision := range fm.Outcome.Decisions {
			idx, ok := filterIdx[decision.FilterName]
			if !ok {
				idx = len(a.Filters)
				filterIdx[decision.FilterName] = idx
				a.Filters = append(a.Filters, FilterStats{
					Name:    decision.FilterName,
					Reasons: make(map[string]int),
				})
			}
			stats := &a.Filters[idx]
			stats.Evaluated++
			if decision.Passed {
				stats.Passed++
			} else {
				stats.Failed++
			}
			for _, reason := range decision.Reasons {
				stats.Reasons[reason]++
			}
		}
	}

	sort.SliceStable(a.Domains, func(i, j int) bool {
		if a.Domains[i].Total != a.Domains[j].Total {
			return a.Domains[i].Total > a.Domains[j].Total
		}
		return a.Domains[i].Domain < a.Domains[j].Domain
	})

	if len(a.PassReasons) == 0 {
		a.PassReasons = nil
	}
	if len(a.FailReasons) == 0 {
		a.FailReasons = nil
	}
	return a
}

var domainPattern = regexp.MustCompile(`@([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)

func senderDomain(from string) string {
	m := domainPattern.FindStringSubmatch(from)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

package analytics

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

const (
	maxReasonsShown = 10
	maxDomainsShown = 10
)

// RenderReport renders the analytics as a plain-text report.
func RenderReport(a *FilterAnalytics) string {
	b := &strings.Builder{}

	b.WriteString("FILTER ANALYTICS REPORT\n")
	b.WriteString("=======================\n\n")
	fmt.Fprintf(b, "Generated: %s\n", a.GeneratedAtUTC)
	fmt.Fprintf(b, "Messages evaluated: %d\n", a.TotalMessages)
	fmt.Fprintf(b, "Passed: %d (%.1f%%)\n", a.Passed, a.PassRate())
	fmt.Fprintf(b, "Rejected: %d\n\n", a.Failed)

	if len(a.Filters) > 0 {
		b.WriteString("Per-filter results\n")
		b.WriteString("------------------\n")
		for i := range a.Filters {
			s := &a.Filters[i]
			fmt.Fprintf(b, "%s: %d evaluated, %d passed (%.1f%%), %d rejected\n",
				s.Name, s.Evaluated, s.Passed, s.PassRate(), s.Failed)
			for _, line := range topCounts(s.Reasons, maxReasonsShown) {
				fmt.Fprintf(b, "    %s\n", line)
			}
		}
		b.WriteString("\n")
	}

	if len(a.FailReasons) > 0 {
		b.WriteString("Top rejection reasons\n")
		b.WriteString("---------------------\n")
		for _, line := range topCounts(a.FailReasons, maxReasonsShown) {
			fmt.Fprintf(b, "  %s\n", line)
		}
		b.WriteString("\n")
	}

	if len(a.Domains) > 0 {
		b.WriteString("Sender domains\n")
		b.WriteString("--------------\n")
		shown := a.Domains
		if len(shown) > maxDomainsShown {
			shown = shown[:maxDomainsShown]
		}
		for i := range shown {
			d := &shown[i]
			fmt.Fprintf(b, "  %s: %d messages, %d passed (%.1f%%)\n",
				d.Domain, d.Total, d.Passed, d.PassRate())
		}
	}

	return b.String()
}

// Save writes the analytics as indented JSON to jsonPath and, when
// reportPath is non-empty, the text report next to it.
func Save(a *FilterAnalytics, jsonPath, reportPath string) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal filter analytics: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write filter analytics: %w", err)
	}
	if reportPath == "" {
		return nil
	}
	if err := os.WriteFile(reportPath, []byte(RenderReport(a)), 0644); err != nil {
		return fmt.Errorf("failed to write filter analytics report: %w", err)
	}
	return nil
}

// topCounts formats count map entries sorted by count descending, then key.
func topCounts(counts map[string]int, limit int) []string {
	type entry struct {
		key   string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for k, v := range counts {
		entries = append(entries, entry{k, v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = fmt.Sprintf("%dx %s", e.count, e.key)
	}
	return out
}

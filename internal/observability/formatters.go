// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergiomunoz/opportunity-pipeline/internal/correlation"
	"github.com/sergiomunoz/opportunity-pipeline/internal/tracking"
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintOpportunities outputs a summary of the extracted opportunities.
func (p *Printer) PrintOpportunities(opportunities []types.Opportunity) {
	if len(opportunities) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Extracted %d opportunities:\n\n", len(opportunities)))

	count := min(len(opportunities), maxItemsToShow)
	for i := 0; i < count; i++ {
		opp := &opportunities[i]
		title := opp.JobTitle
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("• %s\n", title))
		sb.WriteString(fmt.Sprintf("  %s", opp.Company))
		if len(opp.Locations) > 0 {
			sb.WriteString(" - " + opp.Locations[0])
		}
		sb.WriteString("\n")
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(opportunities) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(opportunities)-maxItemsToShow))
	}

	p.printBox("EXTRACTED OPPORTUNITIES", sb.String())
}

// PrintMatchResult outputs one scored match with its dimension breakdown.
func (p *Printer) PrintMatchResult(result *types.MatchResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role:     %s\n", result.JobTitle))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", result.Company))
	sb.WriteString(fmt.Sprintf("Score:    %.1f (%s, %s)\n", result.OverallScore, result.Grade, result.Recommendation))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Skills:     %.0f  (%d/%d mandatory)\n",
		result.Skills.Score, result.Skills.MandatoryMet, result.Skills.MandatoryTotal))
	sb.WriteString(fmt.Sprintf("Experience: %.0f\n", result.Experience.Score))
	sb.WriteString(fmt.Sprintf("Education:  %.0f\n", result.Education.Score))
	sb.WriteString(fmt.Sprintf("Location:   %.0f\n", result.Location.Score))

	if len(result.Skills.MissingMandatory) > 0 {
		sb.WriteString("\nMissing skills:\n")
		count := min(len(result.Skills.MissingMandatory), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", result.Skills.MissingMandatory[i]))
		}
		if len(result.Skills.MissingMandatory) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Skills.MissingMandatory)-3))
		}
	}

	p.printBox("MATCH RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReplyResults outputs the send status of each reply.
func (p *Printer) PrintReplyResults(results []types.ReplyResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	var sent, dryRun, failed int
	for i := range results {
		switch results[i].Status {
		case types.ReplySent:
			sent++
		case types.ReplyDryRun:
			dryRun++
		case types.ReplyFailed:
			failed++
		}
	}
	sb.WriteString(fmt.Sprintf("Replies: %d sent, %d dry-run, %d failed\n\n", sent, dryRun, failed))

	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := &results[i]
		marker := "✓"
		if r.Status == types.ReplyFailed {
			marker = "⚠"
		}
		to := r.Draft.To
		if len(to) > 35 {
			to = to[:32] + "..."
		}
		sb.WriteString(fmt.Sprintf("%s %s  %s\n", marker, r.Status, to))
		if r.Error != "" {
			errText := r.Error
			if len(errText) > 45 {
				errText = errText[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("  %s\n", errText))
		}
	}

	if len(results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(results)-maxItemsToShow))
	}

	p.printBox("REPLY RESULTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCorrelationSummary outputs the aggregate pipeline statistics.
func (p *Printer) PrintCorrelationSummary(summary *correlation.Summary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Opportunities: %d\n", summary.TotalOpportunities))
	sb.WriteString(fmt.Sprintf("Pipeline complete: %d\n", summary.PipelineCompleteCount))
	sb.WriteString("\n")

	if len(summary.ByStage) > 0 {
		sb.WriteString("By stage:\n")
		for _, stage := range correlation.StageOrder {
			if n := summary.ByStage[stage]; n > 0 {
				sb.WriteString(fmt.Sprintf("  %-10s %d\n", stage, n))
			}
		}
		sb.WriteString("\n")
	}

	if summary.MatchedCount > 0 {
		sb.WriteString(fmt.Sprintf("Matched: %d (avg %.1f, max %.1f)\n",
			summary.MatchedCount, summary.AvgMatchScore, summary.MaxMatchScore))
	}
	sb.WriteString(fmt.Sprintf("Replies: %d sent, %d dry-run, %d failed",
		summary.RepliesSent, summary.RepliesDryRun, summary.RepliesFailed))

	p.printBox("PIPELINE SUMMARY", sb.String())
}

// PrintTrackingSummary outputs the tracked-application statistics.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintTrackingSummary(summary *tracking.TrackingSummary) {
	if summary == nil {
		return
	}
	if summary.TotalApplications == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO TRACKED APPLICATIONS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Applications: %d (%d active)\n", summary.TotalApplications, summary.Active))
	sb.WriteString(fmt.Sprintf("Interviews:   %d\n", summary.TotalInterviews))
	sb.WriteString(fmt.Sprintf("Offers:       %d\n", summary.OffersReceived))
	if summary.AverageScore > 0 {
		sb.WriteString(fmt.Sprintf("Avg score:    %.1f\n", summary.AverageScore))
	}

	if len(summary.TopCompanies) > 0 {
		sb.WriteString("\nTop companies:\n")
		count := min(len(summary.TopCompanies), 3)
		for i := 0; i < count; i++ {
			c := summary.TopCompanies[i]
			sb.WriteString(fmt.Sprintf("  • %s (%d)\n", c.Company, c.Count))
		}
	}

	p.printBox("APPLICATION TRACKING", strings.TrimSuffix(sb.String(), "\n"))
}

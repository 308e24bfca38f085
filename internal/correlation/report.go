package correlation

import (
	"fmt"
	"strings"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

var recommendationLabels = map[types.Recommendation]string{
	types.RecommendStrongApply:    "Strong Apply",
	types.RecommendApply:          "Apply",
	types.RecommendConsider:       "Consider",
	types.RecommendSkip:           "Skip",
	types.RecommendNotRecommended: "Not Recommended",
}

// RenderReport produces a Markdown report of the correlated view: an
// executive summary, stage and grade breakdowns, and one section per
// opportunity in the given (already sorted/filtered) order.
func RenderReport(summary Summary, correlated []CorrelatedOpportunity) string {
	var sb strings.Builder

	sb.WriteString("# Job Opportunity Correlation Report\n\n")
	if summary.ResumeName != "" {
		fmt.Fprintf(&sb, "**Candidate:** %s\n", summary.ResumeName)
	}
	fmt.Fprintf(&sb, "**Generated:** %s\n\n", summary.GeneratedAt)

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n|--------|-------|\n")
	fmt.Fprintf(&sb, "| Total Opportunities | %d |\n", summary.TotalOpportunities)
	fmt.Fprintf(&sb, "| Matched | %d |\n", summary.MatchedCount)
	fmt.Fprintf(&sb, "| Tailored Resumes | %d |\n", summary.TailoredCount)
	fmt.Fprintf(&sb, "| Documents Generated | %d |\n", summary.DocumentsGenerated)
	fmt.Fprintf(&sb, "| Replies Sent | %d |\n", summary.RepliesSent)
	fmt.Fprintf(&sb, "| Pipeline Complete | %d |\n\n", summary.PipelineCompleteCount)

	if summary.MatchedCount > 0 {
		sb.WriteString("## Match Statistics\n\n")
		fmt.Fprintf(&sb, "- Average score: %.1f\n", summary.AvgMatchScore)
		fmt.Fprintf(&sb, "- Best score: %.1f\n", summary.MaxMatchScore)
		fmt.Fprintf(&sb, "- Lowest score: %.1f\n\n", summary.MinMatchScore)
	}

	if len(summary.ByStage) > 0 {
		sb.WriteString("## Pipeline Stages\n\n")
		for _, stage := range StageOrder {
			if count := summary.ByStage[stage]; count > 0 {
				fmt.Fprintf(&sb, "- %s: %d\n", stage, count)
			}
		}
		sb.WriteString("\n")
	}

	if len(summary.TopCompanies) > 0 {
		sb.WriteString("## Top Companies\n\n")
		for _, cc := range summary.TopCompanies {
			fmt.Fprintf(&sb, "- %s (%d)\n", cc.Company, cc.Count)
		}
		sb.WriteString("\n")
	}

	if len(correlated) > 0 {
		sb.WriteString("## Opportunities\n\n")
		for i := range correlated {
			renderOpportunity(&sb, &correlated[i])
		}
	}

	return sb.String()
}

func renderOpportunity(sb *strings.Builder, rec *CorrelatedOpportunity) {
	title := rec.JobTitle
	if title == "" {
		title = "(untitled role)"
	}
	if rec.Company != "" {
		fmt.Fprintf(sb, "### %s at %s\n\n", title, rec.Company)
	} else {
		fmt.Fprintf(sb, "### %s\n\n", title)
	}

	fmt.Fprintf(sb, "- Job ID: `%s`\n", rec.JobID)
	fmt.Fprintf(sb, "- Stage: %s\n", rec.Stage)
	if rec.PipelineComplete {
		sb.WriteString("- Pipeline complete\n")
	}
	if len(rec.Locations) > 0 {
		fmt.Fprintf(sb, "- Locations: %s\n", strings.Join(rec.Locations, ", "))
	}
	if rec.RecruiterName != "" || rec.RecruiterEmail != "" {
		fmt.Fprintf(sb, "- Recruiter: %s %s\n", rec.RecruiterName, rec.RecruiterEmail)
	}

	if rec.Match != nil {
		label := recommendationLabels[rec.Match.Recommendation]
		if label == "" {
			label = string(rec.Match.Recommendation)
		}
		fmt.Fprintf(sb, "- Match: %.1f/100 (%s, %s)\n", rec.Match.OverallScore, rec.Match.Grade, label)
		for _, s := range rec.Match.TopStrengths {
			fmt.Fprintf(sb, "  - Strength: %s\n", s)
		}
		for _, c := range rec.Match.TopConcerns {
			fmt.Fprintf(sb, "  - Concern: %s\n", c)
		}
	}

	if rec.Tailoring != nil {
		fmt.Fprintf(sb, "- Tailoring: %d changes", rec.Tailoring.TotalChanges)
		if rec.Tailoring.DocumentPath != "" {
			fmt.Fprintf(sb, " (`%s`)", rec.Tailoring.DocumentPath)
		}
		sb.WriteString("\n")
	}

	if rec.Reply != nil {
		fmt.Fprintf(sb, "- Reply: %s", rec.Reply.Status)
		if rec.Reply.To != "" {
			fmt.Fprintf(sb, " to %s", rec.Reply.To)
		}
		if rec.Reply.SentAt != "" {
			fmt.Fprintf(sb, " at %s", rec.Reply.SentAt)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
}

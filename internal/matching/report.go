package matching

import (
	"fmt"
	"strings"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

var gradeLabels = map[types.MatchGrade]string{
	types.GradeExcellent:   "Excellent",
	types.GradeGood:        "Good",
	types.GradeFair:        "Fair",
	types.GradePoor:        "Poor",
	types.GradeUnqualified: "Unqualified",
}

// RenderReport renders match results as a Markdown report, best matches
// first. Results are assumed already sorted by MatchAll.
func RenderReport(resumeName string, results []types.MatchResult) string {
	var b strings.Builder

	b.WriteString("# Match Report\n\n")
	fmt.Fprintf(&b, "Resume: %s\n\n", resumeName)
	fmt.Fprintf(&b, "Opportunities scored: %d\n\n", len(results))

	if len(results) == 0 {
		b.WriteString("No opportunities to score.\n")
		return b.String()
	}

	for i := range results {
		renderResult(&b, &results[i])
	}
	return b.String()
}

func renderResult(b *strings.Builder, r *types.MatchResult) {
	title := r.JobTitle
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(b, "## %s - %s\n\n", title, r.Company)
	fmt.Fprintf(b, "- Score: %.1f (%s)\n", r.OverallScore, gradeLabels[r.Grade])
	fmt.Fprintf(b, "- Recommendation: %s\n", r.Recommendation)
	fmt.Fprintf(b, "- Skills: %.0f (mandatory %d/%d, preferred %d/%d)\n",
		r.Skills.Score, r.Skills.MandatoryMet, r.Skills.MandatoryTotal,
		r.Skills.PreferredMet, r.Skills.PreferredTotal)
	fmt.Fprintf(b, "- Experience: %.0f | Education: %.0f | Location: %.0f\n",
		r.Experience.Score, r.Education.Score, r.Location.Score)

	if len(r.Skills.MissingMandatory) > 0 {
		fmt.Fprintf(b, "- Missing mandatory skills: %s\n", strings.Join(r.Skills.MissingMandatory, ", "))
	}
	if len(r.Insights.Strengths) > 0 {
		fmt.Fprintf(b, "- Strengths: %s\n", strings.Join(r.Insights.Strengths, "; "))
	}
	if len(r.Insights.Concerns) > 0 {
		fmt.Fprintf(b, "- Concerns: %s\n", strings.Join(r.Insights.Concerns, "; "))
	}
	b.WriteString("\n")
}

package tailoring

import (
	"fmt"
	"strings"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

// RenderReport renders tailoring results as a Markdown report.
func RenderReport(results []Result) string {
	var b strings.Builder

	b.WriteString("# Tailoring Report\n\n")
	fmt.Fprintf(&b, "Resumes tailored: %d\n\n", len(results))

	if len(results) == 0 {
		b.WriteString("No resumes were tailored.\n")
		return b.String()
	}

	for i := range results {
		renderTailoring(&b, &results[i].Report)
	}
	return b.String()
}

func renderTailoring(b *strings.Builder, report *types.TailoringReport) {
	title := report.JobTitle
	if title == "" {
		title = report.JobID
	}
	fmt.Fprintf(b, "## %s - %s\n\n", title, report.Company)
	fmt.Fprintf(b, "- Changes applied: %d\n", report.TotalChanges())

	if cats := report.CategoriesChanged(); len(cats) > 0 {
		names := make([]string, 0, len(cats))
		for _, c := range cats {
			names = append(names, string(c))
		}
		fmt.Fprintf(b, "- Categories: %s\n", strings.Join(names, ", "))
	}
	if report.DocumentFilename != "" {
		fmt.Fprintf(b, "- Document: %s\n", report.DocumentFilename)
	}

	for _, change := range report.Changes {
		if change.Before != "" && change.After != "" {
			fmt.Fprintf(b, "- [%s] %s: %q -> %q\n", change.Category, change.Field, change.Before, change.After)
		} else {
			fmt.Fprintf(b, "- [%s] %s: %s\n", change.Category, change.Field, change.After)
		}
	}
	b.WriteString("\n")
}

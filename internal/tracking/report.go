package tracking

import (
	"fmt"
	"strings"
)

// RenderReport renders the tracked applications and summary as Markdown.
func RenderReport(apps []TrackedApplication, summary TrackingSummary) string {
	var b strings.Builder
	b.WriteString("# Application Tracking Report\n\n")

	fmt.Fprintf(&b, "- Applications: %d (%d active)\n", summary.TotalApplications, summary.Active)
	fmt.Fprintf(&b, "- Interviews logged: %d\n", summary.TotalInterviews)
	fmt.Fprintf(&b, "- Offers received: %d\n", summary.OffersReceived)
	if summary.AverageScore > 0 {
		fmt.Fprintf(&b, "- Average match score: %.1f\n", summary.AverageScore)
	}
	b.WriteString("\n")

	if len(summary.ByStatus) > 0 {
		b.WriteString("## By status\n\n")
		for _, status := range []ApplicationStatus{StatusApplied, StatusInterviewing, StatusOffered, StatusClosed} {
			if n := summary.ByStatus[string(status)]; n > 0 {
				fmt.Fprintf(&b, "- %s: %d\n", status, n)
			}
		}
		b.WriteString("\n")
	}

	for i := range apps {
		renderApplication(&b, &apps[i])
	}
	return b.String()
}

func renderApplication(b *strings.Builder, app *TrackedApplication) {
	title := app.JobTitle
	if title == "" {
		title = app.JobID
	}
	fmt.Fprintf(b, "## %s - %s\n\n", title, app.Company)
	fmt.Fprintf(b, "- Status: %s\n", app.Status)
	if app.FinalOutcome != "" {
		fmt.Fprintf(b, "- Outcome: %s\n", app.FinalOutcome)
	}
	if app.MatchScore != nil {
		fmt.Fprintf(b, "- Match: %.1f (%s)\n", *app.MatchScore, app.MatchGrade)
	}
	fmt.Fprintf(b, "- Applied: %s\n", app.AppliedAt.Format("2006-01-02"))
	if app.ClosedAt != nil {
		fmt.Fprintf(b, "- Closed: %s\n", app.ClosedAt.Format("2006-01-02"))
	}
	if len(app.Interviews) > 0 {
		b.WriteString("\nInterviews:\n\n")
		for _, iv := range app.Interviews {
			line := fmt.Sprintf("- Round %d: %s", iv.Round, iv.Type)
			if iv.ScheduledAt != nil {
				line += " on " + iv.ScheduledAt.Format("2006-01-02")
			}
			if iv.Completed {
				line += " (completed)"
			}
			b.WriteString(line + "\n")
		}
	}
	if app.Offer != nil {
		b.WriteString("\nOffer:\n\n")
		if app.Offer.Salary != "" {
			fmt.Fprintf(b, "- Salary: %s\n", app.Offer.Salary)
		}
		if app.Offer.Deadline != "" {
			fmt.Fprintf(b, "- Deadline: %s\n", app.Offer.Deadline)
		}
	}
	if len(app.Notes) > 0 {
		b.WriteString("\nNotes:\n\n")
		for _, note := range app.Notes {
			fmt.Fprintf(b, "- %s\n", note)
		}
	}
	b.WriteString("\n")
}

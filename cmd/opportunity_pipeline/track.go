package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sergiomunoz/opportunity-pipeline/internal/artifacts"
	"github.com/sergiomunoz/opportunity-pipeline/internal/correlation"
	"github.com/sergiomunoz/opportunity-pipeline/internal/db"
	"github.com/sergiomunoz/opportunity-pipeline/internal/observability"
	"github.com/sergiomunoz/opportunity-pipeline/internal/tracking"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Track the post-reply lifecycle of applications",
	Long:  "Manage tracked applications: bootstrap them from correlated output, record interviews and offers, set outcomes, and report on the whole set.",
}

var (
	trackOutputDir   string
	trackDatabaseURL string
)

var trackInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create tracked applications from correlated output",
	RunE:  runTrackInit,
}

var trackInitMinStage string

var trackStatusCmd = &cobra.Command{
	Use:   "status <job-id> <status>",
	Short: "Set an application's status (applied|interviewing|offered|closed)",
	Args:  cobra.ExactArgs(2),
	RunE:  runTrackStatus,
}

var trackStatusNote string

var trackInterviewCmd = &cobra.Command{
	Use:   "interview <job-id>",
	Short: "Record an interview round",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrackInterview,
}

var (
	trackInterviewType        string
	trackInterviewWhen        string
	trackInterviewInterviewer string
	trackInterviewNotes       string
)

var trackOfferCmd = &cobra.Command{
	Use:   "offer <job-id>",
	Short: "Record a received offer",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrackOffer,
}

var (
	trackOfferSalary   string
	trackOfferEquity   string
	trackOfferStart    string
	trackOfferDeadline string
	trackOfferNotes    string
)

var trackOutcomeCmd = &cobra.Command{
	Use:   "outcome <job-id> <outcome>",
	Short: "Close an application with a final outcome (accepted|declined|rejected|withdrawn|ghosted)",
	Args:  cobra.ExactArgs(2),
	RunE:  runTrackOutcome,
}

var trackNoteCmd = &cobra.Command{
	Use:   "note <job-id> <note>",
	Short: "Add a free-form note to an application",
	Args:  cobra.ExactArgs(2),
	RunE:  runTrackNote,
}

var trackReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the tracked-application report",
	RunE:  runTrackReport,
}

var trackReportPath string

func init() {
	trackCmd.PersistentFlags().StringVarP(&trackOutputDir, "out", "o", "output", "Directory for generated artifacts")
	trackCmd.PersistentFlags().StringVar(&trackDatabaseURL, "db-url", "", "PostgreSQL URL (overrides DATABASE_URL env var)")

	trackInitCmd.Flags().StringVar(&trackInitMinStage, "min-stage", "", "Lowest correlation stage to track (default replied)")

	trackStatusCmd.Flags().StringVar(&trackStatusNote, "note", "", "Note recorded with the status change")

	trackInterviewCmd.Flags().StringVar(&trackInterviewType, "type", "other", "Interview type (phone_screen|technical|behavioral|system_design|hiring_manager|panel|onsite|other)")
	trackInterviewCmd.Flags().StringVar(&trackInterviewWhen, "when", "", "Scheduled time, RFC 3339 or YYYY-MM-DD")
	trackInterviewCmd.Flags().StringVar(&trackInterviewInterviewer, "interviewer", "", "Interviewer name")
	trackInterviewCmd.Flags().StringVar(&trackInterviewNotes, "notes", "", "Interview notes")

	trackOfferCmd.Flags().StringVar(&trackOfferSalary, "salary", "", "Offered salary")
	trackOfferCmd.Flags().StringVar(&trackOfferEquity, "equity", "", "Offered equity")
	trackOfferCmd.Flags().StringVar(&trackOfferStart, "start-date", "", "Proposed start date")
	trackOfferCmd.Flags().StringVar(&trackOfferDeadline, "deadline", "", "Offer deadline")
	trackOfferCmd.Flags().StringVar(&trackOfferNotes, "notes", "", "Offer notes")

	trackReportCmd.Flags().StringVar(&trackReportPath, "report", "", "Also write the Markdown report to this path")

	trackCmd.AddCommand(trackInitCmd, trackStatusCmd, trackInterviewCmd, trackOfferCmd, trackOutcomeCmd, trackNoteCmd, trackReportCmd)
	rootCmd.AddCommand(trackCmd)
}

// openTracker connects to the database and loads the tracked set.
func openTracker(ctx context.Context) (*tracking.Tracker, *db.DB, error) {
	url := resolveDatabaseURL(trackDatabaseURL)
	if url == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL or --db-url is required for tracking")
	}
	database, err := db.Connect(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	if err := database.InitSchema(ctx); err != nil {
		database.Close()
		return nil, nil, err
	}
	tracker := tracking.NewTracker()
	existing, err := database.LoadApplications(ctx)
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	tracker.LoadExisting(existing)
	return tracker, database, nil
}

func saveTracker(ctx context.Context, tracker *tracking.Tracker, database *db.DB) error {
	return database.SaveApplications(ctx, tracker.All())
}

func runTrackInit(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	tracker, database, err := openTracker(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	correlated, err := artifacts.Read[correlation.CorrelatedOpportunity](artifactPath(trackOutputDir, artifacts.CorrelatedFile))
	if err != nil {
		return err
	}

	created := tracker.InitFromCorrelation(correlated, correlation.Stage(trackInitMinStage))
	if err := saveTracker(ctx, tracker, database); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Tracking %d new applications (%d total)\n", len(created), len(tracker.All()))
	return nil
}

func runTrackStatus(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	tracker, database, err := openTracker(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	app, err := tracker.UpdateStatus(args[0], tracking.ApplicationStatus(args[1]), trackStatusNote)
	if err != nil {
		return err
	}
	if err := saveTracker(ctx, tracker, database); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s at %s is now %s\n", app.JobTitle, app.Company, app.Status)
	return nil
}

func runTrackInterview(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	tracker, database, err := openTracker(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	rec := tracking.InterviewRecord{
		Type:        tracking.InterviewType(trackInterviewType),
		Interviewer: trackInterviewInterviewer,
		Notes:       trackInterviewNotes,
	}
	if trackInterviewWhen != "" {
		when, err := parseWhen(trackInterviewWhen)
		if err != nil {
			return err
		}
		rec.ScheduledAt = &when
	}

	app, err := tracker.AddInterview(args[0], rec)
	if err != nil {
		return err
	}
	if err := saveTracker(ctx, tracker, database); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Recorded %s interview round %d for %s at %s\n",
		rec.Type, len(app.Interviews), app.JobTitle, app.Company)
	return nil
}

func runTrackOffer(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	tracker, database, err := openTracker(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	app, err := tracker.SetOffer(args[0], tracking.OfferDetails{
		Salary:    trackOfferSalary,
		Equity:    trackOfferEquity,
		StartDate: trackOfferStart,
		Deadline:  trackOfferDeadline,
		Notes:     trackOfferNotes,
	})
	if err != nil {
		return err
	}
	if err := saveTracker(ctx, tracker, database); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Recorded offer for %s at %s\n", app.JobTitle, app.Company)
	return nil
}

func runTrackOutcome(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	tracker, database, err := openTracker(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	app, err := tracker.SetOutcome(args[0], tracking.FinalOutcome(args[1]))
	if err != nil {
		return err
	}
	if err := saveTracker(ctx, tracker, database); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Closed %s at %s: %s\n", app.JobTitle, app.Company, app.FinalOutcome)
	return nil
}

func runTrackNote(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	tracker, database, err := openTracker(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	app, err := tracker.AddNote(args[0], args[1])
	if err != nil {
		return err
	}
	if err := saveTracker(ctx, tracker, database); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Added note to %s at %s\n", app.JobTitle, app.Company)
	return nil
}

func runTrackReport(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	tracker, database, err := openTracker(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	summary := tracker.BuildSummary()
	observability.NewPrinter(os.Stdout).PrintTrackingSummary(&summary)

	if trackReportPath != "" {
		report := tracking.RenderReport(tracker.All(), summary)
		if err := os.WriteFile(trackReportPath, []byte(report), 0644); err != nil {
			return fmt.Errorf("failed to write tracking report: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Report: %s\n", trackReportPath)
	}
	return nil
}

func parseWhen(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse("2006-01-02", value); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q (use RFC 3339 or YYYY-MM-DD)", value)
}

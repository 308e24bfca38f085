// Package pipeline provides the high-level orchestration for the email
// opportunity pipeline: fetch, filter, extract, match, tailor, compose, send,
// correlate, track.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sergiomunoz/opportunity-pipeline/internal/analytics"
	"github.com/sergiomunoz/opportunity-pipeline/internal/artifacts"
	"github.com/sergiomunoz/opportunity-pipeline/internal/correlation"
	"github.com/sergiomunoz/opportunity-pipeline/internal/db"
	"github.com/sergiomunoz/opportunity-pipeline/internal/extraction"
	"github.com/sergiomunoz/opportunity-pipeline/internal/filters"
	"github.com/sergiomunoz/opportunity-pipeline/internal/gmail"
	"github.com/sergiomunoz/opportunity-pipeline/internal/llm"
	"github.com/sergiomunoz/opportunity-pipeline/internal/matching"
	"github.com/sergiomunoz/opportunity-pipeline/internal/observability"
	"github.com/sergiomunoz/opportunity-pipeline/internal/pipeline/steps"
	"github.com/sergiomunoz/opportunity-pipeline/internal/reply"
	"github.com/sergiomunoz/opportunity-pipeline/internal/tailoring"
	"github.com/sergiomunoz/opportunity-pipeline/internal/tracking"
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	CredentialsPath string
	TokenPath       string
	Query           string
	DaysBack        int
	MaxResults      int
	ResumePath      string
	TemplatePath    string
	OutputDir       string
	APIKey          string
	DatabaseURL     string
	FromAddress     string
	OverrideTo      string
	DryRun          bool
	Verbose         bool
	MinRec          types.Recommendation
	SkipLLMFilter   bool
	FetchPostings   bool
	Analytics       bool
}

// RunPipeline orchestrates the full opportunity pipeline end to end.
func RunPipeline(ctx context.Context, opts RunOptions) error {
	printer := observability.NewPrinter(os.Stdout)
	if opts.OutputDir == "" {
		opts.OutputDir = "output"
	}
	if opts.MinRec == "" {
		opts.MinRec = types.RecommendConsider
	}

	resume, err := matching.LoadResume(opts.ResumePath)
	if err != nil {
		return fmt.Errorf("failed to load resume: %w", err)
	}

	client, err := llm.NewClient(ctx, nil, opts.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	provider, err := gmail.NewProvider(ctx, gmail.Auth{
		CredentialsPath: opts.CredentialsPath,
		TokenPath:       opts.TokenPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gmail provider: %w", err)
	}

	// Initialize database connection if configured
	var database *db.DB
	var runID uuid.UUID
	if opts.DatabaseURL != "" {
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without database persistence...\n")
		} else {
			defer database.Close()
			if err := database.InitSchema(ctx); err != nil {
				fmt.Printf("Warning: Failed to init database schema: %v\n", err)
			}
			runID, err = database.CreateRun(ctx, opts.Query, resume.Personal.Name)
			if err != nil {
				fmt.Printf("Warning: Failed to create database run: %v\n", err)
			} else if opts.Verbose {
				fmt.Printf("[VERBOSE] Created database run: %s\n", runID)
			}
		}
	}

	// Step 1: Fetch
	fmt.Printf("%s: Fetching messages from Gmail...\n", stepHeader(steps.StageFetch))
	fetchOpts := gmail.FetchOptions{
		Query:       opts.Query,
		MaxMessages: opts.MaxResults,
	}
	if opts.DaysBack > 0 {
		fetchOpts.After = time.Now().AddDate(0, 0, -opts.DaysBack)
	}
	messages, err := provider.Fetch(ctx, fetchOpts)
	if err != nil {
		return fmt.Errorf("fetching messages failed: %w", err)
	}
	fmt.Printf("  Fetched %d messages\n", len(messages))
	saveStage(ctx, database, runID, db.StageEmails, messages)
	if err := artifacts.Write(filepath.Join(opts.OutputDir, artifacts.MessagesFile), messages); err != nil {
		return err
	}

	// Step 2: Filter
	fmt.Printf("%s: Filtering for job opportunities...\n", stepHeader(steps.StageFilter))
	filterStages := []filters.Filter{filters.NewKeywordFilter(filters.DefaultRules())}
	if !opts.SkipLLMFilter {
		filterStages = append(filterStages, filters.NewLLMFilter(client))
	}
	filtered, err := filters.NewPipeline(filterStages...).Run(ctx, messages)
	if err != nil {
		return fmt.Errorf("filtering failed: %w", err)
	}
	passed := filters.Passed(filtered)
	fmt.Printf("  %d of %d messages look like opportunities\n", len(passed), len(messages))
	saveStage(ctx, database, runID, db.StageFiltered, filtered)
	if err := artifacts.Write(filepath.Join(opts.OutputDir, artifacts.FilteredFile), filtered); err != nil {
		return err
	}
	if opts.Analytics {
		a := analytics.Build(filtered)
		jsonPath := filepath.Join(opts.OutputDir, artifacts.AnalyticsFile)
		reportPath := filepath.Join(opts.OutputDir, artifacts.AnalyticsReportFile)
		if err := analytics.Save(&a, jsonPath, reportPath); err != nil {
			fmt.Printf("Warning: Failed to write filter analytics: %v\n", err)
		} else {
			fmt.Printf("  Filter analytics written to %s\n", jsonPath)
		}
	}

	// Step 3: Extract
	fmt.Printf("%s: Extracting structured opportunities...\n", stepHeader(steps.StageExtract))
	extractor := extraction.NewFallback(
		extraction.NewLLMExtractor(client),
		extraction.NewRuleBasedExtractor(),
	)
	opportunities, err := extraction.Run(ctx, extractor, passed, nil)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	fmt.Printf("  Extracted %d opportunities\n", len(opportunities))
	if opts.FetchPostings {
		enriched := extraction.EnrichDescriptions(ctx, opportunities, nil, nil)
		fmt.Printf("  Enriched %d descriptions from job posting pages\n", enriched)
	}
	if opts.Verbose {
		printer.PrintOpportunities(opportunities)
	}
	saveStage(ctx, database, runID, db.StageOpportunities, opportunities)
	if err := artifacts.Write(filepath.Join(opts.OutputDir, artifacts.OpportunitiesFile), opportunities); err != nil {
		return err
	}

	// Step 4: Match
	fmt.Printf("%s: Scoring opportunities against resume...\n", stepHeader(steps.StageMatch))
	matches, err := matching.NewMatcher(client).MatchAll(ctx, resume, opportunities)
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}
	fmt.Printf("  Scored %d opportunities\n", len(matches))
	if opts.Verbose {
		for i := range matches {
			printer.PrintMatchResult(&matches[i])
		}
	}
	saveStage(ctx, database, runID, db.StageMatches, matches)
	if err := artifacts.Write(filepath.Join(opts.OutputDir, artifacts.MatchResultsFile), matches); err != nil {
		return err
	}

	oppsByID := opportunitiesByID(opportunities)

	// Step 5: Tailor
	fmt.Printf("%s: Tailoring resume for recommended matches...\n", stepHeader(steps.StageTailor))
	var renderer *tailoring.DocumentRenderer
	if opts.TemplatePath != "" {
		renderer = tailoring.NewDocumentRenderer(opts.TemplatePath, filepath.Join(opts.OutputDir, "tailored"))
	}
	tailored, err := tailoring.NewEngine(client, renderer).TailorAll(ctx, resume, matches, oppsByID, opts.MinRec)
	if err != nil {
		return fmt.Errorf("tailoring failed: %w", err)
	}
	fmt.Printf("  Tailored %d resumes\n", len(tailored))
	reports := make([]types.TailoringReport, 0, len(tailored))
	attachmentsByJob := make(map[string][]string)
	for i := range tailored {
		reports = append(reports, tailored[i].Report)
		if tailored[i].DocumentPath != "" {
			attachmentsByJob[tailored[i].Report.JobID] = []string{tailored[i].DocumentPath}
		}
	}
	saveStage(ctx, database, runID, db.StageTailored, reports)
	if err := artifacts.Write(filepath.Join(opts.OutputDir, artifacts.TailoringFile), reports); err != nil {
		return err
	}

	// Step 6: Compose
	fmt.Printf("%s: Composing replies...\n", stepHeader(steps.StageCompose))
	composer := reply.NewComposer(client, reply.DefaultComposeOptions())
	drafts, err := composer.ComposeAll(ctx, resume, matches, oppsByID, attachmentsByJob)
	if err != nil {
		return fmt.Errorf("composing replies failed: %w", err)
	}
	fmt.Printf("  Composed %d drafts\n", len(drafts))
	saveStage(ctx, database, runID, db.StageDrafts, drafts)
	if err := artifacts.Write(filepath.Join(opts.OutputDir, artifacts.DraftsFile), drafts); err != nil {
		return err
	}

	// Step 7: Send
	if opts.DryRun {
		fmt.Printf("%s: Dry run, building replies without sending...\n", stepHeader(steps.StageSend))
	} else {
		fmt.Printf("%s: Sending replies...\n", stepHeader(steps.StageSend))
	}
	sender := reply.NewSender(provider, reply.SendOptions{
		DryRun:     opts.DryRun,
		From:       opts.FromAddress,
		OverrideTo: opts.OverrideTo,
	})
	results := sender.SendAll(ctx, drafts)
	if opts.Verbose {
		printer.PrintReplyResults(results)
	}
	saveStage(ctx, database, runID, db.StageReplies, results)
	if err := artifacts.Write(filepath.Join(opts.OutputDir, artifacts.ReplyResultsFile), results); err != nil {
		return err
	}

	// Step 8: Correlate
	fmt.Printf("%s: Correlating pipeline artifacts...\n", stepHeader(steps.StageCorrelate))
	correlator := correlation.NewCorrelator()
	correlator.AddMessages(messages)
	correlator.AddOpportunities(opportunities)
	correlator.AddMatchResults(matches)
	correlator.AddTailoringResults(reports, filepath.Join(opts.OutputDir, "tailored"))
	correlator.AddDrafts(drafts)
	correlator.AddReplyResults(results)
	correlated := correlator.Correlate()
	summary := correlator.BuildSummary(correlated, resume.Personal.Name)
	printer.PrintCorrelationSummary(&summary)
	saveStage(ctx, database, runID, db.StageCorrelated, correlated)
	saveStage(ctx, database, runID, db.StageSummary, summary)
	if err := artifacts.Write(filepath.Join(opts.OutputDir, artifacts.CorrelatedFile), correlated); err != nil {
		return err
	}

	// Step 9: Track
	fmt.Printf("%s: Updating application tracking...\n", stepHeader(steps.StageTrack))
	tracker := tracking.NewTracker()
	if database != nil {
		existing, err := database.LoadApplications(ctx)
		if err != nil {
			fmt.Printf("Warning: Failed to load tracked applications: %v\n", err)
		} else {
			tracker.LoadExisting(existing)
		}
	}
	created := tracker.InitFromCorrelation(correlated, "")
	fmt.Printf("  Tracking %d new applications\n", len(created))
	if database != nil {
		if err := database.SaveApplications(ctx, tracker.All()); err != nil {
			fmt.Printf("Warning: Failed to save tracked applications: %v\n", err)
		}
	}
	if opts.Verbose {
		trackSummary := tracker.BuildSummary()
		printer.PrintTrackingSummary(&trackSummary)
	}

	if database != nil && runID != uuid.Nil {
		repliesSent := 0
		for i := range results {
			if results[i].Sent() {
				repliesSent++
			}
		}
		if err := database.CompleteRun(ctx, runID, "completed", db.RunCounts{
			EmailsFetched: len(messages),
			Opportunities: len(opportunities),
			RepliesSent:   repliesSent,
		}); err != nil {
			fmt.Printf("Warning: Failed to complete database run: %v\n", err)
		}
	}

	fmt.Printf("\nPipeline complete. Artifacts written to %s\n", opts.OutputDir)
	return nil
}

func stepHeader(stage string) string {
	return fmt.Sprintf("Step %d/%d", steps.Number(stage), len(steps.Order))
}

// saveStage persists a stage artifact when a database run is active. Failures
// only warn: file artifacts remain the source of truth.
func saveStage(ctx context.Context, database *db.DB, runID uuid.UUID, stage string, content any) {
	if database == nil || runID == uuid.Nil {
		return
	}
	if err := database.SaveArtifact(ctx, runID, stage, content); err != nil {
		fmt.Printf("Warning: Failed to save %s artifact: %v\n", stage, err)
	}
}

func opportunitiesByID(opportunities []types.Opportunity) map[string]types.Opportunity {
	byID := make(map[string]types.Opportunity, len(opportunities))
	for i := range opportunities {
		if id := opportunities[i].JobID(); id != "" {
			byID[id] = opportunities[i]
		}
	}
	return byID
}

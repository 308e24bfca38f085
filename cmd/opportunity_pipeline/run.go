package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sergiomunoz/opportunity-pipeline/internal/config"
	"github.com/sergiomunoz/opportunity-pipeline/internal/pipeline"
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline end to end",
	Long:  "Fetch recent mail, filter for opportunities, extract, match, tailor, compose and send replies, then correlate and track the results.",
	RunE:  runRun,
}

var (
	runConfigPath  string
	runCredentials string
	runTokenPath   string
	runQuery       string
	runDaysBack    int
	runMaxResults  int
	runResumePath  string
	runTemplate    string
	runOutputDir   string
	runAPIKey      string
	runDatabaseURL string
	runFrom        string
	runOverrideTo  string
	runDryRun      bool
	runVerbose     bool
	runMinRec      string
	runSkipLLM     bool
	runPostings    bool
	runAnalytics   bool
)

func init() {
	runCommand.Flags().StringVarP(&runConfigPath, "config", "c", "", "Path to JSON config file")
	runCommand.Flags().StringVar(&runCredentials, "credentials", "credentials.json", "Path to OAuth client credentials JSON")
	runCommand.Flags().StringVar(&runTokenPath, "token", "token.json", "Path to cached OAuth token")
	runCommand.Flags().StringVarP(&runQuery, "query", "q", "", "Extra Gmail search query terms")
	runCommand.Flags().IntVar(&runDaysBack, "days", 0, "How many days of mail to fetch (default 7)")
	runCommand.Flags().IntVar(&runMaxResults, "max", 0, "Cap on fetched messages (0 = no cap)")
	runCommand.Flags().StringVarP(&runResumePath, "resume", "r", "", "Path to resume JSON file (required)")
	runCommand.Flags().StringVar(&runTemplate, "template", "", "Path to .docx resume template (optional)")
	runCommand.Flags().StringVarP(&runOutputDir, "out", "o", "output", "Directory for generated artifacts")
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL URL for persistence (overrides DATABASE_URL env var)")
	runCommand.Flags().StringVar(&runFrom, "from", "", "Sender address for outgoing replies")
	runCommand.Flags().StringVar(&runOverrideTo, "override-to", "", "Redirect all outgoing replies to this address")
	runCommand.Flags().BoolVar(&runDryRun, "dry-run", false, "Build replies without sending them")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed progress")
	runCommand.Flags().StringVar(&runMinRec, "min-recommendation", "consider", "Lowest recommendation to tailor and reply for (strong_apply|apply|consider)")
	runCommand.Flags().BoolVar(&runSkipLLM, "skip-llm-filter", false, "Filter with keyword rules only")
	runCommand.Flags().BoolVar(&runPostings, "fetch-postings", false, "Fetch linked job postings to fill sparse descriptions")
	runCommand.Flags().BoolVar(&runAnalytics, "analytics", false, "Also write filter analytics (JSON + text report)")

	rootCmd.AddCommand(runCommand)
}

func runRun(_ *cobra.Command, _ []string) error {
	// Config file values act as defaults for unset flags.
	if runConfigPath != "" {
		fileCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return err
		}
		if err := fileCfg.Validate(); err != nil {
			return err
		}
		merged := (&config.Config{
			Resume:      runResumePath,
			Template:    runTemplate,
			Credentials: runCredentials,
			TokenPath:   runTokenPath,
			Query:       runQuery,
			DaysBack:    runDaysBack,
			MaxResults:  runMaxResults,
			APIKey:      runAPIKey,
			DatabaseURL: runDatabaseURL,
			OverrideTo:  runOverrideTo,
			FromName:    runFrom,
		}).MergeWithDefaults(*fileCfg)
		runResumePath = merged.Resume
		runTemplate = merged.Template
		runCredentials = merged.Credentials
		runTokenPath = merged.TokenPath
		runQuery = merged.Query
		runDaysBack = merged.DaysBack
		runMaxResults = merged.MaxResults
		runAPIKey = merged.APIKey
		runDatabaseURL = merged.DatabaseURL
		runOverrideTo = merged.OverrideTo
		runFrom = merged.FromName
		if merged.OutputDir != "" && runOutputDir == "output" {
			runOutputDir = merged.OutputDir
		}
		runDryRun = runDryRun || fileCfg.DryRun
		runVerbose = runVerbose || fileCfg.Verbose
	}

	if runResumePath == "" {
		return fmt.Errorf("--resume is required")
	}
	apiKey, err := resolveAPIKey(runAPIKey)
	if err != nil {
		return err
	}

	return pipeline.RunPipeline(context.Background(), pipeline.RunOptions{
		CredentialsPath: runCredentials,
		TokenPath:       runTokenPath,
		Query:           runQuery,
		DaysBack:        runDaysBack,
		MaxResults:      runMaxResults,
		ResumePath:      runResumePath,
		TemplatePath:    runTemplate,
		OutputDir:       runOutputDir,
		APIKey:          apiKey,
		DatabaseURL:     resolveDatabaseURL(runDatabaseURL),
		FromAddress:     runFrom,
		OverrideTo:      runOverrideTo,
		DryRun:          runDryRun,
		Verbose:         runVerbose,
		MinRec:          types.Recommendation(runMinRec),
		SkipLLMFilter:   runSkipLLM,
		FetchPostings:   runPostings,
		Analytics:       runAnalytics,
	})
}

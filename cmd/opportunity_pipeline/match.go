package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sergiomunoz/opportunity-pipeline/internal/artifacts"
	"github.com/sergiomunoz/opportunity-pipeline/internal/llm"
	"github.com/sergiomunoz/opportunity-pipeline/internal/matching"
	"github.com/sergiomunoz/opportunity-pipeline/internal/observability"
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score extracted opportunities against a resume",
	Long:  "Score every extracted opportunity against the resume across skills, experience, education, and location, and write ranked match results.",
	RunE:  runMatch,
}

var (
	matchOutputDir  string
	matchResumePath string
	matchAPIKey     string
	matchReportPath string
	matchVerbose    bool
)

func init() {
	matchCmd.Flags().StringVarP(&matchOutputDir, "out", "o", "output", "Directory for generated artifacts")
	matchCmd.Flags().StringVarP(&matchResumePath, "resume", "r", "", "Path to resume JSON file (required)")
	matchCmd.Flags().StringVar(&matchAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	matchCmd.Flags().StringVar(&matchReportPath, "report", "", "Also write a Markdown match report to this path")
	matchCmd.Flags().BoolVarP(&matchVerbose, "verbose", "v", false, "Print each match result")
	_ = matchCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	resume, err := matching.LoadResume(matchResumePath)
	if err != nil {
		return fmt.Errorf("failed to load resume: %w", err)
	}

	opportunities, err := artifacts.Read[types.Opportunity](artifactPath(matchOutputDir, artifacts.OpportunitiesFile))
	if err != nil {
		return err
	}

	apiKey, err := resolveAPIKey(matchAPIKey)
	if err != nil {
		return err
	}
	client, err := llm.NewClient(ctx, nil, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	results, err := matching.NewMatcher(client).MatchAll(ctx, resume, opportunities)
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}

	outPath := artifactPath(matchOutputDir, artifacts.MatchResultsFile)
	if err := artifacts.Write(outPath, results); err != nil {
		return err
	}

	if matchVerbose {
		printer := observability.NewPrinter(os.Stdout)
		for i := range results {
			printer.PrintMatchResult(&results[i])
		}
	}

	if matchReportPath != "" {
		report := matching.RenderReport(resume.Personal.Name, results)
		if err := os.WriteFile(matchReportPath, []byte(report), 0644); err != nil {
			return fmt.Errorf("failed to write match report: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Report: %s\n", matchReportPath)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Scored %d opportunities\n", len(results))
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", outPath)
	return nil
}

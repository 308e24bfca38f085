package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sergiomunoz/opportunity-pipeline/internal/artifacts"
	"github.com/sergiomunoz/opportunity-pipeline/internal/extraction"
	"github.com/sergiomunoz/opportunity-pipeline/internal/filters"
	"github.com/sergiomunoz/opportunity-pipeline/internal/llm"
	"github.com/sergiomunoz/opportunity-pipeline/internal/observability"
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract structured opportunities from filtered messages",
	Long:  "Extract a structured job opportunity from every message that passed filtering, using the LLM extractor with a rule-based fallback.",
	RunE:  runExtract,
}

var (
	extractOutputDir string
	extractAPIKey    string
	extractRulesOnly bool
	extractPostings  bool
	extractVerbose   bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractOutputDir, "out", "o", "output", "Directory for generated artifacts")
	extractCmd.Flags().StringVar(&extractAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	extractCmd.Flags().BoolVar(&extractRulesOnly, "rules-only", false, "Extract with regex rules only, no LLM")
	extractCmd.Flags().BoolVar(&extractPostings, "fetch-postings", false, "Fetch linked job postings to fill sparse descriptions")
	extractCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print extracted opportunities")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	filtered, err := artifacts.Read[types.FilteredMessage](artifactPath(extractOutputDir, artifacts.FilteredFile))
	if err != nil {
		return err
	}
	passed := filters.Passed(filtered)

	var extractor extraction.Extractor = extraction.NewRuleBasedExtractor()
	if !extractRulesOnly {
		apiKey, err := resolveAPIKey(extractAPIKey)
		if err != nil {
			return err
		}
		client, err := llm.NewClient(ctx, nil, apiKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()
		extractor = extraction.NewFallback(
			extraction.NewLLMExtractor(client),
			extraction.NewRuleBasedExtractor(),
		)
	}

	opportunities, err := extraction.Run(ctx, extractor, passed, nil)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if extractPostings {
		enriched := extraction.EnrichDescriptions(ctx, opportunities, nil, nil)
		_, _ = fmt.Fprintf(os.Stdout, "Enriched %d descriptions from job posting pages\n", enriched)
	}

	outPath := artifactPath(extractOutputDir, artifacts.OpportunitiesFile)
	if err := artifacts.Write(outPath, opportunities); err != nil {
		return err
	}

	if extractVerbose {
		observability.NewPrinter(os.Stdout).PrintOpportunities(opportunities)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Extracted %d opportunities from %d messages\n", len(opportunities), len(passed))
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", outPath)
	return nil
}

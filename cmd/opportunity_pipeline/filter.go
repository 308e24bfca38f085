package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sergiomunoz/opportunity-pipeline/internal/analytics"
	"github.com/sergiomunoz/opportunity-pipeline/internal/artifacts"
	"github.com/sergiomunoz/opportunity-pipeline/internal/filters"
	"github.com/sergiomunoz/opportunity-pipeline/internal/llm"
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter fetched messages for job opportunities",
	Long:  "Apply the keyword and LLM relevance filters to the messages artifact and record a per-message decision.",
	RunE:  runFilter,
}

var (
	filterOutputDir string
	filterAPIKey    string
	filterSkipLLM   bool
	filterAnalytics bool
)

func init() {
	filterCmd.Flags().StringVarP(&filterOutputDir, "out", "o", "output", "Directory for generated artifacts")
	filterCmd.Flags().StringVar(&filterAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	filterCmd.Flags().BoolVar(&filterSkipLLM, "skip-llm", false, "Filter with keyword rules only")
	filterCmd.Flags().BoolVar(&filterAnalytics, "analytics", false, "Also write filter analytics (JSON + text report)")

	rootCmd.AddCommand(filterCmd)
}

func runFilter(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	messages, err := artifacts.Read[types.EmailMessage](artifactPath(filterOutputDir, artifacts.MessagesFile))
	if err != nil {
		return err
	}

	stages := []filters.Filter{filters.NewKeywordFilter(filters.DefaultRules())}
	if !filterSkipLLM {
		apiKey, err := resolveAPIKey(filterAPIKey)
		if err != nil {
			return err
		}
		client, err := llm.NewClient(ctx, nil, apiKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()
		stages = append(stages, filters.NewLLMFilter(client))
	}

	filtered, err := filters.NewPipeline(stages...).Run(ctx, messages)
	if err != nil {
		return fmt.Errorf("filtering failed: %w", err)
	}

	outPath := artifactPath(filterOutputDir, artifacts.FilteredFile)
	if err := artifacts.Write(outPath, filtered); err != nil {
		return err
	}

	if filterAnalytics {
		if err := writeFilterAnalytics(filterOutputDir, filtered); err != nil {
			return err
		}
	}

	passed := filters.Passed(filtered)
	_, _ = fmt.Fprintf(os.Stdout, "%d of %d messages look like opportunities\n", len(passed), len(messages))
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", outPath)
	return nil
}

// writeFilterAnalytics saves the aggregated filter statistics next to the
// filtered artifact, as JSON plus a text report.
func writeFilterAnalytics(outputDir string, filtered []types.FilteredMessage) error {
	a := analytics.Build(filtered)
	jsonPath := artifactPath(outputDir, artifacts.AnalyticsFile)
	reportPath := artifactPath(outputDir, artifacts.AnalyticsReportFile)
	if err := analytics.Save(&a, jsonPath, reportPath); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "Analytics: %s\n", jsonPath)
	_, _ = fmt.Fprintf(os.Stdout, "Analytics report: %s\n", reportPath)
	return nil
}

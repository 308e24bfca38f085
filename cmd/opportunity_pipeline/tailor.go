package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sergiomunoz/opportunity-pipeline/internal/artifacts"
	"github.com/sergiomunoz/opportunity-pipeline/internal/llm"
	"github.com/sergiomunoz/opportunity-pipeline/internal/matching"
	"github.com/sergiomunoz/opportunity-pipeline/internal/tailoring"
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor the resume for recommended matches",
	Long:  "Produce a tailored copy of the resume for every match at or above the recommendation threshold, optionally rendering a .docx from a template.",
	RunE:  runTailor,
}

var (
	tailorOutputDir  string
	tailorResumePath string
	tailorTemplate   string
	tailorAPIKey     string
	tailorMinRec     string
	tailorReportPath string
)

func init() {
	tailorCmd.Flags().StringVarP(&tailorOutputDir, "out", "o", "output", "Directory for generated artifacts")
	tailorCmd.Flags().StringVarP(&tailorResumePath, "resume", "r", "", "Path to resume JSON file (required)")
	tailorCmd.Flags().StringVar(&tailorTemplate, "template", "", "Path to .docx resume template (optional)")
	tailorCmd.Flags().StringVar(&tailorAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	tailorCmd.Flags().StringVar(&tailorMinRec, "min-recommendation", "consider", "Lowest recommendation to tailor for")
	tailorCmd.Flags().StringVar(&tailorReportPath, "report", "", "Also write a Markdown tailoring report to this path")
	_ = tailorCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(tailorCmd)
}

func runTailor(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	resume, err := matching.LoadResume(tailorResumePath)
	if err != nil {
		return fmt.Errorf("failed to load resume: %w", err)
	}

	opportunities, err := artifacts.Read[types.Opportunity](artifactPath(tailorOutputDir, artifacts.OpportunitiesFile))
	if err != nil {
		return err
	}
	matches, err := artifacts.Read[types.MatchResult](artifactPath(tailorOutputDir, artifacts.MatchResultsFile))
	if err != nil {
		return err
	}

	apiKey, err := resolveAPIKey(tailorAPIKey)
	if err != nil {
		return err
	}
	client, err := llm.NewClient(ctx, nil, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	var renderer *tailoring.DocumentRenderer
	if tailorTemplate != "" {
		renderer = tailoring.NewDocumentRenderer(tailorTemplate, filepath.Join(tailorOutputDir, "tailored"))
	}

	oppsByID := make(map[string]types.Opportunity, len(opportunities))
	for i := range opportunities {
		if id := opportunities[i].JobID(); id != "" {
			oppsByID[id] = opportunities[i]
		}
	}

	results, err := tailoring.NewEngine(client, renderer).TailorAll(
		ctx, resume, matches, oppsByID, types.Recommendation(tailorMinRec))
	if err != nil {
		return fmt.Errorf("tailoring failed: %w", err)
	}

	reports := make([]types.TailoringReport, 0, len(results))
	for i := range results {
		reports = append(reports, results[i].Report)
	}

	outPath := artifactPath(tailorOutputDir, artifacts.TailoringFile)
	if err := artifacts.Write(outPath, reports); err != nil {
		return err
	}

	if tailorReportPath != "" {
		report := tailoring.RenderReport(results)
		if err := os.WriteFile(tailorReportPath, []byte(report), 0644); err != nil {
			return fmt.Errorf("failed to write tailoring report: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Report: %s\n", tailorReportPath)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Tailored %d resumes\n", len(results))
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", outPath)
	return nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sergiomunoz/opportunity-pipeline/internal/artifacts"
	"github.com/sergiomunoz/opportunity-pipeline/internal/correlation"
	"github.com/sergiomunoz/opportunity-pipeline/internal/observability"
	"github.com/sergiomunoz/opportunity-pipeline/internal/pipeline/steps"
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

var correlateCmd = &cobra.Command{
	Use:   "correlate",
	Short: "Correlate pipeline artifacts into per-opportunity records",
	Long:  "Merge every stage artifact by job ID into one record per opportunity with a derived lifecycle stage, plus aggregate statistics. Missing stage artifacts are simply absent from the records.",
	RunE:  runCorrelate,
}

var (
	correlateOutputDir  string
	correlateResumeName string
	correlateReportPath string
	correlateStage      string
	correlateRec        string
	correlateMinScore   float64
	correlateTopN       int
)

func init() {
	correlateCmd.Flags().StringVarP(&correlateOutputDir, "out", "o", "output", "Directory for generated artifacts")
	correlateCmd.Flags().StringVar(&correlateResumeName, "resume-name", "", "Resume name recorded in the summary")
	correlateCmd.Flags().StringVar(&correlateReportPath, "report", "", "Also write a Markdown report to this path")
	correlateCmd.Flags().StringVar(&correlateStage, "stage", "", "Only keep records at this lifecycle stage")
	correlateCmd.Flags().StringVar(&correlateRec, "recommend", "", "Only keep records with this match recommendation")
	correlateCmd.Flags().Float64Var(&correlateMinScore, "min-score", 0, "Only keep records with at least this match score")
	correlateCmd.Flags().IntVar(&correlateTopN, "top", 0, "Keep only the N best-scoring records (0 = all)")

	rootCmd.AddCommand(correlateCmd)
}

func runCorrelate(_ *cobra.Command, _ []string) error {
	// Missing stage artifacts are fine: correlation works with whatever
	// stages have run. Unreadable files are treated the same way.
	messages, _ := artifacts.ReadOptional[types.EmailMessage](artifactPath(correlateOutputDir, artifacts.MessagesFile))
	opportunities, _ := artifacts.ReadOptional[types.Opportunity](artifactPath(correlateOutputDir, artifacts.OpportunitiesFile))
	matches, _ := artifacts.ReadOptional[types.MatchResult](artifactPath(correlateOutputDir, artifacts.MatchResultsFile))
	reports, _ := artifacts.ReadOptional[types.TailoringReport](artifactPath(correlateOutputDir, artifacts.TailoringFile))
	drafts, _ := artifacts.ReadOptional[types.EmailDraft](artifactPath(correlateOutputDir, artifacts.DraftsFile))
	replies, _ := artifacts.ReadOptional[types.ReplyResult](artifactPath(correlateOutputDir, artifacts.ReplyResultsFile))

	completed := map[string]bool{
		steps.StageFetch:   len(messages) > 0,
		steps.StageFilter:  len(messages) > 0,
		steps.StageExtract: len(opportunities) > 0,
	}
	if err := steps.ValidateDependencies(steps.StageCorrelate, completed); err != nil {
		return fmt.Errorf("%w; run extract first (artifacts expected in %s)", err, correlateOutputDir)
	}

	correlator := correlation.NewCorrelator()
	correlator.AddMessages(messages)
	correlator.AddOpportunities(opportunities)
	correlator.AddMatchResults(matches)
	correlator.AddTailoringResults(reports, filepath.Join(correlateOutputDir, "tailored"))
	correlator.AddDrafts(drafts)
	correlator.AddReplyResults(replies)

	correlated := correlator.Correlate()
	filterOpts := correlation.FilterOptions{
		TopN: correlateTopN,
	}
	if correlateStage != "" {
		filterOpts.Stages = []string{correlateStage}
	}
	if correlateRec != "" {
		filterOpts.Recommendations = []string{correlateRec}
	}
	if correlateMinScore > 0 {
		filterOpts.MinScore = &correlateMinScore
	}
	correlated = correlation.Filter(correlated, filterOpts)
	summary := correlator.BuildSummary(correlated, correlateResumeName)

	outPath := artifactPath(correlateOutputDir, artifacts.CorrelatedFile)
	if err := artifacts.Write(outPath, correlated); err != nil {
		return err
	}

	if correlateReportPath != "" {
		report := correlation.RenderReport(summary, correlated)
		if err := os.WriteFile(correlateReportPath, []byte(report), 0644); err != nil {
			return fmt.Errorf("failed to write correlation report: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Report: %s\n", correlateReportPath)
	}

	observability.NewPrinter(os.Stdout).PrintCorrelationSummary(&summary)
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", outPath)
	return nil
}

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
	"github.com/sergiomunoz/opportunity-pipeline/internal/reply"
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Compose reply drafts for matched opportunities",
	Long:  "Compose a reply draft for every matched opportunity, attaching the tailored resume document when one was generated.",
	RunE:  runCompose,
}

var (
	composeOutputDir  string
	composeResumePath string
	composeAPIKey     string
	composeTone       string
	composeNoLLM      bool
)

func init() {
	composeCmd.Flags().StringVarP(&composeOutputDir, "out", "o", "output", "Directory for generated artifacts")
	composeCmd.Flags().StringVarP(&composeResumePath, "resume", "r", "", "Path to resume JSON file (required)")
	composeCmd.Flags().StringVar(&composeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	composeCmd.Flags().StringVar(&composeTone, "tone", "professional", "Reply tone (professional|enthusiastic|casual|concise)")
	composeCmd.Flags().BoolVar(&composeNoLLM, "template-only", false, "Compose from the built-in template without an LLM")
	_ = composeCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(composeCmd)
}

func runCompose(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	resume, err := matching.LoadResume(composeResumePath)
	if err != nil {
		return fmt.Errorf("failed to load resume: %w", err)
	}

	opportunities, err := artifacts.Read[types.Opportunity](artifactPath(composeOutputDir, artifacts.OpportunitiesFile))
	if err != nil {
		return err
	}
	matches, err := artifacts.Read[types.MatchResult](artifactPath(composeOutputDir, artifacts.MatchResultsFile))
	if err != nil {
		return err
	}
	// Tailoring output is optional; without it drafts have no attachments.
	reports, err := artifacts.Read[types.TailoringReport](artifactPath(composeOutputDir, artifacts.TailoringFile))
	if err != nil {
		reports = nil
	}

	var client llm.Client
	if !composeNoLLM {
		apiKey, err := resolveAPIKey(composeAPIKey)
		if err != nil {
			return err
		}
		client, err = llm.NewClient(ctx, nil, apiKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()
	}

	oppsByID := make(map[string]types.Opportunity, len(opportunities))
	for i := range opportunities {
		if id := opportunities[i].JobID(); id != "" {
			oppsByID[id] = opportunities[i]
		}
	}

	attachmentsByJob := make(map[string][]string)
	tailoredDir := filepath.Join(composeOutputDir, "tailored")
	for i := range reports {
		if reports[i].DocumentFilename != "" {
			attachmentsByJob[reports[i].JobID] = []string{filepath.Join(tailoredDir, reports[i].DocumentFilename)}
		}
	}

	opts := reply.DefaultComposeOptions()
	opts.Tone = reply.Tone(composeTone)
	drafts, err := reply.NewComposer(client, opts).ComposeAll(ctx, resume, matches, oppsByID, attachmentsByJob)
	if err != nil {
		return fmt.Errorf("composing replies failed: %w", err)
	}

	outPath := artifactPath(composeOutputDir, artifacts.DraftsFile)
	if err := artifacts.Write(outPath, drafts); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Composed %d drafts\n", len(drafts))
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", outPath)
	return nil
}

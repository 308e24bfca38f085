package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sergiomunoz/opportunity-pipeline/internal/artifacts"
	"github.com/sergiomunoz/opportunity-pipeline/internal/gmail"
	"github.com/sergiomunoz/opportunity-pipeline/internal/observability"
	"github.com/sergiomunoz/opportunity-pipeline/internal/reply"
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send composed reply drafts",
	Long:  "Send every composed draft through Gmail, or build them without sending in dry-run mode. Results record per-draft success or failure.",
	RunE:  runSend,
}

var (
	sendOutputDir   string
	sendCredentials string
	sendTokenPath   string
	sendFrom        string
	sendOverrideTo  string
	sendCc          []string
	sendBcc         []string
	sendDryRun      bool
)

func init() {
	sendCmd.Flags().StringVarP(&sendOutputDir, "out", "o", "output", "Directory for generated artifacts")
	sendCmd.Flags().StringVar(&sendCredentials, "credentials", "credentials.json", "Path to OAuth client credentials JSON")
	sendCmd.Flags().StringVar(&sendTokenPath, "token", "token.json", "Path to cached OAuth token")
	sendCmd.Flags().StringVar(&sendFrom, "from", "", "Sender address for outgoing replies")
	sendCmd.Flags().StringVar(&sendOverrideTo, "override-to", "", "Redirect all outgoing replies to this address")
	sendCmd.Flags().StringSliceVar(&sendCc, "cc", nil, "Extra Cc addresses added to every reply")
	sendCmd.Flags().StringSliceVar(&sendBcc, "bcc", nil, "Extra Bcc addresses added to every reply")
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "Build replies without sending them")

	rootCmd.AddCommand(sendCmd)
}

func runSend(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	drafts, err := artifacts.Read[types.EmailDraft](artifactPath(sendOutputDir, artifacts.DraftsFile))
	if err != nil {
		return err
	}

	var transport reply.Transport
	if !sendDryRun {
		provider, err := gmail.NewProvider(ctx, gmail.Auth{
			CredentialsPath: sendCredentials,
			TokenPath:       sendTokenPath,
		})
		if err != nil {
			return fmt.Errorf("failed to create Gmail provider: %w", err)
		}
		transport = provider
	}

	sender := reply.NewSender(transport, reply.SendOptions{
		DryRun:     sendDryRun,
		From:       sendFrom,
		OverrideTo: sendOverrideTo,
		Cc:         sendCc,
		Bcc:        sendBcc,
	})
	results := sender.SendAll(ctx, drafts)

	outPath := artifactPath(sendOutputDir, artifacts.ReplyResultsFile)
	if err := artifacts.Write(outPath, results); err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintReplyResults(results)
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", outPath)
	return nil
}

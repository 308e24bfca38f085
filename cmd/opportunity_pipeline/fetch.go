package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sergiomunoz/opportunity-pipeline/internal/artifacts"
	"github.com/sergiomunoz/opportunity-pipeline/internal/gmail"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch recent messages from Gmail",
	Long:  "Fetch messages from the Gmail inbox within a time window and write them to the messages artifact.",
	RunE:  runFetch,
}

var (
	fetchCredentials string
	fetchTokenPath   string
	fetchQuery       string
	fetchWindow      string
	fetchDaysBack    int
	fetchMaxResults  int
	fetchOutputDir   string
)

func init() {
	fetchCmd.Flags().StringVar(&fetchCredentials, "credentials", "credentials.json", "Path to OAuth client credentials JSON")
	fetchCmd.Flags().StringVar(&fetchTokenPath, "token", "token.json", "Path to cached OAuth token")
	fetchCmd.Flags().StringVarP(&fetchQuery, "query", "q", "", "Extra Gmail search query terms")
	fetchCmd.Flags().StringVarP(&fetchWindow, "window", "w", "", "Lookback window like 30m, 6h, or 2d (overrides --days)")
	fetchCmd.Flags().IntVar(&fetchDaysBack, "days", 7, "How many days of mail to fetch")
	fetchCmd.Flags().IntVar(&fetchMaxResults, "max", 0, "Cap on fetched messages (0 = no cap)")
	fetchCmd.Flags().StringVarP(&fetchOutputDir, "out", "o", "output", "Directory for generated artifacts")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	provider, err := gmail.NewProvider(ctx, gmail.Auth{
		CredentialsPath: fetchCredentials,
		TokenPath:       fetchTokenPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gmail provider: %w", err)
	}

	opts := gmail.FetchOptions{
		Query:       fetchQuery,
		MaxMessages: fetchMaxResults,
	}
	if fetchWindow != "" {
		dur, err := gmail.ParseWindow(fetchWindow)
		if err != nil {
			return err
		}
		opts.After = time.Now().Add(-dur)
	} else if fetchDaysBack > 0 {
		opts.After = time.Now().AddDate(0, 0, -fetchDaysBack)
	}

	messages, err := provider.Fetch(ctx, opts)
	if err != nil {
		return fmt.Errorf("fetching messages failed: %w", err)
	}

	outPath := artifactPath(fetchOutputDir, artifacts.MessagesFile)
	if err := artifacts.Write(outPath, messages); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Fetched %d messages\n", len(messages))
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", outPath)
	return nil
}

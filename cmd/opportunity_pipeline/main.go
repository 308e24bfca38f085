// Package main provides the entry point for the opportunity pipeline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "opportunity_pipeline",
	Short: "Email-to-application pipeline",
	Long:  "Opportunity Pipeline fetches recruiter email, extracts job opportunities, scores them against a resume, tailors application materials, and sends replies.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

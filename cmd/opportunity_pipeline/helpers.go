package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// resolveAPIKey returns the flag value or falls back to GEMINI_API_KEY.
func resolveAPIKey(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
}

// resolveDatabaseURL returns the flag value or falls back to DATABASE_URL.
func resolveDatabaseURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("DATABASE_URL")
}

// artifactPath joins the artifacts directory with a stage filename.
func artifactPath(dir, filename string) string {
	return filepath.Join(dir, filename)
}

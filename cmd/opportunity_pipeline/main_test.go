package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCommand(t *testing.T, name string) *cobra.Command {
	t.Helper()
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name {
			return cmd
		}
	}
	return nil
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{
		"run", "fetch", "filter", "extract", "match",
		"tailor", "compose", "send", "correlate", "track",
	} {
		assert.NotNil(t, findCommand(t, name), "command %s not registered", name)
	}
}

func TestTrackSubcommands(t *testing.T) {
	subs := map[string]bool{}
	for _, cmd := range trackCmd.Commands() {
		subs[cmd.Name()] = true
	}
	for _, name := range []string{"init", "status", "interview", "offer", "outcome", "note", "report"} {
		assert.True(t, subs[name], "track subcommand %s not registered", name)
	}
}

func TestRunCommandFlags(t *testing.T) {
	for _, flag := range []string{
		"config", "credentials", "token", "query", "days", "max",
		"resume", "template", "out", "api-key", "db-url",
		"from", "override-to", "dry-run", "min-recommendation",
		"fetch-postings", "analytics",
	} {
		assert.NotNil(t, runCommand.Flags().Lookup(flag), "run flag --%s missing", flag)
	}
}

func TestStageCommandFlags(t *testing.T) {
	assert.NotNil(t, fetchCmd.Flags().Lookup("window"), "fetch flag --window missing")
	assert.NotNil(t, filterCmd.Flags().Lookup("analytics"), "filter flag --analytics missing")
	assert.NotNil(t, extractCmd.Flags().Lookup("fetch-postings"), "extract flag --fetch-postings missing")
}

func TestResolveAPIKey(t *testing.T) {
	key, err := resolveAPIKey("flag-key")
	require.NoError(t, err)
	assert.Equal(t, "flag-key", key)

	t.Setenv("GEMINI_API_KEY", "env-key")
	key, err = resolveAPIKey("")
	require.NoError(t, err)
	assert.Equal(t, "env-key", key)

	t.Setenv("GEMINI_API_KEY", "")
	_, err = resolveAPIKey("")
	assert.Error(t, err)
}

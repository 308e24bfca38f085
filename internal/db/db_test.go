package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageConstants(t *testing.T) {
	stages := []string{
		StageEmails,
		StageFiltered,
		StageOpportunities,
		StageMatches,
		StageTailored,
		StageDrafts,
		StageReplies,
		StageCorrelated,
		StageSummary,
	}

	seen := make(map[string]bool)
	for _, stage := range stages {
		assert.NotEmpty(t, stage, "stage constant should not be empty")
		assert.False(t, seen[stage], "stage constant %q duplicated", stage)
		seen[stage] = true
	}
}

func TestRunType(t *testing.T) {
	run := Run{
		Query:      "recruiter OR opportunity",
		ResumeName: "Jordan Rivera",
		Status:     "running",
	}

	assert.Equal(t, "recruiter OR opportunity", run.Query)
	assert.Equal(t, "running", run.Status)
	assert.Nil(t, run.CompletedAt)
}

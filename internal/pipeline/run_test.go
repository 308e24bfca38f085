package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

func TestOpportunitiesByID(t *testing.T) {
	opps := []types.Opportunity{
		{SourceEmail: types.SourceEmail{MessageID: "msg-1"}, JobTitle: "Platform Engineer"},
		{SourceEmail: types.SourceEmail{MessageID: "msg-2"}, JobTitle: "Backend Engineer"},
		{JobTitle: "No ID"},
	}

	byID := opportunitiesByID(opps)
	assert.Len(t, byID, 2, "opportunities without a job ID are dropped")
	assert.Equal(t, "Platform Engineer", byID["msg-1"].JobTitle)
	assert.Equal(t, "Backend Engineer", byID["msg-2"].JobTitle)
}

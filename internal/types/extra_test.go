package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpportunityUnmarshalKeepsUnknownFields(t *testing.T) {
	data := []byte(`{
		"source_email": {"message_id": "msg-1"},
		"job_title": "Platform Engineer",
		"company": "Acme",
		"salary_band": "L5",
		"req_id": 4711
	}`)

	var opp Opportunity
	require.NoError(t, json.Unmarshal(data, &opp))

	assert.Equal(t, "msg-1", opp.JobID())
	assert.Equal(t, "Platform Engineer", opp.JobTitle)
	assert.Equal(t, "L5", opp.Extra["salary_band"])
	assert.Equal(t, float64(4711), opp.Extra["req_id"])
	// known fields never leak into the side channel
	assert.NotContains(t, opp.Extra, "job_title")
	assert.NotContains(t, opp.Extra, "source_email")
}

func TestOpportunityUnknownFieldsSurviveRoundTrip(t *testing.T) {
	var opp Opportunity
	require.NoError(t, json.Unmarshal([]byte(`{
		"source_email": {"message_id": "msg-1"},
		"job_title": "SRE",
		"salary_band": "L5"
	}`), &opp))

	out, err := json.Marshal(&opp)
	require.NoError(t, err)

	var again Opportunity
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, "L5", again.Extra["salary_band"])
	assert.NotContains(t, again.Extra, "extra")
}

func TestUnmarshalNoUnknownFieldsLeavesExtraNil(t *testing.T) {
	var opp Opportunity
	require.NoError(t, json.Unmarshal([]byte(`{
		"source_email": {"message_id": "msg-1"},
		"job_title": "SRE"
	}`), &opp))
	assert.Nil(t, opp.Extra)
}

func TestEmailMessageUnmarshalKeepsUnknownFields(t *testing.T) {
	var msg EmailMessage
	require.NoError(t, json.Unmarshal([]byte(`{
		"message_id": "msg-1",
		"snippet": "hi",
		"provider_label_color": "blue"
	}`), &msg))
	assert.Equal(t, "blue", msg.Extra["provider_label_color"])
	assert.NotContains(t, msg.Extra, "snippet")
}

func TestMatchResultUnmarshalKeepsUnknownFields(t *testing.T) {
	var res MatchResult
	require.NoError(t, json.Unmarshal([]byte(`{
		"job_id": "msg-1",
		"overall_score": 80,
		"ranker_version": "v2"
	}`), &res))
	assert.Equal(t, 80.0, res.OverallScore)
	assert.Equal(t, "v2", res.Extra["ranker_version"])
}

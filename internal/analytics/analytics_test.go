package analytics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

func filteredFixture() []types.FilteredMessage {
	return []types.FilteredMessage{
		{
			Message: types.EmailMessage{
				MessageID: "m1",
				Headers:   types.EmailHeaders{From: "Recruiter <jobs@Acme.com>"},
			},
			Outcome: types.FilterOutcome{
				Passed:  true,
				Reasons: []string{"strong signal: job opportunity"},
				Decisions: []types.FilterDecision{
					{FilterName: "keyword", Passed: true, Reasons: []string{"strong signal: job opportunity"}},
					{FilterName: "llm", Passed: true},
				},
			},
		},
		{
			Message: types.EmailMessage{
				MessageID: "m2",
				Headers:   types.EmailHeaders{From: "noreply@newsletter.example.org"},
			},
			Outcome: types.FilterOutcome{
				Passed:  false,
				Reasons: []string{"negative pattern: newsletter"},
				Decisions: []types.FilterDecision{
					{FilterName: "keyword", Passed: false, Reasons: []string{"negative pattern: newsletter"}},
				},
			},
		},
		{
			Message: types.EmailMessage{
				MessageID: "m3",
				Headers:   types.EmailHeaders{From: "sourcing@acme.com"},
			},
			Outcome: types.FilterOutcome{
				Passed:  false,
				Reasons: []string{"negative pattern: newsletter"},
				Decisions: []types.FilterDecision{
					{FilterName: "keyword", Passed: true},
					{FilterName: "llm", Passed: false, Reasons: []string{"not a job opportunity"}},
				},
			},
		},
	}
}

func TestBuildTotals(t *testing.T) {
	a := Build(filteredFixture())

	assert.Equal(t, 3, a.TotalMessages)
	assert.Equal(t, 1, a.Passed)
	assert.Equal(t, 2, a.Failed)
	assert.InDelta(t, 33.3, a.PassRate(), 0.1)
	assert.NotEmpty(t, a.GeneratedAtUTC)
}

func TestBuildPerFilterStats(t *testing.T) {
	a := Build(filteredFixture())

	require.Len(t, a.Filters, 2)
	// first-seen order
	keyword, llm := a.Filters[0], a.Filters[1]
	assert.Equal(t, "keyword", keyword.Name)
	assert.Equal(t, 3, keyword.Evaluated)
	assert.Equal(t, 2, keyword.Passed)
	assert.Equal(t, 1, keyword.Failed)
	assert.Equal(t, 1, keyword.Reasons["negative pattern: newsletter"])

	assert.Equal(t, "llm", llm.Name)
	assert.Equal(t, 2, llm.Evaluated)
	assert.InDelta(t, 50.0, llm.PassRate(), 0.01)
}

func TestBuildDomainStats(t *testing.T) {
	a := Build(filteredFixture())

	require.Len(t, a.Domains, 2)
	// sorted by volume; mixed-case sender normalized
	assert.Equal(t, "acme.com", a.Domains[0].Domain)
	assert.Equal(t, 2, a.Domains[0].Total)
	assert.Equal(t, 1, a.Domains[0].Passed)
	assert.Equal(t, "newsletter.example.org", a.Domains[1].Domain)
}

func TestBuildReasonCounts(t *testing.T) {
	a := Build(filteredFixture())

	assert.Equal(t, 1, a.PassReasons["strong signal: job opportunity"])
	assert.Equal(t, 2, a.FailReasons["negative pattern: newsletter"])
}

func TestBuildEmpty(t *testing.T) {
	a := Build(nil)
	assert.Equal(t, 0, a.TotalMessages)
	assert.Zero(t, a.PassRate())
	assert.Nil(t, a.PassReasons)
	assert.Nil(t, a.FailReasons)
}

func TestSenderDomain(t *testing.T) {
	assert.Equal(t, "acme.com", senderDomain("Jane Doe <jane@Acme.com>"))
	assert.Equal(t, "", senderDomain("no address here"))
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "filter_analytics.json")
	reportPath := filepath.Join(dir, "filter_analytics.txt")

	a := Build(filteredFixture())
	require.NoError(t, Save(&a, jsonPath, reportPath))

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var loaded FilterAnalytics
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, a.TotalMessages, loaded.TotalMessages)
	assert.Equal(t, a.Filters, loaded.Filters)

	report, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "FILTER ANALYTICS REPORT")
}

func TestRenderReport(t *testing.T) {
	a := Build(filteredFixture())
	report := RenderReport(&a)

	assert.Contains(t, report, "FILTER ANALYTICS REPORT")
	assert.Contains(t, report, "Messages evaluated: 3")
	assert.Contains(t, report, "keyword: 3 evaluated, 2 passed")
	assert.Contains(t, report, "Top rejection reasons")
	assert.Contains(t, report, "2x negative pattern: newsletter")
	assert.Contains(t, report, "acme.com: 2 messages, 1 passed")
}

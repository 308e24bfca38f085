package correlation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

func TestBuildSummary_CountsAndScores(t *testing.T) {
	c := NewCorrelator()
	c.AddOpportunities([]types.Opportunity{
		oppWithID("m1", "A", "Acme"),
		oppWithID("m2", "B", "Acme"),
		oppWithID("m3", "C", "Globex"),
	})

	m1 := matchWithScore("m1", 90)
	m1.Grade = types.GradeExcellent
	m1.Recommendation = types.RecommendStrongApply
	m2 := matchWithScore("m2", 60)
	m2.Grade = types.GradeFair
	m2.Recommendation = types.RecommendConsider
	c.AddMatchResults([]types.MatchResult{m1, m2})

	c.AddTailoringResults([]types.TailoringReport{
		{JobID: "m1", Changes: []types.TailoringChange{{Category: types.ChangeSkills}, {Category: types.ChangeSummary}}},
	}, "")
	c.AddDrafts([]types.EmailDraft{{JobID: "m1", To: "r@x.com"}})
	c.AddReplyResults([]types.ReplyResult{
		{Draft: types.EmailDraft{JobID: "m1", To: "r@x.com"}, Status: types.ReplySent},
	})

	correlated := c.Correlate()
	summary := c.BuildSummary(correlated, "Alex")

	assert.Equal(t, 3, summary.TotalOpportunities)
	assert.Equal(t, "Alex", summary.ResumeName)
	assert.NotEmpty(t, summary.GeneratedAt)

	assert.Equal(t, 1, summary.ByStage[StageReplied])
	assert.Equal(t, 1, summary.ByStage[StageMatched])
	assert.Equal(t, 1, summary.ByStage[StageExtracted])
	assert.Equal(t, 1, summary.PipelineCompleteCount)

	assert.Equal(t, 2, summary.MatchedCount)
	assert.Equal(t, 1, summary.ByGrade[types.GradeExcellent])
	assert.Equal(t, 1, summary.ByGrade[types.GradeFair])
	assert.Equal(t, 1, summary.ByRecommendation[types.RecommendStrongApply])
	assert.Equal(t, 1, summary.ByRecommendation[types.RecommendConsider])
	assert.InDelta(t, 75.0, summary.AvgMatchScore, 0.001)
	assert.Equal(t, 90.0, summary.MaxMatchScore)
	assert.Equal(t, 60.0, summary.MinMatchScore)

	assert.Equal(t, 1, summary.TailoredCount)
	assert.Equal(t, 2, summary.TotalTailoringChanges)
	assert.Equal(t, 1, summary.RepliesSent)
	assert.Equal(t, 0, summary.RepliesDrafted, "a sent reply is not also counted as drafted")

	require.Len(t, summary.TopCompanies, 2)
	assert.Equal(t, CompanyCount{Company: "Acme", Count: 2}, summary.TopCompanies[0])
	assert.Equal(t, CompanyCount{Company: "Globex", Count: 1}, summary.TopCompanies[1])
}

func TestBuildSummary_DraftOnlyCountsAsDrafted(t *testing.T) {
	c := NewCorrelator()
	c.AddOpportunities([]types.Opportunity{oppWithID("m1", "A", "Acme")})
	c.AddDrafts([]types.EmailDraft{{JobID: "m1", To: "r@x.com"}})

	summary := c.BuildSummary(c.Correlate(), "")
	assert.Equal(t, 1, summary.RepliesDrafted)
	assert.Equal(t, 0, summary.RepliesSent)
	assert.Equal(t, 0, summary.PipelineCompleteCount)
}

func TestBuildSummary_PureFunctionOfInput(t *testing.T) {
	// BuildSummary reads only the correlated slice, so a filtered subset
	// produces a summary of the subset, not the correlator's full state.
	c := NewCorrelator()
	c.AddOpportunities([]types.Opportunity{
		oppWithID("m1", "A", "Acme"),
		oppWithID("m2", "B", "Globex"),
	})
	c.AddMatchResults([]types.MatchResult{matchWithScore("m1", 85)})

	filtered := Filter(c.Correlate(), FilterOptions{MinScore: floatPtr(80)})
	summary := c.BuildSummary(filtered, "")

	assert.Equal(t, 1, summary.TotalOpportunities)
	assert.Equal(t, 1, summary.MatchedCount)
}

func TestRenderReport(t *testing.T) {
	c := NewCorrelator()
	opp := oppWithID("m1", "Go Engineer", "Acme")
	opp.Locations = []string{"Berlin", "Remote"}
	c.AddOpportunities([]types.Opportunity{opp})

	m := matchWithScore("m1", 88)
	m.Insights.Strengths = []string{"Strong Go background"}
	c.AddMatchResults([]types.MatchResult{m})

	correlated := c.Correlate()
	report := RenderReport(c.BuildSummary(correlated, "Alex"), correlated)

	assert.True(t, strings.HasPrefix(report, "# Job Opportunity Correlation Report"))
	assert.Contains(t, report, "**Candidate:** Alex")
	assert.Contains(t, report, "### Go Engineer at Acme")
	assert.Contains(t, report, "88.0/100")
	assert.Contains(t, report, "Strength: Strong Go background")
	assert.Contains(t, report, "Berlin, Remote")
	assert.Contains(t, report, "- matched: 1")
}

func TestRenderReport_UntitledRole(t *testing.T) {
	correlated := []CorrelatedOpportunity{{JobID: "m1", Stage: StageExtracted}}
	report := RenderReport(Summary{TotalOpportunities: 1, GeneratedAt: "now", ByStage: map[Stage]int{StageExtracted: 1}}, correlated)
	assert.Contains(t, report, "(untitled role)")
}

package matching

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergiomunoz/opportunity-pipeline/internal/llm"
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

func TestOverallScore(t *testing.T) {
	assert.InDelta(t, 100.0, OverallScore(100, 100, 100, 100), 0.001)
	assert.InDelta(t, 0.0, OverallScore(0, 0, 0, 0), 0.001)
	// 40*0.40 + 30*0.30 + 20*0.15 + 10*0.15 = 16 + 9 + 3 + 1.5
	assert.InDelta(t, 29.5, OverallScore(40, 30, 20, 10), 0.001)
	// out-of-range inputs are clamped
	assert.InDelta(t, 100.0, OverallScore(150, 200, 120, 110), 0.001)
	assert.InDelta(t, 0.0, OverallScore(-10, -5, 0, 0), 0.001)
}

func TestDeriveGrade(t *testing.T) {
	tests := []struct {
		score float64
		want  types.MatchGrade
	}{
		{95, types.GradeExcellent},
		{85, types.GradeExcellent},
		{84.9, types.GradeGood},
		{70, types.GradeGood},
		{69.9, types.GradeFair},
		{50, types.GradeFair},
		{49.9, types.GradePoor},
		{30, types.GradePoor},
		{29.9, types.GradeUnqualified},
		{0, types.GradeUnqualified},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveGrade(tt.score), "score=%v", tt.score)
	}
}

func TestDeriveRecommendation(t *testing.T) {
	assert.Equal(t, types.RecommendStrongApply, DeriveRecommendation(types.GradeExcellent, false))
	assert.Equal(t, types.RecommendApply, DeriveRecommendation(types.GradeExcellent, true))
	assert.Equal(t, types.RecommendApply, DeriveRecommendation(types.GradeGood, false))
	assert.Equal(t, types.RecommendConsider, DeriveRecommendation(types.GradeGood, true))
	assert.Equal(t, types.RecommendSkip, DeriveRecommendation(types.GradeFair, true))
	// already at the bottom: no further demotion
	assert.Equal(t, types.RecommendSkip, DeriveRecommendation(types.GradePoor, true))
	assert.Equal(t, types.RecommendNotRecommended, DeriveRecommendation(types.GradeUnqualified, true))
}

func TestLoadResume(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid resume", func(t *testing.T) {
		path := filepath.Join(dir, "resume.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
			"personal": {"name": "Ada Lovelace", "email": "ada@example.com"},
			"skills": [{"name": "Go", "level": "expert", "years": 6}]
		}`), 0o644))

		resume, err := LoadResume(path)
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", resume.Personal.Name)
		assert.Equal(t, []string{"Go"}, resume.SkillNames())
		assert.Equal(t, path, resume.SourceFile)
	})

	t.Run("missing name rejected", func(t *testing.T) {
		path := filepath.Join(dir, "noname.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"personal": {"email": "a@b.com"}}`), 0o644))
		_, err := LoadResume(path)
		require.Error(t, err)
	})

	t.Run("bad email rejected", func(t *testing.T) {
		path := filepath.Join(dir, "bademail.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"personal": {"name": "Ada", "email": "nope"}}`), 0o644))
		_, err := LoadResume(path)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadResume(filepath.Join(dir, "nope.json"))
		require.Error(t, err)
	})
}

type fakeClient struct {
	responses map[string]string // keyed by substring found in the prompt
	fallback  string
	err       error
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	for key, resp := range f.responses {
		if key != "" && strings.Contains(prompt, key) {
			return resp, nil
		}
	}
	return f.fallback, nil
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeClient) Close() error                  { return nil }

const strongAnalysis = `{
	"skills_analysis": {"score": 90, "matched_mandatory": ["Go"], "missing_mandatory": [], "matched_preferred": ["Postgres"], "missing_preferred": [], "bonus_skills": ["Kubernetes"]},
	"experience_analysis": {"score": 85, "notes": "solid"},
	"education_analysis": {"score": 80, "notes": ""},
	"location_analysis": {"score": 100, "notes": "remote"},
	"insights": {"strengths": ["Go depth"], "concerns": [], "talking_points": [], "questions_to_ask": []}
}`

func testResume() *types.Resume {
	return &types.Resume{
		Personal: types.PersonalInfo{Name: "Ada Lovelace"},
		Skills:   []types.ResumeSkill{{Name: "Go"}},
	}
}

func oppWith(id, title string) types.Opportunity {
	return types.Opportunity{
		SourceEmail: types.SourceEmail{MessageID: id},
		JobTitle:    title,
		Company:     "Acme",
	}
}

func TestMatcherMatch(t *testing.T) {
	ctx := context.Background()

	t.Run("derives overall score and grade", func(t *testing.T) {
		m := NewMatcher(&fakeClient{fallback: strongAnalysis})
		opp := oppWith("m1", "Platform Engineer")
		result, err := m.Match(ctx, testResume(), &opp)
		require.NoError(t, err)

		// 90*0.40 + 85*0.30 + 80*0.15 + 100*0.15 = 88.5
		assert.InDelta(t, 88.5, result.OverallScore, 0.001)
		assert.Equal(t, types.GradeExcellent, result.Grade)
		assert.Equal(t, types.RecommendStrongApply, result.Recommendation)
		assert.Equal(t, "m1", result.JobID)
		assert.Equal(t, 1, result.Skills.MandatoryMet)
		assert.Equal(t, 1, result.Skills.MandatoryTotal)
		require.NotNil(t, result.Timestamp)
	})

	t.Run("missing mandatory demotes recommendation", func(t *testing.T) {
		analysis := `{
			"skills_analysis": {"score": 88, "matched_mandatory": ["Go"], "missing_mandatory": ["Rust"], "matched_preferred": [], "missing_preferred": [], "bonus_skills": []},
			"experience_analysis": {"score": 90, "notes": ""},
			"education_analysis": {"score": 85, "notes": ""},
			"location_analysis": {"score": 90, "notes": ""},
			"insights": {"strengths": [], "concerns": [], "talking_points": [], "questions_to_ask": []}
		}`
		m := NewMatcher(&fakeClient{fallback: analysis})
		opp := oppWith("m1", "Engineer")
		result, err := m.Match(ctx, testResume(), &opp)
		require.NoError(t, err)
		assert.Equal(t, types.GradeExcellent, result.Grade)
		assert.Equal(t, types.RecommendApply, result.Recommendation)
	})

	t.Run("opportunity without message ID rejected", func(t *testing.T) {
		m := NewMatcher(&fakeClient{fallback: strongAnalysis})
		opp := types.Opportunity{JobTitle: "Engineer"}
		_, err := m.Match(ctx, testResume(), &opp)
		require.Error(t, err)
	})

	t.Run("malformed analysis errors", func(t *testing.T) {
		m := NewMatcher(&fakeClient{fallback: "not json"})
		opp := oppWith("m1", "Engineer")
		_, err := m.Match(ctx, testResume(), &opp)
		require.Error(t, err)
	})
}

func TestMatcherMatchAll(t *testing.T) {
	weak := `{
		"skills_analysis": {"score": 30, "matched_mandatory": [], "missing_mandatory": ["Go"], "matched_preferred": [], "missing_preferred": [], "bonus_skills": []},
		"experience_analysis": {"score": 40, "notes": ""},
		"education_analysis": {"score": 50, "notes": ""},
		"location_analysis": {"score": 50, "notes": ""},
		"insights": {"strengths": [], "concerns": [], "talking_points": [], "questions_to_ask": []}
	}`

	client := &fakeClient{
		responses: map[string]string{
			"Strong Role": strongAnalysis,
			"Weak Role":   weak,
		},
		fallback: strongAnalysis,
	}
	m := NewMatcher(client)

	opps := []types.Opportunity{
		oppWith("m-weak", "Weak Role"),
		oppWith("m-strong", "Strong Role"),
	}
	results, err := m.MatchAll(context.Background(), testResume(), opps)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// sorted by score descending regardless of input order
	assert.Equal(t, "m-strong", results[0].JobID)
	assert.Equal(t, "m-weak", results[1].JobID)
	assert.Greater(t, results[0].OverallScore, results[1].OverallScore)
}

func TestMatcherMatchAllSkipsFailures(t *testing.T) {
	m := NewMatcher(&fakeClient{err: errors.New("quota exceeded")})
	opps := []types.Opportunity{oppWith("m1", "Role")}
	results, err := m.MatchAll(context.Background(), testResume(), opps)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRenderReport(t *testing.T) {
	ts := types.MatchResult{
		JobID:          "m1",
		JobTitle:       "Platform Engineer",
		Company:        "Acme",
		OverallScore:   88.5,
		Grade:          types.GradeExcellent,
		Recommendation: types.RecommendStrongApply,
		Skills: types.SkillMatch{
			Score: 90, MandatoryMet: 2, MandatoryTotal: 3,
			MissingMandatory: []string{"Rust"},
		},
		Insights: types.MatchInsights{Strengths: []string{"Go depth"}},
	}

	report := RenderReport("resume.json", []types.MatchResult{ts})
	assert.Contains(t, report, "# Match Report")
	assert.Contains(t, report, "## Platform Engineer - Acme")
	assert.Contains(t, report, "Score: 88.5 (Excellent)")
	assert.Contains(t, report, "mandatory 2/3")
	assert.Contains(t, report, "Missing mandatory skills: Rust")
	assert.Contains(t, report, "Go depth")

	empty := RenderReport("resume.json", nil)
	assert.Contains(t, empty, "No opportunities to score.")
}

package tailoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergiomunoz/opportunity-pipeline/internal/llm"
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

type fakeClient struct {
	response string
	err      error
}

func (f *fakeClient) GenerateContent(context.Context, string, llm.ModelTier) (string, error) {
	return f.response, f.err
}

func (f *fakeClient) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	return f.response, f.err
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeClient) Close() error                  { return nil }

func testResume() *types.Resume {
	return &types.Resume{
		Personal: types.PersonalInfo{
			Name:    "Ada Lovelace",
			Summary: "Engineer with broad experience.",
		},
		Skills: []types.ResumeSkill{
			{Name: "Python"},
			{Name: "Go"},
			{Name: "Terraform"},
		},
		Experience: []types.ResumeExperience{
			{Title: "Engineer", Company: "Acme", Technologies: []string{"Kubernetes"}},
		},
	}
}

func testMatch() *types.MatchResult {
	return &types.MatchResult{
		JobID:    "m1",
		JobTitle: "Platform Engineer",
		Company:  "Initech",
	}
}

func testOpp() *types.Opportunity {
	return &types.Opportunity{
		SourceEmail: types.SourceEmail{MessageID: "m1"},
		JobTitle:    "Platform Engineer",
		Keywords:    []string{"Go", "Kubernetes"},
	}
}

func TestTailorAppliesSummaryAndSkills(t *testing.T) {
	client := &fakeClient{response: `{
		"summary": "Platform engineer focused on Go services.",
		"summary_reason": "aligns with role",
		"skills_to_highlight": ["Go"],
		"keywords_to_add": [],
		"experience_to_emphasize": []
	}`}
	e := NewEngine(client, nil)

	original := testResume()
	result, err := e.Tailor(context.Background(), original, testMatch(), testOpp())
	require.NoError(t, err)

	assert.Equal(t, "Platform engineer focused on Go services.", result.Resume.Personal.Summary)
	assert.Equal(t, "Go", result.Resume.Skills[0].Name, "highlighted skill moves to the front")
	assert.Equal(t, []types.ChangeCategory{types.ChangeSummary, types.ChangeSkills}, result.Report.CategoriesChanged())

	// input resume untouched
	assert.Equal(t, "Engineer with broad experience.", original.Personal.Summary)
	assert.Equal(t, "Python", original.Skills[0].Name)
}

func TestTailorKeywordGating(t *testing.T) {
	client := &fakeClient{response: `{
		"summary": "",
		"skills_to_highlight": [],
		"keywords_to_add": ["Kubernetes", "Rust", "Go"],
		"experience_to_emphasize": []
	}`}
	e := NewEngine(client, nil)

	result, err := e.Tailor(context.Background(), testResume(), testMatch(), testOpp())
	require.NoError(t, err)

	names := make([]string, 0, len(result.Resume.Skills))
	for _, s := range result.Resume.Skills {
		names = append(names, s.Name)
	}
	// Kubernetes is substantiated by experience technologies and gets added;
	// Rust appears nowhere in the resume and must not; Go already exists.
	assert.Contains(t, names, "Kubernetes")
	assert.NotContains(t, names, "Rust")
	assert.Len(t, names, 4)
	require.Len(t, result.Report.Changes, 1)
	assert.Equal(t, types.ChangeKeywords, result.Report.Changes[0].Category)
}

func TestTailorExperienceEmphasisIsReportOnly(t *testing.T) {
	client := &fakeClient{response: `{
		"summary": "",
		"skills_to_highlight": [],
		"keywords_to_add": [],
		"experience_to_emphasize": ["Lead with the Acme platform work"]
	}`}
	e := NewEngine(client, nil)

	result, err := e.Tailor(context.Background(), testResume(), testMatch(), testOpp())
	require.NoError(t, err)

	require.Len(t, result.Report.Changes, 1)
	assert.Equal(t, types.ChangeExperience, result.Report.Changes[0].Category)
	assert.Len(t, result.Resume.Experience, 1, "experience entries are not modified")
}

func TestTailorNoSuggestionsNoChanges(t *testing.T) {
	client := &fakeClient{response: `{"summary": "", "skills_to_highlight": [], "keywords_to_add": [], "experience_to_emphasize": []}`}
	e := NewEngine(client, nil)

	result, err := e.Tailor(context.Background(), testResume(), testMatch(), testOpp())
	require.NoError(t, err)
	assert.Zero(t, result.Report.TotalChanges())
	assert.Empty(t, result.DocumentPath)
}

func TestTailorErrors(t *testing.T) {
	t.Run("client error", func(t *testing.T) {
		e := NewEngine(&fakeClient{err: errors.New("quota")}, nil)
		_, err := e.Tailor(context.Background(), testResume(), testMatch(), testOpp())
		require.Error(t, err)
	})

	t.Run("malformed suggestions", func(t *testing.T) {
		e := NewEngine(&fakeClient{response: "not json"}, nil)
		_, err := e.Tailor(context.Background(), testResume(), testMatch(), testOpp())
		require.Error(t, err)
	})

	t.Run("missing job ID", func(t *testing.T) {
		e := NewEngine(&fakeClient{response: "{}"}, nil)
		_, err := e.Tailor(context.Background(), testResume(), &types.MatchResult{}, testOpp())
		require.Error(t, err)
	})
}

func TestTailorAll(t *testing.T) {
	client := &fakeClient{response: `{"summary": "", "skills_to_highlight": [], "keywords_to_add": [], "experience_to_emphasize": []}`}
	e := NewEngine(client, nil)

	matches := []types.MatchResult{
		{JobID: "m1", Recommendation: types.RecommendStrongApply},
		{JobID: "m2", Recommendation: types.RecommendSkip},
		{JobID: "m3", Recommendation: types.RecommendApply},
		{JobID: "m4", Recommendation: types.RecommendApply}, // no opportunity
	}
	opps := map[string]types.Opportunity{
		"m1": *testOpp(),
		"m2": {SourceEmail: types.SourceEmail{MessageID: "m2"}},
		"m3": {SourceEmail: types.SourceEmail{MessageID: "m3"}},
	}

	results, err := e.TailorAll(context.Background(), testResume(), matches, opps, types.RecommendApply)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "m1", results[0].Report.JobID)
	assert.Equal(t, "m3", results[1].Report.JobID)
}

func TestDocumentFilename(t *testing.T) {
	assert.Equal(t, "tailored_resume_abc123.docx", documentFilename("abc123"))
	assert.Equal(t, "tailored_resume_a_b_c.docx", documentFilename("a/b c"))
}

func TestRenderReportMarkdown(t *testing.T) {
	results := []Result{{
		Report: types.TailoringReport{
			JobID:            "m1",
			JobTitle:         "Platform Engineer",
			Company:          "Initech",
			DocumentFilename: "tailored_resume_m1.docx",
			Changes: []types.TailoringChange{
				{Category: types.ChangeSummary, Field: "personal.summary", Before: "old", After: "new"},
				{Category: types.ChangeKeywords, Field: "skills", After: "Kubernetes"},
			},
		},
	}}

	report := RenderReport(results)
	assert.Contains(t, report, "## Platform Engineer - Initech")
	assert.Contains(t, report, "Changes applied: 2")
	assert.Contains(t, report, "Categories: summary, keywords")
	assert.Contains(t, report, "tailored_resume_m1.docx")
	assert.Contains(t, report, `"old" -> "new"`)

	assert.Contains(t, RenderReport(nil), "No resumes were tailored.")
}

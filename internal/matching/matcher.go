package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sergiomunoz/opportunity-pipeline/internal/llm"
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

// defaultConcurrency bounds parallel model calls in MatchAll.
const defaultConcurrency = 4

// Matcher scores a resume against opportunities with LLM-graded dimensions.
type Matcher struct {
	client      llm.Client
	tier        llm.ModelTier
	concurrency int
	log         *slog.Logger
	now         func() time.Time
}

// NewMatcher builds a matcher on the advanced tier.
func NewMatcher(client llm.Client) *Matcher {
	return &Matcher{
		client:      client,
		tier:        llm.TierAdvanced,
		concurrency: defaultConcurrency,
		log:         slog.Default(),
		now:         time.Now,
	}
}

// SetLogger replaces the matcher's logger.
func (m *Matcher) SetLogger(log *slog.Logger) {
	if log != nil {
		m.log = log
	}
}

// SetConcurrency bounds parallel model calls; values below 1 are ignored.
func (m *Matcher) SetConcurrency(n int) {
	if n >= 1 {
		m.concurrency = n
	}
}

// matchAnalysis is the shape the model must return. Dimension scores are
// 0-100; the overall score and grade are computed here, not by the model.
type matchAnalysis struct {
	SkillsAnalysis struct {
		Score            float64  `json:"score"`
		MatchedMandatory []string `json:"matched_mandatory"`
		MissingMandatory []string `json:"missing_mandatory"`
		MatchedPreferred []string `json:"matched_preferred"`
		MissingPreferred []string `json:"missing_preferred"`
		BonusSkills      []string `json:"bonus_skills"`
	} `json:"skills_analysis"`
	ExperienceAnalysis struct {
		Score float64 `json:"score"`
		Notes string  `json:"notes"`
	} `json:"experience_analysis"`
	EducationAnalysis struct {
		Score float64 `json:"score"`
		Notes string  `json:"notes"`
	} `json:"education_analysis"`
	LocationAnalysis struct {
		Score float64 `json:"score"`
		Notes string  `json:"notes"`
	} `json:"location_analysis"`
	Insights struct {
		Strengths      []string `json:"strengths"`
		Concerns       []string `json:"concerns"`
		TalkingPoints  []string `json:"talking_points"`
		QuestionsToAsk []string `json:"questions_to_ask"`
	} `json:"insights"`
}

// Match scores one opportunity against the resume.
func (m *Matcher) Match(ctx context.Context, resume *types.Resume, opp *types.Opportunity) (*types.MatchResult, error) {
	jobID := opp.JobID()
	if jobID == "" {
		return nil, fmt.Errorf("opportunity %q has no source message ID", opp.JobTitle)
	}

	raw, err := m.client.GenerateJSON(ctx, buildMatchPrompt(resume, opp), m.tier)
	if err != nil {
		return nil, fmt.Errorf("match analysis for job %s: %w", jobID, err)
	}

	var analysis matchAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("parsing match analysis for job %s: %w", jobID, err)
	}

	return m.buildResult(jobID, opp, &analysis), nil
}

func (m *Matcher) buildResult(jobID string, opp *types.Opportunity, a *matchAnalysis) *types.MatchResult {
	skills := clampScore(a.SkillsAnalysis.Score)
	experience := clampScore(a.ExperienceAnalysis.Score)
	education := clampScore(a.EducationAnalysis.Score)
	location := clampScore(a.LocationAnalysis.Score)

	overall := OverallScore(skills, experience, education, location)
	grade := DeriveGrade(overall)
	missingMandatory := len(a.SkillsAnalysis.MissingMandatory) > 0

	ts := m.now().UTC()
	return &types.MatchResult{
		JobID:          jobID,
		JobTitle:       opp.JobTitle,
		Company:        opp.Company,
		OverallScore:   overall,
		Grade:          grade,
		Recommendation: DeriveRecommendation(grade, missingMandatory),
		Skills: types.SkillMatch{
			Score:            skills,
			Weight:           skillsWeight,
			MandatoryMet:     len(a.SkillsAnalysis.MatchedMandatory),
			MandatoryTotal:   len(a.SkillsAnalysis.MatchedMandatory) + len(a.SkillsAnalysis.MissingMandatory),
			PreferredMet:     len(a.SkillsAnalysis.MatchedPreferred),
			PreferredTotal:   len(a.SkillsAnalysis.MatchedPreferred) + len(a.SkillsAnalysis.MissingPreferred),
			MatchedMandatory: a.SkillsAnalysis.MatchedMandatory,
			MissingMandatory: a.SkillsAnalysis.MissingMandatory,
			MatchedPreferred: a.SkillsAnalysis.MatchedPreferred,
			MissingPreferred: a.SkillsAnalysis.MissingPreferred,
			BonusSkills:      a.SkillsAnalysis.BonusSkills,
		},
		Experience: types.CategoryScore{Score: experience, Weight: experienceWeight, Notes: a.ExperienceAnalysis.Notes},
		Education:  types.CategoryScore{Score: education, Weight: educationWeight, Notes: a.EducationAnalysis.Notes},
		Location:   types.CategoryScore{Score: location, Weight: locationWeight, Notes: a.LocationAnalysis.Notes},
		Insights: types.MatchInsights{
			Strengths:      a.Insights.Strengths,
			Concerns:       a.Insights.Concerns,
			TalkingPoints:  a.Insights.TalkingPoints,
			QuestionsToAsk: a.Insights.QuestionsToAsk,
		},
		Timestamp: &ts,
	}
}

// MatchAll scores every opportunity concurrently and returns the results
// sorted by overall score descending. An opportunity whose analysis fails is
// skipped with a warning rather than failing the batch.
func (m *Matcher) MatchAll(ctx context.Context, resume *types.Resume, opps []types.Opportunity) ([]types.MatchResult, error) {
	results := make([]*types.MatchResult, len(opps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i := range opps {
		i := i
		g.Go(func() error {
			result, err := m.Match(gctx, resume, &opps[i])
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				m.log.Warn("match analysis failed, skipping opportunity",
					"job_id", opps[i].JobID(), "error", err)
				return nil
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]types.MatchResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OverallScore > out[j].OverallScore
	})
	return out, nil
}

func buildMatchPrompt(resume *types.Resume, opp *types.Opportunity) string {
	var b strings.Builder
	b.WriteString("You are an expert career advisor. Score how well this candidate matches this job.\n")
	b.WriteString("Score each dimension 0-100. Be honest: missing mandatory skills should lower the skills score sharply.\n\n")

	b.WriteString("=== JOB OPPORTUNITY ===\n")
	fmt.Fprintf(&b, "Title: %s\n", opp.JobTitle)
	fmt.Fprintf(&b, "Company: %s\n", opp.Company)
	if len(opp.Locations) > 0 {
		fmt.Fprintf(&b, "Locations: %s\n", strings.Join(opp.Locations, ", "))
	}
	if opp.Remote != nil {
		fmt.Fprintf(&b, "Remote: %t\n", *opp.Remote)
	}
	if len(opp.Keywords) > 0 {
		fmt.Fprintf(&b, "Required skills: %s\n", strings.Join(opp.Keywords, ", "))
	}
	if opp.SalaryText != "" {
		fmt.Fprintf(&b, "Pay: %s\n", opp.SalaryText)
	}
	if opp.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", opp.Description)
	}

	b.WriteString("\n=== CANDIDATE RESUME ===\n")
	fmt.Fprintf(&b, "Name: %s\n", resume.Personal.Name)
	if resume.Personal.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", resume.Personal.Location)
	}
	if resume.Personal.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", resume.Personal.Summary)
	}
	if len(resume.Skills) > 0 {
		parts := make([]string, 0, len(resume.Skills))
		for _, s := range resume.Skills {
			skill := s.Name
			if s.Level != "" {
				skill += " (" + s.Level + ")"
			}
			if s.Years > 0 {
				skill += fmt.Sprintf(" [%gy]", s.Years)
			}
			parts = append(parts, skill)
		}
		fmt.Fprintf(&b, "Technical skills: %s\n", strings.Join(parts, ", "))
	}
	if len(resume.Certifications) > 0 {
		names := make([]string, 0, len(resume.Certifications))
		for _, c := range resume.Certifications {
			names = append(names, c.Name)
		}
		fmt.Fprintf(&b, "Certifications: %s\n", strings.Join(names, ", "))
	}
	if len(resume.Experience) > 0 {
		b.WriteString("Experience:\n")
		for _, exp := range resume.Experience {
			end := exp.EndDate
			if exp.Current {
				end = "present"
			}
			fmt.Fprintf(&b, "- %s at %s (%s - %s)\n", exp.Title, exp.Company, exp.StartDate, end)
			if len(exp.Technologies) > 0 {
				fmt.Fprintf(&b, "  Technologies: %s\n", strings.Join(exp.Technologies, ", "))
			}
			for i, ach := range exp.Achievements {
				if i == 3 {
					break
				}
				fmt.Fprintf(&b, "  * %s\n", ach)
			}
		}
	}
	if len(resume.Education) > 0 {
		b.WriteString("Education:\n")
		for _, edu := range resume.Education {
			fmt.Fprintf(&b, "- %s in %s from %s\n", edu.Degree, edu.Field, edu.Institution)
		}
	}
	if resume.Preferences != nil {
		if resume.Preferences.RemotePreference != "" {
			fmt.Fprintf(&b, "Remote preference: %s\n", resume.Preferences.RemotePreference)
		}
		if len(resume.Preferences.Locations) > 0 {
			fmt.Fprintf(&b, "Preferred locations: %s\n", strings.Join(resume.Preferences.Locations, ", "))
		}
	}

	b.WriteString("\nRespond with JSON only:\n")
	b.WriteString(`{
  "skills_analysis": {"score": 0-100, "matched_mandatory": [], "missing_mandatory": [], "matched_preferred": [], "missing_preferred": [], "bonus_skills": []},
  "experience_analysis": {"score": 0-100, "notes": ""},
  "education_analysis": {"score": 0-100, "notes": ""},
  "location_analysis": {"score": 0-100, "notes": ""},
  "insights": {"strengths": [], "concerns": [], "talking_points": [], "questions_to_ask": []}
}`)
	return b.String()
}

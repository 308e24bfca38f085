//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// MatchGrade buckets an overall match score into a letter-style grade.
type MatchGrade string

// Match grades from best to worst.
const (
	GradeExcellent   MatchGrade = "excellent"
	GradeGood        MatchGrade = "good"
	GradeFair        MatchGrade = "fair"
	GradePoor        MatchGrade = "poor"
	GradeUnqualified MatchGrade = "unqualified"
)

// Recommendation is the suggested action derived from a match result.
type Recommendation string

// Recommendations from strongest to weakest.
const (
	RecommendStrongApply    Recommendation = "strong_apply"
	RecommendApply          Recommendation = "apply"
	RecommendConsider       Recommendation = "consider"
	RecommendSkip           Recommendation = "skip"
	RecommendNotRecommended Recommendation = "not_recommended"
)

// CategoryScore is the score for one matching dimension, 0-100.
type CategoryScore struct {
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
	Notes  string  `json:"notes,omitempty"`
}

// SkillMatch is the skills dimension of a match result with per-skill detail.
type SkillMatch struct {
	Score            float64  `json:"score"`
	Weight           float64  `json:"weight"`
	MandatoryMet     int      `json:"mandatory_met"`
	MandatoryTotal   int      `json:"mandatory_total"`
	PreferredMet     int      `json:"preferred_met"`
	PreferredTotal   int      `json:"preferred_total"`
	MatchedMandatory []string `json:"matched_mandatory,omitempty"`
	MissingMandatory []string `json:"missing_mandatory,omitempty"`
	MatchedPreferred []string `json:"matched_preferred,omitempty"`
	MissingPreferred []string `json:"missing_preferred,omitempty"`
	BonusSkills      []string `json:"bonus_skills,omitempty"`
}

// MatchInsights collects the qualitative output of a match analysis.
type MatchInsights struct {
	Strengths      []string `json:"strengths,omitempty"`
	Concerns       []string `json:"concerns,omitempty"`
	TalkingPoints  []string `json:"talking_points,omitempty"`
	QuestionsToAsk []string `json:"questions_to_ask,omitempty"`
}

// MatchResult is the outcome of scoring a resume against one opportunity.
type MatchResult struct {
	JobID           string         `json:"job_id"`
	JobTitle        string         `json:"job_title,omitempty"`
	Company         string         `json:"company,omitempty"`
	OverallScore    float64        `json:"overall_score"` // 0-100
	Grade           MatchGrade     `json:"match_grade"`
	Recommendation  Recommendation `json:"recommendation"`
	Skills          SkillMatch     `json:"skills_match"`
	Experience      CategoryScore  `json:"experience_match"`
	Education       CategoryScore  `json:"education_score"`
	Location        CategoryScore  `json:"location_score"`
	Insights        MatchInsights  `json:"insights"`
	Timestamp       *time.Time     `json:"timestamp,omitempty"`
	Extra           map[string]any `json:"extra,omitempty"`
}

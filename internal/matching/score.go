package matching

import "github.com/sergiomunoz/opportunity-pipeline/internal/types"

// Dimension weights. They sum to 1.0 so the overall score stays on the same
// 0-100 scale as the dimension scores.
const (
	skillsWeight     = 0.40
	experienceWeight = 0.30
	educationWeight  = 0.15
	locationWeight   = 0.15
)

// Grade thresholds on the overall score.
const (
	excellentThreshold = 85
	goodThreshold      = 70
	fairThreshold      = 50
	poorThreshold      = 30
)

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// OverallScore combines the four dimension scores with their fixed weights.
func OverallScore(skills, experience, education, location float64) float64 {
	return clampScore(skills)*skillsWeight +
		clampScore(experience)*experienceWeight +
		clampScore(education)*educationWeight +
		clampScore(location)*locationWeight
}

// DeriveGrade buckets an overall score into a match grade.
func DeriveGrade(score float64) types.MatchGrade {
	switch {
	case score >= excellentThreshold:
		return types.GradeExcellent
	case score >= goodThreshold:
		return types.GradeGood
	case score >= fairThreshold:
		return types.GradeFair
	case score >= poorThreshold:
		return types.GradePoor
	default:
		return types.GradeUnqualified
	}
}

// DeriveRecommendation maps a grade to an action. A candidate missing
// mandatory skills is held back one step: gaps in hard requirements matter
// more than a strong aggregate score.
func DeriveRecommendation(grade types.MatchGrade, missingMandatory bool) types.Recommendation {
	rec := map[types.MatchGrade]types.Recommendation{
		types.GradeExcellent:   types.RecommendStrongApply,
		types.GradeGood:        types.RecommendApply,
		types.GradeFair:        types.RecommendConsider,
		types.GradePoor:        types.RecommendSkip,
		types.GradeUnqualified: types.RecommendNotRecommended,
	}[grade]

	if !missingMandatory {
		return rec
	}
	switch rec {
	case types.RecommendStrongApply:
		return types.RecommendApply
	case types.RecommendApply:
		return types.RecommendConsider
	case types.RecommendConsider:
		return types.RecommendSkip
	default:
		return rec
	}
}

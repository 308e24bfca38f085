package correlation

import (
	"sort"
	"time"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

const topCompaniesLimit = 10

// BuildSummary computes aggregate statistics over an already-correlated set
// in a single pass. It reads nothing from the correlator's internal state, so
// it can be applied to filtered subsets as well.
func (c *Correlator) BuildSummary(correlated []CorrelatedOpportunity, resumeName string) Summary {
	summary := Summary{
		TotalOpportunities: len(correlated),
		ResumeName:         resumeName,
		GeneratedAt:        time.Now().UTC().Format(time.RFC3339),
		ByStage:            make(map[Stage]int),
		ByGrade:            make(map[types.MatchGrade]int),
		ByRecommendation:   make(map[types.Recommendation]int),
	}

	companyCounts := make(map[string]int)
	var scores []float64

	for i := range correlated {
		rec := &correlated[i]
		summary.ByStage[rec.Stage]++

		if rec.PipelineComplete {
			summary.PipelineCompleteCount++
		}
		if rec.Company != "" {
			companyCounts[rec.Company]++
		}

		if rec.Match != nil {
			summary.MatchedCount++
			scores = append(scores, rec.Match.OverallScore)
			if rec.Match.Grade != "" {
				summary.ByGrade[rec.Match.Grade]++
			}
			if rec.Match.Recommendation != "" {
				summary.ByRecommendation[rec.Match.Recommendation]++
			}
		}

		if rec.Tailoring != nil {
			summary.TailoredCount++
			summary.TotalTailoringChanges += rec.Tailoring.TotalChanges
			if rec.Tailoring.DocumentPath != "" {
				summary.DocumentsGenerated++
			}
		}

		if rec.Reply != nil {
			switch rec.Reply.Status {
			case types.ReplySent:
				summary.RepliesSent++
			case types.ReplyDryRun:
				summary.RepliesDryRun++
			case types.ReplyFailed:
				summary.RepliesFailed++
			case types.ReplyNotSent:
				if rec.Reply.HasDraft {
					summary.RepliesDrafted++
				}
			}
		}
	}

	if len(scores) > 0 {
		total := 0.0
		summary.MaxMatchScore = scores[0]
		summary.MinMatchScore = scores[0]
		for _, s := range scores {
			total += s
			if s > summary.MaxMatchScore {
				summary.MaxMatchScore = s
			}
			if s < summary.MinMatchScore {
				summary.MinMatchScore = s
			}
		}
		summary.AvgMatchScore = total / float64(len(scores))
	}

	summary.TopCompanies = topCompanies(companyCounts, topCompaniesLimit)
	return summary
}

// topCompanies returns the n most frequent companies, count descending with
// name ascending as the tie-break for determinism.
func topCompanies(counts map[string]int, n int) []CompanyCount {
	out := make([]CompanyCount, 0, len(counts))
	for company, count := range counts {
		out = append(out, CompanyCount{Company: company, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Company < out[j].Company
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

package correlation

// FilterOptions narrows an already-correlated, already-sorted sequence.
// Zero values disable each criterion.
type FilterOptions struct {
	// MinScore drops records whose match score is below the threshold, and
	// records with no match at all. Nil disables the check.
	MinScore *float64
	// Recommendations is an allow-list matched against the record's match
	// recommendation. Records without a match never pass a non-empty list.
	Recommendations []string
	// Stages is an allow-list matched against the derived stage.
	Stages []string
	// TopN caps the result after every other criterion has been applied.
	// Zero means unlimited.
	TopN int
}

// Filter applies opts to correlated, preserving input order. The input is
// expected to be the score-descending output of Correlate so that TopN keeps
// the best-scoring records.
func Filter(correlated []CorrelatedOpportunity, opts FilterOptions) []CorrelatedOpportunity {
	recommendAllow := toSet(opts.Recommendations)
	stageAllow := toSet(opts.Stages)

	out := make([]CorrelatedOpportunity, 0, len(correlated))
	for _, rec := range correlated {
		if opts.MinScore != nil {
			if rec.Match == nil || rec.Match.OverallScore < *opts.MinScore {
				continue
			}
		}
		if len(recommendAllow) > 0 {
			if rec.Match == nil || !recommendAllow[string(rec.Match.Recommendation)] {
				continue
			}
		}
		if len(stageAllow) > 0 && !stageAllow[string(rec.Stage)] {
			continue
		}
		out = append(out, rec)
	}

	if opts.TopN > 0 && len(out) > opts.TopN {
		out = out[:opts.TopN]
	}
	return out
}

func toSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

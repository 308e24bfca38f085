package extraction

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sergiomunoz/opportunity-pipeline/internal/fetch"
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

// descriptions shorter than this are assumed to be a teaser and worth
// replacing with the full posting text
const minDescriptionLen = 200

const maxPostingLen = 8000

// EnrichDescriptions fetches the job posting page for opportunities
// that carry a URL but little or no description, and fills the
// description from the page text. Fetch failures are logged and
// skipped so a dead link never fails the extraction run.
func EnrichDescriptions(ctx context.Context, opps []types.Opportunity, opts *fetch.Options, log *slog.Logger) int {
	if log == nil {
		log = slog.Default()
	}

	enriched := 0
	for i := range opps {
		opp := &opps[i]
		if opp.JobURL == "" || len(opp.Description) >= minDescriptionLen {
			continue
		}
		text, err := fetch.JobPosting(ctx, opp.JobURL, opts)
		if err != nil {
			log.Warn("fetching job posting failed", "url", opp.JobURL, "error", err)
			continue
		}
		text = strings.TrimSpace(text)
		if len(text) <= len(opp.Description) {
			continue
		}
		if len(text) > maxPostingLen {
			text = text[:maxPostingLen]
		}
		opp.Description = text
		enriched++
	}
	return enriched
}

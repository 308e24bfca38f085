package extraction

import (
	"context"
	"log/slog"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

// Extractor turns one email into one structured opportunity.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, msg *types.EmailMessage) (*types.Opportunity, error)
}

// Fallback chains a primary extractor with a fallback: when the primary
// errors (model unavailable, schema violation), the fallback runs instead and
// the failure is logged rather than aborting the batch.
type Fallback struct {
	primary  Extractor
	fallback Extractor
	log      *slog.Logger
}

// NewFallback wraps primary with fallback.
func NewFallback(primary, fallback Extractor) *Fallback {
	return &Fallback{primary: primary, fallback: fallback, log: slog.Default()}
}

// SetLogger replaces the extractor's logger.
func (f *Fallback) SetLogger(log *slog.Logger) {
	if log != nil {
		f.log = log
	}
}

// Name implements Extractor.
func (f *Fallback) Name() string { return f.primary.Name() + "+" + f.fallback.Name() }

// Extract implements Extractor.
func (f *Fallback) Extract(ctx context.Context, msg *types.EmailMessage) (*types.Opportunity, error) {
	opp, err := f.primary.Extract(ctx, msg)
	if err == nil {
		return opp, nil
	}
	f.log.Warn("primary extractor failed, using fallback",
		"extractor", f.primary.Name(),
		"message_id", msg.MessageID,
		"error", err)
	return f.fallback.Extract(ctx, msg)
}

// Run extracts an opportunity from every message. A message whose extraction
// fails is skipped with a warning; extraction is the gate into the rest of
// the pipeline, so a skipped message simply never becomes an opportunity.
func Run(ctx context.Context, ex Extractor, msgs []types.EmailMessage, log *slog.Logger) ([]types.Opportunity, error) {
	if log == nil {
		log = slog.Default()
	}
	out := make([]types.Opportunity, 0, len(msgs))
	for i := range msgs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		opp, err := ex.Extract(ctx, &msgs[i])
		if err != nil {
			log.Warn("extraction failed, skipping message",
				"message_id", msgs[i].MessageID, "error", err)
			continue
		}
		out = append(out, *opp)
	}
	return out, nil
}

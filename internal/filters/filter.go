package filters

import (
	"context"
	"log/slog"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

// Filter evaluates a single email and reports whether it should continue
// through the pipeline.
type Filter interface {
	Name() string
	Evaluate(ctx context.Context, msg *types.EmailMessage) (types.FilterDecision, error)
}

// Pipeline runs an ordered list of filters over messages. When stopOnReject
// is set, later filters are skipped once one rejects; this keeps the cheap
// rule-based filter in front of the LLM filter.
type Pipeline struct {
	filters      []Filter
	stopOnReject bool
	log          *slog.Logger
}

// NewPipeline builds a pipeline that short-circuits on the first rejection.
func NewPipeline(filters ...Filter) *Pipeline {
	return &Pipeline{filters: filters, stopOnReject: true, log: slog.Default()}
}

// SetLogger replaces the pipeline's logger.
func (p *Pipeline) SetLogger(log *slog.Logger) {
	if log != nil {
		p.log = log
	}
}

// Apply runs every configured filter against one message.
func (p *Pipeline) Apply(ctx context.Context, msg *types.EmailMessage) (types.FilterOutcome, error) {
	outcome := types.FilterOutcome{Passed: true}
	for _, f := range p.filters {
		decision, err := f.Evaluate(ctx, msg)
		if err != nil {
			return types.FilterOutcome{}, err
		}
		outcome.Decisions = append(outcome.Decisions, decision)
		outcome.Reasons = append(outcome.Reasons, decision.Reasons...)
		if !decision.Passed {
			outcome.Passed = false
			if p.stopOnReject {
				break
			}
		}
	}
	return outcome, nil
}

// Run applies the pipeline to every message and returns all of them paired
// with their outcomes, preserving input order. Rejected messages are kept so
// callers can audit why they were dropped.
func (p *Pipeline) Run(ctx context.Context, msgs []types.EmailMessage) ([]types.FilteredMessage, error) {
	out := make([]types.FilteredMessage, 0, len(msgs))
	for i := range msgs {
		outcome, err := p.Apply(ctx, &msgs[i])
		if err != nil {
			return nil, err
		}
		if !outcome.Passed {
			p.log.Debug("message rejected by filters",
				"message_id", msgs[i].MessageID,
				"reasons", outcome.Reasons)
		}
		out = append(out, types.FilteredMessage{Message: msgs[i], Outcome: outcome})
	}
	return out, nil
}

// Passed returns only the messages that cleared every filter.
func Passed(filtered []types.FilteredMessage) []types.EmailMessage {
	out := make([]types.EmailMessage, 0, len(filtered))
	for _, fm := range filtered {
		if fm.Outcome.Passed {
			out = append(out, fm.Message)
		}
	}
	return out
}

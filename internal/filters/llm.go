package filters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sergiomunoz/opportunity-pipeline/internal/llm"
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

// LLMFilter asks the model whether a message is a job opportunity. It runs
// after the keyword filter so only plausible candidates pay for a model call.
type LLMFilter struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLMFilter builds an LLM-backed relevance filter on the lite tier.
func NewLLMFilter(client llm.Client) *LLMFilter {
	return &LLMFilter{client: client, tier: llm.TierLite}
}

// Name implements Filter.
func (f *LLMFilter) Name() string { return "llm_relevance" }

type relevanceVerdict struct {
	IsJobOpportunity bool   `json:"is_job_opportunity"`
	Confidence       string `json:"confidence"`
	Reason           string `json:"reason"`
}

// Evaluate implements Filter.
func (f *LLMFilter) Evaluate(ctx context.Context, msg *types.EmailMessage) (types.FilterDecision, error) {
	decision := types.FilterDecision{FilterName: f.Name()}

	prompt := buildRelevancePrompt(msg)
	raw, err := f.client.GenerateJSON(ctx, prompt, f.tier)
	if err != nil {
		return types.FilterDecision{}, fmt.Errorf("relevance check for message %s: %w", msg.MessageID, err)
	}

	var verdict relevanceVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return types.FilterDecision{}, fmt.Errorf("parsing relevance verdict for message %s: %w", msg.MessageID, err)
	}

	decision.Passed = verdict.IsJobOpportunity
	reason := verdict.Reason
	if reason == "" {
		reason = "no reason given"
	}
	decision.Reasons = append(decision.Reasons,
		fmt.Sprintf("model verdict (%s confidence): %s", nonEmpty(verdict.Confidence, "unknown"), reason))
	return decision, nil
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func buildRelevancePrompt(msg *types.EmailMessage) string {
	const bodyCap = 4000
	body := msg.BodyText
	if len(body) > bodyCap {
		body = body[:bodyCap]
	}

	var b strings.Builder
	b.WriteString("You are screening an inbox for genuine job opportunities: recruiter outreach, ")
	b.WriteString("interview invitations, or postings for a specific role the recipient could apply to.\n")
	b.WriteString("Newsletters, course promotions, admissions email, receipts and generic job-board ")
	b.WriteString("digests without a specific role are NOT opportunities.\n\n")
	fmt.Fprintf(&b, "From: %s\n", msg.Headers.From)
	fmt.Fprintf(&b, "Subject: %s\n\n", msg.Headers.Subject)
	fmt.Fprintf(&b, "Body:\n%s\n\n", body)
	b.WriteString("Respond with JSON only:\n")
	b.WriteString(`{"is_job_opportunity": true|false, "confidence": "high"|"medium"|"low", "reason": "one sentence"}`)
	return b.String()
}

package extraction

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sergiomunoz/opportunity-pipeline/internal/llm"
	"github.com/sergiomunoz/opportunity-pipeline/internal/schemas"
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

//go:embed schema/opportunity.schema.json
var opportunitySchema string

// OpportunitySchema returns the JSON schema that LLM extraction output must
// satisfy.
func OpportunitySchema() string { return opportunitySchema }

// LLMExtractor asks the model for structured opportunity data and validates
// the response against the opportunity schema before accepting it.
type LLMExtractor struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLMExtractor builds a schema-validated LLM extractor on the standard tier.
func NewLLMExtractor(client llm.Client) *LLMExtractor {
	return &LLMExtractor{client: client, tier: llm.TierStandard}
}

// Name implements Extractor.
func (e *LLMExtractor) Name() string { return "llm" }

// Extract implements Extractor. The model must not invent details: missing
// fields stay empty, and the source_email.message_id in the response is
// overwritten with the real message ID so a hallucinated ID can never leak
// into downstream artifacts.
func (e *LLMExtractor) Extract(ctx context.Context, msg *types.EmailMessage) (*types.Opportunity, error) {
	prompt := buildExtractionPrompt(msg)

	raw, err := e.client.GenerateJSON(ctx, prompt, e.tier)
	if err != nil {
		return nil, fmt.Errorf("llm extraction for message %s: %w", msg.MessageID, err)
	}

	if err := schemas.ValidateJSONString(opportunitySchema, raw); err != nil {
		return nil, fmt.Errorf("llm extraction for message %s: %w", msg.MessageID, err)
	}

	var opp types.Opportunity
	if err := json.Unmarshal([]byte(raw), &opp); err != nil {
		return nil, fmt.Errorf("llm extraction for message %s: %w", msg.MessageID, err)
	}

	opp.SourceEmail.MessageID = msg.MessageID
	if opp.SourceEmail.ThreadID == "" {
		opp.SourceEmail.ThreadID = msg.ThreadID
	}
	if opp.SourceEmail.Subject == "" {
		opp.SourceEmail.Subject = msg.Headers.Subject
	}
	if opp.SourceEmail.From == "" {
		opp.SourceEmail.From = msg.Headers.From
	}
	return &opp, nil
}

func buildExtractionPrompt(msg *types.EmailMessage) string {
	const bodyCap = 6000
	body := BodyText(msg.BodyText, msg.BodyHTML)
	if len(body) > bodyCap {
		body = body[:bodyCap]
	}

	var b strings.Builder
	b.WriteString("Extract job opportunity data from this recruiter/job email. ")
	b.WriteString("Do not invent details: leave fields empty or omit them when the email does not state them. ")
	b.WriteString("Keywords are the concrete skills and technologies the email names.\n\n")
	fmt.Fprintf(&b, "From: %s\n", msg.Headers.From)
	fmt.Fprintf(&b, "Subject: %s\n", msg.Headers.Subject)
	fmt.Fprintf(&b, "Date: %s\n\n", msg.Headers.Date)
	fmt.Fprintf(&b, "Body:\n%s\n\n", body)
	b.WriteString("Respond with JSON only, conforming to this schema:\n")
	b.WriteString(opportunitySchema)
	return b.String()
}

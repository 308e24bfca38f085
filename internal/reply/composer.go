// Package reply composes and sends recruiter replies. Composition uses the
// model with a plain template fallback; sending goes through a Transport so
// dry runs and tests never touch the Gmail API.
package reply

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sergiomunoz/opportunity-pipeline/internal/llm"
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

var (
	fromNameRe = regexp.MustCompile(`^(.+?)\s*<`)
	fromAddrRe = regexp.MustCompile(`<([^>]+)>`)
)

// recruiterName pulls a human name from an RFC 2822 From header, or "" for a
// bare address.
func recruiterName(from string) string {
	if m := fromNameRe.FindStringSubmatch(from); m != nil {
		return strings.Trim(m[1], `"' `)
	}
	return ""
}

// recruiterAddress extracts the address part of a From header.
func recruiterAddress(from string) string {
	if m := fromAddrRe.FindStringSubmatch(from); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(from)
}

// replySubject prefixes Re: without doubling it.
func replySubject(subject string) string {
	subject = strings.TrimSpace(subject)
	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}
	return "Re: " + subject
}

// Composer builds reply drafts. A nil client always uses the template.
type Composer struct {
	client llm.Client
	tier   llm.ModelTier
	opts   ComposeOptions
	log    *slog.Logger
}

// ComposeOptions control the content of composed replies.
type ComposeOptions struct {
	Tone               Tone
	MaxWords           int
	AskAboutInterview  bool
	AskAboutSalary     bool
	AvailabilityNote   string
	AdditionalQuestion string
}

// DefaultComposeOptions returns the baseline reply configuration.
func DefaultComposeOptions() ComposeOptions {
	return ComposeOptions{
		Tone:              ToneProfessional,
		MaxWords:          200,
		AskAboutInterview: true,
	}
}

// NewComposer builds a composer. client may be nil.
func NewComposer(client llm.Client, opts ComposeOptions) *Composer {
	if opts.MaxWords <= 0 {
		opts.MaxWords = 200
	}
	if opts.Tone == "" {
		opts.Tone = ToneProfessional
	}
	return &Composer{client: client, tier: llm.TierStandard, opts: opts, log: slog.Default()}
}

// SetLogger replaces the composer's logger.
func (c *Composer) SetLogger(log *slog.Logger) {
	if log != nil {
		c.log = log
	}
}

// Compose builds a reply draft for one matched opportunity. attachments are
// paths to include (typically the tailored resume document).
func (c *Composer) Compose(ctx context.Context, resume *types.Resume, match *types.MatchResult, opp *types.Opportunity, attachments []string) (*types.EmailDraft, error) {
	jobID := opp.JobID()
	if jobID == "" {
		jobID = match.JobID
	}
	if jobID == "" {
		return nil, fmt.Errorf("opportunity and match carry no job ID")
	}

	from := opp.SourceEmail.From
	to := opp.RecruiterEmail
	if to == "" {
		to = recruiterAddress(from)
	}
	if to == "" {
		return nil, fmt.Errorf("no recruiter address for job %s", jobID)
	}

	body := c.composeBody(ctx, resume, match, opp)

	return &types.EmailDraft{
		JobID:           jobID,
		To:              to,
		Subject:         replySubject(opp.SourceEmail.Subject),
		BodyText:        body,
		ThreadID:        opp.SourceEmail.ThreadID,
		AttachmentPaths: append([]string(nil), attachments...),
	}, nil
}

func (c *Composer) composeBody(ctx context.Context, resume *types.Resume, match *types.MatchResult, opp *types.Opportunity) string {
	if c.client == nil {
		return renderTemplate(resume, match, opp, c.opts)
	}
	body, err := c.client.GenerateContent(ctx, buildComposePrompt(resume, match, opp, c.opts), c.tier)
	if err != nil || strings.TrimSpace(body) == "" {
		c.log.Warn("model composition failed, using template",
			"job_id", match.JobID, "error", err)
		return renderTemplate(resume, match, opp, c.opts)
	}
	return strings.TrimSpace(body)
}

// ComposeAll builds drafts for every match, joining attachments by job ID.
// A match whose composition fails is skipped with a warning.
func (c *Composer) ComposeAll(ctx context.Context, resume *types.Resume, matches []types.MatchResult, opps map[string]types.Opportunity, attachments map[string][]string) ([]types.EmailDraft, error) {
	out := make([]types.EmailDraft, 0, len(matches))
	for i := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		opp, ok := opps[matches[i].JobID]
		if !ok {
			c.log.Warn("match has no extracted opportunity, skipping reply",
				"job_id", matches[i].JobID)
			continue
		}
		draft, err := c.Compose(ctx, resume, &matches[i], &opp, attachments[matches[i].JobID])
		if err != nil {
			c.log.Warn("composition failed, skipping reply",
				"job_id", matches[i].JobID, "error", err)
			continue
		}
		out = append(out, *draft)
	}
	return out, nil
}

func buildComposePrompt(resume *types.Resume, match *types.MatchResult, opp *types.Opportunity, opts ComposeOptions) string {
	var b strings.Builder
	b.WriteString("Compose a reply email from a job candidate to a recruiter.\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Address the recruiter by name when known, otherwise use a polite greeting.\n")
	b.WriteString("- Reference the specific role and company.\n")
	b.WriteString("- Work the candidate's strengths in naturally, never as a list.\n")
	fmt.Fprintf(&b, "- Keep it under %d words.\n", opts.MaxWords)
	fmt.Fprintf(&b, "- %s\n", toneInstructions[opts.Tone])
	b.WriteString("- Do not invent facts about the candidate.\n")
	b.WriteString("- Output only the email body, no subject line or headers.\n\n")

	fmt.Fprintf(&b, "Role: %s at %s\n", match.JobTitle, match.Company)
	if name := recruiterName(opp.SourceEmail.From); name != "" {
		fmt.Fprintf(&b, "Recruiter: %s\n", name)
	}
	fmt.Fprintf(&b, "Candidate: %s\n", resume.Personal.Name)
	if resume.Personal.Summary != "" {
		fmt.Fprintf(&b, "Candidate summary: %s\n", resume.Personal.Summary)
	}
	if len(match.Insights.Strengths) > 0 {
		fmt.Fprintf(&b, "Strengths: %s\n", strings.Join(match.Insights.Strengths, "; "))
	}
	if len(match.Insights.TalkingPoints) > 0 {
		fmt.Fprintf(&b, "Talking points: %s\n", strings.Join(match.Insights.TalkingPoints, "; "))
	}
	if opts.AskAboutInterview {
		b.WriteString("Ask what the interview process looks like.\n")
	}
	if opts.AskAboutSalary {
		b.WriteString("Ask about the compensation range.\n")
	}
	if opts.AvailabilityNote != "" {
		fmt.Fprintf(&b, "Mention availability: %s\n", opts.AvailabilityNote)
	}
	if opts.AdditionalQuestion != "" {
		fmt.Fprintf(&b, "Also ask: %s\n", opts.AdditionalQuestion)
	}
	return b.String()
}

package reply

import (
	"context"
	"log/slog"
	"time"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

// Transport delivers a raw RFC 2822 message and returns the provider's
// message ID. The Gmail provider implements it; tests use a fake.
type Transport interface {
	SendRaw(ctx context.Context, raw []byte, threadID string) (string, error)
}

// SendOptions control delivery behavior.
type SendOptions struct {
	// DryRun builds and validates the message without transmitting it.
	DryRun bool
	// From is the sender address placed in the From header.
	From string
	// OverrideTo redirects every reply to this address instead of the
	// recruiter. The intended recipient is preserved in the draft's
	// OriginalTo for auditing.
	OverrideTo string
	// Cc and Bcc are merged into every draft, de-duplicated.
	Cc  []string
	Bcc []string
}

// Sender sends composed drafts through a Transport.
type Sender struct {
	transport Transport
	opts      SendOptions
	log       *slog.Logger
	now       func() time.Time
}

// NewSender builds a sender. transport may be nil only when opts.DryRun is
// set, since a dry run never transmits.
func NewSender(transport Transport, opts SendOptions) *Sender {
	return &Sender{transport: transport, opts: opts, log: slog.Default(), now: time.Now}
}

// SetLogger replaces the sender's logger.
func (s *Sender) SetLogger(log *slog.Logger) {
	if log != nil {
		s.log = log
	}
}

// Send delivers one draft. It never returns an error: delivery failures are
// captured in the result's status so a batch always produces one result per
// draft.
func (s *Sender) Send(ctx context.Context, draft types.EmailDraft) types.ReplyResult {
	s.applyOverrides(&draft)
	ts := s.now().UTC()

	raw, skipped, err := buildMIME(&draft, s.opts.From)
	for _, path := range skipped {
		s.log.Warn("attachment not found, sending without it",
			"job_id", draft.JobID, "path", path)
	}
	if err != nil {
		return types.ReplyResult{
			Draft:     draft,
			Status:    types.ReplyFailed,
			Error:     err.Error(),
			Timestamp: &ts,
		}
	}

	if s.opts.DryRun {
		s.log.Info("dry run, reply not sent", "job_id", draft.JobID, "to", draft.To)
		return types.ReplyResult{Draft: draft, Status: types.ReplyDryRun, Timestamp: &ts}
	}

	providerID, err := s.transport.SendRaw(ctx, raw, draft.ThreadID)
	if err != nil {
		s.log.Error("sending reply failed", "job_id", draft.JobID, "to", draft.To, "error", err)
		return types.ReplyResult{
			Draft:     draft,
			Status:    types.ReplyFailed,
			Error:     err.Error(),
			Timestamp: &ts,
		}
	}

	s.log.Info("reply sent",
		"job_id", draft.JobID,
		"to", draft.To,
		"original_to", draft.OriginalTo,
		"provider_message_id", providerID)
	return types.ReplyResult{
		Draft:             draft,
		Status:            types.ReplySent,
		ProviderMessageID: providerID,
		Timestamp:         &ts,
	}
}

// SendAll delivers every draft and returns one result per draft, in order.
func (s *Sender) SendAll(ctx context.Context, drafts []types.EmailDraft) []types.ReplyResult {
	out := make([]types.ReplyResult, 0, len(drafts))
	for _, draft := range drafts {
		out = append(out, s.Send(ctx, draft))
	}
	return out
}

func (s *Sender) applyOverrides(draft *types.EmailDraft) {
	if s.opts.OverrideTo != "" && s.opts.OverrideTo != draft.To {
		draft.OriginalTo = draft.To
		draft.To = s.opts.OverrideTo
		s.log.Info("recipient overridden",
			"job_id", draft.JobID,
			"original_to", draft.OriginalTo,
			"to", draft.To)
	}
	draft.Cc = mergeAddresses(draft.Cc, s.opts.Cc)
	draft.Bcc = mergeAddresses(draft.Bcc, s.opts.Bcc)
}

func mergeAddresses(existing, extra []string) []string {
	if len(extra) == 0 {
		return existing
	}
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}
	for _, addr := range extra {
		if !seen[addr] {
			seen[addr] = true
			existing = append(existing, addr)
		}
	}
	return existing
}

package correlation

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

const (
	snippetMaxLen    = 200
	topInsightsLimit = 3
	missingSkillsCap = 5
)

// Correlator accumulates partial artifact collections keyed by job ID and
// merges them into one record per opportunity. All Add calls are expected to
// run before Correlate; the instance is not safe for concurrent use.
//
// Only job IDs present in the opportunities set appear in correlated output:
// extraction is the gate that promotes a raw email into a trackable
// opportunity. Artifacts referencing unknown IDs are retained but never
// emitted.
type Correlator struct {
	emails    map[string]types.EmailMessage
	opps      map[string]types.Opportunity
	oppOrder  []string
	matches   map[string]types.MatchResult
	tailoring map[string]types.TailoringReport
	docPaths  map[string]string
	drafts    map[string]types.EmailDraft
	replies   map[string]types.ReplyResult
	log       *slog.Logger
}

// NewCorrelator returns an empty correlator logging anomalies through the
// default slog logger.
func NewCorrelator() *Correlator {
	return &Correlator{
		emails:    make(map[string]types.EmailMessage),
		opps:      make(map[string]types.Opportunity),
		matches:   make(map[string]types.MatchResult),
		tailoring: make(map[string]types.TailoringReport),
		docPaths:  make(map[string]string),
		drafts:    make(map[string]types.EmailDraft),
		replies:   make(map[string]types.ReplyResult),
		log:       slog.Default(),
	}
}

// SetLogger replaces the logger used for dropped-record warnings.
func (c *Correlator) SetLogger(log *slog.Logger) {
	if log != nil {
		c.log = log
	}
}

// AddMessages registers source email messages. Records without a message ID
// are dropped; on duplicate IDs the first record wins.
func (c *Correlator) AddMessages(messages []types.EmailMessage) {
	for _, msg := range messages {
		if msg.MessageID == "" {
			c.log.Warn("dropping message with empty message_id", "subject", msg.Headers.Subject)
			continue
		}
		if _, ok := c.emails[msg.MessageID]; ok {
			c.log.Warn("ignoring duplicate message", "job_id", msg.MessageID)
			continue
		}
		c.emails[msg.MessageID] = msg
	}
}

// AddOpportunities registers extracted opportunities. This establishes the
// authoritative set of job IDs that will appear in correlated output, in
// input order.
func (c *Correlator) AddOpportunities(opportunities []types.Opportunity) {
	for _, opp := range opportunities {
		id := opp.JobID()
		if id == "" {
			c.log.Warn("dropping opportunity with empty source message_id",
				"job_title", opp.JobTitle, "company", opp.Company)
			continue
		}
		if _, ok := c.opps[id]; ok {
			c.log.Warn("ignoring duplicate opportunity", "job_id", id)
			continue
		}
		c.opps[id] = opp
		c.oppOrder = append(c.oppOrder, id)
	}
}

// AddMatchResults registers resume-job match results, first wins per job ID.
func (c *Correlator) AddMatchResults(results []types.MatchResult) {
	for _, r := range results {
		if r.JobID == "" {
			c.log.Warn("dropping match result with empty job_id", "company", r.Company)
			continue
		}
		if _, ok := c.matches[r.JobID]; ok {
			c.log.Warn("ignoring duplicate match result", "job_id", r.JobID)
			continue
		}
		c.matches[r.JobID] = r
	}
}

// AddTailoringResults registers tailoring reports. When tailoredDir is
// non-empty the expected generated document is looked up on disk and its path
// recorded only if present; a missing file is a normal negative result, not
// an error.
func (c *Correlator) AddTailoringResults(results []types.TailoringReport, tailoredDir string) {
	for _, r := range results {
		if r.JobID == "" {
			c.log.Warn("dropping tailoring report with empty job_id", "company", r.Company)
			continue
		}
		if _, ok := c.tailoring[r.JobID]; ok {
			c.log.Warn("ignoring duplicate tailoring report", "job_id", r.JobID)
			continue
		}
		c.tailoring[r.JobID] = r
		if tailoredDir != "" && r.DocumentFilename != "" {
			path := filepath.Join(tailoredDir, r.DocumentFilename)
			if _, err := os.Stat(path); err == nil {
				c.docPaths[r.JobID] = path
			}
		}
	}
}

// AddDrafts registers composed reply drafts, first wins per job ID.
func (c *Correlator) AddDrafts(drafts []types.EmailDraft) {
	for _, d := range drafts {
		if d.JobID == "" {
			c.log.Warn("dropping draft with empty job_id", "to", d.To)
			continue
		}
		if _, ok := c.drafts[d.JobID]; ok {
			c.log.Warn("ignoring duplicate draft", "job_id", d.JobID)
			continue
		}
		c.drafts[d.JobID] = d
	}
}

// AddReplyResults registers reply send outcomes, first wins per job ID.
func (c *Correlator) AddReplyResults(results []types.ReplyResult) {
	for _, r := range results {
		id := r.JobID()
		if id == "" {
			c.log.Warn("dropping reply result with empty job_id", "to", r.Draft.To)
			continue
		}
		if _, ok := c.replies[id]; ok {
			c.log.Warn("ignoring duplicate reply result", "job_id", id)
			continue
		}
		c.replies[id] = r
	}
}

// Correlate builds one record per registered opportunity, attaching whichever
// email, match, tailoring, and reply artifacts share the job ID. Records are
// sorted by match score descending with score-less records last; ties and
// score-less records keep opportunity input order. Calling Correlate twice
// without intervening Add calls yields identical output.
func (c *Correlator) Correlate() []CorrelatedOpportunity {
	correlated := make([]CorrelatedOpportunity, 0, len(c.oppOrder))
	for _, jobID := range c.oppOrder {
		correlated = append(correlated, c.buildOne(jobID))
	}

	sort.SliceStable(correlated, func(i, j int) bool {
		si, oki := matchScore(&correlated[i])
		sj, okj := matchScore(&correlated[j])
		if oki != okj {
			return oki
		}
		return si > sj
	})
	return correlated
}

// matchScore returns the record's match score and whether one exists.
func matchScore(c *CorrelatedOpportunity) (float64, bool) {
	if c.Match == nil {
		return 0, false
	}
	return c.Match.OverallScore, true
}

func (c *Correlator) buildOne(jobID string) CorrelatedOpportunity {
	opp := c.opps[jobID]

	out := CorrelatedOpportunity{
		JobID:          jobID,
		JobTitle:       opp.JobTitle,
		Company:        opp.Company,
		RecruiterName:  opp.RecruiterName,
		RecruiterEmail: opp.RecruiterEmail,
		Locations:      opp.Locations,
		Remote:         opp.Remote,
		Hybrid:         opp.Hybrid,
	}

	if msg, ok := c.emails[jobID]; ok {
		out.Email = buildEmailSummary(&msg)
		out.EmailReceivedAt = out.Email.ReceivedAt
		// The opportunity record is the preferred source for contact fields;
		// the email only fills gaps.
		if out.RecruiterEmail == "" {
			out.RecruiterEmail = msg.Headers.From
		}
	}

	match, hasMatch := c.matches[jobID]
	if hasMatch {
		out.Match = buildMatchSummary(&match)
		if match.Timestamp != nil {
			out.MatchedAt = match.Timestamp.Format(time.RFC3339)
		}
	}

	tailoring, hasTailoring := c.tailoring[jobID]
	if hasTailoring {
		out.Tailoring = &TailoringSummary{
			TotalChanges:      tailoring.TotalChanges(),
			CategoriesChanged: tailoring.CategoriesChanged(),
			DocumentPath:      c.docPaths[jobID],
		}
		if tailoring.Timestamp != nil {
			out.TailoredAt = tailoring.Timestamp.Format(time.RFC3339)
		}
	}

	draft, hasDraft := c.drafts[jobID]
	reply, hasReply := c.replies[jobID]
	replyStatus := types.ReplyStatus("")
	if hasDraft || hasReply {
		summary := &ReplySummary{
			HasDraft: hasDraft,
			Status:   types.ReplyNotSent,
		}
		if hasDraft {
			summary.To = draft.To
			summary.Subject = draft.Subject
		}
		if hasReply {
			summary.Status = reply.Status
			summary.To = reply.Draft.To
			summary.Subject = reply.Draft.Subject
			summary.ProviderMessageID = reply.ProviderMessageID
			summary.Error = reply.Error
			if reply.Timestamp != nil {
				out.RepliedAt = reply.Timestamp.Format(time.RFC3339)
				if reply.Status == types.ReplySent || reply.Status == types.ReplyDryRun {
					summary.SentAt = out.RepliedAt
				}
			}
			replyStatus = reply.Status
		}
		out.Reply = summary
	}

	out.Stage = DeriveStage(hasMatch, hasTailoring, hasDraft, replyStatus)
	out.PipelineComplete = out.Stage == StageReplied && replyStatus == types.ReplySent
	return out
}

func buildEmailSummary(msg *types.EmailMessage) *EmailSummary {
	snippet := msg.Snippet
	if len(snippet) > snippetMaxLen {
		snippet = snippet[:snippetMaxLen]
	}
	summary := &EmailSummary{
		MessageID:      msg.MessageID,
		ThreadID:       msg.ThreadID,
		Subject:        msg.Headers.Subject,
		From:           msg.Headers.From,
		Snippet:        snippet,
		Labels:         msg.Labels,
		HasAttachments: msg.HasAttachments(),
	}
	if msg.InternalDate != nil {
		summary.ReceivedAt = msg.InternalDate.Format(time.RFC3339)
	}
	return summary
}

func buildMatchSummary(match *types.MatchResult) *MatchSummary {
	return &MatchSummary{
		OverallScore:   match.OverallScore,
		Grade:          match.Grade,
		Recommendation: match.Recommendation,
		TopStrengths:   capStrings(match.Insights.Strengths, topInsightsLimit),
		TopConcerns:    capStrings(match.Insights.Concerns, topInsightsLimit),
		MissingSkills:  capStrings(match.Skills.MissingMandatory, missingSkillsCap),
	}
}

func capStrings(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

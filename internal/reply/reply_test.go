package reply

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergiomunoz/opportunity-pipeline/internal/llm"
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

func TestRecruiterHeaderParsing(t *testing.T) {
	assert.Equal(t, "Jane Doe", recruiterName(`"Jane Doe" <jane@acme.com>`))
	assert.Equal(t, "", recruiterName("jane@acme.com"))
	assert.Equal(t, "jane@acme.com", recruiterAddress("Jane Doe <jane@acme.com>"))
	assert.Equal(t, "jane@acme.com", recruiterAddress("jane@acme.com"))
}

func TestReplySubject(t *testing.T) {
	assert.Equal(t, "Re: Opening", replySubject("Opening"))
	assert.Equal(t, "Re: Opening", replySubject("Re: Opening"))
	assert.Equal(t, "RE: Opening", replySubject("RE: Opening"))
}

func testResume() *types.Resume {
	return &types.Resume{Personal: types.PersonalInfo{Name: "Ada Lovelace", Summary: "Go engineer."}}
}

func testMatch() *types.MatchResult {
	return &types.MatchResult{
		JobID:    "m1",
		JobTitle: "Platform Engineer",
		Company:  "Initech",
		Insights: types.MatchInsights{Strengths: []string{"distributed systems", "Go"}},
	}
}

func testOpp() *types.Opportunity {
	return &types.Opportunity{
		SourceEmail: types.SourceEmail{
			MessageID: "m1",
			ThreadID:  "t1",
			Subject:   "Platform Engineer at Initech",
			From:      "Jane Doe <jane@initech.com>",
		},
		JobTitle:       "Platform Engineer",
		Company:        "Initech",
		RecruiterEmail: "jane@initech.com",
	}
}

type fakeClient struct {
	response string
	err      error
}

func (f *fakeClient) GenerateContent(context.Context, string, llm.ModelTier) (string, error) {
	return f.response, f.err
}

func (f *fakeClient) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	return f.response, f.err
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeClient) Close() error                  { return nil }

func TestComposeWithModel(t *testing.T) {
	c := NewComposer(&fakeClient{response: "Hi Jane,\n\nThanks for reaching out.\n\nBest,\nAda"}, DefaultComposeOptions())

	draft, err := c.Compose(context.Background(), testResume(), testMatch(), testOpp(), []string{"/tmp/resume.docx"})
	require.NoError(t, err)

	assert.Equal(t, "m1", draft.JobID)
	assert.Equal(t, "jane@initech.com", draft.To)
	assert.Equal(t, "Re: Platform Engineer at Initech", draft.Subject)
	assert.Equal(t, "t1", draft.ThreadID)
	assert.Contains(t, draft.BodyText, "Thanks for reaching out")
	assert.Equal(t, []string{"/tmp/resume.docx"}, draft.AttachmentPaths)
}

func TestComposeFallsBackToTemplate(t *testing.T) {
	tests := []struct {
		name   string
		client llm.Client
	}{
		{"nil client", nil},
		{"model error", &fakeClient{err: errors.New("quota")}},
		{"empty response", &fakeClient{response: "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewComposer(tt.client, DefaultComposeOptions())
			draft, err := c.Compose(context.Background(), testResume(), testMatch(), testOpp(), nil)
			require.NoError(t, err)
			assert.Contains(t, draft.BodyText, "Hi Jane,")
			assert.Contains(t, draft.BodyText, "Platform Engineer role at Initech")
			assert.Contains(t, draft.BodyText, "interview process")
			assert.Contains(t, draft.BodyText, "Ada Lovelace")
		})
	}
}

func TestComposeNoRecruiterAddress(t *testing.T) {
	opp := testOpp()
	opp.RecruiterEmail = ""
	opp.SourceEmail.From = ""

	c := NewComposer(nil, DefaultComposeOptions())
	_, err := c.Compose(context.Background(), testResume(), testMatch(), opp, nil)
	require.Error(t, err)
}

func TestComposeAll(t *testing.T) {
	c := NewComposer(nil, DefaultComposeOptions())
	matches := []types.MatchResult{
		*testMatch(),
		{JobID: "m-missing"}, // no opportunity extracted
	}
	opps := map[string]types.Opportunity{"m1": *testOpp()}
	attachments := map[string][]string{"m1": {"/tmp/resume.docx"}}

	drafts, err := c.ComposeAll(context.Background(), testResume(), matches, opps, attachments)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "m1", drafts[0].JobID)
	assert.Equal(t, []string{"/tmp/resume.docx"}, drafts[0].AttachmentPaths)
}

func TestBuildMIME(t *testing.T) {
	dir := t.TempDir()
	attPath := filepath.Join(dir, "resume.docx")
	require.NoError(t, os.WriteFile(attPath, []byte("docx-bytes"), 0o644))

	draft := &types.EmailDraft{
		JobID:           "m1",
		To:              "jane@initech.com",
		Cc:              []string{"audit@example.com"},
		Subject:         "Re: Rôle",
		BodyText:        "Hello",
		InReplyTo:       "<orig@initech.com>",
		References:      "<orig@initech.com>",
		AttachmentPaths: []string{attPath, filepath.Join(dir, "missing.docx")},
	}

	raw, skipped, err := buildMIME(draft, "ada@example.com")
	require.NoError(t, err)
	require.Len(t, skipped, 1)

	msg := string(raw)
	assert.Contains(t, msg, "From: ada@example.com\r\n")
	assert.Contains(t, msg, "To: jane@initech.com\r\n")
	assert.Contains(t, msg, "Cc: audit@example.com\r\n")
	assert.Contains(t, msg, "In-Reply-To: <orig@initech.com>\r\n")
	assert.Contains(t, msg, "=?utf-8?B?", "non-ASCII subject must be RFC 2047 encoded")
	assert.Contains(t, msg, `filename="resume.docx"`)
	assert.Contains(t, msg, "Content-Transfer-Encoding: base64")
	assert.NotContains(t, msg, "missing.docx")
}

func TestEncodeHeader(t *testing.T) {
	assert.Equal(t, "Plain subject", encodeHeader("Plain subject"))
	assert.True(t, strings.HasPrefix(encodeHeader("Rôle"), "=?utf-8?B?"))
}

type fakeTransport struct {
	id    string
	err   error
	calls int
	raw   []byte
}

func (f *fakeTransport) SendRaw(_ context.Context, raw []byte, _ string) (string, error) {
	f.calls++
	f.raw = raw
	return f.id, f.err
}

func draftFixture() types.EmailDraft {
	return types.EmailDraft{
		JobID:    "m1",
		To:       "jane@initech.com",
		Subject:  "Re: Role",
		BodyText: "Hello",
	}
}

func TestSenderDryRun(t *testing.T) {
	transport := &fakeTransport{}
	s := NewSender(transport, SendOptions{DryRun: true, From: "ada@example.com"})

	result := s.Send(context.Background(), draftFixture())
	assert.Equal(t, types.ReplyDryRun, result.Status)
	assert.False(t, result.Sent())
	assert.Zero(t, transport.calls)
	require.NotNil(t, result.Timestamp)
}

func TestSenderSend(t *testing.T) {
	transport := &fakeTransport{id: "gmail-123"}
	s := NewSender(transport, SendOptions{From: "ada@example.com"})

	result := s.Send(context.Background(), draftFixture())
	assert.Equal(t, types.ReplySent, result.Status)
	assert.True(t, result.Sent())
	assert.Equal(t, "gmail-123", result.ProviderMessageID)
	assert.Contains(t, string(transport.raw), "To: jane@initech.com")
}

func TestSenderFailureCaptured(t *testing.T) {
	transport := &fakeTransport{err: errors.New("insufficient scope")}
	s := NewSender(transport, SendOptions{From: "ada@example.com"})

	result := s.Send(context.Background(), draftFixture())
	assert.Equal(t, types.ReplyFailed, result.Status)
	assert.Contains(t, result.Error, "insufficient scope")
}

func TestSenderOverridesAndAudit(t *testing.T) {
	transport := &fakeTransport{id: "id"}
	s := NewSender(transport, SendOptions{
		From:       "ada@example.com",
		OverrideTo: "inbox@example.com",
		Cc:         []string{"audit@example.com"},
		Bcc:        []string{"archive@example.com", "audit@example.com"},
	})

	draft := draftFixture()
	draft.Bcc = []string{"archive@example.com"}
	result := s.Send(context.Background(), draft)

	assert.Equal(t, "inbox@example.com", result.Draft.To)
	assert.Equal(t, "jane@initech.com", result.Draft.OriginalTo, "intended recipient preserved for reports")
	assert.Equal(t, []string{"audit@example.com"}, result.Draft.Cc)
	assert.Equal(t, []string{"archive@example.com", "audit@example.com"}, result.Draft.Bcc)
}

func TestSendAllOneResultPerDraft(t *testing.T) {
	transport := &fakeTransport{id: "id"}
	s := NewSender(transport, SendOptions{From: "ada@example.com"})

	results := s.SendAll(context.Background(), []types.EmailDraft{draftFixture(), draftFixture()})
	require.Len(t, results, 2)
	assert.Equal(t, 2, transport.calls)
}

package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergiomunoz/opportunity-pipeline/internal/llm"
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

func TestHTMLToText(t *testing.T) {
	html := `<html><head><style>p{color:red}</style></head><body>
		<p>Hello <b>there</b></p>
		<script>alert(1)</script>
		<div>Platform Engineer</div>
		<ul><li>Go</li><li>Postgres</li></ul>
	</body></html>`

	text, err := HTMLToText(html)
	require.NoError(t, err)
	assert.Contains(t, text, "Hello there")
	assert.Contains(t, text, "Platform Engineer")
	assert.Contains(t, text, "Go")
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color:red")
}

func TestBodyTextPrefersPlainText(t *testing.T) {
	assert.Equal(t, "plain", BodyText("plain", "<p>html</p>"))
	assert.Equal(t, "html", BodyText("", "<p>html</p>"))
	assert.Equal(t, "", BodyText("  ", ""))
}

func TestParseFromHeader(t *testing.T) {
	tests := []struct {
		from     string
		wantName string
		wantAddr string
	}{
		{`"Jane Doe" <jane@acme.com>`, "Jane Doe", "jane@acme.com"},
		{"jane@acme.com", "", "jane@acme.com"},
		{"Jane Doe", "Jane Doe", ""},
	}
	for _, tt := range tests {
		name, addr := parseFromHeader(tt.from)
		assert.Equal(t, tt.wantName, name, "from=%q", tt.from)
		assert.Equal(t, tt.wantAddr, addr, "from=%q", tt.from)
	}
}

func TestCompanyFromAddress(t *testing.T) {
	assert.Equal(t, "Acme Corp", companyFromAddress("jane@acme-corp.com"))
	assert.Equal(t, "", companyFromAddress("jane@gmail.com"))
	assert.Equal(t, "", companyFromAddress("not-an-address"))
}

func TestRuleBasedExtractor(t *testing.T) {
	msg := &types.EmailMessage{
		MessageID: "m1",
		ThreadID:  "t1",
		Headers: types.EmailHeaders{
			From:    "Jane Doe <jane@acme.com>",
			Subject: "Re: Senior Platform Engineer - Location: Austin, TX",
		},
		Snippet: "Exciting role at Acme",
		BodyText: "Hi,\n" +
			"We have a remote-friendly opening.\n" +
			"Location: Austin, TX\n" +
			"Mandatory Skills: Go, Kubernetes, PostgreSQL\n" +
			"Pay: $150k - $180k per year\n" +
			"Apply here: https://jobs.acme.com/123\n",
	}

	opp, err := NewRuleBasedExtractor().Extract(context.Background(), msg)
	require.NoError(t, err)

	assert.Equal(t, "m1", opp.JobID())
	assert.Equal(t, "Senior Platform Engineer", opp.JobTitle)
	assert.Equal(t, "Acme", opp.Company)
	assert.Equal(t, "Jane Doe", opp.RecruiterName)
	assert.Equal(t, "jane@acme.com", opp.RecruiterEmail)
	assert.Equal(t, []string{"Austin, TX"}, opp.Locations)
	assert.Equal(t, []string{"Go", "Kubernetes", "PostgreSQL"}, opp.Keywords)
	require.NotNil(t, opp.Remote)
	assert.True(t, *opp.Remote)
	assert.Nil(t, opp.Hybrid)
	assert.Contains(t, opp.SalaryText, "$150k")
	assert.Equal(t, "https://jobs.acme.com/123", opp.JobURL)
}

func TestRuleBasedExtractorEmptyMessage(t *testing.T) {
	opp, err := NewRuleBasedExtractor().Extract(context.Background(), &types.EmailMessage{MessageID: "m2"})
	require.NoError(t, err)
	assert.Equal(t, "m2", opp.JobID())
	assert.Empty(t, opp.JobTitle)
	assert.Empty(t, opp.Keywords)
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

func TestLLMExtractor(t *testing.T) {
	ctx := context.Background()
	msg := &types.EmailMessage{
		MessageID: "m1",
		ThreadID:  "t1",
		Headers:   types.EmailHeaders{From: "jane@acme.com", Subject: "Role"},
	}

	t.Run("valid response", func(t *testing.T) {
		client := &fakeClient{response: `{
			"source_email": {"message_id": "hallucinated"},
			"job_title": "Backend Engineer",
			"company": "Acme",
			"keywords": ["Go"]
		}`}
		opp, err := NewLLMExtractor(client).Extract(ctx, msg)
		require.NoError(t, err)
		assert.Equal(t, "m1", opp.JobID(), "model-provided message ID must be overwritten")
		assert.Equal(t, "t1", opp.SourceEmail.ThreadID)
		assert.Equal(t, "Backend Engineer", opp.JobTitle)
	})

	t.Run("schema violation rejected", func(t *testing.T) {
		client := &fakeClient{response: `{"company": "Acme"}`}
		_, err := NewLLMExtractor(client).Extract(ctx, msg)
		require.Error(t, err)
	})

	t.Run("client error propagates", func(t *testing.T) {
		client := &fakeClient{err: errors.New("quota")}
		_, err := NewLLMExtractor(client).Extract(ctx, msg)
		require.Error(t, err)
	})
}

type stubExtractor struct {
	name string
	opp  *types.Opportunity
	err  error
	hits int
}

func (s *stubExtractor) Name() string { return s.name }

func (s *stubExtractor) Extract(context.Context, *types.EmailMessage) (*types.Opportunity, error) {
	s.hits++
	return s.opp, s.err
}

func TestFallback(t *testing.T) {
	ctx := context.Background()
	msg := &types.EmailMessage{MessageID: "m1"}
	want := &types.Opportunity{JobTitle: "Engineer"}

	t.Run("primary success skips fallback", func(t *testing.T) {
		fb := &stubExtractor{name: "rules", opp: want}
		f := NewFallback(&stubExtractor{name: "llm", opp: want}, fb)
		opp, err := f.Extract(ctx, msg)
		require.NoError(t, err)
		assert.Equal(t, want, opp)
		assert.Zero(t, fb.hits)
	})

	t.Run("primary failure uses fallback", func(t *testing.T) {
		f := NewFallback(
			&stubExtractor{name: "llm", err: errors.New("boom")},
			&stubExtractor{name: "rules", opp: want},
		)
		opp, err := f.Extract(ctx, msg)
		require.NoError(t, err)
		assert.Equal(t, want, opp)
	})
}

func TestRunSkipsFailedExtractions(t *testing.T) {
	msgs := []types.EmailMessage{{MessageID: "m1"}, {MessageID: "m2"}}

	calls := 0
	ex := &funcExtractor{fn: func(msg *types.EmailMessage) (*types.Opportunity, error) {
		calls++
		if msg.MessageID == "m1" {
			return nil, errors.New("boom")
		}
		return &types.Opportunity{SourceEmail: types.SourceEmail{MessageID: msg.MessageID}}, nil
	}}

	opps, err := Run(context.Background(), ex, msgs, nil)
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, "m2", opps[0].JobID())
	assert.Equal(t, 2, calls)
}

type funcExtractor struct {
	fn func(*types.EmailMessage) (*types.Opportunity, error)
}

func (f *funcExtractor) Name() string { return "func" }

func (f *funcExtractor) Extract(_ context.Context, msg *types.EmailMessage) (*types.Opportunity, error) {
	return f.fn(msg)
}

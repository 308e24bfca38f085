// Package gmail fetches candidate emails and sends replies through the
// Gmail API. Authentication uses OAuth2 installed-app credentials with a
// cached token file that is rewritten whenever the token refreshes.
package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/errgroup"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

// Scopes the pipeline needs: reading the inbox and sending replies.
var Scopes = []string{gmailapi.GmailReadonlyScope, gmailapi.GmailSendScope}

const (
	userID = "me"
	// fetchConcurrency bounds parallel message-detail requests.
	fetchConcurrency = 10
	// maxPageSize is the Gmail API list maximum.
	maxPageSize = 500
)

// Auth locates the OAuth2 credential and token files.
type Auth struct {
	CredentialsPath string
	TokenPath       string
}

// Provider wraps an authorized Gmail API service.
type Provider struct {
	svc *gmailapi.Service
	log *slog.Logger
}

// NewProvider builds a provider from the credential files. The token file
// must already exist (created by a prior interactive authorization); an
// expired token is refreshed automatically and written back.
func NewProvider(ctx context.Context, auth Auth) (*Provider, error) {
	credJSON, err := os.ReadFile(auth.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}
	config, err := google.ConfigFromJSON(credJSON, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	token, err := readToken(auth.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("reading token (run authorization first): %w", err)
	}

	source := &persistingTokenSource{
		src:       config.TokenSource(ctx, token),
		current:   token,
		tokenPath: auth.TokenPath,
		log:       slog.Default(),
	}

	svc, err := gmailapi.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("creating gmail service: %w", err)
	}
	return &Provider{svc: svc, log: slog.Default()}, nil
}

// NewProviderWithService wraps an existing service, for tests.
func NewProviderWithService(svc *gmailapi.Service) *Provider {
	return &Provider{svc: svc, log: slog.Default()}
}

// SetLogger replaces the provider's logger.
func (p *Provider) SetLogger(log *slog.Logger) {
	if log != nil {
		p.log = log
	}
}

// persistingTokenSource rewrites the token file whenever the access token
// changes, so the next run skips the refresh round-trip.
type persistingTokenSource struct {
	src       oauth2.TokenSource
	current   *oauth2.Token
	tokenPath string
	log       *slog.Logger
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if token.AccessToken != s.current.AccessToken {
		s.current = token
		if err := writeToken(s.tokenPath, token); err != nil {
			s.log.Warn("persisting refreshed token failed", "path", s.tokenPath, "error", err)
		}
	}
	return token, nil
}

func readToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parsing token file %s: %w", path, err)
	}
	return &token, nil
}

func writeToken(path string, token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// FetchOptions narrow which messages Fetch returns.
type FetchOptions struct {
	// Query is a Gmail search expression appended to the time window.
	Query string
	// After and Before bound the received time. Zero values are open.
	After  time.Time
	Before time.Time
	// MaxMessages caps the fetch; 0 means no cap.
	MaxMessages int
}

func (o *FetchOptions) query() string {
	parts := make([]string, 0, 3)
	if o.Query != "" {
		parts = append(parts, o.Query)
	}
	if !o.After.IsZero() {
		parts = append(parts, fmt.Sprintf("after:%d", o.After.Unix()))
	}
	if !o.Before.IsZero() {
		parts = append(parts, fmt.Sprintf("before:%d", o.Before.Unix()))
	}
	return strings.Join(parts, " ")
}

// Fetch lists matching messages and loads their full content, newest first.
// Details are fetched concurrently; a message whose detail request fails is
// skipped with a warning.
func (p *Provider) Fetch(ctx context.Context, opts FetchOptions) ([]types.EmailMessage, error) {
	ids, err := p.listIDs(ctx, &opts)
	if err != nil {
		return nil, err
	}

	msgs := make([]*types.EmailMessage, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			full, err := p.svc.Users.Messages.Get(userID, id).Format("full").Context(gctx).Do()
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				p.log.Warn("fetching message detail failed, skipping", "message_id", id, "error", err)
				return nil
			}
			msgs[i] = parseMessage(full)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]types.EmailMessage, 0, len(msgs))
	for _, m := range msgs {
		if m != nil {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (p *Provider) listIDs(ctx context.Context, opts *FetchOptions) ([]string, error) {
	var ids []string
	pageToken := ""
	query := opts.query()

	for {
		call := p.svc.Users.Messages.List(userID).MaxResults(maxPageSize).Context(ctx)
		if query != "" {
			call = call.Q(query)
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("listing messages: %w", err)
		}
		for _, m := range resp.Messages {
			ids = append(ids, m.Id)
			if opts.MaxMessages > 0 && len(ids) >= opts.MaxMessages {
				return ids, nil
			}
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			return ids, nil
		}
	}
}

// SendRaw sends a raw RFC 2822 message, threading it when threadID is set.
// It implements the reply package's Transport.
func (p *Provider) SendRaw(ctx context.Context, raw []byte, threadID string) (string, error) {
	msg := &gmailapi.Message{
		Raw:      base64.URLEncoding.EncodeToString(raw),
		ThreadId: threadID,
	}
	sent, err := p.svc.Users.Messages.Send(userID, msg).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("sending message: %w", err)
	}
	return sent.Id, nil
}

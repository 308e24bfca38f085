// Package fetch retrieves job posting pages over HTTP and extracts
// the readable text from their HTML. It is used to enrich extracted
// opportunities whose emails only carry a link to the posting.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "Mozilla/5.0 (compatible; OpportunityPipeline/1.0)"
	maxBodyBytes     = 4 << 20
)

// Options configures page fetching. The zero value is usable.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client
}

func (o *Options) withDefaults() Options {
	out := Options{Timeout: defaultTimeout, UserAgent: defaultUserAgent}
	if o == nil {
		return out
	}
	if o.Timeout > 0 {
		out.Timeout = o.Timeout
	}
	if o.UserAgent != "" {
		out.UserAgent = o.UserAgent
	}
	out.Client = o.Client
	return out
}

// Error describes a failed fetch of a specific URL.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Page fetches the raw HTML of urlStr.
func Page(ctx context.Context, urlStr string, opts *Options) (string, error) {
	o := opts.withDefaults()

	client := o.Client
	if client == nil {
		client = &http.Client{Timeout: o.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", &Error{URL: urlStr, Err: err}
	}
	req.Header.Set("User-Agent", o.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", &Error{URL: urlStr, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &Error{URL: urlStr, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &Error{URL: urlStr, Err: err}
	}
	return string(body), nil
}

// DefaultTextSelectors is the selector cascade tried when no
// platform-specific selectors apply.
var DefaultTextSelectors = []string{
	"main",
	"article",
	"[role=main]",
	"#content",
	".content",
}

// ExtractText strips navigation, scripts and boilerplate from html and
// returns the readable text of the first matching selector. When no
// selector matches it falls back to the document body.
func ExtractText(html string, selectors []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	doc.Find("script, style, noscript, nav, header, footer, iframe, svg").Remove()

	if len(selectors) == 0 {
		selectors = DefaultTextSelectors
	}
	for _, sel := range selectors {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if text := cleanWhitespace(node.Text()); text != "" {
				return text, nil
			}
		}
	}

	return cleanWhitespace(doc.Find("body").Text()), nil
}

var (
	blankLines = regexp.MustCompile(`\n{3,}`)
	runSpaces  = regexp.MustCompile(`[ \t]{2,}`)
)

func cleanWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(runSpaces.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	return strings.TrimSpace(blankLines.ReplaceAllString(s, "\n\n"))
}

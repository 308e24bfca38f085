package fetch

import (
	"context"
	"net/url"
	"strings"
)

// Platform identifies the applicant tracking system hosting a posting.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformUnknown    Platform = "unknown"
)

// DetectPlatform inspects the host of urlStr and reports which ATS
// serves it, or PlatformUnknown.
func DetectPlatform(urlStr string) Platform {
	u, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case strings.Contains(host, "greenhouse.io"):
		return PlatformGreenhouse
	case strings.Contains(host, "lever.co"):
		return PlatformLever
	case strings.Contains(host, "myworkdayjobs.com"), strings.Contains(host, "workday.com"):
		return PlatformWorkday
	default:
		return PlatformUnknown
	}
}

// PlatformSelectors returns the content selectors for a known ATS, or
// nil so callers fall back to DefaultTextSelectors.
func PlatformSelectors(p Platform) []string {
	switch p {
	case PlatformGreenhouse:
		return []string{"#content", ".job__description", "#app_body"}
	case PlatformLever:
		return []string{".posting", ".section-wrapper"}
	case PlatformWorkday:
		return []string{"[data-automation-id=jobPostingDescription]", "[data-automation-id=job-posting-details]"}
	default:
		return nil
	}
}

// JobPosting fetches a posting URL and returns its readable text,
// using selectors matched to the hosting platform when recognised.
func JobPosting(ctx context.Context, urlStr string, opts *Options) (string, error) {
	html, err := Page(ctx, urlStr, opts)
	if err != nil {
		return "", err
	}
	return ExtractText(html, PlatformSelectors(DetectPlatform(urlStr)))
}

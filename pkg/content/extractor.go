// Package content extracts a plain text abstract from a paper page. It is used when a feed
// item comes without a description.
package content

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markusmobius/go-trafilatura"
)

// MaxAbstractLen limits extracted text, in runes
const MaxAbstractLen = 3000

const defaultUserAgent = "Mozilla/5.0 (compatible; Paperscope/1.0)"

// Extractor pulls the main text of a paper page with trafilatura
type Extractor struct {
	client    *http.Client
	userAgent string
}

// NewExtractor creates a content extractor with the given per-request timeout
func NewExtractor(timeout time.Duration, userAgent string) *Extractor {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Extractor{client: &http.Client{Timeout: timeout}, userAgent: userAgent}
}

// Extract retrieves the page at urlStr and returns its main text, whitespace collapsed
// and limited to MaxAbstractLen runes
func (e *Extractor) Extract(ctx context.Context, urlStr string) (string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", fmt.Errorf("invalid URL: %q", urlStr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	setPageHeaders(req, e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, urlStr)
	}

	result, err := trafilatura.Extract(resp.Body, trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		ExcludeTables:   true,
		Deduplicate:     true,
		OriginalURL:     parsedURL,
	})
	if err != nil {
		return "", fmt.Errorf("extract content from %s: %w", urlStr, err)
	}
	if result == nil {
		return "", fmt.Errorf("no content extracted from %s", urlStr)
	}

	text := compact(result.ContentText)
	if text == "" {
		return "", fmt.Errorf("no text content extracted from %s", urlStr)
	}
	return text, nil
}

// compact collapses whitespace and cuts the text to MaxAbstractLen runes
func compact(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if runes := []rune(s); len(runes) > MaxAbstractLen {
		return strings.TrimSpace(string(runes[:MaxAbstractLen]))
	}
	return s
}

// ABOUTME: Direct fetcher retrieving article markup from the origin with colly
// ABOUTME: Applies a browser-like user agent, body size limit and request timeout

package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly"

	"smart-reader-api/core/domain"
	"smart-reader-api/core/errors"
)

const directUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// DirectFetcher fetches the URL itself without a relay
type DirectFetcher struct {
	timeout time.Duration
}

// NewDirectFetcher creates a direct fetcher with the given request timeout
func NewDirectFetcher(timeout time.Duration) *DirectFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &DirectFetcher{timeout: timeout}
}

// Name implements interfaces.ContentFetcher
func (f *DirectFetcher) Name() string {
	return "direct"
}

// Fetch implements interfaces.ContentFetcher
func (f *DirectFetcher) Fetch(ctx context.Context, target string) (*domain.FetchedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := colly.NewCollector(
		colly.UserAgent(directUserAgent),
		colly.MaxBodySize(MaxBodySize),
		colly.Async(false),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(f.timeout)

	var body []byte
	var fetchErr error
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			fetchErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
			return
		}
		fetchErr = err
	})

	if err := c.Visit(target); err != nil && fetchErr == nil {
		fetchErr = err
	}
	if fetchErr != nil {
		return nil, &errors.FetchError{URL: target, Attempts: []string{f.Name() + ": " + fetchErr.Error()}, Cause: fetchErr}
	}
	if strings.TrimSpace(string(body)) == "" {
		err := fmt.Errorf("empty body")
		return nil, &errors.FetchError{URL: target, Attempts: []string{f.Name() + ": " + err.Error()}, Cause: err}
	}

	return &domain.FetchedDocument{
		URL:       target,
		Markup:    string(body),
		Source:    f.Name(),
		FetchedAt: time.Now(),
	}, nil
}

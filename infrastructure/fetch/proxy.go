// ABOUTME: Proxy fetcher pulling raw article markup through public relay URLs
// ABOUTME: Tries each relay template in order until one returns a usable body

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"smart-reader-api/core/domain"
	"smart-reader-api/core/errors"
	"smart-reader-api/core/interfaces"
)

// DefaultProxyTemplates are the relays tried when none are configured
var DefaultProxyTemplates = []string{
	"https://api.allorigins.win/raw?url=%s",
	"https://corsproxy.io/?%s",
}

// MaxBodySize limits the markup read from any fetcher
const MaxBodySize = 5 * 1024 * 1024

// ProxyFetcher fetches markup through relay URL templates. Each template
// contains one %s which receives the query-escaped target URL.
type ProxyFetcher struct {
	client    interfaces.HTTPClient
	templates []string
	logger    interfaces.Logger
}

// NewProxyFetcher creates a proxy fetcher
func NewProxyFetcher(deps interfaces.Dependencies, templates []string) *ProxyFetcher {
	if len(templates) == 0 {
		templates = DefaultProxyTemplates
	}
	return &ProxyFetcher{
		client:    deps.HTTPClient,
		templates: templates,
		logger:    deps.Logger,
	}
}

// Name implements interfaces.ContentFetcher
func (f *ProxyFetcher) Name() string {
	return "proxy"
}

// Fetch implements interfaces.ContentFetcher
func (f *ProxyFetcher) Fetch(ctx context.Context, target string) (*domain.FetchedDocument, error) {
	var attempts []string
	var lastErr error

	for _, tmpl := range f.templates {
		if err := ctx.Err(); err != nil {
			return nil, &errors.FetchError{URL: target, Attempts: attempts, Cause: err}
		}

		relay := ProxyURL(tmpl, target)
		markup, err := f.fetchOne(ctx, relay)
		if err == nil {
			return &domain.FetchedDocument{
				URL:       target,
				Markup:    markup,
				Source:    f.Name() + ":" + relayHost(relay),
				FetchedAt: time.Now(),
			}, nil
		}

		lastErr = err
		attempts = append(attempts, fmt.Sprintf("%s %s: %v", f.Name(), relayHost(relay), err))
		if f.logger != nil {
			f.logger.Warn("Proxy fetch failed", map[string]interface{}{
				"url":   target,
				"relay": relayHost(relay),
				"error": err.Error(),
			})
		}
	}

	return nil, &errors.FetchError{URL: target, Attempts: attempts, Cause: lastErr}
}

func (f *ProxyFetcher) fetchOne(ctx context.Context, relay string) (string, error) {
	resp, err := f.client.Get(ctx, relay)
	if err != nil {
		return "", err
	}
	body := resp.Body()
	defer body.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return "", fmt.Errorf("status %d", resp.StatusCode())
	}

	data, err := io.ReadAll(io.LimitReader(body, MaxBodySize))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("empty body")
	}
	return string(data), nil
}

// ProxyURL fills a relay template with the escaped target URL. Templates
// without a placeholder get the escaped URL appended.
func ProxyURL(tmpl, target string) string {
	escaped := url.QueryEscape(target)
	if strings.Contains(tmpl, "%s") {
		return strings.Replace(tmpl, "%s", escaped, 1)
	}
	return tmpl + escaped
}

func relayHost(relay string) string {
	if u, err := url.Parse(relay); err == nil && u.Host != "" {
		return u.Host
	}
	return relay
}

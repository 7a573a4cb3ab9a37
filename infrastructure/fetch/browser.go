// ABOUTME: Browser fetcher rendering script-driven pages in headless Chrome
// ABOUTME: Used as a fallback when static markup yields too little article text

package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"smart-reader-api/core/domain"
	"smart-reader-api/core/errors"
)

// BrowserFetcher renders the page with chromedp and returns the resulting DOM.
// Requires Chrome or Chromium on the host.
type BrowserFetcher struct {
	timeout time.Duration
	settle  time.Duration
}

// NewBrowserFetcher creates a browser fetcher. settle is the time allowed for
// scripts to render after the body is ready.
func NewBrowserFetcher(timeout, settle time.Duration) *BrowserFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if settle < 0 {
		settle = 0
	}
	return &BrowserFetcher{timeout: timeout, settle: settle}
}

// Name implements interfaces.ContentFetcher
func (f *BrowserFetcher) Name() string {
	return "browser"
}

// Fetch implements interfaces.ContentFetcher
func (f *BrowserFetcher) Fetch(ctx context.Context, target string) (*domain.FetchedDocument, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, f.timeout)
	defer cancel()

	var markup string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body"),
		chromedp.Sleep(f.settle),
		chromedp.OuterHTML("html", &markup),
	)
	if err != nil {
		cause := fmt.Errorf("browser rendering failed: %w", err)
		return nil, &errors.FetchError{URL: target, Attempts: []string{f.Name() + ": " + err.Error()}, Cause: cause}
	}

	return &domain.FetchedDocument{
		URL:       target,
		Markup:    markup,
		Source:    f.Name(),
		FetchedAt: time.Now(),
	}, nil
}

// ABOUTME: Chain fetcher trying content fetchers in order
// ABOUTME: Returns the first success or a FetchError listing every attempt

package fetch

import (
	"context"
	stderrors "errors"

	"smart-reader-api/core/domain"
	"smart-reader-api/core/errors"
	"smart-reader-api/core/interfaces"
)

// ChainFetcher tries each fetcher until one succeeds
type ChainFetcher struct {
	fetchers []interfaces.ContentFetcher
	logger   interfaces.Logger
}

// NewChainFetcher creates a chain over the given fetchers
func NewChainFetcher(logger interfaces.Logger, fetchers ...interfaces.ContentFetcher) *ChainFetcher {
	return &ChainFetcher{fetchers: fetchers, logger: logger}
}

// Name implements interfaces.ContentFetcher
func (c *ChainFetcher) Name() string {
	return "chain"
}

// Fetch implements interfaces.ContentFetcher
func (c *ChainFetcher) Fetch(ctx context.Context, target string) (*domain.FetchedDocument, error) {
	var attempts []string
	var lastErr error

	for _, f := range c.fetchers {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		doc, err := f.Fetch(ctx, target)
		if err == nil {
			if c.logger != nil {
				c.logger.Debug("Fetched article markup", map[string]interface{}{
					"url":     target,
					"fetcher": f.Name(),
					"bytes":   len(doc.Markup),
				})
			}
			return doc, nil
		}

		lastErr = err
		var fetchErr *errors.FetchError
		if stderrors.As(err, &fetchErr) && len(fetchErr.Attempts) > 0 {
			attempts = append(attempts, fetchErr.Attempts...)
		} else {
			attempts = append(attempts, f.Name()+": "+err.Error())
		}
	}

	return nil, &errors.FetchError{URL: target, Attempts: attempts, Cause: lastErr}
}

// ABOUTME: Service layer loading articles through the fetcher chain and reader pipeline
// ABOUTME: Caches processed articles and degrades failures to a placeholder document

package reader

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"sync"
	"time"

	"github.com/google/uuid"

	"smart-reader-api/core/domain"
	"smart-reader-api/core/errors"
	"smart-reader-api/core/interfaces"
	"smart-reader-api/pkg/featureflags"
)

// PlaceholderMessage is shown in place of an article that could not be loaded
const PlaceholderMessage = "Error getting reader view or site requires subscription. Please open the link in a new tab."

const defaultCacheTTL = time.Hour

// Service loads articles for reading sessions and the batch reader endpoint
type Service struct {
	fetcher  interfaces.ContentFetcher
	browser  interfaces.ContentFetcher
	pipeline *Pipeline
	cache    interfaces.Cache
	logger   interfaces.Logger
	flags    featureflags.Manager
	cacheTTL time.Duration
}

// Option customizes a Service
type Option func(*Service)

// WithBrowserFallback re-fetches through f when extraction is too short and
// the browser_fallback flag is on
func WithBrowserFallback(f interfaces.ContentFetcher) Option {
	return func(s *Service) { s.browser = f }
}

// WithFlags sets the feature flag manager
func WithFlags(flags featureflags.Manager) Option {
	return func(s *Service) { s.flags = flags }
}

// WithCacheTTL overrides how long processed articles are cached
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) { s.cacheTTL = ttl }
}

// NewService creates a reader service
func NewService(deps interfaces.Dependencies, fetcher interfaces.ContentFetcher, pipeline *Pipeline, opts ...Option) *Service {
	s := &Service{
		fetcher:  fetcher,
		pipeline: pipeline,
		cache:    deps.Cache,
		logger:   deps.Logger,
		cacheTTL: defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches and processes the article at url. On fetch or extraction
// failure it returns a placeholder article together with the error so the
// caller can still mount something.
func (s *Service) Load(ctx context.Context, url string) (*domain.Article, error) {
	if _, err := parseBaseURL(url); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("reader:%s", url)
	if article, ok := s.fromCache(ctx, cacheKey); ok {
		s.logger.Debug("Reader cache hit", map[string]interface{}{"url": url})
		return article, nil
	}

	article, err := s.fetchAndProcess(ctx, s.fetcher, url)
	if errors.IsExtractionTooShort(err) && s.browser != nil && s.flagEnabled(ctx, featureflags.BrowserFallback) {
		s.logger.Info("Extraction too short, retrying with browser", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		article, err = s.fetchAndProcess(ctx, s.browser, url)
	}

	if err != nil {
		s.logger.Warn("Failed to load article", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return Placeholder(url, err), err
	}

	if s.cache != nil {
		if data, mErr := json.Marshal(article); mErr == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}
	return article, nil
}

func (s *Service) fetchAndProcess(ctx context.Context, fetcher interfaces.ContentFetcher, url string) (*domain.Article, error) {
	doc, err := fetcher.Fetch(ctx, url)
	if err != nil {
		if errors.IsFetch(err) {
			return nil, err
		}
		return nil, &errors.FetchError{URL: url, Attempts: []string{fetcher.Name()}, Cause: err}
	}
	return s.pipeline.Process(ctx, doc)
}

func (s *Service) fromCache(ctx context.Context, key string) (*domain.Article, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		return nil, false
	}
	var article domain.Article
	if err := json.Unmarshal(data, &article); err != nil {
		return nil, false
	}
	return &article, true
}

func (s *Service) flagEnabled(ctx context.Context, flag featureflags.FeatureFlag) bool {
	return s.flags == nil || s.flags.IsEnabled(ctx, flag)
}

// ExtractReaderViews loads multiple URLs concurrently and flattens each into a reader view
func (s *Service) ExtractReaderViews(ctx context.Context, urls []string) []domain.ReaderView {
	results := make([]domain.ReaderView, len(urls))
	var wg sync.WaitGroup

	for i, url := range urls {
		wg.Add(1)
		go func(index int, url string) {
			defer wg.Done()

			article, err := s.Load(ctx, url)
			if article == nil {
				results[index] = domain.ReaderView{URL: url, Status: domain.StatusError, Error: err.Error()}
				return
			}
			results[index] = domain.ReaderViewFromArticle(article)
		}(i, url)
	}

	wg.Wait()
	return results
}

// Placeholder builds the document shown when an article cannot be loaded
func Placeholder(url string, cause error) *domain.Article {
	snapshot := uuid.NewString()
	escaped := html.EscapeString(url)
	markup := `<!DOCTYPE html><html><head><meta charset="utf-8">` + styleBlock + `</head><body>` +
		`<div class="sr-placeholder"><p>` + html.EscapeString(PlaceholderMessage) + `</p>` +
		`<p><a href="` + escaped + `" target="_blank" rel="noopener noreferrer">` + escaped + `</a></p></div>` +
		`</body></html>`

	article := &domain.Article{
		URL:      url,
		Document: domain.RenderableDocument{SnapshotID: snapshot, SourceURL: url, Markup: markup},
		Text:     domain.ArticleText{SnapshotID: snapshot},
		Status:   domain.StatusError,
	}
	if cause != nil {
		article.Error = cause.Error()
	}
	return article
}

// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as caching, fetching, model calls and logging.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: In-memory cache backed by go-cache
// - cache/redis: Redis-based cache implementation
// - cache/sqlite: SQLite-backed cache for single-node deployments
// - fetch: Proxy, direct (colly) and headless browser (chromedp) fetchers plus a fallback chain
// - http/standard: Standard library HTTP client with retry logic
// - llm/gemini: Gemini-backed language model
// - logger/standard: Logrus structured logger
// - speech/google: Google Cloud text-to-speech backend
//
// # Cache Implementations
//
//	cache := memory.NewMemoryCacheWithExpiration(time.Hour, 10*time.Minute)
//	err := cache.Set(ctx, "key", []byte("value"), time.Hour)
//	value, err := cache.Get(ctx, "key")
//
// # Fetching
//
// Fetchers are tried in order until one returns a document:
//
//	chain := fetch.NewChainFetcher(logger,
//	    fetch.NewProxyFetcher(deps, fetch.DefaultProxyTemplates),
//	    fetch.NewDirectFetcher(20*time.Second),
//	)
//	doc, err := chain.Fetch(ctx, "https://example.com/post")
//
// # Logger
//
//	logger := standard.NewStandardLogger()
//	logger.Info("Article loaded", map[string]interface{}{
//	    "url":    url,
//	    "source": doc.Source,
//	})
//
package infrastructure

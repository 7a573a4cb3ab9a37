// Package core contains the business logic for the Smart Reader API.
// It is framework-agnostic and can be used independently of any web
// framework or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Pure domain models (Article, ReaderView, AnchorResult, Selection, etc.)
// - errors: Custom error types mapped to HTTP statuses by the api layer
// - interfaces: Contracts for external dependencies (cache, HTTP, logger, fetchers, models)
// - render: A small DOM for the rendered reader document (ranges, highlights, offsets)
// - reader: Fetch, sanitize, rewrite, style and extract pipeline
// - anchor: Locates a text query inside the rendered document
// - selection: Highlight tracking and restoration between anchors
// - session: Per-reader state machine tying the pieces together
// - assistant: Summaries, definitions, chat and image description
// - speech: Chunked text-to-speech with caching
// - services: Shared helpers such as image palette extraction
//
// # Design Principles
//
// - No external framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
//
// # Usage Example
//
//	import (
//	    "smart-reader-api/core/interfaces"
//	    "smart-reader-api/core/reader"
//	)
//
//	deps := interfaces.Dependencies{
//	    Cache:      myCache,      // implements interfaces.Cache
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	}
//
//	pipeline := reader.NewPipeline(reader.PipelineOptions{Logger: deps.Logger})
//	service := reader.NewService(deps, myFetcher, pipeline)
//
//	article, err := service.Load(ctx, "https://example.com/post")
//
package core

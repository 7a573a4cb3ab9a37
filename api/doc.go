// Package api provides the HTTP API layer for the smart reader.
// It uses the Huma framework to provide automatic OpenAPI documentation,
// request/response validation, and a clean handler interface.
//
// # Architecture
//
// The API package is structured as follows:
//
// - server.go: Huma API configuration and setup
// - handlers/: HTTP request handlers for sessions and batch reader views
// - dto/: Data Transfer Objects for requests and responses
// - middleware/: HTTP middleware for cross-cutting concerns
//
// # Sessions
//
// A client creates a session, loads an article into it and then drives the
// reading aids against the mounted document:
//
//	POST   /sessions                      create a session
//	POST   /sessions/{id}/article         load an article
//	GET    /sessions/{id}/document        embeddable markup (iframe or inline)
//	POST   /sessions/{id}/anchor          highlight a quoted passage
//	POST   /sessions/{id}/contextmenu     capture the selected word
//	POST   /sessions/{id}/define          define the captured word
//	POST   /sessions/{id}/summarize       summary with quotable key points
//	POST   /sessions/{id}/chat            ask about the article
//
// The OpenAPI spec is served at /openapi.json and the interactive docs at /docs.
//
// # Middleware
//
// - Request logging with request ids (X-Request-ID)
// - Per-IP rate limiting, switchable with the rate_limit_enabled flag
// - CORS handling
//
// # Error Handling
//
// Errors use the RFC 7807 format:
//
//	{
//	    "status": 409,
//	    "title": "Conflict",
//	    "detail": "session busy: chatting in progress, cannot start defining"
//	}
//
// Domain errors map to status codes in handlers/errors.go.
package api

package main

import (
	"context"
	"net/http"

	"smart-reader-api/core/errors"
)

// unconfiguredModel answers every call with 503 when no API key is set
type unconfiguredModel struct{}

func (unconfiguredModel) err() error {
	return &errors.ExternalAPIError{
		StatusCode: http.StatusServiceUnavailable,
		Message:    "language model is not configured",
		API:        "language model",
	}
}

func (m unconfiguredModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	return "", m.err()
}

func (m unconfiguredModel) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return "", m.err()
}

func (m unconfiguredModel) DescribeImage(ctx context.Context, prompt string, data []byte, mimeType string) (string, error) {
	return "", m.err()
}

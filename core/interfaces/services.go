// ABOUTME: Collaborator and service interfaces for the core business logic
// ABOUTME: Content fetching, language model, speech synthesis and reader contracts

package interfaces

import (
	"context"

	"smart-reader-api/core/domain"
)

// ContentFetcher retrieves raw markup for a URL
type ContentFetcher interface {
	// Name identifies the fetcher in logs and error reports
	Name() string

	// Fetch returns the raw markup for the URL or an error
	Fetch(ctx context.Context, url string) (*domain.FetchedDocument, error)
}

// LanguageModel is the generative-language API used by the assistant
type LanguageModel interface {
	// GenerateText returns free-form text for the prompt
	GenerateText(ctx context.Context, prompt string) (string, error)

	// GenerateJSON returns a JSON document for the prompt, without markdown fences
	GenerateJSON(ctx context.Context, prompt string) (string, error)

	// DescribeImage returns text for a prompt about the given image bytes
	DescribeImage(ctx context.Context, prompt string, data []byte, mimeType string) (string, error)
}

// SpeechSynthesizer turns text into encoded audio
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// ReaderService loads and processes articles
type ReaderService interface {
	Load(ctx context.Context, url string) (*domain.Article, error)
	ExtractReaderViews(ctx context.Context, urls []string) []domain.ReaderView
}

// AssistantService wraps the language-model collaborators
type AssistantService interface {
	SummarizeAndExtractKeyPoints(ctx context.Context, text string) (*domain.Summary, error)
	Define(ctx context.Context, word, context string) (*domain.Definition, error)
	Chat(ctx context.Context, history []domain.ChatMessage, message, articleText string) (string, error)
	DescribeImage(ctx context.Context, data []byte, mimeType, prompt string) (*domain.ImageAnalysis, error)
}

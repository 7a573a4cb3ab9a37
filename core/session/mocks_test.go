package session

import (
	"context"

	"smart-reader-api/core/domain"
)

// mockReader is a mock implementation of the ReaderService interface
type mockReader struct {
	loadFunc func(ctx context.Context, url string) (*domain.Article, error)
}

func (m *mockReader) Load(ctx context.Context, url string) (*domain.Article, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, url)
	}
	return nil, nil
}

func (m *mockReader) ExtractReaderViews(ctx context.Context, urls []string) []domain.ReaderView {
	return nil
}

// mockAssistant is a mock implementation of the AssistantService interface
type mockAssistant struct {
	summarizeFunc func(ctx context.Context, text string) (*domain.Summary, error)
	defineFunc    func(ctx context.Context, word, context string) (*domain.Definition, error)
	chatFunc      func(ctx context.Context, history []domain.ChatMessage, message, articleText string) (string, error)
	describeFunc  func(ctx context.Context, data []byte, mimeType, prompt string) (*domain.ImageAnalysis, error)
}

func (m *mockAssistant) SummarizeAndExtractKeyPoints(ctx context.Context, text string) (*domain.Summary, error) {
	if m.summarizeFunc != nil {
		return m.summarizeFunc(ctx, text)
	}
	return &domain.Summary{}, nil
}

func (m *mockAssistant) Define(ctx context.Context, word, context string) (*domain.Definition, error) {
	if m.defineFunc != nil {
		return m.defineFunc(ctx, word, context)
	}
	return &domain.Definition{Word: word}, nil
}

func (m *mockAssistant) Chat(ctx context.Context, history []domain.ChatMessage, message, articleText string) (string, error) {
	if m.chatFunc != nil {
		return m.chatFunc(ctx, history, message, articleText)
	}
	return "", nil
}

func (m *mockAssistant) DescribeImage(ctx context.Context, data []byte, mimeType, prompt string) (*domain.ImageAnalysis, error) {
	if m.describeFunc != nil {
		return m.describeFunc(ctx, data, mimeType, prompt)
	}
	return &domain.ImageAnalysis{}, nil
}

// mockSpeech is a mock implementation of the SpeechSynthesizer interface
type mockSpeech struct {
	synthesizeFunc func(ctx context.Context, text string) ([]byte, error)
}

func (m *mockSpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if m.synthesizeFunc != nil {
		return m.synthesizeFunc(ctx, text)
	}
	return nil, nil
}

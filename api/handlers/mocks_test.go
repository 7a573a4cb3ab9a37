package handlers

import (
	"context"

	"smart-reader-api/core/domain"
)

// mockReaderService is a mock implementation of the ReaderService interface
type mockReaderService struct {
	loadFunc  func(ctx context.Context, url string) (*domain.Article, error)
	viewsFunc func(ctx context.Context, urls []string) []domain.ReaderView
}

func (m *mockReaderService) Load(ctx context.Context, url string) (*domain.Article, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, url)
	}
	return skyArticle(url), nil
}

func (m *mockReaderService) ExtractReaderViews(ctx context.Context, urls []string) []domain.ReaderView {
	if m.viewsFunc != nil {
		return m.viewsFunc(ctx, urls)
	}
	return nil
}

// mockAssistantService is a mock implementation of the AssistantService interface
type mockAssistantService struct {
	defineFunc func(ctx context.Context, word, passage string) (*domain.Definition, error)
}

func (m *mockAssistantService) SummarizeAndExtractKeyPoints(ctx context.Context, text string) (*domain.Summary, error) {
	return &domain.Summary{
		Summary:   "The sky.",
		KeyPoints: []domain.KeyPoint{{Title: "Colour", Description: "Blue", QuoteAnchor: "The sky is blue"}},
	}, nil
}

func (m *mockAssistantService) Define(ctx context.Context, word, passage string) (*domain.Definition, error) {
	if m.defineFunc != nil {
		return m.defineFunc(ctx, word, passage)
	}
	return &domain.Definition{Word: word, Definitions: []domain.Sense{{PartOfSpeech: "adjective", Meaning: "lasting a short time"}}}, nil
}

func (m *mockAssistantService) Chat(ctx context.Context, history []domain.ChatMessage, message, articleText string) (string, error) {
	return "Blue, mostly.", nil
}

func (m *mockAssistantService) DescribeImage(ctx context.Context, data []byte, mimeType, prompt string) (*domain.ImageAnalysis, error) {
	return &domain.ImageAnalysis{Description: "A square.", Palette: []domain.RGBColor{{R: 1, G: 2, B: 3}}}, nil
}

// mockSpeech is a mock implementation of the SpeechSynthesizer interface
type mockSpeech struct {
	texts []string
}

func (m *mockSpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	m.texts = append(m.texts, text)
	return []byte("ID3audio"), nil
}

// ABOUTME: Assistant service wrapping the language model for reading aids
// ABOUTME: Summaries with quotable key points, definitions, article chat and image analysis

package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"smart-reader-api/core/domain"
	"smart-reader-api/core/errors"
	"smart-reader-api/core/interfaces"
)

// DefaultMaxArticleChars bounds the article text sent to the model
const DefaultMaxArticleChars = 30000

const defaultImagePrompt = "Describe this image in a few sentences."

// PaletteExtractor computes the dominant colors of an encoded image
type PaletteExtractor interface {
	Palette(ctx context.Context, data []byte) ([]domain.RGBColor, error)
}

// Service implements interfaces.AssistantService
type Service struct {
	model    interfaces.LanguageModel
	palette  PaletteExtractor
	logger   interfaces.Logger
	maxChars int
}

// Option configures a Service
type Option func(*Service)

// WithPalette enables palette extraction for image analysis
func WithPalette(p PaletteExtractor) Option {
	return func(s *Service) {
		s.palette = p
	}
}

// WithMaxArticleChars sets the article text budget
func WithMaxArticleChars(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxChars = n
		}
	}
}

// NewService creates an assistant backed by the given model
func NewService(deps interfaces.Dependencies, model interfaces.LanguageModel, opts ...Option) *Service {
	s := &Service{
		model:    model,
		logger:   deps.Logger,
		maxChars: DefaultMaxArticleChars,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SummarizeAndExtractKeyPoints asks for a summary and key points whose quote
// anchors are verbatim excerpts of the text.
func (s *Service) SummarizeAndExtractKeyPoints(ctx context.Context, text string) (*domain.Summary, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &errors.ValidationError{Field: "text", Message: "article text is empty"}
	}

	raw, err := s.model.GenerateJSON(ctx, summaryPrompt(s.truncate(text)))
	if err != nil {
		return nil, err
	}

	var summary domain.Summary
	if err := decodeJSON(raw, &summary); err != nil {
		return nil, err
	}

	points := summary.KeyPoints[:0]
	for _, kp := range summary.KeyPoints {
		kp.Title = strings.TrimSpace(kp.Title)
		kp.QuoteAnchor = strings.TrimSpace(kp.QuoteAnchor)
		if kp.Title == "" && kp.Description == "" {
			continue
		}
		points = append(points, kp)
	}
	summary.KeyPoints = points

	s.info("Generated summary", map[string]interface{}{
		"key_points": len(summary.KeyPoints),
		"text_chars": len([]rune(text)),
	})
	return &summary, nil
}

// Define looks up a word in the context it was selected from
func (s *Service) Define(ctx context.Context, word, passage string) (*domain.Definition, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, &errors.ValidationError{Field: "word", Message: "word is required"}
	}

	raw, err := s.model.GenerateJSON(ctx, definePrompt(word, strings.TrimSpace(passage)))
	if err != nil {
		return nil, err
	}

	var def domain.Definition
	if err := decodeJSON(raw, &def); err != nil {
		return nil, err
	}
	if def.Word == "" {
		def.Word = word
	}
	if def.Definitions == nil {
		def.Definitions = []domain.Sense{}
	}
	return &def, nil
}

// Chat answers a question about the article given the prior conversation
func (s *Service) Chat(ctx context.Context, history []domain.ChatMessage, message, articleText string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", &errors.ValidationError{Field: "message", Message: "message is required"}
	}

	reply, err := s.model.GenerateText(ctx, chatPrompt(history, message, s.truncate(articleText)))
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", &errors.ExternalAPIError{StatusCode: http.StatusBadGateway, Message: "empty reply", API: "language model"}
	}
	return reply, nil
}

// DescribeImage describes the image and, when configured, attaches its palette.
// Palette failures are logged and do not fail the analysis.
func (s *Service) DescribeImage(ctx context.Context, data []byte, mimeType, prompt string) (*domain.ImageAnalysis, error) {
	if len(data) == 0 {
		return nil, &errors.ValidationError{Field: "image", Message: "image data is required"}
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = defaultImagePrompt
	}

	description, err := s.model.DescribeImage(ctx, prompt, data, mimeType)
	if err != nil {
		return nil, err
	}

	analysis := &domain.ImageAnalysis{Description: strings.TrimSpace(description)}
	if s.palette != nil {
		colors, err := s.palette.Palette(ctx, data)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("Palette extraction failed", map[string]interface{}{
					"mime":  mimeType,
					"error": err.Error(),
				})
			}
		} else {
			analysis.Palette = colors
		}
	}
	return analysis, nil
}

// truncate cuts text to the character budget on a rune boundary
func (s *Service) truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= s.maxChars {
		return text
	}
	return string(runes[:s.maxChars])
}

func (s *Service) info(msg string, fields map[string]interface{}) {
	if s.logger != nil {
		s.logger.Info(msg, fields)
	}
}

func decodeJSON(raw string, v interface{}) error {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), v); err != nil {
		return &errors.ExternalAPIError{
			StatusCode: http.StatusBadGateway,
			Message:    fmt.Sprintf("invalid JSON from model: %v", err),
			API:        "language model",
		}
	}
	return nil
}

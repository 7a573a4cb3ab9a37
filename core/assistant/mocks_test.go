package assistant

import (
	"context"

	"smart-reader-api/core/domain"
)

type mockLanguageModel struct {
	GenerateTextFunc  func(ctx context.Context, prompt string) (string, error)
	GenerateJSONFunc  func(ctx context.Context, prompt string) (string, error)
	DescribeImageFunc func(ctx context.Context, prompt string, data []byte, mimeType string) (string, error)
	prompts           []string
}

func (m *mockLanguageModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.GenerateTextFunc != nil {
		return m.GenerateTextFunc(ctx, prompt)
	}
	return "", nil
}

func (m *mockLanguageModel) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt)
	}
	return "{}", nil
}

func (m *mockLanguageModel) DescribeImage(ctx context.Context, prompt string, data []byte, mimeType string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.DescribeImageFunc != nil {
		return m.DescribeImageFunc(ctx, prompt, data, mimeType)
	}
	return "", nil
}

type mockPalette struct {
	colors []domain.RGBColor
	err    error
}

func (m *mockPalette) Palette(ctx context.Context, data []byte) ([]domain.RGBColor, error) {
	return m.colors, m.err
}

type mockLogger struct {
	warnings []string
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{}) {
	m.warnings = append(m.warnings, msg)
}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}

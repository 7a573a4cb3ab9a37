// ABOUTME: Gemini implementation of the language model interface
// ABOUTME: Generates text, JSON and image descriptions through generative-ai-go

package gemini

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"smart-reader-api/core/errors"
)

// DefaultModel is used when no model name is configured
const DefaultModel = "gemini-1.5-flash"

const apiName = "gemini"

// Client implements interfaces.LanguageModel for Google Gemini
type Client struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewClient creates a Gemini client for the given model
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client:      client,
		model:       model,
		temperature: 0.3,
	}, nil
}

// GenerateText returns free-form text for the prompt
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(c.temperature)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", apiError(err)
	}
	return extractTextFromResponse(resp)
}

// GenerateJSON returns a JSON document for the prompt
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", apiError(err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// DescribeImage sends the image inline together with the prompt
func (c *Client) DescribeImage(ctx context.Context, prompt string, data []byte, mimeType string) (string, error) {
	format, err := imageFormat(mimeType)
	if err != nil {
		return "", err
	}

	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(c.temperature)

	resp, err := model.GenerateContent(ctx, genai.ImageData(format, data), genai.Text(prompt))
	if err != nil {
		return "", apiError(err)
	}
	return extractTextFromResponse(resp)
}

// Close releases resources held by the client
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// imageFormat turns "image/png" into the "png" format genai expects
func imageFormat(mimeType string) (string, error) {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	format, ok := strings.CutPrefix(mimeType, "image/")
	if !ok || format == "" {
		return "", &errors.ValidationError{Field: "mimeType", Message: fmt.Sprintf("unsupported image type %q", mimeType)}
	}
	if format == "jpg" {
		format = "jpeg"
	}
	return format, nil
}

// apiError maps a Gemini failure onto ExternalAPIError, keeping the HTTP status when known
func apiError(err error) error {
	status := http.StatusBadGateway
	var gerr *googleapi.Error
	if stderrors.As(err, &gerr) && gerr.Code != 0 {
		status = gerr.Code
	}
	return &errors.ExternalAPIError{
		StatusCode: status,
		Message:    err.Error(),
		API:        apiName,
	}
}

// extractTextFromResponse extracts text from a Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &errors.ExternalAPIError{StatusCode: http.StatusBadGateway, Message: "no candidates in response", API: apiName}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &errors.ExternalAPIError{StatusCode: http.StatusBadGateway, Message: "no content in response", API: apiName}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", &errors.ExternalAPIError{StatusCode: http.StatusBadGateway, Message: "no text parts in response", API: apiName}
	}
	return strings.Join(parts, ""), nil
}

// CleanJSONBlock removes markdown code fences around a JSON document
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```JSON")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// ABOUTME: Session handler for the Huma API
// ABOUTME: Exposes article loading, anchoring, selection and assistant actions per reading session

package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"smart-reader-api/api/dto/mappers"
	"smart-reader-api/api/dto/requests"
	"smart-reader-api/api/dto/responses"
	"smart-reader-api/core/domain"
	"smart-reader-api/core/errors"
	"smart-reader-api/core/session"
	"smart-reader-api/core/speech"
	"smart-reader-api/pkg/featureflags"
)

// MaxImageBytes bounds uploaded images
const MaxImageBytes = 10 * 1024 * 1024

// SessionHandler handles reading session requests
type SessionHandler struct {
	sessions *session.Manager
	flags    featureflags.Manager
}

// NewSessionHandler creates a new session handler. A nil flag manager enables every feature.
func NewSessionHandler(sessions *session.Manager, flags featureflags.Manager) *SessionHandler {
	return &SessionHandler{sessions: sessions, flags: flags}
}

// RegisterRoutes registers all session routes
func (h *SessionHandler) RegisterRoutes(api huma.API) {
	tags := []string{"Sessions"}

	huma.Register(api, huma.Operation{
		OperationID:   "createSession",
		Method:        http.MethodPost,
		Path:          "/sessions",
		Summary:       "Create a reading session",
		Tags:          tags,
		DefaultStatus: http.StatusCreated,
	}, h.CreateSession)

	huma.Register(api, huma.Operation{
		OperationID: "getSession",
		Method:      http.MethodGet,
		Path:        "/sessions/{id}",
		Summary:     "Get session state",
		Tags:        tags,
	}, h.GetSession)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteSession",
		Method:        http.MethodDelete,
		Path:          "/sessions/{id}",
		Summary:       "Delete a reading session",
		Tags:          tags,
		DefaultStatus: http.StatusNoContent,
	}, h.DeleteSession)

	huma.Register(api, huma.Operation{
		OperationID: "loadArticle",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/article",
		Summary:     "Load an article",
		Description: "Fetches, cleans and mounts the article. Pages that cannot be read mount a placeholder and report status error.",
		Tags:        tags,
	}, h.LoadArticle)

	huma.Register(api, huma.Operation{
		OperationID: "getDocument",
		Method:      http.MethodGet,
		Path:        "/sessions/{id}/document",
		Summary:     "Get the mounted document markup",
		Tags:        tags,
	}, h.GetDocument)

	huma.Register(api, huma.Operation{
		OperationID: "getText",
		Method:      http.MethodGet,
		Path:        "/sessions/{id}/text",
		Summary:     "Get the extracted article text",
		Tags:        tags,
	}, h.GetText)

	huma.Register(api, huma.Operation{
		OperationID: "locateAnchor",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/anchor",
		Summary:     "Highlight a quoted passage",
		Tags:        tags,
	}, h.LocateAnchor)

	huma.Register(api, huma.Operation{
		OperationID: "contextMenu",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/contextmenu",
		Summary:     "Report a context-menu event",
		Tags:        tags,
	}, h.ContextMenu)

	huma.Register(api, huma.Operation{
		OperationID:   "dismissSelection",
		Method:        http.MethodDelete,
		Path:          "/sessions/{id}/selection",
		Summary:       "Dismiss the current selection",
		Tags:          tags,
		DefaultStatus: http.StatusNoContent,
	}, h.DismissSelection)

	huma.Register(api, huma.Operation{
		OperationID: "defineSelection",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/define",
		Summary:     "Define the selected word",
		Tags:        []string{"Assistant"},
	}, h.Define)

	huma.Register(api, huma.Operation{
		OperationID: "summarize",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/summarize",
		Summary:     "Summarize the article with quotable key points",
		Tags:        []string{"Assistant"},
	}, h.Summarize)

	huma.Register(api, huma.Operation{
		OperationID: "chat",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/chat",
		Summary:     "Ask about the article",
		Tags:        []string{"Assistant"},
	}, h.Chat)

	huma.Register(api, huma.Operation{
		OperationID: "chatHistory",
		Method:      http.MethodGet,
		Path:        "/sessions/{id}/chat",
		Summary:     "Get the conversation",
		Tags:        []string{"Assistant"},
	}, h.ChatHistory)

	huma.Register(api, huma.Operation{
		OperationID: "analyzeImage",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/image",
		Summary:     "Describe an image and its palette",
		Tags:        []string{"Assistant"},
	}, h.AnalyzeImage)

	huma.Register(api, huma.Operation{
		OperationID: "readAloud",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/speech",
		Summary:     "Synthesize read-aloud audio",
		Tags:        []string{"Assistant"},
	}, h.ReadAloud)
}

// SessionPath identifies a session
type SessionPath struct {
	ID string `path:"id" doc:"Session id"`
}

// SessionOutput wraps a session response
type SessionOutput struct {
	Body responses.SessionResponse
}

// CreateSession starts a new idle session
func (h *SessionHandler) CreateSession(ctx context.Context, input *struct{}) (*SessionOutput, error) {
	s := h.sessions.Create()
	return &SessionOutput{Body: mappers.SessionToResponse(s.State())}, nil
}

// GetSession returns the session state
func (h *SessionHandler) GetSession(ctx context.Context, input *SessionPath) (*SessionOutput, error) {
	s, err := h.sessions.Get(input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &SessionOutput{Body: mappers.SessionToResponse(s.State())}, nil
}

// DeleteSession removes a session
func (h *SessionHandler) DeleteSession(ctx context.Context, input *SessionPath) (*struct{}, error) {
	if _, err := h.sessions.Get(input.ID); err != nil {
		return nil, toHumaError(err)
	}
	h.sessions.Delete(input.ID)
	return nil, nil
}

// LoadArticleInput is the input for LoadArticle
type LoadArticleInput struct {
	SessionPath
	Body requests.LoadArticleRequest
}

// ArticleOutput wraps an article response
type ArticleOutput struct {
	Body responses.ArticleResponse
}

// LoadArticle loads an article into the session
func (h *SessionHandler) LoadArticle(ctx context.Context, input *LoadArticleInput) (*ArticleOutput, error) {
	s, err := h.sessions.Get(input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	article, generation, err := s.LoadArticle(ctx, input.Body.URL)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &ArticleOutput{Body: mappers.ArticleToResponse(article, generation)}, nil
}

// DocumentOutput carries the embeddable markup
type DocumentOutput struct {
	ContentType string `header:"Content-Type"`
	Generation  string `header:"X-Document-Generation"`
	Body        []byte
}

// GetDocument returns the mounted document as HTML
func (h *SessionHandler) GetDocument(ctx context.Context, input *SessionPath) (*DocumentOutput, error) {
	s, err := h.sessions.Get(input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	markup, generation, err := s.Document()
	if err != nil {
		return nil, toHumaError(err)
	}
	return &DocumentOutput{
		ContentType: "text/html; charset=utf-8",
		Generation:  strconv.FormatUint(generation, 10),
		Body:        []byte(markup),
	}, nil
}

// TextOutput wraps the article text
type TextOutput struct {
	Body responses.TextResponse
}

// GetText returns the extracted article text
func (h *SessionHandler) GetText(ctx context.Context, input *SessionPath) (*TextOutput, error) {
	s, err := h.sessions.Get(input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	text, err := s.Text()
	if err != nil {
		return nil, toHumaError(err)
	}
	return &TextOutput{Body: responses.TextResponse{SnapshotID: text.SnapshotID, Text: text.Text}}, nil
}

// AnchorInput is the input for LocateAnchor
type AnchorInput struct {
	SessionPath
	Body requests.AnchorRequest
}

// AnchorOutput wraps an anchor response
type AnchorOutput struct {
	Body responses.AnchorResponse
}

// LocateAnchor highlights the quoted passage
func (h *SessionHandler) LocateAnchor(ctx context.Context, input *AnchorInput) (*AnchorOutput, error) {
	s, err := h.sessions.Get(input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	result, err := s.LocateAnchor(ctx, input.Body.Query)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &AnchorOutput{Body: mappers.AnchorToResponse(result)}, nil
}

// ContextMenuInput is the input for ContextMenu
type ContextMenuInput struct {
	SessionPath
	Body requests.ContextMenuRequest
}

// ContextMenuOutput wraps a context-menu response
type ContextMenuOutput struct {
	Body responses.ContextMenuResponse
}

// ContextMenu selects the reported text and captures it for lookup
func (h *SessionHandler) ContextMenu(ctx context.Context, input *ContextMenuInput) (*ContextMenuOutput, error) {
	s, err := h.sessions.Get(input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	result, err := s.ContextMenu(ctx, input.Body.Text, input.Body.X, input.Body.Y)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &ContextMenuOutput{Body: mappers.ContextMenuToResponse(result, input.Body.X, input.Body.Y)}, nil
}

// DismissSelection clears the selection and pending lookup
func (h *SessionHandler) DismissSelection(ctx context.Context, input *SessionPath) (*struct{}, error) {
	s, err := h.sessions.Get(input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	s.DismissSelection()
	return nil, nil
}

// DefineOutput wraps a definition response
type DefineOutput struct {
	Body responses.DefineResponse
}

// Define looks up the selected word
func (h *SessionHandler) Define(ctx context.Context, input *SessionPath) (*DefineOutput, error) {
	s, err := h.sessions.Get(input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	def, sel, err := s.DefineSelection(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &DefineOutput{Body: responses.DefineResponse{Definition: def, Selection: sel}}, nil
}

// SummaryOutput wraps a summary
type SummaryOutput struct {
	Body *domain.Summary
}

// Summarize summarizes the loaded article
func (h *SessionHandler) Summarize(ctx context.Context, input *SessionPath) (*SummaryOutput, error) {
	s, err := h.sessions.Get(input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	summary, err := s.Summarize(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &SummaryOutput{Body: summary}, nil
}

// ChatInput is the input for Chat
type ChatInput struct {
	SessionPath
	Body requests.ChatRequest
}

// ChatOutput wraps a chat response
type ChatOutput struct {
	Body responses.ChatResponse
}

// Chat sends a message about the article
func (h *SessionHandler) Chat(ctx context.Context, input *ChatInput) (*ChatOutput, error) {
	s, err := h.sessions.Get(input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	reply, history, err := s.Chat(ctx, input.Body.Message)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &ChatOutput{Body: responses.ChatResponse{Reply: reply, History: history}}, nil
}

// ChatHistory returns the conversation so far
func (h *SessionHandler) ChatHistory(ctx context.Context, input *SessionPath) (*ChatOutput, error) {
	s, err := h.sessions.Get(input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	history := s.History()
	if history == nil {
		history = []domain.ChatMessage{}
	}
	return &ChatOutput{Body: responses.ChatResponse{History: history}}, nil
}

// ImageInput is the input for AnalyzeImage
type ImageInput struct {
	SessionPath
	Body requests.ImageRequest
}

// ImageOutput wraps an image analysis
type ImageOutput struct {
	Body *domain.ImageAnalysis
}

// AnalyzeImage describes an uploaded image
func (h *SessionHandler) AnalyzeImage(ctx context.Context, input *ImageInput) (*ImageOutput, error) {
	if len(input.Body.Data) > MaxImageBytes {
		return nil, toHumaError(&errors.ValidationError{Field: "data", Message: "image is larger than 10MB"})
	}
	s, err := h.sessions.Get(input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	analysis, err := s.AnalyzeImage(ctx, input.Body.Data, input.Body.MimeType, input.Body.Prompt)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &ImageOutput{Body: analysis}, nil
}

// SpeechInput is the input for ReadAloud
type SpeechInput struct {
	SessionPath
	Body requests.SpeechRequest
}

// AudioOutput carries synthesized audio
type AudioOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// ReadAloud synthesizes the given text, or the summary when none is given
func (h *SessionHandler) ReadAloud(ctx context.Context, input *SpeechInput) (*AudioOutput, error) {
	if h.flags != nil && !h.flags.IsEnabled(ctx, featureflags.SpeechEnabled) {
		return nil, toHumaError(&errors.NotFoundError{Resource: "feature", ID: string(featureflags.SpeechEnabled)})
	}
	s, err := h.sessions.Get(input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	audio, err := s.ReadAloud(ctx, input.Body.Text)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &AudioOutput{ContentType: speech.ContentType, Body: audio}, nil
}

// ABOUTME: Reading session owning the mounted document, busy state and conversation
// ABOUTME: Coordinates loading, anchoring, selection lookup, chat, image and speech actions

package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"smart-reader-api/core/anchor"
	"smart-reader-api/core/domain"
	"smart-reader-api/core/errors"
	"smart-reader-api/core/interfaces"
	"smart-reader-api/core/render"
	"smart-reader-api/core/selection"
)

// Options configures new sessions
type Options struct {
	RenderMode        render.Mode
	HighlightDuration time.Duration
	ContextLimit      int
	// AfterFunc replaces time.AfterFunc for highlight removal
	AfterFunc anchor.AfterFunc
}

// Services are the collaborators a session calls out to
type Services struct {
	Reader    interfaces.ReaderService
	Assistant interfaces.AssistantService
	Speech    interfaces.SpeechSynthesizer
	Logger    interfaces.Logger
}

// State is a snapshot of a session for clients
type State struct {
	ID         string           `json:"id"`
	Busy       domain.BusyState `json:"busy"`
	Speaking   bool             `json:"speaking"`
	Generation uint64           `json:"generation"`
	URL        string           `json:"url,omitempty"`
	Messages   int              `json:"messages"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// ContextMenuResult is the outcome of a context-menu event
type ContextMenuResult struct {
	Suppressed bool                     `json:"suppressed"`
	Selection  *domain.SelectionContext `json:"selection,omitempty"`
}

// Session is one reader's view of one article at a time
type Session struct {
	id        string
	createdAt time.Time
	renderer  *render.Renderer
	locator   *anchor.Locator
	capturer  *selection.Capturer
	services  Services

	mu       sync.Mutex
	busy     domain.BusyState
	speaking bool
	article  *domain.Article
	loadErr  error
	summary  *domain.Summary
	history  []domain.ChatMessage
}

// New creates an idle session with nothing mounted
func New(id string, opts Options, services Services) *Session {
	r := render.NewRenderer(opts.RenderMode)
	capturer := selection.NewCapturer(opts.ContextLimit)
	capturer.Attach(r)

	return &Session{
		id:        id,
		createdAt: time.Now(),
		renderer:  r,
		capturer:  capturer,
		locator: anchor.NewLocator(r, anchor.Options{
			Duration:  opts.HighlightDuration,
			AfterFunc: opts.AfterFunc,
			Logger:    services.Logger,
		}),
		services: services,
		busy:     domain.StateIdle,
	}
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// State returns a snapshot of the session
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		ID:         s.id,
		Busy:       s.busy,
		Speaking:   s.speaking,
		Generation: s.renderer.Generation(),
		Messages:   len(s.history),
		CreatedAt:  s.createdAt,
	}
	if s.article != nil {
		st.URL = s.article.URL
	}
	return st
}

// begin moves the session out of Idle. Only one action runs at a time.
func (s *Session) begin(state domain.BusyState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy != domain.StateIdle {
		return &errors.BusyError{Current: s.busy.String(), Requested: state.String()}
	}
	s.busy = state
	return nil
}

func (s *Session) end() {
	s.mu.Lock()
	s.busy = domain.StateIdle
	s.mu.Unlock()
}

// LoadArticle fetches, processes and mounts the article at url. Fetch and
// extraction failures mount a placeholder and are reported on the returned
// article rather than as an error.
func (s *Session) LoadArticle(ctx context.Context, url string) (*domain.Article, uint64, error) {
	if err := s.begin(domain.StateLoadingArticle); err != nil {
		return nil, 0, err
	}
	defer s.end()

	article, loadErr := s.services.Reader.Load(ctx, url)
	if article == nil {
		return nil, 0, loadErr
	}

	mount, err := s.renderer.Mount(article.Document)
	if err != nil {
		return nil, 0, err
	}
	s.capturer.Clear()

	s.mu.Lock()
	s.article = article
	s.loadErr = loadErr
	s.summary = nil
	s.history = nil
	s.mu.Unlock()

	s.log("Article mounted", map[string]interface{}{
		"session_id": s.id,
		"url":        url,
		"status":     article.Status,
		"generation": mount.Generation(),
	})
	return article, mount.Generation(), nil
}

// Document returns the embeddable markup of the mounted document
func (s *Session) Document() (string, uint64, error) {
	m := s.renderer.Current()
	if m == nil {
		return "", 0, &errors.NotFoundError{Resource: "document", ID: s.id}
	}
	markup, err := m.Embed()
	return markup, m.Generation(), err
}

// Text returns the article text of the loaded article
func (s *Session) Text() (domain.ArticleText, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.textLocked()
}

func (s *Session) textLocked() (domain.ArticleText, error) {
	if s.article == nil {
		return domain.ArticleText{}, &errors.NotFoundError{Resource: "article", ID: s.id}
	}
	if s.article.Status != domain.StatusOK {
		if s.loadErr != nil {
			return domain.ArticleText{}, s.loadErr
		}
		return domain.ArticleText{}, &errors.NotFoundError{Resource: "article text", ID: s.id}
	}
	return s.article.Text, nil
}

// LocateAnchor highlights a quoted passage in the mounted document
func (s *Session) LocateAnchor(ctx context.Context, query string) (*domain.AnchorResult, error) {
	return s.locator.Locate(ctx, query)
}

// ContextMenu selects text in the mounted document and raises a context-menu
// event at the pointer position. An empty text means no selection.
func (s *Session) ContextMenu(ctx context.Context, text string, x, y float64) (*ContextMenuResult, error) {
	m := s.renderer.Current()
	if m == nil {
		return nil, &errors.NotFoundError{Resource: "document", ID: s.id}
	}

	err := m.Edit(func(tx *render.Tx) error {
		tx.ClearSelection()
		if strings.TrimSpace(text) == "" {
			return nil
		}
		if r, ok := render.Find(tx.Body(), text); ok {
			tx.Select(r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ev := &render.Event{Type: render.EventContextMenu, X: x, Y: y}
	if err := m.Dispatch(ev); err != nil {
		return nil, err
	}
	return &ContextMenuResult{
		Suppressed: ev.DefaultPrevented(),
		Selection:  s.capturer.Pending(),
	}, nil
}

// DismissSelection handles a click outside the action menu
func (s *Session) DismissSelection() {
	if m := s.renderer.Current(); m != nil {
		_ = m.Edit(func(tx *render.Tx) error {
			tx.ClearSelection()
			return nil
		})
		_ = m.Dispatch(&render.Event{Type: render.EventClick})
	}
	s.capturer.Clear()
}

// DefineSelection looks up the captured word, consuming the selection
func (s *Session) DefineSelection(ctx context.Context) (*domain.Definition, *domain.SelectionContext, error) {
	if err := s.begin(domain.StateDefining); err != nil {
		return nil, nil, err
	}
	defer s.end()

	sel := s.capturer.Take()
	if sel == nil {
		return nil, nil, &errors.ValidationError{Field: "selection", Message: "no text selected"}
	}
	def, err := s.services.Assistant.Define(ctx, sel.Word, sel.Context)
	if err != nil {
		return nil, sel, err
	}
	return def, sel, nil
}

// Summarize asks the assistant for a summary and quotable key points.
// It runs in the loading class since it completes the article analysis.
func (s *Session) Summarize(ctx context.Context) (*domain.Summary, error) {
	text, err := s.Text()
	if err != nil {
		return nil, err
	}
	if err := s.begin(domain.StateLoadingArticle); err != nil {
		return nil, err
	}
	defer s.end()

	summary, err := s.services.Assistant.SummarizeAndExtractKeyPoints(ctx, text.Text)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.article != nil && s.article.Text.SnapshotID == text.SnapshotID {
		s.summary = summary
	}
	s.mu.Unlock()
	return summary, nil
}

// Chat sends a message about the article and records both turns
func (s *Session) Chat(ctx context.Context, message string) (string, []domain.ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", nil, &errors.ValidationError{Field: "message", Message: "cannot be empty"}
	}
	text, err := s.Text()
	if err != nil {
		return "", nil, err
	}
	if err := s.begin(domain.StateChatting); err != nil {
		return "", nil, err
	}
	defer s.end()

	s.mu.Lock()
	history := append([]domain.ChatMessage(nil), s.history...)
	s.mu.Unlock()

	reply, err := s.services.Assistant.Chat(ctx, history, message, text.Text)
	if err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	if s.article != nil && s.article.Text.SnapshotID == text.SnapshotID {
		s.history = append(s.history,
			domain.ChatMessage{Role: domain.RoleUser, Content: message},
			domain.ChatMessage{Role: domain.RoleAssistant, Content: reply},
		)
	}
	history = append([]domain.ChatMessage(nil), s.history...)
	s.mu.Unlock()
	return reply, history, nil
}

// History returns the chat turns for the current article
func (s *Session) History() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ChatMessage(nil), s.history...)
}

// AnalyzeImage describes an uploaded image
func (s *Session) AnalyzeImage(ctx context.Context, data []byte, mimeType, prompt string) (*domain.ImageAnalysis, error) {
	if len(data) == 0 {
		return nil, &errors.ValidationError{Field: "image", Message: "cannot be empty"}
	}
	if err := s.begin(domain.StateAnalyzingImage); err != nil {
		return nil, err
	}
	defer s.end()

	return s.services.Assistant.DescribeImage(ctx, data, mimeType, prompt)
}

// ReadAloud synthesizes speech for text, or for the summary when text is
// empty. Speaking is tracked separately from the busy state.
func (s *Session) ReadAloud(ctx context.Context, text string) ([]byte, error) {
	if s.services.Speech == nil {
		return nil, &errors.NotFoundError{Resource: "speech", ID: "synthesizer"}
	}

	s.mu.Lock()
	if strings.TrimSpace(text) == "" && s.summary != nil {
		text = s.summary.Summary
	}
	if strings.TrimSpace(text) == "" {
		s.mu.Unlock()
		return nil, &errors.ValidationError{Field: "text", Message: "nothing to read"}
	}
	if s.speaking {
		s.mu.Unlock()
		return nil, &errors.BusyError{Current: "speaking", Requested: "speaking"}
	}
	s.speaking = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.speaking = false
		s.mu.Unlock()
	}()

	return s.services.Speech.Synthesize(ctx, text)
}

func (s *Session) log(msg string, fields map[string]interface{}) {
	if s.services.Logger != nil {
		s.services.Logger.Info(msg, fields)
	}
}

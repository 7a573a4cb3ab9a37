// ABOUTME: Response DTOs for reading session endpoints
// ABOUTME: Shapes article, anchor, selection and assistant results for clients

package responses

import "smart-reader-api/core/domain"

// SessionResponse describes a session
type SessionResponse struct {
	ID         string           `json:"id"`
	Busy       domain.BusyState `json:"busy"`
	Speaking   bool             `json:"speaking"`
	Generation uint64           `json:"generation"`
	URL        string           `json:"url,omitempty"`
	Messages   int              `json:"messages"`
}

// ArticleResponse reports the outcome of loading an article
type ArticleResponse struct {
	Generation uint64          `json:"generation"`
	URL        string          `json:"url"`
	Title      string          `json:"title"`
	Metadata   domain.Metadata `json:"metadata"`
	TextLength int             `json:"textLength"`
	Markdown   string          `json:"markdown,omitempty"`
	Status     string          `json:"status"`
	Error      string          `json:"error,omitempty"`
}

// TextResponse carries the extracted article text
type TextResponse struct {
	SnapshotID string `json:"snapshotId"`
	Text       string `json:"text"`
}

// AnchorResponse reports a highlighted passage
type AnchorResponse struct {
	Found       bool                 `json:"found"`
	Strategy    string               `json:"strategy"`
	HighlightID string               `json:"highlightId,omitempty"`
	Managed     bool                 `json:"managed"`
	Scroll      *domain.ScrollTarget `json:"scroll,omitempty"`
	Generation  uint64               `json:"generation"`
}

// ContextMenuResponse reports whether the native menu was suppressed
type ContextMenuResponse struct {
	Suppressed bool    `json:"suppressed"`
	Word       string  `json:"word,omitempty"`
	Context    string  `json:"context,omitempty"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Generation uint64  `json:"generation,omitempty"`
}

// DefineResponse carries a definition and the selection it was made for
type DefineResponse struct {
	Definition *domain.Definition       `json:"definition"`
	Selection  *domain.SelectionContext `json:"selection"`
}

// ChatResponse carries the assistant reply and the full conversation
type ChatResponse struct {
	Reply   string               `json:"reply"`
	History []domain.ChatMessage `json:"history"`
}

// ABOUTME: Request DTOs for reading session endpoints
// ABOUTME: Article loading, anchoring, selection, chat, image and speech inputs

package requests

// LoadArticleRequest loads an article into a session
type LoadArticleRequest struct {
	URL string `json:"url" required:"true" format:"uri" example:"https://example.com/article" doc:"Article URL to load"`
}

// AnchorRequest asks for a quoted passage to be highlighted
type AnchorRequest struct {
	Query string `json:"query" required:"true" minLength:"1" maxLength:"2000" doc:"Verbatim passage to find in the article"`
}

// ContextMenuRequest reports a context-menu event over selected text
type ContextMenuRequest struct {
	Text string  `json:"text" doc:"Selected text; empty when nothing is selected"`
	X    float64 `json:"x" doc:"Pointer x position"`
	Y    float64 `json:"y" doc:"Pointer y position"`
}

// ChatRequest sends a message about the loaded article
type ChatRequest struct {
	Message string `json:"message" required:"true" minLength:"1" maxLength:"4000" doc:"User message"`
}

// ImageRequest uploads an image for analysis
type ImageRequest struct {
	Data     []byte `json:"data" required:"true" doc:"Base64-encoded image bytes"`
	MimeType string `json:"mimeType" required:"true" example:"image/png" doc:"Image MIME type"`
	Prompt   string `json:"prompt,omitempty" doc:"Optional question about the image"`
}

// SpeechRequest asks for read-aloud audio
type SpeechRequest struct {
	Text string `json:"text,omitempty" maxLength:"20000" doc:"Text to read; the article summary is used when empty"`
}

// ABOUTME: Domain models exchanged with the language-model collaborators
// ABOUTME: Summaries, key points, definitions, chat turns and image analyses

package domain

// KeyPoint is one takeaway of an article with a verbatim quote used to find it
type KeyPoint struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	QuoteAnchor string `json:"quoteAnchor"`
}

// Summary is the summarization result for an article
type Summary struct {
	Summary   string     `json:"summary"`
	KeyPoints []KeyPoint `json:"keyPoints"`
}

// Sense is a single meaning of a defined word
type Sense struct {
	PartOfSpeech string `json:"partOfSpeech"`
	Meaning      string `json:"meaning"`
	Example      string `json:"example,omitempty"`
}

// Definition is the lookup result for a selected word
type Definition struct {
	Word        string  `json:"word"`
	Phonetic    string  `json:"phonetic,omitempty"`
	Definitions []Sense `json:"definitions"`
}

// Chat roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of the article conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RGBColor represents an RGB color value
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// ImageAnalysis is the description of an uploaded image
type ImageAnalysis struct {
	Description string     `json:"description"`
	Palette     []RGBColor `json:"palette,omitempty"`
}

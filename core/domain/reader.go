// ABOUTME: Domain models for fetched, processed and rendered articles
// ABOUTME: Defines the documents that flow through the reader pipeline

package domain

import "time"

// Article status values
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// FetchedDocument is the raw markup retrieved for a URL
type FetchedDocument struct {
	URL       string    `json:"url"`
	Markup    string    `json:"-"`
	Source    string    `json:"source"` // fetcher that produced the markup
	FetchedAt time.Time `json:"fetchedAt"`
}

// RenderableDocument is the sanitized, URL-absolute, style-augmented
// serialization of one parsed snapshot.
type RenderableDocument struct {
	SnapshotID string `json:"snapshotId"`
	SourceURL  string `json:"sourceUrl"`
	Markup     string `json:"markup"`
}

// ArticleText is the normalized plain text of the primary content region
type ArticleText struct {
	SnapshotID string `json:"snapshotId"`
	Text       string `json:"text"`
}

// Len returns the length of the text in bytes
func (t ArticleText) Len() int {
	return len(t.Text)
}

// Metadata describes the article as reported by the page itself
type Metadata struct {
	Title    string `json:"title"`
	Byline   string `json:"byline,omitempty"`
	SiteName string `json:"siteName,omitempty"`
	Excerpt  string `json:"excerpt,omitempty"`
	Image    string `json:"image,omitempty"`
	Favicon  string `json:"favicon,omitempty"`
}

// Article is the result of running one fetched document through the pipeline.
// Document and Text always carry the same SnapshotID.
type Article struct {
	URL      string             `json:"url"`
	Metadata Metadata           `json:"metadata"`
	Document RenderableDocument `json:"document"`
	Text     ArticleText        `json:"text"`
	Markdown string             `json:"markdown,omitempty"`
	Status   string             `json:"status"`
	Error    string             `json:"error,omitempty"`
}

// ReaderView represents extracted article content from a webpage
type ReaderView struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Content     string `json:"content"`     // HTML content
	Markdown    string `json:"markdown"`    // Markdown content
	TextContent string `json:"textContent"` // Plain text content
	SiteName    string `json:"siteName"`
	Image       string `json:"image"`
	Favicon     string `json:"favicon"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
}

// ReaderViewFromArticle flattens an article into the batch reader view shape
func ReaderViewFromArticle(a *Article) ReaderView {
	return ReaderView{
		URL:         a.URL,
		Title:       a.Metadata.Title,
		Content:     a.Document.Markup,
		Markdown:    a.Markdown,
		TextContent: a.Text.Text,
		SiteName:    a.Metadata.SiteName,
		Image:       a.Metadata.Image,
		Favicon:     a.Metadata.Favicon,
		Status:      a.Status,
		Error:       a.Error,
	}
}

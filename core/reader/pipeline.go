// ABOUTME: Reader pipeline turning one fetched document into renderable markup and article text
// ABOUTME: Both outputs come from a single parse and carry the same snapshot id

package reader

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"smart-reader-api/core/domain"
	"smart-reader-api/core/errors"
	"smart-reader-api/core/interfaces"
	"smart-reader-api/core/render"
	"smart-reader-api/pkg/featureflags"
	htmlutil "smart-reader-api/pkg/utils/html"
)

// PipelineOptions configures a Pipeline
type PipelineOptions struct {
	Extract  ExtractOptions
	Sanitize SanitizeLevel
	Flags    featureflags.Manager
	Logger   interfaces.Logger
}

// Pipeline runs the sanitize, rewrite, style and extract stages
type Pipeline struct {
	extract  ExtractOptions
	sanitize SanitizeLevel
	flags    featureflags.Manager
	logger   interfaces.Logger
	newID    func() string
}

// NewPipeline creates a pipeline. A nil flag manager enables every optional stage.
func NewPipeline(opts PipelineOptions) *Pipeline {
	if opts.Extract.Mode == "" {
		opts.Extract.Mode = ExtractBlocks
	}
	return &Pipeline{
		extract:  opts.Extract,
		sanitize: opts.Sanitize,
		flags:    opts.Flags,
		logger:   opts.Logger,
		newID:    uuid.NewString,
	}
}

// Process parses doc once and derives the renderable document, the article
// text, metadata and the optional markdown view from that snapshot.
func (p *Pipeline) Process(ctx context.Context, doc *domain.FetchedDocument) (*domain.Article, error) {
	base, err := parseBaseURL(doc.URL)
	if err != nil {
		return nil, err
	}

	root, err := render.Parse(strings.NewReader(doc.Markup))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", doc.URL, err)
	}
	snapshot := p.newID()

	Sanitize(root, p.sanitize)
	textRoot := render.Clone(root)

	text, err := ExtractText(textRoot, p.extract)
	if err != nil {
		var short *errors.ExtractionTooShortError
		if stderrors.As(err, &short) {
			short.URL = doc.URL
		}
		return nil, err
	}

	RewriteURLs(root, base)
	InjectStyles(root)
	markup, err := render.Serialize(root)
	if err != nil {
		return nil, fmt.Errorf("serialize %s: %w", doc.URL, err)
	}

	article := &domain.Article{
		URL:      doc.URL,
		Metadata: p.metadata(ctx, doc, base, root),
		Document: domain.RenderableDocument{SnapshotID: snapshot, SourceURL: doc.URL, Markup: markup},
		Text:     domain.ArticleText{SnapshotID: snapshot, Text: text},
		Status:   domain.StatusOK,
	}

	if p.enabled(ctx, featureflags.MarkdownView) {
		article.Markdown = p.markdown(doc.URL, article.Metadata, root)
	}

	p.debug("Processed article", map[string]interface{}{
		"url":         doc.URL,
		"snapshot_id": snapshot,
		"text_length": len(text),
		"source":      doc.Source,
	})
	return article, nil
}

func (p *Pipeline) metadata(ctx context.Context, doc *domain.FetchedDocument, base *url.URL, root *html.Node) domain.Metadata {
	meta := domain.Metadata{Title: documentTitle(root)}
	if !p.enabled(ctx, featureflags.ReadabilityMetadata) {
		return meta
	}

	parsed, err := readability.FromReader(strings.NewReader(doc.Markup), base)
	if err != nil {
		p.debug("Readability metadata unavailable", map[string]interface{}{
			"url":   doc.URL,
			"error": err.Error(),
		})
		return meta
	}

	if title := htmlutil.StripHTML(parsed.Title); title != "" {
		meta.Title = title
	}
	meta.Byline = htmlutil.StripHTML(parsed.Byline)
	meta.SiteName = htmlutil.StripHTML(parsed.SiteName)
	meta.Excerpt = htmlutil.StripHTML(parsed.Excerpt)
	meta.Image = parsed.Image
	meta.Favicon = parsed.Favicon
	return meta
}

func (p *Pipeline) enabled(ctx context.Context, flag featureflags.FeatureFlag) bool {
	return p.flags == nil || p.flags.IsEnabled(ctx, flag)
}

func (p *Pipeline) debug(msg string, fields map[string]interface{}) {
	if p.logger != nil {
		p.logger.Debug(msg, fields)
	}
}

func parseBaseURL(raw string) (*url.URL, error) {
	base, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !base.IsAbs() || base.Host == "" {
		return nil, &errors.ValidationError{Field: "url", Message: "must be an absolute http(s) URL"}
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, &errors.ValidationError{Field: "url", Message: "scheme must be http or https"}
	}
	return base, nil
}

func documentTitle(root *html.Node) string {
	if title := render.FindElement(root, atom.Title); title != nil {
		return strings.TrimSpace(render.TextContent(title))
	}
	if h1 := render.FindElement(root, atom.H1); h1 != nil {
		return render.VisibleText(h1)
	}
	return ""
}

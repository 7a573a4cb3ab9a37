package reader

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/atom"

	"smart-reader-api/core/domain"
	"smart-reader-api/core/errors"
	"smart-reader-api/core/render"
	"smart-reader-api/pkg/featureflags"
)

func testPipeline(flags map[featureflags.FeatureFlag]bool) *Pipeline {
	return NewPipeline(PipelineOptions{
		Extract: ExtractOptions{Mode: ExtractBlocks, MinBlockLength: 40, MinTextLength: 20},
		Flags:   featureflags.NewStaticManager(flags),
		Logger:  &mockLogger{},
	})
}

func fetched(markup string) *domain.FetchedDocument {
	return &domain.FetchedDocument{URL: "https://example.com/post", Markup: markup, Source: "mock"}
}

func TestPipeline_Process(t *testing.T) {
	markup := `<html><head><title>Sky report</title><script>track()</script></head><body>
<nav>Menu</nav>
<article><p>Hello world. The sky is blue today.</p><img src="/logo.png"></article>
<p><a href="/more">more</a></p>
<iframe src="https://ads.example.com"></iframe>
</body></html>`

	article, err := testPipeline(nil).Process(context.Background(), fetched(markup))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusOK, article.Status)
	assert.Equal(t, "Hello world. The sky is blue today.", article.Text.Text)
	assert.NotEmpty(t, article.Document.SnapshotID)
	assert.Equal(t, article.Document.SnapshotID, article.Text.SnapshotID)
	assert.Equal(t, "https://example.com/post", article.Document.SourceURL)
	assert.Equal(t, "Sky report", article.Metadata.Title)
	assert.Empty(t, article.Markdown)

	rendered := parseHTML(t, article.Document.Markup)
	assert.Empty(t, render.ElementsByTag(rendered, atom.Script, atom.Iframe, atom.Object, atom.Embed))
	img := render.FindElement(rendered, atom.Img)
	src, _ := render.Attr(img, "src")
	assert.Equal(t, "https://example.com/logo.png", src)
	a := render.FindElement(rendered, atom.A)
	target, _ := render.Attr(a, "target")
	assert.Equal(t, "_blank", target)
	assert.Contains(t, article.Document.Markup, HighlightClass)
}

func TestPipeline_Process_NoscriptContent(t *testing.T) {
	markup := `<html><body><article><p>Hello world. The sky is blue today.</p>
<noscript><iframe src="https://evil.example/x"></iframe><img src="/real.png"></noscript></article></body></html>`

	article, err := testPipeline(nil).Process(context.Background(), fetched(markup))
	require.NoError(t, err)

	rendered := parseHTML(t, article.Document.Markup)
	assert.Empty(t, render.ElementsByTag(rendered, atom.Iframe))
	img := render.FindElement(rendered, atom.Img)
	require.NotNil(t, img)
	src, _ := render.Attr(img, "src")
	assert.Equal(t, "https://example.com/real.png", src)
}

func TestPipeline_SnapshotsDifferPerProcess(t *testing.T) {
	p := testPipeline(nil)
	doc := fetched(skyArticle)

	first, err := p.Process(context.Background(), doc)
	require.NoError(t, err)
	second, err := p.Process(context.Background(), doc)
	require.NoError(t, err)

	assert.NotEqual(t, first.Document.SnapshotID, second.Document.SnapshotID)
}

func TestPipeline_Markdown(t *testing.T) {
	p := testPipeline(map[featureflags.FeatureFlag]bool{featureflags.MarkdownView: true})
	markup := `<html><head><title>Sky</title></head><body><article><h2>Weather</h2><p>Hello world. The sky is blue today.</p></article></body></html>`

	article, err := p.Process(context.Background(), fetched(markup))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(article.Markdown, "# Sky\n\n"))
	assert.Contains(t, article.Markdown, "## Weather")
	assert.Contains(t, article.Markdown, "Hello world. The sky is blue today.")
}

func TestPipeline_TooShort(t *testing.T) {
	p := NewPipeline(PipelineOptions{Flags: featureflags.NewStaticManager(nil)})

	_, err := p.Process(context.Background(), fetched(skyArticle))

	require.Error(t, err)
	assert.True(t, errors.IsExtractionTooShort(err))
	var short *errors.ExtractionTooShortError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, "https://example.com/post", short.URL)
}

func TestPipeline_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "/relative", "ftp://example.com/file", "http://"} {
		_, err := testPipeline(nil).Process(context.Background(), &domain.FetchedDocument{URL: raw, Markup: skyArticle})
		assert.True(t, errors.IsValidation(err), raw)
	}
}

func TestCleanMarkdown(t *testing.T) {
	in := "Intro  \r\n\r\n\r\n\r\n## Heading\nText"

	assert.Equal(t, "Intro\n\n## Heading\n\nText", cleanMarkdown(in))
}

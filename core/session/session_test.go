package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-reader-api/core/anchor"
	"smart-reader-api/core/domain"
	"smart-reader-api/core/errors"
	"smart-reader-api/core/reader"
	"smart-reader-api/core/render"
)

const skyText = "Hello world. The sky is blue today."

func skyArticle(url string) *domain.Article {
	return &domain.Article{
		URL:      url,
		Metadata: domain.Metadata{Title: "Sky"},
		Document: domain.RenderableDocument{
			SnapshotID: "snap-" + url,
			SourceURL:  url,
			Markup:     `<html><head></head><body><article><p>` + skyText + `</p><p>The word ephemeral means short-lived.</p></article></body></html>`,
		},
		Text:   domain.ArticleText{SnapshotID: "snap-" + url, Text: skyText},
		Status: domain.StatusOK,
	}
}

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.stopped = true
	return true
}

func newTestSession(t *testing.T, services Services) (*Session, *[]*manualTimer) {
	t.Helper()
	timers := &[]*manualTimer{}
	if services.Reader == nil {
		services.Reader = &mockReader{loadFunc: func(ctx context.Context, url string) (*domain.Article, error) {
			return skyArticle(url), nil
		}}
	}
	if services.Assistant == nil {
		services.Assistant = &mockAssistant{}
	}
	s := New("test", Options{
		RenderMode: render.ModeIsolated,
		AfterFunc: func(d time.Duration, f func()) anchor.Timer {
			tm := &manualTimer{f: f}
			*timers = append(*timers, tm)
			return tm
		},
	}, services)
	return s, timers
}

func TestSession_LoadArticle(t *testing.T) {
	s, _ := newTestSession(t, Services{})

	article, gen, err := s.LoadArticle(context.Background(), "https://example.com/post")
	require.NoError(t, err)

	assert.Equal(t, uint64(1), gen)
	assert.Equal(t, domain.StatusOK, article.Status)
	assert.Equal(t, domain.StateIdle, s.State().Busy)
	assert.Equal(t, "https://example.com/post", s.State().URL)

	markup, docGen, err := s.Document()
	require.NoError(t, err)
	assert.Equal(t, gen, docGen)
	assert.Contains(t, markup, "<iframe")

	text, err := s.Text()
	require.NoError(t, err)
	assert.Equal(t, skyText, text.Text)
}

func TestSession_NothingLoaded(t *testing.T) {
	s, _ := newTestSession(t, Services{})

	_, _, err := s.Document()
	assert.True(t, errors.IsNotFound(err))
	_, err = s.Text()
	assert.True(t, errors.IsNotFound(err))
	_, err = s.ContextMenu(context.Background(), "word", 0, 0)
	assert.True(t, errors.IsNotFound(err))
}

func TestSession_LoadArticleDegradesToPlaceholder(t *testing.T) {
	fetchErr := &errors.FetchError{URL: "https://example.com/post", Attempts: []string{"proxy: 503"}}
	s, _ := newTestSession(t, Services{Reader: &mockReader{loadFunc: func(ctx context.Context, url string) (*domain.Article, error) {
		return reader.Placeholder(url, fetchErr), fetchErr
	}}})

	article, gen, err := s.LoadArticle(context.Background(), "https://example.com/post")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusError, article.Status)
	assert.Equal(t, uint64(1), gen)
	markup, _, err := s.Document()
	require.NoError(t, err)
	assert.Contains(t, markup, "subscription")

	_, err = s.Text()
	assert.True(t, errors.IsFetch(err))
}

func TestSession_LoadArticleValidationError(t *testing.T) {
	s, _ := newTestSession(t, Services{Reader: &mockReader{loadFunc: func(ctx context.Context, url string) (*domain.Article, error) {
		return nil, &errors.ValidationError{Field: "url", Message: "bad"}
	}}})

	_, _, err := s.LoadArticle(context.Background(), "bad")

	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, domain.StateIdle, s.State().Busy)
}

func TestSession_LocateAnchorAndRemount(t *testing.T) {
	s, timers := newTestSession(t, Services{})
	_, gen, err := s.LoadArticle(context.Background(), "https://example.com/a")
	require.NoError(t, err)

	result, err := s.LocateAnchor(context.Background(), "sky is blue")
	require.NoError(t, err)
	assert.Equal(t, gen, result.Generation)
	assert.True(t, result.Managed)

	_, _, err = s.LoadArticle(context.Background(), "https://example.com/b")
	require.NoError(t, err)
	before, _, _ := s.Document()

	require.Len(t, *timers, 1)
	(*timers)[0].f()

	after, _, _ := s.Document()
	assert.Equal(t, before, after)

	_, err = s.LocateAnchor(context.Background(), "nonexistent phrase xyz")
	assert.True(t, errors.IsAnchorNotFound(err))
}

func TestSession_ContextMenuAndDefine(t *testing.T) {
	var gotWord, gotContext string
	s, _ := newTestSession(t, Services{Assistant: &mockAssistant{
		defineFunc: func(ctx context.Context, word, context string) (*domain.Definition, error) {
			gotWord, gotContext = word, context
			return &domain.Definition{Word: word, Definitions: []domain.Sense{{PartOfSpeech: "adjective", Meaning: "lasting a very short time"}}}, nil
		},
	}})
	_, _, err := s.LoadArticle(context.Background(), "https://example.com/post")
	require.NoError(t, err)

	menu, err := s.ContextMenu(context.Background(), "ephemeral", 10, 20)
	require.NoError(t, err)
	assert.False(t, menu.Suppressed)
	require.NotNil(t, menu.Selection)
	assert.Equal(t, "ephemeral", menu.Selection.Word)
	assert.Equal(t, 10.0, menu.Selection.X)

	def, sel, err := s.DefineSelection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ephemeral", def.Word)
	assert.Equal(t, "ephemeral", sel.Word)
	assert.Equal(t, "ephemeral", gotWord)
	assert.Equal(t, "The word ephemeral means short-lived.", gotContext)

	_, _, err = s.DefineSelection(context.Background())
	assert.True(t, errors.IsValidation(err))
}

func TestSession_ContextMenuWithoutSelection(t *testing.T) {
	s, _ := newTestSession(t, Services{})
	_, _, err := s.LoadArticle(context.Background(), "https://example.com/post")
	require.NoError(t, err)

	for _, text := range []string{"", "not in the document"} {
		menu, err := s.ContextMenu(context.Background(), text, 0, 0)
		require.NoError(t, err)
		assert.True(t, menu.Suppressed, text)
		assert.Nil(t, menu.Selection, text)
	}
}

func TestSession_DismissSelection(t *testing.T) {
	s, _ := newTestSession(t, Services{})
	_, _, _ = s.LoadArticle(context.Background(), "https://example.com/post")
	_, err := s.ContextMenu(context.Background(), "sky", 0, 0)
	require.NoError(t, err)

	s.DismissSelection()

	_, _, err = s.DefineSelection(context.Background())
	assert.True(t, errors.IsValidation(err))
}

func TestSession_BusyRejectsOverlap(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	s, _ := newTestSession(t, Services{Assistant: &mockAssistant{
		chatFunc: func(ctx context.Context, history []domain.ChatMessage, message, articleText string) (string, error) {
			close(started)
			<-release
			return "reply", nil
		},
	}})
	_, _, err := s.LoadArticle(context.Background(), "https://example.com/post")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, _, err := s.Chat(context.Background(), "what colour is the sky?")
		done <- err
	}()
	<-started

	assert.Equal(t, domain.StateChatting, s.State().Busy)
	_, _, err = s.Chat(context.Background(), "again")
	assert.True(t, errors.IsBusy(err))
	_, _, err = s.LoadArticle(context.Background(), "https://example.com/other")
	assert.True(t, errors.IsBusy(err))
	_, err = s.AnalyzeImage(context.Background(), []byte{1}, "image/png", "")
	assert.True(t, errors.IsBusy(err))

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, domain.StateIdle, s.State().Busy)
}

func TestSession_ChatHistory(t *testing.T) {
	var seen [][]domain.ChatMessage
	s, _ := newTestSession(t, Services{Assistant: &mockAssistant{
		chatFunc: func(ctx context.Context, history []domain.ChatMessage, message, articleText string) (string, error) {
			seen = append(seen, history)
			assert.Equal(t, skyText, articleText)
			return "answer to " + message, nil
		},
	}})
	_, _, _ = s.LoadArticle(context.Background(), "https://example.com/post")

	_, _, err := s.Chat(context.Background(), "first")
	require.NoError(t, err)
	reply, history, err := s.Chat(context.Background(), "second")
	require.NoError(t, err)

	assert.Equal(t, "answer to second", reply)
	require.Len(t, history, 4)
	assert.Equal(t, domain.RoleUser, history[2].Role)
	assert.Equal(t, "second", history[2].Content)
	assert.Len(t, seen[0], 0)
	assert.Len(t, seen[1], 2)

	_, _, err = s.Chat(context.Background(), "  ")
	assert.True(t, errors.IsValidation(err))

	_, _, _ = s.LoadArticle(context.Background(), "https://example.com/next")
	assert.Empty(t, s.History())
}

func TestSession_SummarizeAndReadAloud(t *testing.T) {
	var spoken string
	s, _ := newTestSession(t, Services{
		Assistant: &mockAssistant{summarizeFunc: func(ctx context.Context, text string) (*domain.Summary, error) {
			return &domain.Summary{Summary: "The sky is blue.", KeyPoints: []domain.KeyPoint{{Title: "Sky", QuoteAnchor: "sky is blue"}}}, nil
		}},
		Speech: &mockSpeech{synthesizeFunc: func(ctx context.Context, text string) ([]byte, error) {
			spoken = text
			return []byte("mp3"), nil
		}},
	})

	_, err := s.Summarize(context.Background())
	assert.True(t, errors.IsNotFound(err))

	_, _, _ = s.LoadArticle(context.Background(), "https://example.com/post")
	summary, err := s.Summarize(context.Background())
	require.NoError(t, err)

	anchorResult, err := s.LocateAnchor(context.Background(), summary.KeyPoints[0].QuoteAnchor)
	require.NoError(t, err)
	assert.Equal(t, domain.AnchorStrategyBlock, anchorResult.Strategy)

	audio, err := s.ReadAloud(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3"), audio)
	assert.Equal(t, "The sky is blue.", spoken)
	assert.False(t, s.State().Speaking)
}

func TestSession_ReadAloudErrors(t *testing.T) {
	s, _ := newTestSession(t, Services{})
	_, err := s.ReadAloud(context.Background(), "text")
	assert.True(t, errors.IsNotFound(err))

	s, _ = newTestSession(t, Services{Speech: &mockSpeech{}})
	_, err = s.ReadAloud(context.Background(), " ")
	assert.True(t, errors.IsValidation(err))
}

func TestSession_AnalyzeImage(t *testing.T) {
	s, _ := newTestSession(t, Services{Assistant: &mockAssistant{
		describeFunc: func(ctx context.Context, data []byte, mimeType, prompt string) (*domain.ImageAnalysis, error) {
			return &domain.ImageAnalysis{Description: mimeType + ":" + prompt}, nil
		},
	}})

	_, err := s.AnalyzeImage(context.Background(), nil, "image/png", "")
	assert.True(t, errors.IsValidation(err))

	got, err := s.AnalyzeImage(context.Background(), []byte{1, 2}, "image/png", "what is this?")
	require.NoError(t, err)
	assert.Equal(t, "image/png:what is this?", got.Description)
}

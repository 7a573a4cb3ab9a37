package fetch

import (
	"context"
	"io"
	"strings"

	"smart-reader-api/core/domain"
	"smart-reader-api/core/interfaces"
)

type mockResponse struct {
	status int
	body   string
}

func (r *mockResponse) StatusCode() int          { return r.status }
func (r *mockResponse) Body() io.ReadCloser      { return io.NopCloser(strings.NewReader(r.body)) }
func (r *mockResponse) Header(key string) string { return "" }

type mockHTTPClient struct {
	GetFunc func(ctx context.Context, url string) (interfaces.Response, error)
	urls    []string
}

func (m *mockHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	m.urls = append(m.urls, url)
	return m.GetFunc(ctx, url)
}

type stubFetcher struct {
	name  string
	doc   *domain.FetchedDocument
	err   error
	calls int
}

func (s *stubFetcher) Name() string { return s.name }

func (s *stubFetcher) Fetch(ctx context.Context, url string) (*domain.FetchedDocument, error) {
	s.calls++
	return s.doc, s.err
}

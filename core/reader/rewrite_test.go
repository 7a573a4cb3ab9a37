package reader

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/atom"

	"smart-reader-api/core/render"
)

func mustBase(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestResolveURL(t *testing.T) {
	base := mustBase(t, "https://example.com/post")

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"root relative", "/logo.png", "https://example.com/logo.png"},
		{"path relative", "img/a.png", "https://example.com/img/a.png"},
		{"parent relative", "../up.html", "https://example.com/up.html"},
		{"protocol relative", "//cdn.example.org/x.css", "https://cdn.example.org/x.css"},
		{"fragment", "#comments", "https://example.com/post#comments"},
		{"query", "?page=2", "https://example.com/post?page=2"},
		{"absolute", "https://other.org/a?b=c", "https://other.org/a?b=c"},
		{"mailto", "mailto:me@example.com", "mailto:me@example.com"},
		{"empty", "", ""},
		{"malformed host", "http://[::1", "http://[::1"},
		{"malformed escape", "%zz", "%zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveURL(base, tt.ref))
		})
	}
}

func TestRewriteURLs(t *testing.T) {
	root := parseHTML(t, `<html><head><link rel="stylesheet" href="/s.css"></head><body>
<img src="/logo.png" srcset="/logo-2x.png 2x">
<picture><source srcset="/a.webp"><img src="a.jpg"></picture>
<a href="/next" target="_self">next</a><a href="http://[::1">broken</a><a>bare</a></body></html>`)

	RewriteURLs(root, mustBase(t, "https://example.com/post"))

	imgs := render.ElementsByTag(root, atom.Img)
	require.Len(t, imgs, 2)
	src, _ := render.Attr(imgs[0], "src")
	assert.Equal(t, "https://example.com/logo.png", src)
	_, hasSrcset := render.Attr(imgs[0], "srcset")
	assert.False(t, hasSrcset)
	src, _ = render.Attr(imgs[1], "src")
	assert.Equal(t, "https://example.com/a.jpg", src)

	source := render.FindElement(root, atom.Source)
	_, hasSrcset = render.Attr(source, "srcset")
	assert.False(t, hasSrcset)

	link := render.FindElement(root, atom.Link)
	href, _ := render.Attr(link, "href")
	assert.Equal(t, "https://example.com/s.css", href)

	anchors := render.ElementsByTag(root, atom.A)
	require.Len(t, anchors, 3)
	href, _ = render.Attr(anchors[0], "href")
	assert.Equal(t, "https://example.com/next", href)
	href, _ = render.Attr(anchors[1], "href")
	assert.Equal(t, "http://[::1", href)
	_, hasHref := render.Attr(anchors[2], "href")
	assert.False(t, hasHref)
	for _, a := range anchors {
		target, _ := render.Attr(a, "target")
		rel, _ := render.Attr(a, "rel")
		assert.Equal(t, "_blank", target)
		assert.Equal(t, "noopener noreferrer", rel)
	}
}

func TestRewriteURLs_Idempotent(t *testing.T) {
	base := mustBase(t, "https://example.com/blog/post")
	root := parseHTML(t, `<body><img src="../img/a b.png"><a href="./x?y=1#z">x</a><link href="//cdn.example.org/s.css"><a href="%zz">bad</a></body>`)

	RewriteURLs(root, base)
	once, err := render.Serialize(root)
	require.NoError(t, err)

	RewriteURLs(root, base)
	twice, err := render.Serialize(root)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

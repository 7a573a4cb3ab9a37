// ABOUTME: URL rewriter making resource and link references absolute
// ABOUTME: Links open in a new browsing context so they cannot replace the host view

package reader

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"smart-reader-api/core/render"
)

// ResolveURL resolves ref against base. Empty or unparseable references are
// returned unchanged.
func ResolveURL(base *url.URL, ref string) string {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" || base == nil {
		return ref
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// RewriteURLs makes every image source, link href and anchor href absolute
// against base, drops responsive-image source sets and retargets anchors.
func RewriteURLs(root *html.Node, base *url.URL) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Img:
				rewriteAttr(n, "src", base)
				render.RemoveAttr(n, "srcset")
			case atom.Source:
				render.RemoveAttr(n, "srcset")
			case atom.Link:
				rewriteAttr(n, "href", base)
			case atom.A:
				rewriteAttr(n, "href", base)
				render.SetAttr(n, "target", "_blank")
				render.SetAttr(n, "rel", "noopener noreferrer")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

func rewriteAttr(n *html.Node, key string, base *url.URL) {
	if v, ok := render.Attr(n, key); ok {
		render.SetAttr(n, key, ResolveURL(base, v))
	}
}

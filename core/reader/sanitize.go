// ABOUTME: Sanitizer removing executable and embedding elements from fetched markup
// ABOUTME: Optionally strips page chrome such as navigation, forms and inline styles

package reader

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// SanitizeLevel selects how much of the page is removed
type SanitizeLevel int

const (
	// SanitizeExecutable removes only elements that can run code or embed frames
	SanitizeExecutable SanitizeLevel = iota
	// SanitizeChrome also removes presentation and non-content chrome
	SanitizeChrome
)

const (
	executableSelector = "script, iframe, frame, frameset, object, embed, applet, base, meta[http-equiv]"
	chromeSelector     = "style, nav, footer, header, aside, form, button, svg, noscript"
)

// Sanitize removes dangerous elements from the tree in place. Event handler
// attributes and javascript: URLs are dropped from the elements that remain.
func Sanitize(root *html.Node, level SanitizeLevel) {
	doc := goquery.NewDocumentFromNode(root)
	doc.Find(executableSelector).Remove()
	if level >= SanitizeChrome {
		doc.Find(chromeSelector).Remove()
	}
	stripActiveAttributes(root)
}

func stripActiveAttributes(n *html.Node) {
	if n.Type == html.ElementNode {
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			key := strings.ToLower(a.Key)
			if strings.HasPrefix(key, "on") {
				continue
			}
			if isURLAttribute(key) && isScriptURL(a.Val) {
				continue
			}
			kept = append(kept, a)
		}
		n.Attr = kept
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		stripActiveAttributes(c)
	}
}

func isURLAttribute(key string) bool {
	switch key {
	case "href", "src", "action", "formaction", "xlink:href", "data", "poster":
		return true
	}
	return false
}

func isScriptURL(val string) bool {
	v := strings.ToLower(strings.Join(strings.Fields(val), ""))
	return strings.HasPrefix(v, "javascript:") || strings.HasPrefix(v, "vbscript:")
}

// ParseSanitizeLevel maps a configuration value to a level
func ParseSanitizeLevel(s string) SanitizeLevel {
	if strings.EqualFold(s, "chrome") {
		return SanitizeChrome
	}
	return SanitizeExecutable
}

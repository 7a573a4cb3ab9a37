// ABOUTME: Style injector adding highlight and nuisance-suppression rules
// ABOUTME: Appends one marked style block to the document head

package reader

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// HighlightClass marks the span wrapped around a located anchor
const HighlightClass = "sr-highlight"

const styleMarker = "data-smart-reader"

// nuisanceSelectors hide cookie banners, ad slots and popups by id/class substring
var nuisanceSelectors = []string{
	`[id*="cookie"]`, `[class*="cookie"]`,
	`[id*="consent"]`, `[class*="consent"]`,
	`[id*="advert"]`, `[class*="advert"]`,
	`[class*="ad-container"]`, `[class*="ad-slot"]`, `[id*="google_ads"]`,
	`[id*="popup"]`, `[class*="popup"]`,
	`[class*="modal"]`, `[class*="newsletter"]`, `[class*="paywall"]`,
}

var styleBlock = buildStyleBlock()

func buildStyleBlock() string {
	css := "." + HighlightClass + "{background-color:#fde68a;color:inherit;border-radius:2px;" +
		"box-shadow:0 0 0 2px #fde68a;transition:background-color .6s ease}\n"
	for i, sel := range nuisanceSelectors {
		if i > 0 {
			css += ","
		}
		css += sel
	}
	css += "{display:none!important}\n"
	return "<style " + styleMarker + ">" + css + "</style>"
}

// InjectStyles appends the reader style block to the head. Running it twice
// leaves a single block.
func InjectStyles(root *html.Node) {
	doc := goquery.NewDocumentFromNode(root)
	if doc.Find("style[" + styleMarker + "]").Length() > 0 {
		return
	}
	head := doc.Find("head").First()
	if head.Length() == 0 {
		head = doc.Find("html").First()
	}
	if head.Length() == 0 {
		return
	}
	head.AppendHtml(styleBlock)
}

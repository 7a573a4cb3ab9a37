// ABOUTME: Text extractor deriving the plain-text article body from the primary content region
// ABOUTME: Selector priority finds the article; a length floor rejects script-rendered shells

package reader

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"smart-reader-api/core/errors"
	"smart-reader-api/core/render"
)

// ExtractMode selects how text is collected from the content region
type ExtractMode string

const (
	// ExtractBlocks collects paragraph, heading, list item and quotation text
	ExtractBlocks ExtractMode = "blocks"
	// ExtractRegion collects all text of the region with whitespace collapsed
	ExtractRegion ExtractMode = "region"
)

// Default thresholds, in characters
const (
	DefaultMinBlockLength  = 40
	DefaultMinBlocksLength = 200
	DefaultMinRegionLength = 100
)

// contentSelectors are tried in order; the first match is the content region
var contentSelectors = []string{
	"article",
	`[role="main"]`,
	"main",
	`[itemprop="articleBody"]`,
	".post-content",
	".entry-content",
	".article-content",
	".article-body",
	".story-body",
	".content",
	"#content",
	"#main",
	".post",
}

// ExtractOptions tunes the extractor
type ExtractOptions struct {
	Mode ExtractMode
	// MinBlockLength discards shorter blocks as noise
	MinBlockLength int
	// MinTextLength overrides the mode's minimum when positive
	MinTextLength int
}

// DefaultExtractOptions returns block collection with the standard thresholds
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{Mode: ExtractBlocks, MinBlockLength: DefaultMinBlockLength}
}

// Minimum returns the minimum article length for the options
func (o ExtractOptions) Minimum() int {
	if o.MinTextLength > 0 {
		return o.MinTextLength
	}
	if o.Mode == ExtractRegion {
		return DefaultMinRegionLength
	}
	return DefaultMinBlocksLength
}

// PrimaryContent returns the content region of the document, falling back to the body
func PrimaryContent(root *html.Node) *goquery.Selection {
	doc := goquery.NewDocumentFromNode(root)
	for _, sel := range contentSelectors {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			return found
		}
	}
	if body := doc.Find("body").First(); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

// ExtractText returns the normalized article text of the document. When no
// block survives the noise floor the whole region text is used instead. A
// result below the minimum fails with ExtractionTooShortError.
func ExtractText(root *html.Node, opts ExtractOptions) (string, error) {
	region := PrimaryContent(root)

	var text string
	if opts.Mode != ExtractRegion {
		text = strings.Join(collectBlocks(region, opts.MinBlockLength), "\n\n")
	}
	if text == "" {
		text = regionText(region)
	}

	if n := utf8.RuneCountInString(text); n < opts.Minimum() {
		return "", &errors.ExtractionTooShortError{Length: n, Minimum: opts.Minimum()}
	}
	return text, nil
}

func collectBlocks(region *goquery.Selection, minLength int) []string {
	var blocks []string
	for _, n := range region.Nodes {
		for _, block := range render.ElementsByTag(n, render.BlockTags...) {
			if hasBlockAncestor(block, n) {
				continue
			}
			text := render.VisibleText(block)
			if utf8.RuneCountInString(text) < minLength {
				continue
			}
			blocks = append(blocks, text)
		}
	}
	return blocks
}

// hasBlockAncestor reports whether a block element below stop already contains n
func hasBlockAncestor(n, stop *html.Node) bool {
	for p := n.Parent; p != nil && p != stop; p = p.Parent {
		if render.IsElement(p, render.BlockTags...) {
			return true
		}
	}
	return false
}

func regionText(region *goquery.Selection) string {
	parts := make([]string, 0, len(region.Nodes))
	for _, n := range region.Nodes {
		if t := render.VisibleText(n); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

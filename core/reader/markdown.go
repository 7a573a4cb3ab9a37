// ABOUTME: Markdown rendition of the primary content region
// ABOUTME: Prefixes the content with a title and byline header

package reader

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"golang.org/x/net/html"

	"smart-reader-api/core/domain"
)

var (
	excessNewlines   = regexp.MustCompile(`\n{3,}`)
	trailingSpaces   = regexp.MustCompile(`[ \t]+\n`)
	headingPrefix    = regexp.MustCompile(`\n(#{1,6} )`)
	headingFollowing = regexp.MustCompile(`(#{1,6} [^\n]+)\n([^\n])`)
)

func (p *Pipeline) markdown(pageURL string, meta domain.Metadata, root *html.Node) string {
	region := PrimaryContent(root)
	content, err := region.Html()
	if err != nil || strings.TrimSpace(content) == "" {
		return ""
	}

	converter := md.NewConverter("", true, nil)
	body, err := converter.ConvertString(content)
	if err != nil {
		p.debug("Failed to convert HTML to markdown", map[string]interface{}{
			"url":   pageURL,
			"error": err.Error(),
		})
		return ""
	}
	return buildMarkdownWithMetadata(meta, body)
}

// buildMarkdownWithMetadata creates a markdown document with a metadata header
func buildMarkdownWithMetadata(meta domain.Metadata, content string) string {
	var markdown strings.Builder

	if meta.Title != "" {
		markdown.WriteString("# ")
		markdown.WriteString(meta.Title)
		markdown.WriteString("\n\n")
	}

	var items []string
	if meta.Byline != "" {
		items = append(items, fmt.Sprintf("**Author:** %s", meta.Byline))
	}
	if meta.SiteName != "" {
		items = append(items, fmt.Sprintf("**Source:** %s", meta.SiteName))
	}
	if len(items) > 0 {
		markdown.WriteString(strings.Join(items, " | "))
		markdown.WriteString("\n\n---\n\n")
	}

	markdown.WriteString(cleanMarkdown(content))
	return markdown.String()
}

// cleanMarkdown removes excessive newlines and tidies heading spacing
func cleanMarkdown(markdown string) string {
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")
	markdown = strings.ReplaceAll(markdown, "\r", "\n")
	markdown = trailingSpaces.ReplaceAllString(markdown, "\n")
	markdown = headingPrefix.ReplaceAllString(markdown, "\n\n$1")
	markdown = headingFollowing.ReplaceAllString(markdown, "$1\n\n$2")
	markdown = excessNewlines.ReplaceAllString(markdown, "\n\n")
	return strings.TrimSpace(markdown)
}

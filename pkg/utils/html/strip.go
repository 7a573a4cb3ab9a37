// ABOUTME: HTML utilities for reducing markup fragments to plain text
// ABOUTME: Used to clean metadata fields that sites fill with markup or entities

package html

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML returns the visible text of an HTML fragment with entities
// decoded and whitespace collapsed. Script and style content is dropped.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return CollapseSpace(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return CollapseSpace(fragment)
	}
	doc.Find("script, style, noscript, template").Remove()
	return CollapseSpace(doc.Text())
}

// CollapseSpace trims text and replaces every whitespace run with one space
func CollapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

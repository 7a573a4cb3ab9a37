// ABOUTME: Whole-document text search in the manner of a browser's find-in-page
// ABOUTME: Case-insensitive, whitespace-collapsing and able to cross element boundaries

package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// textPos maps one normalized rune back to the source text node.
// node is nil for the virtual space inserted between blocks.
type textPos struct {
	node       *html.Node
	start, end int
}

// Find locates the first occurrence of query in the visible text under root.
// Matching folds case and treats any whitespace run, including the gap
// between two blocks, as a single space.
func Find(root *html.Node, query string) (*Range, bool) {
	needle := foldQuery(query)
	if len(needle) == 0 {
		return nil, false
	}

	hay, positions := flatten(root)
	idx := indexRunes(hay, needle)
	if idx < 0 {
		return nil, false
	}

	first, last := positions[idx], positions[idx+len(needle)-1]
	if first.node == nil || last.node == nil {
		return nil, false
	}
	return &Range{
		StartNode:   first.node,
		StartOffset: first.start,
		EndNode:     last.node,
		EndOffset:   last.end,
	}, true
}

func foldQuery(query string) []rune {
	var out []rune
	space := false
	for _, r := range strings.TrimSpace(query) {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && len(out) > 0 {
			out = append(out, ' ')
		}
		space = false
		out = append(out, unicode.ToLower(r))
	}
	return out
}

func flatten(root *html.Node) ([]rune, []textPos) {
	var hay []rune
	var positions []textPos
	var lastBlock *html.Node

	emitSpace := func(pos textPos) {
		if len(hay) == 0 || hay[len(hay)-1] == ' ' {
			return
		}
		hay = append(hay, ' ')
		positions = append(positions, pos)
	}

	for _, n := range TextNodes(root) {
		block := blockOf(n)
		if lastBlock != nil && block != lastBlock {
			emitSpace(textPos{})
		}
		lastBlock = block

		for i := 0; i < len(n.Data); {
			r, size := utf8.DecodeRuneInString(n.Data[i:])
			pos := textPos{node: n, start: i, end: i + size}
			if unicode.IsSpace(r) {
				emitSpace(pos)
			} else {
				hay = append(hay, unicode.ToLower(r))
				positions = append(positions, pos)
			}
			i += size
		}
	}
	return hay, positions
}

func indexRunes(hay, needle []rune) int {
outer:
	for i := 0; i+len(needle) <= len(hay); i++ {
		for j, r := range needle {
			if hay[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}

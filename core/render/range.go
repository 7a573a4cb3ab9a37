// ABOUTME: Text range within a mounted document, the analogue of a DOM selection
// ABOUTME: Offsets are byte offsets into the data of text nodes

package render

import (
	"strings"

	"golang.org/x/net/html"
)

// Range spans from a position in one text node to a position in another
type Range struct {
	StartNode   *html.Node
	StartOffset int
	EndNode     *html.Node
	EndOffset   int
}

// Collapsed reports whether the range selects nothing
func (r *Range) Collapsed() bool {
	return r == nil || (r.StartNode == r.EndNode && r.StartOffset >= r.EndOffset)
}

// SingleNode reports whether the range lies inside one text node
func (r *Range) SingleNode() bool {
	return r != nil && r.StartNode == r.EndNode
}

// Text returns the selected text
func (r *Range) Text() string {
	if r.Collapsed() {
		return ""
	}
	if r.SingleNode() {
		return r.StartNode.Data[r.StartOffset:r.EndOffset]
	}

	var b strings.Builder
	b.WriteString(r.StartNode.Data[r.StartOffset:])
	for n := nextInOrder(r.StartNode); n != nil && n != r.EndNode; n = nextInOrder(n) {
		if n.Type == html.TextNode && !insideInvisible(n) {
			b.WriteString(n.Data)
		}
	}
	if r.EndNode != nil {
		b.WriteString(r.EndNode.Data[:r.EndOffset])
	}
	return b.String()
}

// CommonAncestor returns the deepest element containing both ends of the range
func (r *Range) CommonAncestor() *html.Node {
	if r == nil || r.StartNode == nil {
		return nil
	}
	ancestors := map[*html.Node]bool{}
	for n := r.StartNode; n != nil; n = n.Parent {
		ancestors[n] = true
	}
	for n := r.EndNode; n != nil; n = n.Parent {
		if ancestors[n] {
			return NearestElement(n)
		}
	}
	return nil
}

func insideInvisible(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && invisible[p.DataAtom] {
			return true
		}
	}
	return false
}

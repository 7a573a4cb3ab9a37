// ABOUTME: A mounted document: the live, versioned tree behind one loaded article
// ABOUTME: All reads and writes go through Edit so timers and listeners never race

package render

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"smart-reader-api/core/domain"
)

// ErrDetached is returned when a replaced mount is edited
var ErrDetached = errors.New("document is no longer mounted")

// Mount holds the parsed tree of one RenderableDocument
type Mount struct {
	mu         sync.Mutex
	generation uint64
	mode       Mode
	doc        domain.RenderableDocument
	root       *html.Node
	selection  *Range
	listeners  map[EventType][]Listener
	detached   bool
}

// Generation returns the mount's generation id
func (m *Mount) Generation() uint64 {
	return m.generation
}

// Document returns the document this mount was created from
func (m *Mount) Document() domain.RenderableDocument {
	return m.doc
}

// Edit runs fn with exclusive access to the tree
func (m *Mount) Edit(fn func(tx *Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.detached {
		return ErrDetached
	}
	return fn(&Tx{m: m})
}

// Dispatch delivers ev to the listeners attached to this mount.
// Listeners run without the mount lock held and may call Edit.
func (m *Mount) Dispatch(ev *Event) error {
	m.mu.Lock()
	if m.detached {
		m.mu.Unlock()
		return ErrDetached
	}
	listeners := append([]Listener(nil), m.listeners[ev.Type]...)
	m.mu.Unlock()

	for _, l := range listeners {
		l(m, ev)
	}
	return nil
}

// Embed serializes the live tree for the client. Isolated mode wraps the
// document in a sandboxed iframe without script permission; inline mode
// returns the body contents in a host div.
func (m *Mount) Embed() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	gen := strconv.FormatUint(m.generation, 10)
	if m.mode == ModeInline {
		return m.inline(gen)
	}

	doc, err := Serialize(m.root)
	if err != nil {
		return "", err
	}
	frame := &html.Node{
		Type:     html.ElementNode,
		Data:     "iframe",
		DataAtom: atom.Iframe,
		Attr: []html.Attribute{
			{Key: "sandbox", Val: "allow-same-origin allow-popups"},
			{Key: "referrerpolicy", Val: "no-referrer"},
			{Key: "title", Val: "Article"},
			{Key: "data-generation", Val: gen},
			{Key: "srcdoc", Val: doc},
		},
	}
	return Serialize(frame)
}

func (m *Mount) inline(gen string) (string, error) {
	var b strings.Builder
	b.WriteString(`<div class="smart-reader-inline" data-generation="`)
	b.WriteString(gen)
	b.WriteString(`">`)
	for _, style := range ElementsByTag(m.root, atom.Style) {
		if err := html.Render(&b, style); err != nil {
			return "", err
		}
	}
	if body := FindElement(m.root, atom.Body); body != nil {
		inner, err := InnerHTML(body)
		if err != nil {
			return "", err
		}
		b.WriteString(inner)
	}
	b.WriteString(`</div>`)
	return b.String(), nil
}

func (m *Mount) detach() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detached = true
	m.listeners = nil
	m.selection = nil
}

// Tx is the handle passed to Edit callbacks
type Tx struct {
	m *Mount
}

// Generation returns the generation of the mount being edited
func (tx *Tx) Generation() uint64 {
	return tx.m.generation
}

// Root returns the document node
func (tx *Tx) Root() *html.Node {
	return tx.m.root
}

// Body returns the body element, or the root if the document has none
func (tx *Tx) Body() *html.Node {
	if body := FindElement(tx.m.root, atom.Body); body != nil {
		return body
	}
	return tx.m.root
}

// Query wraps the live tree in a goquery document
func (tx *Tx) Query() *goquery.Document {
	return goquery.NewDocumentFromNode(tx.m.root)
}

// Selection returns the current text selection, nil when nothing is selected
func (tx *Tx) Selection() *Range {
	if tx.m.selection.Collapsed() {
		return nil
	}
	return tx.m.selection
}

// Select replaces the current selection
func (tx *Tx) Select(r *Range) {
	tx.m.selection = r
}

// ClearSelection empties the current selection
func (tx *Tx) ClearSelection() {
	tx.m.selection = nil
}

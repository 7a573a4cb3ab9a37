// ABOUTME: Anchor locator relocating a quoted passage inside the mounted document
// ABOUTME: Highlights the first match, returns a scroll target and fades the highlight later

package anchor

import (
	"context"
	"html"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"smart-reader-api/core/domain"
	"smart-reader-api/core/errors"
	"smart-reader-api/core/interfaces"
	"smart-reader-api/core/reader"
	"smart-reader-api/core/render"
)

// DefaultHighlightDuration is how long a managed highlight stays visible
const DefaultHighlightDuration = 3000 * time.Millisecond

// Timer is the handle of a scheduled highlight removal
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run after d
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Options configures a Locator
type Options struct {
	Duration  time.Duration
	AfterFunc AfterFunc
	Logger    interfaces.Logger
}

type pendingHighlight struct {
	mount *render.Mount
	id    string
	timer Timer
}

// Locator finds anchors in whatever document the renderer currently has mounted
type Locator struct {
	renderer  *render.Renderer
	duration  time.Duration
	afterFunc AfterFunc
	logger    interfaces.Logger
	newID     func() string

	// op serializes Locate calls so at most one managed highlight exists
	op      sync.Mutex
	mu      sync.Mutex
	pending *pendingHighlight
}

// NewLocator creates a locator bound to a renderer
func NewLocator(r *render.Renderer, opts Options) *Locator {
	if opts.Duration <= 0 {
		opts.Duration = DefaultHighlightDuration
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = realAfterFunc
	}
	return &Locator{
		renderer:  r,
		duration:  opts.Duration,
		afterFunc: opts.AfterFunc,
		logger:    opts.Logger,
		newID: func() string {
			return "sr-anchor-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		},
	}
}

// Locate highlights the first occurrence of query in the mounted document.
// Strategies are tried in order: block element content, single text node,
// then whole-document find. A find match that cannot be wrapped safely is
// left as an unmanaged selection.
func (l *Locator) Locate(ctx context.Context, query string) (*domain.AnchorResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, &errors.ValidationError{Field: "query", Message: "cannot be empty"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.op.Lock()
	defer l.op.Unlock()

	mount := l.renderer.Current()
	if mount == nil {
		return nil, &errors.NotFoundError{Resource: "document", ID: "mounted"}
	}

	l.restorePending()

	id := l.newID()
	var result *domain.AnchorResult
	err := mount.Edit(func(tx *render.Tx) error {
		result = locateIn(tx, q, id)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result == nil {
		l.log("Anchor not found", map[string]interface{}{
			"query":      q,
			"generation": mount.Generation(),
		})
		return nil, &errors.AnchorNotFoundError{Query: q}
	}

	result.Query = q
	result.Generation = mount.Generation()
	if result.Managed {
		l.schedule(mount, id)
	}

	l.log("Anchor located", map[string]interface{}{
		"query":      q,
		"strategy":   string(result.Strategy),
		"managed":    result.Managed,
		"generation": result.Generation,
	})
	return result, nil
}

func (l *Locator) schedule(mount *render.Mount, id string) {
	gen := mount.Generation()
	p := &pendingHighlight{mount: mount, id: id}
	l.mu.Lock()
	l.pending = p
	l.mu.Unlock()

	p.timer = l.afterFunc(l.duration, func() {
		l.expire(p, gen)
	})
}

// expire removes a highlight when its timer fires. Highlights in a document
// that has since been replaced are left alone.
func (l *Locator) expire(p *pendingHighlight, gen uint64) {
	l.mu.Lock()
	if l.pending == p {
		l.pending = nil
	}
	l.mu.Unlock()

	if !l.renderer.IsCurrent(gen) {
		l.log("Skipping stale highlight removal", map[string]interface{}{
			"highlight_id": p.id,
			"generation":   gen,
		})
		return
	}
	_ = p.mount.Edit(func(tx *render.Tx) error {
		unwrap(tx.Root(), p.id)
		return nil
	})
}

// restorePending removes the previous highlight immediately
func (l *Locator) restorePending() {
	l.mu.Lock()
	p := l.pending
	l.pending = nil
	l.mu.Unlock()

	if p == nil {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	if l.renderer.IsCurrent(p.mount.Generation()) {
		_ = p.mount.Edit(func(tx *render.Tx) error {
			unwrap(tx.Root(), p.id)
			return nil
		})
	}
}

func (l *Locator) log(msg string, fields map[string]interface{}) {
	if l.logger != nil {
		l.logger.Info(msg, fields)
	}
}

func locateIn(tx *render.Tx, q, id string) *domain.AnchorResult {
	body := tx.Body()
	gen := tx.Generation()

	if wrapInBlock(body, q, id, gen) {
		tx.ClearSelection()
		return managed(domain.AnchorStrategyBlock, id)
	}
	if wrapInTextNode(body, q, id, gen) {
		tx.ClearSelection()
		return managed(domain.AnchorStrategyTextNode, id)
	}

	r, ok := render.Find(body, q)
	if !ok {
		return nil
	}
	if span := wrapRange(r, id, gen); span != nil {
		tx.Select(&render.Range{
			StartNode:   span.FirstChild,
			StartOffset: 0,
			EndNode:     span.LastChild,
			EndOffset:   len(span.LastChild.Data),
		})
		return managed(domain.AnchorStrategyFind, id)
	}

	tx.Select(r)
	return &domain.AnchorResult{
		Strategy: domain.AnchorStrategyFind,
		Managed:  false,
		Scroll:   &domain.ScrollTarget{Selection: true, Block: "center", Behavior: "smooth"},
	}
}

func managed(strategy domain.AnchorStrategy, id string) *domain.AnchorResult {
	return &domain.AnchorResult{
		Strategy:    strategy,
		HighlightID: id,
		Managed:     true,
		Scroll:      domain.NewScrollTarget(id),
	}
}

func openTag(id string, gen uint64) string {
	return `<span class="` + reader.HighlightClass + `" id="` + id +
		`" data-generation="` + strconv.FormatUint(gen, 10) + `">`
}

// wrapInBlock replaces the escaped query inside the inner markup of the
// first block whose text contains it. It gives up when the match is split by
// nested markup. Matches inside a tag or a character reference are skipped.
func wrapInBlock(body *nethtml.Node, q, id string, gen uint64) bool {
	escaped := html.EscapeString(q)
	for _, block := range render.ElementsByTag(body, render.BlockTags...) {
		if !strings.Contains(render.TextContent(block), q) {
			continue
		}
		inner, err := render.InnerHTML(block)
		if err != nil {
			return false
		}
		idx := indexOutsideTags(inner, escaped)
		if idx < 0 {
			return false
		}
		wrapped := inner[:idx] + openTag(id, gen) + escaped + "</span>" + inner[idx+len(escaped):]
		return render.SetInnerHTML(block, wrapped) == nil
	}
	return false
}

func indexOutsideTags(markup, needle string) int {
	for from := 0; from < len(markup); {
		i := strings.Index(markup[from:], needle)
		if i < 0 {
			return -1
		}
		i += from
		if strings.LastIndex(markup[:i], "<") <= strings.LastIndex(markup[:i], ">") && !insideEntity(markup, i) {
			return i
		}
		from = i + 1
	}
	return -1
}

// insideEntity reports whether offset i falls within a character reference
// such as &#39; or &amp;. Serialized text never holds a bare ampersand.
func insideEntity(markup string, i int) bool {
	amp := strings.LastIndexByte(markup[:i], '&')
	if amp < 0 {
		return false
	}
	for _, c := range markup[amp+1 : i] {
		if c != '#' && !('a' <= c && c <= 'z') && !('A' <= c && c <= 'Z') && !('0' <= c && c <= '9') {
			return false
		}
	}
	return true
}

// wrapInTextNode splits the first text node containing q around the match
func wrapInTextNode(body *nethtml.Node, q, id string, gen uint64) bool {
	for _, n := range render.TextNodes(body) {
		if idx := strings.Index(n.Data, q); idx >= 0 {
			wrapRange(&render.Range{StartNode: n, StartOffset: idx, EndNode: n, EndOffset: idx + len(q)}, id, gen)
			return true
		}
	}
	return false
}

// wrapRange wraps r in a highlight span when both ends are text nodes under
// one parent with only text between them. It returns nil otherwise.
func wrapRange(r *render.Range, id string, gen uint64) *nethtml.Node {
	start, end := r.StartNode, r.EndNode
	parent := start.Parent
	if parent == nil || end.Parent != parent {
		return nil
	}
	for n := start; n != end; n = n.NextSibling {
		if n == nil || n.Type != nethtml.TextNode {
			return nil
		}
	}

	span := &nethtml.Node{
		Type:     nethtml.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
		Attr: []nethtml.Attribute{
			{Key: "class", Val: reader.HighlightClass},
			{Key: "id", Val: id},
			{Key: "data-generation", Val: strconv.FormatUint(gen, 10)},
		},
	}

	// Split off the text after the match first so start offsets stay valid
	// when start and end are the same node.
	if tail := end.Data[r.EndOffset:]; tail != "" {
		parent.InsertBefore(&nethtml.Node{Type: nethtml.TextNode, Data: tail}, end.NextSibling)
	}
	end.Data = end.Data[:r.EndOffset]

	head := start.Data[:r.StartOffset]
	start.Data = start.Data[r.StartOffset:]
	parent.InsertBefore(span, start)
	if head != "" {
		parent.InsertBefore(&nethtml.Node{Type: nethtml.TextNode, Data: head}, span)
	}

	for n := start; n != nil; {
		next := n.NextSibling
		parent.RemoveChild(n)
		span.AppendChild(n)
		if n == end {
			break
		}
		n = next
	}
	return span
}

// unwrap replaces the highlight span with a plain text node holding its text
func unwrap(root *nethtml.Node, id string) {
	span := render.ElementByID(root, id)
	if span == nil || span.Parent == nil {
		return
	}
	parent := span.Parent
	parent.InsertBefore(&nethtml.Node{Type: nethtml.TextNode, Data: render.TextContent(span)}, span)
	parent.RemoveChild(span)
	render.NormalizeText(parent)
}

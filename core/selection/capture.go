// ABOUTME: Selection capture for context-menu actions inside the mounted document
// ABOUTME: Records the selected word, its enclosing text and the pointer position

package selection

import (
	"strings"
	"sync"
	"unicode/utf8"

	"smart-reader-api/core/domain"
	"smart-reader-api/core/render"
)

// DefaultContextLimit bounds the enclosing text sent to the definition lookup
const DefaultContextLimit = 200

// Capturer holds the pending selection of one session
type Capturer struct {
	limit int

	mu      sync.Mutex
	pending *domain.SelectionContext
}

// NewCapturer creates a capturer truncating context to limit characters
func NewCapturer(limit int) *Capturer {
	if limit <= 0 {
		limit = DefaultContextLimit
	}
	return &Capturer{limit: limit}
}

// Attach registers the capture and dismiss listeners on the renderer so
// they follow every mount
func (c *Capturer) Attach(r *render.Renderer) {
	r.AddListener(render.EventContextMenu, c.OnContextMenu)
	r.AddListener(render.EventClick, c.OnClick)
}

// OnContextMenu reads the mount's selection. An empty selection clears the
// pending state and suppresses the default menu.
func (c *Capturer) OnContextMenu(m *render.Mount, ev *render.Event) {
	var captured *domain.SelectionContext
	_ = m.Edit(func(tx *render.Tx) error {
		sel := tx.Selection()
		if sel == nil {
			return nil
		}
		word := strings.TrimSpace(sel.Text())
		if word == "" {
			return nil
		}
		var context string
		if el := sel.CommonAncestor(); el != nil {
			context = render.VisibleText(el)
		}
		captured = &domain.SelectionContext{
			Word:       word,
			Context:    truncate(context, c.limit),
			X:          ev.X,
			Y:          ev.Y,
			Generation: m.Generation(),
		}
		return nil
	})

	c.mu.Lock()
	c.pending = captured
	c.mu.Unlock()

	if captured == nil {
		ev.PreventDefault()
	}
}

// OnClick dismisses the pending selection
func (c *Capturer) OnClick(m *render.Mount, ev *render.Event) {
	c.Clear()
}

// Pending returns the captured selection, nil when there is none
func (c *Capturer) Pending() *domain.SelectionContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return nil
	}
	cp := *c.pending
	return &cp
}

// Take returns the captured selection and clears it
func (c *Capturer) Take() *domain.SelectionContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.pending
	c.pending = nil
	return p
}

// Clear drops the captured selection
func (c *Capturer) Clear() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}

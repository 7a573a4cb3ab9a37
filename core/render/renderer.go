// ABOUTME: Document renderer hosting one mounted article at a time
// ABOUTME: Each mount gets a new generation and fresh copies of the host listeners

package render

import (
	"fmt"
	"strings"
	"sync"

	"smart-reader-api/core/domain"
)

// Mode selects how a mount is embedded in the host page
type Mode string

const (
	// ModeIsolated embeds the document in a sandboxed iframe
	ModeIsolated Mode = "isolated"
	// ModeInline injects the body directly into a host element
	ModeInline Mode = "inline"
)

// ParseMode maps a configuration value to a Mode, defaulting to isolated
func ParseMode(s string) Mode {
	if Mode(strings.ToLower(s)) == ModeInline {
		return ModeInline
	}
	return ModeIsolated
}

// EventType names a document event
type EventType string

const (
	EventContextMenu EventType = "contextmenu"
	EventClick       EventType = "click"
)

// Event is a pointer event raised inside the mounted document
type Event struct {
	Type             EventType
	X, Y             float64
	defaultPrevented bool
}

// PreventDefault suppresses the browser's default handling
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether a listener suppressed the default action
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// Listener handles an event raised inside a mount
type Listener func(m *Mount, ev *Event)

// Renderer owns the currently mounted document
type Renderer struct {
	mu         sync.Mutex
	mode       Mode
	generation uint64
	current    *Mount
	listeners  map[EventType][]Listener
}

// NewRenderer creates a renderer with the given embedding mode
func NewRenderer(mode Mode) *Renderer {
	return &Renderer{
		mode:      mode,
		listeners: make(map[EventType][]Listener),
	}
}

// Mode returns the embedding mode
func (r *Renderer) Mode() Mode {
	return r.mode
}

// AddListener registers a host listener. It is attached to the current mount
// and to every later one.
func (r *Renderer) AddListener(t EventType, l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[t] = append(r.listeners[t], l)
	if r.current != nil {
		r.current.mu.Lock()
		r.current.listeners[t] = append(r.current.listeners[t], l)
		r.current.mu.Unlock()
	}
}

// Mount parses doc and replaces the current mount wholesale
func (r *Renderer) Mount(doc domain.RenderableDocument) (*Mount, error) {
	root, err := Parse(strings.NewReader(doc.Markup))
	if err != nil {
		return nil, fmt.Errorf("parse renderable document: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		r.current.detach()
	}

	r.generation++
	m := &Mount{
		generation: r.generation,
		mode:       r.mode,
		doc:        doc,
		root:       root,
		listeners:  make(map[EventType][]Listener, len(r.listeners)),
	}
	for t, ls := range r.listeners {
		m.listeners[t] = append([]Listener(nil), ls...)
	}
	r.current = m
	return m, nil
}

// Current returns the mounted document, nil before the first mount
func (r *Renderer) Current() *Mount {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Generation returns the generation of the current mount, 0 before the first mount
func (r *Renderer) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

// IsCurrent reports whether gen identifies the mounted document
func (r *Renderer) IsCurrent(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current != nil && r.current.generation == gen
}

// ABOUTME: Domain model for a text selection captured from a context-menu action
// ABOUTME: Holds the selected word, its enclosing text and the pointer position

package domain

// SelectionContext is captured when the user opens the context menu over a selection
type SelectionContext struct {
	Word       string  `json:"word"`
	Context    string  `json:"context"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Generation uint64  `json:"generation"`
}

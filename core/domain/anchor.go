// ABOUTME: Domain models for locating quoted passages inside a mounted document
// ABOUTME: Describes anchor queries, highlight outcomes and scroll instructions

package domain

// AnchorStrategy names the search that located an anchor
type AnchorStrategy string

const (
	// AnchorStrategyBlock matched inside a single block-level element
	AnchorStrategyBlock AnchorStrategy = "block"
	// AnchorStrategyTextNode matched inside a single text node
	AnchorStrategyTextNode AnchorStrategy = "text-node"
	// AnchorStrategyFind matched through whole-document text search
	AnchorStrategyFind AnchorStrategy = "find"
)

// ScrollTarget tells the client what to bring into view and how
type ScrollTarget struct {
	ElementID string `json:"elementId,omitempty"`
	Selection bool   `json:"selection,omitempty"` // scroll the current selection instead of an element
	Block     string `json:"block"`
	Behavior  string `json:"behavior"`
}

// NewScrollTarget returns a centered, smooth scroll to the element with the given id
func NewScrollTarget(elementID string) *ScrollTarget {
	return &ScrollTarget{
		ElementID: elementID,
		Block:     "center",
		Behavior:  "smooth",
	}
}

// AnchorResult is the outcome of a successful anchor lookup
type AnchorResult struct {
	Query       string         `json:"query"`
	Strategy    AnchorStrategy `json:"strategy"`
	HighlightID string         `json:"highlightId,omitempty"`
	Managed     bool           `json:"managed"` // highlight will be removed automatically
	Scroll      *ScrollTarget  `json:"scroll"`
	Generation  uint64         `json:"generation"`
}

// ABOUTME: Busy-state model for a reading session
// ABOUTME: One coarse state prevents overlapping triggers of the same action class

package domain

// BusyState is the coarse activity of a session
type BusyState string

const (
	StateIdle           BusyState = "idle"
	StateLoadingArticle BusyState = "loading_article"
	StateDefining       BusyState = "defining"
	StateChatting       BusyState = "chatting"
	StateAnalyzingImage BusyState = "analyzing_image"
)

// String implements fmt.Stringer
func (s BusyState) String() string {
	return string(s)
}

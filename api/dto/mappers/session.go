// ABOUTME: Mappers from session results to response DTOs
// ABOUTME: Keeps handler code free of field-by-field copying

package mappers

import (
	"smart-reader-api/api/dto/responses"
	"smart-reader-api/core/domain"
	"smart-reader-api/core/session"
)

// SessionToResponse maps a session snapshot
func SessionToResponse(st session.State) responses.SessionResponse {
	return responses.SessionResponse{
		ID:         st.ID,
		Busy:       st.Busy,
		Speaking:   st.Speaking,
		Generation: st.Generation,
		URL:        st.URL,
		Messages:   st.Messages,
	}
}

// ArticleToResponse maps a loaded article. TextLength counts characters.
func ArticleToResponse(a *domain.Article, generation uint64) responses.ArticleResponse {
	resp := responses.ArticleResponse{
		Generation: generation,
		URL:        a.URL,
		Title:      a.Metadata.Title,
		Metadata:   a.Metadata,
		Markdown:   a.Markdown,
		Status:     a.Status,
		Error:      a.Error,
	}
	if a.Status == domain.StatusOK {
		resp.TextLength = len([]rune(a.Text.Text))
	}
	return resp
}

// AnchorToResponse maps a located anchor
func AnchorToResponse(r *domain.AnchorResult) responses.AnchorResponse {
	return responses.AnchorResponse{
		Found:       true,
		Strategy:    string(r.Strategy),
		HighlightID: r.HighlightID,
		Managed:     r.Managed,
		Scroll:      r.Scroll,
		Generation:  r.Generation,
	}
}

// ContextMenuToResponse maps a context-menu outcome at the reported position
func ContextMenuToResponse(r *session.ContextMenuResult, x, y float64) responses.ContextMenuResponse {
	resp := responses.ContextMenuResponse{
		Suppressed: r.Suppressed,
		X:          x,
		Y:          y,
	}
	if r.Selection != nil {
		resp.Word = r.Selection.Word
		resp.Context = r.Selection.Context
		resp.X = r.Selection.X
		resp.Y = r.Selection.Y
		resp.Generation = r.Selection.Generation
	}
	return resp
}

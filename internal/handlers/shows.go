package handlers

import (
	"net/http"
	"strings"

	"github.com/moviebuddies/backend/internal/logging"
	"github.com/moviebuddies/backend/internal/shows"
)

// ShowHandler proxies free-text searches to the external show catalog.
type ShowHandler struct {
	Shows ShowSearcher
}

type searchResponse struct {
	Response string       `json:"Response"`
	Search   []shows.Show `json:"Search"`
}

type searchError struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// Search handles GET /search-movies?s=term.
func (h ShowHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	term := strings.TrimSpace(r.URL.Query().Get("s"))
	if term == "" {
		respondJSON(ctx, w, http.StatusBadRequest, searchError{Response: "False", Error: "Search term required"})
		return
	}
	if h.Shows == nil {
		logging.FromContext(ctx).Error("show search provider unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, searchError{Response: "False", Error: "Error searching movies"})
		return
	}

	results, err := h.Shows.Search(ctx, term)
	if err != nil {
		logging.FromContext(ctx).Error("show search failed", "term", term, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, searchError{Response: "False", Error: "Error searching movies"})
		return
	}
	if results == nil {
		results = []shows.Show{}
	}
	respondJSON(ctx, w, http.StatusOK, searchResponse{Response: "True", Search: results})
}

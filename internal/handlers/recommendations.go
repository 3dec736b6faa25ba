package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/moviebuddies/backend/internal/apperr"
)

// RecommendationHandler serves the recommendation inbox.
type RecommendationHandler struct {
	Recommendations RecommendationService
}

type recommendRequest struct {
	FriendUsername string `json:"friend_username"`
	MovieTitle     string `json:"movie_title"`
}

type inboxItem struct {
	ID           int64  `json:"id"`
	MovieTitle   string `json:"movie_title"`
	FromUsername string `json:"from_username"`
}

// Send handles POST /friends/recommend.
func (h RecommendationHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := currentUser(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req recommendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}
	if strings.TrimSpace(req.FriendUsername) == "" {
		respondError(ctx, w, fmt.Errorf("%w: friend_username is required", apperr.ErrInvalidInput))
		return
	}

	if _, err := h.Recommendations.Send(ctx, user.ID, req.FriendUsername, req.MovieTitle); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondMessage(ctx, w, http.StatusCreated, "recommendation sent")
}

// List handles GET /recommendations.
func (h RecommendationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := currentUser(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	items, err := h.Recommendations.Inbox(ctx, user.ID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	out := make([]inboxItem, 0, len(items))
	for _, item := range items {
		out = append(out, inboxItem{ID: item.ID, MovieTitle: item.MovieTitle, FromUsername: item.FromUsername})
	}
	respondJSON(ctx, w, http.StatusOK, out)
}

// Delete handles DELETE /recommendations/{id}.
func (h RecommendationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := currentUser(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	recID, err := pathID(r, "id")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Recommendations.Delete(ctx, user.ID, recID); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondMessage(ctx, w, http.StatusOK, "recommendation deleted")
}

package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/moviebuddies/backend/internal/apperr"
)

// FriendHandler provides friendship endpoints.
type FriendHandler struct {
	Friends FriendService
}

type addFriendRequest struct {
	FriendUsername string `json:"friend_username"`
}

// List handles GET /friends.
func (h FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := currentUser(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	names, err := h.Friends.List(ctx, user.ID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, names)
}

// Add handles POST /friends/add.
func (h FriendHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := currentUser(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req addFriendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}
	if strings.TrimSpace(req.FriendUsername) == "" {
		respondError(ctx, w, fmt.Errorf("%w: friend_username is required", apperr.ErrInvalidInput))
		return
	}

	if err := h.Friends.Add(ctx, user.ID, req.FriendUsername); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondMessage(ctx, w, http.StatusCreated, "friend added")
}

// Movies handles GET /friends/{username}/movies.
func (h FriendHandler) Movies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := currentUser(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	lists, err := h.Friends.FriendMovies(ctx, user.ID, mux.Vars(r)["username"])
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, listsResponse(lists))
}

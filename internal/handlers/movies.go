package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/moviebuddies/backend/internal/models"
	"github.com/moviebuddies/backend/internal/movies"
)

// MovieHandler serves the caller's watch-list.
type MovieHandler struct {
	Movies MovieService
}

type movieItem struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Rating string `json:"rating"`
}

type addMovieRequest struct {
	Title  string `json:"title"`
	Status string `json:"status"`
}

type moveMovieRequest struct {
	NewList string `json:"new_list"`
}

type rateMovieRequest struct {
	Rating json.RawMessage `json:"rating"`
}

// listsResponse keys each bucket by its wire status name.
func listsResponse(lists models.MovieLists) map[models.MovieStatus][]movieItem {
	out := make(map[models.MovieStatus][]movieItem, len(models.Statuses))
	for status, bucket := range map[models.MovieStatus][]models.Movie{
		models.StatusToWatch:   lists.ToWatch,
		models.StatusWatching:  lists.Watching,
		models.StatusCompleted: lists.Completed,
	} {
		items := make([]movieItem, 0, len(bucket))
		for _, m := range bucket {
			items = append(items, movieItem{ID: m.ID, Title: m.Title, Rating: m.Rating})
		}
		out[status] = items
	}
	return out
}

// List handles GET /movies.
func (h MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := currentUser(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	lists, err := h.Movies.ListByOwner(ctx, user.ID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, listsResponse(lists))
}

// Create handles POST /movies.
func (h MovieHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := currentUser(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req addMovieRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	if _, err := h.Movies.Add(ctx, user.ID, req.Title, req.Status); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondMessage(ctx, w, http.StatusCreated, "movie added")
}

// Move handles PUT /movies/{id}/move.
func (h MovieHandler) Move(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := currentUser(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	movieID, err := pathID(r, "id")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req moveMovieRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Movies.Move(ctx, user.ID, movieID, req.NewList); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondMessage(ctx, w, http.StatusOK, "movie moved")
}

// Rate handles PUT /movies/{id}/rate. Ratings must be whole numbers from 1 to 10.
func (h MovieHandler) Rate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := currentUser(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	movieID, err := pathID(r, "id")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req rateMovieRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}
	rating, err := movies.ValidateRating(req.Rating)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Movies.Rate(ctx, user.ID, movieID, rating); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondMessage(ctx, w, http.StatusOK, "rating saved")
}

// Delete handles DELETE /movies/{id}.
func (h MovieHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := currentUser(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	movieID, err := pathID(r, "id")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Movies.Delete(ctx, user.ID, movieID); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondMessage(ctx, w, http.StatusOK, "movie deleted")
}

package repositories

import (
	"context"

	"github.com/moviebuddies/backend/internal/models"
)

// MovieRepository exposes data access for watch-list entries. Every mutation is
// scoped by the (movie id, owner id) pair and reports ErrNotFound when no row matched.
type MovieRepository interface {
	Create(ctx context.Context, movie models.Movie) (models.Movie, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Movie, error)
	UpdateStatus(ctx context.Context, ownerID, movieID int64, status models.MovieStatus) error
	UpdateRating(ctx context.Context, ownerID, movieID int64, rating string) error
	Delete(ctx context.Context, ownerID, movieID int64) error
}

package movies

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/moviebuddies/backend/internal/apperr"
	"github.com/moviebuddies/backend/internal/models"
	"github.com/moviebuddies/backend/internal/repositories"
)

// Service manages each user's watch-list. Every mutation is scoped to the
// owner in a single repository call.
type Service struct {
	repo repositories.MovieRepository
}

// NewService constructs a movie list service.
func NewService(repo repositories.MovieRepository) *Service {
	if repo == nil {
		panic("movies: repository must not be nil")
	}
	return &Service{repo: repo}
}

// ListByOwner returns the owner's movies partitioned by status.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) (models.MovieLists, error) {
	movies, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return models.MovieLists{}, fmt.Errorf("%w: list movies: %v", apperr.ErrStorage, err)
	}
	return models.PartitionMovies(movies), nil
}

// Add puts a title on the owner's list. An empty status defaults to To Watch.
func (s *Service) Add(ctx context.Context, ownerID int64, title, status string) (models.Movie, error) {
	if strings.TrimSpace(title) == "" {
		return models.Movie{}, fmt.Errorf("%w: title is required", apperr.ErrInvalidInput)
	}

	parsed := models.StatusToWatch
	if strings.TrimSpace(status) != "" {
		var ok bool
		if parsed, ok = models.ParseStatus(status); !ok {
			return models.Movie{}, fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidInput, status)
		}
	}

	movie, err := s.repo.Create(ctx, models.Movie{
		OwnerID: ownerID,
		Title:   title,
		Status:  parsed,
		Rating:  models.UnratedSentinel,
	})
	if err != nil {
		return models.Movie{}, translate("add movie", err)
	}
	return movie, nil
}

// Move changes the status of a movie owned by ownerID.
func (s *Service) Move(ctx context.Context, ownerID, movieID int64, newStatus string) error {
	status, ok := models.ParseStatus(newStatus)
	if !ok {
		return fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidInput, newStatus)
	}
	return translate("move movie", s.repo.UpdateStatus(ctx, ownerID, movieID, status))
}

// Rate stores the rating as given on a movie owned by ownerID. Range checks
// belong to ValidateRating, which callers consult first.
func (s *Service) Rate(ctx context.Context, ownerID, movieID int64, rating string) error {
	return translate("rate movie", s.repo.UpdateRating(ctx, ownerID, movieID, rating))
}

// Delete removes a movie owned by ownerID.
func (s *Service) Delete(ctx context.Context, ownerID, movieID int64) error {
	return translate("delete movie", s.repo.Delete(ctx, ownerID, movieID))
}

func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%w: movie", apperr.ErrNotFound)
	default:
		return fmt.Errorf("%w: %s: %v", apperr.ErrStorage, op, err)
	}
}

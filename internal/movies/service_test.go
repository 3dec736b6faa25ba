package movies

import (
	"context"
	"errors"
	"testing"

	"github.com/moviebuddies/backend/internal/apperr"
	"github.com/moviebuddies/backend/internal/models"
	"github.com/moviebuddies/backend/internal/repositories"
)

type brokenMovieRepo struct {
	repositories.MovieRepository
	err error
}

func (r brokenMovieRepo) ListByOwner(context.Context, int64) ([]models.Movie, error) {
	return nil, r.err
}

func (r brokenMovieRepo) UpdateStatus(context.Context, int64, int64, models.MovieStatus) error {
	return r.err
}

func setup(t *testing.T) (*Service, models.User, models.User) {
	t.Helper()
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	owner, err := store.Users().Create(ctx, models.User{Username: "owner"})
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	other, err := store.Users().Create(ctx, models.User{Username: "other"})
	if err != nil {
		t.Fatalf("create other: %v", err)
	}
	return NewService(store.Movies()), owner, other
}

func TestServiceAddDefaultsToWatch(t *testing.T) {
	ctx := context.Background()
	svc, owner, _ := setup(t)

	movie, err := svc.Add(ctx, owner.ID, "Inception", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if movie.Status != models.StatusToWatch || movie.Rating != models.UnratedSentinel {
		t.Fatalf("unexpected defaults: %+v", movie)
	}

	lists, err := svc.ListByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lists.ToWatch) != 1 || lists.ToWatch[0].Title != "Inception" || lists.ToWatch[0].Rating != "-" {
		t.Fatalf("unexpected lists: %+v", lists)
	}
	if len(lists.Watching) != 0 || len(lists.Completed) != 0 {
		t.Fatalf("expected other lists to be empty: %+v", lists)
	}
}

func TestServiceAddValidation(t *testing.T) {
	ctx := context.Background()
	svc, owner, _ := setup(t)

	if _, err := svc.Add(ctx, owner.ID, "  ", ""); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank title, got %v", err)
	}
	if _, err := svc.Add(ctx, owner.ID, "Heat", "Dropped"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown status, got %v", err)
	}

	movie, err := svc.Add(ctx, owner.ID, "Heat", "Watching")
	if err != nil {
		t.Fatalf("add with status: %v", err)
	}
	if movie.Status != models.StatusWatching {
		t.Fatalf("expected watching, got %q", movie.Status)
	}
}

func TestServiceOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	svc, owner, other := setup(t)

	movie, err := svc.Add(ctx, owner.ID, "Dune", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := svc.Move(ctx, other.ID, movie.ID, "Completed"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found moving another user's movie, got %v", err)
	}
	if err := svc.Rate(ctx, other.ID, movie.ID, "3"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found rating another user's movie, got %v", err)
	}
	if err := svc.Delete(ctx, other.ID, movie.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found deleting another user's movie, got %v", err)
	}

	lists, err := svc.ListByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lists.ToWatch) != 1 || lists.ToWatch[0].Rating != "-" {
		t.Fatalf("movie must be unchanged: %+v", lists)
	}
}

func TestServiceMoveRateDelete(t *testing.T) {
	ctx := context.Background()
	svc, owner, _ := setup(t)

	movie, err := svc.Add(ctx, owner.ID, "Dune", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := svc.Move(ctx, owner.ID, movie.ID, "Finished"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input for bad status, got %v", err)
	}
	if err := svc.Move(ctx, owner.ID, movie.ID, "Completed"); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := svc.Rate(ctx, owner.ID, movie.ID, "9"); err != nil {
		t.Fatalf("rate: %v", err)
	}

	lists, err := svc.ListByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lists.Completed) != 1 || lists.Completed[0].Rating != "9" {
		t.Fatalf("unexpected completed list: %+v", lists.Completed)
	}

	if err := svc.Delete(ctx, owner.ID, movie.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Move(ctx, owner.ID, movie.ID, "Watching"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestServiceStorageErrors(t *testing.T) {
	ctx := context.Background()
	svc := NewService(brokenMovieRepo{err: errors.New("db down")})

	if _, err := svc.ListByOwner(ctx, 1); !errors.Is(err, apperr.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if err := svc.Move(ctx, 1, 1, "Watching"); !errors.Is(err, apperr.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

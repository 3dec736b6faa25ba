package friends

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/moviebuddies/backend/internal/apperr"
	"github.com/moviebuddies/backend/internal/logging"
	"github.com/moviebuddies/backend/internal/models"
	"github.com/moviebuddies/backend/internal/repositories"
)

// UserLookup resolves usernames to accounts.
type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// MovieLister reads another user's movies when sharing lists between friends.
type MovieLister interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Movie, error)
}

// Service manages the symmetric friendship relation between users.
type Service struct {
	users   UserLookup
	friends repositories.FriendRepository
	movies  MovieLister
}

// NewService constructs a friendship service.
func NewService(users UserLookup, friends repositories.FriendRepository, movies MovieLister) *Service {
	if users == nil || friends == nil || movies == nil {
		panic("friends: dependencies must not be nil")
	}
	return &Service{users: users, friends: friends, movies: movies}
}

// AreFriends reports whether a friendship row exists in either direction.
func (s *Service) AreFriends(ctx context.Context, userID, otherID int64) (bool, error) {
	ok, err := s.friends.Exists(ctx, userID, otherID)
	if err != nil {
		return false, fmt.Errorf("%w: check friendship: %v", apperr.ErrStorage, err)
	}
	return ok, nil
}

// Add befriends requesterID and the user named targetUsername. Both directed
// rows are written together or not at all.
func (s *Service) Add(ctx context.Context, requesterID int64, targetUsername string) (err error) {
	ctx, span := logging.StartSpan(ctx, "friends.add")
	defer func() {
		span.Fail(err)
		span.End()
	}()

	target, err := s.resolve(ctx, targetUsername)
	if err != nil {
		return err
	}
	if target.ID == requesterID {
		return fmt.Errorf("%w: cannot befriend yourself", apperr.ErrInvalidInput)
	}

	already, err := s.AreFriends(ctx, requesterID, target.ID)
	if err != nil {
		return err
	}
	if already {
		return apperr.ErrAlreadyFriends
	}

	if err := s.friends.CreatePair(ctx, requesterID, target.ID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrConflict):
			return apperr.ErrAlreadyFriends
		case errors.Is(err, repositories.ErrNotFound):
			return fmt.Errorf("%w: user", apperr.ErrNotFound)
		default:
			return fmt.Errorf("%w: create friendship: %v", apperr.ErrStorage, err)
		}
	}

	logging.FromContext(ctx).Info("friendship created",
		slog.Int64("user_id", requesterID),
		slog.Int64("friend_id", target.ID),
	)
	return nil
}

// List returns the usernames of everyone userID is friends with, sorted.
func (s *Service) List(ctx context.Context, userID int64) ([]string, error) {
	names, err := s.friends.ListFriendUsernames(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list friends: %v", apperr.ErrStorage, err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// FriendMovies returns the lists of the user named username, provided the
// viewer is their friend. Each list is ordered by title.
func (s *Service) FriendMovies(ctx context.Context, viewerID int64, username string) (models.MovieLists, error) {
	friend, err := s.resolve(ctx, username)
	if err != nil {
		return models.MovieLists{}, err
	}

	ok, err := s.AreFriends(ctx, viewerID, friend.ID)
	if err != nil {
		return models.MovieLists{}, err
	}
	if !ok {
		return models.MovieLists{}, fmt.Errorf("%w: not friends with %s", apperr.ErrForbidden, username)
	}

	movies, err := s.movies.ListByOwner(ctx, friend.ID)
	if err != nil {
		return models.MovieLists{}, fmt.Errorf("%w: list friend movies: %v", apperr.ErrStorage, err)
	}
	sort.SliceStable(movies, func(i, j int) bool { return movies[i].Title < movies[j].Title })
	return models.PartitionMovies(movies), nil
}

func (s *Service) resolve(ctx context.Context, username string) (models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.User{}, fmt.Errorf("%w: user", apperr.ErrNotFound)
		}
		return models.User{}, fmt.Errorf("%w: find user: %v", apperr.ErrStorage, err)
	}
	return user, nil
}

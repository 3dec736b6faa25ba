package handlers

import (
	"context"

	"github.com/moviebuddies/backend/internal/models"
	"github.com/moviebuddies/backend/internal/shows"
)

// AccountService registers users and checks their passwords.
type AccountService interface {
	Register(ctx context.Context, username, password string) (models.User, error)
	Authenticate(ctx context.Context, username, password string) (models.User, error)
}

// SessionService issues bearer tokens and resolves them to users.
type SessionService interface {
	Issue(username string) (string, error)
	Validate(ctx context.Context, token string) (models.User, error)
}

// MovieService manages the caller's own watch-list.
type MovieService interface {
	ListByOwner(ctx context.Context, ownerID int64) (models.MovieLists, error)
	Add(ctx context.Context, ownerID int64, title, status string) (models.Movie, error)
	Move(ctx context.Context, ownerID, movieID int64, newStatus string) error
	Rate(ctx context.Context, ownerID, movieID int64, rating string) error
	Delete(ctx context.Context, ownerID, movieID int64) error
}

// FriendService manages friendships and list sharing.
type FriendService interface {
	Add(ctx context.Context, requesterID int64, targetUsername string) error
	List(ctx context.Context, userID int64) ([]string, error)
	FriendMovies(ctx context.Context, viewerID int64, username string) (models.MovieLists, error)
}

// RecommendationService delivers recommendations between friends.
type RecommendationService interface {
	Send(ctx context.Context, fromID int64, toUsername, title string) (models.Recommendation, error)
	Inbox(ctx context.Context, userID int64) ([]models.InboxItem, error)
	Delete(ctx context.Context, userID, recommendationID int64) error
}

// ShowSearcher queries the external show catalog.
type ShowSearcher interface {
	Search(ctx context.Context, term string) ([]shows.Show, error)
}

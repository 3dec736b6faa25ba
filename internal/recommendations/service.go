package recommendations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/moviebuddies/backend/internal/apperr"
	"github.com/moviebuddies/backend/internal/logging"
	"github.com/moviebuddies/backend/internal/models"
	"github.com/moviebuddies/backend/internal/repositories"
)

// UserLookup resolves usernames to accounts.
type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// FriendChecker reports whether two users are friends.
type FriendChecker interface {
	AreFriends(ctx context.Context, userID, otherID int64) (bool, error)
}

// Service delivers movie recommendations between friends.
type Service struct {
	users   UserLookup
	friends FriendChecker
	recs    repositories.RecommendationRepository
}

// NewService constructs a recommendation service.
func NewService(users UserLookup, friends FriendChecker, recs repositories.RecommendationRepository) *Service {
	if users == nil || friends == nil || recs == nil {
		panic("recommendations: dependencies must not be nil")
	}
	return &Service{users: users, friends: friends, recs: recs}
}

// Send recommends title from fromID to the user named toUsername. Repeated
// recommendations of the same title are kept.
func (s *Service) Send(ctx context.Context, fromID int64, toUsername, title string) (_ models.Recommendation, err error) {
	ctx, span := logging.StartSpan(ctx, "recommendations.send")
	defer func() {
		span.Fail(err)
		span.End()
	}()

	if strings.TrimSpace(title) == "" {
		return models.Recommendation{}, fmt.Errorf("%w: movie title is required", apperr.ErrInvalidInput)
	}

	recipient, err := s.users.FindByUsername(ctx, toUsername)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Recommendation{}, fmt.Errorf("%w: user", apperr.ErrNotFound)
		}
		return models.Recommendation{}, fmt.Errorf("%w: find user: %v", apperr.ErrStorage, err)
	}

	ok, err := s.friends.AreFriends(ctx, fromID, recipient.ID)
	if err != nil {
		return models.Recommendation{}, err
	}
	if !ok {
		return models.Recommendation{}, fmt.Errorf("%w: not friends with %s", apperr.ErrForbidden, toUsername)
	}

	rec, err := s.recs.Create(ctx, models.Recommendation{
		FromUserID: fromID,
		ToUserID:   recipient.ID,
		MovieTitle: title,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Recommendation{}, fmt.Errorf("%w: user", apperr.ErrNotFound)
		}
		return models.Recommendation{}, fmt.Errorf("%w: create recommendation: %v", apperr.ErrStorage, err)
	}

	logging.FromContext(ctx).Info("recommendation sent",
		slog.Int64("recommendation_id", rec.ID),
		slog.Int64("from_user_id", fromID),
		slog.Int64("to_user_id", recipient.ID),
	)
	return rec, nil
}

// Inbox lists recommendations addressed to userID, newest first.
func (s *Service) Inbox(ctx context.Context, userID int64) ([]models.InboxItem, error) {
	items, err := s.recs.ListInbox(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list inbox: %v", apperr.ErrStorage, err)
	}
	if items == nil {
		items = []models.InboxItem{}
	}
	return items, nil
}

// Delete removes a recommendation. Only its recipient may delete it.
func (s *Service) Delete(ctx context.Context, userID, recommendationID int64) error {
	if err := s.recs.Delete(ctx, userID, recommendationID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: recommendation", apperr.ErrNotFound)
		}
		return fmt.Errorf("%w: delete recommendation: %v", apperr.ErrStorage, err)
	}
	return nil
}

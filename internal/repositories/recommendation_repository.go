package repositories

import (
	"context"

	"github.com/moviebuddies/backend/internal/models"
)

// RecommendationRepository exposes data access for recommendation inboxes.
type RecommendationRepository interface {
	Create(ctx context.Context, rec models.Recommendation) (models.Recommendation, error)
	ListInbox(ctx context.Context, toUserID int64) ([]models.InboxItem, error)
	Delete(ctx context.Context, toUserID, recommendationID int64) error
}

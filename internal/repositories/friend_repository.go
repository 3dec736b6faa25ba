package repositories

import (
	"context"
)

// FriendRepository defines data access for the symmetric friendship relation.
// A friendship is stored as two directed rows which are always written together.
type FriendRepository interface {
	Exists(ctx context.Context, userID, otherID int64) (bool, error)
	CreatePair(ctx context.Context, userID, friendID int64) error
	ListFriendUsernames(ctx context.Context, userID int64) ([]string, error)
}

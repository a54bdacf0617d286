package repositories

import (
	"context"
)

// FriendRepository defines data access for friendships. Every friendship is
// stored as two mirrored directed rows which are always written and removed
// together.
type FriendRepository interface {
	Add(ctx context.Context, userID, friendID int64) error
	Remove(ctx context.Context, userID, friendID int64) error
	ListFriendIDs(ctx context.Context, userID int64) ([]int64, error)
	ListAll(ctx context.Context) (map[int64][]int64, error)
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/filmorate/backend/internal/logging"
	"github.com/filmorate/backend/internal/metrics"
	"github.com/filmorate/backend/internal/models"
)

// Friends maintains the symmetric friendship relation between users.
type Friends struct {
	users   UserStore
	friends FriendStore
}

// NewFriends constructs the friendship graph over the provided stores.
func NewFriends(users UserStore, friends FriendStore) *Friends {
	return &Friends{users: users, friends: friends}
}

// Add connects a and b. Adding an existing friendship is a no-op.
func (f *Friends) Add(ctx context.Context, a, b int64) error {
	if err := f.requireUsers(ctx, a, b); err != nil {
		return err
	}
	if a == b {
		return fmt.Errorf("user %d cannot befriend themselves: %w", a, ErrValidation)
	}

	if err := f.friends.Add(ctx, a, b); err != nil {
		return fmt.Errorf("add friendship %d-%d: %w", a, b, err)
	}

	metrics.FriendshipOperations.WithLabelValues("add").Inc()
	logging.FromContext(ctx).Info("friend added", slog.Int64("userId", a), slog.Int64("friendId", b))
	return nil
}

// Remove disconnects a and b. Removing a missing friendship is a no-op.
func (f *Friends) Remove(ctx context.Context, a, b int64) error {
	if err := f.requireUsers(ctx, a, b); err != nil {
		return err
	}

	if err := f.friends.Remove(ctx, a, b); err != nil {
		return fmt.Errorf("remove friendship %d-%d: %w", a, b, err)
	}

	metrics.FriendshipOperations.WithLabelValues("remove").Inc()
	logging.FromContext(ctx).Info("friend removed", slog.Int64("userId", a), slog.Int64("friendId", b))
	return nil
}

// IDs returns the ids of a's friends in ascending order.
func (f *Friends) IDs(ctx context.Context, a int64) ([]int64, error) {
	if err := f.requireUsers(ctx, a); err != nil {
		return nil, err
	}
	return f.ids(ctx, a)
}

// List returns a's friends as full user records.
func (f *Friends) List(ctx context.Context, a int64) ([]models.User, error) {
	ids, err := f.IDs(ctx, a)
	if err != nil {
		return nil, err
	}
	return f.resolve(ctx, ids)
}

// CommonIDs returns the ids befriended by both a and b, excluding a and b.
func (f *Friends) CommonIDs(ctx context.Context, a, b int64) ([]int64, error) {
	if err := f.requireUsers(ctx, a, b); err != nil {
		return nil, err
	}

	left, err := f.ids(ctx, a)
	if err != nil {
		return nil, err
	}
	right, err := f.ids(ctx, b)
	if err != nil {
		return nil, err
	}

	inRight := make(map[int64]struct{}, len(right))
	for _, id := range right {
		inRight[id] = struct{}{}
	}

	common := []int64{}
	for _, id := range left {
		if id == a || id == b {
			continue
		}
		if _, ok := inRight[id]; ok {
			common = append(common, id)
		}
	}
	return common, nil
}

// Common returns the friends shared by a and b as full user records.
func (f *Friends) Common(ctx context.Context, a, b int64) ([]models.User, error) {
	ids, err := f.CommonIDs(ctx, a, b)
	if err != nil {
		return nil, err
	}
	return f.resolve(ctx, ids)
}

func (f *Friends) ids(ctx context.Context, userID int64) ([]int64, error) {
	ids, err := f.friends.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list friends of user %d: %w", userID, err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

func (f *Friends) resolve(ctx context.Context, ids []int64) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		user, err := f.users.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load friend %d: %w", id, err)
		}
		friendIDs, err := f.ids(ctx, id)
		if err != nil {
			return nil, err
		}
		user.Friends = friendIDs
		users = append(users, user)
	}
	return users, nil
}

func (f *Friends) requireUsers(ctx context.Context, ids ...int64) error {
	for _, id := range ids {
		if _, err := f.users.FindByID(ctx, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("user %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("load user %d: %w", id, err)
		}
	}
	return nil
}

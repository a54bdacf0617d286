package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/filmorate/backend/internal/logging"
	"github.com/filmorate/backend/internal/models"
)

// DefaultName returns login when name is empty or only whitespace.
func DefaultName(name, login string) string {
	if strings.TrimSpace(name) == "" {
		return login
	}
	return name
}

// Users assembles users from the store and the friendship graph.
type Users struct {
	users   UserStore
	friends FriendStore
}

// NewUsers constructs the user service.
func NewUsers(users UserStore, friends FriendStore) *Users {
	return &Users{users: users, friends: friends}
}

// Create stores a new user, defaulting its display name to the login.
func (s *Users) Create(ctx context.Context, user models.User) (models.User, error) {
	user.Name = DefaultName(user.Name, user.Login)

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	logging.FromContext(ctx).Info("user created", slog.Int64("userId", created.ID))
	created.Friends = []int64{}
	return created, nil
}

// Update replaces an existing user. Unknown ids fail with ErrNotFound.
func (s *Users) Update(ctx context.Context, user models.User) (models.User, error) {
	user.Name = DefaultName(user.Name, user.Login)

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.User{}, fmt.Errorf("user %d: %w", user.ID, ErrNotFound)
		}
		return models.User{}, fmt.Errorf("update user %d: %w", user.ID, err)
	}

	logging.FromContext(ctx).Info("user updated", slog.Int64("userId", updated.ID))
	return s.withFriends(ctx, updated)
}

// Get returns the user with the given id and its friend ids.
func (s *Users) Get(ctx context.Context, id int64) (models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return models.User{}, fmt.Errorf("load user %d: %w", id, err)
	}
	return s.withFriends(ctx, user)
}

// List returns every user ordered by id.
func (s *Users) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	friends, err := s.friends.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}

	for i := range users {
		ids := friends[users[i].ID]
		if ids == nil {
			ids = []int64{}
		}
		users[i].Friends = ids
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Delete removes the user along with its friendships and likes.
func (s *Users) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	logging.FromContext(ctx).Info("user deleted", slog.Int64("userId", id))
	return nil
}

func (s *Users) withFriends(ctx context.Context, user models.User) (models.User, error) {
	ids, err := s.friends.ListFriendIDs(ctx, user.ID)
	if err != nil {
		return models.User{}, fmt.Errorf("list friends of user %d: %w", user.ID, err)
	}
	if ids == nil {
		ids = []int64{}
	}
	user.Friends = ids
	return user, nil
}

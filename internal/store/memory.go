package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps users in process memory. It backs memory:// URLs and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[string]*User
	byUsername map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]*User),
		byUsername: make(map[string]string),
	}
}

// CreateUser inserts a new user, failing with ErrUserExists on a taken name.
func (s *MemoryStore) CreateUser(ctx context.Context, username, passwordHash string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[username]; taken {
		return User{}, ErrUserExists
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		Favorites:    []int64{},
		CreatedAt:    time.Now().UTC(),
	}
	s.users[user.ID] = user
	s.byUsername[username] = user.ID

	return cloneUser(user), nil
}

// UserByUsername returns the user registered under username.
func (s *MemoryStore) UserByUsername(ctx context.Context, username string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return cloneUser(s.users[id]), nil
}

// UserByID returns the user with the given identifier.
func (s *MemoryStore) UserByID(ctx context.Context, id string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return cloneUser(user), nil
}

// AddFavorite appends movieID to the user's favorites.
func (s *MemoryStore) AddFavorite(ctx context.Context, userID string, movieID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if user.HasFavorite(movieID) {
		return ErrFavoriteExists
	}
	user.Favorites = append(user.Favorites, movieID)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close(context.Context) error {
	return nil
}

func cloneUser(u *User) User {
	clone := *u
	clone.Favorites = append([]int64{}, u.Favorites...)
	return clone
}

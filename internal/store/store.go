package store

import (
	"context"
	"errors"
	"slices"
	"time"
)

var (
	// ErrUserExists signals the username is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound indicates no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")
	// ErrFavoriteExists indicates the movie is already in the user's favorites.
	ErrFavoriteExists = errors.New("favorite already exists")
)

// User is the persisted identity record.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Favorites    []int64   `json:"favorites"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasFavorite reports whether movieID is already among the user's favorites.
func (u User) HasFavorite(movieID int64) bool {
	return slices.Contains(u.Favorites, movieID)
}

// Store is the narrow persistence contract the services depend on. Every
// implementation must make AddFavorite atomic per user: the membership check
// and the append happen as one operation.
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash string) (User, error)
	UserByUsername(ctx context.Context, username string) (User, error)
	UserByID(ctx context.Context, id string) (User, error)
	AddFavorite(ctx context.Context, userID string, movieID int64) error
	Close(ctx context.Context) error
}

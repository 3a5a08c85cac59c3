package favorites

import (
	"context"
	"errors"

	"cineshelf/internal/store"
)

// ErrInvalidMovieID indicates a movie id that is not a positive integer.
var ErrInvalidMovieID = errors.New("movie id must be a positive integer")

// Store defines persistence operations required for favorites workflows.
type Store interface {
	UserByID(ctx context.Context, id string) (store.User, error)
	AddFavorite(ctx context.Context, userID string, movieID int64) error
}

// Service describes high level favorites operations used by HTTP handlers.
type Service interface {
	Add(ctx context.Context, userID string, movieID int64) (bool, error)
	List(ctx context.Context, userID string) ([]int64, error)
}

type service struct {
	store Store
}

// New constructs a favorites Service backed by the given store.
func New(st Store) Service {
	return &service{store: st}
}

// Add reports false when the movie was already a favorite.
func (s *service) Add(ctx context.Context, userID string, movieID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if movieID <= 0 {
		return false, ErrInvalidMovieID
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user.HasFavorite(movieID) {
		return false, nil
	}

	if err := s.store.AddFavorite(ctx, userID, movieID); err != nil {
		if errors.Is(err, store.ErrFavoriteExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *service) List(ctx context.Context, userID string) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Favorites == nil {
		return []int64{}, nil
	}
	return user.Favorites, nil
}

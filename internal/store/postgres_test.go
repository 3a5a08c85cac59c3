package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMockPostgres(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock
}

func TestPostgresCreateUserSuccess(t *testing.T) {
	s, mock := newMockPostgres(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (username, password_hash)`)).
		WithArgs("alice", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(12), created))

	user, err := s.CreateUser(context.Background(), "alice", "hash")
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if user.ID != "12" || user.Username != "alice" || !user.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user: %#v", user)
	}
	if user.Favorites == nil || len(user.Favorites) != 0 {
		t.Fatalf("expected empty favorites, got %v", user.Favorites)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresCreateUserDuplicate(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (username, password_hash)`)).
		WithArgs("alice", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	if _, err := s.CreateUser(context.Background(), "alice", "hash"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestPostgresUserByUsernameLoadsFavorites(t *testing.T) {
	s, mock := newMockPostgres(t)
	created := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE username = $1`)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
			AddRow(int64(3), "alice", "hash", created))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM favorites`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"movie_id"}).AddRow(int64(42)).AddRow(int64(7)))

	user, err := s.UserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("UserByUsername error: %v", err)
	}
	if user.ID != "3" || user.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %#v", user)
	}
	if len(user.Favorites) != 2 || user.Favorites[0] != 42 || user.Favorites[1] != 7 {
		t.Fatalf("unexpected favorites: %v", user.Favorites)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresUserByIDNotFound(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}))

	if _, err := s.UserByID(context.Background(), "99"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := s.UserByID(context.Background(), "not-a-number"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for malformed id, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresAddFavorite(t *testing.T) {
	tests := []struct {
		name     string
		result   func(*sqlmock.ExpectedExec)
		wantErr  error
		anyError bool
	}{
		{
			name:   "inserted",
			result: func(e *sqlmock.ExpectedExec) { e.WillReturnResult(sqlmock.NewResult(1, 1)) },
		},
		{
			name:    "already present",
			result:  func(e *sqlmock.ExpectedExec) { e.WillReturnResult(sqlmock.NewResult(0, 0)) },
			wantErr: ErrFavoriteExists,
		},
		{
			name: "user vanished",
			result: func(e *sqlmock.ExpectedExec) {
				e.WillReturnError(&pgconn.PgError{Code: "23503"})
			},
			wantErr: ErrUserNotFound,
		},
		{
			name:     "database failure",
			result:   func(e *sqlmock.ExpectedExec) { e.WillReturnError(errors.New("connection reset")) },
			anyError: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			s, mock := newMockPostgres(t)

			exec := mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (user_id, movie_id) DO NOTHING`)).
				WithArgs(int64(5), int64(42))
			tc.result(exec)

			err := s.AddFavorite(context.Background(), "5", 42)
			switch {
			case tc.wantErr != nil:
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
			case tc.anyError:
				if err == nil || errors.Is(err, ErrFavoriteExists) || errors.Is(err, ErrUserNotFound) {
					t.Fatalf("expected a wrapped database error, got %v", err)
				}
			default:
				if err != nil {
					t.Fatalf("AddFavorite error: %v", err)
				}
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

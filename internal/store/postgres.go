package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore persists users and favorites in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore sets up a store using the provided database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres establishes a database connection and retries until the
// instance responds or maxWait elapses.
func OpenPostgres(ctx context.Context, dsn string, maxWait time.Duration) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	const (
		pingTimeout    = 5 * time.Second
		initialBackoff = 500 * time.Millisecond
		maxBackoff     = 5 * time.Second
	)

	deadline := time.Now().Add(maxWait)
	backoff := initialBackoff
	var lastErr error

	for {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = db.PingContext(pingCtx)
		cancel()

		if lastErr == nil {
			return db, nil
		}

		if ctx.Err() != nil || time.Now().After(deadline) {
			break
		}

		time.Sleep(backoff)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	_ = db.Close()
	return nil, fmt.Errorf("ping database: %w", lastErr)
}

// CreateUser inserts a user row and returns the stored record.
func (s *PostgresStore) CreateUser(ctx context.Context, username, passwordHash string) (User, error) {
	var (
		id        int64
		createdAt time.Time
	)
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, username, passwordHash).Scan(&id, &createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUserExists
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	return User{
		ID:           strconv.FormatInt(id, 10),
		Username:     username,
		PasswordHash: passwordHash,
		Favorites:    []int64{},
		CreatedAt:    createdAt,
	}, nil
}

// UserByUsername looks a user up by its unique name.
func (s *PostgresStore) UserByUsername(ctx context.Context, username string) (User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`, username)
	return s.scanUser(ctx, row)
}

// UserByID looks a user up by primary key.
func (s *PostgresStore) UserByID(ctx context.Context, id string) (User, error) {
	userID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return User{}, ErrUserNotFound
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE id = $1
	`, userID)
	return s.scanUser(ctx, row)
}

// AddFavorite inserts the favorite unless the pair already exists. The
// unique (user_id, movie_id) constraint makes the check atomic.
func (s *PostgresStore) AddFavorite(ctx context.Context, userID string, movieID int64) error {
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return ErrUserNotFound
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, movie_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, movie_id) DO NOTHING
	`, id, movieID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("insert favorite: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrFavoriteExists
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close(context.Context) error {
	return s.db.Close()
}

func (s *PostgresStore) scanUser(ctx context.Context, row *sql.Row) (User, error) {
	var (
		id   int64
		user User
	)
	if err := row.Scan(&id, &user.Username, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("lookup user: %w", err)
	}
	user.ID = strconv.FormatInt(id, 10)

	favorites, err := s.listFavorites(ctx, id)
	if err != nil {
		return User{}, err
	}
	user.Favorites = favorites
	return user, nil
}

func (s *PostgresStore) listFavorites(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT movie_id
		FROM favorites
		WHERE user_id = $1
		ORDER BY id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select favorites: %w", err)
	}
	defer rows.Close()

	favorites := []int64{}
	for rows.Next() {
		var movieID int64
		if err := rows.Scan(&movieID); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favorites = append(favorites, movieID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return favorites, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"cineshelf/internal/app/movies"
	"cineshelf/internal/http/middleware"
	"cineshelf/internal/store"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// UserService captures the account operations needed by the HTTP handlers.
type UserService interface {
	Register(ctx context.Context, username, password string) (store.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// FavoritesService coordinates favoriting workflows.
type FavoritesService interface {
	Add(ctx context.Context, userID string, movieID int64) (bool, error)
	List(ctx context.Context, userID string) ([]int64, error)
}

// MovieService proxies the movie metadata API.
type MovieService interface {
	Discover(ctx context.Context, f movies.Filter) (json.RawMessage, error)
	Search(ctx context.Context, query string) (json.RawMessage, error)
	Details(ctx context.Context, id string) (json.RawMessage, error)
	Upcoming(ctx context.Context) (json.RawMessage, error)
	Videos(ctx context.Context, id string) (json.RawMessage, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users       UserService
	favorites   FavoritesService
	movies      MovieService
	verifier    middleware.TokenVerifier
	authLimiter *middleware.RateLimiter
}

// Option customises a Server.
type Option func(*Server)

// WithAuthRateLimiter throttles /register and /login per client.
func WithAuthRateLimiter(rl *middleware.RateLimiter) Option {
	return func(s *Server) {
		s.authLimiter = rl
	}
}

// New configures a Server with the given services.
func New(users UserService, favorites FavoritesService, movieService MovieService, verifier middleware.TokenVerifier, opts ...Option) *Server {
	s := &Server{
		users:     users,
		favorites: favorites,
		movies:    movieService,
		verifier:  verifier,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes exposes the HTTP handlers for movies, accounts and favorites.
func (s *Server) Routes() http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found", "")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
	})

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	// Movie proxy
	router.HandleFunc("/movies", s.handleDiscover).Methods(http.MethodGet)
	router.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	router.HandleFunc("/upcoming", s.handleUpcoming).Methods(http.MethodGet)
	router.HandleFunc("/movie/{id}", s.handleMovie).Methods(http.MethodGet)
	router.HandleFunc("/movie/{id}/videos", s.handleVideos).Methods(http.MethodGet)

	// Accounts
	router.Handle("/register", s.throttled(http.HandlerFunc(s.handleRegister))).Methods(http.MethodPost)
	router.Handle("/login", s.throttled(http.HandlerFunc(s.handleLogin))).Methods(http.MethodPost)

	// Favorites
	requireAuth := middleware.RequireAuth(s.verifier)
	router.Handle("/favorites", requireAuth(http.HandlerFunc(s.handleAddFavorite))).Methods(http.MethodPost)
	router.Handle("/favorites", requireAuth(http.HandlerFunc(s.handleListFavorites))).Methods(http.MethodGet)

	return router
}

func (s *Server) throttled(next http.Handler) http.Handler {
	if s.authLimiter == nil {
		return next
	}
	return s.authLimiter.Middleware(next)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{Error: message, Details: details})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

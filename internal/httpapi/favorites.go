package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"cineshelf/internal/app/favorites"
	"cineshelf/internal/http/middleware"
	"cineshelf/internal/logging"
	"cineshelf/internal/store"
)

type favoriteRequest struct {
	MovieID json.RawMessage `json:"movieId"`
}

var errMovieIDFormat = errors.New("movieId must be an integer")

// parseMovieID accepts a JSON integer or a string holding one.
func parseMovieID(raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, errMovieIDFormat
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, errMovieIDFormat
		}
		text = strings.TrimSpace(text)
	}

	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, errMovieIDFormat
	}
	return id, nil
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token", "")
		return
	}

	var req favoriteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload", "")
		return
	}
	movieID, err := parseMovieID(req.MovieID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	added, err := s.favorites.Add(r.Context(), userID, movieID)
	if err != nil {
		s.favoritesError(w, r, err)
		return
	}
	if !added {
		writeError(w, http.StatusBadRequest, "movie already in favorites", "")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "movie added to favorites"})
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token", "")
		return
	}

	ids, err := s.favorites.List(r.Context(), userID)
	if err != nil {
		s.favoritesError(w, r, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	writeJSON(w, http.StatusOK, ids)
}

func (s *Server) favoritesError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, favorites.ErrInvalidMovieID):
		writeError(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, store.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found", "")
	default:
		logging.FromContext(r.Context()).Error().Err(err).Msg("favorites request failed")
		writeError(w, http.StatusInternalServerError, "favorites request failed", "")
	}
}

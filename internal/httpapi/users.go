package httpapi

import (
	"errors"
	"net/http"

	"cineshelf/internal/app/users"
	"cineshelf/internal/logging"
	"cineshelf/internal/store"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload", "")
		return
	}

	user, err := s.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrMissingCredentials):
			writeError(w, http.StatusBadRequest, err.Error(), "")
		case errors.Is(err, store.ErrUserExists):
			writeError(w, http.StatusBadRequest, "username already taken", "")
		default:
			logging.FromContext(r.Context()).Error().Err(err).Msg("register failed")
			writeError(w, http.StatusInternalServerError, "registration failed", "")
		}
		return
	}

	logging.FromContext(r.Context()).Info().Str("user_id", user.ID).Msg("user registered")
	writeJSON(w, http.StatusCreated, messageResponse{Message: "user registered"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload", "")
		return
	}

	token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrMissingCredentials):
			writeError(w, http.StatusBadRequest, err.Error(), "")
		case errors.Is(err, users.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, err.Error(), "")
		default:
			logging.FromContext(r.Context()).Error().Err(err).Msg("login failed")
			writeError(w, http.StatusInternalServerError, "login failed", "")
		}
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, Message: "login successful"})
}

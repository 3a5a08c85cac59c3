package httpapi

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"cineshelf/internal/app/movies"
	"cineshelf/internal/logging"
)

func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := movies.Filter{
		Genre:  q.Get("genre"),
		Year:   q.Get("year"),
		Rating: q.Get("rating"),
	}

	body, err := s.movies.Discover(r.Context(), filter)
	if err != nil {
		s.movieError(w, r, err, "Erreur lors de la récupération des films")
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	body, err := s.movies.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		if errors.Is(err, movies.ErrMissingQuery) {
			writeError(w, http.StatusBadRequest, `Le paramètre "query" est requis`, "")
			return
		}
		s.movieError(w, r, err, "Erreur lors de la recherche du film")
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleMovie(w http.ResponseWriter, r *http.Request) {
	body, err := s.movies.Details(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.movieError(w, r, err, "Erreur lors de la récupération des détails du film")
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	body, err := s.movies.Upcoming(r.Context())
	if err != nil {
		s.movieError(w, r, err, "Erreur lors de la récupération des films à venir")
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	body, err := s.movies.Videos(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.movieError(w, r, err, "Erreur lors de la récupération de la bande-annonce")
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// movieError answers 500 with the upstream failure as details.
func (s *Server) movieError(w http.ResponseWriter, r *http.Request, err error, message string) {
	logging.FromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("movie api request failed")

	details := err.Error()
	var upErr *movies.UpstreamError
	if errors.As(err, &upErr) {
		details = upErr.Err.Error()
	}
	writeError(w, http.StatusInternalServerError, message, details)
}

package main

import (
	"net/http"

	"cineshelf/internal/app/favorites"
	"cineshelf/internal/app/movies"
	"cineshelf/internal/app/users"
	"cineshelf/internal/auth"
	"cineshelf/internal/config"
	"cineshelf/internal/http/middleware"
	"cineshelf/internal/httpapi"
	"cineshelf/internal/store"
	"cineshelf/internal/tmdb"
)

type application struct {
	handler http.Handler
	limiter *middleware.RateLimiter
}

func newApplication(cfg *config.Config, dataStore store.Store) application {
	tokens := auth.NewTokens(cfg.Security.JWTSecret, auth.TokenTTL)

	tmdbClient := tmdb.NewClient(cfg.TMDB.APIKey,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithLanguage(cfg.TMDB.Language),
		tmdb.WithTimeout(cfg.TMDB.Timeout),
	)

	userSvc := users.New(dataStore, tokens)
	favoritesSvc := favorites.New(dataStore)
	movieSvc := movies.New(tmdbClient)

	limiter := middleware.NewRateLimiter(cfg.Security.RateLimitRPS, cfg.Security.RateLimitBurst)

	api := httpapi.New(userSvc, favoritesSvc, movieSvc, tokens, httpapi.WithAuthRateLimiter(limiter))

	var handler http.Handler = api.Routes()
	handler = middleware.CORS(cfg.CORS.AllowedOrigin)(handler)
	handler = middleware.Recovery()(handler)
	handler = middleware.RequestLogging()(handler)

	return application{handler: handler, limiter: limiter}
}

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cineshelf/internal/auth"
	"cineshelf/internal/config"
	"cineshelf/internal/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("TMDB_API_KEY", "test-key")
	t.Setenv("DATABASE_URL", "memory://")
	t.Setenv("JWT_SECRET", "a-very-long-test-secret")
	cfg, err := config.FromEnv()
	require.NoError(t, err)
	return cfg
}

func TestOpenStoreMemory(t *testing.T) {
	cfg := testConfig(t)

	st, err := openStore(context.Background(), cfg)
	require.NoError(t, err)
	_, ok := st.(*store.MemoryStore)
	assert.True(t, ok, "expected a memory store, got %T", st)
}

func TestEnsureDemoUserIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	require.NoError(t, ensureDemoUser(ctx, st))
	require.NoError(t, ensureDemoUser(ctx, st))

	user, err := st.UserByUsername(ctx, demoUsername)
	require.NoError(t, err)
	assert.True(t, auth.VerifyPassword(demoPassword, user.PasswordHash))
}

func TestApplicationHandlerChain(t *testing.T) {
	cfg := testConfig(t)
	app := newApplication(cfg, store.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", cfg.CORS.AllowedOrigin)
	rr := httptest.NewRecorder()
	app.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, cfg.CORS.AllowedOrigin, rr.Header().Get("Access-Control-Allow-Origin"))

	rr = httptest.NewRecorder()
	app.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/favorites", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

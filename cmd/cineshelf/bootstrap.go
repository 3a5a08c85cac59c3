package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"cineshelf/internal/auth"
	"cineshelf/internal/store"
)

const (
	demoUsername = "demo"
	demoPassword = "demo1234"
)

func ensureDemoUser(ctx context.Context, dataStore store.Store) error {
	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		return fmt.Errorf("bootstrap demo user: %w", err)
	}

	if _, err := dataStore.CreateUser(ctx, demoUsername, hash); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return nil
		}
		return fmt.Errorf("bootstrap demo user: %w", err)
	}

	log.Info().Str("username", demoUsername).Msg("demo user created")
	return nil
}

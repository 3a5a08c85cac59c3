package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"cineshelf/internal/config"
	"cineshelf/internal/store"
)

// openStore selects the persistence backend from the DATABASE_URL scheme.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch scheme := cfg.DatabaseScheme(); scheme {
	case "memory":
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return store.NewMemoryStore(), nil

	case "postgres", "postgresql":
		db, err := store.OpenPostgres(ctx, cfg.Database.URL, 30*time.Second)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := store.Migrate(cfg.Database.URL, store.MigrateUp); err != nil {
				_ = db.Close()
				return nil, err
			}
			log.Info().Msg("database migrations applied")
		}
		return store.NewPostgresStore(db), nil

	case "mongodb", "mongodb+srv":
		mongoStore, err := store.OpenMongo(ctx, cfg.Database.URL, cfg.Database.Name)
		if err != nil {
			return nil, err
		}
		return mongoStore, nil

	default:
		return nil, fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

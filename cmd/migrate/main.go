package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"cineshelf/internal/logging"
	"cineshelf/internal/store"
)

func main() {
	logging.SetGlobalLogger(logging.New(logging.Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: "text",
	}))

	if len(os.Args) != 2 || (os.Args[1] != store.MigrateUp && os.Args[1] != store.MigrateDown) {
		fmt.Fprintln(os.Stderr, "Usage: migrate [up|down]")
		os.Exit(2)
	}

	if err := run(os.Args[1]); err != nil {
		log.Fatal().Err(err).Str("direction", os.Args[1]).Msg("migration failed")
	}
	log.Info().Str("direction", os.Args[1]).Msg("migrations applied successfully")
}

func run(direction string) error {
	_ = godotenv.Load()

	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		return errors.New("DATABASE_URL env var is required")
	}
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return errors.New("migrations only apply to postgres databases")
	}
	return store.Migrate(dsn, direction)
}

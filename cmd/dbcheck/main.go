// cmd/dbcheck/main.go
// Verifies the database from .env is reachable and migrated

package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/gymmatch/gymmatch-backend/internal/common/database"
	"github.com/gymmatch/gymmatch-backend/internal/logging"
)

func main() {
	logging.Init(logging.Config{Level: "info", Format: "console"})

	if err := godotenv.Load(); err != nil {
		logging.Warn().Err(err).Msg("No .env file found, using environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logging.Fatal().Msg("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewPostgresDBFromURL(ctx, dbURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("Can't reach database")
	}
	defer db.Close()
	logging.Info().Msg("Connected to database")

	missing, err := database.MissingTables(ctx, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to inspect schema")
	}
	if len(missing) > 0 {
		logging.Error().Strs("missing", missing).Msg("Schema incomplete, run the API with RUN_MIGRATIONS=true")
		os.Exit(1)
	}
	logging.Info().Int("tables", len(database.Tables)).Msg("All tables present")
}

package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/practice-api/internal/config"
	"github.com/jwalitptl/practice-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Setup(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	dir, err := migrationsDir()
	if err != nil {
		log.Fatal().Err(err).Msg("Migrations directory not found")
	}

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		dbURL = cfg.Database.URL()
	}

	m, err := migrate.New("file://"+dir, dbURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize migrations")
	}
	defer m.Close()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		log.Fatal().Str("command", cmd).Msg("Unknown command, expected up or down")
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal().Err(err).Str("command", cmd).Msg("Migration failed")
	}

	version, dirty, _ := m.Version()
	log.Info().Str("command", cmd).Uint("version", version).Bool("dirty", dirty).Msg("Migration complete")
}

// migrationsDir walks up from the working directory looking for migrations/.
func migrationsDir() (string, error) {
	current, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		candidate := filepath.Join(current, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return filepath.Abs(candidate)
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return "", os.ErrNotExist
}

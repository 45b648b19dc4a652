package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/lmittmann/tint"

	"github.com/vancomm/sanctum-sweeper/internal/config"
	"github.com/vancomm/sanctum-sweeper/internal/database"
)

func main() {
	down := flag.Bool("down", false, "roll every migration back")
	flag.Parse()

	var logger *slog.Logger
	if config.Development() {
		logger = slog.New(tint.NewHandler(os.Stderr, nil))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}

	url, err := config.DbURL()
	if err != nil {
		logger.Error("failed to read database config", slog.Any("error", err))
		os.Exit(1)
	}

	if *down {
		migrator, err := database.NewMigrator(url, database.Migrations)
		if err != nil {
			logger.Error("failed to create migrator", slog.Any("error", err))
			os.Exit(1)
		}
		if err := migrator.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Error("failed to roll back", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("rolled back all migrations")
		return
	}

	migrator, err := database.Migrate(url, database.Migrations)
	if err != nil {
		logger.Error("failed to migrate", slog.Any("error", err))
		os.Exit(1)
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		logger.Error("failed to check migration version", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migration successful", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"

	"github.com/vancomm/sanctum-sweeper/internal/app"
	"github.com/vancomm/sanctum-sweeper/internal/config"
	"github.com/vancomm/sanctum-sweeper/internal/database"
	"github.com/vancomm/sanctum-sweeper/internal/level"
)

func loadLevels() (*level.Catalogue, error) {
	if path, ok := config.LevelsFile(); ok {
		return level.LoadFile(path)
	}
	return level.Default(), nil
}

func main() {
	development := config.Development()

	var handler slog.Handler = slog.NewJSONHandler(os.Stderr, nil)
	if development {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level: slog.LevelDebug,
		})
	}
	logger := slog.New(handler)

	if err := setupEngineLogging(development); err != nil {
		logger.Error("failed to set up engine logging", slog.Any("error", err))
		os.Exit(1)
	}

	levels, err := loadLevels()
	if err != nil {
		logger.Error("failed to load levels", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.New(logger, levels, database.Migrations).Start(ctx); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

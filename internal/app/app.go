package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/sanctum-sweeper/internal/config"
	"github.com/vancomm/sanctum-sweeper/internal/database"
	"github.com/vancomm/sanctum-sweeper/internal/level"
	"github.com/vancomm/sanctum-sweeper/internal/middleware"
)

type App struct {
	logger     *slog.Logger
	router     *mux.Router
	db         *pgxpool.Pool
	tokens     *config.SessionTokens
	ws         *config.WebSocket
	levels     *level.Catalogue
	migrations fs.FS
}

func New(logger *slog.Logger, levels *level.Catalogue, migrations fs.FS) *App {
	app := &App{
		logger:     logger,
		router:     mux.NewRouter(),
		levels:     levels,
		migrations: migrations,
	}

	return app
}

// Start serves until ctx is cancelled or the listener fails.
func (a *App) Start(ctx context.Context) error {
	db, _, err := database.ConnectAndMigrate(ctx, a.migrations)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	defer db.Close()
	a.db = db

	if a.tokens, err = config.NewSessionTokens(); err != nil {
		return fmt.Errorf("unable to read session token config: %w", err)
	}
	if a.ws, err = config.NewWebSocket(); err != nil {
		return fmt.Errorf("unable to read ws config: %w", err)
	}

	a.loadRoutes()

	addr := ":" + config.Port()
	server := &http.Server{
		Addr: addr,
		Handler: middleware.Wrap(
			a.router,
			middleware.Cors(config.AllowedOrigins()),
			middleware.Logging(a.logger),
		),
		ReadTimeout: time.Second * 15,
		IdleTimeout: time.Second * 60,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	a.logger.Info(
		"server listening",
		slog.String("addr", addr),
		slog.Any("levels", a.levels.Names()),
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to listen and serve: %w", err)
	})
	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), time.Second*15)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	return g.Wait()
}

package app

import (
	"hash/maphash"
	"math/rand/v2"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/vancomm/sanctum-sweeper/internal/config"
	"github.com/vancomm/sanctum-sweeper/internal/handlers"
	"github.com/vancomm/sanctum-sweeper/internal/middleware"
	"github.com/vancomm/sanctum-sweeper/internal/repository"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// createSeeder hands out session seeds from one process-wide generator.
func createSeeder() handlers.Seeder {
	var mu sync.Mutex
	rnd := createRand()
	return func() (uint64, uint64) {
		mu.Lock()
		defer mu.Unlock()
		return rnd.Uint64(), rnd.Uint64()
	}
}

func (a *App) loadRoutes() {
	repo := repository.New(a.db)
	sessions := handlers.NewSessionHandler(
		a.logger, repo, a.tokens, a.ws, a.levels, createSeeder(),
	)
	levels := handlers.NewLevelHandler(a.logger, repo, a.levels)

	router := a.router
	if base := config.BasePath(); base != "" {
		router = router.PathPrefix(base).Subrouter()
	}

	auth := middleware.SessionAuth(a.logger, a.tokens)

	router.Methods(http.MethodPost).Path("/session").HandlerFunc(sessions.NewSession)
	router.Methods(http.MethodGet).Path("/session/{id:[0-9]+}").
		Handler(auth(http.HandlerFunc(sessions.Fetch)))

	session := router.PathPrefix("/session/{id:[0-9]+}").Subrouter()
	session.Use(auth)
	session.Methods(http.MethodGet).Path("/connect").HandlerFunc(sessions.ConnectWS)
	session.Methods(http.MethodPost).Path("/reveal").HandlerFunc(sessions.Reveal)
	session.Methods(http.MethodPost).Path("/clue").HandlerFunc(sessions.Clue)
	session.Methods(http.MethodPost).Path("/end").HandlerFunc(sessions.EndTurn)
	session.Methods(http.MethodPost).Path("/rival").HandlerFunc(sessions.Rival)

	router.Methods(http.MethodGet).Path("/levels").HandlerFunc(levels.Levels)
	router.Methods(http.MethodGet).Path("/records").HandlerFunc(levels.Records)

	router.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// Router exposes the routes for tests and embedding.
func (a *App) Router() *mux.Router {
	return a.router
}

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vancomm/sanctum-sweeper/internal/board"
	"github.com/vancomm/sanctum-sweeper/internal/config"
	"github.com/vancomm/sanctum-sweeper/internal/level"
	"github.com/vancomm/sanctum-sweeper/internal/middleware"
	"github.com/vancomm/sanctum-sweeper/internal/repository"
	"github.com/vancomm/sanctum-sweeper/internal/session"
)

var (
	ErrSessionExists  = errors.New("a session with this idempotency key already exists")
	ErrSessionCorrupt = errors.New("stored session state is unreadable")
)

// Store is the part of the repository the handlers need.
type Store interface {
	CreateLevelSession(ctx context.Context, params repository.CreateLevelSessionParams) (*repository.LevelSession, error)
	FetchLevelSession(ctx context.Context, id int64) (*repository.LevelSession, error)
	UpdateLevelSession(ctx context.Context, id int64, params repository.UpdateLevelSessionParams) (*repository.LevelSession, error)
	GetLevelRecords(ctx context.Context, filter repository.RecordFilter) ([]repository.LevelRecord, error)
}

type TokenIssuer interface {
	Issue(sessionId int64) (string, error)
}

// Seeder yields the two PCG seeds of a new session.
type Seeder func() (uint64, uint64)

type SessionHandler struct {
	logger *slog.Logger
	store  Store
	tokens TokenIssuer
	ws     *config.WebSocket
	levels *level.Catalogue
	seeds  Seeder

	locks sync.Map
}

func NewSessionHandler(
	logger *slog.Logger,
	store Store,
	tokens TokenIssuer,
	ws *config.WebSocket,
	levels *level.Catalogue,
	seeds Seeder,
) *SessionHandler {
	return &SessionHandler{
		logger: logger,
		store:  store,
		tokens: tokens,
		ws:     ws,
		levels: levels,
		seeds:  seeds,
	}
}

// lock serializes actions on one session within this process.
func (h *SessionHandler) lock(id int64) func() {
	m, _ := h.locks.LoadOrStore(id, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func sessionId(r *http.Request) (int64, error) {
	if id, ok := middleware.SessionId(r.Context()); ok {
		return id, nil
	}
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return http.StatusNotFound
	case errors.Is(err, session.ErrBadClueKind):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSessionOver),
		errors.Is(err, session.ErrNotPlayerTurn),
		errors.Is(err, session.ErrNotRivalTurn),
		errors.Is(err, session.ErrClueUsed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *SessionHandler) fail(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("session request failed", slog.Any("error", err))
		w.WriteHeader(status)
		return
	}
	sendError(w, h.logger, status, err)
}

func (h *SessionHandler) load(ctx context.Context, id int64) (*repository.LevelSession, *session.Session, error) {
	row, err := h.store.FetchLevelSession(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	s, err := session.Decode(row.State)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrSessionCorrupt, err)
	}
	return row, s, nil
}

func (h *SessionHandler) save(
	ctx context.Context, row *repository.LevelSession, s *session.Session,
) (*repository.LevelSession, error) {
	state, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	turn := s.Turn
	status := s.Status.String()
	params := repository.UpdateLevelSessionParams{
		Turn:   &turn,
		Status: &status,
		State:  &state,
	}
	if s.Over() && !row.EndedAt.Valid {
		now := time.Now().UTC()
		params.EndedAt = &now
	}
	return h.store.UpdateLevelSession(ctx, row.LevelSessionId, params)
}

func (h *SessionHandler) NewSession(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if key := r.Header.Get("Idempotency-Key"); key != "" && !query.Has("idempotency_key") {
		query.Set("idempotency_key", key)
	}
	dto, err := ParseNewSessionDTO(query)
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	l, err := h.levels.Lookup(dto.Level)
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	seed1, seed2 := h.seeds()
	if dto.Seed != nil {
		seed1, seed2 = *dto.Seed, *dto.Seed
	}
	s, err := session.New(l, seed1, seed2)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to start a session", slog.String("level", l.Name), slog.Any("error", err))
		return
	}
	state, err := s.Bytes()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to encode session", slog.Any("error", err))
		return
	}

	params := repository.CreateLevelSessionParams{
		Level:  l.Name,
		Turn:   s.Turn,
		Status: s.Status.String(),
		Seed:   int64(seed1),
		State:  state,
	}
	if dto.IdempotencyKey != "" {
		params.IdempotencyKey = &dto.IdempotencyKey
	}
	row, err := h.store.CreateLevelSession(r.Context(), params)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		sendError(w, h.logger, http.StatusConflict, ErrSessionExists)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to create level session", slog.Any("error", err))
		return
	}

	token, err := h.tokens.Issue(row.LevelSessionId)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to issue session token", slog.Any("error", err))
		return
	}

	h.logger.Debug(
		"session started",
		slog.Int64("id", row.LevelSessionId),
		slog.String("level", l.Name),
	)
	resp := NewSessionDTO(row, s)
	resp.Token = token
	sendStatusJSON(w, h.logger, http.StatusCreated, resp)
}

func (h *SessionHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id, err := sessionId(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	row, s, err := h.load(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	sendJSONOrLog(w, h.logger, NewSessionDTO(row, s))
}

// act runs one action against a stored session and persists the result.
func (h *SessionHandler) act(
	w http.ResponseWriter, r *http.Request, action func(*session.Session) (any, error),
) {
	id, err := sessionId(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer h.lock(id)()

	row, s, err := h.load(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	result, err := action(s)
	if err != nil {
		h.fail(w, err)
		return
	}
	row, err = h.save(r.Context(), row, s)
	if err != nil {
		h.fail(w, err)
		return
	}
	sendJSONOrLog(w, h.logger, MoveDTO{Result: result, Session: NewSessionDTO(row, s)})
}

func (h *SessionHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	pos, err := ParsePosition(r.URL.Query())
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	h.act(w, r, func(s *session.Session) (any, error) {
		return s.Reveal(pos)
	})
}

func (h *SessionHandler) Clue(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseClueDTO(r.URL.Query())
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	h.act(w, r, func(s *session.Session) (any, error) {
		return s.Clue(board.ClueKind(dto.Kind), dto.Enhanced)
	})
}

func (h *SessionHandler) EndTurn(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(s *session.Session) (any, error) {
		return nil, s.EndTurn()
	})
}

func (h *SessionHandler) Rival(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(s *session.Session) (any, error) {
		return s.RivalTurn()
	})
}

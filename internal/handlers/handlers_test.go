package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sanctum-sweeper/internal/board"
	"github.com/vancomm/sanctum-sweeper/internal/config"
	"github.com/vancomm/sanctum-sweeper/internal/level"
	"github.com/vancomm/sanctum-sweeper/internal/repository"
	"github.com/vancomm/sanctum-sweeper/internal/session"
)

type fakeStore struct {
	mu   sync.Mutex
	rows map[int64]repository.LevelSession
	keys map[string]bool
	next int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rows: make(map[int64]repository.LevelSession),
		keys: make(map[string]bool),
	}
}

func (f *fakeStore) CreateLevelSession(
	_ context.Context, p repository.CreateLevelSessionParams,
) (*repository.LevelSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.IdempotencyKey != nil {
		if f.keys[*p.IdempotencyKey] {
			return nil, &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		}
		f.keys[*p.IdempotencyKey] = true
	}
	f.next++
	now := pgtype.Timestamptz{Time: time.Now(), Valid: true}
	row := repository.LevelSession{
		LevelSessionId: f.next,
		IdempotencyKey: p.IdempotencyKey,
		Level:          p.Level,
		Turn:           p.Turn,
		Status:         p.Status,
		Seed:           p.Seed,
		State:          p.State,
		StartedAt:      now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.rows[row.LevelSessionId] = row
	return &row, nil
}

func (f *fakeStore) FetchLevelSession(_ context.Context, id int64) (*repository.LevelSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (f *fakeStore) UpdateLevelSession(
	_ context.Context, id int64, p repository.UpdateLevelSessionParams,
) (*repository.LevelSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if p.Turn != nil {
		row.Turn = *p.Turn
	}
	if p.Status != nil {
		row.Status = *p.Status
	}
	if p.EndedAt != nil {
		row.EndedAt = pgtype.Timestamptz{Time: *p.EndedAt, Valid: true}
	}
	if p.State != nil {
		row.State = *p.State
	}
	f.rows[id] = row
	return &row, nil
}

func (f *fakeStore) GetLevelRecords(_ context.Context, filter repository.RecordFilter) ([]repository.LevelRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	records := make([]repository.LevelRecord, 0)
	for _, row := range f.rows {
		if row.Status != "won" || (filter.Level != nil && *filter.Level != row.Level) {
			continue
		}
		records = append(records, repository.LevelRecord{LevelSessionId: row.LevelSessionId, Level: row.Level, Turn: row.Turn})
	}
	return records, nil
}

// session reads back the stored engine state, owners included.
func (f *fakeStore) session(t *testing.T, id int64) *session.Session {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := session.Decode(f.rows[id].State)
	require.NoError(t, err)
	return s
}

type fakeTokens struct{}

func (fakeTokens) Issue(id int64) (string, error) {
	return "token-" + strconv.FormatInt(id, 10), nil
}

type sessionResp struct {
	SessionId string `json:"session_id"`
	Token     string `json:"token"`
	EndedAt   *int64 `json:"ended_at"`
	State     struct {
		Level  string            `json:"level"`
		Turn   int               `json:"turn"`
		Phase  string            `json:"phase"`
		Status string            `json:"status"`
		Tiles  []json.RawMessage `json:"tiles"`
	} `json:"state"`
}

type moveResp struct {
	Result  json.RawMessage `json:"result"`
	Session sessionResp     `json:"session"`
}

type fixture struct {
	store   *fakeStore
	handler *SessionHandler
	levels  *LevelHandler
	router  *mux.Router
}

func newFixture() *fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := newFakeStore()
	catalogue := level.Default()
	h := NewSessionHandler(
		logger, store, fakeTokens{},
		&config.WebSocket{Upgrader: websocket.Upgrader{}},
		catalogue,
		func() (uint64, uint64) { return 1, 2 },
	)
	lh := NewLevelHandler(logger, store, catalogue)

	router := mux.NewRouter()
	router.HandleFunc("/session", h.NewSession).Methods(http.MethodPost)
	router.HandleFunc("/session/{id}", h.Fetch).Methods(http.MethodGet)
	router.HandleFunc("/session/{id}/reveal", h.Reveal).Methods(http.MethodPost)
	router.HandleFunc("/session/{id}/clue", h.Clue).Methods(http.MethodPost)
	router.HandleFunc("/session/{id}/end", h.EndTurn).Methods(http.MethodPost)
	router.HandleFunc("/session/{id}/rival", h.Rival).Methods(http.MethodPost)
	router.HandleFunc("/session/{id}/connect", h.ConnectWS).Methods(http.MethodGet)
	router.HandleFunc("/levels", lh.Levels).Methods(http.MethodGet)
	router.HandleFunc("/records", lh.Records).Methods(http.MethodGet)
	return &fixture{store: store, handler: h, levels: lh, router: router}
}

func (f *fixture) do(t *testing.T, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (f *fixture) start(t *testing.T) sessionResp {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/session?level=meadow&seed=7", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[sessionResp](t, rec)
}

// find returns a plain tile owned by o.
func find(s *session.Session, o board.Owner) board.Position {
	for p := range s.Board.Positions() {
		t := s.Board.Tile(p)
		if t.Owner == o && !t.Revealed && t.Obstructions.None() && !t.IsInner() {
			return p
		}
	}
	panic("no tile for " + o.String())
}

func at(p board.Position) string {
	return "x=" + strconv.Itoa(p.X) + "&y=" + strconv.Itoa(p.Y)
}

func TestNewSession(t *testing.T) {
	f := newFixture()
	resp := f.start(t)

	assert.Equal(t, "1", resp.SessionId)
	assert.Equal(t, "token-1", resp.Token)
	assert.Equal(t, "meadow", resp.State.Level)
	assert.Equal(t, 1, resp.State.Turn)
	assert.Equal(t, "player", resp.State.Phase)
	assert.Equal(t, "playing", resp.State.Status)
	assert.Len(t, resp.State.Tiles, 25)
	assert.Nil(t, resp.EndedAt)

	for _, raw := range resp.State.Tiles {
		assert.NotContains(t, string(raw), `"owner"`)
	}
}

func TestNewSessionRejects(t *testing.T) {
	f := newFixture()
	tests := []struct {
		name   string
		target string
	}{
		{"missing level", "/session"},
		{"unknown level", "/session?level=nowhere"},
		{"bad seed", "/session?level=meadow&seed=-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, tt.target, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestNewSessionIdempotencyKey(t *testing.T) {
	f := newFixture()
	header := http.Header{"Idempotency-Key": {"abc"}}

	rec := f.do(t, http.MethodPost, "/session?level=meadow", header)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/session?level=meadow", header)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrSessionExists.Error())
}

func TestFetch(t *testing.T) {
	f := newFixture()
	f.start(t)

	rec := f.do(t, http.MethodGet, "/session/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[sessionResp](t, rec)
	assert.Equal(t, "1", resp.SessionId)
	assert.Empty(t, resp.Token)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/session/9", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/session/abc", nil).Code)
}

func TestRevealFlow(t *testing.T) {
	f := newFixture()
	f.start(t)
	s := f.store.session(t, 1)

	rec := f.do(t, http.MethodPost, "/session/1/reveal?x=1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/session/1/reveal?"+at(find(s, board.Player)), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	move := decodeBody[moveResp](t, rec)
	assert.Contains(t, string(move.Result), `"outcome":"revealed"`)
	assert.Equal(t, "player", move.Session.State.Phase)

	rec = f.do(t, http.MethodPost, "/session/1/reveal?"+at(find(s, board.Neutral)), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	move = decodeBody[moveResp](t, rec)
	assert.Equal(t, "rival", move.Session.State.Phase)

	rec = f.do(t, http.MethodPost, "/session/1/reveal?"+at(find(s, board.Rival)), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPost, "/session/1/rival", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	move = decodeBody[moveResp](t, rec)
	if move.Session.State.Status == "playing" {
		assert.Equal(t, 2, move.Session.State.Turn)
		assert.Equal(t, "player", move.Session.State.Phase)
	} else {
		assert.NotNil(t, move.Session.EndedAt)
	}

	stored := f.store.session(t, 1)
	assert.Equal(t, move.Session.State.Turn, stored.Turn)
}

func TestEndTurn(t *testing.T) {
	f := newFixture()
	f.start(t)

	rec := f.do(t, http.MethodPost, "/session/1/end", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rival", decodeBody[moveResp](t, rec).Session.State.Phase)

	rec = f.do(t, http.MethodPost, "/session/1/end", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestClue(t *testing.T) {
	f := newFixture()
	f.start(t)

	rec := f.do(t, http.MethodPost, "/session/1/clue?kind=shouty", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/session/1/clue?kind=vague&enhanced=true", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	move := decodeBody[moveResp](t, rec)
	assert.Contains(t, string(move.Result), `"kind":"vague"`)
	assert.Contains(t, string(move.Result), `"enhanced":true`)

	rec = f.do(t, http.MethodPost, "/session/1/clue?kind=imperious", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	assert.True(t, f.store.session(t, 1).ClueUsed)
}

func TestLevelsAndRecords(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodGet, "/levels", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	levels := decodeBody[[]LevelDTO](t, rec)
	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = l.Name
	}
	assert.Equal(t, level.Default().Names(), names)

	rec = f.do(t, http.MethodGet, "/records?level=meadow", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = f.do(t, http.MethodGet, "/records?level=nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConnectWS(t *testing.T) {
	f := newFixture()
	f.start(t)
	s := f.store.session(t, 1)

	server := httptest.NewServer(f.router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/session/1/connect"
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer c.Close()

	p := find(s, board.Player)
	cmds := "g\nzz\nr " + strconv.Itoa(p.X) + "\nr " + strconv.Itoa(p.X) + " " + strconv.Itoa(p.Y)
	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(cmds)))

	var replies [4]wsReplyResp
	for i := range replies {
		require.NoError(t, c.ReadJSON(&replies[i]))
	}

	assert.Empty(t, replies[0].Error)
	require.NotNil(t, replies[0].Session)
	assert.Equal(t, "1", replies[0].Session.SessionId)

	assert.Equal(t, ErrUnknownCommand.Error(), replies[1].Error)
	assert.Equal(t, ErrCommandArgs.Error(), replies[2].Error)

	assert.Empty(t, replies[3].Error)
	assert.Contains(t, string(replies[3].Result), `"outcome":"revealed"`)
	assert.True(t, f.store.session(t, 1).Board.Tile(p).Revealed)

	_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

type wsReplyResp struct {
	Command string          `json:"command"`
	Error   string          `json:"error"`
	Result  json.RawMessage `json:"result"`
	Session *sessionResp    `json:"session"`
}

func TestExecuteCommand(t *testing.T) {
	l, err := level.Default().Lookup("meadow")
	require.NoError(t, err)

	tests := []struct {
		cmd     string
		changed bool
		err     string
	}{
		{"g", false, ""},
		{"", false, ErrUnknownCommand.Error()},
		{"q", false, ErrUnknownCommand.Error()},
		{"r 1", false, ErrCommandArgs.Error()},
		{"r a 1", false, "first argument must be an int"},
		{"r 1 b", false, "second argument must be an int"},
		{"c", false, ErrCommandArgs.Error()},
		{"c imperious", true, ""},
		{"t", false, session.ErrNotRivalTurn.Error()},
		{"e", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			s, err := session.New(l, 1, 2)
			require.NoError(t, err)
			_, changed, err := executeCommand(s, tt.cmd)
			assert.Equal(t, tt.changed, changed)
			if tt.err == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.err)
			}
		})
	}
}

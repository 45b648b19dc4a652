package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenFor map[string]int64

func (t tokenFor) Verify(token string, id int64) error {
	if want, ok := t[token]; ok && want == id {
		return nil
	}
	return errors.New("bad token")
}

func TestWrapOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				h.ServeHTTP(w, r)
			})
		}
	}
	h := Wrap(http.NotFoundHandler(), mark("inner"), mark("outer"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestSessionAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := mux.NewRouter()
	router.Use(SessionAuth(logger, tokenFor{"good": 3}))
	router.HandleFunc("/session/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := SessionId(r.Context())
		require.True(t, ok)
		assert.Equal(t, int64(3), id)
	})

	tests := []struct {
		name   string
		target string
		header string
		status int
	}{
		{"header", "/session/3", "Bearer good", http.StatusOK},
		{"query", "/session/3?token=good", "", http.StatusOK},
		{"missing", "/session/3", "", http.StatusUnauthorized},
		{"wrong session", "/session/4", "Bearer good", http.StatusForbidden},
		{"bad scheme", "/session/3", "Basic good", http.StatusUnauthorized},
		{"bad id", "/session/x", "Bearer good", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestLoggingKeepsStatus(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), Logging(logger))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestCors(t *testing.T) {
	h := Cors([]string{"https://ok.example"})(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://ok.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://ok.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

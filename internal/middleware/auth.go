package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

type CtxKey int

const (
	CtxSessionId CtxKey = iota
)

// TokenVerifier checks that a bearer token was issued for a session.
type TokenVerifier interface {
	Verify(token string, sessionId int64) error
}

// BearerToken extracts the token from the Authorization header, falling
// back to the token query parameter used by websocket clients.
func BearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		token, ok := strings.CutPrefix(h, "Bearer ")
		if ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// SessionId returns the session id stored by SessionAuth.
func SessionId(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(CtxSessionId).(int64)
	return id, ok
}

// SessionAuth guards routes carrying an {id} variable: the request must
// present a token issued for that session.
func SessionAuth(logger *slog.Logger, tokens TokenVerifier) mux.MiddlewareFunc {
	deny := func(w http.ResponseWriter, status int, msg string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
			logger.Error("unable to send auth error", slog.Any("error", err))
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
			if err != nil {
				deny(w, http.StatusBadRequest, "invalid session id")
				return
			}
			token := BearerToken(r)
			if token == "" {
				deny(w, http.StatusUnauthorized, "missing session token")
				return
			}
			if err := tokens.Verify(token, id); err != nil {
				logger.Debug("rejected session token", slog.Int64("session", id), slog.Any("error", err))
				deny(w, http.StatusForbidden, "invalid session token")
				return
			}
			ctx := context.WithValue(r.Context(), CtxSessionId, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

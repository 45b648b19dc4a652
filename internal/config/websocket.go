package config

import (
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
}

// AllowedOrigins lists WS_ALLOWED_ORIGINS, comma separated. An empty list
// allows every origin.
func AllowedOrigins() []string {
	value, ok := os.LookupEnv("WS_ALLOWED_ORIGINS")
	if !ok {
		return nil
	}
	origins := make([]string, 0)
	for _, o := range strings.Split(value, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func NewWebSocket() (*WebSocket, error) {
	origins := AllowedOrigins()
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(origins) == 0 {
				return true
			}
			return slices.Contains(origins, r.Header.Get("Origin"))
		},
	}

	ws := &WebSocket{
		Upgrader: upgrader,
	}

	return ws, nil
}

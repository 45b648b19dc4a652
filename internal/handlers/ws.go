package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

type wsReply struct {
	Command string      `json:"command"`
	Error   string      `json:"error,omitempty"`
	Result  any         `json:"result,omitempty"`
	Session *SessionDTO `json:"session,omitempty"`
}

// ConnectWS streams the session over a websocket. Every text message holds
// one or more newline separated commands and gets one reply per command.
func (h *SessionHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	id, err := sessionId(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if _, _, err := h.load(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}

	c, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("unable to upgrade connection", slog.Any("error", err))
		return
	}
	defer c.Close()

	logger := h.logger.With(slog.Int64("session", id))
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("ws read failed", slog.Any("error", err))
			}
			return
		}
		if mt != websocket.TextMessage {
			return
		}
		for _, cmd := range strings.Split(strings.TrimSpace(string(message)), "\n") {
			logger.Debug("ws command", slog.String("command", cmd))
			reply := h.runCommand(r, id, strings.TrimSpace(cmd))
			if err := c.WriteJSON(reply); err != nil {
				logger.Error("ws write failed", slog.Any("error", err))
				return
			}
		}
	}
}

func (h *SessionHandler) runCommand(r *http.Request, id int64, cmd string) wsReply {
	reply := wsReply{Command: cmd}
	defer h.lock(id)()

	row, s, err := h.load(r.Context(), id)
	if err != nil {
		h.logger.Error("unable to load session", slog.Any("error", err))
		reply.Error = "unable to load session"
		return reply
	}
	result, changed, err := executeCommand(s, cmd)
	if err != nil {
		reply.Error = err.Error()
		return reply
	}
	if changed {
		if row, err = h.save(r.Context(), row, s); err != nil {
			h.logger.Error("unable to store session", slog.Any("error", err))
			reply.Error = "unable to store session"
			return reply
		}
	}
	dto := NewSessionDTO(row, s)
	reply.Result = result
	reply.Session = &dto
	return reply
}

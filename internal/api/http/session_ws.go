package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	authmw "github.com/mind-engage/cetscore/internal/auth/middleware"
	"github.com/mind-engage/cetscore/internal/score"
	"github.com/mind-engage/cetscore/internal/session"
)

// StreamMessage is one outbound websocket frame.
type StreamMessage struct {
	Type  string        `json:"type"` // state|error
	State *session.View `json:"state,omitempty"`
	Error string        `json:"error,omitempty"`
}

const (
	wsReadLimit = 4096
	wsIdle      = 10 * time.Minute
)

// GET /session/ws
// The client sends session.Patch objects; every patch is answered with the
// recomputed state. The current state is pushed right after the upgrade.
func SessionStreamHandler(svc *session.Service, origins []string) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(origins),
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := authmw.SessionIDFromContext(r.Context())
		v, err := svc.Load(r.Context(), id)
		if err != nil {
			writeErr(w, r, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("failed to upgrade to websocket", "error", err)
			return
		}
		defer conn.Close()
		conn.SetReadLimit(wsReadLimit)

		slog.Info("session stream connected", "session_id", id)
		if err := conn.WriteJSON(StreamMessage{Type: "state", State: &v}); err != nil {
			return
		}

		for {
			_ = conn.SetReadDeadline(time.Now().Add(wsIdle))
			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Debug("session stream read error", "session_id", id, "error", err)
				}
				break
			}
			var p session.Patch
			if err := json.Unmarshal(data, &p); err != nil {
				if err := conn.WriteJSON(StreamMessage{Type: "error", Error: "bad patch: " + err.Error()}); err != nil {
					break
				}
				continue
			}

			v, err := svc.Update(r.Context(), id, p)
			msg := StreamMessage{Type: "state", State: &v}
			switch {
			case err == nil:
			case errors.Is(err, score.ErrUnknownCombination):
				msg = StreamMessage{Type: "error", Error: err.Error()}
			case errors.Is(err, session.ErrNotFound):
				_ = conn.WriteJSON(StreamMessage{Type: "error", Error: err.Error()})
				return
			default:
				slog.Error("session stream update failed", "session_id", id, "error", err)
				msg = StreamMessage{Type: "error", Error: "update failed"}
			}
			if err := conn.WriteJSON(msg); err != nil {
				break
			}
		}
		slog.Info("session stream disconnected", "session_id", id)
	}
}

// originChecker allows same-origin requests, requests without an Origin
// header and the configured CORS origins.
func originChecker(origins []string) func(*http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		o := r.Header.Get("Origin")
		if o == "" || allowed["*"] || allowed[o] {
			return true
		}
		return o == "http://"+r.Host || o == "https://"+r.Host
	}
}

// Package stream pushes assistant turn events (typing, messages,
// suggestions) to the frontend, over WebSocket for interactive clients and
// Server-Sent Events as a fallback.
package stream

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/avendano/fixhub/backend/internal/platform/logger"
	"github.com/avendano/fixhub/backend/internal/service/dispatch"
	"github.com/avendano/fixhub/backend/internal/service/session"
	"github.com/avendano/fixhub/backend/pkg/utils"
)

const (
	writeTimeout      = 10 * time.Second
	heartbeatInterval = 30 * time.Second
)

// Handler serves the realtime event endpoints.
type Handler struct {
	sessions   *session.Manager
	dispatcher *dispatch.Dispatcher
	log        *logger.Logger
	upgrader   websocket.Upgrader
}

// New creates the stream handler.
func New(sessions *session.Manager, dispatcher *dispatch.Dispatcher, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		sessions:   sessions,
		dispatcher: dispatcher,
		log:        log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the event endpoints under the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/assistant/ws/{sessionID}", h.handleWebSocket)
	r.Get("/assistant/session/{sessionID}/events", h.handleSSE)
}

// handleWebSocket upgrades the connection, replays the current transcript
// and then forwards live turn events until the client goes away or the
// session is cleared.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	transcript, err := h.sessions.Transcript(sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "session_id", sessionID, "error", err)
		return
	}
	defer conn.Close()

	events, cancel := h.dispatcher.Subscribe(sessionID)
	defer cancel()

	// Replay so a reconnecting client does not miss earlier turns.
	for i := range transcript {
		replay := dispatch.Event{Type: dispatch.EventMessage, SessionID: sessionID, Message: &transcript[i]}
		if err := h.writeEvent(conn, replay); err != nil {
			return
		}
	}
	if suggestions := h.dispatcher.Suggestions(sessionID); len(suggestions) > 0 {
		seed := dispatch.Event{Type: dispatch.EventSuggestions, SessionID: sessionID, Suggestions: suggestions}
		if err := h.writeEvent(conn, seed); err != nil {
			return
		}
	}

	// Drain client frames so pings and close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session cleared"),
					time.Now().Add(writeTimeout))
				return
			}
			if err := h.writeEvent(conn, event); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) writeEvent(conn *websocket.Conn, event dispatch.Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(event); err != nil {
		h.log.Debug("websocket write failed", "session_id", event.SessionID, "error", err)
		return err
	}
	return nil
}

// handleSSE streams the same events as data-only SSE frames, with periodic
// heartbeats to keep intermediaries from closing the connection.
func (h *Handler) handleSSE(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	if _, err := h.sessions.Get(sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	utils.SetupSSEHeaders(w)

	events, cancel := h.dispatcher.Subscribe(sessionID)
	defer cancel()

	utils.SendSSEEvent(w, flusher, "status", map[string]string{"message": "stream established"})

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				utils.SendSSEEvent(w, flusher, "end", map[string]string{"message": "session cleared"})
				return
			}
			utils.SendSSEEvent(w, flusher, string(event.Type), event)
		case t := <-ticker.C:
			utils.SendSSEEvent(w, flusher, "heartbeat", map[string]string{
				"time": t.UTC().Format(time.RFC3339),
			})
		}
	}
}

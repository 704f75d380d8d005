package handler

import (
	"net/http"

	"github.com/IANDYI/pregnancy-tracker/internal/adapters/websocket"
	"github.com/rs/zerolog"
)

// WebSocketHandler streams record change events to local listeners.
// The ops listener binds to localhost by default and carries no authentication.
type WebSocketHandler struct {
	hub *websocket.Hub
	log zerolog.Logger
}

func NewWebSocketHandler(hub *websocket.Hub, log zerolog.Logger) *WebSocketHandler {
	hub.OnCountChange(func(n int) { WebSocketConnections.Set(float64(n)) })
	return &WebSocketHandler{hub: hub, log: log}
}

// HandleWebSocket handles GET /events
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	requestID := generateRequestID()
	if err := h.hub.Attach(w, r); err != nil {
		WebSocketUpgradesTotal.WithLabelValues("error").Inc()
		h.log.Warn().Err(err).Str("request_id", requestID).Msg("websocket upgrade failed")
		return
	}
	WebSocketUpgradesTotal.WithLabelValues("ok").Inc()
	h.log.Info().Str("request_id", requestID).Str("remote", r.RemoteAddr).Msg("event listener attached")
}

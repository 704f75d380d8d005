package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/IANDYI/pregnancy-tracker/internal/adapters/handler"
	"github.com/IANDYI/pregnancy-tracker/internal/adapters/websocket"
	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	gorilla "github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketHandler_StreamsChangeEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := websocket.NewHub(zerolog.Nop())
	h := handler.NewWebSocketHandler(hub, zerolog.Nop())
	go hub.Run(ctx)

	events := make(chan domain.ChangeEvent, 1)
	go hub.Forward(ctx, events)

	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	defer srv.Close()

	conn, _, err := gorilla.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(handler.WebSocketConnections))

	changedAt := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	events <- domain.ChangeEvent{Key: domain.KeyReminders, ChangedAt: changedAt}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg websocket.EventMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, websocket.EventMessage{Type: "record_changed", Key: "reminders", ChangedAt: changedAt}, msg)
}

func TestWebSocketHandler_RejectsPlainRequest(t *testing.T) {
	hub := websocket.NewHub(zerolog.Nop())
	h := handler.NewWebSocketHandler(hub, zerolog.Nop())

	before := testutil.ToFloat64(handler.WebSocketUpgradesTotal.WithLabelValues("error"))
	w := httptest.NewRecorder()
	h.HandleWebSocket(w, httptest.NewRequest(http.MethodGet, "/events", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(handler.WebSocketUpgradesTotal.WithLabelValues("error")))
}

package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/IANDYI/pregnancy-tracker/internal/adapters/handler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPinger is a mock implementation of handler.Pinger
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func decodeHealth(t *testing.T, body io.Reader) handler.HealthResponse {
	t.Helper()
	var response handler.HealthResponse
	require.NoError(t, json.NewDecoder(body).Decode(&response))
	return response
}

func TestHealthHandler_Health(t *testing.T) {
	h := handler.NewHealthHandler(new(MockPinger))

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	response := decodeHealth(t, w.Body)
	assert.Equal(t, "ok", response.Status)
	assert.WithinDuration(t, time.Now(), response.Timestamp, time.Second)
}

func TestHealthHandler_Live(t *testing.T) {
	h := handler.NewHealthHandler(new(MockPinger))

	w := httptest.NewRecorder()
	h.Live(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alive", decodeHealth(t, w.Body).Status)
}

func TestHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantCode   int
		wantStatus string
	}{
		{name: "store reachable", wantCode: http.StatusOK, wantStatus: "ready"},
		{name: "store down", pingErr: errors.New("connection refused"), wantCode: http.StatusServiceUnavailable, wantStatus: "not ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pinger := new(MockPinger)
			pinger.On("Ping", mock.Anything).Return(tt.pingErr)
			h := handler.NewHealthHandler(pinger)

			w := httptest.NewRecorder()
			h.Ready(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantStatus, decodeHealth(t, w.Body).Status)
			pinger.AssertExpectations(t)
		})
	}
}

func TestMetrics_ServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "tracker_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	w := httptest.NewRecorder()
	handler.Metrics(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tracker_test_total 1")
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger is anything whose reachability decides readiness
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles /health, /health/ready and /health/live
type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Ready handles GET /health/ready and checks the record store
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "not ready", Timestamp: time.Now()})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ready", Timestamp: time.Now()})
}

// Live handles GET /health/live
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "alive", Timestamp: time.Now()})
}

// Metrics serves the given gatherer in the Prometheus text format
func Metrics(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

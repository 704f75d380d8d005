package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// generateRequestID generates a unique request ID for tracing
func generateRequestID() string {
	return uuid.NewString()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

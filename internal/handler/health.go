package handler

import (
	"context"
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// Health is a liveness endpoint: 200 while the process is alive,
// independent of store or mail availability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.started).Seconds(),
	})
}

// Ready is a readiness probe: 200 when the record store answers a
// short-deadline ping, 503 otherwise.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.health.Ping(ctx); err != nil {
		writeEnvelope(w, http.StatusServiceUnavailable, false, "Record store unavailable")
		return
	}
	writeEnvelope(w, http.StatusOK, true, "Ready")
}

// NotFound answers every unknown route and method combination.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, http.StatusNotFound, false, "Route not found")
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/contactrelay/contact-api/internal/config"
	"github.com/contactrelay/contact-api/internal/logger"
	"github.com/contactrelay/contact-api/internal/service"
)

// HealthChecker reports whether the record store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	contact service.ContactService
	health  HealthChecker
	cfg     *config.Config
	started time.Time
}

func New(contact service.ContactService, health HealthChecker, cfg *config.Config) *Handler {
	return &Handler{
		contact: contact,
		health:  health,
		cfg:     cfg,
		started: time.Now(),
	}
}

// apiResponse is the envelope every non-health endpoint answers with.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, apiResponse{Success: success, Message: message})
}

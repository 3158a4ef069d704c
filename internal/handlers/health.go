package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bobmcallan/vire-dashboard/internal/common"
	"github.com/bobmcallan/vire-dashboard/internal/interfaces"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger *common.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger *common.Logger) *HealthHandler {
	return &HealthHandler{logger: logger}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// BackendHealthHandler reports whether the equity backend answers.
type BackendHealthHandler struct {
	logger     *common.Logger
	pinger     interfaces.BackendPinger
	healthPath string
	timeout    time.Duration
}

// NewBackendHealthHandler creates a backend health handler probing healthPath.
func NewBackendHealthHandler(logger *common.Logger, pinger interfaces.BackendPinger, healthPath string) *BackendHealthHandler {
	if healthPath == "" {
		healthPath = "/health"
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &BackendHealthHandler{logger: logger, pinger: pinger, healthPath: healthPath, timeout: 3 * time.Second}
}

// ServeHTTP handles GET /api/backend-health.
func (h *BackendHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.pinger.Ping(ctx, h.healthPath); err != nil {
		h.logger.Debug().Str("path", h.healthPath).Str("error", err.Error()).Msg("backend health check failed")
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

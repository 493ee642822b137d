package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trackly/project-tracker/internal/core/ports"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	store  ports.KVStore
	driver string
}

func NewHealthHandler(store ports.KVStore, driver string) *HealthHandler {
	return &HealthHandler{store: store, driver: driver}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Liveness returns 200 while the process is up.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness pings the key-value store.
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	resp := readinessResponse{Status: "ok", Dependencies: map[string]dependencyStatus{}}
	code := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Dependencies[h.driver] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		code = http.StatusServiceUnavailable
	} else {
		resp.Dependencies[h.driver] = dependencyStatus{Status: "ok"}
	}
	return c.JSON(code, resp)
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const readinessTimeout = 3 * time.Second

// HealthHandler handles GET /health, the liveness check. It never touches a
// dependency.
type HealthHandler struct {
	startedAt time.Time
	now       func() time.Time
}

func NewHealthHandler(startedAt time.Time) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, now: time.Now}
}

type livenessResponse struct {
	OK        bool    `json:"ok"`
	Uptime    float64 `json:"uptime"`
	Timestamp int64   `json:"timestamp"`
}

// Liveness reports process uptime in seconds and the current time in unix ms.
//
// @Summary      Liveness check
// @Tags         health
// @Produce      json
// @Success      200  {object}  livenessResponse
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	now := h.now()
	return c.JSON(http.StatusOK, livenessResponse{
		OK:        true,
		Uptime:    now.Sub(h.startedAt).Seconds(),
		Timestamp: now.UnixMilli(),
	})
}

// DependencyCheck names one backend pinged by the readiness handler.
type DependencyCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// ReadinessHandler handles GET /health/ready. It pings every configured
// dependency before declaring the service ready.
type ReadinessHandler struct {
	checks []DependencyCheck
}

func NewReadinessHandler(checks ...DependencyCheck) *ReadinessHandler {
	return &ReadinessHandler{checks: checks}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness pings each dependency within a shared timeout.
//
// @Summary      Readiness check
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checks))
	healthy := true

	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			deps[check.Name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[check.Name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}

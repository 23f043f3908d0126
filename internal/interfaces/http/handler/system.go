package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/erp/stockdesk/internal/interfaces/http/dto"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	Ping() error
}

// SystemHandler serves /health
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	version   string
	checks    map[string]HealthChecker
	details   map[string]func() (any, error)
}

// NewSystemHandler creates a new SystemHandler. checks maps a dependency name
// ("database") to its probe.
func NewSystemHandler(version string, checks map[string]HealthChecker) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		version:   version,
		checks:    checks,
		details:   make(map[string]func() (any, error)),
	}
}

// WithDetail adds an informational section to the health body, such as
// connection pool statistics. Detail errors do not affect the status.
func (h *SystemHandler) WithDetail(name string, fn func() (any, error)) *SystemHandler {
	h.details[name] = fn
	return h
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	GoVersion string            `json:"go_version"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
	Details   map[string]any    `json:"details,omitempty"`
}

// Health reports liveness and dependency status. Any failing check answers 503.
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	status := http.StatusOK
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
		for name, check := range h.checks {
			if err := pingWithTimeout(c.Request.Context(), check); err != nil {
				resp.Checks[name] = "unavailable: " + err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
	}

	if len(h.details) > 0 {
		resp.Details = make(map[string]any, len(h.details))
		for name, fn := range h.details {
			if v, err := fn(); err == nil {
				resp.Details[name] = v
			}
		}
	}

	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}

func pingWithTimeout(ctx context.Context, check HealthChecker) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- check.Ping() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

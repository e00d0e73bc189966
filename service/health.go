package service

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Program   string            `json:"program"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheckFunc probes one backing dependency.
type HealthCheckFunc func(ctx context.Context) error

type HealthHandler struct {
	serviceName string
	programID   string
	checks      map[string]HealthCheckFunc
}

func NewHealthHandler(serviceName, programID string, checks map[string]HealthCheckFunc) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		programID:   programID,
		checks:      checks,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Program:   h.programID,
	}
	code := http.StatusOK
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
		for name, check := range h.checks {
			ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
			err := check(ctx)
			cancel()
			if err != nil {
				resp.Checks[name] = "down"
				resp.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "up"
		}
	}
	c.JSON(code, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/healthz", h.HealthCheck)
}

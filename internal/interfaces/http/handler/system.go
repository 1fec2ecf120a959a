package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ledgerlink/backend/internal/infrastructure/persistence"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// SystemHandler serves liveness and readiness information
type SystemHandler struct {
	appName string
	checks  map[string]HealthCheck
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(appName string) *SystemHandler {
	return &SystemHandler{
		appName: appName,
		checks:  make(map[string]HealthCheck),
	}
}

// WithDatabase registers the database connectivity check
func (h *SystemHandler) WithDatabase(db *persistence.Database) *SystemHandler {
	h.checks["database"] = func(ctx context.Context) error {
		sqlDB, err := db.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	return h
}

// WithRedis registers the redis connectivity check
func (h *SystemHandler) WithRedis(client *redis.Client) *SystemHandler {
	h.checks["redis"] = func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
	return h
}

// HealthResponse reports overall and per-dependency status
type HealthResponse struct {
	Status     string            `json:"status"`
	App        string            `json:"app"`
	Components map[string]string `json:"components"`
	CheckedAt  time.Time         `json:"checked_at"`
}

// Health runs every registered dependency check. Any failing component
// degrades the overall status and the endpoint answers 503.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:     "ok",
		App:        h.appName,
		Components: make(map[string]string, len(h.checks)),
		CheckedAt:  time.Now(),
	}

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			resp.Components[name] = "down: " + err.Error()
			resp.Status = "degraded"
			continue
		}
		resp.Components[name] = "up"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

package health

import (
	"context"
	"net/http"
	"time"

	"wingmate/internal/db"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// HealthResponse reports overall status plus per-dependency checks.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthChecker verifies the database and redis connections.
type HealthChecker struct {
	database *db.Database
	redis    *redis.Client
	timeout  time.Duration
}

func NewHealthChecker(database *db.Database, redisClient *redis.Client, timeout time.Duration) *HealthChecker {
	return &HealthChecker{
		database: database,
		redis:    redisClient,
		timeout:  timeout,
	}
}

// Handler serves GET /health. Degraded dependencies return 503.
func (h *HealthChecker) Handler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := h.database.HealthCheck(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	status := "ok"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{Status: status, Checks: checks})
}

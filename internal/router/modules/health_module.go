package modules

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finman/user-service/internal/container"
)

// HealthModule exposes GET /api/health reporting the service and its
// dependencies. The service itself is healthy as long as the process runs;
// dependency states are informational.
type HealthModule struct{}

func NewHealthModule() *HealthModule { return &HealthModule{} }

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{"self": "ok"}
		if pool := container.GetPGPool(); pool != nil {
			if err := pool.Ping(ctx); err != nil {
				checks["postgres"] = "down"
			} else {
				checks["postgres"] = "ok"
			}
		}
		if rdb := container.GetRedis(); rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				checks["redis"] = "down"
			} else {
				checks["redis"] = "ok"
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "checks": checks})
	})
}

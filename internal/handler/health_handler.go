package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/grocery_api/internal/service"
	"github.com/GTDGit/grocery_api/internal/utils"
)

var startTime = time.Now()

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	products *service.ProductService
	redis    Pinger
}

// NewHealthHandler creates a new HealthHandler. redis may be nil when the
// similar-products cache is disabled.
func NewHealthHandler(products *service.ProductService, redis Pinger) *HealthHandler {
	return &HealthHandler{products: products, redis: redis}
}

// GetHealth responds with service, catalog and cache status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	cacheStatus := "disabled"
	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		cacheStatus = "connected"
		if err := h.redis.Ping(ctx); err != nil {
			cacheStatus = "disconnected"
		}
	}

	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":  "healthy",
		"version": "1.0.0",
		"uptime":  int(time.Since(startTime).Seconds()),
		"catalog": h.products.Stats(),
		"cache":   gin.H{"status": cacheStatus},
	})
}

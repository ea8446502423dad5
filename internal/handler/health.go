package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	pool  *pgxpool.Pool
	redis *redis.Client
}

// NewHealthHandler reports on pool and, when non-nil, the cache client. An
// unreachable cache degrades the service but does not make it unhealthy.
func NewHealthHandler(pool *pgxpool.Pool, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{pool: pool, redis: redisClient}
}

func (h *HealthHandler) Health(c *gin.Context) {
	cacheStatus := "disabled"
	if h.redis != nil {
		cacheStatus = "connected"
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			cacheStatus = "disconnected"
		}
	}

	dbStatus := "connected"
	if err := h.pool.Ping(c.Request.Context()); err != nil {
		dbStatus = "disconnected"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": dbStatus,
			"cache":    cacheStatus,
		})
		return
	}

	status := "healthy"
	if cacheStatus == "disconnected" {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"database": dbStatus,
		"cache":    cacheStatus,
	})
}

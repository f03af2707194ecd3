package controllers

import (
	"Fourline/services/redis"
	"Fourline/services/store"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

// @Summary Endpoint just pings the server
// @Description Returns a basic message
// @Tags health
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// @Summary Server health
// @Description Checks the PostgreSQL and Redis connections
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,postgres=string,redis=string}
// @Failure 503 {object} object{status=string,postgres=string,redis=string}
// @Router /health [get]
func Health(st *store.Store, cache *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		response := gin.H{"status": "ok", "postgres": "ok", "redis": "disabled"}

		if err := st.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			response["postgres"] = err.Error()
		}
		if cache != nil {
			response["redis"] = "ok"
			if err := cache.Ping(ctx); err != nil {
				status = http.StatusServiceUnavailable
				response["redis"] = err.Error()
			}
		}
		if status != http.StatusOK {
			response["status"] = "degraded"
		}
		c.JSON(status, response)
	}
}

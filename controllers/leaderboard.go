package controllers

import (
	game_constants "Fourline/constants/game"
	"Fourline/services/redis"
	"Fourline/services/store"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// @Summary Leaderboard
// @Description Players with the most wins. Served from the Redis cache when possible.
// @Tags leaderboard
// @Produce json
// @Param limit query int false "Number of players (default 10, max 100)"
// @Success 200 {array} models.Standing
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /leaderboard [get]
func GetLeaderboard(st *store.Store, cache *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := game_constants.LEADERBOARD_SIZE
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive number"})
				return
			}
			limit = min(n, game_constants.MAX_LEADERBOARD_SIZE)
		}

		if cache != nil {
			cached, err := cache.GetCachedLeaderboard(limit)
			if err != nil {
				log.Printf("[LEADERBOARD-ERROR] Cache read failed: %v", err)
			} else if cached != nil {
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		top, err := st.TopPlayers(c.Request.Context(), limit)
		if err != nil {
			log.Printf("[LEADERBOARD-ERROR] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if cache != nil {
			if err := cache.CacheLeaderboard(limit, top); err != nil {
				log.Printf("[LEADERBOARD-ERROR] Cache write failed: %v", err)
			}
		}
		c.JSON(http.StatusOK, top)
	}
}

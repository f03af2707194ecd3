package controllers

import (
	"Fourline/services/store"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Recent games
// @Description Last 50 finished games, newest first
// @Tags games
// @Produce json
// @Success 200 {array} postgres.Game
// @Failure 500 {object} object{error=string}
// @Router /games [get]
func GetGames(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		games, err := st.RecentGames(c.Request.Context(), 0)
		if err != nil {
			log.Printf("[GAMES-ERROR] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		c.JSON(http.StatusOK, games)
	}
}

// @Summary Game record
// @Description Players, moves and final board of a finished game
// @Tags games
// @Produce json
// @Param id path string true "Game id"
// @Success 200 {object} postgres.Game
// @Failure 404 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /games/{id} [get]
func GetGameByID(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		game, err := st.GameByID(c.Request.Context(), c.Param("id"))
		if errors.Is(err, store.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		if err != nil {
			log.Printf("[GAMES-ERROR] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		c.JSON(http.StatusOK, game)
	}
}

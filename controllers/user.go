package controllers

import (
	"Fourline/middleware"
	redis_models "Fourline/models/redis"
	"Fourline/services/redis"
	"Fourline/services/store"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	Username string `json:"username" form:"username"`
}

// @Summary Register a player
// @Description Finds or creates the player with that username, remembers it in the session and returns a token for the socket handshake
// @Tags users
// @Accept json
// @Produce json
// @Param username body createUserRequest true "Username"
// @Success 200 {object} object{id=string,username=string,wins=int,token=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /users [post]
func CreateUser(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createUserRequest
		if err := c.ShouldBind(&req); err != nil || strings.TrimSpace(req.Username) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username can't be empty"})
			return
		}

		player, err := st.FindOrCreateParticipant(c.Request.Context(), req.Username)
		if err != nil {
			log.Printf("[USERS-ERROR] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		token, err := middleware.GeneratePlayerToken(player.ID, player.Username)
		if err != nil {
			log.Printf("[USERS-ERROR] Could not sign token for %s: %v", player.Username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
			return
		}

		session := sessions.Default(c)
		session.Set(middleware.PlayerIDKey, player.ID)
		session.Set(middleware.UsernameKey, player.Username)
		if err := session.Save(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":       player.ID,
			"username": player.Username,
			"wins":     player.Wins,
			"token":    token,
		})
	}
}

// @Summary Current player
// @Tags users
// @Produce json
// @Success 200 {object} postgres.Player
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /users/me [get]
func GetMe(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		player, err := st.PlayerByID(c.Request.Context(), c.GetString(middleware.PlayerIDKey))
		if errors.Is(err, store.ErrPlayerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
			return
		}
		if err != nil {
			log.Printf("[USERS-ERROR] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		c.JSON(http.StatusOK, player)
	}
}

// Logout forgets the player remembered in the session
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get(middleware.PlayerIDKey) == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session token"})
		return
	}

	session.Delete(middleware.PlayerIDKey)
	session.Delete(middleware.UsernameKey)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// @Summary Player presence
// @Description Whether a player is online, queued, playing or offline
// @Tags users
// @Produce json
// @Param id path string true "Player id"
// @Success 200 {object} redis_models.PlayerPresence
// @Failure 500 {object} object{error=string}
// @Router /players/{id}/status [get]
func GetPlayerStatus(cache *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		offline := redis_models.PlayerPresence{PlayerID: id, Status: redis_models.StatusOffline}
		if cache == nil {
			c.JSON(http.StatusOK, offline)
			return
		}

		presence, err := cache.GetPresence(id)
		if err != nil {
			log.Printf("[PRESENCE-ERROR] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Redis error"})
			return
		}
		if presence == nil {
			c.JSON(http.StatusOK, offline)
			return
		}
		c.JSON(http.StatusOK, presence)
	}
}

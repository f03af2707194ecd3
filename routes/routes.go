package routes

import (
	"Fourline/controllers"
	"Fourline/middleware"
	"Fourline/services/redis"
	"Fourline/services/store"
	utils "Fourline/utils"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes. cache may be nil when Redis is not
// reachable.
func SetupRoutes(router *gin.Engine, st *store.Store, cache *redis.RedisClient) {
	// utils global
	router.Use(utils.Logger(), utils.ErrorHandler())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.GET("/health", controllers.Health(st, cache))

	api.GET("/leaderboard", controllers.GetLeaderboard(st, cache))

	api.GET("/games", controllers.GetGames(st))

	api.GET("/games/:id", controllers.GetGameByID(st))

	api.GET("/players/:id/status", controllers.GetPlayerStatus(cache))

	api.POST("/users", controllers.CreateUser(st))

	authentication := api.Group("/users")
	authentication.Use(middleware.AuthRequired)
	{
		authentication.GET("/me", controllers.GetMe(st))

		authentication.DELETE("/logout", controllers.Logout)
	}
}

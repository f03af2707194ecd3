package main

import (
	"Fourline/config"
	_ "Fourline/config/swagger"
	"Fourline/middleware"
	"Fourline/routes"
	"Fourline/services/redis"
	"Fourline/services/socket_io"
	socketio_types "Fourline/services/socket_io/types"
	"Fourline/services/store"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// @title Fourline API
// @version 1.0
// @description Gin-Gonic server for the "Fourline" Connect-4 game API
// @host localhost:8080
// @BasePath /
// @paths
func main() {
	godotenv.Load()
	log.Println("Setting up server...")

	if os.Getenv("PROD") == "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := config.ConnectGORM()
	if err != nil {
		log.Fatalf("Error connecting to PostgreSQL: %v", err)
	}
	log.Println("GORM Connected")

	// Only migrate in development or during deployment
	if os.Getenv("MIGRATE_POSTGRES") == "true" {
		log.Println("Migrating PostgreSQL database...")
		if err := config.MigrateDatabase(gormDB); err != nil {
			log.Printf("Warning: Database migration failed: %v", err)
		} else {
			log.Println("Database migrated successfully")
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
	}
	defer sqlDB.Close()

	st := store.New(gormDB)

	// Redis only backs presence and the leaderboard cache, the server runs without it
	redisClient, err := config.Connect_redis()
	if err != nil {
		log.Printf("Warning: running without Redis: %v", err)
		redisClient = nil
	} else {
		defer redis.CloseRedis(redisClient)
	}

	settings := config.LoadGameSettings()
	base := socketio_types.NewSocketServer(settings, st, nil)
	if redisClient != nil {
		base.Presence = redisClient
	}
	sio := socket_io.NewServer(base, st)

	r := gin.Default()

	middleware.SetUpMiddleware(r)

	routes.SetupRoutes(r, st, redisClient)

	sio.Start(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}

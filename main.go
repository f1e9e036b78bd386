package main

import (
	"Liaptui/config"
	_ "Liaptui/config/swagger"
	"Liaptui/middleware"
	"Liaptui/routes"
	"Liaptui/services/game"
	"Liaptui/services/redis"
	"Liaptui/services/socket_io"
	socketio_types "Liaptui/services/socket_io/types"
	"Liaptui/sync"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// @title Liaptui API
// @version 1.0
// @description Gin-Gonic server for the "Liaptui" game API
// @host localhost:8080
// @BasePath /
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
			// Continue execution even if migration fails
		} else {
			log.Println("Database migrated successfully")
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
	}
	defer sqlDB.Close()

	redisClient, err := config.Connect_redis()
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	log.Println("Connection to Redis successful")
	defer redis.CloseRedis(redisClient)

	r := gin.Default()

	middleware.SetUpMiddleware(r)

	// Shared game infrastructure: session registry, bot trigger, result sync
	registry := game.NewRegistry()
	bots := game.NewBotTrigger(nil)
	syncManager := sync.NewSyncManager(redisClient, gormDB)

	sio := socketio_types.NewSocketServer()
	(*socket_io.MySocketServer)(sio).Start(r, registry)

	routes.SetupRoutes(r, gormDB, redisClient, registry, sio, bots, syncManager)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}

package routes

import (
	"Liaptui/controllers"
	"Liaptui/services/game"
	"Liaptui/services/redis"
	socketio_types "Liaptui/services/socket_io/types"
	"Liaptui/sync"
	utils "Liaptui/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.RedisClient,
	reg *game.Registry, sio *socketio_types.SocketServer, bots *game.BotTrigger,
	syncManager *sync.SyncManager) {

	// utils global
	router.Use(utils.ErrorHandler())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes group
	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.POST("/CreateLobby", controllers.CreateLobby(db, redisClient, reg, sio, bots, syncManager))

	api.GET("/getAllLobbies", controllers.GetAllLobbies(redisClient))

	api.GET("/lobbyInfo/:lobby_id", controllers.GetLobbyInfo(redisClient))

	api.GET("/gameResult/:lobby_id", controllers.GetGameResult(db))

	// Event log inspection endpoints
	debug := api.Group("/debug")
	{
		debug.GET("/events/:lobby_id", controllers.ListEvents(redisClient))

		debug.GET("/replay/:lobby_id", controllers.ReplayLobby(redisClient))
	}
}

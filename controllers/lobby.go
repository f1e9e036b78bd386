package controllers

import (
	models "Liaptui/models/postgres"
	redis_models "Liaptui/models/redis"
	"Liaptui/services/game"
	"Liaptui/services/redis"
	"Liaptui/sync"
	"Liaptui/utils"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// @Summary Creates a new lobby
// @Description Creates the durable lobby record and spins up its game session. The creator becomes the host and still has to claim a seat through the socket join_lobby event.
// @Tags lobby
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username of the lobby creator"
// @Success 200 {object} object{lobby_id=string,message=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /CreateLobby [post]
func CreateLobby(db *gorm.DB, redisClient *redis.RedisClient, reg *game.Registry,
	emitter game.Emitter, bots *game.BotTrigger, syncManager *sync.SyncManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.PostForm("username")
		if username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
			return
		}

		lobbyID := uuid.New().String()

		newLobby := models.GameLobby{
			ID:       lobbyID,
			HostName: username,
		}
		if err := db.Create(&newLobby).Error; err != nil {
			log.Printf("[LOBBY-ERROR] Error creating lobby record: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating lobby"})
			return
		}

		descriptor := &redis_models.GameLobby{
			ID:           lobbyID,
			HostName:     username,
			CurrentPhase: redis_models.PhaseNone,
			CreatedAt:    time.Now().UTC(),
		}
		if err := redisClient.SaveGameLobby(descriptor); err != nil {
			log.Printf("[LOBBY-ERROR] Error saving lobby descriptor: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating lobby"})
			return
		}

		gs := game.NewGameSession(lobbyID, username, redisClient, emitter, bots)
		gs.OnGameEnd = func(r *game.Room) {
			syncManager.OnGameEnd(r)
			reg.Remove(r.ID)
		}
		gs.OnClosed = reg.Remove
		reg.Add(gs)

		log.Printf("[LOBBY] Lobby %s created by %s", lobbyID, username)
		c.JSON(http.StatusOK, gin.H{"lobby_id": lobbyID, "message": "Lobby created successfully"})
	}
}

// @Summary Lists all active lobbies
// @Description Returns the descriptor of every lobby currently stored in Redis
// @Tags lobby
// @Produce json
// @Success 200 {array} object{lobby_id=string,host_name=string,player_count=integer,is_started=boolean,current_phase=string,current_round=integer}
// @Failure 500 {object} object{error=string}
// @Router /getAllLobbies [get]
func GetAllLobbies(redisClient *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		allLobbies, err := redisClient.GetAllLobbies()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		lobbies := make([]gin.H, len(allLobbies))
		for i, lobby := range allLobbies {
			lobbies[i] = gin.H{
				"lobby_id":      lobby.ID,
				"host_name":     lobby.HostName,
				"player_count":  lobby.PlayerCount,
				"is_started":    lobby.IsStarted,
				"current_phase": lobby.CurrentPhase,
				"current_round": lobby.CurrentRound,
			}
		}
		c.JSON(http.StatusOK, lobbies)
	}
}

// @Summary Gives info of a lobby
// @Description Given a lobby id, returns its current descriptor
// @Tags lobby
// @Produce json
// @Param lobby_id path string true "Id of the lobby wanted"
// @Success 200 {object} object{lobby_id=string,host_name=string,player_count=integer,is_started=boolean,current_phase=string,current_round=integer,created_at=string}
// @Failure 404 {object} object{error=string}
// @Router /lobbyInfo/{lobby_id} [get]
func GetLobbyInfo(redisClient *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		lobbyID := c.Param("lobby_id")

		lobby, err := redisClient.GetGameLobby(lobbyID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"lobby_id":      lobby.ID,
			"host_name":     lobby.HostName,
			"player_count":  lobby.PlayerCount,
			"is_started":    lobby.IsStarted,
			"current_phase": lobby.CurrentPhase,
			"current_round": lobby.CurrentRound,
			"created_at":    lobby.CreatedAt,
		})
	}
}

// @Summary Lists finished game results
// @Description Returns the stored final result of a finished game. An unknown lobby and a lobby that has not finished yet are reported separately.
// @Tags lobby
// @Produce json
// @Param lobby_id path string true "Id of the finished lobby"
// @Param username query string false "Only return the result if this player took part in the game"
// @Success 200 {object} object{lobby_id=string,winner=string,rounds_played=integer,final_scores=object}
// @Failure 404 {object} object{error=string}
// @Router /gameResult/{lobby_id} [get]
func GetGameResult(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		lobbyID := c.Param("lobby_id")

		if _, err := utils.CheckLobbyExists(db, lobbyID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
			return
		}

		if username := c.Query("username"); username != "" {
			playedHere, err := utils.IsPlayerInLobby(db, lobbyID, username)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if !playedHere {
				c.JSON(http.StatusNotFound, gin.H{"error": "Player did not take part in this game"})
				return
			}
		}

		var result models.GameResult
		if err := db.Where("lobby_id = ?", lobbyID).First(&result).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Game result not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"lobby_id":      result.LobbyID,
			"winner":        result.WinnerUsername,
			"rounds_played": result.RoundsPlayed,
			"final_scores":  result.FinalScores,
			"finished_at":   result.FinishedAt,
		})
	}
}

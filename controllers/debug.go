package controllers

import (
	"Liaptui/services/game"
	"Liaptui/services/redis"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// @Summary Lists the event log of a lobby
// @Description Returns the persisted events of a lobby, optionally starting after a sequence number
// @Tags debug
// @Produce json
// @Param lobby_id path string true "Id of the lobby"
// @Param since query integer false "Return only events with sequence greater than this value"
// @Success 200 {object} object{lobby_id=string,count=integer,events=array}
// @Failure 500 {object} object{error=string}
// @Router /debug/events/{lobby_id} [get]
func ListEvents(redisClient *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		lobbyID := c.Param("lobby_id")

		since, _ := strconv.ParseInt(c.DefaultQuery("since", "0"), 10, 64)

		events, err := redisClient.GetEventsSince(lobbyID, since)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"lobby_id": lobbyID,
			"count":    len(events),
			"events":   events,
		})
	}
}

// @Summary Replays the event log of a lobby
// @Description Rebuilds the room state by folding the persisted event log and returns the result. Useful to verify that replay matches the live state.
// @Tags debug
// @Produce json
// @Param lobby_id path string true "Id of the lobby"
// @Success 200 {object} object{lobby_id=string,events_applied=integer,state=object}
// @Failure 500 {object} object{error=string}
// @Router /debug/replay/{lobby_id} [get]
func ReplayLobby(redisClient *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		lobbyID := c.Param("lobby_id")

		events, err := redisClient.GetEventsSince(lobbyID, 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		hostName := ""
		if lobby, err := redisClient.GetGameLobby(lobbyID); err == nil {
			hostName = lobby.HostName
		}

		room, err := game.ReplayRoom(lobbyID, hostName, events)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"lobby_id":       lobbyID,
			"events_applied": len(events),
			"state":          game.BuildSnapshot(room, ""),
		})
	}
}

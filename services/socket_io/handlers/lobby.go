package handlers

import (
	"Liaptui/services/game"
	socketio_types "Liaptui/services/socket_io/types"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleJoinLobby seats a user in a lobby. The seat claim goes through the
// session queue like every other room mutation.
func HandleJoinLobby(reg *game.Registry, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		lobbyID, ok := argString(args, 0)
		if !ok {
			log.Printf("[JOIN-ERROR] Missing lobby ID for user %s", username)
			client.Emit("error", gin.H{"error": "Missing lobby ID"})
			return
		}
		log.Printf("[JOIN] User %s joining lobby %s", username, lobbyID)

		gs, exists := reg.Get(lobbyID)
		if !exists {
			client.Emit("error", gin.H{"error": "Lobby not found"})
			return
		}

		result, err := gs.Submit(&game.Action{Kind: game.ActionReady, PlayerID: username})
		if err != nil {
			log.Printf("[JOIN-ERROR] User %s rejected from lobby %s: %v", username, lobbyID, err)
			client.Emit("action_rejected", gin.H{
				"code":   game.RejectCode(err),
				"reason": err.Error(),
			})
			return
		}

		client.Join(socket.Room(lobbyID))
		sio.SetUserLobby(username, lobbyID)

		log.Printf("[JOIN-SUCCESS] User %s joined lobby %s at sequence %d",
			username, lobbyID, result.Sequence)
		client.Emit("lobby_joined", gin.H{
			"lobby_id": lobbyID,
			"sequence": result.Sequence,
		})
	}
}

// HandleLeaveLobby removes a user from their lobby voluntarily. Pre-game the
// seat is freed; mid-game a bot takes the seat over permanently.
func HandleLeaveLobby(reg *game.Registry, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		lobbyID, exists := sio.GetUserLobby(username)
		if !exists {
			client.Emit("error", gin.H{"error": "You are not in a lobby"})
			return
		}
		log.Printf("[LEAVE] User %s leaving lobby %s", username, lobbyID)

		gs, exists := reg.Get(lobbyID)
		if exists {
			_, err := gs.Submit(&game.Action{Kind: game.ActionLeave, PlayerID: username})
			if err != nil {
				log.Printf("[LEAVE-ERROR] Leave of %s rejected in lobby %s: %v", username, lobbyID, err)
			}
		}

		client.Leave(socket.Room(lobbyID))
		sio.ClearUserLobby(username)
		client.Emit("lobby_left", gin.H{"lobby_id": lobbyID})
	}
}

// HandleStartGame starts the game. Host only; empty seats are filled with
// bot players.
func HandleStartGame(reg *game.Registry, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		lobbyID, exists := sio.GetUserLobby(username)
		if !exists {
			client.Emit("error", gin.H{"error": "You are not in a lobby"})
			return
		}
		log.Printf("[START] User %s starting game in lobby %s", username, lobbyID)

		gs, exists := reg.Get(lobbyID)
		if !exists {
			client.Emit("error", gin.H{"error": "Lobby not found"})
			return
		}

		result, err := gs.Submit(&game.Action{Kind: game.ActionStartGame, PlayerID: username})
		if err != nil {
			log.Printf("[START-ERROR] Start rejected in lobby %s: %v", lobbyID, err)
			client.Emit("action_rejected", gin.H{
				"code":   game.RejectCode(err),
				"reason": err.Error(),
			})
			return
		}
		log.Printf("[START-SUCCESS] Lobby %s started at sequence %d", lobbyID, result.Sequence)
	}
}

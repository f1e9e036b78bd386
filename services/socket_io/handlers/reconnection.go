package handlers

import (
	"Liaptui/services/game"
	socketio_types "Liaptui/services/socket_io/types"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleReconnectReady resumes control of a seat after a disconnect. The
// reply carries a full-state snapshot plus every notification buffered while
// the player was away, all labeled with sequence numbers so the client can
// discard duplicates.
// Expected payload: {"lobby_id": "<id>"}
func HandleReconnectReady(reg *game.Registry, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		payload, ok := argMap(args, 0)
		if !ok {
			client.Emit("error", gin.H{"error": "Missing reconnect payload"})
			return
		}
		lobbyID, ok := payload["lobby_id"].(string)
		if !ok {
			client.Emit("error", gin.H{"error": "Missing lobby ID"})
			return
		}
		log.Printf("[RECONNECT] User %s reconnecting to lobby %s", username, lobbyID)

		gs, exists := reg.Get(lobbyID)
		if !exists {
			client.Emit("error", gin.H{"error": "Lobby not found"})
			return
		}

		result, err := gs.Submit(&game.Action{Kind: game.ActionReconnect, PlayerID: username})
		if err != nil {
			log.Printf("[RECONNECT-ERROR] Reconnect of %s to lobby %s rejected: %v",
				username, lobbyID, err)
			client.Emit("action_rejected", gin.H{
				"code":   game.RejectCode(err),
				"reason": err.Error(),
			})
			return
		}

		client.Join(socket.Room(lobbyID))
		sio.SetUserLobby(username, lobbyID)

		// snapshot first, then the buffered backlog in sequence order; the
		// backlog ends with the player_reconnected notice itself
		client.Emit("game_snapshot", gin.H{"snapshot": result.Snapshot})
		for _, item := range result.Queued {
			client.Emit(item.Event, item.Data)
		}

		log.Printf("[RECONNECT-SUCCESS] User %s resumed lobby %s at sequence %d with %d queued events",
			username, lobbyID, result.Sequence, len(result.Queued))
	}
}

// HandleGetGameSnapshot sends the requesting user a fresh full-state
// snapshot of their current lobby.
func HandleGetGameSnapshot(reg *game.Registry, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		lobbyID, exists := sio.GetUserLobby(username)
		if !exists {
			client.Emit("error", gin.H{"error": "You are not in a lobby"})
			return
		}
		gs, exists := reg.Get(lobbyID)
		if !exists {
			client.Emit("error", gin.H{"error": "Lobby not found"})
			return
		}

		// the reconnect action is idempotent for connected players and runs
		// on the session goroutine, which makes the snapshot race-free
		result, err := gs.Submit(&game.Action{Kind: game.ActionReconnect, PlayerID: username})
		if err != nil {
			client.Emit("action_rejected", gin.H{
				"code":   game.RejectCode(err),
				"reason": err.Error(),
			})
			return
		}
		client.Emit("game_snapshot", gin.H{"snapshot": result.Snapshot})
	}
}

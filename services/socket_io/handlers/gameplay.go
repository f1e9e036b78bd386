package handlers

import (
	"Liaptui/services/game"
	socketio_types "Liaptui/services/socket_io/types"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// submitGameplay routes one gameplay action to the user's session and emits
// the rejection back to the client when the queue refuses it. Accepted
// actions need no direct reply: the resulting events reach the client
// through the broadcast fan-out.
func submitGameplay(reg *game.Registry, client *socket.Socket,
	sio *socketio_types.SocketServer, username, tag string, a *game.Action) {
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

	result, err := gs.Submit(a)
	if err != nil {
		log.Printf("[%s-ERROR] Action %s by %s rejected in lobby %s: %v",
			tag, a.Kind, username, lobbyID, err)
		client.Emit("action_rejected", gin.H{
			"action": string(a.Kind),
			"code":   game.RejectCode(err),
			"reason": err.Error(),
		})
		return
	}
	log.Printf("[%s] Action %s by %s applied in lobby %s, sequence %d",
		tag, a.Kind, username, lobbyID, result.Sequence)
}

// HandleDeclare submits the user's pile declaration.
// Expected payload: {"value": <int>}
func HandleDeclare(reg *game.Registry, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		payload, ok := argMap(args, 0)
		if !ok {
			client.Emit("error", gin.H{"error": "Missing declaration payload"})
			return
		}
		value, ok := mapInt(payload, "value")
		if !ok {
			client.Emit("error", gin.H{"error": "Missing declaration value"})
			return
		}
		submitGameplay(reg, client, sio, username, "DECLARE", &game.Action{
			Kind:     game.ActionDeclare,
			PlayerID: username,
			Value:    value,
		})
	}
}

// HandlePlayPieces submits a piece play for the current turn.
// Expected payload: {"pieces": ["GENERAL_RED", ...]}
func HandlePlayPieces(reg *game.Registry, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		payload, ok := argMap(args, 0)
		if !ok {
			client.Emit("error", gin.H{"error": "Missing play payload"})
			return
		}
		pieces, ok := mapStringSlice(payload, "pieces")
		if !ok {
			client.Emit("error", gin.H{"error": "Missing pieces list"})
			return
		}
		submitGameplay(reg, client, sio, username, "PLAY", &game.Action{
			Kind:     game.ActionPlay,
			PlayerID: username,
			Pieces:   pieces,
		})
	}
}

// HandleRedealDecision answers a weak-hand redeal offer.
func HandleRedealDecision(reg *game.Registry, client *socket.Socket,
	username string, sio *socketio_types.SocketServer, accepted bool) func(args ...interface{}) {
	return func(args ...interface{}) {
		kind := game.ActionDeclineRedeal
		if accepted {
			kind = game.ActionAcceptRedeal
		}
		submitGameplay(reg, client, sio, username, "REDEAL", &game.Action{
			Kind:     kind,
			PlayerID: username,
		})
	}
}

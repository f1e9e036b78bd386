package handlers

import (
	"Liaptui/services/game"
	socketio_types "Liaptui/services/socket_io/types"
	"log"
)

// HandleDisconnecting reacts to a dropped socket. The user keeps their seat
// and lobby membership: a bot takes over until they reconnect. Only the
// connection map entry is removed, so the broadcaster starts buffering
// their notifications.
func HandleDisconnecting(reg *game.Registry, username string,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[DISCONNECT] User %s disconnecting", username)

		sio.RemoveConnection(username)

		lobbyID, exists := sio.GetUserLobby(username)
		if !exists {
			log.Printf("[DISCONNECT-DONE] User %s was not in a lobby", username)
			return
		}

		gs, exists := reg.Get(lobbyID)
		if !exists {
			sio.ClearUserLobby(username)
			return
		}

		_, err := gs.Submit(&game.Action{Kind: game.ActionDisconnect, PlayerID: username})
		if err != nil {
			log.Printf("[DISCONNECT-ERROR] Disconnect of %s in lobby %s rejected: %v",
				username, lobbyID, err)
			return
		}
		log.Printf("[DISCONNECT-DONE] User %s handed over to bot in lobby %s", username, lobbyID)
	}
}

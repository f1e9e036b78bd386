package socket_io

import (
	"Liaptui/services/game"
	"Liaptui/services/socket_io/handlers"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	socketio_types "Liaptui/services/socket_io/types"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

// verifyUserConnection extracts the username from the handshake auth data.
// Connections without a username are dropped before any handler is bound.
func verifyUserConnection(client *socket.Socket) (bool, string) {
	auth, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		client.Emit("error", gin.H{"error": "Missing handshake auth"})
		client.Disconnect(true)
		return false, ""
	}
	username, ok := auth["username"].(string)
	if !ok || username == "" {
		client.Emit("error", gin.H{"error": "Missing username in handshake auth"})
		client.Disconnect(true)
		return false, ""
	}
	return true, username
}

func (sio *MySocketServer) Start(router *gin.Engine, reg *game.Registry) {
	log.DEBUG = true
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	// KEY: initialize the maps, otherwise it panics
	sio.UserConnections = make(map[string]*socket.Socket)
	sio.UserLobbies = make(map[string]string)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		success, username := verifyUserConnection(client)
		if !success {
			return
		}

		tracker := (*socketio_types.SocketServer)(sio)
		tracker.AddConnection(username, client)

		fmt.Println("An individual just connected!: ", username)

		// Claim a seat in a lobby
		client.On("join_lobby", handlers.HandleJoinLobby(reg, client, username, tracker))

		// Exit a lobby voluntarily
		client.On("leave_lobby", handlers.HandleLeaveLobby(reg, client, username, tracker))

		// Start the game (host only); empty seats get bots
		client.On("start_game", handlers.HandleStartGame(reg, client, username, tracker))

		// Declare a target pile count for the round
		client.On("declare", handlers.HandleDeclare(reg, client, username, tracker))

		// Play pieces for the current turn
		client.On("play_pieces", handlers.HandlePlayPieces(reg, client, username, tracker))

		// Answer a weak-hand redeal offer
		client.On("accept_redeal", handlers.HandleRedealDecision(reg, client, username, tracker, true))
		client.On("decline_redeal", handlers.HandleRedealDecision(reg, client, username, tracker, false))

		// Resume a seat after a disconnect: snapshot + buffered events
		client.On("reconnect_ready", handlers.HandleReconnectReady(reg, client, username, tracker))

		// On-demand full state snapshot
		client.On("get_game_snapshot", handlers.HandleGetGameSnapshot(reg, client, username, tracker))

		// NOTE: hands the seat over to a bot and starts buffering events
		client.On("disconnecting", handlers.HandleDisconnecting(reg, username, tracker))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				sio.Sio_server.Close(nil)
				os.Exit(0)
			}
		}
	}()

	fmt.Println("Socket server started")
}

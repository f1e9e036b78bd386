package socketio_types

import (
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer wraps the socket.io server with a username -> connection map
// and a username -> lobby map. Together they are the connection tracker: the
// game layer asks it for live delivery, and the disconnect handler asks it
// which room a dropped player was in.
type SocketServer struct {
	Sio_server *socket.Server
	// Map to track username -> socket connections
	UserConnections map[string]*socket.Socket
	// Map to track username -> lobby the user joined
	UserLobbies map[string]string
	mutex       sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		UserConnections: make(map[string]*socket.Socket),
		UserLobbies:     make(map[string]string),
	}
}

// Add methods to manage connections
func (s *SocketServer) AddConnection(username string, socket *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.UserConnections[username] = socket
}

func (s *SocketServer) RemoveConnection(username string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.UserConnections, username)
}

func (s *SocketServer) GetConnection(username string) (*socket.Socket, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	socket, exists := s.UserConnections[username]
	return socket, exists
}

func (s *SocketServer) SetUserLobby(username, lobbyID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.UserLobbies[username] = lobbyID
}

func (s *SocketServer) ClearUserLobby(username string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.UserLobbies, username)
}

func (s *SocketServer) GetUserLobby(username string) (string, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	lobbyID, exists := s.UserLobbies[username]
	return lobbyID, exists
}

// ToPlayer delivers one event to one user. Returns false when the user has
// no live connection, so the caller can buffer the event instead.
func (s *SocketServer) ToPlayer(username, event string, data map[string]interface{}) bool {
	client, exists := s.GetConnection(username)
	if !exists {
		return false
	}
	return client.Emit(event, data) == nil
}

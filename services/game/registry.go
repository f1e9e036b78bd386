package game

import (
	"sync"
)

// Registry maps lobby IDs to their running sessions. The socket and HTTP
// layers resolve sessions through it; sessions themselves never touch it.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*GameSession
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*GameSession)}
}

func (reg *Registry) Add(gs *GameSession) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.sessions[gs.LobbyID()] = gs
}

func (reg *Registry) Get(lobbyID string) (*GameSession, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	gs, ok := reg.sessions[lobbyID]
	return gs, ok
}

// Remove closes the session and drops it from the registry.
func (reg *Registry) Remove(lobbyID string) {
	reg.mu.Lock()
	gs := reg.sessions[lobbyID]
	delete(reg.sessions, lobbyID)
	reg.mu.Unlock()
	if gs != nil {
		gs.Close()
	}
}

func (reg *Registry) List() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	ids := make([]string, 0, len(reg.sessions))
	for id := range reg.sessions {
		ids = append(ids, id)
	}
	return ids
}

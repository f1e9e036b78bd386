package redis

import "time"

// Game phases
const (
	PhasePreparation = "preparation"
	PhaseDeclaration = "declaration"
	PhaseTurn        = "turn"
	PhaseScoring     = "scoring"
	PhaseGameEnd     = "game_end"
	PhaseNone        = "none" // lobby created, game not started
)

// GameLobby is the lobby descriptor kept in Redis for the lifetime of a room.
// Live gameplay state is owned by the in-process room; this record exists for
// discovery and diagnostics.
type GameLobby struct {
	ID           string    `json:"id"`
	HostName     string    `json:"host_name"`
	PlayerCount  int       `json:"player_count"`
	IsStarted    bool      `json:"is_started"`
	CurrentPhase string    `json:"current_phase"`
	CurrentRound int       `json:"current_round"`
	CreatedAt    time.Time `json:"created_at"`
}

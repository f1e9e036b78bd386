package redis

import (
	"encoding/json"
	"time"
)

// Event is one entry of a lobby's append-only event log. The log is the
// sole source of truth for replay: folding events 1..N reproduces the
// live state at sequence N.
type Event struct {
	LobbyID   string          `json:"lobby_id"`
	Sequence  int64           `json:"sequence"` // unique, gapless, monotonic per lobby
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"` // state delta, kind-specific
	Reason    string          `json:"reason"`  // human-readable description
	PlayerID  string          `json:"player_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

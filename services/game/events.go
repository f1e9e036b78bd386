package game

import (
	redis_models "Liaptui/models/redis"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"
)

// Event kinds appended to the per-room log. Replaying them in order
// reproduces the exact live state.
const (
	EventPlayerJoined       = "player_joined"
	EventPlayerLeft         = "player_left"
	EventGameStarted        = "game_started"
	EventPhaseChange        = "phase_change"
	EventHandDealt          = "hand_dealt"
	EventRedealDecision     = "redeal_decision"
	EventDeclared           = "declared"
	EventPiecesPlayed       = "pieces_played"
	EventTurnComplete       = "turn_complete"
	EventRoundComplete      = "round_complete"
	EventScoreUpdate        = "score_update"
	EventGameEnded          = "game_ended"
	EventHostChanged        = "host_changed"
	EventPlayerDisconnected = "player_disconnected"
	EventPlayerReconnected  = "player_reconnected"
	EventLobbyClosed        = "lobby_closed"
)

// criticalEvents must never be evicted from a disconnected player's
// outbound queue.
var criticalEvents = map[string]bool{
	EventPhaseChange:        true,
	EventTurnComplete:       true,
	EventRoundComplete:      true,
	EventScoreUpdate:        true,
	EventGameEnded:          true,
	EventHostChanged:        true,
	EventPlayerDisconnected: true,
	EventPlayerReconnected:  true,
}

// IsCriticalEvent reports whether an event kind requires guaranteed delivery
func IsCriticalEvent(kind string) bool {
	return criticalEvents[kind]
}

type SeatInfo struct {
	Name string `json:"name"`
	Mode string `json:"mode"`
}

type PlayerJoinedPayload struct {
	Player string `json:"player"`
	Seat   int    `json:"seat"`
}

type PlayerLeftPayload struct {
	Player string `json:"player"`
}

type GameStartedPayload struct {
	Seats []SeatInfo `json:"seats"`
	Host  string     `json:"host"`
}

type PhaseChangePayload struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Round int    `json:"round"`
}

type HandDealtPayload struct {
	Hands      map[string][]string `json:"hands"`
	Starter    string              `json:"starter"`
	WeakSeats  []string            `json:"weak_seats"`
	Multiplier int                 `json:"multiplier"`
	Redeals    int                 `json:"redeals"`
	Round      int                 `json:"round"`
}

type RedealDecisionPayload struct {
	Player   string `json:"player"`
	Accepted bool   `json:"accepted"`
}

type DeclaredPayload struct {
	Player   string `json:"player"`
	Value    int    `json:"value"`
	PileRoom int    `json:"pile_room"` // remaining capacity after this declaration
}

type PiecesPlayedPayload struct {
	Player   string   `json:"player"`
	Pieces   []string `json:"pieces"`
	PlayType string   `json:"play_type"`
	Value    int      `json:"value"`
	Forfeit  bool     `json:"forfeit"`
}

type TurnCompletePayload struct {
	Winner string `json:"winner"`
	Piles  int    `json:"piles"`
}

type RoundCompletePayload struct {
	Round      int            `json:"round"`
	Multiplier int            `json:"multiplier"`
	Deltas     map[string]int `json:"deltas"`
}

type ScoreUpdatePayload struct {
	Totals map[string]int `json:"totals"`
}

type GameEndedPayload struct {
	Winner string         `json:"winner"`
	Totals map[string]int `json:"totals"`
	Rounds int            `json:"rounds"`
}

type HostChangedPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type PlayerConnPayload struct {
	Player string `json:"player"`
}

type LobbyClosedPayload struct {
	Reason string `json:"reason"`
}

// buildEvent marshals a typed payload into a log event with the given
// pre-assigned sequence number.
func buildEvent(lobbyID, kind string, payload interface{}, reason, playerID string, sequence int64) (*redis_models.Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling %s payload: %v", kind, err)
	}
	return &redis_models.Event{
		LobbyID:   lobbyID,
		Sequence:  sequence,
		Kind:      kind,
		Payload:   data,
		Reason:    reason,
		PlayerID:  playerID,
		Timestamp: time.Now().UTC(),
	}, nil
}

// eventStage accumulates events produced while processing one action.
// Every emitted event is applied to the staged room immediately, so later
// validation and exit-condition checks observe the intermediate state.
// Nothing is persisted until the whole batch is appended by the queue.
type eventStage struct {
	room   *Room
	rng    *rand.Rand
	events []*redis_models.Event
}

func (st *eventStage) emit(kind string, payload interface{}, reason, playerID string) error {
	ev, err := buildEvent(st.room.ID, kind, payload, reason, playerID, st.room.Seq+1)
	if err != nil {
		return err
	}
	if err := applyEvent(st.room, ev); err != nil {
		return err
	}
	st.events = append(st.events, ev)
	return nil
}

package game

// ActionKind identifies what a submitted action does.
type ActionKind string

// Client-submitted action kinds
const (
	ActionDeclare       ActionKind = "declare"
	ActionPlay          ActionKind = "play"
	ActionAcceptRedeal  ActionKind = "accept_redeal"
	ActionDeclineRedeal ActionKind = "decline_redeal"
	ActionReady         ActionKind = "ready"
	ActionLeave         ActionKind = "leave"
)

// Internal action kinds, submitted by the server itself (lobby lifecycle and
// connection tracking). They flow through the same serialized queue so that
// every room mutation has a single writer.
const (
	ActionStartGame  ActionKind = "start_game"
	ActionDisconnect ActionKind = "player_disconnect"
	ActionReconnect  ActionKind = "player_reconnect"
)

// Action is one submitted room action. Immutable once accepted; the queue
// stamps Sequence with the sequence number of the first event it produced.
type Action struct {
	Kind     ActionKind `json:"kind"`
	PlayerID string     `json:"player_id"`
	Value    int        `json:"value,omitempty"`  // declare: target pile count
	Pieces   []string   `json:"pieces,omitempty"` // play: piece codes
	Sequence int64      `json:"sequence,omitempty"`
}

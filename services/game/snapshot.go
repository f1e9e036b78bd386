package game

// SnapshotSeat is one seat as seen in a full-state snapshot. Hands other
// than the requesting player's are exposed as sizes only.
type SnapshotSeat struct {
	Name     string `json:"name"`
	Mode     string `json:"mode"`
	Declared int    `json:"declared"`
	Captured int    `json:"captured"`
	Score    int    `json:"score"`
	HandSize int    `json:"hand_size"`
}

type PlaySnapshot struct {
	Player   string   `json:"player"`
	Pieces   []string `json:"pieces"`
	PlayType string   `json:"play_type"`
	Value    int      `json:"value"`
	Forfeit  bool     `json:"forfeit"`
}

// Snapshot is the full-state catch-up sent to a reconnecting player. It is
// assembled from committed state only and labeled with the sequence it
// represents.
type Snapshot struct {
	LobbyID       string         `json:"lobby_id"`
	Sequence      int64          `json:"sequence"`
	Phase         string         `json:"phase"`
	Round         int            `json:"round"`
	Multiplier    int            `json:"multiplier"`
	Host          string         `json:"host"`
	Seats         []SnapshotSeat `json:"seats"`
	Hand          []string       `json:"hand"` // the requesting player's own hand
	PileRoom      int            `json:"pile_room"`
	TurnStarter   string         `json:"turn_starter"`
	RequiredCount int            `json:"required_count"`
	RequiredType  string         `json:"required_type"`
	Plays         []PlaySnapshot `json:"plays"`
	Over          bool           `json:"over"`
	Winner        string         `json:"winner,omitempty"`
}

// BuildSnapshot assembles the catch-up state for one player.
func BuildSnapshot(r *Room, player string) *Snapshot {
	snap := &Snapshot{
		LobbyID:       r.ID,
		Sequence:      r.Seq,
		Phase:         r.Phase,
		Round:         r.Round,
		Multiplier:    r.Multiplier,
		Host:          r.HostName,
		PileRoom:      r.PileRoom(),
		RequiredCount: r.RequiredCount,
		RequiredType:  string(r.RequiredType),
		Over:          r.Over,
		Winner:        r.Winner,
	}

	for _, s := range r.Seats {
		if s == nil {
			continue
		}
		snap.Seats = append(snap.Seats, SnapshotSeat{
			Name:     s.Name,
			Mode:     string(s.Mode),
			Declared: s.Declared,
			Captured: s.Captured,
			Score:    s.Score,
			HandSize: len(s.Hand),
		})
		if s.Name == player {
			snap.Hand = HandCodes(s.Hand)
		}
	}

	if r.Started && !r.Over {
		if s := r.Seats[r.TurnStarter]; s != nil {
			snap.TurnStarter = s.Name
		}
	}
	for _, p := range r.Plays {
		snap.Plays = append(snap.Plays, PlaySnapshot{
			Player:   r.Seats[p.SeatIdx].Name,
			Pieces:   HandCodes(p.Pieces),
			PlayType: string(p.Type),
			Value:    p.Value,
			Forfeit:  p.Forfeit,
		})
	}
	return snap
}

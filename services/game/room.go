package game

import (
	game_constants "Liaptui/constants/game"
	redis_models "Liaptui/models/redis"
)

// SeatMode tags who controls a seat. The action queue and phase handlers
// treat both modes uniformly; only the bot trigger inspects the tag.
type SeatMode string

const (
	SeatHuman     SeatMode = "human"
	SeatAutomated SeatMode = "automated"
)

// Seat is one of the four fixed player slots in a room.
type Seat struct {
	Name          string
	Mode          SeatMode
	Bot           bool // seat was filled by a bot at game start (never a reconnect target)
	Hand          []Piece
	Declared      int // target pile count for the round, -1 until declared
	Captured      int // piles captured this round
	Score         int
	Weak          bool // current hand met the weak-hand threshold
	RedealDecided bool // seat has answered the current redeal offer
}

// TurnPlay records one seat's play within the current turn.
type TurnPlay struct {
	SeatIdx int
	Pieces  []Piece
	Type    PlayType
	Value   int
	Forfeit bool // play accepted but cannot win the turn
}

// Room is the live state of one game session. It is only ever mutated by
// applying events, and only from the session's single action-processing
// goroutine.
type Room struct {
	ID       string
	HostName string
	Phase    string
	Round    int
	Seq      int64 // sequence of the last applied event

	Multiplier int // score multiplier from accepted redeals this round
	Redeals    int

	Starter       int // seat index that starts declaration and the first turn
	DeclareIdx    int // number of declarations made this round
	TurnStarter   int // seat index that opened the current turn
	RequiredCount int
	RequiredType  PlayType
	Plays         []TurnPlay
	LastWinner    int // winner of the most recent turn

	Seats [game_constants.MaxPlayers]*Seat

	Started          bool
	Over             bool
	Winner           string
	FlaggedForReview bool // set when a critical outbound queue overflowed
}

// NewRoom creates an empty room owned by hostName. Seats are claimed as
// players join; remaining seats are filled with bots at game start.
func NewRoom(id, hostName string) *Room {
	return &Room{
		ID:         id,
		HostName:   hostName,
		Phase:      redis_models.PhaseNone,
		Multiplier: 1,
	}
}

// SeatIndex returns the seat index for a player name, or -1.
func (r *Room) SeatIndex(player string) int {
	for i, s := range r.Seats {
		if s != nil && s.Name == player {
			return i
		}
	}
	return -1
}

// PlayerCount returns the number of claimed seats.
func (r *Room) PlayerCount() int {
	count := 0
	for _, s := range r.Seats {
		if s != nil {
			count++
		}
	}
	return count
}

// HumanCount returns the number of seats currently under human control.
func (r *Room) HumanCount() int {
	count := 0
	for _, s := range r.Seats {
		if s != nil && s.Mode == SeatHuman {
			count++
		}
	}
	return count
}

// DeclaredSum sums the declared targets made so far this round.
func (r *Room) DeclaredSum() int {
	sum := 0
	for _, s := range r.Seats {
		if s != nil && s.Declared != game_constants.UndeclaredValue {
			sum += s.Declared
		}
	}
	return sum
}

// PileRoom is the remaining declarable capacity before the round's fixed
// pile budget is exhausted.
func (r *Room) PileRoom() int {
	return game_constants.TotalPilesPerRound - r.DeclaredSum()
}

// SeatToAct returns the index of the seat expected to act next in the
// current phase, or -1 when no seat action is pending.
func (r *Room) SeatToAct() int {
	if !r.Started || r.Over {
		return -1
	}
	switch r.Phase {
	case redis_models.PhasePreparation:
		for i, s := range r.Seats {
			if s != nil && s.Weak && !s.RedealDecided {
				return i
			}
		}
	case redis_models.PhaseDeclaration:
		if r.DeclareIdx < game_constants.MaxPlayers {
			return (r.Starter + r.DeclareIdx) % game_constants.MaxPlayers
		}
	case redis_models.PhaseTurn:
		if len(r.Plays) < game_constants.MaxPlayers {
			return (r.TurnStarter + len(r.Plays)) % game_constants.MaxPlayers
		}
	}
	return -1
}

// bestPlayValue returns the highest non-forfeit play value of the current
// turn (0 when nothing has been played).
func (r *Room) bestPlayValue() int {
	best := 0
	for _, p := range r.Plays {
		if !p.Forfeit && p.Value > best {
			best = p.Value
		}
	}
	return best
}

// handsEmpty reports whether every seat has played out its hand.
func (r *Room) handsEmpty() bool {
	for _, s := range r.Seats {
		if s != nil && len(s.Hand) > 0 {
			return false
		}
	}
	return true
}

// nextHumanSeat finds the first human-controlled seat after `from`
// (wrapping), used for host migration. Returns -1 if none.
func (r *Room) nextHumanSeat(from int) int {
	for i := 1; i <= game_constants.MaxPlayers; i++ {
		idx := (from + i) % game_constants.MaxPlayers
		if s := r.Seats[idx]; s != nil && s.Mode == SeatHuman {
			return idx
		}
	}
	return -1
}

// Clone deep-copies the room so an action batch can be staged and
// validated without touching live state.
func (r *Room) Clone() *Room {
	clone := *r
	for i, s := range r.Seats {
		if s == nil {
			continue
		}
		seat := *s
		seat.Hand = append([]Piece(nil), s.Hand...)
		clone.Seats[i] = &seat
	}
	clone.Plays = make([]TurnPlay, len(r.Plays))
	for i, p := range r.Plays {
		play := p
		play.Pieces = append([]Piece(nil), p.Pieces...)
		clone.Plays[i] = play
	}
	return &clone
}

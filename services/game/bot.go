package game

import (
	game_constants "Liaptui/constants/game"
	redis_models "Liaptui/models/redis"
	"log"
	"math/rand"
	"sync"
	"time"
)

// ChangeNotice is the immutable summary of a room's state handed to the
// bot trigger after every applied action batch. It carries everything the
// decision function needs, so the trigger never reads live room state.
type ChangeNotice struct {
	LobbyID       string
	Phase         string
	ActingPlayer  string
	ActingMode    SeatMode
	Hand          []string
	PileRoom      int
	RequiredCount int
	RequiredType  PlayType
	BestValue     int
	TurnOpener    bool
	Over          bool
}

// Submitter is the action entry point the trigger feeds decisions into —
// the exact same path human actions take.
type Submitter interface {
	Submit(a *Action) (*Result, error)
}

// DecideFunc picks an action for an automated seat. The scoring heuristics
// behind it are external; the trigger only owns the call contract.
type DecideFunc func(n *ChangeNotice) *Action

// BotTrigger watches phase-data changes and, when the seat to act is
// automated, schedules exactly one decision after a randomized human-like
// delay. At most one schedule is outstanding per room; it is canceled the
// moment a newer state change arrives (including the seat flipping back to
// human control).
type BotTrigger struct {
	mu       sync.Mutex
	pending  map[string]*time.Timer
	decide   DecideFunc
	minDelay time.Duration
	maxDelay time.Duration
}

func NewBotTrigger(decide DecideFunc) *BotTrigger {
	if decide == nil {
		decide = DefaultDecide
	}
	return &BotTrigger{
		pending:  make(map[string]*time.Timer),
		decide:   decide,
		minDelay: game_constants.BotDelayMinMs * time.Millisecond,
		maxDelay: game_constants.BotDelayMaxMs * time.Millisecond,
	}
}

// SetDelayBounds overrides the scheduling delay window (tests)
func (bt *BotTrigger) SetDelayBounds(min, max time.Duration) {
	bt.mu.Lock()
	defer bt.mu.Unlock()
	bt.minDelay, bt.maxDelay = min, max
}

// OnStateChanged reacts to one phase-data change. Any previously scheduled
// decision for the room is stale and gets canceled first.
func (bt *BotTrigger) OnStateChanged(s Submitter, n *ChangeNotice) {
	bt.mu.Lock()
	defer bt.mu.Unlock()

	if t := bt.pending[n.LobbyID]; t != nil {
		t.Stop()
		delete(bt.pending, n.LobbyID)
	}
	if n.Over || n.ActingPlayer == "" || n.ActingMode != SeatAutomated {
		// stop at the first human seat; resume on its next accepted action
		return
	}

	delay := bt.minDelay
	if bt.maxDelay > bt.minDelay {
		delay += time.Duration(rand.Int63n(int64(bt.maxDelay - bt.minDelay)))
	}

	lobbyID := n.LobbyID
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		bt.mu.Lock()
		if bt.pending[lobbyID] != t {
			// canceled or superseded before firing
			bt.mu.Unlock()
			return
		}
		delete(bt.pending, lobbyID)
		bt.mu.Unlock()

		action := bt.decide(n)
		if action == nil {
			return
		}
		if _, err := s.Submit(action); err != nil {
			// a human action can legitimately win the race; just log it
			log.Printf("[BOT] Decision for %s in lobby %s rejected: %v",
				action.PlayerID, lobbyID, err)
		}
	})
	bt.pending[lobbyID] = t
}

// CancelRoom drops any outstanding schedule for a room (room teardown)
func (bt *BotTrigger) CancelRoom(lobbyID string) {
	bt.mu.Lock()
	defer bt.mu.Unlock()
	if t := bt.pending[lobbyID]; t != nil {
		t.Stop()
		delete(bt.pending, lobbyID)
	}
}

// DefaultDecide is the built-in decision function: declare as many piles
// as the hand has strong pieces, open with the cheapest single, follow
// with the cheapest winning combination or dump the lowest pieces.
func DefaultDecide(n *ChangeNotice) *Action {
	hand, err := PiecesFromCodes(n.Hand)
	if err != nil {
		log.Printf("[BOT-ERROR] Bad hand codes for %s: %v", n.ActingPlayer, err)
		return nil
	}

	switch n.Phase {
	case redis_models.PhasePreparation:
		return &Action{Kind: ActionDeclineRedeal, PlayerID: n.ActingPlayer}

	case redis_models.PhaseDeclaration:
		strong := 0
		for _, p := range hand {
			if p.Points > game_constants.WeakHandThreshold {
				strong++
			}
		}
		if strong > n.PileRoom {
			strong = n.PileRoom
		}
		return &Action{Kind: ActionDeclare, PlayerID: n.ActingPlayer, Value: strong}

	case redis_models.PhaseTurn:
		var pieces []Piece
		if n.TurnOpener {
			pieces = LowestPieces(hand, 1)
		} else {
			pieces = BestFollowPlay(hand, n.RequiredCount, n.RequiredType, n.BestValue)
			if pieces == nil {
				pieces = LowestPieces(hand, n.RequiredCount)
			}
		}
		if pieces == nil {
			return nil
		}
		return &Action{Kind: ActionPlay, PlayerID: n.ActingPlayer, Pieces: HandCodes(pieces)}
	}
	return nil
}

package game

import (
	game_constants "Liaptui/constants/game"
	redis_models "Liaptui/models/redis"
	"fmt"
)

// declarationPhase collects each seat's target pile count, in order,
// under the pile-room constraint.
type declarationPhase struct{}

func (declarationPhase) name() string { return redis_models.PhaseDeclaration }

func (declarationPhase) onEnter(st *eventStage) error { return nil }

func (declarationPhase) handleAction(st *eventStage, seatIdx int, a *Action) error {
	r := st.room
	seat := r.Seats[seatIdx]

	if a.Kind != ActionDeclare {
		return errWrongPhase("%s is not allowed during the declaration phase", a.Kind)
	}
	if expected := r.SeatToAct(); seatIdx != expected {
		return errWrongTurn("it is %s's turn to declare", r.Seats[expected].Name)
	}

	room := r.PileRoom()
	if a.Value < 0 || a.Value > room {
		return errRuleViolation("declaration %d outside pile-room [0..%d]", a.Value, room)
	}

	return st.emit(EventDeclared, DeclaredPayload{
		Player:   seat.Name,
		Value:    a.Value,
		PileRoom: room - a.Value,
	}, fmt.Sprintf("%s declared %d piles", seat.Name, a.Value), seat.Name)
}

func (declarationPhase) exitReached(r *Room) bool {
	return r.DeclareIdx >= game_constants.MaxPlayers
}

func (declarationPhase) next(r *Room) string { return redis_models.PhaseTurn }

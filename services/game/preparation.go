package game

import (
	game_constants "Liaptui/constants/game"
	redis_models "Liaptui/models/redis"
	"fmt"
)

// preparationPhase deals hands, detects weak hands and resolves the
// redeal offers before declaration starts.
type preparationPhase struct{}

func (preparationPhase) name() string { return redis_models.PhasePreparation }

func (preparationPhase) onEnter(st *eventStage) error {
	return dealAndEmit(st, st.room.Redeals)
}

func (preparationPhase) handleAction(st *eventStage, seatIdx int, a *Action) error {
	r := st.room
	seat := r.Seats[seatIdx]

	switch a.Kind {
	case ActionAcceptRedeal, ActionDeclineRedeal:
	default:
		return errWrongPhase("%s is not allowed during the preparation phase", a.Kind)
	}

	if !seat.Weak || seat.RedealDecided {
		return errRuleViolation("no redeal offer pending for %s", seat.Name)
	}

	accepted := a.Kind == ActionAcceptRedeal
	err := st.emit(EventRedealDecision, RedealDecisionPayload{
		Player:   seat.Name,
		Accepted: accepted,
	}, fmt.Sprintf("%s %s the redeal offer", seat.Name, decisionWord(accepted)), seat.Name)
	if err != nil {
		return err
	}

	if accepted {
		// escalate the multiplier and deal everyone a fresh hand
		return dealAndEmit(st, r.Redeals+1)
	}
	return nil
}

func (preparationPhase) exitReached(r *Room) bool {
	for _, s := range r.Seats {
		if s != nil && s.Weak && !s.RedealDecided {
			return false
		}
	}
	return true
}

func (preparationPhase) next(r *Room) string { return redis_models.PhaseDeclaration }

func decisionWord(accepted bool) string {
	if accepted {
		return "accepted"
	}
	return "declined"
}

// dealAndEmit deals fresh hands and emits the hand_dealt event. The event
// payload carries the complete deal so replay never re-rolls randomness.
// Weak-hand offers stop once the redeal budget is spent.
func dealAndEmit(st *eventStage, redeals int) error {
	r := st.room
	hands := DealHands(st.rng)

	payload := HandDealtPayload{
		Hands:      make(map[string][]string, game_constants.MaxPlayers),
		Starter:    r.Seats[r.Starter].Name,
		WeakSeats:  []string{},
		Multiplier: 1 + redeals,
		Redeals:    redeals,
		Round:      r.Round,
	}
	for i, s := range r.Seats {
		if s == nil {
			continue
		}
		payload.Hands[s.Name] = HandCodes(hands[i])
		if redeals < game_constants.MaxRedealsPerRound && IsWeakHand(hands[i]) {
			payload.WeakSeats = append(payload.WeakSeats, s.Name)
		}
	}

	reason := fmt.Sprintf("round %d deal, multiplier x%d", r.Round, payload.Multiplier)
	return st.emit(EventHandDealt, payload, reason, "")
}

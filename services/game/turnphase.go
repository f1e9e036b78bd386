package game

import (
	game_constants "Liaptui/constants/game"
	redis_models "Liaptui/models/redis"
	"fmt"
)

// turnPhase plays out the tricks: the turn starter picks the piece count,
// everyone follows it, and the best valid combination takes the piles.
type turnPhase struct{}

func (turnPhase) name() string { return redis_models.PhaseTurn }

func (turnPhase) onEnter(st *eventStage) error { return nil }

func (turnPhase) handleAction(st *eventStage, seatIdx int, a *Action) error {
	r := st.room
	seat := r.Seats[seatIdx]

	if a.Kind != ActionPlay {
		return errWrongPhase("%s is not allowed during the turn phase", a.Kind)
	}
	if expected := r.SeatToAct(); seatIdx != expected {
		return errWrongTurn("it is %s's turn to play", r.Seats[expected].Name)
	}

	if len(a.Pieces) == 0 {
		return errMalformed("a play needs at least one piece")
	}
	pieces, err := PiecesFromCodes(a.Pieces)
	if err != nil {
		return errMalformed("%v", err)
	}
	if _, ok := removeFromHand(seat.Hand, pieces); !ok {
		return errRuleViolation("%s tried to play pieces not in hand", seat.Name)
	}

	opener := len(r.Plays) == 0
	playType, value := EvaluatePlay(pieces)
	forfeit := false

	if opener {
		if len(pieces) > game_constants.MaxPlayPieces {
			return errRuleViolation("the starter may play at most %d pieces", game_constants.MaxPlayPieces)
		}
		if playType == PlayInvalid {
			return errRuleViolation("pieces do not form a valid combination")
		}
	} else {
		if len(pieces) != r.RequiredCount {
			return errRuleViolation("must follow the starter's count of %d pieces", r.RequiredCount)
		}
		// a follow that is no valid combination of the required type is
		// accepted but can never win the piles
		if playType != r.RequiredType {
			forfeit = true
			value = PieceTotal(pieces)
		}
	}

	err = st.emit(EventPiecesPlayed, PiecesPlayedPayload{
		Player:   seat.Name,
		Pieces:   HandCodes(pieces),
		PlayType: string(playType),
		Value:    value,
		Forfeit:  forfeit,
	}, fmt.Sprintf("%s played %d pieces (%s)", seat.Name, len(pieces), playType), seat.Name)
	if err != nil {
		return err
	}

	if len(r.Plays) == game_constants.MaxPlayers {
		return resolveTurn(st)
	}
	return nil
}

func (turnPhase) exitReached(r *Room) bool {
	return len(r.Plays) == 0 && r.handsEmpty()
}

func (turnPhase) next(r *Room) string { return redis_models.PhaseScoring }

// resolveTurn picks the winner once all four seats have played. The opener
// is always valid, so at least one non-forfeit play exists.
func resolveTurn(st *eventStage) error {
	r := st.room
	winner := -1
	best := -1
	for _, p := range r.Plays {
		if p.Forfeit {
			continue
		}
		if p.Value > best { // ties go to the earliest play
			best = p.Value
			winner = p.SeatIdx
		}
	}

	piles := r.RequiredCount
	name := r.Seats[winner].Name
	return st.emit(EventTurnComplete, TurnCompletePayload{
		Winner: name,
		Piles:  piles,
	}, fmt.Sprintf("%s won the turn and captured %d piles", name, piles), "")
}

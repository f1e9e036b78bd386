package game

import (
	game_constants "Liaptui/constants/game"
	redis_models "Liaptui/models/redis"
	"fmt"
)

// scoringPhase turns the round's declarations and captured piles into
// score deltas and decides between the next round and game end.
type scoringPhase struct{}

func (scoringPhase) name() string { return redis_models.PhaseScoring }

func (scoringPhase) onEnter(st *eventStage) error {
	r := st.room

	deltas := make(map[string]int, game_constants.MaxPlayers)
	for _, s := range r.Seats {
		if s == nil {
			continue
		}
		deltas[s.Name] = roundDelta(s.Declared, s.Captured) * r.Multiplier
	}

	err := st.emit(EventRoundComplete, RoundCompletePayload{
		Round:      r.Round,
		Multiplier: r.Multiplier,
		Deltas:     deltas,
	}, fmt.Sprintf("round %d scored", r.Round), "")
	if err != nil {
		return err
	}

	totals := make(map[string]int, game_constants.MaxPlayers)
	highest := 0
	leader := ""
	for _, s := range r.Seats {
		if s == nil {
			continue
		}
		totals[s.Name] = s.Score
		if leader == "" || s.Score > highest {
			highest = s.Score
			leader = s.Name
		}
	}

	err = st.emit(EventScoreUpdate, ScoreUpdatePayload{Totals: totals},
		fmt.Sprintf("totals after round %d", r.Round), "")
	if err != nil {
		return err
	}

	if highest >= game_constants.WinScoreThreshold || r.Round >= game_constants.MaxGameRounds {
		return st.emit(EventGameEnded, GameEndedPayload{
			Winner: leader,
			Totals: totals,
			Rounds: r.Round,
		}, fmt.Sprintf("game over after round %d, %s wins", r.Round, leader), "")
	}
	return nil
}

func (scoringPhase) handleAction(st *eventStage, seatIdx int, a *Action) error {
	return errWrongPhase("%s is not allowed during the scoring phase", a.Kind)
}

func (scoringPhase) exitReached(r *Room) bool { return true }

func (scoringPhase) next(r *Room) string {
	if r.Over {
		return redis_models.PhaseGameEnd
	}
	return redis_models.PhasePreparation
}

// roundDelta is the unmultiplied score change for one seat:
// exact nonzero hit earns the declaration plus a bonus, a kept zero earns a
// flat bonus, and any miss costs the distance.
func roundDelta(declared, captured int) int {
	switch {
	case declared == captured && declared > 0:
		return declared + game_constants.ExactHitBonus
	case declared == captured:
		return game_constants.ZeroDeclareBonus
	case declared > captured:
		return captured - declared
	default:
		return declared - captured
	}
}

// gameEndPhase is terminal: every action is rejected.
type gameEndPhase struct{}

func (gameEndPhase) name() string { return redis_models.PhaseGameEnd }

func (gameEndPhase) onEnter(st *eventStage) error { return nil }

func (gameEndPhase) handleAction(st *eventStage, seatIdx int, a *Action) error {
	return errWrongPhase("the game has ended")
}

func (gameEndPhase) exitReached(r *Room) bool { return false }

func (gameEndPhase) next(r *Room) string { return redis_models.PhaseGameEnd }

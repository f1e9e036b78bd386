package game

import (
	redis_models "Liaptui/models/redis"
)

// phaseHandler is the shared contract of the phase state machine. Handlers
// are stateless: they validate actions against the staged room, emit the
// resulting events into the stage, and report when the phase is finished.
// Transitions happen the instant exitReached turns true after a successful
// action application — never on a timer.
type phaseHandler interface {
	name() string
	onEnter(st *eventStage) error
	handleAction(st *eventStage, seatIdx int, a *Action) error
	exitReached(r *Room) bool
	next(r *Room) string
}

var phaseHandlers = map[string]phaseHandler{
	redis_models.PhasePreparation: preparationPhase{},
	redis_models.PhaseDeclaration: declarationPhase{},
	redis_models.PhaseTurn:        turnPhase{},
	redis_models.PhaseScoring:     scoringPhase{},
	redis_models.PhaseGameEnd:     gameEndPhase{},
}

func handlerFor(phase string) phaseHandler {
	return phaseHandlers[phase]
}

package game

import "fmt"

// Rejection codes surfaced to clients when an action is refused
const (
	RejectWrongPhase       = "wrong-phase"
	RejectWrongTurn        = "wrong-turn"
	RejectMalformedPayload = "malformed-payload"
	RejectRuleViolation    = "rule-violation"
	RejectPlayerNotFound   = "player-not-found"
)

// ValidationError rejects a malformed or rule-violating action. No state
// change happens and no event is persisted.
type ValidationError struct {
	Code   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

// SequenceError rejects an action arriving in the wrong phase or out of
// turn order. Handled identically to a ValidationError.
type SequenceError struct {
	Code   string
	Reason string
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

// PersistenceError means the event append failed. The action is aborted as
// a whole: nothing is applied and the room stays in its prior state.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("event append failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func errWrongPhase(format string, args ...interface{}) error {
	return &SequenceError{Code: RejectWrongPhase, Reason: fmt.Sprintf(format, args...)}
}

func errWrongTurn(format string, args ...interface{}) error {
	return &SequenceError{Code: RejectWrongTurn, Reason: fmt.Sprintf(format, args...)}
}

func errMalformed(format string, args ...interface{}) error {
	return &ValidationError{Code: RejectMalformedPayload, Reason: fmt.Sprintf(format, args...)}
}

func errRuleViolation(format string, args ...interface{}) error {
	return &ValidationError{Code: RejectRuleViolation, Reason: fmt.Sprintf(format, args...)}
}

func errPlayerNotFound(player string) error {
	return &ValidationError{Code: RejectPlayerNotFound, Reason: fmt.Sprintf("player %q is not registered in this room", player)}
}

// RejectCode extracts the wire rejection code from an action error.
// Non-action errors map to "internal".
func RejectCode(err error) string {
	switch e := err.(type) {
	case *ValidationError:
		return e.Code
	case *SequenceError:
		return e.Code
	case *PersistenceError:
		return "persistence-failure"
	default:
		return "internal"
	}
}

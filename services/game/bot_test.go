package game

import (
	redis_models "Liaptui/models/redis"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSubmitter struct {
	actions chan *Action
}

func (cs *captureSubmitter) Submit(a *Action) (*Result, error) {
	cs.actions <- a
	return &Result{}, nil
}

func TestDefaultDecide(t *testing.T) {
	hand := []string{"GENERAL_RED", "ADVISOR_BLACK", "ELEPHANT_RED", "SOLDIER_RED"}

	// preparation: bots always decline the redeal offer
	a := DefaultDecide(&ChangeNotice{
		Phase: redis_models.PhasePreparation, ActingPlayer: "bot", Hand: hand,
	})
	require.NotNil(t, a)
	assert.Equal(t, ActionDeclineRedeal, a.Kind)

	// declaration: one pile per strong piece, capped by the pile room
	a = DefaultDecide(&ChangeNotice{
		Phase: redis_models.PhaseDeclaration, ActingPlayer: "bot", Hand: hand, PileRoom: 2,
	})
	require.NotNil(t, a)
	assert.Equal(t, ActionDeclare, a.Kind)
	assert.Equal(t, 2, a.Value) // 3 strong pieces but only 2 piles of room

	// turn, opening: cheapest single
	a = DefaultDecide(&ChangeNotice{
		Phase: redis_models.PhaseTurn, ActingPlayer: "bot", Hand: hand, TurnOpener: true,
	})
	require.NotNil(t, a)
	assert.Equal(t, ActionPlay, a.Kind)
	assert.Equal(t, []string{"SOLDIER_RED"}, a.Pieces)

	// turn, following an unbeatable single: dump the cheapest piece
	a = DefaultDecide(&ChangeNotice{
		Phase: redis_models.PhaseTurn, ActingPlayer: "bot", Hand: hand,
		RequiredCount: 1, RequiredType: PlaySingle, BestValue: 14,
	})
	require.NotNil(t, a)
	assert.Equal(t, []string{"SOLDIER_RED"}, a.Pieces)

	// turn, beatable single: cheapest winning piece
	a = DefaultDecide(&ChangeNotice{
		Phase: redis_models.PhaseTurn, ActingPlayer: "bot", Hand: hand,
		RequiredCount: 1, RequiredType: PlaySingle, BestValue: 9,
	})
	require.NotNil(t, a)
	assert.Equal(t, []string{"ELEPHANT_RED"}, a.Pieces)
}

func TestBotTriggerFiresOnlyForAutomatedSeats(t *testing.T) {
	cs := &captureSubmitter{actions: make(chan *Action, 4)}
	bt := NewBotTrigger(nil)
	bt.SetDelayBounds(time.Millisecond, 2*time.Millisecond)

	// a human seat to act never triggers a decision
	bt.OnStateChanged(cs, &ChangeNotice{
		LobbyID: "l1", Phase: redis_models.PhaseDeclaration,
		ActingPlayer: "alice", ActingMode: SeatHuman,
	})
	select {
	case a := <-cs.actions:
		t.Fatalf("unexpected bot action %v for a human seat", a.Kind)
	case <-time.After(50 * time.Millisecond):
	}

	bt.OnStateChanged(cs, &ChangeNotice{
		LobbyID: "l1", Phase: redis_models.PhaseDeclaration,
		ActingPlayer: "LiapBot-1", ActingMode: SeatAutomated,
		Hand: []string{"SOLDIER_RED"}, PileRoom: 3,
	})
	select {
	case a := <-cs.actions:
		assert.Equal(t, ActionDeclare, a.Kind)
		assert.Equal(t, "LiapBot-1", a.PlayerID)
	case <-time.After(time.Second):
		t.Fatal("bot decision never fired")
	}
}

func TestBotTriggerCancelsStaleSchedules(t *testing.T) {
	cs := &captureSubmitter{actions: make(chan *Action, 4)}
	bt := NewBotTrigger(nil)
	bt.SetDelayBounds(20*time.Millisecond, 25*time.Millisecond)

	bot := &ChangeNotice{
		LobbyID: "l1", Phase: redis_models.PhaseDeclaration,
		ActingPlayer: "LiapBot-1", ActingMode: SeatAutomated,
		Hand: []string{"SOLDIER_RED"}, PileRoom: 3,
	}

	// a newer state change with a human to act supersedes the schedule
	bt.OnStateChanged(cs, bot)
	bt.OnStateChanged(cs, &ChangeNotice{
		LobbyID: "l1", Phase: redis_models.PhaseDeclaration,
		ActingPlayer: "alice", ActingMode: SeatHuman,
	})
	select {
	case a := <-cs.actions:
		t.Fatalf("stale bot decision %v fired after cancel", a.Kind)
	case <-time.After(100 * time.Millisecond):
	}

	// room teardown drops the pending schedule too
	bt.OnStateChanged(cs, bot)
	bt.CancelRoom("l1")
	select {
	case a := <-cs.actions:
		t.Fatalf("bot decision %v fired after room cancel", a.Kind)
	case <-time.After(100 * time.Millisecond):
	}
}

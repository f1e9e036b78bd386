package game

import (
	redis_services "Liaptui/services/redis"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedis(t *testing.T) *redis_services.RedisClient {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return redis_services.NewRedisClientFromExisting(client)
}

func testSession(t *testing.T, fe *fakeEmitter) (*GameSession, *BotTrigger) {
	t.Helper()
	bots := NewBotTrigger(nil)
	bots.SetDelayBounds(time.Millisecond, 2*time.Millisecond)
	gs := NewGameSession("lobby-1", "alice", testRedis(t), fe, bots)
	t.Cleanup(gs.Close)
	return gs, bots
}

func TestSessionJoinAndStart(t *testing.T) {
	fe := newFakeEmitter("alice", "bob")
	gs, _ := testSession(t, fe)

	res, err := gs.Submit(&Action{Kind: ActionReady, PlayerID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Sequence)

	_, err = gs.Submit(&Action{Kind: ActionReady, PlayerID: "bob"})
	require.NoError(t, err)

	// duplicate join is refused
	_, err = gs.Submit(&Action{Kind: ActionReady, PlayerID: "bob"})
	require.Error(t, err)
	assert.Equal(t, RejectRuleViolation, RejectCode(err))

	// only the host can start
	_, err = gs.Submit(&Action{Kind: ActionStartGame, PlayerID: "bob"})
	require.Error(t, err)

	res, err = gs.Submit(&Action{Kind: ActionStartGame, PlayerID: "alice"})
	require.NoError(t, err)
	assert.Greater(t, res.Sequence, int64(3))

	// both players saw game_started, phase_change and hand_dealt
	for _, player := range []string{"alice", "bob"} {
		var kinds []string
		for _, ev := range fe.events(player) {
			kinds = append(kinds, ev.Event)
		}
		assert.Contains(t, kinds, EventGameStarted)
		assert.Contains(t, kinds, EventPhaseChange)
		assert.Contains(t, kinds, EventHandDealt)
	}

	// gameplay after start from a non-seated player
	_, err = gs.Submit(&Action{Kind: ActionDeclare, PlayerID: "mallory", Value: 1})
	require.Error(t, err)
	assert.Equal(t, RejectPlayerNotFound, RejectCode(err))
}

func TestSessionReconnectSnapshotAndBacklog(t *testing.T) {
	fe := newFakeEmitter("alice", "bob")
	gs, _ := testSession(t, fe)

	_, err := gs.Submit(&Action{Kind: ActionReady, PlayerID: "alice"})
	require.NoError(t, err)
	_, err = gs.Submit(&Action{Kind: ActionReady, PlayerID: "bob"})
	require.NoError(t, err)
	_, err = gs.Submit(&Action{Kind: ActionStartGame, PlayerID: "alice"})
	require.NoError(t, err)

	// bob drops: his seat goes to a bot and his events start buffering
	fe.setConnected("bob", false)
	res, err := gs.Submit(&Action{Kind: ActionDisconnect, PlayerID: "bob"})
	require.NoError(t, err)
	seqAtDisconnect := res.Sequence

	// the bots keep the game moving while bob is away
	require.Eventually(t, func() bool {
		r, err := gs.Submit(&Action{Kind: ActionReconnect, PlayerID: "alice"})
		return err == nil && r.Sequence > seqAtDisconnect
	}, 5*time.Second, 10*time.Millisecond)

	fe.setConnected("bob", true)
	res, err = gs.Submit(&Action{Kind: ActionReconnect, PlayerID: "bob"})
	require.NoError(t, err)
	require.NotNil(t, res.Snapshot)
	assert.Equal(t, res.Sequence, res.Snapshot.Sequence)

	// backlog is ordered and ends with the reconnection notice itself, so
	// nothing ever reaches the client ahead of the drained stream
	var last int64
	for _, item := range res.Queued {
		assert.Greater(t, item.Sequence, last)
		last = item.Sequence
	}
	require.NotEmpty(t, res.Queued)
	tail := res.Queued[len(res.Queued)-1]
	assert.Equal(t, EventPlayerReconnected, tail.Event)
	assert.Equal(t, res.Sequence, tail.Sequence)
	for _, ev := range fe.events("bob") {
		assert.NotEqual(t, EventPlayerReconnected, ev.Event)
	}

	// reconnect is idempotent: a second call returns a fresh snapshot
	// and an empty backlog
	res2, err := gs.Submit(&Action{Kind: ActionReconnect, PlayerID: "bob"})
	require.NoError(t, err)
	require.NotNil(t, res2.Snapshot)
	assert.Empty(t, res2.Queued)

	// a bot-born seat can never be reclaimed
	snapshot := res2.Snapshot
	for _, seat := range snapshot.Seats {
		if seat.Name != "alice" && seat.Name != "bob" {
			_, err := gs.Submit(&Action{Kind: ActionReconnect, PlayerID: seat.Name})
			require.Error(t, err)
			assert.Equal(t, RejectRuleViolation, RejectCode(err))
			break
		}
	}
}

func TestSessionLobbyClosesOnHostAbandon(t *testing.T) {
	fe := newFakeEmitter("alice", "bob")
	gs, _ := testSession(t, fe)

	closed := make(chan string, 1)
	gs.OnClosed = func(lobbyID string) { closed <- lobbyID }

	_, err := gs.Submit(&Action{Kind: ActionReady, PlayerID: "alice"})
	require.NoError(t, err)
	_, err = gs.Submit(&Action{Kind: ActionReady, PlayerID: "bob"})
	require.NoError(t, err)

	// a non-host leaving keeps the room alive
	res, err := gs.Submit(&Action{Kind: ActionLeave, PlayerID: "bob"})
	require.NoError(t, err)
	assert.False(t, res.LobbyClosed)
	_, err = gs.Submit(&Action{Kind: ActionReady, PlayerID: "bob"})
	require.NoError(t, err)

	// the host walking out before start destroys the room for everyone
	res, err = gs.Submit(&Action{Kind: ActionLeave, PlayerID: "alice"})
	require.NoError(t, err)
	assert.True(t, res.LobbyClosed)

	select {
	case lobbyID := <-closed:
		assert.Equal(t, "lobby-1", lobbyID)
	case <-time.After(time.Second):
		t.Fatal("close hook never ran")
	}

	// the survivor cannot start the destroyed room, and its data is gone
	_, err = gs.Submit(&Action{Kind: ActionStartGame, PlayerID: "bob"})
	require.Error(t, err)
	assert.Equal(t, RejectWrongPhase, RejectCode(err))
	_, err = gs.rc.GetGameLobby("lobby-1")
	assert.Error(t, err)
}

func TestSessionLobbyClosesWhenEmptied(t *testing.T) {
	// the host created the room over REST but never claimed a seat
	fe := newFakeEmitter("bob")
	gs, _ := testSession(t, fe)

	closed := make(chan string, 1)
	gs.OnClosed = func(lobbyID string) { closed <- lobbyID }

	_, err := gs.Submit(&Action{Kind: ActionReady, PlayerID: "bob"})
	require.NoError(t, err)

	res, err := gs.Submit(&Action{Kind: ActionLeave, PlayerID: "bob"})
	require.NoError(t, err)
	assert.True(t, res.LobbyClosed)

	select {
	case lobbyID := <-closed:
		assert.Equal(t, "lobby-1", lobbyID)
	case <-time.After(time.Second):
		t.Fatal("close hook never ran")
	}

	_, err = gs.rc.GetGameLobby("lobby-1")
	assert.Error(t, err)
}

func TestSessionBotsFinishTheGame(t *testing.T) {
	fe := newFakeEmitter("alice")
	gs, _ := testSession(t, fe)

	type outcome struct {
		winner string
		seq    int64
		totals map[string]int
	}
	done := make(chan outcome, 1)
	gs.OnGameEnd = func(r *Room) {
		totals := make(map[string]int)
		for _, s := range r.Seats {
			if s != nil {
				totals[s.Name] = s.Score
			}
		}
		done <- outcome{winner: r.Winner, seq: r.Seq, totals: totals}
	}

	rc := gs.rc
	_, err := gs.Submit(&Action{Kind: ActionReady, PlayerID: "alice"})
	require.NoError(t, err)
	_, err = gs.Submit(&Action{Kind: ActionStartGame, PlayerID: "alice"})
	require.NoError(t, err)

	// alice drops, leaving four automated seats to play the game out
	fe.setConnected("alice", false)
	_, err = gs.Submit(&Action{Kind: ActionDisconnect, PlayerID: "alice"})
	require.NoError(t, err)

	var final outcome
	select {
	case final = <-done:
	case <-time.After(60 * time.Second):
		t.Fatal("bots did not finish the game in time")
	}
	require.NotEmpty(t, final.winner)

	// the persisted log is gapless and replays to the exact final state
	events, err := rc.GetEventsSince("lobby-1", 0)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	kinds := make(map[string]int)
	for i, ev := range events {
		require.Equal(t, int64(i+1), ev.Sequence)
		kinds[ev.Kind]++
	}
	assert.Equal(t, 1, kinds[EventGameEnded])
	// the log closes with the transition into the terminal phase
	assert.Equal(t, EventPhaseChange, events[len(events)-1].Kind)

	replayed, err := ReplayRoom("lobby-1", "alice", events)
	require.NoError(t, err)
	assert.Equal(t, final.seq, replayed.Seq)
	assert.Equal(t, final.winner, replayed.Winner)
	assert.True(t, replayed.Over)
	for _, s := range replayed.Seats {
		require.NotNil(t, s)
		assert.Equal(t, final.totals[s.Name], s.Score)
	}
}

func TestSessionHostMigrationOnDisconnect(t *testing.T) {
	fe := newFakeEmitter("alice", "bob")
	gs, _ := testSession(t, fe)

	_, err := gs.Submit(&Action{Kind: ActionReady, PlayerID: "alice"})
	require.NoError(t, err)
	_, err = gs.Submit(&Action{Kind: ActionReady, PlayerID: "bob"})
	require.NoError(t, err)
	_, err = gs.Submit(&Action{Kind: ActionStartGame, PlayerID: "alice"})
	require.NoError(t, err)

	fe.setConnected("alice", false)
	_, err = gs.Submit(&Action{Kind: ActionDisconnect, PlayerID: "alice"})
	require.NoError(t, err)

	res, err := gs.Submit(&Action{Kind: ActionReconnect, PlayerID: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "bob", res.Snapshot.Host)

	// duplicate disconnect notices are harmless no-ops
	_, err = gs.Submit(&Action{Kind: ActionDisconnect, PlayerID: "alice"})
	require.NoError(t, err)
}

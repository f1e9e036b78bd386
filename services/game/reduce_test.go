package game

import (
	redis_models "Liaptui/models/redis"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayRoomRejectsSequenceGaps(t *testing.T) {
	ev1, err := buildEvent("room-1", EventPlayerJoined, PlayerJoinedPayload{Player: "alice", Seat: 0}, "", "alice", 1)
	require.NoError(t, err)
	ev3, err := buildEvent("room-1", EventPlayerJoined, PlayerJoinedPayload{Player: "bob", Seat: 1}, "", "bob", 3)
	require.NoError(t, err)

	_, err = ReplayRoom("room-1", "alice", []*redis_models.Event{ev1, ev3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gap")
}

func TestReplayRoomFoldsLobbyEvents(t *testing.T) {
	events := make([]*redis_models.Event, 0, 3)
	for i, name := range []string{"alice", "bob"} {
		ev, err := buildEvent("room-1", EventPlayerJoined,
			PlayerJoinedPayload{Player: name, Seat: i}, "", name, int64(i+1))
		require.NoError(t, err)
		events = append(events, ev)
	}
	left, err := buildEvent("room-1", EventPlayerLeft, PlayerLeftPayload{Player: "bob"}, "", "bob", 3)
	require.NoError(t, err)
	events = append(events, left)

	room, err := ReplayRoom("room-1", "alice", events)
	require.NoError(t, err)
	assert.Equal(t, int64(3), room.Seq)
	assert.Equal(t, 1, room.PlayerCount())
	assert.Nil(t, room.Seats[1]) // pre-start leave frees the seat
}

func TestApplyEventRejectsUnknownKind(t *testing.T) {
	ev, err := buildEvent("room-1", EventPlayerJoined, PlayerJoinedPayload{Player: "alice", Seat: 0}, "", "alice", 1)
	require.NoError(t, err)
	ev.Kind = "time_travel"

	r := NewRoom("room-1", "alice")
	assert.Error(t, applyEvent(r, ev))
}

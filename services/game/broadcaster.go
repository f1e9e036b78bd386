package game

import (
	redis_models "Liaptui/models/redis"
	"encoding/json"
	"log"
)

// Emitter delivers a notification to one connected player. Implemented by
// the socket layer; ToPlayer returns false when the player has no live
// connection, in which case the broadcaster buffers the notification.
type Emitter interface {
	ToPlayer(playerID, event string, data map[string]interface{}) bool
}

// Broadcaster fans every applied event out to the room's players:
// connected seats get it immediately, disconnected seats get it appended
// to their private outbound queue. Only the session's action goroutine
// calls into it, so per-player delivery order always matches event
// sequence order.
type Broadcaster struct {
	emitter Emitter
	queues  map[string]*OutboundQueue
	held    map[string]bool
}

func NewBroadcaster(emitter Emitter) *Broadcaster {
	return &Broadcaster{
		emitter: emitter,
		queues:  make(map[string]*OutboundQueue),
		held:    make(map[string]bool),
	}
}

// Register creates the player's outbound queue on first registration
func (b *Broadcaster) Register(player string) {
	if _, ok := b.queues[player]; !ok {
		b.queues[player] = NewOutboundQueue()
	}
}

// Unregister drops the player's queue (pre-game leave, room teardown)
func (b *Broadcaster) Unregister(player string) {
	delete(b.queues, player)
	delete(b.held, player)
}

// Hold keeps the player's notifications in their queue even while they are
// reachable, until the next Drain. Used during a reconnect so the client
// receives the whole batch, reconnection notice included, as one stream in
// sequence order.
func (b *Broadcaster) Hold(player string) {
	if _, ok := b.queues[player]; ok {
		b.held[player] = true
	}
}

// Drain hands over the player's buffered notifications in sequence order
// and releases any hold placed on them.
func (b *Broadcaster) Drain(player string) []QueuedItem {
	delete(b.held, player)
	q := b.queues[player]
	if q == nil {
		return nil
	}
	return q.Drain()
}

// QueuedLen reports how many notifications are buffered for a player
func (b *Broadcaster) QueuedLen(player string) int {
	q := b.queues[player]
	if q == nil {
		return 0
	}
	return q.Len()
}

// Publish delivers one applied event to every registered player.
func (b *Broadcaster) Publish(r *Room, ev *redis_models.Event) {
	critical := IsCriticalEvent(ev.Kind)
	for player, queue := range b.queues {
		data, ok := wireData(ev, player)
		if !ok {
			continue
		}
		if !b.held[player] && b.emitter.ToPlayer(player, ev.Kind, data) {
			continue
		}
		if queue.Push(QueuedItem{
			Sequence: ev.Sequence,
			Event:    ev.Kind,
			Data:     data,
			Critical: critical,
		}) {
			log.Printf("[BROADCAST-ERROR] Critical outbound queue overflow for player %s in lobby %s, flagging room",
				player, r.ID)
			r.FlaggedForReview = true
		}
	}
}

// wireData shapes an event payload for one player. Most events go out
// as-is; hand_dealt is obfuscated so a player only ever sees their own
// hand.
func wireData(ev *redis_models.Event, player string) (map[string]interface{}, bool) {
	if ev.Kind == EventHandDealt {
		var p HandDealtPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			log.Printf("[BROADCAST-ERROR] Error unmarshaling %s payload: %v", ev.Kind, err)
			return nil, false
		}
		offered := false
		for _, name := range p.WeakSeats {
			if name == player {
				offered = true
			}
		}
		return map[string]interface{}{
			"sequence":       ev.Sequence,
			"round":          p.Round,
			"starter":        p.Starter,
			"hand":           p.Hands[player],
			"weak_seats":     p.WeakSeats,
			"multiplier":     p.Multiplier,
			"redeals":        p.Redeals,
			"redeal_offered": offered,
		}, true
	}

	var data map[string]interface{}
	if err := json.Unmarshal(ev.Payload, &data); err != nil {
		log.Printf("[BROADCAST-ERROR] Error unmarshaling %s payload: %v", ev.Kind, err)
		return nil, false
	}
	data["sequence"] = ev.Sequence
	return data, true
}

package game

import (
	game_constants "Liaptui/constants/game"
)

// QueuedItem is one not-yet-delivered notification for a disconnected
// player.
type QueuedItem struct {
	Sequence int64                  `json:"sequence"`
	Event    string                 `json:"event"`
	Data     map[string]interface{} `json:"data"`
	Critical bool                   `json:"critical"`
}

// OutboundQueue buffers notifications for a disconnected player, FIFO with
// a drop-oldest-non-critical overflow policy. Critical entries are never
// dropped; if critical entries alone exceed capacity the queue grows and
// reports the overflow so the room can be flagged for review.
type OutboundQueue struct {
	items    []QueuedItem
	capacity int
}

func NewOutboundQueue() *OutboundQueue {
	return &OutboundQueue{capacity: game_constants.OutboundQueueCapacity}
}

// Push enqueues an item. Returns true when a critical item had to be kept
// beyond capacity (the overflow case that needs review).
func (q *OutboundQueue) Push(item QueuedItem) bool {
	if len(q.items) < q.capacity {
		q.items = append(q.items, item)
		return false
	}

	for i, it := range q.items {
		if !it.Critical {
			q.items = append(q.items[:i], q.items[i+1:]...)
			q.items = append(q.items, item)
			return false
		}
	}

	// everything buffered is critical
	if !item.Critical {
		// the new item is the one that gets dropped
		return false
	}
	q.items = append(q.items, item)
	return true
}

// Drain returns all buffered items in order and clears the queue.
func (q *OutboundQueue) Drain() []QueuedItem {
	items := q.items
	q.items = nil
	return items
}

func (q *OutboundQueue) Len() int {
	return len(q.items)
}

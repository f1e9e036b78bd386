package redis

import (
	redis_models "Liaptui/models/redis"
	redis_utils "Liaptui/services/redis/utils"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(Addr string, DB int) *RedisClient {
	var client *redis.Client
	if Addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}
}

// NewRedisClientFromExisting wraps an already-configured go-redis client.
// Used by tests that run against miniredis.
func NewRedisClientFromExisting(client *redis.Client) *RedisClient {
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}
}

// SaveGameLobby stores a lobby descriptor in Redis
// Key format: "lobby:{lobbyId}"
// TTL: 24 hours
func (rc *RedisClient) SaveGameLobby(lobby *redis_models.GameLobby) error {
	key := redis_utils.FormatLobbyKey(lobby.ID)
	data, err := json.Marshal(lobby)
	if err != nil {
		return fmt.Errorf("error marshaling lobby data: %v", err)
	}
	return rc.client.Set(rc.ctx, key, data, 24*time.Hour).Err()
}

// GetGameLobby retrieves a lobby descriptor from Redis
func (rc *RedisClient) GetGameLobby(lobbyId string) (*redis_models.GameLobby, error) {
	key := redis_utils.FormatLobbyKey(lobbyId)
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err != nil {
		return nil, fmt.Errorf("error getting lobby data: %v", err)
	}

	var lobby redis_models.GameLobby
	if err := json.Unmarshal(data, &lobby); err != nil {
		return nil, fmt.Errorf("error unmarshaling lobby data: %v", err)
	}
	return &lobby, nil
}

// DeleteGameLobby removes a lobby descriptor and its event log from Redis
func (rc *RedisClient) DeleteGameLobby(lobbyId string) error {
	keys := []string{
		redis_utils.FormatLobbyKey(lobbyId),
		redis_utils.FormatEventLogKey(lobbyId),
	}
	return rc.CleanupKeys(keys)
}

// AppendEvent appends one event at the tail of a lobby's event log.
// The caller has already assigned the (gapless, monotonic) sequence number;
// a failed append must abort the corresponding action, so the error is
// returned as-is for the caller to fail closed on.
func (rc *RedisClient) AppendEvent(event *redis_models.Event) error {
	key := redis_utils.FormatEventLogKey(event.LobbyID)
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error marshaling event: %v", err)
	}
	return rc.client.RPush(rc.ctx, key, data).Err()
}

// AppendEvents appends a whole action batch atomically: either every event
// lands at the tail of the log, or none of them do. The events already carry
// consecutive sequence numbers.
func (rc *RedisClient) AppendEvents(events []*redis_models.Event) error {
	if len(events) == 0 {
		return nil
	}
	key := redis_utils.FormatEventLogKey(events[0].LobbyID)

	payloads := make([]interface{}, 0, len(events))
	for _, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("error marshaling event: %v", err)
		}
		payloads = append(payloads, data)
	}

	_, err := rc.client.TxPipelined(rc.ctx, func(pipe redis.Pipeliner) error {
		return pipe.RPush(rc.ctx, key, payloads...).Err()
	})
	if err != nil {
		return fmt.Errorf("error appending event batch: %v", err)
	}
	return nil
}

// GetEventsSince returns all events of a lobby with sequence > sinceSequence,
// in sequence order. Passing 0 returns the full log.
func (rc *RedisClient) GetEventsSince(lobbyId string, sinceSequence int64) ([]*redis_models.Event, error) {
	key := redis_utils.FormatEventLogKey(lobbyId)

	// Sequences start at 1 and the list is append-only, so the entry with
	// sequence N lives at list index N-1.
	raw, err := rc.client.LRange(rc.ctx, key, sinceSequence, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("error reading event log: %v", err)
	}

	events := make([]*redis_models.Event, 0, len(raw))
	for _, item := range raw {
		var event redis_models.Event
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			return nil, fmt.Errorf("error unmarshaling event: %v", err)
		}
		events = append(events, &event)
	}
	return events, nil
}

// GetEventLogLength returns the number of persisted events for a lobby
func (rc *RedisClient) GetEventLogLength(lobbyId string) (int64, error) {
	key := redis_utils.FormatEventLogKey(lobbyId)
	length, err := rc.client.LLen(rc.ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("error getting event log length: %v", err)
	}
	return length, nil
}

// GetAllLobbies returns every lobby descriptor currently stored in Redis
func (rc *RedisClient) GetAllLobbies() ([]*redis_models.GameLobby, error) {
	keys, err := rc.client.Keys(rc.ctx, "lobby:*").Result()
	if err != nil {
		return nil, fmt.Errorf("error listing lobby keys: %v", err)
	}

	lobbies := make([]*redis_models.GameLobby, 0, len(keys))
	for _, key := range keys {
		data, err := rc.client.Get(rc.ctx, key).Bytes()
		if err != nil {
			// event-log keys are lists, skip them
			continue
		}
		var lobby redis_models.GameLobby
		if err := json.Unmarshal(data, &lobby); err != nil {
			continue
		}
		lobbies = append(lobbies, &lobby)
	}
	return lobbies, nil
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %v", key, err)
		}
	}
	return nil
}

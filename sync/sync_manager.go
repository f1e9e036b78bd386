package sync

import (
	postgres_models "Liaptui/models/postgres"
	"Liaptui/services/game"
	redis_services "Liaptui/services/redis"
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncManager moves finished-game state from the in-memory room and Redis
// into PostgreSQL. Live gameplay never touches Postgres; only lobby
// lifecycle and final results do.
type SyncManager struct {
	redisClient *redis_services.RedisClient
	db          *gorm.DB
}

// NewSyncManager creates a new instance of the synchronization manager
func NewSyncManager(redisClient *redis_services.RedisClient, db *gorm.DB) *SyncManager {
	return &SyncManager{
		redisClient: redisClient,
		db:          db,
	}
}

// SyncGameResult persists the final outcome of a finished room: the result
// row, the per-seat final scores, and the lobby record flags.
func (sm *SyncManager) SyncGameResult(r *game.Room) error {
	totals := make(map[string]int)
	for _, s := range r.Seats {
		if s != nil {
			totals[s.Name] = s.Score
		}
	}
	scores, err := json.Marshal(totals)
	if err != nil {
		return fmt.Errorf("error marshaling final scores: %v", err)
	}

	return sm.db.Transaction(func(tx *gorm.DB) error {
		result := &postgres_models.GameResult{
			LobbyID:        r.ID,
			WinnerUsername: r.Winner,
			RoundsPlayed:   r.Round,
			FinalScores:    scores,
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(result).Error; err != nil {
			return fmt.Errorf("error saving game result: %v", err)
		}

		for _, s := range r.Seats {
			if s == nil {
				continue
			}
			player := &postgres_models.InGamePlayer{
				LobbyID:    r.ID,
				Username:   s.Name,
				IsBot:      s.Bot,
				FinalScore: s.Score,
				Winner:     s.Name == r.Winner,
			}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(player).Error; err != nil {
				return fmt.Errorf("error saving player result for %s: %v", s.Name, err)
			}
		}

		return tx.Model(&postgres_models.GameLobby{}).
			Where("id = ?", r.ID).
			Update("is_started", true).Error
	})
}

// CleanupGameData removes the finished room's Redis footprint. The event
// log goes with it; the durable outcome already lives in PostgreSQL.
func (sm *SyncManager) CleanupGameData(lobbyID string) error {
	if err := sm.redisClient.DeleteGameLobby(lobbyID); err != nil {
		return fmt.Errorf("error cleaning Redis data for lobby %s: %v", lobbyID, err)
	}
	return nil
}

// OnGameEnd is the hook wired into every session: sync the final result,
// then drop the Redis state.
func (sm *SyncManager) OnGameEnd(r *game.Room) {
	if err := sm.SyncGameResult(r); err != nil {
		log.Printf("[SYNC-ERROR] Error syncing result of lobby %s: %v", r.ID, err)
		// keep the Redis event log around for manual recovery
		return
	}
	if err := sm.CleanupGameData(r.ID); err != nil {
		log.Printf("[SYNC-ERROR] Error cleaning lobby %s: %v", r.ID, err)
	}
	log.Printf("[SYNC] Final result of lobby %s persisted, winner: %s", r.ID, r.Winner)
}

package postgres

import (
	"time"
)

// GameLobby is the durable registry record for a room.
type GameLobby struct {
	ID          string    `gorm:"primaryKey;column:id" json:"id"`
	HostName    string    `gorm:"column:host_name;not null" json:"host_name"`
	PlayerCount int       `gorm:"column:player_count;default:0" json:"player_count"`
	IsStarted   bool      `gorm:"column:is_started;default:false" json:"is_started"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (GameLobby) TableName() string {
	return "game_lobbies"
}

package postgres

import (
	"time"

	"gorm.io/datatypes"
)

// GameResult stores the final outcome of a finished game.
type GameResult struct {
	LobbyID        string         `gorm:"primaryKey;column:lobby_id" json:"lobby_id"`
	WinnerUsername string         `gorm:"column:winner_username" json:"winner_username"`
	RoundsPlayed   int            `gorm:"column:rounds_played" json:"rounds_played"`
	FinalScores    datatypes.JSON `gorm:"column:final_scores" json:"final_scores"`
	FinishedAt     time.Time      `gorm:"column:finished_at;autoCreateTime" json:"finished_at"`
}

func (GameResult) TableName() string {
	return "game_results"
}

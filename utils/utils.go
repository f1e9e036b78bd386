package utils

import (
	"Liaptui/models/postgres"
	"fmt"

	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
)

// ErrorHandler handles global errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}

// CheckLobbyExists returns the durable lobby record, if any
func CheckLobbyExists(db *gorm.DB, lobbyID string) (*postgres.GameLobby, error) {
	var lobby postgres.GameLobby
	result := db.Where("id = ?", lobbyID).First(&lobby)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("lobby not found")
		}
		return nil, result.Error
	}

	return &lobby, nil
}

// IsPlayerInLobby checks the durable seat records of a lobby
func IsPlayerInLobby(db *gorm.DB, lobbyID string, username string) (bool, error) {
	var count int64
	err := db.Model(&postgres.InGamePlayer{}).
		Where("lobby_id = ? AND username = ?", lobbyID, username).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

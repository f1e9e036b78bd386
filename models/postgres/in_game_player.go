package postgres

// InGamePlayer is the durable record of one seat of a lobby.
type InGamePlayer struct {
	LobbyID    string `gorm:"primaryKey;column:lobby_id" json:"lobby_id"`
	Username   string `gorm:"primaryKey;column:username" json:"username"`
	IsBot      bool   `gorm:"column:is_bot;default:false" json:"is_bot"`
	FinalScore int    `gorm:"column:final_score;default:0" json:"final_score"`
	Winner     bool   `gorm:"column:winner;default:false" json:"winner"`
}

func (InGamePlayer) TableName() string {
	return "in_game_players"
}

package postgres

import (
	"time"

	"gorm.io/datatypes"
)

/*
 * 'Game' is the record of a finished game. Players, moves and the final
 * board are stored as jsonb the same way they are sent to clients.
 */
type Game struct {
	ID              string         `gorm:"primaryKey;size:36;not null" json:"id"`
	Players         datatypes.JSON `gorm:"type:jsonb;not null" json:"players"`
	Player1ID       string         `gorm:"size:64;not null;index" json:"player1_id"`
	Player2ID       string         `gorm:"size:64;not null;index" json:"player2_id"`
	WinnerID        *string        `gorm:"size:64" json:"winner_id"`
	Result          string         `gorm:"size:16;not null;index" json:"result"`
	IsBotGame       bool           `gorm:"not null" json:"is_bot_game"`
	Moves           datatypes.JSON `gorm:"type:jsonb" json:"moves"`
	Board           datatypes.JSON `gorm:"type:jsonb" json:"board"`
	StartedAt       time.Time      `json:"started_at"`
	EndedAt         time.Time      `gorm:"index" json:"ended_at"`
	DurationSeconds int            `json:"duration_seconds"`
	CreatedAt       time.Time      `json:"created_at"`
}

// GamePlayer is one element of Game.Players.
type GamePlayer struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Slot     int    `json:"slot"`
	IsBot    bool   `json:"is_bot"`
}

package postgres

import "time"

/*
 * 'Player' is an anonymous participant identified by its username. The id
 * is the one used inside games; wins only counts games won against humans
 * or bots, never games won by a bot.
 */
type Player struct {
	ID        string    `gorm:"primaryKey;size:36;not null" json:"id"`
	Username  string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Wins      int       `gorm:"not null" json:"wins"`
	CreatedAt time.Time `json:"created_at"`
}

package redis

type PlayerStatus string

const (
	StatusOnline  PlayerStatus = "online"
	StatusQueued  PlayerStatus = "queued"
	StatusPlaying PlayerStatus = "playing"
	StatusOffline PlayerStatus = "offline"
)

// PlayerPresence is the last known state of a connected player
type PlayerPresence struct {
	PlayerID string       `json:"player_id"`
	Username string       `json:"username"`
	Status   PlayerStatus `json:"status"`
	GameID   string       `json:"game_id,omitempty"` // Only while playing
	LastPing int64        `json:"last_ping"`         // Unix timestamp
	SocketID string       `json:"socket_id"`
}

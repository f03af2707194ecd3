package models

// Handle is the transport endpoint used to push events to a player.
// *socket.Socket satisfies it.
type Handle interface {
	Emit(ev string, args ...any) error
}

// Participant is a player taking part in matchmaking or a game
type Participant struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsBot    bool   `json:"is_bot"`
	// Non-owning reference, replaced wholesale on reconnect. Nil while
	// disconnected and always nil for bots.
	Handle Handle `json:"-"`
}

// Standing is one row of the leaderboard
type Standing struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Wins     int    `json:"wins"`
}

package game_constants

import "time"

// Board
const DEFAULT_ROWS = 6
const DEFAULT_COLS = 7
const CONNECT_N = 4 // NOTE: fixed, does not scale with the board size

// Timeouts (overridable through the environment, see config/game.go)
const (
	QUEUE_WAIT_TIMEOUT = 20 * time.Second
	QUEUE_TICK         = 1 * time.Second
	FORFEIT_TIMEOUT    = 30 * time.Second
	BOT_DELAY_MIN      = 300 * time.Millisecond
	BOT_DELAY_MAX      = 1000 * time.Millisecond
	PERSIST_TIMEOUT    = 10 * time.Second
)

// Bot player
const BOT_USERNAME = "BOT"
const BOT_ID_PREFIX = "bot-"

// Leaderboard
const LEADERBOARD_SIZE = 10
const MAX_LEADERBOARD_SIZE = 100
const RECENT_GAMES_LIMIT = 50

// Redis
const (
	PRESENCE_TTL          = 24 * time.Hour
	LEADERBOARD_CACHE_TTL = 30 * time.Second
)

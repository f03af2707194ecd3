package config

import (
	game_constants "Fourline/constants/game"
	"log"
	"os"
	"strconv"
	"time"
)

// GameSettings are read once at startup and never change afterwards
type GameSettings struct {
	QueueWait      time.Duration
	ForfeitTimeout time.Duration
	Rows           int
	Cols           int
	PersistGames   bool
	BotDelayMin    time.Duration
	BotDelayMax    time.Duration
}

// LoadGameSettings reads the game settings from the environment. Missing or
// malformed values fall back to the defaults in constants/game.
func LoadGameSettings() GameSettings {
	settings := GameSettings{
		QueueWait:      envMillis("QUEUE_WAIT_MS", game_constants.QUEUE_WAIT_TIMEOUT),
		ForfeitTimeout: envMillis("FORFEIT_TIMEOUT_MS", game_constants.FORFEIT_TIMEOUT),
		Rows:           envInt("BOARD_ROWS", game_constants.DEFAULT_ROWS),
		Cols:           envInt("BOARD_COLS", game_constants.DEFAULT_COLS),
		PersistGames:   envBool("PERSIST_GAMES", true),
		BotDelayMin:    envMillis("BOT_DELAY_MIN_MS", game_constants.BOT_DELAY_MIN),
		BotDelayMax:    envMillis("BOT_DELAY_MAX_MS", game_constants.BOT_DELAY_MAX),
	}
	if settings.BotDelayMax < settings.BotDelayMin {
		settings.BotDelayMax = settings.BotDelayMin
	}

	log.Printf("[CONFIG] queue=%v forfeit=%v board=%dx%d persist=%v bot_delay=%v-%v",
		settings.QueueWait, settings.ForfeitTimeout, settings.Rows, settings.Cols,
		settings.PersistGames, settings.BotDelayMin, settings.BotDelayMax)
	return settings
}

func envMillis(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 {
		log.Printf("[CONFIG] Invalid %s=%q, using %v", key, raw, def)
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("[CONFIG] Invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("[CONFIG] Invalid %s=%q, using %v", key, raw, def)
		return def
	}
	return b
}

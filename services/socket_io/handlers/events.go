package handlers

import (
	"Fourline/services/session"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Outbound events
const (
	EventGameStart          = "game:start"
	EventGameUpdate         = "game:update"
	EventGameResume         = "game:resume"
	EventGameEnded          = "game:ended"
	EventBotThinking        = "game:bot:thinking"
	EventPlayerDisconnected = "player:disconnected"
	EventQueueJoined        = "queue:joined"
	EventQueueCountdown     = "queue:countdown"
	EventQueueTimeout       = "queue:timeout"
	EventQueueLeft          = "queue:left"
	EventLeaderboard        = "leaderboard"
	EventMoveError          = "move:error"
	EventError              = "error"
	EventRematchRequest     = "rematch:request"
	EventRematchRequested   = "rematch:requested"
	EventRematchFailed      = "rematch:failed"
	EventRematchDeclined    = "rematch:declined"
)

// payloadOf returns the first argument of an event as a JSON object
func payloadOf(args []interface{}) map[string]interface{} {
	if len(args) < 1 {
		return nil
	}
	data, _ := args[0].(map[string]interface{})
	return data
}

// stringField returns the first non-empty string found under one of keys.
// Clients send both snake_case and camelCase names.
func stringField(data map[string]interface{}, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := data[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// intField accepts JSON numbers (decoded as float64), ints and numeric strings
func intField(data map[string]interface{}, keys ...string) (int, bool) {
	for _, key := range keys {
		switch v := data[key].(type) {
		case float64:
			if v != float64(int(v)) {
				return 0, false
			}
			return int(v), true
		case int:
			return v, true
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func startPayload(snap session.Snapshot, playerID string) gin.H {
	opponent, _ := snap.Opponent(playerID)
	return gin.H{
		"game_id":       snap.ID,
		"player_number": snap.Slot(playerID),
		"opponent":      opponent.Username,
		"board":         snap.Board,
		"current_turn":  snap.CurrentTurn,
		"bot":           snap.IsBotGame,
	}
}

func updatePayload(snap session.Snapshot) gin.H {
	return gin.H{
		"game_id":      snap.ID,
		"board":        snap.Board,
		"result":       snap.Result,
		"winner":       snap.Winner,
		"current_turn": snap.CurrentTurn,
		"last_move":    snap.LastMove,
	}
}

func resumePayload(snap session.Snapshot, playerID string) gin.H {
	opponent, _ := snap.Opponent(playerID)
	return gin.H{
		"game_id":       snap.ID,
		"board":         snap.Board,
		"current_turn":  snap.CurrentTurn,
		"player_number": snap.Slot(playerID),
		"opponent":      opponent.Username,
		"last_move":     snap.LastMove,
	}
}

func errorPayload(err error) gin.H {
	return gin.H{"error": session.ErrorCode(err), "message": err.Error()}
}

package handlers

import (
	"Fourline/services/session"
	socketio_types "Fourline/services/socket_io/types"
	"log"
	"math/rand/v2"
	"time"

	"github.com/gin-gonic/gin"
)

// HandleMove applies a move of the player behind the socket. Errors are
// only reported to that socket.
func HandleMove(sio *socketio_types.SocketServer, conn *socketio_types.Connection) func(args ...interface{}) {
	return func(args ...interface{}) {
		client := conn.Client
		player, ok := conn.Player()
		if !ok {
			client.Emit(EventError, gin.H{"error": "not authenticated"})
			return
		}

		data := payloadOf(args)
		gameID, okGame := stringField(data, "game_id", "gameId")
		col, okCol := intField(data, "col", "column")
		if !okGame || !okCol {
			log.Printf("[MOVE-ERROR] Malformed move from %s: %v", player.Username, args)
			client.Emit(EventMoveError, gin.H{"error": "InvalidPayload", "message": "game_id and col are required"})
			return
		}

		outcome, err := sio.Games.ApplyMove(gameID, player.ID, col)
		if err != nil {
			log.Printf("[MOVE-ERROR] %s in game %s, col %d: %v", player.Username, gameID, col, err)
			payload := errorPayload(err)
			payload["game_id"] = gameID
			client.Emit(EventMoveError, payload)
			return
		}

		if outcome.Result.Terminal() {
			// final board and result are sent by the notifier
			return
		}
		BroadcastUpdate(sio, outcome.Session)

		next := outcome.Session.Players[outcome.NextTurn-1]
		if next.IsBot {
			ScheduleBotMove(sio, outcome.Session)
		}
	}
}

// BroadcastUpdate sends the board to both players. A snapshot overtaken by a
// later move or by the end of the game is dropped.
func BroadcastUpdate(sio *socketio_types.SocketServer, snap session.Snapshot) {
	if current, err := sio.Games.Get(snap.ID); err == nil &&
		(current.Result.Terminal() || len(current.Moves) > len(snap.Moves)) {
		log.Printf("[MOVE] Dropped stale update for game %s", snap.ID)
		return
	}
	payload := updatePayload(snap)
	for _, p := range snap.Players {
		sio.EmitTo(p.ID, EventGameUpdate, payload)
	}
}

// ScheduleBotMove lets the bot answer after a short thinking delay
func ScheduleBotMove(sio *socketio_types.SocketServer, snap session.Snapshot) {
	for _, p := range snap.Players {
		if !p.IsBot {
			sio.EmitTo(p.ID, EventBotThinking, gin.H{"game_id": snap.ID, "message": "BOT is thinking..."})
		}
	}

	gameID := snap.ID
	time.AfterFunc(botDelay(sio.Settings.BotDelayMin, sio.Settings.BotDelayMax), func() {
		outcome, err := sio.Games.ApplyBotMove(gameID)
		if err != nil {
			// the human resigned or forfeited meanwhile
			log.Printf("[BOT-MOVE] Skipped in game %s: %v", gameID, err)
			return
		}
		if !outcome.Result.Terminal() {
			BroadcastUpdate(sio, outcome.Session)
		}
	})
}

// botDelay is uniform in [lo, hi]
func botDelay(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rand.Int64N(int64(hi-lo)+1))
}

package handlers

import (
	redis_models "Fourline/models/redis"
	"Fourline/services/session"
	socketio_types "Fourline/services/socket_io/types"
	"log"

	"github.com/gin-gonic/gin"
)

// HandleResign forfeits the game right away. Bound to both "resign" and "leave".
func HandleResign(sio *socketio_types.SocketServer, conn *socketio_types.Connection) func(args ...interface{}) {
	return func(args ...interface{}) {
		client := conn.Client
		player, ok := conn.Player()
		if !ok {
			client.Emit(EventError, gin.H{"error": "not authenticated"})
			return
		}

		gameID, ok := stringField(payloadOf(args), "game_id", "gameId")
		if !ok {
			snap, playing := sio.Games.GetGameByParticipant(player.ID)
			if !playing {
				client.Emit(EventError, errorPayload(session.ErrNotFound))
				return
			}
			gameID = snap.ID
		}

		if _, err := sio.Games.ForfeitGame(gameID, player.ID); err != nil {
			log.Printf("[RESIGN-ERROR] %s could not resign game %s: %v", player.Username, gameID, err)
			client.Emit(EventError, errorPayload(err))
			return
		}
		log.Printf("[RESIGN] %s resigned game %s", player.Username, gameID)
	}
}

// HandleLeaveQueue takes the player out of the matchmaking queue
func HandleLeaveQueue(sio *socketio_types.SocketServer, conn *socketio_types.Connection) func(args ...interface{}) {
	return func(args ...interface{}) {
		client := conn.Client
		player, ok := conn.Player()
		if !ok {
			client.Emit(EventError, gin.H{"error": "not authenticated"})
			return
		}

		if !sio.Queue.Leave(player.ID) {
			return
		}
		sio.UpdatePresence(player, redis_models.StatusOnline, "")
		client.Emit(EventQueueLeft, gin.H{})
	}
}

package handlers

import (
	"Fourline/models"
	redis_models "Fourline/models/redis"
	socketio_types "Fourline/services/socket_io/types"
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

const storeTimeout = 5 * time.Second

// HandleJoin registers the player behind a socket. A player with an ongoing
// game is reattached to it, anybody else enters the matchmaking queue.
func HandleJoin(sio *socketio_types.SocketServer, conn *socketio_types.Connection) func(args ...interface{}) {
	return func(args ...interface{}) {
		client := conn.Client
		data := payloadOf(args)

		username, ok := stringField(data, "username")
		if !ok && conn.Claims != nil {
			username, ok = conn.Claims.Username, conn.Claims.Username != ""
		}
		if !ok {
			log.Printf("[JOIN-ERROR] Missing username on socket %s", conn.SocketID)
			client.Emit(EventError, gin.H{"error": "username required"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		record, err := sio.Store.FindOrCreateParticipant(ctx, username)
		if err != nil {
			log.Printf("[JOIN-ERROR] Could not load player %s: %v", username, err)
			client.Emit(EventError, gin.H{"error": "Database error"})
			return
		}

		if prev, joined := conn.Player(); joined && prev.ID != record.ID {
			client.Emit(EventError, gin.H{"error": "socket already joined as " + prev.Username})
			return
		}

		player := models.Participant{ID: record.ID, Username: record.Username}
		conn.Bind(player)
		player, _ = conn.Player()
		sio.AddConnection(player.ID, client)
		log.Printf("[JOIN] %s (%s) joined on socket %s", player.Username, player.ID, conn.SocketID)

		if snap, playing := sio.Games.GetGameByParticipant(player.ID); playing {
			if _, err := sio.Games.HandleReconnect(player.ID, client); err == nil {
				// game:resume is sent by the notifier
				sio.UpdatePresence(player, redis_models.StatusPlaying, snap.ID)
				return
			}
			log.Printf("[JOIN] Game %s of %s ended before the reconnect", snap.ID, player.Username)
		}

		enqueue(sio, player)
	}
}

// enqueue puts a player in the matchmaking queue, answering queue:joined
// when nobody is waiting yet.
func enqueue(sio *socketio_types.SocketServer, player models.Participant) {
	sio.UpdatePresence(player, redis_models.StatusQueued, "")

	res := sio.Queue.Join(player)
	if res.Matched {
		// game:start is sent by the notifier
		return
	}
	sio.EmitTo(player.ID, EventQueueJoined, gin.H{
		"token":    res.Token,
		"position": "waiting",
		"wait_ms":  sio.Queue.Wait().Milliseconds(),
	})
}

package handlers

import (
	redis_models "Fourline/models/redis"
	socketio_types "Fourline/services/socket_io/types"
	"log"
)

// HandleDisconnect cleans up after a socket. The player leaves the queue,
// loses pending rematch offers and gets a forfeit timer if it was playing.
func HandleDisconnect(sio *socketio_types.SocketServer, conn *socketio_types.Connection) func(args ...interface{}) {
	return func(args ...interface{}) {
		player, ok := conn.Player()
		if !ok {
			log.Printf("[DISCONNECT] Anonymous socket %s left", conn.SocketID)
			return
		}
		log.Printf("[DISCONNECT] %s left (socket %s, reason %v)", player.Username, conn.SocketID, args)

		if !sio.RemoveConnection(player.ID, conn.Client) {
			// the player already came back on a newer socket
			log.Printf("[DISCONNECT] Ignoring stale socket %s of %s", conn.SocketID, player.Username)
			return
		}

		sio.Queue.Leave(player.ID)
		sio.ClearRematches(player.ID)
		armed := sio.Games.HandleDisconnect(player.ID)
		sio.UpdatePresence(player, redis_models.StatusOffline, "")

		log.Printf("[DISCONNECT-DONE] %s disconnected (forfeit timer: %v)", player.Username, armed)
	}
}

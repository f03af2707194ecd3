package handlers

import (
	"Fourline/models"
	socketio_types "Fourline/services/socket_io/types"
	"log"

	"github.com/gin-gonic/gin"
)

// Rematch modes
const (
	RematchModeRematch = "rematch"
	RematchModeQueue   = "queue"
	RematchModeBot     = "bot"
)

// HandleRematch starts another game once the previous one ended: against the
// same opponent (after it accepts), through the queue, or against the bot.
func HandleRematch(sio *socketio_types.SocketServer, conn *socketio_types.Connection) func(args ...interface{}) {
	return func(args ...interface{}) {
		client := conn.Client
		player, ok := conn.Player()
		if !ok {
			client.Emit(EventError, gin.H{"error": "not authenticated"})
			return
		}
		if _, playing := sio.Games.GetGameByParticipant(player.ID); playing {
			client.Emit(EventRematchFailed, gin.H{"reason": "already in a game"})
			return
		}

		mode, ok := stringField(payloadOf(args), "mode")
		if !ok {
			mode = RematchModeRematch
		}
		log.Printf("[REMATCH] %s asked for a %s", player.Username, mode)

		switch mode {
		case RematchModeRematch:
			last, found := sio.Games.LastFinishedByParticipant(player.ID)
			if !found {
				client.Emit(EventRematchFailed, gin.H{"reason": "no previous game found"})
				return
			}
			opponent, _ := last.Opponent(player.ID)
			if opponent.IsBot {
				StartBotGame(sio, player)
				return
			}
			if _, connected := sio.GetConnection(opponent.ID); !connected {
				client.Emit(EventRematchFailed, gin.H{"reason": "opponent not connected"})
				return
			}
			sio.SetRematch(opponent.ID, socketio_types.RematchRequest{FromID: player.ID, FromUsername: player.Username})
			sio.EmitTo(opponent.ID, EventRematchRequest, gin.H{"from": player.Username})
			client.Emit(EventRematchRequested, gin.H{"to": opponent.Username})
		case RematchModeQueue:
			enqueue(sio, player)
		case RematchModeBot:
			StartBotGame(sio, player)
		default:
			client.Emit(EventRematchFailed, gin.H{"reason": "unknown mode"})
		}
	}
}

// HandleRematchAccept starts the game offered to this player. The player who
// asked for the rematch moves first.
func HandleRematchAccept(sio *socketio_types.SocketServer, conn *socketio_types.Connection) func(args ...interface{}) {
	return func(args ...interface{}) {
		client := conn.Client
		me, ok := conn.Player()
		if !ok {
			client.Emit(EventError, gin.H{"error": "not authenticated"})
			return
		}

		req, ok := sio.TakeRematch(me.ID)
		if !ok {
			client.Emit(EventRematchFailed, gin.H{"reason": "no request"})
			return
		}
		handle, connected := sio.GetConnection(req.FromID)
		if !connected {
			client.Emit(EventRematchFailed, gin.H{"reason": "opponent not connected"})
			return
		}
		_, mePlaying := sio.Games.GetGameByParticipant(me.ID)
		_, fromPlaying := sio.Games.GetGameByParticipant(req.FromID)
		if mePlaying || fromPlaying {
			client.Emit(EventRematchFailed, gin.H{"reason": "already in a game"})
			return
		}

		sio.Queue.Leave(me.ID)
		sio.Queue.Leave(req.FromID)
		from := models.Participant{ID: req.FromID, Username: req.FromUsername, Handle: handle}
		snap := sio.Games.CreateSession(from, me, false)
		StartGame(sio, snap)
	}
}

func HandleRematchDecline(sio *socketio_types.SocketServer, conn *socketio_types.Connection) func(args ...interface{}) {
	return func(args ...interface{}) {
		client := conn.Client
		me, ok := conn.Player()
		if !ok {
			client.Emit(EventError, gin.H{"error": "not authenticated"})
			return
		}

		req, ok := sio.TakeRematch(me.ID)
		if !ok {
			client.Emit(EventRematchFailed, gin.H{"reason": "no request"})
			return
		}
		sio.EmitTo(req.FromID, EventRematchDeclined, gin.H{"by": me.Username})
	}
}

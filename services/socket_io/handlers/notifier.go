package handlers

import (
	game_constants "Fourline/constants/game"
	"Fourline/models"
	redis_models "Fourline/models/redis"
	"Fourline/services/matchmaking"
	"Fourline/services/session"
	socketio_types "Fourline/services/socket_io/types"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Notifier relays queue and game events to the sockets of the players.
type Notifier struct {
	sio *socketio_types.SocketServer
}

// Attach creates the game manager and the matchmaking queue of sio, both
// reporting to a Notifier.
func Attach(sio *socketio_types.SocketServer, recorder session.Recorder) *Notifier {
	n := &Notifier{sio: sio}
	settings := sio.Settings
	sio.Games = session.NewManager(session.Config{
		ForfeitTimeout: settings.ForfeitTimeout,
		Rows:           settings.Rows,
		Cols:           settings.Cols,
		PersistGames:   settings.PersistGames,
	}, recorder, n)
	sio.Queue = matchmaking.NewQueue(settings.QueueWait, game_constants.QUEUE_TICK, n)
	return n
}

var _ session.Listener = (*Notifier)(nil)
var _ matchmaking.Listener = (*Notifier)(nil)

// Matched starts a game between two queued players. The earliest one moves first.
func (n *Notifier) Matched(first, second models.Participant) {
	snap := n.sio.Games.CreateSession(first, second, false)
	StartGame(n.sio, snap)
}

// TimedOut starts a bot game for a player nobody paired with
func (n *Notifier) TimedOut(player models.Participant) {
	n.sio.EmitTo(player.ID, EventQueueTimeout, gin.H{"message": "No opponent found, playing against the bot"})
	StartBotGame(n.sio, player)
}

func (n *Notifier) Countdown(player models.Participant, remaining int) {
	n.sio.EmitTo(player.ID, EventQueueCountdown, gin.H{"remaining": remaining})
}

func (n *Notifier) PlayerDisconnected(snap session.Snapshot, participantID string, window time.Duration) {
	opponent, ok := snap.Opponent(participantID)
	if !ok {
		return
	}
	n.sio.EmitTo(opponent.ID, EventPlayerDisconnected, gin.H{
		"game_id":    snap.ID,
		"player_id":  participantID,
		"timeout_ms": window.Milliseconds(),
	})
}

func (n *Notifier) GameResumed(snap session.Snapshot, participantID string) {
	for _, p := range snap.Players {
		n.sio.EmitTo(p.ID, EventGameResume, resumePayload(snap, p.ID))
	}
}

// GameEnded sends the final board followed by the result to both players
func (n *Notifier) GameEnded(snap session.Snapshot) {
	for _, p := range snap.Players {
		n.sio.EmitTo(p.ID, EventGameUpdate, updatePayload(snap))
		n.sio.EmitTo(p.ID, EventGameEnded, gin.H{
			"game_id": snap.ID,
			"result":  snap.Result,
			"winner":  snap.Winner,
		})
		if _, connected := n.sio.GetConnection(p.ID); connected {
			n.sio.UpdatePresence(p, redis_models.StatusOnline, "")
		}
	}
}

// LeaderboardUpdated refreshes the cache and broadcasts the new standings
func (n *Notifier) LeaderboardUpdated(top []models.Standing) {
	if n.sio.Presence != nil {
		if err := n.sio.Presence.InvalidateLeaderboard(); err != nil {
			log.Printf("[LEADERBOARD-ERROR] Could not invalidate cache: %v", err)
		}
		if err := n.sio.Presence.CacheLeaderboard(game_constants.LEADERBOARD_SIZE, top); err != nil {
			log.Printf("[LEADERBOARD-ERROR] Could not cache standings: %v", err)
		}
	}
	n.sio.Broadcast(EventLeaderboard, top)
}

// StartGame announces a new game to both players. A human that is already
// gone when the game starts gets its forfeit timer armed right away.
func StartGame(sio *socketio_types.SocketServer, snap session.Snapshot) {
	for _, p := range snap.Players {
		if p.IsBot {
			continue
		}
		sio.EmitTo(p.ID, EventGameStart, startPayload(snap, p.ID))
		sio.UpdatePresence(p, redis_models.StatusPlaying, snap.ID)
	}
	for _, p := range snap.Players {
		if p.IsBot {
			continue
		}
		if _, connected := sio.GetConnection(p.ID); !connected {
			log.Printf("[GAME-START] %s left before game %s started", p.Username, snap.ID)
			sio.Games.HandleDisconnect(p.ID)
		}
	}
}

// StartBotGame starts a game against the bot. The human always moves first
// and loses any place it still holds in the queue.
func StartBotGame(sio *socketio_types.SocketServer, player models.Participant) session.Snapshot {
	if sio.Queue.Contains(player.ID) {
		sio.Queue.Leave(player.ID)
		log.Printf("[QUEUE] %s left the queue for a bot game", player.Username)
	}
	bot := models.Participant{
		ID:       game_constants.BOT_ID_PREFIX + uuid.NewString(),
		Username: game_constants.BOT_USERNAME,
		IsBot:    true,
	}
	snap := sio.Games.CreateSession(player, bot, true)
	StartGame(sio, snap)
	return snap
}

package handlers

import (
	"Fourline/config"
	"Fourline/models"
	"Fourline/models/postgres"
	"Fourline/services/session"
	socketio_types "Fourline/services/socket_io/types"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emitted struct {
	ev      string
	payload interface{}
}

type fakeClient struct {
	mu     sync.Mutex
	events []emitted
}

func (f *fakeClient) Emit(ev string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var payload interface{}
	if len(args) > 0 {
		payload = args[0]
	}
	f.events = append(f.events, emitted{ev: ev, payload: payload})
	return nil
}

func (f *fakeClient) count(ev string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.ev == ev {
			n++
		}
	}
	return n
}

func (f *fakeClient) last(ev string) (gin.H, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.events) - 1; i >= 0; i-- {
		if f.events[i].ev == ev {
			payload, _ := f.events[i].payload.(gin.H)
			return payload, true
		}
	}
	return nil, false
}

// waitFor blocks until the client got ev and returns its latest payload
func (f *fakeClient) waitFor(t *testing.T, ev string) gin.H {
	t.Helper()
	require.Eventually(t, func() bool {
		_, ok := f.last(ev)
		return ok
	}, time.Second, 5*time.Millisecond, "expected event %s", ev)
	payload, _ := f.last(ev)
	return payload
}

type fakeStore struct{}

func (fakeStore) FindOrCreateParticipant(_ context.Context, username string) (postgres.Player, error) {
	return postgres.Player{ID: "id-" + username, Username: username}, nil
}

func testSettings() config.GameSettings {
	return config.GameSettings{
		QueueWait:      5 * time.Second,
		ForfeitTimeout: 5 * time.Second,
		Rows:           6,
		Cols:           7,
	}
}

func newTestServer(settings config.GameSettings) (*socketio_types.SocketServer, *Notifier) {
	sio := socketio_types.NewSocketServer(settings, fakeStore{}, nil)
	n := Attach(sio, nil)
	return sio, n
}

type player struct {
	conn   *socketio_types.Connection
	client *fakeClient
}

func (p player) send(handler func(*socketio_types.SocketServer, *socketio_types.Connection) func(args ...interface{}),
	sio *socketio_types.SocketServer, payload map[string]interface{}) {
	if payload == nil {
		handler(sio, p.conn)()
		return
	}
	handler(sio, p.conn)(payload)
}

func join(sio *socketio_types.SocketServer, username string) player {
	client := &fakeClient{}
	conn := socketio_types.NewConnection("sock-"+username, client, nil)
	p := player{conn: conn, client: client}
	p.send(HandleJoin, sio, map[string]interface{}{"username": username})
	return p
}

// pair joins alice and bob and returns the id of their game
func pair(t *testing.T, sio *socketio_types.SocketServer) (player, player, string) {
	t.Helper()
	alice := join(sio, "alice")
	bob := join(sio, "bob")
	start := alice.client.waitFor(t, EventGameStart)
	bob.client.waitFor(t, EventGameStart)
	return alice, bob, start["game_id"].(string)
}

func move(gameID string, col int) map[string]interface{} {
	// JSON numbers arrive as float64
	return map[string]interface{}{"game_id": gameID, "col": float64(col)}
}

func TestJoinPairsPlayers(t *testing.T) {
	sio, _ := newTestServer(testSettings())

	alice := join(sio, "alice")
	joined := alice.client.waitFor(t, EventQueueJoined)
	assert.NotEmpty(t, joined["token"])
	assert.Equal(t, int64(5000), joined["wait_ms"])

	bob := join(sio, "bob")
	aliceStart := alice.client.waitFor(t, EventGameStart)
	bobStart := bob.client.waitFor(t, EventGameStart)

	assert.Equal(t, aliceStart["game_id"], bobStart["game_id"])
	assert.Equal(t, 1, aliceStart["player_number"])
	assert.Equal(t, "bob", aliceStart["opponent"])
	assert.Equal(t, 2, bobStart["player_number"])
	assert.Equal(t, false, bobStart["bot"])
	assert.Zero(t, bob.client.count(EventQueueJoined))
	assert.Equal(t, 0, sio.Queue.Size())
}

func TestJoinRequiresUsername(t *testing.T) {
	sio, _ := newTestServer(testSettings())
	client := &fakeClient{}
	conn := socketio_types.NewConnection("sock-x", client, nil)

	HandleJoin(sio, conn)(map[string]interface{}{"username": "   "})
	payload := client.waitFor(t, EventError)
	assert.Equal(t, "username required", payload["error"])

	HandleMove(sio, conn)(move("g", 0))
	assert.Equal(t, 2, client.count(EventError), "moves need a joined socket")
}

func TestMovesAreRelayedAndRejectedPrivately(t *testing.T) {
	sio, _ := newTestServer(testSettings())
	alice, bob, gameID := pair(t, sio)

	alice.send(HandleMove, sio, move(gameID, 3))
	update := bob.client.waitFor(t, EventGameUpdate)
	assert.Equal(t, 2, update["current_turn"])
	assert.Equal(t, session.ResultOngoing, update["result"])
	assert.Equal(t, 1, alice.client.count(EventGameUpdate))

	alice.send(HandleMove, sio, move(gameID, 4))
	rejected := alice.client.waitFor(t, EventMoveError)
	assert.Equal(t, "NotYourTurn", rejected["error"])
	assert.Zero(t, bob.client.count(EventMoveError))

	bob.send(HandleMove, sio, move(gameID, 9))
	rejected = bob.client.waitFor(t, EventMoveError)
	assert.Equal(t, "InvalidMove", rejected["error"])

	bob.send(HandleMove, sio, map[string]interface{}{"gameId": gameID})
	rejected = bob.client.waitFor(t, EventMoveError)
	assert.Equal(t, "InvalidPayload", rejected["error"])
}

func TestWinEndsGame(t *testing.T) {
	sio, _ := newTestServer(testSettings())
	alice, bob, gameID := pair(t, sio)

	for i := 0; i < 3; i++ {
		alice.send(HandleMove, sio, move(gameID, 0))
		bob.send(HandleMove, sio, move(gameID, 1))
	}
	alice.send(HandleMove, sio, move(gameID, 0))

	for _, c := range []*fakeClient{alice.client, bob.client} {
		ended := c.waitFor(t, EventGameEnded)
		assert.Equal(t, session.ResultWin, ended["result"])
		assert.Equal(t, "id-alice", ended["winner"])
		final, _ := c.last(EventGameUpdate)
		assert.Equal(t, session.ResultWin, final["result"])
	}

	bob.send(HandleMove, sio, move(gameID, 1))
	rejected := bob.client.waitFor(t, EventMoveError)
	assert.Equal(t, "AlreadyTerminal", rejected["error"])
}

func TestQueueTimeoutStartsBotGame(t *testing.T) {
	settings := testSettings()
	settings.QueueWait = 30 * time.Millisecond
	sio, _ := newTestServer(settings)

	alice := join(sio, "alice")
	alice.client.waitFor(t, EventQueueTimeout)
	start := alice.client.waitFor(t, EventGameStart)
	assert.Equal(t, true, start["bot"])
	assert.Equal(t, 1, start["player_number"])
	assert.Equal(t, "BOT", start["opponent"])

	gameID := start["game_id"].(string)
	alice.send(HandleMove, sio, move(gameID, 0))
	alice.client.waitFor(t, EventBotThinking)
	require.Eventually(t, func() bool {
		return alice.client.count(EventGameUpdate) == 2
	}, time.Second, 5*time.Millisecond)

	update, _ := alice.client.last(EventGameUpdate)
	assert.Equal(t, 1, update["current_turn"], "bot answered")
}

func TestDisconnectAndResume(t *testing.T) {
	sio, _ := newTestServer(testSettings())
	alice, bob, gameID := pair(t, sio)

	alice.send(HandleDisconnect, sio, nil)
	gone := bob.client.waitFor(t, EventPlayerDisconnected)
	assert.Equal(t, "id-alice", gone["player_id"])
	assert.Equal(t, int64(5000), gone["timeout_ms"])

	back := join(sio, "alice")
	resume := back.client.waitFor(t, EventGameResume)
	assert.Equal(t, gameID, resume["game_id"])
	assert.Equal(t, 1, resume["player_number"])
	bob.client.waitFor(t, EventGameResume)
	assert.Zero(t, back.client.count(EventQueueJoined))

	back.send(HandleMove, sio, move(gameID, 2))
	bob.client.waitFor(t, EventGameUpdate)
}

func TestDisconnectForfeits(t *testing.T) {
	settings := testSettings()
	settings.ForfeitTimeout = 30 * time.Millisecond
	sio, _ := newTestServer(settings)
	alice, bob, _ := pair(t, sio)

	alice.send(HandleDisconnect, sio, nil)
	ended := bob.client.waitFor(t, EventGameEnded)
	assert.Equal(t, session.ResultForfeit, ended["result"])
	assert.Equal(t, "id-bob", ended["winner"])

	// coming back after the forfeit means a new queue entry
	back := join(sio, "alice")
	back.client.waitFor(t, EventQueueJoined)
	assert.Zero(t, back.client.count(EventGameResume))
}

func TestStaleSocketDisconnectIsIgnored(t *testing.T) {
	sio, _ := newTestServer(testSettings())

	first := join(sio, "alice")
	second := join(sio, "alice")
	require.True(t, sio.Queue.Contains("id-alice"))

	first.send(HandleDisconnect, sio, nil)
	assert.True(t, sio.Queue.Contains("id-alice"))

	second.send(HandleDisconnect, sio, nil)
	assert.False(t, sio.Queue.Contains("id-alice"))
}

func TestResign(t *testing.T) {
	sio, _ := newTestServer(testSettings())
	alice, bob, gameID := pair(t, sio)

	bob.send(HandleResign, sio, map[string]interface{}{"gameId": gameID})
	ended := alice.client.waitFor(t, EventGameEnded)
	assert.Equal(t, session.ResultForfeit, ended["result"])
	assert.Equal(t, "id-alice", ended["winner"])

	bob.send(HandleResign, sio, map[string]interface{}{"game_id": gameID})
	failed := bob.client.waitFor(t, EventError)
	assert.Equal(t, "AlreadyTerminal", failed["error"])

	// no game id and no ongoing game
	alice.send(HandleResign, sio, map[string]interface{}{})
	failed = alice.client.waitFor(t, EventError)
	assert.Equal(t, "NotFound", failed["error"])
}

func TestLeaveQueue(t *testing.T) {
	sio, _ := newTestServer(testSettings())
	alice := join(sio, "alice")

	alice.send(HandleLeaveQueue, sio, nil)
	alice.client.waitFor(t, EventQueueLeft)
	assert.Equal(t, 0, sio.Queue.Size())

	alice.send(HandleLeaveQueue, sio, nil)
	assert.Equal(t, 1, alice.client.count(EventQueueLeft))
}

func TestRematchAccepted(t *testing.T) {
	sio, _ := newTestServer(testSettings())
	alice, bob, gameID := pair(t, sio)
	bob.send(HandleResign, sio, map[string]interface{}{"game_id": gameID})
	alice.client.waitFor(t, EventGameEnded)

	alice.send(HandleRematch, sio, map[string]interface{}{"mode": "rematch"})
	request := bob.client.waitFor(t, EventRematchRequest)
	assert.Equal(t, "alice", request["from"])
	requested := alice.client.waitFor(t, EventRematchRequested)
	assert.Equal(t, "bob", requested["to"])

	bob.send(HandleRematchAccept, sio, nil)
	require.Eventually(t, func() bool {
		return alice.client.count(EventGameStart) == 2 && bob.client.count(EventGameStart) == 2
	}, time.Second, 5*time.Millisecond)

	start, _ := alice.client.last(EventGameStart)
	assert.NotEqual(t, gameID, start["game_id"])
	assert.Equal(t, 1, start["player_number"], "the player asking moves first")

	// the offer was consumed
	bob.send(HandleRematchAccept, sio, nil)
	failed := bob.client.waitFor(t, EventRematchFailed)
	assert.Equal(t, "no request", failed["reason"])
}

func TestRematchDeclined(t *testing.T) {
	sio, _ := newTestServer(testSettings())
	alice, bob, gameID := pair(t, sio)
	alice.send(HandleResign, sio, map[string]interface{}{"game_id": gameID})
	bob.client.waitFor(t, EventGameEnded)

	bob.send(HandleRematch, sio, nil)
	alice.client.waitFor(t, EventRematchRequest)
	alice.send(HandleRematchDecline, sio, nil)

	declined := bob.client.waitFor(t, EventRematchDeclined)
	assert.Equal(t, "alice", declined["by"])

	alice.send(HandleRematchDecline, sio, nil)
	failed := alice.client.waitFor(t, EventRematchFailed)
	assert.Equal(t, "no request", failed["reason"])
}

func TestRematchClearedOnDisconnect(t *testing.T) {
	sio, _ := newTestServer(testSettings())
	alice, bob, gameID := pair(t, sio)
	alice.send(HandleResign, sio, map[string]interface{}{"game_id": gameID})
	bob.client.waitFor(t, EventGameEnded)

	bob.send(HandleRematch, sio, map[string]interface{}{"mode": "rematch"})
	alice.client.waitFor(t, EventRematchRequest)
	bob.send(HandleDisconnect, sio, nil)

	alice.send(HandleRematchAccept, sio, nil)
	failed := alice.client.waitFor(t, EventRematchFailed)
	assert.Equal(t, "no request", failed["reason"])
}

func TestRematchModes(t *testing.T) {
	sio, _ := newTestServer(testSettings())
	alice := join(sio, "alice")

	alice.send(HandleRematch, sio, map[string]interface{}{"mode": "rematch"})
	failed := alice.client.waitFor(t, EventRematchFailed)
	assert.Equal(t, "no previous game found", failed["reason"])

	alice.send(HandleRematch, sio, map[string]interface{}{"mode": "chess"})
	failed, _ = alice.client.last(EventRematchFailed)
	assert.Equal(t, "unknown mode", failed["reason"])

	alice.send(HandleRematch, sio, map[string]interface{}{"mode": "bot"})
	start := alice.client.waitFor(t, EventGameStart)
	assert.Equal(t, true, start["bot"])
	assert.False(t, sio.Queue.Contains("id-alice"))

	alice.send(HandleRematch, sio, map[string]interface{}{"mode": "queue"})
	failed, _ = alice.client.last(EventRematchFailed)
	assert.Equal(t, "already in a game", failed["reason"])
}

func TestRematchWithBotLeavesQueue(t *testing.T) {
	sio, _ := newTestServer(testSettings())
	alice := join(sio, "alice")
	alice.client.waitFor(t, EventQueueJoined)

	alice.send(HandleRematch, sio, map[string]interface{}{"mode": "bot"})
	start := alice.client.waitFor(t, EventGameStart)
	alice.send(HandleResign, sio, map[string]interface{}{"game_id": start["game_id"]})
	alice.client.waitFor(t, EventGameEnded)

	alice.send(HandleRematch, sio, map[string]interface{}{"mode": "queue"})
	require.True(t, sio.Queue.Contains("id-alice"))

	alice.send(HandleRematch, sio, map[string]interface{}{"mode": "rematch"})
	require.Eventually(t, func() bool {
		return alice.client.count(EventGameStart) == 2
	}, time.Second, 5*time.Millisecond)
	second, _ := alice.client.last(EventGameStart)
	assert.Equal(t, true, second["bot"])
	assert.False(t, sio.Queue.Contains("id-alice"))
	assert.Equal(t, 0, sio.Queue.Size())

	bob := join(sio, "bob")
	bob.client.waitFor(t, EventQueueJoined)
	assert.Zero(t, bob.client.count(EventGameStart))
	assert.Equal(t, 2, alice.client.count(EventGameStart))
}

func TestStaleUpdateIsDropped(t *testing.T) {
	sio, _ := newTestServer(testSettings())
	alice, bob, gameID := pair(t, sio)

	alice.send(HandleMove, sio, move(gameID, 3))
	bob.client.waitFor(t, EventGameUpdate)
	stale, err := sio.Games.Get(gameID)
	require.NoError(t, err)

	bob.send(HandleMove, sio, move(gameID, 4))
	require.Eventually(t, func() bool {
		return alice.client.count(EventGameUpdate) == 2
	}, time.Second, 5*time.Millisecond)

	BroadcastUpdate(sio, stale)
	assert.Equal(t, 2, alice.client.count(EventGameUpdate), "overtaken by a later move")

	bob.send(HandleResign, sio, map[string]interface{}{"game_id": gameID})
	alice.client.waitFor(t, EventGameEnded)
	current, err := sio.Games.Get(gameID)
	require.NoError(t, err)
	current.Result = session.ResultOngoing

	BroadcastUpdate(sio, current)
	assert.Equal(t, 2, alice.client.count(EventGameUpdate), "no update after the game ended")
	assert.Equal(t, 2, bob.client.count(EventGameUpdate))
}

func TestGameStartWithGonePlayerArmsForfeit(t *testing.T) {
	settings := testSettings()
	settings.ForfeitTimeout = 30 * time.Millisecond
	sio, n := newTestServer(settings)
	bob := join(sio, "bob")
	sio.Queue.Leave("id-bob")

	ghost := models.Participant{ID: "id-ghost", Username: "ghost"}
	n.Matched(ghost, models.Participant{ID: "id-bob", Username: "bob"})

	ended := bob.client.waitFor(t, EventGameEnded)
	assert.Equal(t, session.ResultForfeit, ended["result"])
	assert.Equal(t, "id-bob", ended["winner"])
}

func TestLeaderboardBroadcast(t *testing.T) {
	sio, n := newTestServer(testSettings())
	alice := join(sio, "alice")
	bob := join(sio, "bob")

	top := []models.Standing{{ID: "id-alice", Username: "alice", Wins: 3}}
	n.LeaderboardUpdated(top)

	for _, c := range []*fakeClient{alice.client, bob.client} {
		require.Eventually(t, func() bool { return c.count(EventLeaderboard) == 1 }, time.Second, 5*time.Millisecond)
	}
}

func TestPayloadFields(t *testing.T) {
	data := map[string]interface{}{"a": float64(3), "b": "4", "c": 2.5, "d": " x ", "e": ""}

	n, ok := intField(data, "a")
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	n, ok = intField(data, "missing", "b")
	assert.True(t, ok)
	assert.Equal(t, 4, n)
	_, ok = intField(data, "c")
	assert.False(t, ok)

	s, ok := stringField(data, "e", "d")
	assert.True(t, ok)
	assert.Equal(t, "x", s)
	_, ok = stringField(nil, "d")
	assert.False(t, ok)

	assert.Nil(t, payloadOf(nil))
	assert.Nil(t, payloadOf([]interface{}{"not an object"}))
}

func TestBotDelayBounds(t *testing.T) {
	assert.Equal(t, 300*time.Millisecond, botDelay(300*time.Millisecond, 300*time.Millisecond))
	assert.Equal(t, 300*time.Millisecond, botDelay(300*time.Millisecond, 100*time.Millisecond))
	for i := 0; i < 100; i++ {
		d := botDelay(300*time.Millisecond, time.Second)
		assert.GreaterOrEqual(t, d, 300*time.Millisecond)
		assert.LessOrEqual(t, d, time.Second)
	}
}

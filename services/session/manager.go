package session

import (
	game_constants "Fourline/constants/game"
	"Fourline/models"
	"Fourline/services/connect4"
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Recorder is the persistence side of finished games. Every call happens
// outside the game loop and failures are only logged.
type Recorder interface {
	CreateCompletedGameRecord(ctx context.Context, snap Snapshot) error
	IncrementWinCount(ctx context.Context, participantID string) error
	TopPlayers(ctx context.Context, limit int) ([]models.Standing, error)
}

// Listener receives lifecycle events. Callbacks run after the session lock
// is released, at most once per transition, and may call back into the Manager.
type Listener interface {
	PlayerDisconnected(snap Snapshot, participantID string, window time.Duration)
	GameResumed(snap Snapshot, participantID string)
	GameEnded(snap Snapshot)
	LeaderboardUpdated(top []models.Standing)
}

type Config struct {
	ForfeitTimeout time.Duration
	Rows           int
	Cols           int
	PersistGames   bool
}

// MoveOutcome is what a successful move produced. NextTurn is only set while
// the game goes on.
type MoveOutcome struct {
	Result   Result            `json:"result"`
	Winner   string            `json:"winner,omitempty"`
	Position connect4.Position `json:"position"`
	NextTurn int               `json:"next_turn,omitempty"`
	Session  Snapshot          `json:"-"`
}

// Manager owns every game of the process. Finished games stay in memory so
// they can still be looked up (rematches, late reconnects).
//
// Lock order: Manager.mu before Session.mu, never the other way round.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	active   map[string]string // participant id -> ongoing game id

	cfg      Config
	recorder Recorder
	listener Listener
	now      func() time.Time

	persisting sync.WaitGroup
}

func NewManager(cfg Config, recorder Recorder, listener Listener) *Manager {
	if cfg.ForfeitTimeout <= 0 {
		cfg.ForfeitTimeout = game_constants.FORFEIT_TIMEOUT
	}
	return &Manager{
		sessions: make(map[string]*Session),
		active:   make(map[string]string),
		cfg:      cfg,
		recorder: recorder,
		listener: listener,
		now:      time.Now,
	}
}

// ForfeitTimeout returns the configured reconnect window.
func (m *Manager) ForfeitTimeout() time.Duration {
	return m.cfg.ForfeitTimeout
}

// CreateSession starts a game between p1 (slot 1, moves first) and p2.
func (m *Manager) CreateSession(p1, p2 models.Participant, isBotGame bool) Snapshot {
	s := newSession(uuid.NewString(), p1, p2, isBotGame, m.cfg.Rows, m.cfg.Cols, m.now())

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.active[p1.ID] = s.ID
	m.active[p2.ID] = s.ID
	m.mu.Unlock()

	log.Printf("[SESSION] Created game %s: %s vs %s (bot: %v)", s.ID, p1.Username, p2.Username, isBotGame)
	return s.Snapshot()
}

// Get returns a copy of any known game, finished or not.
func (m *Manager) Get(sessionID string) (Snapshot, error) {
	s := m.lookup(sessionID)
	if s == nil {
		return Snapshot{}, ErrNotFound
	}
	return s.Snapshot(), nil
}

// GetGameByParticipant returns the ongoing game of a participant, if any.
func (m *Manager) GetGameByParticipant(participantID string) (Snapshot, bool) {
	s := m.activeSession(participantID)
	if s == nil {
		return Snapshot{}, false
	}
	snap := s.Snapshot()
	if snap.Result.Terminal() {
		return Snapshot{}, false
	}
	return snap, true
}

// LastFinishedByParticipant returns the most recently ended game of a participant.
func (m *Manager) LastFinishedByParticipant(participantID string) (Snapshot, bool) {
	m.mu.RLock()
	candidates := make([]*Session, 0)
	for _, s := range m.sessions {
		for _, p := range s.players {
			if p.ID == participantID {
				candidates = append(candidates, s)
				break
			}
		}
	}
	m.mu.RUnlock()

	var last Snapshot
	found := false
	for _, s := range candidates {
		snap := s.Snapshot()
		if !snap.Result.Terminal() {
			continue
		}
		if !found || snap.EndedAt.After(last.EndedAt) {
			last = snap
			found = true
		}
	}
	return last, found
}

// ApplyMove drops a disc for participantID in col, enforcing turn order.
func (m *Manager) ApplyMove(sessionID, participantID string, col int) (MoveOutcome, error) {
	s := m.lookup(sessionID)
	if s == nil {
		return MoveOutcome{}, ErrNotFound
	}

	s.mu.Lock()
	slot := s.slotOf(participantID)
	if slot == 0 {
		s.mu.Unlock()
		return MoveOutcome{}, ErrNotParticipant
	}
	if s.result.Terminal() {
		s.mu.Unlock()
		return MoveOutcome{}, ErrAlreadyTerminal
	}
	if s.currentTurn != slot {
		s.mu.Unlock()
		return MoveOutcome{}, ErrNotYourTurn
	}
	if !s.board.IsValidMove(col) {
		s.mu.Unlock()
		return MoveOutcome{}, ErrInvalidMove
	}

	outcome, ended := m.playLocked(s, slot, col)
	s.mu.Unlock()

	if ended {
		m.finalize(outcome.Session)
	}
	return outcome, nil
}

// ApplyBotMove lets the opponent policy play for the bot whose turn it is.
// Choosing and applying the column happen under the same lock.
func (m *Manager) ApplyBotMove(sessionID string) (MoveOutcome, error) {
	s := m.lookup(sessionID)
	if s == nil {
		return MoveOutcome{}, ErrNotFound
	}

	s.mu.Lock()
	if s.result.Terminal() {
		s.mu.Unlock()
		return MoveOutcome{}, ErrAlreadyTerminal
	}
	slot := s.currentTurn
	if !s.players[slot-1].IsBot {
		s.mu.Unlock()
		return MoveOutcome{}, ErrNotYourTurn
	}
	me := connect4.Player(slot)
	col, ok := connect4.ChooseMove(s.board, me, me.Opponent())
	if !ok {
		s.mu.Unlock()
		return MoveOutcome{}, ErrInvalidMove
	}

	outcome, ended := m.playLocked(s, slot, col)
	s.mu.Unlock()

	if ended {
		m.finalize(outcome.Session)
	}
	return outcome, nil
}

// playLocked applies an already validated move. Must be called with s.mu held.
func (m *Manager) playLocked(s *Session, slot, col int) (MoveOutcome, bool) {
	mover := s.players[slot-1].ID
	pos, _ := s.board.DropDisc(col, connect4.Player(slot))
	now := m.now()
	s.moves = append(s.moves, Move{PlayerID: mover, Col: col, Row: pos.Row, At: now})

	// a win on the last free cell is still a win
	if s.board.CheckWinAt(pos.Row, pos.Col) {
		s.endLocked(ResultWin, mover, now)
		return MoveOutcome{Result: ResultWin, Winner: mover, Position: pos, Session: s.snapshotLocked()}, true
	}
	if s.board.CheckDraw() {
		s.endLocked(ResultDraw, "", now)
		return MoveOutcome{Result: ResultDraw, Position: pos, Session: s.snapshotLocked()}, true
	}

	s.currentTurn = 3 - slot
	return MoveOutcome{
		Result:   ResultOngoing,
		Position: pos,
		NextTurn: s.currentTurn,
		Session:  s.snapshotLocked(),
	}, false
}

// HandleDisconnect arms the forfeit timer of the participant's ongoing game.
// It reports false when there is no ongoing game or a timer is already
// armed. In the latter case the participant is still recorded as absent and
// gets its own timer once the other one is cancelled by a reconnect.
func (m *Manager) HandleDisconnect(participantID string) bool {
	s := m.activeSession(participantID)
	if s == nil {
		return false
	}

	s.mu.Lock()
	slot := s.slotOf(participantID)
	if slot == 0 || s.result.Terminal() {
		s.mu.Unlock()
		return false
	}
	s.players[slot-1].Handle = nil
	s.absent[slot-1] = true
	if s.forfeitTimer != nil {
		s.mu.Unlock()
		log.Printf("[DISCONNECT] %s left game %s while a forfeit timer is armed", participantID, s.ID)
		return false
	}
	m.armForfeitLocked(s, participantID)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	log.Printf("[DISCONNECT] %s left game %s, forfeit in %v", participantID, s.ID, m.cfg.ForfeitTimeout)
	if m.listener != nil {
		m.listener.PlayerDisconnected(snap, participantID, m.cfg.ForfeitTimeout)
	}
	return true
}

// armForfeitLocked must be called with s.mu held and no timer armed.
func (m *Manager) armForfeitLocked(s *Session, participantID string) {
	s.disconnected = &DisconnectMarker{PlayerID: participantID, At: m.now()}
	s.timerGen++
	gen := s.timerGen
	s.forfeitTimer = time.AfterFunc(m.cfg.ForfeitTimeout, func() {
		m.expireForfeit(s, gen, participantID)
	})
}

// HandleReconnect rebinds the participant's handle and cancels its forfeit
// timer. Exactly one of reconnect and forfeit wins: if the timer already
// fired, ErrAlreadyTerminal (or ErrNotFound) is returned. When the opponent
// is still away, its own forfeit timer is armed in place of the cancelled one.
func (m *Manager) HandleReconnect(participantID string, handle models.Handle) (Snapshot, error) {
	s := m.activeSession(participantID)
	if s == nil {
		return Snapshot{}, ErrNotFound
	}

	s.mu.Lock()
	slot := s.slotOf(participantID)
	if slot == 0 {
		s.mu.Unlock()
		return Snapshot{}, ErrNotParticipant
	}
	if s.result.Terminal() {
		s.mu.Unlock()
		return Snapshot{}, ErrAlreadyTerminal
	}

	s.players[slot-1].Handle = handle
	s.absent[slot-1] = false

	// only the disconnected player's own timer is cancelled
	opponentAway := ""
	if s.disconnected != nil && s.disconnected.PlayerID == participantID {
		s.stopForfeitTimerLocked()
		if other := 2 - slot; s.absent[other] {
			opponentAway = s.players[other].ID
			m.armForfeitLocked(s, opponentAway)
		}
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	log.Printf("[RECONNECT] %s is back in game %s", participantID, s.ID)
	if m.listener != nil {
		m.listener.GameResumed(snap, participantID)
		if opponentAway != "" {
			m.listener.PlayerDisconnected(snap, opponentAway, m.cfg.ForfeitTimeout)
		}
	}
	return snap, nil
}

// ForfeitGame ends the game in favour of the other participant.
func (m *Manager) ForfeitGame(sessionID, loserID string) (Snapshot, error) {
	s := m.lookup(sessionID)
	if s == nil {
		return Snapshot{}, ErrNotFound
	}

	s.mu.Lock()
	snap, err := m.forfeitLocked(s, loserID)
	s.mu.Unlock()
	if err != nil {
		return Snapshot{}, err
	}

	m.finalize(snap)
	return snap, nil
}

func (m *Manager) expireForfeit(s *Session, gen uint64, loserID string) {
	s.mu.Lock()
	if s.timerGen != gen || s.result.Terminal() {
		// cancelled by a reconnect or the game ended meanwhile
		s.mu.Unlock()
		return
	}
	s.forfeitTimer = nil
	snap, err := m.forfeitLocked(s, loserID)
	s.mu.Unlock()
	if err != nil {
		return
	}

	log.Printf("[FORFEIT] %s did not come back to game %s", loserID, s.ID)
	m.finalize(snap)
}

// forfeitLocked must be called with s.mu held.
func (m *Manager) forfeitLocked(s *Session, loserID string) (Snapshot, error) {
	slot := s.slotOf(loserID)
	if slot == 0 {
		return Snapshot{}, ErrNotParticipant
	}
	if s.result.Terminal() {
		return Snapshot{}, ErrAlreadyTerminal
	}
	winner := s.players[2-slot].ID
	s.endLocked(ResultForfeit, winner, m.now())
	return s.snapshotLocked(), nil
}

// finalize runs once per game, after its terminal transition.
func (m *Manager) finalize(snap Snapshot) {
	m.mu.Lock()
	for _, p := range snap.Players {
		if m.active[p.ID] == snap.ID {
			delete(m.active, p.ID)
		}
	}
	m.mu.Unlock()

	log.Printf("[GAME-END] Game %s finished: result=%s winner=%q duration=%ds",
		snap.ID, snap.Result, snap.Winner, snap.DurationSeconds)

	if m.listener != nil {
		m.listener.GameEnded(snap)
	}

	if !m.cfg.PersistGames || m.recorder == nil {
		return
	}
	m.persisting.Add(1)
	go func() {
		defer m.persisting.Done()
		m.persist(snap)
	}()
}

func (m *Manager) persist(snap Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), game_constants.PERSIST_TIMEOUT)
	defer cancel()

	if err := m.recorder.CreateCompletedGameRecord(ctx, snap); err != nil {
		log.Printf("[PERSIST-ERROR] Failed to persist game %s: %v", snap.ID, err)
		return
	}

	if snap.Winner == "" {
		return
	}
	// bots are not registered players
	if slot := snap.Slot(snap.Winner); slot != 0 && snap.Players[slot-1].IsBot {
		return
	}
	if err := m.recorder.IncrementWinCount(ctx, snap.Winner); err != nil {
		log.Printf("[PERSIST-ERROR] Failed to increment wins of %s: %v", snap.Winner, err)
		return
	}

	top, err := m.recorder.TopPlayers(ctx, game_constants.LEADERBOARD_SIZE)
	if err != nil {
		log.Printf("[PERSIST-ERROR] Failed to fetch leaderboard after win: %v", err)
		return
	}
	if m.listener != nil {
		m.listener.LeaderboardUpdated(top)
	}
}

// Wait blocks until every pending persistence call has returned.
func (m *Manager) Wait() {
	m.persisting.Wait()
}

func (m *Manager) lookup(sessionID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[sessionID]
}

func (m *Manager) activeSession(participantID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.active[participantID]
	if !ok {
		return nil
	}
	return m.sessions[id]
}

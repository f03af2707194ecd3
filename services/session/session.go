package session

import (
	"Fourline/models"
	"Fourline/services/connect4"
	"sync"
	"time"
)

type Result string

const (
	ResultOngoing Result = "ongoing"
	ResultWin     Result = "win"
	ResultDraw    Result = "draw"
	ResultForfeit Result = "forfeit"
)

// Terminal reports whether no further transition is allowed.
func (r Result) Terminal() bool {
	return r != ResultOngoing
}

// Move is an entry of the append-only move log of a game
type Move struct {
	PlayerID string    `json:"player_id"`
	Col      int       `json:"col"`
	Row      int       `json:"row"`
	At       time.Time `json:"at"`
}

// DisconnectMarker is set while a forfeit timer is armed
type DisconnectMarker struct {
	PlayerID string    `json:"player_id"`
	At       time.Time `json:"at"`
}

/*
 * 'Session' is one game between two participants. Slot 1 moves first.
 * Every field below mu is guarded by it.
 */
type Session struct {
	ID        string
	IsBotGame bool
	StartedAt time.Time

	mu              sync.Mutex
	players         [2]models.Participant
	board           *connect4.Board
	currentTurn     int
	moves           []Move
	result          Result
	winner          string
	endedAt         time.Time
	durationSeconds int
	disconnected    *DisconnectMarker
	absent          [2]bool // per slot, set between disconnect and reconnect
	forfeitTimer    *time.Timer
	timerGen        uint64
	finalized       bool
}

// Snapshot is an immutable copy of a session, safe to hand to other goroutines.
type Snapshot struct {
	ID              string                `json:"id"`
	Players         [2]models.Participant `json:"players"`
	Board           [][]connect4.Player   `json:"board"`
	LastMove        *connect4.LastMove    `json:"last_move"`
	CurrentTurn     int                   `json:"current_turn"`
	Moves           []Move                `json:"moves"`
	Result          Result                `json:"result"`
	Winner          string                `json:"winner,omitempty"`
	StartedAt       time.Time             `json:"started_at"`
	EndedAt         time.Time             `json:"ended_at"`
	DurationSeconds int                   `json:"duration_seconds"`
	IsBotGame       bool                  `json:"is_bot_game"`
	Disconnected    *DisconnectMarker     `json:"disconnected,omitempty"`
}

// Slot returns 1 or 2 for a participant of the snapshot, 0 otherwise.
func (s Snapshot) Slot(participantID string) int {
	for i, p := range s.Players {
		if p.ID == participantID {
			return i + 1
		}
	}
	return 0
}

// Opponent returns the other participant of the game.
func (s Snapshot) Opponent(participantID string) (models.Participant, bool) {
	switch s.Slot(participantID) {
	case 1:
		return s.Players[1], true
	case 2:
		return s.Players[0], true
	}
	return models.Participant{}, false
}

func newSession(id string, p1, p2 models.Participant, isBot bool, rows, cols int, now time.Time) *Session {
	return &Session{
		ID:          id,
		IsBotGame:   isBot,
		StartedAt:   now,
		players:     [2]models.Participant{p1, p2},
		board:       connect4.NewBoard(rows, cols),
		currentTurn: 1,
		result:      ResultOngoing,
	}
}

// slotOf must be called with s.mu held. Participant ids never change, only
// their handles do.
func (s *Session) slotOf(participantID string) int {
	for i, p := range s.players {
		if p.ID == participantID {
			return i + 1
		}
	}
	return 0
}

// snapshotLocked must be called with s.mu held.
func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:              s.ID,
		Players:         s.players,
		Board:           s.board.Cells(),
		LastMove:        s.board.LastMove(),
		CurrentTurn:     s.currentTurn,
		Moves:           append([]Move(nil), s.moves...),
		Result:          s.result,
		Winner:          s.winner,
		StartedAt:       s.StartedAt,
		EndedAt:         s.endedAt,
		DurationSeconds: s.durationSeconds,
		IsBotGame:       s.IsBotGame,
	}
	if s.disconnected != nil {
		d := *s.disconnected
		snap.Disconnected = &d
	}
	return snap
}

// Snapshot copies the current state of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Result returns the current result.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// stopForfeitTimerLocked disarms the forfeit timer. Bumping the generation
// turns a callback that already fired and waits for the lock into a no-op.
func (s *Session) stopForfeitTimerLocked() {
	if s.forfeitTimer != nil {
		s.forfeitTimer.Stop()
		s.forfeitTimer = nil
	}
	s.timerGen++
	s.disconnected = nil
}

// endLocked moves the session to a terminal result. It returns false when
// the session was already finalized.
func (s *Session) endLocked(result Result, winner string, now time.Time) bool {
	if s.finalized {
		return false
	}
	s.stopForfeitTimerLocked()
	s.result = result
	s.winner = winner
	s.endedAt = now
	s.durationSeconds = int(now.Sub(s.StartedAt).Seconds())
	s.finalized = true
	return true
}

package matchmaking

import (
	game_constants "Fourline/constants/game"
	"Fourline/models"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Listener receives the queue's events. Callbacks run outside the queue lock
// and may call back into the queue.
type Listener interface {
	// Matched is emitted when second pairs with the earliest waiting player.
	Matched(first, second models.Participant)
	// TimedOut is emitted when a player waited the whole window unpaired.
	TimedOut(player models.Participant)
	// Countdown is emitted once per tick with the whole seconds left. It
	// must not leave or pair its own entry.
	Countdown(player models.Participant, remaining int)
}

// JoinResult tells the caller whether the player was paired right away.
// Token identifies the queue entry when Matched is false.
type JoinResult struct {
	Matched bool   `json:"matched"`
	Token   string `json:"token,omitempty"`
}

type entry struct {
	token    string
	player   models.Participant
	deadline time.Time
	timer    *time.Timer
	stopTick chan struct{}
	tickMu   sync.Mutex // held while a countdown is emitted
}

// cancel stops the countdown and the tick of an entry. Safe to call twice.
// Once it returns no countdown is emitted for the entry. Must be called
// without q.mu held.
func (e *entry) cancel() {
	e.timer.Stop()
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	select {
	case <-e.stopTick:
	default:
		close(e.stopTick)
	}
}

// Queue pairs waiting players in arrival order and signals a timeout for
// whoever waits longer than the configured window.
type Queue struct {
	mu       sync.Mutex
	entries  []*entry
	wait     time.Duration
	tick     time.Duration
	listener Listener
}

// NewQueue creates a queue. A zero wait uses QUEUE_WAIT_TIMEOUT, a zero tick
// disables countdown events.
func NewQueue(wait, tick time.Duration, listener Listener) *Queue {
	if wait <= 0 {
		wait = game_constants.QUEUE_WAIT_TIMEOUT
	}
	return &Queue{
		wait:     wait,
		tick:     tick,
		listener: listener,
	}
}

// Wait returns the configured wait window.
func (q *Queue) Wait() time.Duration {
	return q.wait
}

// Join pairs the player with the earliest waiting entry, or enqueues it.
// Joining twice keeps the original entry.
func (q *Queue) Join(player models.Participant) JoinResult {
	q.mu.Lock()
	for _, e := range q.entries {
		if e.player.ID == player.ID {
			q.mu.Unlock()
			return JoinResult{Matched: false, Token: e.token}
		}
	}
	if len(q.entries) > 0 {
		first := q.entries[0]
		q.entries = q.entries[1:]
		q.mu.Unlock()
		first.cancel()

		log.Printf("[QUEUE] Paired %s with %s", first.player.Username, player.Username)
		if q.listener != nil {
			q.listener.Matched(first.player, player)
		}
		return JoinResult{Matched: true}
	}

	e := &entry{
		token:    uuid.NewString(),
		player:   player,
		deadline: time.Now().Add(q.wait),
		stopTick: make(chan struct{}),
	}
	token := e.token
	e.timer = time.AfterFunc(q.wait, func() { q.expire(token) })
	q.entries = append(q.entries, e)
	q.mu.Unlock()

	if q.tick > 0 {
		go q.runTicker(e)
	}

	log.Printf("[QUEUE] %s waiting for an opponent (token %s)", player.Username, token)
	return JoinResult{Matched: false, Token: token}
}

// Leave removes the player's entry if present. Leaving when absent is a
// no-op that reports false.
func (q *Queue) Leave(participantID string) bool {
	q.mu.Lock()
	for i, e := range q.entries {
		if e.player.ID == participantID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			q.mu.Unlock()
			e.cancel()
			log.Printf("[QUEUE] %s left the queue", e.player.Username)
			return true
		}
	}
	q.mu.Unlock()
	return false
}

// Contains reports whether the participant is currently waiting.
func (q *Queue) Contains(participantID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, e := range q.entries {
		if e.player.ID == participantID {
			return true
		}
	}
	return false
}

// Size returns the number of waiting entries.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

func (q *Queue) expire(token string) {
	q.mu.Lock()
	idx := q.indexOf(token)
	if idx == -1 {
		// paired or left before the timer fired
		q.mu.Unlock()
		return
	}
	e := q.entries[idx]
	q.entries = append(q.entries[:idx], q.entries[idx+1:]...)
	q.mu.Unlock()
	e.cancel()

	log.Printf("[QUEUE-TIMEOUT] No opponent found for %s after %v", e.player.Username, q.wait)
	if q.listener != nil {
		q.listener.TimedOut(e.player)
	}
}

func (q *Queue) runTicker(e *entry) {
	ticker := time.NewTicker(q.tick)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopTick:
			return
		case now := <-ticker.C:
			if !q.emitCountdown(e, now) {
				return
			}
		}
	}
}

// emitCountdown reports false once the entry was paired, left or expired.
func (q *Queue) emitCountdown(e *entry, now time.Time) bool {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	// cancel closes stopTick under tickMu, so the entry is still waiting here
	select {
	case <-e.stopTick:
		return false
	default:
	}

	remaining := int(math.Ceil(e.deadline.Sub(now).Seconds()))
	if remaining > 0 && q.listener != nil {
		q.listener.Countdown(e.player, remaining)
	}
	return true
}

// indexOf must be called with q.mu held.
func (q *Queue) indexOf(token string) int {
	for i, e := range q.entries {
		if e.token == token {
			return i
		}
	}
	return -1
}

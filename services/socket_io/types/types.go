package socketio_types

import (
	"Fourline/config"
	"Fourline/middleware"
	"Fourline/models"
	"Fourline/models/postgres"
	redis_models "Fourline/models/redis"
	"Fourline/services/matchmaking"
	"Fourline/services/session"
	"context"
	"log"
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// PlayerStore is the part of the store the socket handlers need
type PlayerStore interface {
	FindOrCreateParticipant(ctx context.Context, username string) (postgres.Player, error)
}

// PresenceStore is the part of the redis client the socket handlers need
type PresenceStore interface {
	SavePresence(presence *redis_models.PlayerPresence) error
	DeletePresence(playerID string) error
	CacheLeaderboard(limit int, standings []models.Standing) error
	InvalidateLeaderboard() error
}

// RematchRequest is a pending rematch offer, keyed by the invited player
type RematchRequest struct {
	FromID       string
	FromUsername string
}

// SocketServer is a struct that contains the socket.io server, the game
// services and a map of socket connections.
type SocketServer struct {
	Sio_server *socket.Server
	// Map to track player id -> socket connections
	UserConnections map[string]models.Handle
	mutex           sync.RWMutex

	Games    *session.Manager
	Queue    *matchmaking.Queue
	Store    PlayerStore
	Presence PresenceStore // optional
	Settings config.GameSettings

	rematchMutex     sync.Mutex
	pendingRematches map[string]RematchRequest
}

func NewSocketServer(settings config.GameSettings, store PlayerStore, presence PresenceStore) *SocketServer {
	return &SocketServer{
		UserConnections:  make(map[string]models.Handle),
		Store:            store,
		Presence:         presence,
		Settings:         settings,
		pendingRematches: make(map[string]RematchRequest),
	}
}

// Add methods to manage connections
func (s *SocketServer) AddConnection(playerID string, handle models.Handle) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.UserConnections[playerID] = handle
}

// RemoveConnection drops the entry only if it still points to handle, so a
// stale socket closing after a reconnect keeps the new one.
func (s *SocketServer) RemoveConnection(playerID string, handle models.Handle) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	current, exists := s.UserConnections[playerID]
	if !exists || current != handle {
		return false
	}
	delete(s.UserConnections, playerID)
	return true
}

func (s *SocketServer) GetConnection(playerID string) (models.Handle, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	handle, exists := s.UserConnections[playerID]
	return handle, exists
}

// EmitTo sends an event to a connected player. Bots and disconnected
// players are skipped.
func (s *SocketServer) EmitTo(playerID string, ev string, args ...any) {
	handle, exists := s.GetConnection(playerID)
	if !exists || handle == nil {
		return
	}
	if err := handle.Emit(ev, args...); err != nil {
		log.Printf("[EMIT-ERROR] %s to %s: %v", ev, playerID, err)
	}
}

// Broadcast sends an event to every connected socket
func (s *SocketServer) Broadcast(ev string, args ...any) {
	if s.Sio_server != nil {
		s.Sio_server.Emit(ev, args...)
		return
	}

	s.mutex.RLock()
	handles := make([]models.Handle, 0, len(s.UserConnections))
	for _, h := range s.UserConnections {
		handles = append(handles, h)
	}
	s.mutex.RUnlock()
	for _, h := range handles {
		h.Emit(ev, args...)
	}
}

func (s *SocketServer) SetRematch(invitedID string, req RematchRequest) {
	s.rematchMutex.Lock()
	defer s.rematchMutex.Unlock()
	s.pendingRematches[invitedID] = req
}

// TakeRematch removes and returns the offer addressed to invitedID
func (s *SocketServer) TakeRematch(invitedID string) (RematchRequest, bool) {
	s.rematchMutex.Lock()
	defer s.rematchMutex.Unlock()
	req, ok := s.pendingRematches[invitedID]
	if ok {
		delete(s.pendingRematches, invitedID)
	}
	return req, ok
}

// ClearRematches drops every offer sent to or by playerID
func (s *SocketServer) ClearRematches(playerID string) {
	s.rematchMutex.Lock()
	defer s.rematchMutex.Unlock()
	delete(s.pendingRematches, playerID)
	for invited, req := range s.pendingRematches {
		if req.FromID == playerID {
			delete(s.pendingRematches, invited)
		}
	}
}

// UpdatePresence records the player state in redis, if configured
func (s *SocketServer) UpdatePresence(p models.Participant, status redis_models.PlayerStatus, gameID string) {
	if s.Presence == nil || p.IsBot {
		return
	}
	presence := &redis_models.PlayerPresence{
		PlayerID: p.ID,
		Username: p.Username,
		Status:   status,
		GameID:   gameID,
	}
	if err := s.Presence.SavePresence(presence); err != nil {
		log.Printf("[PRESENCE-ERROR] Could not save presence of %s: %v", p.Username, err)
	}
}

// Connection is the per-socket state. The player is bound by the first
// successful join.
type Connection struct {
	SocketID string
	Client   models.Handle
	Claims   *middleware.PlayerClaims // nil for anonymous handshakes

	mutex  sync.RWMutex
	player *models.Participant
}

func NewConnection(socketID string, client models.Handle, claims *middleware.PlayerClaims) *Connection {
	return &Connection{SocketID: socketID, Client: client, Claims: claims}
}

func (c *Connection) Bind(p models.Participant) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	p.Handle = c.Client
	c.player = &p
}

// Player returns the bound participant, with its handle set to this socket
func (c *Connection) Player() (models.Participant, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	if c.player == nil {
		return models.Participant{}, false
	}
	return *c.player, true
}

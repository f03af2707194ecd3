package store

import (
	game_constants "Fourline/constants/game"
	"Fourline/models"
	"Fourline/models/postgres"
	"Fourline/services/session"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrEmptyUsername  = errors.New("username required")
	ErrPlayerNotFound = errors.New("player not found")
	ErrGameNotFound   = errors.New("game not found")
)

// Store is the postgres side of the server: registered players and the
// records of finished games.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Ping checks the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("error getting underlying SQL DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// FindOrCreateParticipant returns the player registered with username,
// creating it on first sight.
func (s *Store) FindOrCreateParticipant(ctx context.Context, username string) (postgres.Player, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return postgres.Player{}, ErrEmptyUsername
	}

	var player postgres.Player
	err := s.db.WithContext(ctx).
		Where(postgres.Player{Username: username}).
		Attrs(postgres.Player{ID: uuid.NewString()}).
		FirstOrCreate(&player).Error
	if err != nil {
		return postgres.Player{}, fmt.Errorf("error finding or creating player %s: %w", username, err)
	}
	return player, nil
}

func (s *Store) PlayerByID(ctx context.Context, id string) (postgres.Player, error) {
	var player postgres.Player
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return postgres.Player{}, ErrPlayerNotFound
	}
	if err != nil {
		return postgres.Player{}, fmt.Errorf("error getting player %s: %w", id, err)
	}
	return player, nil
}

// CreateCompletedGameRecord stores a finished game.
func (s *Store) CreateCompletedGameRecord(ctx context.Context, snap session.Snapshot) error {
	game, err := gameFromSnapshot(snap)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(&game).Error; err != nil {
		return fmt.Errorf("error creating game record %s: %w", snap.ID, err)
	}
	return nil
}

// IncrementWinCount adds one win to a registered player.
func (s *Store) IncrementWinCount(ctx context.Context, participantID string) error {
	res := s.db.WithContext(ctx).
		Model(&postgres.Player{}).
		Where("id = ?", participantID).
		UpdateColumn("wins", gorm.Expr("wins + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("error incrementing wins of %s: %w", participantID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, participantID)
	}
	return nil
}

// TopPlayers returns the players with the most wins. A non-positive limit
// falls back to LEADERBOARD_SIZE.
func (s *Store) TopPlayers(ctx context.Context, limit int) ([]models.Standing, error) {
	if limit <= 0 {
		limit = game_constants.LEADERBOARD_SIZE
	}
	if limit > game_constants.MAX_LEADERBOARD_SIZE {
		limit = game_constants.MAX_LEADERBOARD_SIZE
	}

	var players []postgres.Player
	err := s.db.WithContext(ctx).
		Order("wins DESC").
		Order("username ASC").
		Limit(limit).
		Find(&players).Error
	if err != nil {
		return nil, fmt.Errorf("error getting leaderboard: %w", err)
	}

	standings := make([]models.Standing, 0, len(players))
	for _, p := range players {
		standings = append(standings, models.Standing{ID: p.ID, Username: p.Username, Wins: p.Wins})
	}
	return standings, nil
}

// RecentGames returns the last finished games, newest first.
func (s *Store) RecentGames(ctx context.Context, limit int) ([]postgres.Game, error) {
	if limit <= 0 || limit > game_constants.RECENT_GAMES_LIMIT {
		limit = game_constants.RECENT_GAMES_LIMIT
	}

	var games []postgres.Game
	err := s.db.WithContext(ctx).
		Where("result IN ?", []string{
			string(session.ResultWin),
			string(session.ResultDraw),
			string(session.ResultForfeit),
		}).
		Order("ended_at DESC").
		Limit(limit).
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("error getting games: %w", err)
	}
	return games, nil
}

func (s *Store) GameByID(ctx context.Context, id string) (postgres.Game, error) {
	var game postgres.Game
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return postgres.Game{}, ErrGameNotFound
	}
	if err != nil {
		return postgres.Game{}, fmt.Errorf("error getting game %s: %w", id, err)
	}
	return game, nil
}

func gameFromSnapshot(snap session.Snapshot) (postgres.Game, error) {
	players := make([]postgres.GamePlayer, 0, len(snap.Players))
	for i, p := range snap.Players {
		players = append(players, postgres.GamePlayer{ID: p.ID, Username: p.Username, Slot: i + 1, IsBot: p.IsBot})
	}

	playersJSON, err := json.Marshal(players)
	if err != nil {
		return postgres.Game{}, fmt.Errorf("error marshaling players: %w", err)
	}
	movesJSON, err := json.Marshal(snap.Moves)
	if err != nil {
		return postgres.Game{}, fmt.Errorf("error marshaling moves: %w", err)
	}
	boardJSON, err := json.Marshal(snap.Board)
	if err != nil {
		return postgres.Game{}, fmt.Errorf("error marshaling board: %w", err)
	}

	var winner *string
	if snap.Winner != "" {
		w := snap.Winner
		winner = &w
	}

	return postgres.Game{
		ID:              snap.ID,
		Players:         datatypes.JSON(playersJSON),
		Player1ID:       snap.Players[0].ID,
		Player2ID:       snap.Players[1].ID,
		WinnerID:        winner,
		Result:          string(snap.Result),
		IsBotGame:       snap.IsBotGame,
		Moves:           datatypes.JSON(movesJSON),
		Board:           datatypes.JSON(boardJSON),
		StartedAt:       snap.StartedAt,
		EndedAt:         snap.EndedAt,
		DurationSeconds: snap.DurationSeconds,
	}, nil
}

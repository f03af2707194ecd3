package store

import (
	"Fourline/models"
	"Fourline/services/connect4"
	"Fourline/services/session"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return New(db), mock
}

func TestFindOrCreateParticipantExisting(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "players" WHERE "players"."username" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "wins", "created_at"}).
			AddRow("id-alice", "alice", 3, time.Now()))

	player, err := s.FindOrCreateParticipant(context.Background(), "  alice ")
	require.NoError(t, err)
	assert.Equal(t, "id-alice", player.ID)
	assert.Equal(t, 3, player.Wins)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreateParticipantNew(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "players" WHERE "players"."username" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "wins", "created_at"}))
	mock.ExpectExec(`INSERT INTO "players"`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	player, err := s.FindOrCreateParticipant(context.Background(), "bob")
	require.NoError(t, err)
	assert.NotEmpty(t, player.ID)
	assert.Equal(t, "bob", player.Username)
	assert.Zero(t, player.Wins)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreateParticipantEmptyUsername(t *testing.T) {
	s, mock := newMockStore(t)

	_, err := s.FindOrCreateParticipant(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyUsername)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCompletedGameRecord(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO "games"`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	start := time.Now().Add(-time.Minute)
	snap := session.Snapshot{
		ID: "game-1",
		Players: [2]models.Participant{
			{ID: "p1", Username: "alice"},
			{ID: "bot-1", Username: "BOT", IsBot: true},
		},
		Board:           connect4.NewBoard(6, 7).Cells(),
		Moves:           []session.Move{{PlayerID: "p1", Col: 3, Row: 5, At: start}},
		Result:          session.ResultWin,
		Winner:          "p1",
		StartedAt:       start,
		EndedAt:         start.Add(time.Minute),
		DurationSeconds: 60,
		IsBotGame:       true,
	}

	require.NoError(t, s.CreateCompletedGameRecord(context.Background(), snap))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameFromSnapshot(t *testing.T) {
	snap := session.Snapshot{
		ID: "game-2",
		Players: [2]models.Participant{
			{ID: "p1", Username: "alice"},
			{ID: "p2", Username: "bob"},
		},
		Board:  connect4.NewBoard(2, 2).Cells(),
		Result: session.ResultDraw,
	}

	game, err := gameFromSnapshot(snap)
	require.NoError(t, err)
	assert.Equal(t, "p1", game.Player1ID)
	assert.Equal(t, "p2", game.Player2ID)
	assert.Nil(t, game.WinnerID)
	assert.Equal(t, "draw", game.Result)

	var players []map[string]interface{}
	require.NoError(t, json.Unmarshal(game.Players, &players))
	require.Len(t, players, 2)
	assert.Equal(t, "bob", players[1]["username"])
	assert.Equal(t, float64(2), players[1]["slot"])
	assert.JSONEq(t, `[[0,0],[0,0]]`, string(game.Board))
}

func TestIncrementWinCount(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE "players" SET "wins"=wins \+ \$1 WHERE id = \$2`).
		WithArgs(1, "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.IncrementWinCount(context.Background(), "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementWinCountUnknownPlayer(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE "players"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.IncrementWinCount(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopPlayers(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "players" ORDER BY wins DESC,username ASC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "wins", "created_at"}).
			AddRow("p1", "alice", 7, time.Now()).
			AddRow("p2", "bob", 2, time.Now()))

	top, err := s.TopPlayers(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []models.Standing{
		{ID: "p1", Username: "alice", Wins: 7},
		{ID: "p2", Username: "bob", Wins: 2},
	}, top)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopPlayersError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "players"`).
		WillReturnError(errors.New("connection reset"))

	_, err := s.TopPlayers(context.Background(), 5)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentGames(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "games" WHERE result IN \(\$1,\$2,\$3\) ORDER BY ended_at DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "result", "player1_id", "player2_id"}).
			AddRow("g2", "win", "p1", "p2").
			AddRow("g1", "draw", "p1", "p3"))

	games, err := s.RecentGames(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "g2", games[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameByIDNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "games" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GameByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlayerByID(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "players" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "wins"}).AddRow("p1", "alice", 4))

	player, err := s.PlayerByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "alice", player.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package redis

import (
	game_constants "Fourline/constants/game"
	"Fourline/models"
	redis_models "Fourline/models/redis"
	redis_utils "Fourline/services/redis/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance. Addr is either a
// redis:// (rediss://) URL or a plain host:port.
func NewRedisClient(Addr string, DB int) (*RedisClient, error) {
	var client *redis.Client
	if strings.HasPrefix(Addr, "redis://") || strings.HasPrefix(Addr, "rediss://") {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			return nil, fmt.Errorf("error parsing Redis URL: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}, nil
}

// Ping checks the connection, used by the health endpoint
func (rc *RedisClient) Ping(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// SavePresence stores the state of a player
// Key format: "player:{id}:presence"
// TTL: PRESENCE_TTL
func (rc *RedisClient) SavePresence(presence *redis_models.PlayerPresence) error {
	key := redis_utils.FormatPresenceKey(presence.PlayerID)
	if presence.LastPing == 0 {
		presence.LastPing = time.Now().Unix()
	}
	data, err := json.Marshal(presence)
	if err != nil {
		return fmt.Errorf("error marshaling presence data: %w", err)
	}
	return rc.client.Set(rc.ctx, key, data, game_constants.PRESENCE_TTL).Err()
}

// GetPresence retrieves the state of a player.
// Returns nil, nil when the player was never seen (or expired)
func (rc *RedisClient) GetPresence(playerID string) (*redis_models.PlayerPresence, error) {
	key := redis_utils.FormatPresenceKey(playerID)
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting presence data: %w", err)
	}

	var presence redis_models.PlayerPresence
	if err := json.Unmarshal(data, &presence); err != nil {
		return nil, fmt.Errorf("error unmarshaling presence data: %w", err)
	}
	return &presence, nil
}

// DeletePresence removes the state of a player
func (rc *RedisClient) DeletePresence(playerID string) error {
	key := redis_utils.FormatPresenceKey(playerID)
	if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
		return fmt.Errorf("error deleting presence data: %w", err)
	}
	return nil
}

// CacheLeaderboard stores the top `limit` standings
// Key format: "leaderboard:top:{limit}"
// TTL: LEADERBOARD_CACHE_TTL
func (rc *RedisClient) CacheLeaderboard(limit int, standings []models.Standing) error {
	data, err := json.Marshal(standings)
	if err != nil {
		return fmt.Errorf("error marshaling leaderboard: %w", err)
	}
	key := redis_utils.FormatLeaderboardKey(limit)
	if err := rc.client.Set(rc.ctx, key, data, game_constants.LEADERBOARD_CACHE_TTL).Err(); err != nil {
		return fmt.Errorf("error caching leaderboard: %w", err)
	}
	return nil
}

// GetCachedLeaderboard returns nil, nil on a cache miss
func (rc *RedisClient) GetCachedLeaderboard(limit int) ([]models.Standing, error) {
	key := redis_utils.FormatLeaderboardKey(limit)
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting cached leaderboard: %w", err)
	}

	var standings []models.Standing
	if err := json.Unmarshal(data, &standings); err != nil {
		return nil, fmt.Errorf("error unmarshaling cached leaderboard: %w", err)
	}
	return standings, nil
}

// InvalidateLeaderboard drops every cached leaderboard size
func (rc *RedisClient) InvalidateLeaderboard() error {
	var keys []string
	iter := rc.client.Scan(rc.ctx, 0, redis_utils.LeaderboardKeyPattern, 100).Iterator()
	for iter.Next(rc.ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("error scanning leaderboard keys: %w", err)
	}
	return rc.CleanupKeys(keys)
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %w", key, err)
		}
	}
	return nil
}

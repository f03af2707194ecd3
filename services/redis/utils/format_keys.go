package utils

/**
 * This file contains utility functions to format the keys for Redis
 * (key, value) pairs. It avoids having to call "fmt.Sprintf(...)"
 * with the same format spec every time, potentially confusing the key format.
 */

import "fmt"

const LeaderboardKeyPattern = "leaderboard:top:*"

func FormatPresenceKey(playerID string) string {
	return fmt.Sprintf("player:%s:presence", playerID)
}

func FormatLeaderboardKey(limit int) string {
	return fmt.Sprintf("leaderboard:top:%d", limit)
}

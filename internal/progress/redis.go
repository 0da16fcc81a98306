package progress

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "skillsync:leaderboard:points"

// RedisLeaderboard mirrors leaderboard totals into a Redis sorted set so
// rank queries skip the SQL aggregation. It is optional: a nil mirror is a
// valid zero value and every method on it is a no-op, so callers never need
// to branch on whether Redis is configured.
type RedisLeaderboard struct {
	client *redis.Client
}

func NewRedisLeaderboard(client *redis.Client) *RedisLeaderboard {
	return &RedisLeaderboard{client: client}
}

// AddPoints increments the user's mirrored total.
func (r *RedisLeaderboard) AddPoints(ctx context.Context, userID string, points int) error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.ZIncrBy(ctx, leaderboardKey, float64(points), userID).Err()
}

// Top returns the mirrored leaderboard, highest totals first.
func (r *RedisLeaderboard) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if r == nil || r.client == nil {
		return nil, nil
	}
	results, err := r.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard zrevrange: %w", err)
	}
	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = LeaderboardEntry{
			UserID:      z.Member.(string),
			TotalPoints: int(z.Score),
			Rank:        i + 1,
		}
	}
	return entries, nil
}

// Rank returns the user's 1-indexed rank, 0 if not on the board.
func (r *RedisLeaderboard) Rank(ctx context.Context, userID string) (int, error) {
	if r == nil || r.client == nil {
		return 0, nil
	}
	rank, err := r.client.ZRevRank(ctx, leaderboardKey, userID).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int(rank) + 1, nil
}

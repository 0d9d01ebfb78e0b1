// Package cache keeps the computed leaderboard in Redis between hour-changing writes.
package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/AERESAL/VolunteerHub-Backend/internal/domain"
)

const (
	leaderboardKey           = "volunteerhub:leaderboard"
	leaderboardGenerationKey = "volunteerhub:leaderboard:generation"
)

// setIfCurrent writes KEYS[2] only while KEYS[1] still holds the caller's generation.
// ARGV: generation, payload, ttl in milliseconds (0 keeps the key until deleted).
var setIfCurrent = redis.NewScript(`
local current = redis.call("GET", KEYS[1]) or "0"
if current ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
else
	redis.call("SET", KEYS[2], ARGV[2])
end
return 1
`)

// Connect parses url, opens a client and pings it.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Error().Err(err).Msg("cache: redis: failed to parse redis url")
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("cache: redis: failed to ping")
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// RedisLeaderboard implements domain.LeaderboardCache on a payload key and a generation counter.
type RedisLeaderboard struct {
	client        redis.Cmdable
	key           string
	generationKey string
	ttl           time.Duration
}

// NewRedisLeaderboard constructs a RedisLeaderboard. A zero ttl keeps entries until invalidated.
func NewRedisLeaderboard(client redis.Cmdable, ttl time.Duration) *RedisLeaderboard {
	return &RedisLeaderboard{
		client:        client,
		key:           leaderboardKey,
		generationKey: leaderboardGenerationKey,
		ttl:           ttl,
	}
}

// Generation implements domain.LeaderboardCache. A missing counter is generation zero.
func (c *RedisLeaderboard) Generation(ctx context.Context) (int64, error) {
	generation, err := c.client.Get(ctx, c.generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}

// Get implements domain.LeaderboardCache.
func (c *RedisLeaderboard) Get(ctx context.Context) ([]domain.LeaderboardEntry, bool, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

// Set implements domain.LeaderboardCache.
func (c *RedisLeaderboard) Set(ctx context.Context, generation int64, entries []domain.LeaderboardEntry) error {
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	stored, err := setIfCurrent.Run(ctx, c.client,
		[]string{c.generationKey, c.key},
		strconv.FormatInt(generation, 10), raw, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return err
	}
	if stored == 0 {
		log.Debug().Int64("generation", generation).Msg("cache: redis: stale leaderboard dropped")
	}
	return nil
}

// Invalidate implements domain.LeaderboardCache. It starts a new generation and drops the payload.
func (c *RedisLeaderboard) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.generationKey)
		pipe.Del(ctx, c.key)
		return nil
	})
	return err
}

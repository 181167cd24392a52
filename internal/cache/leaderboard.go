package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/studyhall/studyhall-backend/internal/logger"
	"github.com/studyhall/studyhall-backend/internal/types"
)

// LeaderboardCache is a read-through cache in front of the snapshot table.
// Entries carry a TTL longer than the rebuild period so a missed rebuild
// degrades to store reads instead of serving stale boards forever.
type LeaderboardCache interface {
	Set(ctx context.Context, snapshot *types.LeaderboardSnapshot) error
	Get(ctx context.Context, scope string) (*types.LeaderboardSnapshot, error)
	Close() error
}

const (
	leaderboardKeyPrefix = "leaderboard:"
	leaderboardTTL       = time.Hour
)

type redisLeaderboardCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

// NewRedisLeaderboardCache connects to redis at addr. The caller decides
// whether a connection failure is fatal; the services tolerate a nil cache.
func NewRedisLeaderboardCache(log *logger.Logger, addr string) (LeaderboardCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisLeaderboardCache{
		log: log.With("service", "RedisLeaderboardCache"),
		rdb: rdb,
	}, nil
}

func (c *redisLeaderboardCache) Set(ctx context.Context, snapshot *types.LeaderboardSnapshot) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("leaderboard cache not initialized")
	}
	if snapshot == nil {
		return nil
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return c.rdb.Set(ctx, leaderboardKeyPrefix+snapshot.Scope, raw, leaderboardTTL).Err()
}

func (c *redisLeaderboardCache) Get(ctx context.Context, scope string) (*types.LeaderboardSnapshot, error) {
	if c == nil || c.rdb == nil {
		return nil, fmt.Errorf("leaderboard cache not initialized")
	}
	raw, err := c.rdb.Get(ctx, leaderboardKeyPrefix+scope).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var snapshot types.LeaderboardSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snapshot, nil
}

func (c *redisLeaderboardCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

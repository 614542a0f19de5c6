// Package redissvc wraps the shared Redis client used for ingest
// deduplication and rate-limit ban bookkeeping.
package redissvc

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisService struct {
	rdb *redis.Client
	ctx context.Context
}

func NewRedisService(rdb *redis.Client, ctx context.Context) *RedisService {
	return &RedisService{
		rdb: rdb,
		ctx: ctx,
	}
}

func (s *RedisService) Rdb() *redis.Client {
	return s.rdb
}

func (s *RedisService) Ctx() context.Context {
	return s.ctx
}

// MarkSeen records a (channel, telegram message id) pair and reports whether
// it was new. Already-seen messages return false so the poller can skip them.
func (s *RedisService) MarkSeen(channel string, telegramID int64, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("ingest:seen:%s:%d", channel, telegramID)
	return s.rdb.SetNX(s.ctx, key, 1, ttl).Result()
}

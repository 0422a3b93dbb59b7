package throttle

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type redisLimiter struct {
	rdb    goredis.Cmdable
	prefix string
	limit  int
	window time.Duration
}

// NewRedis shares counters between API replicas. limit <= 0 disables limiting.
func NewRedis(rdb goredis.Cmdable, prefix string, limit int, window time.Duration) Limiter {
	if prefix == "" {
		prefix = "throttle"
	}
	return &redisLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

func (r *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if r.limit <= 0 {
		return true, nil
	}
	k := r.prefix + ":" + key
	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("throttle incr: %w", err)
	}
	return incr.Val() <= int64(r.limit), nil
}

// Dial connects to addr and verifies the connection with PING.
func Dial(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

package cache

import (
	"context"
	"fmt"
	"time"

	"loan-origination/internal/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

// RedisOptions is the subset of client settings the service exposes.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// PingTimeout bounds the startup check; zero means 5s.
	PingTimeout time.Duration
}

// OpenRedis returns a client that answered PING. One client backs both the
// idempotency keys and the read-model cache, under different prefixes.
func OpenRedis(ctx context.Context, o RedisOptions) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{
		Addr:         o.Addr,
		Password:     o.Password,
		DB:           o.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	timeout := o.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := r.Ping(pingCtx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("redis ping %s: %w", o.Addr, err)
	}
	logger.Info(ctx, "redis: connected (%s db=%d)", o.Addr, o.DB)
	return r, nil
}

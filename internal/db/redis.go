package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bgbarbearia/barbershop-admin/internal/config"
)

// NewRedisClient connects to the Redis instance holding admin sessions, settings
// and rate-limit counters.
func NewRedisClient(c config.RedisConfig) (*redis.Client, error) {
	dialTimeout := c.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        c.Addr,
		Password:    c.Password,
		DB:          c.DB,
		DialTimeout: dialTimeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return rdb, nil
}

package health

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const checkTimeout = 2 * time.Second

// Pinger is anything that can report its own liveness
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabaseChecker returns a health check function for the PostgreSQL pool
func DatabaseChecker(pool *pgxpool.Pool) func() error {
	if pool == nil {
		return PingChecker(nil, "database connection is nil")
	}
	return PingChecker(pool, "")
}

// PingChecker returns a health check function that pings p with a timeout
func PingChecker(p Pinger, nilMessage string) func() error {
	return func() error {
		if p == nil {
			return errors.New(nilMessage)
		}
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()
		return p.Ping(ctx)
	}
}

// RedisChecker returns a health check function for Redis
func RedisChecker(client redis.UniversalClient) func() error {
	return func() error {
		if client == nil {
			return errors.New("redis client is nil")
		}
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()
		return client.Ping(ctx).Err()
	}
}

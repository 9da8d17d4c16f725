package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// The denylist is consulted on every authenticated request, so the
// client is tuned for fast failure: a slow Redis should trip the
// middleware's fail-open path, not stall the hot path.
const (
	defaultPingTimeout = 3 * time.Second
	dialTimeout        = 2 * time.Second
	readTimeout        = 500 * time.Millisecond
	writeTimeout       = 500 * time.Millisecond
)

// Config captures the settings for the Redis connection backing the
// token revocation denylist.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises the denylist client and validates connectivity
// with a ping. cfg.Timeout bounds the ping only; command timeouts are
// fixed short so revocation checks never dominate request latency.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

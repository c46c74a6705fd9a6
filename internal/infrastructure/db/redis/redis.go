package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTimeout    = 5 * time.Second
	defaultClientName = "ponto-api"
)

// Config captures the settings for the shared entry cache connection.
type Config struct {
	Addr     string
	Password string
	DB       int
	// ClientName is reported by CLIENT LIST; defaults to ponto-api.
	ClientName string
	// PoolSize caps open connections; zero keeps the go-redis default.
	PoolSize int
	Timeout  time.Duration
}

func (cfg Config) options() *redis.Options {
	name := cfg.ClientName
	if name == "" {
		name = defaultClientName
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ClientName:   name,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
}

// Connect opens the client and pings it before handing it to the entry cache.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts := cfg.options()
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return client, nil
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nikbrunner/linkbox/internal/config"
	"github.com/nikbrunner/linkbox/internal/logger"
)

// RedisBackend implements Backend on top of a Redis server.
// Each key is stored as a plain string under KeyPrefix.
type RedisBackend struct {
	client    *redis.Client
	prefix    string
	opTimeout time.Duration
}

// NewRedisBackend connects to Redis, retrying with exponential backoff until
// cfg.ConnectTimeout elapses.
func NewRedisBackend(cfg config.Redis, log logger.Logger) (*RedisBackend, error) {
	if cfg.ConnectTimeout <= 0 {
		return nil, fmt.Errorf("redis connectTimeout must be > 0, got %v", cfg.ConnectTimeout)
	}
	if cfg.RetryInterval <= 0 {
		return nil, fmt.Errorf("redis retryInterval must be > 0, got %v", cfg.RetryInterval)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.OpTimeout,
		WriteTimeout: cfg.OpTimeout,
	})

	if err := connectWithRetry(client, cfg, log); err != nil {
		_ = client.Close()
		return nil, err
	}

	opTimeout := cfg.OpTimeout
	if opTimeout <= 0 {
		opTimeout = 3 * time.Second
	}

	return &RedisBackend{client: client, prefix: cfg.KeyPrefix, opTimeout: opTimeout}, nil
}

// NewRedisBackendFromClient wraps an already connected client.
func NewRedisBackendFromClient(client *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix, opTimeout: 3 * time.Second}
}

func connectWithRetry(client *redis.Client, cfg config.Redis, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	attempt := 0
	wait := cfg.RetryInterval
	maxWait := 8 * cfg.RetryInterval

	for {
		attempt++

		err := client.Ping(ctx).Err()
		if err == nil {
			if attempt > 1 {
				log.Warn("connected to redis after retry",
					logger.String("addr", cfg.Addr),
					logger.Int("attempts", attempt))
			}
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("redis unavailable at %s after %d attempts: %w", cfg.Addr, attempt, err)
		case <-timer.C:
			log.Warn("redis connection failed, retrying",
				logger.String("addr", cfg.Addr),
				logger.Int("attempt", attempt),
				logger.Error(err))
			wait *= 2
			if wait > maxWait {
				wait = maxWait
			}
		}
	}
}

func (r *RedisBackend) key(key string) string {
	return r.prefix + key
}

// Get reads key; redis.Nil maps to an absent key.
func (r *RedisBackend) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.opTimeout)
	defer cancel()

	value, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key without expiry.
func (r *RedisBackend) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.opTimeout)
	defer cancel()

	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisBackend) Close() error {
	return r.client.Close()
}

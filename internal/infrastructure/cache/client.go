package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// connectTimeout is the timeout for verifying Redis connectivity at startup.
const connectTimeout = 5 * time.Second

// Config contains Redis connection settings.
// These map to the cache section of config.yaml.
type Config struct {
	// Enabled toggles the cache. When false, Connect returns a disabled
	// client whose operations are no-ops and every read misses.
	Enabled bool

	// Address is the Redis server address in "host:port" form.
	Address string

	// Password is the Redis AUTH password (empty for none).
	Password string

	// DB is the Redis logical database number.
	DB int
}

// Client wraps a Redis connection for response caching.
//
// A disabled Client is valid and safe to use: Get always misses and
// Set/Delete do nothing. This keeps call sites free of nil checks.
//
// Thread Safety: all methods are safe for concurrent use.
type Client struct {
	rdb     *redis.Client
	enabled bool
}

// Connect creates a cache client and verifies connectivity with a ping.
//
// When cfg.Enabled is false no connection is made and a disabled client
// is returned.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	if !cfg.Enabled {
		return &Client{}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Address, err)
	}

	return &Client{rdb: rdb, enabled: true}, nil
}

// Enabled reports whether the client is backed by a live Redis connection.
func (c *Client) Enabled() bool {
	return c.enabled
}

// GetJSON fetches a key and unmarshals its JSON value into dest.
// Returns false with no error on a miss (key absent or cache disabled).
func (c *Client) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.enabled {
		return false, nil
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("getting cache key %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decoding cache key %s: %w", key, err)
	}
	return true, nil
}

// SetJSON marshals v to JSON and stores it under key with the given TTL.
func (c *Client) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding cache key %s: %w", key, err)
	}

	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("setting cache key %s: %w", key, err)
	}
	return nil
}

// Delete removes keys from the cache. Missing keys are not an error.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if !c.enabled || len(keys) == 0 {
		return nil
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("deleting cache keys: %w", err)
	}
	return nil
}

// HealthCheck verifies the Redis connection is alive.
// A disabled client is always healthy.
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.enabled {
		return nil
	}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	if !c.enabled {
		return nil
	}
	if err := c.rdb.Close(); err != nil {
		return fmt.Errorf("closing redis connection: %w", err)
	}
	return nil
}

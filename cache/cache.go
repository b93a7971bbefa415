// Package cache is a Redis read-through store for path results.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Client is the subset of the go-redis API the store needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type Store struct {
	client Client
	prefix string
}

func New(client Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// Dial connects to the Redis server at url and pings it.
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return c, nil
}

// Remember decodes the cached value of key into dst. On a miss it runs load,
// which must fill dst, and caches the result for ttl.
func (s *Store) Remember(ctx context.Context, key string, ttl time.Duration, dst any, load func() error) error {
	key = s.prefix + key

	raw, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		return nil
	case !errors.Is(err, redis.Nil):
		return fmt.Errorf("get %s: %w", key, err)
	}

	if err := load(); err != nil {
		return err
	}
	raw, err = json.Marshal(dst)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"stableford/internal/handicap/models"
	id "stableford/pkg/domain"
	"stableford/pkg/platform/sentinel"
)

const (
	keyPrefix  = "handicap:current:"
	DefaultTTL = 10 * time.Minute
)

// RedisCache caches each player's open handicap record. Redis failures trip
// a breaker so a struggling Redis is skipped instead of slowing every read.
type RedisCache struct {
	client  redis.Cmdable
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker
}

type Option func(*RedisCache)

// WithTTL sets the expiry of cached entries.
func WithTTL(ttl time.Duration) Option {
	return func(c *RedisCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func NewRedis(client redis.Cmdable, logger *slog.Logger, opts ...Option) *RedisCache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &RedisCache{client: client, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "handicap-current-cache",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cache circuit breaker state changed",
				"breaker", name,
				"from_state", from.String(),
				"to_state", to.String(),
			)
		},
	})
	return c
}

func (c *RedisCache) Get(ctx context.Context, playerID id.PlayerID) (*models.Record, error) {
	raw, err := c.breaker.Execute(func() (interface{}, error) {
		return c.client.Get(ctx, key(playerID)).Bytes()
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, unavailable(err)
	}
	var rec models.Record
	if err := json.Unmarshal(raw.([]byte), &rec); err != nil {
		return nil, fmt.Errorf("decode cached handicap: %w", err)
	}
	return &rec, nil
}

func (c *RedisCache) Set(ctx context.Context, record *models.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode handicap for cache: %w", err)
	}
	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.client.Set(ctx, key(record.PlayerID), payload, c.ttl).Err()
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, playerID id.PlayerID) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.client.Del(ctx, key(playerID)).Err()
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func key(playerID id.PlayerID) string {
	return keyPrefix + playerID.String()
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
}

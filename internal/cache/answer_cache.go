// Package cache provides a Redis-backed cache for provider answers, so a
// repeated utterance does not pay for a second upstream call.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"alexa-skill-backend/internal/common/config"
)

// AnswerCache wraps the Redis client.
type AnswerCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates an answer cache from configuration.
func New(cfg config.CacheConfig) *AnswerCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	return &AnswerCache{
		client: rdb,
		ttl:    time.Duration(cfg.TTL) * time.Second,
	}
}

// NewWithClient wraps an existing client, used by tests.
func NewWithClient(client *redis.Client, ttl time.Duration) *AnswerCache {
	return &AnswerCache{client: client, ttl: ttl}
}

// Ping tests the Redis connection.
func (c *AnswerCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *AnswerCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Get returns the cached answer for an utterance, if any. Redis errors are
// indistinguishable from misses on purpose: the cache must never fail a call.
func (c *AnswerCache) Get(ctx context.Context, providerName, utterance string) (string, bool) {
	answer, err := c.client.Get(ctx, cacheKey(providerName, utterance)).Result()
	if err != nil {
		return "", false
	}
	return answer, true
}

// Set stores an answer with the configured TTL. Errors are swallowed for the
// same reason as in Get.
func (c *AnswerCache) Set(ctx context.Context, providerName, utterance, answer string) {
	_ = c.client.Set(ctx, cacheKey(providerName, utterance), answer, c.ttl).Err()
}

func cacheKey(providerName, utterance string) string {
	return fmt.Sprintf("answer:%s:%s", providerName, strings.ToLower(strings.TrimSpace(utterance)))
}

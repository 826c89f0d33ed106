package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	model "marketplace/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	ratingKeyPrefix     = "rating:"
	generationKeyPrefix = "rating-gen:"
)

// ErrMiss is returned when a rating summary is not cached
var ErrMiss = errors.New("cache miss")

//go:generate mockgen -destination=mock_rating_cache.go -package=cache marketplace/internal/cache RatingCache

// RatingCache stores approved rating summaries per product.
//
// On a miss Get also returns the product's generation. Invalidate advances
// the generation, and Set only stores a summary whose generation is still
// current, so a summary computed before an invalidation is never cached.
type RatingCache interface {
	Get(ctx context.Context, productID string) (model.RatingSummary, int64, error)
	Set(ctx context.Context, summary model.RatingSummary, generation int64) error
	Invalidate(ctx context.Context, productID string) error
}

// NopRatingCache never caches. Every Get is a miss.
type NopRatingCache struct{}

func (NopRatingCache) Get(context.Context, string) (model.RatingSummary, int64, error) {
	return model.RatingSummary{}, 0, ErrMiss
}
func (NopRatingCache) Set(context.Context, model.RatingSummary, int64) error { return nil }
func (NopRatingCache) Invalidate(context.Context, string) error               { return nil }

// RedisRatingCache implements RatingCache using Redis
type RedisRatingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRatingCache creates a Redis-backed rating cache
func NewRedisRatingCache(client *redis.Client, ttl time.Duration) *RedisRatingCache {
	return &RedisRatingCache{client: client, ttl: ttl}
}

// Get returns the cached summary for productID, or ErrMiss with the
// product's current generation
func (c *RedisRatingCache) Get(ctx context.Context, productID string) (model.RatingSummary, int64, error) {
	values, err := c.client.MGet(ctx, ratingKeyPrefix+productID, generationKeyPrefix+productID).Result()
	if err != nil {
		return model.RatingSummary{}, 0, fmt.Errorf("redis get rating: %w", err)
	}

	raw, ok := values[0].(string)
	if !ok {
		generation, err := parseGeneration(values[1])
		if err != nil {
			return model.RatingSummary{}, 0, err
		}
		return model.RatingSummary{}, generation, ErrMiss
	}

	var summary model.RatingSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return model.RatingSummary{}, 0, fmt.Errorf("unmarshal rating: %w", err)
	}
	return summary, 0, nil
}

// Set caches summary with the configured TTL unless the product was
// invalidated after generation was read
func (c *RedisRatingCache) Set(ctx context.Context, summary model.RatingSummary, generation int64) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal rating: %w", err)
	}

	genKey := generationKeyPrefix + summary.ProductID
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, ratingKeyPrefix+summary.ProductID, data, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil, errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		return nil
	default:
		return fmt.Errorf("redis set rating: %w", err)
	}
}

// Invalidate drops the cached summary for productID and advances its generation
func (c *RedisRatingCache) Invalidate(ctx context.Context, productID string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKeyPrefix+productID)
		pipe.Del(ctx, ratingKeyPrefix+productID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate rating: %w", err)
	}
	return nil
}

var errStaleGeneration = errors.New("rating generation changed")

func parseGeneration(v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	generation, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse rating generation: %w", err)
	}
	return generation, nil
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return client, nil
}

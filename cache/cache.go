// Package cache keeps computed organization aggregates in Redis between
// ingestions. It sits outside the computation core: every cached value can
// be rebuilt from the document store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"skillsmatrix/metrics"
	"skillsmatrix/models"
	"skillsmatrix/services"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrMiss is returned by Store.Get for an absent key.
var ErrMiss = errors.New("cache miss")

const keyPrefix = "skillsmatrix:"

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return val, err
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	var deleted int64
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return deleted, err
			}
			deleted += int64(len(keys))
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// AnalyticsCache is a read-through decorator over services.AnalyticsService.
// Store failures degrade to uncached reads.
type AnalyticsCache struct {
	next  services.AnalyticsService
	store Store
	ttl   time.Duration
	log   *zap.Logger
}

var (
	_ services.AnalyticsService = (*AnalyticsCache)(nil)
	_ services.CacheInvalidator = (*AnalyticsCache)(nil)
)

func NewAnalyticsCache(next services.AnalyticsService, store Store, ttl time.Duration, log *zap.Logger) *AnalyticsCache {
	return &AnalyticsCache{
		next:  next,
		store: store,
		ttl:   ttl,
		log:   log,
	}
}

func namespaceKey(namespace string) string {
	return keyPrefix + namespace + ":"
}

// Invalidate drops every cached aggregate of namespace.
func (c *AnalyticsCache) Invalidate(ctx context.Context, namespace string) error {
	n, err := c.store.DeleteByPrefix(ctx, namespaceKey(namespace))
	if err != nil {
		return err
	}
	c.log.Debug("aggregate cache invalidated", zap.String("namespace", namespace), zap.Int64("keys", n))
	return nil
}

func readThrough[T any](ctx context.Context, c *AnalyticsCache, namespace, aggregate string, load func() (*T, error)) (*T, error) {
	key := namespaceKey(namespace) + aggregate

	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var v T
		if jsonErr := json.Unmarshal(raw, &v); jsonErr == nil {
			metrics.CacheLookups.WithLabelValues(aggregate, "hit").Inc()
			return &v, nil
		}
		metrics.CacheLookups.WithLabelValues(aggregate, "error").Inc()
	case errors.Is(err, ErrMiss):
		metrics.CacheLookups.WithLabelValues(aggregate, "miss").Inc()
	default:
		metrics.CacheLookups.WithLabelValues(aggregate, "error").Inc()
		c.log.Warn("aggregate cache read failed", zap.String("key", key), zap.Error(err))
	}

	v, err := load()
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(v); err == nil {
		if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
			c.log.Warn("aggregate cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}

func (c *AnalyticsCache) GetAdminSkillsAnalysis(ctx context.Context, namespace string) (*models.OrganizationSkillsAnalysis, error) {
	return readThrough(ctx, c, namespace, "analysis", func() (*models.OrganizationSkillsAnalysis, error) {
		return c.next.GetAdminSkillsAnalysis(ctx, namespace)
	})
}

func (c *AnalyticsCache) GetDistributions(ctx context.Context, namespace string) (*models.Distributions, error) {
	return readThrough(ctx, c, namespace, "distributions", func() (*models.Distributions, error) {
		return c.next.GetDistributions(ctx, namespace)
	})
}

func (c *AnalyticsCache) GetEmployeeRankings(ctx context.Context, namespace string) (*models.EmployeeRankings, error) {
	return readThrough(ctx, c, namespace, "rankings", func() (*models.EmployeeRankings, error) {
		return c.next.GetEmployeeRankings(ctx, namespace)
	})
}

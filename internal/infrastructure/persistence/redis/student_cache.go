package redis

import (
	"context"
	"errors"
	"time"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
)

// StudentCache caches full student aggregates keyed by ID. It implements
// student.Cache and sits in front of the durable repository on read-heavy
// paths (daily progress, leaderboard rebuilds).
type StudentCache struct {
	cache      *Cache
	defaultTTL time.Duration
}

// NewStudentCache creates a StudentCache on top of a generic Cache.
func NewStudentCache(cache *Cache) *StudentCache {
	return &StudentCache{
		cache:      cache,
		defaultTTL: TTLStudentCache,
	}
}

// Get implements student.Cache.
// Returns ErrCacheMiss when the student is not cached.
func (c *StudentCache) Get(ctx context.Context, id shared.StudentID) (*student.Student, error) {
	if id.IsEmpty() {
		return nil, ErrCacheKeyEmpty
	}

	var s student.Student
	if err := c.cache.Get(ctx, StudentKey(id.String()), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Set implements student.Cache. A zero TTL falls back to the default.
func (c *StudentCache) Set(ctx context.Context, s *student.Student, ttl time.Duration) error {
	if s == nil {
		return ErrCacheNilValue
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	return c.cache.Set(ctx, StudentKey(s.ID.String()), s, ttl)
}

// Invalidate implements student.Cache. Missing keys are not an error.
func (c *StudentCache) Invalidate(ctx context.Context, id shared.StudentID) error {
	if id.IsEmpty() {
		return ErrCacheKeyEmpty
	}

	err := c.cache.Delete(ctx, StudentKey(id.String()))
	if errors.Is(err, ErrCacheMiss) {
		return nil
	}
	return err
}

// InvalidateAll implements student.Cache.
func (c *StudentCache) InvalidateAll(ctx context.Context) error {
	return c.cache.DeleteByPattern(ctx, PrefixStudent+"*")
}

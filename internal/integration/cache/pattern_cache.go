// Package cache provides Redis-backed read-through caches for repositories.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/decor-finance/backend/internal/application/adapter"
	"github.com/decor-finance/backend/internal/domain/entity"
)

// DefaultPatternTTL is how long a tenant's active pattern list stays cached.
const DefaultPatternTTL = 10 * time.Minute

const patternKeyPrefix = "reconciliation:patterns:"

// CachedPatternRepository caches the active pattern list of each tenant in Redis.
// Writes go to the underlying repository and drop the tenant's cached list.
// Cache failures are logged and fall back to the repository.
type CachedPatternRepository struct {
	adapter.PatternRepository
	client *redis.Client
	ttl    time.Duration
}

// NewCachedPatternRepository wraps repo with a Redis cache.
func NewCachedPatternRepository(repo adapter.PatternRepository, client *redis.Client, ttl time.Duration) *CachedPatternRepository {
	if ttl <= 0 {
		ttl = DefaultPatternTTL
	}
	return &CachedPatternRepository{
		PatternRepository: repo,
		client:            client,
		ttl:               ttl,
	}
}

var _ adapter.PatternRepository = (*CachedPatternRepository)(nil)

// Create stores the pattern and invalidates the tenant's cached list.
func (r *CachedPatternRepository) Create(ctx context.Context, pattern *entity.ReconciliationPattern, event *entity.PatternEvent) error {
	if err := r.PatternRepository.Create(ctx, pattern, event); err != nil {
		return err
	}
	r.invalidate(ctx, pattern.TenantID)
	return nil
}

// Update stores the pattern and invalidates the tenant's cached list.
func (r *CachedPatternRepository) Update(ctx context.Context, pattern *entity.ReconciliationPattern, event *entity.PatternEvent) error {
	if err := r.PatternRepository.Update(ctx, pattern, event); err != nil {
		return err
	}
	r.invalidate(ctx, pattern.TenantID)
	return nil
}

// FindActive returns the cached active patterns, loading them on a miss.
func (r *CachedPatternRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]*entity.ReconciliationPattern, error) {
	key := patternKey(tenantID)
	logger := slog.Default().With("tenantID", tenantID.String())

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var patterns []*entity.ReconciliationPattern
		if err := json.Unmarshal(raw, &patterns); err == nil {
			return patterns, nil
		}
		logger.Warn("Discarding unreadable pattern cache entry")
	case !errors.Is(err, redis.Nil):
		logger.Warn("Pattern cache read failed", "error", err.Error())
	}

	patterns, err := r.PatternRepository.FindActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(patterns)
	if err != nil {
		logger.Warn("Failed to encode patterns for cache", "error", err.Error())
		return patterns, nil
	}
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		logger.Warn("Pattern cache write failed", "error", err.Error())
	}
	return patterns, nil
}

func (r *CachedPatternRepository) invalidate(ctx context.Context, tenantID uuid.UUID) {
	if err := r.client.Del(ctx, patternKey(tenantID)).Err(); err != nil {
		slog.Default().Warn("Pattern cache invalidation failed",
			"tenantID", tenantID.String(),
			"error", err.Error(),
		)
	}
}

func patternKey(tenantID uuid.UUID) string {
	return patternKeyPrefix + tenantID.String()
}

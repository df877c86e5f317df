package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"slated/internal/platform/config"
	platformredis "slated/internal/platform/redis"
	"slated/internal/profile/models"
	"slated/pkg/domain"
)

// CachedStore is a read-through Redis cache in front of another Store.
// Only FindByID is cached: it is the hot path (audit name resolution and
// event ref expansion hit it per profile per request). Writes invalidate.
//
// Cache failures degrade to the inner store; they are logged and never
// surfaced.
type CachedStore struct {
	inner  Store
	redis  *platformredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCached(inner Store, client *platformredis.Client, logger *slog.Logger) *CachedStore {
	return &CachedStore{
		inner:  inner,
		redis:  client,
		ttl:    config.ProfileCacheTTL,
		logger: logger,
	}
}

func cacheKey(id domain.ProfileID) string {
	return "slated:profile:" + id.String()
}

func (s *CachedStore) CreateIfNameAvailable(ctx context.Context, p *models.Profile) error {
	return s.inner.CreateIfNameAvailable(ctx, p)
}

func (s *CachedStore) FindByID(ctx context.Context, id domain.ProfileID) (*models.Profile, error) {
	key := cacheKey(id)
	raw, err := s.redis.Get(ctx, key).Bytes()
	if err == nil {
		var p models.Profile
		if err := json.Unmarshal(raw, &p); err == nil {
			return &p, nil
		}
		// Corrupt entry: drop it and fall through to the inner store.
		s.redis.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		s.logger.WarnContext(ctx, "profile cache read failed", "error", err.Error())
	}

	p, err := s.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(p); err == nil {
		if err := s.redis.Set(ctx, key, raw, s.ttl).Err(); err != nil {
			s.logger.WarnContext(ctx, "profile cache write failed", "error", err.Error())
		}
	}
	return p, nil
}

func (s *CachedStore) FindByName(ctx context.Context, name string) (*models.Profile, error) {
	return s.inner.FindByName(ctx, name)
}

func (s *CachedStore) List(ctx context.Context, nameFilter string) ([]*models.Profile, error) {
	return s.inner.List(ctx, nameFilter)
}

func (s *CachedStore) UpdateTimezone(ctx context.Context, id domain.ProfileID, tz domain.Timezone, now time.Time) (*models.Profile, error) {
	p, err := s.inner.UpdateTimezone(ctx, id, tz, now)
	if err != nil {
		return nil, err
	}
	if err := s.redis.Del(ctx, cacheKey(id)).Err(); err != nil {
		s.logger.WarnContext(ctx, "profile cache invalidation failed", "error", err.Error())
	}
	return p, nil
}

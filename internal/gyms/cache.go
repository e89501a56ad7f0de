// internal/gyms/cache.go
// Redis-backed read-through cache of the gym catalogue. Scores are never cached.

package gyms

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"

	"github.com/gymmatch/gymmatch-backend/internal/logging"
)

const catalogueKey = "gyms:catalogue:v1"

type cachedRepository struct {
	Repository
	client *redis.Client
	ttl    time.Duration
}

// NewCachedRepository wraps repo so GetAllGyms is served from Redis.
// Catalogue writes invalidate the cached copy.
func NewCachedRepository(repo Repository, client *redis.Client, ttl time.Duration) Repository {
	return &cachedRepository{Repository: repo, client: client, ttl: ttl}
}

func (c *cachedRepository) GetAllGyms(ctx context.Context) ([]*Gym, error) {
	raw, err := c.client.Get(ctx, catalogueKey).Bytes()
	if err == nil {
		var gyms []*Gym
		if err := json.Unmarshal(raw, &gyms); err == nil {
			cacheLookups.WithLabelValues("hit").Inc()
			return gyms, nil
		}
		logging.Warn().Err(err).Msg("discarding corrupt gym catalogue cache")
	} else if err != redis.Nil {
		logging.Warn().Err(err).Msg("gym catalogue cache read failed")
	}
	cacheLookups.WithLabelValues("miss").Inc()

	gyms, err := c.Repository.GetAllGyms(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(gyms); err == nil {
		if err := c.client.Set(ctx, catalogueKey, payload, c.ttl).Err(); err != nil {
			logging.Warn().Err(err).Msg("gym catalogue cache write failed")
		}
	}
	return gyms, nil
}

func (c *cachedRepository) CreateGym(ctx context.Context, gym *Gym) error {
	if err := c.Repository.CreateGym(ctx, gym); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *cachedRepository) UpdateGym(ctx context.Context, gym *Gym) error {
	if err := c.Repository.UpdateGym(ctx, gym); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *cachedRepository) DeleteGym(ctx context.Context, id int64) error {
	if err := c.Repository.DeleteGym(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *cachedRepository) invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, catalogueKey).Err(); err != nil {
		logging.Warn().Err(err).Msg("gym catalogue cache invalidation failed")
	}
}

package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"gatepass/entity"
	"gatepass/log"
)

const cacheTTL = 5 * time.Minute

// CachedRepository is a read-through Redis cache in front of the catalog.
// The catalog is read on the artifact-generation hot path, where a stale
// snapshot is acceptable but an extra query per callback is not. Cache
// failures degrade to a direct database read.
type CachedRepository struct {
	repo *PostgresRepository
	rdb  *redis.Client
}

func NewCachedRepository(repo *PostgresRepository, rdb *redis.Client) *CachedRepository {
	return &CachedRepository{repo: repo, rdb: rdb}
}

func (r *CachedRepository) Store(ctx context.Context, event entity.CatalogEvent) error {
	if err := r.repo.Store(ctx, event); err != nil {
		return err
	}

	if err := r.rdb.Del(ctx, cacheKey(event.EventID)).Err(); err != nil {
		log.FromContext(ctx).WithError(err).Warn("could not invalidate event cache")
	}

	return nil
}

func (r *CachedRepository) Get(ctx context.Context, eventID string) (entity.CatalogEvent, error) {
	cached, err := r.rdb.Get(ctx, cacheKey(eventID)).Bytes()
	if err == nil {
		var event entity.CatalogEvent
		if err := json.Unmarshal(cached, &event); err == nil {
			return event, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.FromContext(ctx).WithError(err).Warn("could not read event cache")
	}

	event, err := r.repo.Get(ctx, eventID)
	if err != nil {
		return entity.CatalogEvent{}, err
	}

	if payload, err := json.Marshal(event); err == nil {
		if err := r.rdb.Set(ctx, cacheKey(eventID), payload, cacheTTL).Err(); err != nil {
			log.FromContext(ctx).WithError(err).Warn("could not write event cache")
		}
	}

	return event, nil
}

func cacheKey(eventID string) string {
	return "catalog:event:" + eventID
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iamasit07/gravity-four/backend/internal/domain"
)

const gameKeyPrefix = "game:"

// GameStore is the durable store behind the cache
type GameStore interface {
	SaveGame(ctx context.Context, details domain.GameDetails) (domain.GameDetails, error)
	LoadGame(ctx context.Context, id string) (domain.GameDetails, bool, error)
}

// CachedGameStore reads through Redis and writes through to the inner
// store. Redis failures only cost a cache miss.
type CachedGameStore struct {
	inner  GameStore
	client *redis.Client
	ttl    time.Duration
}

func NewCachedGameStore(inner GameStore, client *redis.Client, ttl time.Duration) *CachedGameStore {
	return &CachedGameStore{inner: inner, client: client, ttl: ttl}
}

func gameKey(id string) string {
	return gameKeyPrefix + id
}

func (s *CachedGameStore) SaveGame(ctx context.Context, details domain.GameDetails) (domain.GameDetails, error) {
	saved, err := s.inner.SaveGame(ctx, details)
	if err != nil {
		if errors.Is(err, domain.ErrStaleVersion) {
			s.evict(ctx, details.UUID)
		}
		return domain.GameDetails{}, err
	}
	s.put(ctx, saved)
	return saved, nil
}

func (s *CachedGameStore) LoadGame(ctx context.Context, id string) (domain.GameDetails, bool, error) {
	raw, err := s.client.Get(ctx, gameKey(id)).Bytes()
	switch {
	case err == nil:
		var details domain.GameDetails
		if err := json.Unmarshal(raw, &details); err == nil {
			return details, true, nil
		}
		log.Printf("[REDIS] Dropping undecodable cache entry for game %s", id)
		s.evict(ctx, id)
	case !errors.Is(err, redis.Nil):
		log.Printf("[REDIS] Error reading game %s from cache: %v", id, err)
	}

	details, found, err := s.inner.LoadGame(ctx, id)
	if err != nil || !found {
		return details, found, err
	}
	s.put(ctx, details)
	return details, true, nil
}

func (s *CachedGameStore) put(ctx context.Context, details domain.GameDetails) {
	data, err := json.Marshal(details)
	if err != nil {
		log.Printf("[REDIS] Error encoding game %s: %v", details.UUID, err)
		return
	}
	if err := s.client.Set(ctx, gameKey(details.UUID), data, s.ttl).Err(); err != nil {
		log.Printf("[REDIS] Error caching game %s: %v", details.UUID, err)
	}
}

func (s *CachedGameStore) evict(ctx context.Context, id string) {
	if id == "" {
		return
	}
	if err := s.client.Del(ctx, gameKey(id)).Err(); err != nil {
		log.Printf("[REDIS] Error evicting game %s: %v", id, err)
	}
}

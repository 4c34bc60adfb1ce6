// Package memory holds the reference map-backed stores. Every read and write
// copies, so callers never share memory with the stored records.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/iamasit07/gravity-four/backend/internal/domain"
	"github.com/iamasit07/gravity-four/backend/pkg/uid"
)

type GameStore struct {
	mu    sync.RWMutex
	games map[string]domain.GameDetails // gameID → details
}

func NewGameStore() *GameStore {
	return &GameStore{games: make(map[string]domain.GameDetails)}
}

func (s *GameStore) SaveGame(ctx context.Context, details domain.GameDetails) (domain.GameDetails, error) {
	if err := ctx.Err(); err != nil {
		return domain.GameDetails{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if details.UUID == "" {
		details.UUID = uid.GenerateGameID()
	}

	current, exists := s.games[details.UUID]
	if exists && current.Version != details.Version {
		return domain.GameDetails{}, fmt.Errorf("%w: game %s is at version %d, save was based on %d",
			domain.ErrStaleVersion, details.UUID, current.Version, details.Version)
	}

	stored := details.Clone()
	stored.Version = details.Version + 1
	s.games[stored.UUID] = stored
	return stored.Clone(), nil
}

func (s *GameStore) LoadGame(ctx context.Context, id string) (domain.GameDetails, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.GameDetails{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	details, exists := s.games[id]
	if !exists {
		return domain.GameDetails{}, false, nil
	}
	return details.Clone(), true, nil
}

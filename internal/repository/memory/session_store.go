package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/iamasit07/gravity-four/backend/internal/domain"
	"github.com/iamasit07/gravity-four/backend/pkg/uid"
)

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.SessionDetails // sessionID → details
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.SessionDetails)}
}

func (s *SessionStore) Create(ctx context.Context, params domain.CreateSessionParams) (domain.SessionDetails, error) {
	if err := ctx.Err(); err != nil {
		return domain.SessionDetails{}, err
	}

	session := domain.SessionDetails{
		UUID:    uid.GenerateSessionID(),
		Inviter: domain.Participant{UUID: params.InviterUUID},
		Invitee: domain.Participant{UUID: params.InviteeUUID},
		Status:  domain.SessionInProgress,
		Version: 1,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.UUID] = session
	return session.Clone(), nil
}

func (s *SessionStore) GetSession(ctx context.Context, id string) (domain.SessionDetails, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.SessionDetails{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[id]
	if !exists {
		return domain.SessionDetails{}, false, nil
	}
	return session.Clone(), true, nil
}

// AddGame appends the game to the history and occupies the active slot
// in one write. It refuses while another game is active.
func (s *SessionStore) AddGame(ctx context.Context, sessionID, gameID, startingUUID string) (domain.SessionDetails, error) {
	return s.mutate(ctx, sessionID, func(session *domain.SessionDetails) error {
		if active, ok := session.ActiveGame(); ok {
			return fmt.Errorf("%w: session %s is playing %s", domain.ErrActiveGameInProgress, sessionID, active)
		}
		session.Games.Add(session.NewGameMetadata(gameID, startingUUID))
		session.ActiveGameUUID = gameID
		return nil
	})
}

// SetActiveGame refuses to replace an active game, the slot must be
// cleared with UnsetActiveGame first
func (s *SessionStore) SetActiveGame(ctx context.Context, sessionID, gameID string) error {
	_, err := s.mutate(ctx, sessionID, func(session *domain.SessionDetails) error {
		if active, ok := session.ActiveGame(); ok {
			return fmt.Errorf("%w: session %s is playing %s", domain.ErrActiveGameInProgress, sessionID, active)
		}
		if _, ok := session.Games.Get(gameID); !ok {
			return fmt.Errorf("%w: %s is not part of session %s", domain.ErrNoSuchGame, gameID, sessionID)
		}
		session.ActiveGameUUID = gameID
		return nil
	})
	return err
}

func (s *SessionStore) UnsetActiveGame(ctx context.Context, sessionID string) error {
	_, err := s.mutate(ctx, sessionID, func(session *domain.SessionDetails) error {
		session.ActiveGameUUID = ""
		return nil
	})
	return err
}

// mutate applies fn under the write lock and bumps the version when fn succeeds
func (s *SessionStore) mutate(ctx context.Context, sessionID string, fn func(*domain.SessionDetails) error) (domain.SessionDetails, error) {
	if err := ctx.Err(); err != nil {
		return domain.SessionDetails{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.sessions[sessionID]
	if !exists {
		return domain.SessionDetails{}, fmt.Errorf("%w: %s", domain.ErrNoSuchSession, sessionID)
	}

	next := current.Clone()
	if err := fn(&next); err != nil {
		return domain.SessionDetails{}, err
	}
	next.Version++
	s.sessions[sessionID] = next
	return next.Clone(), nil
}

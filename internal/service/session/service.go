package session

import (
	"context"
	"fmt"
	"log"

	"github.com/iamasit07/gravity-four/backend/internal/domain"
	"github.com/iamasit07/gravity-four/backend/pkg/keylock"
)

// SessionStore persists sessions. AddGame records the game and occupies the
// active slot in a single write; AddGame and SetActiveGame must refuse a slot
// that already holds a game with domain.ErrActiveGameInProgress.
type SessionStore interface {
	Create(ctx context.Context, params domain.CreateSessionParams) (domain.SessionDetails, error)
	GetSession(ctx context.Context, id string) (domain.SessionDetails, bool, error)
	AddGame(ctx context.Context, sessionID, gameID, startingUUID string) (domain.SessionDetails, error)
	SetActiveGame(ctx context.Context, sessionID, gameID string) error
	UnsetActiveGame(ctx context.Context, sessionID string) error
}

// Games is the part of the game service a session drives
type Games interface {
	CreateGame(ctx context.Context) (string, error)
	GetGameDetails(ctx context.Context, id string) (domain.GameDetails, error)
	SubmitMove(ctx context.Context, id string, move domain.PlayerMoveDetails) (domain.PlayerMoveResult, error)
}

// Service pairs two participants across a sequence of games
type Service struct {
	store SessionStore
	games Games
	locks *keylock.Locker
}

func NewService(store SessionStore, games Games) *Service {
	return &Service{
		store: store,
		games: games,
		locks: keylock.New(),
	}
}

func (s *Service) CreateSession(ctx context.Context, params domain.CreateSessionParams) (domain.SessionDetails, error) {
	session, err := s.store.Create(ctx, params)
	if err != nil {
		return domain.SessionDetails{}, fmt.Errorf("failed to create session: %w", err)
	}
	log.Printf("[SESSION] Created session %s (inviter %s, invitee %s)", session.UUID, params.InviterUUID, params.InviteeUUID)
	return session, nil
}

func (s *Service) GetSession(ctx context.Context, id string) (domain.SessionDetails, error) {
	session, found, err := s.store.GetSession(ctx, id)
	if err != nil {
		return domain.SessionDetails{}, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	if !found {
		return domain.SessionDetails{}, fmt.Errorf("%w: %s", domain.ErrNoSuchSession, id)
	}
	return session, nil
}

// GetGameUUIDs lists every game ever added to the session, oldest first
func (s *Service) GetGameUUIDs(ctx context.Context, id string) ([]string, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return session.Games.UUIDs(), nil
}

func (s *Service) GetActiveGameUUID(ctx context.Context, id string) (string, bool, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return "", false, err
	}
	gameID, ok := session.ActiveGame()
	return gameID, ok, nil
}

// GetActivePlayer returns the participant whose turn it is in the active game
func (s *Service) GetActivePlayer(ctx context.Context, id string) (string, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return "", err
	}
	gameID, ok := session.ActiveGame()
	if !ok {
		return "", fmt.Errorf("%w: session %s", domain.ErrNoActiveGame, id)
	}

	meta, ok := session.Games.Get(gameID)
	if !ok {
		return "", fmt.Errorf("%w: active game %s missing from session %s", domain.ErrCorruptGameDetails, gameID, id)
	}

	details, err := s.games.GetGameDetails(ctx, gameID)
	if err != nil {
		return "", err
	}
	return meta.ParticipantFor(details.ActivePlayer), nil
}

// AddNewGame starts a game with startingUUID as player one and marks it active
func (s *Service) AddNewGame(ctx context.Context, id, startingUUID string) (string, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	session, err := s.GetSession(ctx, id)
	if err != nil {
		return "", err
	}
	if !session.IsParticipant(startingUUID) {
		return "", fmt.Errorf("%w: %s in session %s", domain.ErrNotSessionParticipant, startingUUID, id)
	}
	if active, ok := session.ActiveGame(); ok {
		return "", fmt.Errorf("%w: session %s already plays %s", domain.ErrActiveGameInProgress, id, active)
	}

	gameID, err := s.games.CreateGame(ctx)
	if err != nil {
		return "", err
	}

	// another instance may have taken the slot since the read above
	if _, err := s.store.AddGame(ctx, id, gameID, startingUUID); err != nil {
		return "", fmt.Errorf("failed to add game %s to session %s: %w", gameID, id, err)
	}

	log.Printf("[SESSION] Session %s started game %s, %s moves first", id, gameID, startingUUID)
	return gameID, nil
}

// CompleteActiveGame empties the active slot, the game stays in history
func (s *Service) CompleteActiveGame(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.store.UnsetActiveGame(ctx, id); err != nil {
		return fmt.Errorf("failed to complete active game of session %s: %w", id, err)
	}
	log.Printf("[SESSION] Session %s completed its active game", id)
	return nil
}

// SubmitMove relays a participant's move to the active game.
//
// The player number comes from comparing with the inviter: the inviter is
// always player one and anyone else player two. This disagrees with the
// game's metadata once the invitee starts a game.
// TODO: resolve the player number through GameMetadata instead.
func (s *Service) SubmitMove(ctx context.Context, id, participantUUID string, target domain.Position) (domain.PlayerMoveResult, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return domain.PlayerMoveResult{}, err
	}
	gameID, ok := session.ActiveGame()
	if !ok {
		return domain.PlayerMoveResult{}, fmt.Errorf("%w: session %s", domain.ErrNoActiveGame, id)
	}

	player := domain.PlayerTwo
	if participantUUID == session.Inviter.UUID {
		player = domain.PlayerOne
	}

	return s.games.SubmitMove(ctx, gameID, domain.PlayerMoveDetails{Player: player, TargetCell: target})
}

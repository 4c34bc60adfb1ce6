package game

import (
	"context"
	"fmt"
	"log"

	"github.com/iamasit07/gravity-four/backend/internal/domain"
	"github.com/iamasit07/gravity-four/backend/pkg/keylock"
)

// GameStore persists game details. SaveGame assigns a uuid when the details
// have none and overwrites otherwise; it must reject a save whose Version no
// longer matches the stored one with domain.ErrStaleVersion.
type GameStore interface {
	SaveGame(ctx context.Context, details domain.GameDetails) (domain.GameDetails, error)
	LoadGame(ctx context.Context, id string) (domain.GameDetails, bool, error)
}

// MoveNotifier receives an event for every successful move, after the new
// state has been saved
type MoveNotifier interface {
	NotifyMove(ctx context.Context, event domain.MoveEvent) error
}

// Service is the entry point for game logic
type Service struct {
	store    GameStore
	notifier MoveNotifier
	locks    *keylock.Locker
	options  []domain.GameOption
}

type Option func(*Service)

// WithGameOptions sets the options every new game is created with
func WithGameOptions(opts ...domain.GameOption) Option {
	return func(s *Service) {
		s.options = append(s.options, opts...)
	}
}

func WithNotifier(n MoveNotifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func NewService(store GameStore, opts ...Option) *Service {
	s := &Service{
		store: store,
		locks: keylock.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateGame persists a fresh game and returns its uuid
func (s *Service) CreateGame(ctx context.Context) (string, error) {
	g, err := domain.NewGame(s.options...)
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	saved, err := s.store.SaveGame(ctx, g.Details())
	if err != nil {
		return "", fmt.Errorf("failed to save new game: %w", err)
	}

	log.Printf("[GAME] Created game %s (%dx%d)", saved.UUID, saved.BoardDimensions.Rows, saved.BoardDimensions.Columns)
	return saved.UUID, nil
}

func (s *Service) GetGameDetails(ctx context.Context, id string) (domain.GameDetails, error) {
	details, found, err := s.store.LoadGame(ctx, id)
	if err != nil {
		return domain.GameDetails{}, fmt.Errorf("failed to load game %s: %w", id, err)
	}
	if !found {
		return domain.GameDetails{}, fmt.Errorf("%w: %s", domain.ErrNoSuchGame, id)
	}
	return details, nil
}

// SubmitMove loads the game, applies the move and saves the result whether
// or not the move was accepted. Rejected moves come back as a result with a
// message, only store and integrity problems are returned as errors.
func (s *Service) SubmitMove(ctx context.Context, id string, move domain.PlayerMoveDetails) (domain.PlayerMoveResult, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	details, err := s.GetGameDetails(ctx, id)
	if err != nil {
		return domain.PlayerMoveResult{}, err
	}

	g, err := domain.GameFromDetails(details)
	if err != nil {
		return domain.PlayerMoveResult{}, fmt.Errorf("failed to restore game %s: %w", id, err)
	}

	result := g.Move(move)

	saved, err := s.store.SaveGame(ctx, g.Details())
	if err != nil {
		return domain.PlayerMoveResult{}, fmt.Errorf("failed to save game %s: %w", id, err)
	}

	if !result.MoveSuccessful {
		log.Printf("[GAME] Rejected move in game %s by player %d: %s", id, move.Player, result.Message)
		return result, nil
	}

	if saved.GameStatus.IsTerminal() {
		log.Printf("[GAME] Game %s finished with %s", id, saved.GameStatus)
	}

	if s.notifier != nil {
		// the move is durable at this point, a failed notification must not undo it
		if err := s.notifier.NotifyMove(ctx, domain.NewMoveEvent(id, move)); err != nil {
			log.Printf("[GAME] Error notifying move in game %s: %v", id, err)
		}
	}

	return result, nil
}

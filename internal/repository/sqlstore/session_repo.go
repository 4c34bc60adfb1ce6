package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iamasit07/gravity-four/backend/internal/domain"
	"github.com/iamasit07/gravity-four/backend/pkg/uid"
)

type SessionRepo struct {
	DB *sql.DB
	p  Placeholders
}

func NewSessionRepo(db *sql.DB, p Placeholders) *SessionRepo {
	return &SessionRepo{DB: db, p: p}
}

func (r *SessionRepo) Create(ctx context.Context, params domain.CreateSessionParams) (domain.SessionDetails, error) {
	session := domain.SessionDetails{
		UUID:    uid.GenerateSessionID(),
		Inviter: domain.Participant{UUID: params.InviterUUID},
		Invitee: domain.Participant{UUID: params.InviteeUUID},
		Status:  domain.SessionInProgress,
		Version: 1,
	}

	query := `
	INSERT INTO sessions (uuid, inviter_uuid, invitee_uuid, status, games, active_game_uuid, version, updated_at)
	VALUES (?, ?, ?, ?, ?, NULL, ?, ?);
	`
	_, err := r.DB.ExecContext(ctx, r.p.rebind(query),
		session.UUID, params.InviterUUID, params.InviteeUUID, string(session.Status), "[]", session.Version, nowMillis())
	if err != nil {
		return domain.SessionDetails{}, fmt.Errorf("failed to insert session: %w", err)
	}
	return session, nil
}

func (r *SessionRepo) GetSession(ctx context.Context, id string) (domain.SessionDetails, bool, error) {
	return r.get(ctx, r.DB, id)
}

// AddGame appends the game to the history and occupies the active slot
// in one write. It refuses while another game is active.
func (r *SessionRepo) AddGame(ctx context.Context, sessionID, gameID, startingUUID string) (domain.SessionDetails, error) {
	return r.mutate(ctx, sessionID, func(session *domain.SessionDetails) error {
		if active, ok := session.ActiveGame(); ok {
			return fmt.Errorf("%w: session %s is playing %s", domain.ErrActiveGameInProgress, sessionID, active)
		}
		session.Games.Add(session.NewGameMetadata(gameID, startingUUID))
		session.ActiveGameUUID = gameID
		return nil
	})
}

// SetActiveGame refuses to replace an active game
func (r *SessionRepo) SetActiveGame(ctx context.Context, sessionID, gameID string) error {
	_, err := r.mutate(ctx, sessionID, func(session *domain.SessionDetails) error {
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

func (r *SessionRepo) UnsetActiveGame(ctx context.Context, sessionID string) error {
	_, err := r.mutate(ctx, sessionID, func(session *domain.SessionDetails) error {
		session.ActiveGameUUID = ""
		return nil
	})
	return err
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *SessionRepo) get(ctx context.Context, q querier, id string) (domain.SessionDetails, bool, error) {
	query := `
	SELECT uuid, inviter_uuid, invitee_uuid, status, games, active_game_uuid, version
	FROM sessions
	WHERE uuid = ?;
	`

	var (
		session   domain.SessionDetails
		status    string
		gamesJSON []byte
		active    sql.NullString
	)
	err := q.QueryRowContext(ctx, r.p.rebind(query), id).Scan(
		&session.UUID,
		&session.Inviter.UUID,
		&session.Invitee.UUID,
		&status,
		&gamesJSON,
		&active,
		&session.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SessionDetails{}, false, nil
	}
	if err != nil {
		return domain.SessionDetails{}, false, fmt.Errorf("failed to get session %s: %w", id, err)
	}

	if err := json.Unmarshal(gamesJSON, &session.Games); err != nil {
		return domain.SessionDetails{}, false, fmt.Errorf("failed to decode games of session %s: %w", id, err)
	}
	session.Status = domain.SessionStatus(status)
	if active.Valid {
		session.ActiveGameUUID = active.String
	}
	return session, true, nil
}

// mutate reads the session, applies fn and writes it back inside one
// transaction; the write is conditional on the version that was read
func (r *SessionRepo) mutate(ctx context.Context, sessionID string, fn func(*domain.SessionDetails) error) (domain.SessionDetails, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.SessionDetails{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	session, found, err := r.get(ctx, tx, sessionID)
	if err != nil {
		return domain.SessionDetails{}, err
	}
	if !found {
		return domain.SessionDetails{}, fmt.Errorf("%w: %s", domain.ErrNoSuchSession, sessionID)
	}

	expected := session.Version
	if err := fn(&session); err != nil {
		return domain.SessionDetails{}, err
	}
	session.Version = expected + 1

	gamesJSON, err := json.Marshal(session.Games)
	if err != nil {
		return domain.SessionDetails{}, fmt.Errorf("failed to marshal games: %w", err)
	}
	var active sql.NullString
	if id, ok := session.ActiveGame(); ok {
		active = sql.NullString{String: id, Valid: true}
	}

	query := `
	UPDATE sessions
	SET games = ?, active_game_uuid = ?, version = ?, updated_at = ?
	WHERE uuid = ? AND version = ?;
	`
	res, err := tx.ExecContext(ctx, r.p.rebind(query), string(gamesJSON), active, session.Version, nowMillis(), sessionID, expected)
	if err != nil {
		return domain.SessionDetails{}, fmt.Errorf("failed to update session %s: %w", sessionID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.SessionDetails{}, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return domain.SessionDetails{}, fmt.Errorf("%w: session %s moved past version %d", domain.ErrStaleVersion, sessionID, expected)
	}

	if err := tx.Commit(); err != nil {
		return domain.SessionDetails{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return session, nil
}

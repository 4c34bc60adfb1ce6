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

type GameRepo struct {
	DB *sql.DB
	p  Placeholders
}

func NewGameRepo(db *sql.DB, p Placeholders) *GameRepo {
	return &GameRepo{DB: db, p: p}
}

// SaveGame upserts the game. The update only lands when the stored version
// is the one the details were loaded at.
func (r *GameRepo) SaveGame(ctx context.Context, details domain.GameDetails) (domain.GameDetails, error) {
	if details.UUID == "" {
		details.UUID = uid.GenerateGameID()
	}

	boardJSON, err := json.Marshal(details.Board)
	if err != nil {
		return domain.GameDetails{}, fmt.Errorf("failed to marshal board: %w", err)
	}
	statsJSON, err := json.Marshal(details.PlayerStats)
	if err != nil {
		return domain.GameDetails{}, fmt.Errorf("failed to marshal player stats: %w", err)
	}

	next := details.Clone()
	next.Version = details.Version + 1

	query := `
	INSERT INTO games (uuid, board_rows, board_columns, board, active_player, player_stats, game_status, version, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (uuid) DO UPDATE SET
		board = excluded.board,
		active_player = excluded.active_player,
		player_stats = excluded.player_stats,
		game_status = excluded.game_status,
		version = excluded.version,
		updated_at = excluded.updated_at
	WHERE games.version = excluded.version - 1;
	`

	res, err := r.DB.ExecContext(ctx, r.p.rebind(query),
		next.UUID,
		next.BoardDimensions.Rows,
		next.BoardDimensions.Columns,
		string(boardJSON),
		int(next.ActivePlayer),
		string(statsJSON),
		string(next.GameStatus),
		next.Version,
		nowMillis(),
	)
	if err != nil {
		return domain.GameDetails{}, fmt.Errorf("failed to upsert game %s: %w", next.UUID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.GameDetails{}, fmt.Errorf("failed to read upsert result: %w", err)
	}
	if affected == 0 {
		return domain.GameDetails{}, fmt.Errorf("%w: game %s moved past version %d", domain.ErrStaleVersion, next.UUID, details.Version)
	}
	return next, nil
}

func (r *GameRepo) LoadGame(ctx context.Context, id string) (domain.GameDetails, bool, error) {
	query := `
	SELECT uuid, board_rows, board_columns, board, active_player, player_stats, game_status, version
	FROM games
	WHERE uuid = ?;
	`

	var (
		details             domain.GameDetails
		boardJSON, statsRaw []byte
		activePlayer        int
		status              string
	)
	err := r.DB.QueryRowContext(ctx, r.p.rebind(query), id).Scan(
		&details.UUID,
		&details.BoardDimensions.Rows,
		&details.BoardDimensions.Columns,
		&boardJSON,
		&activePlayer,
		&statsRaw,
		&status,
		&details.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GameDetails{}, false, nil
	}
	if err != nil {
		return domain.GameDetails{}, false, fmt.Errorf("failed to get game %s: %w", id, err)
	}

	if err := json.Unmarshal(boardJSON, &details.Board); err != nil {
		return domain.GameDetails{}, false, fmt.Errorf("%w: board of game %s: %v", domain.ErrCorruptGameDetails, id, err)
	}
	if err := json.Unmarshal(statsRaw, &details.PlayerStats); err != nil {
		return domain.GameDetails{}, false, fmt.Errorf("%w: player stats of game %s: %v", domain.ErrCorruptGameDetails, id, err)
	}
	details.ActivePlayer = domain.PlayerNumber(activePlayer)
	details.GameStatus = domain.GameStatus(status)

	return details, true, nil
}

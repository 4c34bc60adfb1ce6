package domain

import (
	"fmt"

	"github.com/iamasit07/gravity-four/backend/pkg/uid"
)

// Game owns its board exclusively. It only changes through Move.
type Game struct {
	state GameDetails
}

type gameOptions struct {
	rows        int
	columns     int
	requireEven bool
}

type GameOption func(*gameOptions)

func WithDimensions(rows, columns int) GameOption {
	return func(o *gameOptions) {
		o.rows = rows
		o.columns = columns
	}
}

// WithEvenCells rejects boards whose cell count can't be split evenly
func WithEvenCells() GameOption {
	return func(o *gameOptions) {
		o.requireEven = true
	}
}

func NewGame(opts ...GameOption) (*Game, error) {
	o := gameOptions{rows: DefaultRows, columns: DefaultColumns}
	for _, opt := range opts {
		opt(&o)
	}

	dims, err := NewBoardDimensions(o.rows, o.columns, o.requireEven)
	if err != nil {
		return nil, err
	}

	discs := dims.Cells() / 2
	return &Game{
		state: GameDetails{
			UUID:            uid.GenerateGameID(),
			Board:           NewBoard(dims),
			BoardDimensions: dims,
			ActivePlayer:    PlayerOne,
			PlayerStats: map[PlayerNumber]PlayerStats{
				PlayerOne: {PlayerNumber: PlayerOne, RemainingDiscs: discs},
				PlayerTwo: {PlayerNumber: PlayerTwo, RemainingDiscs: discs},
			},
			GameStatus: StatusInProgress,
		},
	}, nil
}

// GameFromDetails rebuilds a game from persisted details
func GameFromDetails(details GameDetails) (*Game, error) {
	if details.Board.Dimensions() != details.BoardDimensions {
		return nil, fmt.Errorf("%w: board is %dx%d but dimensions say %dx%d", ErrCorruptGameDetails,
			details.Board.Rows(), details.Board.Columns(), details.BoardDimensions.Rows, details.BoardDimensions.Columns)
	}
	if !details.ActivePlayer.Valid() {
		return nil, fmt.Errorf("%w: active player %d", ErrCorruptGameDetails, details.ActivePlayer)
	}
	for _, p := range []PlayerNumber{PlayerOne, PlayerTwo} {
		if _, ok := details.PlayerStats[p]; !ok {
			return nil, fmt.Errorf("%w: missing stats for player %d", ErrCorruptGameDetails, p)
		}
	}
	return &Game{state: details.Clone()}, nil
}

func (g *Game) UUID() string {
	return g.state.UUID
}

func (g *Game) Board() Board {
	return g.state.Board.Copy()
}

func (g *Game) Details() GameDetails {
	return g.state.Clone()
}

func (g *Game) IsFinished() bool {
	return g.state.GameStatus.IsTerminal()
}

// Move validates and applies a move. Invalid input never errors, the reason
// comes back in the result message.
func (g *Game) Move(move PlayerMoveDetails) PlayerMoveResult {
	if result, ok := validateMove(g.state, move); !ok {
		return result
	}
	g.state = applyMove(g.state, move)
	return PlayerMoveResult{MoveSuccessful: true}
}

// validateMove checks the rules in order, the first failure wins
func validateMove(state GameDetails, move PlayerMoveDetails) (PlayerMoveResult, bool) {
	switch state.GameStatus {
	case StatusPlayerOneWon:
		return rejected("You cannot make a move, player %d has already won the game", PlayerOne), false
	case StatusPlayerTwoWon:
		return rejected("You cannot make a move, player %d has already won the game", PlayerTwo), false
	case StatusDraw:
		return rejected("You cannot make a move, the game has already ended in a draw"), false
	}

	if move.Player != state.ActivePlayer {
		return rejected("Player %d cannot move as player %d is currently active", move.Player, state.ActivePlayer), false
	}

	if result, ok := validateBounds(state.BoardDimensions, move.TargetCell); !ok {
		return result, false
	}

	row, column := move.TargetCell.Row, move.TargetCell.Column
	if state.Board.IsFilled(row, column) {
		return rejected("The cell of row %d and column %d is already occupied", row, column), false
	}

	if !state.Board.IsFilled(row-1, column) {
		return rejected("The cell of row %d and column %d cannot be placed as there is no disc below it", row, column), false
	}

	// only reachable on a single-cell board where the split leaves zero discs each
	if state.PlayerStats[move.Player].RemainingDiscs <= 0 {
		return rejected("Player %d has no discs remaining", move.Player), false
	}

	return PlayerMoveResult{}, true
}

func validateBounds(dims BoardDimensions, target Position) (PlayerMoveResult, bool) {
	rowOut := target.Row < 0 || target.Row >= dims.Rows
	columnOut := target.Column < 0 || target.Column >= dims.Columns
	if !rowOut && !columnOut {
		return PlayerMoveResult{}, true
	}

	message := fmt.Sprintf("The move to row %d and column %d is outside the board.", target.Row, target.Column)
	rowClause := fmt.Sprintf("row must be between 0 and %d", dims.Rows-1)
	columnClause := fmt.Sprintf("column must be between 0 and %d", dims.Columns-1)
	switch {
	case rowOut && columnOut:
		message += " The " + rowClause + " and the " + columnClause
	case rowOut:
		message += " The " + rowClause
	default:
		message += " The " + columnClause
	}
	return PlayerMoveResult{MoveSuccessful: false, Message: message}, false
}

// applyMove assumes the move passed validateMove and returns the next state
func applyMove(state GameDetails, move PlayerMoveDetails) GameDetails {
	next := state.Clone()
	won := IsWinningMove(state.Board, move)

	next.Board.set(move.TargetCell.Row, move.TargetCell.Column, Occupied(move.Player))

	stats := next.PlayerStats[state.ActivePlayer]
	stats.RemainingDiscs--
	next.PlayerStats[state.ActivePlayer] = stats

	next.ActivePlayer = state.ActivePlayer.Other()

	switch {
	case won:
		// the mover is whoever is no longer active
		next.GameStatus = wonBy(next.ActivePlayer.Other())
	case next.PlayerStats[PlayerOne].RemainingDiscs == 0 && next.PlayerStats[PlayerTwo].RemainingDiscs == 0:
		next.GameStatus = StatusDraw
	}
	return next
}

package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, rows, columns int) *Game {
	t.Helper()
	g, err := NewGame(WithDimensions(rows, columns))
	require.NoError(t, err)
	return g
}

func move(p PlayerNumber, row, column int) PlayerMoveDetails {
	return PlayerMoveDetails{Player: p, TargetCell: Position{Row: row, Column: column}}
}

func TestNewGameDefaults(t *testing.T) {
	g, err := NewGame()
	require.NoError(t, err)

	d := g.Details()
	assert.NotEmpty(t, d.UUID)
	assert.Equal(t, BoardDimensions{Rows: 6, Columns: 7}, d.BoardDimensions)
	assert.Equal(t, PlayerOne, d.ActivePlayer)
	assert.Equal(t, StatusInProgress, d.GameStatus)
	assert.Equal(t, 21, d.PlayerStats[PlayerOne].RemainingDiscs)
	assert.Equal(t, 21, d.PlayerStats[PlayerTwo].RemainingDiscs)
	assert.Equal(t, 0, d.Board.OccupiedCells())
}

func TestNewGameDimensions(t *testing.T) {
	tests := []struct {
		name    string
		rows    int
		columns int
		even    bool
		wantErr bool
	}{
		{"zero rows", 0, 7, false, true},
		{"negative columns", 6, -1, false, true},
		{"odd cells allowed by default", 3, 3, false, false},
		{"odd cells rejected when strict", 3, 3, true, true},
		{"even cells strict", 2, 2, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := []GameOption{WithDimensions(tt.rows, tt.columns)}
			if tt.even {
				opts = append(opts, WithEvenCells())
			}
			_, err := NewGame(opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidBoardDimensions))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestBoardCopiesAreIndependent(t *testing.T) {
	g := newTestGame(t, 6, 7)
	b := g.Board()
	b.set(0, 0, Occupied(PlayerTwo))

	assert.True(t, g.Board().At(0, 0).IsEmpty())

	d := g.Details()
	d.Board.set(0, 1, Occupied(PlayerOne))
	d.PlayerStats[PlayerOne] = PlayerStats{PlayerNumber: PlayerOne, RemainingDiscs: 0}
	assert.True(t, g.Board().At(0, 1).IsEmpty())
	assert.Equal(t, 21, g.Details().PlayerStats[PlayerOne].RemainingDiscs)
}

// Scenario A
func TestFirstMoveOnStandardBoard(t *testing.T) {
	g := newTestGame(t, 6, 7)

	result := g.Move(move(PlayerOne, 0, 0))

	assert.Equal(t, PlayerMoveResult{MoveSuccessful: true}, result)
	d := g.Details()
	assert.Equal(t, PlayerTwo, d.ActivePlayer)
	assert.Equal(t, 20, d.PlayerStats[PlayerOne].RemainingDiscs)
	assert.Equal(t, 21, d.PlayerStats[PlayerTwo].RemainingDiscs)
	occupant, ok := d.Board.At(0, 0).Occupant()
	require.True(t, ok)
	assert.Equal(t, PlayerOne, occupant)
}

func TestMoveRejections(t *testing.T) {
	tests := []struct {
		name    string
		rows    int
		columns int
		setup   []PlayerMoveDetails
		move    PlayerMoveDetails
		message string
	}{
		{
			name: "no disc below", rows: 2, columns: 2,
			move:    move(PlayerOne, 1, 0),
			message: "The cell of row 1 and column 0 cannot be placed as there is no disc below it",
		},
		{
			name: "wrong player", rows: 6, columns: 7,
			move:    move(PlayerTwo, 0, 0),
			message: "Player 2 cannot move as player 1 is currently active",
		},
		{
			name: "occupied", rows: 6, columns: 7,
			setup:   []PlayerMoveDetails{move(PlayerOne, 0, 3)},
			move:    move(PlayerTwo, 0, 3),
			message: "The cell of row 0 and column 3 is already occupied",
		},
		{
			name: "row out of bounds", rows: 6, columns: 7,
			move:    move(PlayerOne, 6, 0),
			message: "The move to row 6 and column 0 is outside the board. The row must be between 0 and 5",
		},
		{
			name: "column out of bounds", rows: 6, columns: 7,
			move:    move(PlayerOne, 0, -1),
			message: "The move to row 0 and column -1 is outside the board. The column must be between 0 and 6",
		},
		{
			name: "both out of bounds", rows: 6, columns: 7,
			move:    move(PlayerOne, -2, 9),
			message: "The move to row -2 and column 9 is outside the board. The row must be between 0 and 5 and the column must be between 0 and 6",
		},
		{
			name: "turn check runs before bounds", rows: 6, columns: 7,
			move:    move(PlayerTwo, 99, 99),
			message: "Player 2 cannot move as player 1 is currently active",
		},
		{
			name: "single cell board has no discs", rows: 1, columns: 1,
			move:    move(PlayerOne, 0, 0),
			message: "Player 1 has no discs remaining",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, tt.rows, tt.columns)
			for _, m := range tt.setup {
				require.True(t, g.Move(m).MoveSuccessful)
			}
			before := g.Details()

			result := g.Move(tt.move)

			assert.False(t, result.MoveSuccessful)
			assert.Equal(t, tt.message, result.Message)
			assert.Equal(t, before, g.Details())
		})
	}
}

// Scenario C
func TestHorizontalWinOnNarrowBoard(t *testing.T) {
	g := newTestGame(t, 2, 4)
	moves := []PlayerMoveDetails{
		move(PlayerOne, 0, 0), move(PlayerTwo, 1, 0),
		move(PlayerOne, 0, 1), move(PlayerTwo, 1, 1),
		move(PlayerOne, 0, 2), move(PlayerTwo, 1, 2),
	}
	for _, m := range moves {
		require.True(t, g.Move(m).MoveSuccessful)
		require.Equal(t, StatusInProgress, g.Details().GameStatus)
	}

	require.True(t, g.Move(move(PlayerOne, 0, 3)).MoveSuccessful)
	assert.Equal(t, StatusPlayerOneWon, g.Details().GameStatus)

	result := g.Move(move(PlayerTwo, 1, 3))
	assert.False(t, result.MoveSuccessful)
	assert.Equal(t, "You cannot make a move, player 1 has already won the game", result.Message)
}

func TestPlayerTwoVerticalWin(t *testing.T) {
	g := newTestGame(t, 6, 7)
	moves := []PlayerMoveDetails{
		move(PlayerOne, 0, 0), move(PlayerTwo, 0, 1),
		move(PlayerOne, 0, 2), move(PlayerTwo, 1, 1),
		move(PlayerOne, 0, 3), move(PlayerTwo, 2, 1),
		move(PlayerOne, 1, 0),
	}
	for _, m := range moves {
		require.True(t, g.Move(m).MoveSuccessful, "%+v", m)
	}

	require.True(t, g.Move(move(PlayerTwo, 3, 1)).MoveSuccessful)
	assert.Equal(t, StatusPlayerTwoWon, g.Details().GameStatus)

	result := g.Move(move(PlayerOne, 1, 2))
	assert.Equal(t, "You cannot make a move, player 2 has already won the game", result.Message)
}

func TestDrawWhenDiscsRunOut(t *testing.T) {
	g := newTestGame(t, 2, 2)
	moves := []PlayerMoveDetails{
		move(PlayerOne, 0, 0), move(PlayerTwo, 0, 1),
		move(PlayerOne, 1, 0),
	}
	for _, m := range moves {
		require.True(t, g.Move(m).MoveSuccessful)
	}
	require.Equal(t, StatusInProgress, g.Details().GameStatus)

	require.True(t, g.Move(move(PlayerTwo, 1, 1)).MoveSuccessful)
	assert.Equal(t, StatusDraw, g.Details().GameStatus)

	result := g.Move(move(PlayerOne, 1, 1))
	assert.Equal(t, "You cannot make a move, the game has already ended in a draw", result.Message)
}

func TestOddBoardDrawsWithOneEmptyCell(t *testing.T) {
	g := newTestGame(t, 1, 3)
	require.True(t, g.Move(move(PlayerOne, 0, 0)).MoveSuccessful)
	require.True(t, g.Move(move(PlayerTwo, 0, 1)).MoveSuccessful)

	assert.Equal(t, StatusDraw, g.Details().GameStatus)
	assert.Equal(t, 2, g.Board().OccupiedCells())
}

// fills a standard board column by column with a pattern that never lines
// up four, checking the move invariants after every placement
func TestInvariantsOverFullGame(t *testing.T) {
	g := newTestGame(t, 6, 7)
	dims := g.Details().BoardDimensions

	// column order chosen so that no four in a row appears before the end
	columns := []int{0, 1, 0, 1, 0, 1, 1, 0, 1, 0, 1, 0,
		2, 3, 2, 3, 2, 3, 3, 2, 3, 2, 3, 2,
		4, 5, 4, 5, 4, 5, 5, 4, 5, 4, 5, 4,
		6, 6, 6, 6, 6, 6}
	heights := make([]int, dims.Columns)
	expected := PlayerOne

	for i, column := range columns {
		d := g.Details()
		if d.GameStatus.IsTerminal() {
			break
		}
		require.Equal(t, expected, d.ActivePlayer, "move %d", i)

		result := g.Move(move(d.ActivePlayer, heights[column], column))
		require.True(t, result.MoveSuccessful, "move %d: %s", i, result.Message)
		heights[column]++
		expected = expected.Other()

		after := g.Details()
		occupied := after.Board.OccupiedCells()
		assert.Equal(t, dims.Cells(), after.PlayerStats[PlayerOne].RemainingDiscs+after.PlayerStats[PlayerTwo].RemainingDiscs+occupied)
		assert.GreaterOrEqual(t, after.PlayerStats[PlayerOne].RemainingDiscs, 0)
		assert.GreaterOrEqual(t, after.PlayerStats[PlayerTwo].RemainingDiscs, 0)
		for c := 0; c < dims.Columns; c++ {
			for r := 1; r < dims.Rows; r++ {
				if after.Board.IsFilled(r, c) {
					assert.True(t, after.Board.IsFilled(r-1, c), "floating disc at %d,%d", r, c)
				}
			}
		}
	}
}

func TestTerminalStateIsIdempotent(t *testing.T) {
	g := newTestGame(t, 2, 4)
	for _, m := range []PlayerMoveDetails{
		move(PlayerOne, 0, 0), move(PlayerTwo, 1, 0),
		move(PlayerOne, 0, 1), move(PlayerTwo, 1, 1),
		move(PlayerOne, 0, 2), move(PlayerTwo, 1, 2),
		move(PlayerOne, 0, 3),
	} {
		require.True(t, g.Move(m).MoveSuccessful)
	}
	final := g.Details()

	for _, m := range []PlayerMoveDetails{
		move(PlayerTwo, 1, 3), move(PlayerOne, 1, 3), move(PlayerTwo, 9, 9),
	} {
		assert.False(t, g.Move(m).MoveSuccessful)
		assert.Equal(t, final, g.Details())
	}
}

func TestGameFromDetails(t *testing.T) {
	g := newTestGame(t, 6, 7)
	require.True(t, g.Move(move(PlayerOne, 0, 4)).MoveSuccessful)

	restored, err := GameFromDetails(g.Details())
	require.NoError(t, err)
	assert.Equal(t, g.Details(), restored.Details())

	result := restored.Move(move(PlayerTwo, 1, 4))
	assert.True(t, result.MoveSuccessful)
	assert.True(t, g.Board().At(1, 4).IsEmpty(), "restored game must not share the board")

	broken := g.Details()
	broken.BoardDimensions = BoardDimensions{Rows: 5, Columns: 7}
	_, err = GameFromDetails(broken)
	assert.ErrorIs(t, err, ErrCorruptGameDetails)

	broken = g.Details()
	delete(broken.PlayerStats, PlayerTwo)
	_, err = GameFromDetails(broken)
	assert.ErrorIs(t, err, ErrCorruptGameDetails)
}

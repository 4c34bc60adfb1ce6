package domain

import (
	"encoding/json"
	"fmt"
)

// Cell is either empty (0) or occupied by one of the two players
type Cell uint8

const Empty Cell = 0

func Occupied(p PlayerNumber) Cell {
	return Cell(p)
}

func (c Cell) IsEmpty() bool {
	return c == Empty
}

func (c Cell) Occupant() (PlayerNumber, bool) {
	if c == Empty {
		return 0, false
	}
	return PlayerNumber(c), true
}

// Board is a fixed rows x columns grid stored in row-major order.
// Row 0 is the bottom row, so gravity pulls discs towards lower row indexes.
type Board struct {
	rows    int
	columns int
	cells   []Cell
}

func NewBoard(dims BoardDimensions) Board {
	return Board{
		rows:    dims.Rows,
		columns: dims.Columns,
		cells:   make([]Cell, dims.Rows*dims.Columns),
	}
}

func (b Board) Rows() int    { return b.rows }
func (b Board) Columns() int { return b.columns }

func (b Board) Dimensions() BoardDimensions {
	return BoardDimensions{Rows: b.rows, Columns: b.columns}
}

func (b Board) index(row, column int) int {
	return row*b.columns + column
}

// At returns the cell at row, column. Callers must check bounds first.
func (b Board) At(row, column int) Cell {
	return b.cells[b.index(row, column)]
}

func (b Board) set(row, column int, c Cell) {
	b.cells[b.index(row, column)] = c
}

// IsFilled reports whether the cell holds a disc. Any row below the board
// counts as filled, the floor under the bottom row is always solid.
func (b Board) IsFilled(row, column int) bool {
	if row < 0 {
		return true
	}
	return !b.At(row, column).IsEmpty()
}

// OccupiedCells counts the discs on the board
func (b Board) OccupiedCells() int {
	n := 0
	for _, c := range b.cells {
		if !c.IsEmpty() {
			n++
		}
	}
	return n
}

// Copy creates an independent board, writes to it never reach b
func (b Board) Copy() Board {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	return Board{rows: b.rows, columns: b.columns, cells: cells}
}

// Column returns the cells of one column, bottom to top
func (b Board) Column(column int) []Cell {
	out := make([]Cell, b.rows)
	for r := 0; r < b.rows; r++ {
		out[r] = b.At(r, column)
	}
	return out
}

// Row returns the cells of one row, left to right
func (b Board) Row(row int) []Cell {
	out := make([]Cell, b.columns)
	copy(out, b.cells[b.index(row, 0):b.index(row, 0)+b.columns])
	return out
}

// Grid converts the board into nested int slices for storage and the wire
func (b Board) Grid() [][]int {
	grid := make([][]int, b.rows)
	for r := range grid {
		grid[r] = make([]int, b.columns)
		for c := range grid[r] {
			grid[r][c] = int(b.At(r, c))
		}
	}
	return grid
}

// BoardFromGrid is the inverse of Grid. The grid must be rectangular and
// only hold 0, 1 or 2.
func BoardFromGrid(grid [][]int) (Board, error) {
	rows := len(grid)
	if rows == 0 {
		return Board{}, fmt.Errorf("%w: empty board", ErrCorruptGameDetails)
	}
	columns := len(grid[0])
	b := NewBoard(BoardDimensions{Rows: rows, Columns: columns})
	for r, line := range grid {
		if len(line) != columns {
			return Board{}, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrCorruptGameDetails, r, len(line), columns)
		}
		for c, v := range line {
			if v != int(Empty) && !PlayerNumber(v).Valid() {
				return Board{}, fmt.Errorf("%w: cell %d,%d holds %d", ErrCorruptGameDetails, r, c, v)
			}
			b.set(r, c, Cell(v))
		}
	}
	return b, nil
}

func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Grid())
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var grid [][]int
	if err := json.Unmarshal(data, &grid); err != nil {
		return err
	}
	parsed, err := BoardFromGrid(grid)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

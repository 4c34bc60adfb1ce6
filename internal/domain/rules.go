package domain

// IsWinningMove reports whether placing move.Player at move.TargetCell on
// board completes four in a row. The board is the one before placement: the
// target cell is substituted with the player on every line scanned. A target
// off the board never wins.
func IsWinningMove(board Board, move PlayerMoveDetails) bool {
	if !board.Dimensions().Contains(move.TargetCell) {
		return false
	}
	return checkVertical(board, move) ||
		checkHorizontal(board, move) ||
		checkRisingDiagonal(board, move) ||
		checkFallingDiagonal(board, move)
}

func checkVertical(board Board, move PlayerMoveDetails) bool {
	line := board.Column(move.TargetCell.Column)
	line[move.TargetCell.Row] = Occupied(move.Player)
	return hasFourInARow(line, move.Player)
}

func checkHorizontal(board Board, move PlayerMoveDetails) bool {
	line := board.Row(move.TargetCell.Row)
	line[move.TargetCell.Column] = Occupied(move.Player)
	return hasFourInARow(line, move.Player)
}

// diagonals only exist on boards with at least ToWin cells in both axes
func supportsDiagonals(board Board) bool {
	return board.Rows() >= ToWin && board.Columns() >= ToWin
}

// bottom-left to top-right ("/" with row 0 at the bottom)
func checkRisingDiagonal(board Board, move PlayerMoveDetails) bool {
	if !supportsDiagonals(board) {
		return false
	}
	row, column := move.TargetCell.Row, move.TargetCell.Column
	back := min(row, column)
	return scanDiagonal(board, move, row-back, column-back, 1, 1)
}

// top-left to bottom-right ("\" with row 0 at the bottom)
func checkFallingDiagonal(board Board, move PlayerMoveDetails) bool {
	if !supportsDiagonals(board) {
		return false
	}
	row, column := move.TargetCell.Row, move.TargetCell.Column
	back := min(board.Rows()-1-row, column)
	return scanDiagonal(board, move, row+back, column-back, -1, 1)
}

// scanDiagonal walks from the start cell by (deltaRow, deltaCol) until
// either axis leaves the board
func scanDiagonal(board Board, move PlayerMoveDetails, row, column, deltaRow, deltaCol int) bool {
	var line []Cell
	for r, c := row, column; r >= 0 && r < board.Rows() && c >= 0 && c < board.Columns(); r, c = r+deltaRow, c+deltaCol {
		if r == move.TargetCell.Row && c == move.TargetCell.Column {
			line = append(line, Occupied(move.Player))
			continue
		}
		line = append(line, board.At(r, c))
	}
	return hasFourInARow(line, move.Player)
}

func hasFourInARow(line []Cell, player PlayerNumber) bool {
	count := 0
	for _, cell := range line {
		if occupant, ok := cell.Occupant(); ok && occupant == player {
			count++
			if count >= ToWin {
				return true
			}
		} else {
			count = 0
		}
	}
	return false
}

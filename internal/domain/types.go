package domain

import "fmt"

type PlayerNumber int

const (
	PlayerOne PlayerNumber = 1
	PlayerTwo PlayerNumber = 2
)

func (p PlayerNumber) Valid() bool {
	return p == PlayerOne || p == PlayerTwo
}

// Other returns the opponent of p
func (p PlayerNumber) Other() PlayerNumber {
	if p == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

const (
	DefaultRows    = 6
	DefaultColumns = 7
	ToWin          = 4
)

// to represent the game status
type GameStatus string

const (
	StatusInProgress   GameStatus = "IN_PROGRESS"
	StatusPlayerOneWon GameStatus = "PLAYER_ONE_WON"
	StatusPlayerTwoWon GameStatus = "PLAYER_TWO_WON"
	StatusDraw         GameStatus = "DRAW"
)

func (s GameStatus) IsTerminal() bool {
	return s == StatusPlayerOneWon || s == StatusPlayerTwoWon || s == StatusDraw
}

// wonBy maps a winning player onto its terminal status
func wonBy(p PlayerNumber) GameStatus {
	if p == PlayerOne {
		return StatusPlayerOneWon
	}
	return StatusPlayerTwoWon
}

type BoardDimensions struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// NewBoardDimensions validates rows and columns. With requireEven set an
// odd number of cells is rejected so discs split evenly between players.
func NewBoardDimensions(rows, columns int, requireEven bool) (BoardDimensions, error) {
	if rows < 1 || columns < 1 {
		return BoardDimensions{}, fmt.Errorf("%w: %dx%d must both be positive", ErrInvalidBoardDimensions, rows, columns)
	}
	if requireEven && (rows*columns)%2 != 0 {
		return BoardDimensions{}, fmt.Errorf("%w: %dx%d has an odd number of cells", ErrInvalidBoardDimensions, rows, columns)
	}
	return BoardDimensions{Rows: rows, Columns: columns}, nil
}

func (d BoardDimensions) Cells() int {
	return d.Rows * d.Columns
}

func (d BoardDimensions) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < d.Rows && p.Column >= 0 && p.Column < d.Columns
}

type PlayerStats struct {
	PlayerNumber   PlayerNumber `json:"playerNumber"`
	RemainingDiscs int          `json:"remainingDiscs"`
}

type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

type PlayerMoveDetails struct {
	Player     PlayerNumber `json:"player"`
	TargetCell Position     `json:"targetCell"`
}

type PlayerMoveResult struct {
	MoveSuccessful bool   `json:"moveSuccessful"`
	Message        string `json:"message,omitempty"`
}

func rejected(format string, args ...any) PlayerMoveResult {
	return PlayerMoveResult{MoveSuccessful: false, Message: fmt.Sprintf(format, args...)}
}

// GameDetails is the unit of persistence for a single game.
// Version is owned by the stores and bumped on every successful save.
type GameDetails struct {
	UUID            string                       `json:"uuid"`
	Board           Board                        `json:"board"`
	BoardDimensions BoardDimensions              `json:"boardDimensions"`
	ActivePlayer    PlayerNumber                 `json:"activePlayer"`
	PlayerStats     map[PlayerNumber]PlayerStats `json:"playerStats"`
	GameStatus      GameStatus                   `json:"gameStatus"`
	Version         int64                        `json:"version"`
}

// Clone returns a copy sharing no memory with d
func (d GameDetails) Clone() GameDetails {
	out := d
	out.Board = d.Board.Copy()
	out.PlayerStats = make(map[PlayerNumber]PlayerStats, len(d.PlayerStats))
	for k, v := range d.PlayerStats {
		out.PlayerStats[k] = v
	}
	return out
}

const EventPlayerMoved = "PLAYER_MOVED"

type MovePayload struct {
	Player     PlayerNumber `json:"player"`
	TargetCell Position     `json:"targetCell"`
}

type MoveEvent struct {
	Type     string      `json:"type"`
	GameUUID string      `json:"gameUuid"`
	Payload  MovePayload `json:"payload"`
}

func NewMoveEvent(gameUUID string, move PlayerMoveDetails) MoveEvent {
	return MoveEvent{
		Type:     EventPlayerMoved,
		GameUUID: gameUUID,
		Payload:  MovePayload{Player: move.Player, TargetCell: move.TargetCell},
	}
}

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidBoardDimensions Error = "invalid board dimensions"
	ErrCorruptGameDetails     Error = "corrupt game details"
	ErrNoSuchGame             Error = "no such game"
	ErrNoSuchSession          Error = "no such session"
	ErrActiveGameInProgress   Error = "session already has an active game in progress"
	ErrNoActiveGame           Error = "session has no active game"
	ErrStaleVersion           Error = "stale version"
	ErrNotSessionParticipant  Error = "not a participant of the session"
)

package entity

import (
	"time"
)

const (
	BoardRows = 6
	BoardCols = 7

	ColorWhite = "white"
	ColorBlack = "black"

	TokenWhite = "w"
	TokenBlack = "b"
	EmptyCell  = " "
)

// Seat binds a color to the connection holding it. A zero Socket means the
// seat is still open.
type Seat struct {
	Socket   string `json:"socket"`
	Username string `json:"username"`
}

// Board cells hold TokenWhite, TokenBlack or EmptyCell. Row 0 is the top,
// row BoardRows-1 the bottom, so gravity moves toward higher row indexes.
type Board [BoardRows][BoardCols]string

// Game is the per-room Connect-Four state machine. The json tags match the
// wire format clients reconcile against in game_update broadcasts.
type Game struct {
	PlayerWhite  Seat   `json:"player_white"`
	PlayerBlack  Seat   `json:"player_black"`
	LastMoveTime int64  `json:"last_move_time"`
	WhoseTurn    string `json:"whose_turn"`
	Board        Board  `json:"board"`
	LegalMoves   Board  `json:"legal_moves"`
}

// NewGame - returns a fresh game: empty board, black to move, both seats open.
func NewGame() *Game {
	game := &Game{
		WhoseTurn:    ColorBlack,
		LastMoveTime: time.Now().UnixMilli(),
	}

	for row := range game.Board {
		for column := range game.Board[row] {
			game.Board[row][column] = EmptyCell
		}
	}

	game.recalculateLegalMoves()

	return game
}

// TokenFor - maps a color to the single-character board token.
func TokenFor(color string) string {
	if color == ColorWhite {
		return TokenWhite
	}

	return TokenBlack
}

// OtherColor - flips white to black and back.
func OtherColor(color string) string {
	if color == ColorWhite {
		return ColorBlack
	}

	return ColorWhite
}

// ValidPosition reports whether row/column address a real board cell.
func ValidPosition(row, column int) bool {
	return row >= 0 && row < BoardRows && column >= 0 && column < BoardCols
}

// SeatFor - returns the seat bound to the given color.
func (that *Game) SeatFor(color string) Seat {
	if color == ColorWhite {
		return that.PlayerWhite
	}

	return that.PlayerBlack
}

// AssignSeat - binds the connection to the first open seat, white before black.
// Returns true when the connection already holds a seat or just got one; false
// means both seats belong to other connections and the caller should evict it.
func (that *Game) AssignSeat(connectionID, username string) bool {
	if that.PlayerWhite.Socket == connectionID || that.PlayerBlack.Socket == connectionID {
		return true
	}

	if that.PlayerWhite.Socket == "" {
		that.PlayerWhite = Seat{Socket: connectionID, Username: username}
		return true
	}

	if that.PlayerBlack.Socket == "" {
		that.PlayerBlack = Seat{Socket: connectionID, Username: username}
		return true
	}

	return false
}

// DropRow - resolves gravity: from the requested row, descend while the cell
// directly below is still empty. Clients may request any row of a column and
// the token settles on the lowest open one.
func (that *Game) DropRow(row, column int) int {
	for row != BoardRows-1 && that.Board[row+1][column] == EmptyCell {
		row++
	}

	return row
}

// ApplyMove - writes the mover's token at the gravity-resolved cell, flips the
// turn and recomputes the legal-move grid for the next mover. Returns the row
// the token actually landed on. The caller validates turn and seat ownership
// before calling.
func (that *Game) ApplyMove(row, column int, color string) int {
	row = that.DropRow(row, column)

	that.Board[row][column] = TokenFor(color)
	that.WhoseTurn = OtherColor(color)
	that.LastMoveTime = time.Now().UnixMilli()

	that.recalculateLegalMoves()

	return row
}

// recalculateLegalMoves - marks every still-empty cell for the current mover.
// This grid is a client hover hint, not a server-side legality gate; gravity
// resolves the final cell at move time.
func (that *Game) recalculateLegalMoves() {
	token := TokenFor(that.WhoseTurn)

	for row := range that.Board {
		for column := range that.Board[row] {
			if that.Board[row][column] == EmptyCell {
				that.LegalMoves[row][column] = token
			} else {
				that.LegalMoves[row][column] = EmptyCell
			}
		}
	}
}

// OpenSpots - counts the empty cells left on the board.
func (that *Game) OpenSpots() int {
	open := 0

	for row := range that.Board {
		for column := range that.Board[row] {
			if that.Board[row][column] == EmptyCell {
				open++
			}
		}
	}

	return open
}

// winDirections: vertical, both diagonals, horizontal.
var winDirections = [4][2]int{
	{1, 0},
	{1, 1},
	{1, -1},
	{0, 1},
}

// HasWinningLine - slides a 4-cell window along each axis through the played
// cell (window offsets -3..0) looking for four tokens of the mover's color.
//
// Cells on the outer border of the grid break a run: a window cell only
// matches when 0 < row < BoardRows-1 and 0 < column < BoardCols-1. The
// playable border is therefore one cell smaller for win purposes than the
// board itself. Known quirk, kept on purpose.
func (that *Game) HasWinningLine(row, column int, color string) bool {
	token := TokenFor(color)

	for _, direction := range winDirections {
		for shift := 0; shift < 4; shift++ {
			run := 0

			for i := 0; i < 4; i++ {
				rowPos := row + (i-shift)*direction[0]
				columnPos := column + (i-shift)*direction[1]

				if rowPos <= 0 || rowPos >= BoardRows-1 || columnPos <= 0 || columnPos >= BoardCols-1 {
					break
				}

				if that.Board[rowPos][columnPos] != token {
					break
				}

				run++
			}

			if run == 4 {
				return true
			}
		}
	}

	return false
}

package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	// When: create a new game instance
	game := NewGame()

	// Then: black moves first and both seats are open
	require.NotNil(t, game)
	assert.Equal(t, ColorBlack, game.WhoseTurn)
	assert.Empty(t, game.PlayerWhite.Socket)
	assert.Empty(t, game.PlayerBlack.Socket)
	assert.NotZero(t, game.LastMoveTime)

	// Then: the board is empty and every cell is legal for black
	for row := 0; row < BoardRows; row++ {
		for column := 0; column < BoardCols; column++ {
			assert.Equal(t, EmptyCell, game.Board[row][column])
			assert.Equal(t, TokenBlack, game.LegalMoves[row][column])
		}
	}
}

func TestGame_DropRow(t *testing.T) {
	t.Run("empty column resolves to the bottom row", func(t *testing.T) {
		game := NewGame()

		// When: any row of an empty column is requested
		for row := 0; row < BoardRows; row++ {
			assert.Equal(t, BoardRows-1, game.DropRow(row, 3))
		}
	})

	t.Run("token settles on top of the stack", func(t *testing.T) {
		// Given: two tokens already at the bottom of column 2
		game := NewGame()
		game.Board[5][2] = TokenBlack
		game.Board[4][2] = TokenWhite

		// When: row 0 is requested
		// Then: the token lands directly above the stack
		assert.Equal(t, 3, game.DropRow(0, 2))
	})
}

func TestGame_ApplyMove(t *testing.T) {
	t.Run("move lands, turn flips, legal moves follow the mover", func(t *testing.T) {
		game := NewGame()

		// When: black plays column 3 at the top row
		landed := game.ApplyMove(0, 3, ColorBlack)

		// Then: gravity resolves to the bottom row (regression: row 0 of an
		// otherwise-empty column must settle at row 5)
		require.Equal(t, 5, landed)
		assert.Equal(t, TokenBlack, game.Board[5][3])
		assert.Equal(t, ColorWhite, game.WhoseTurn)

		// Then: the legal-move grid now marks empty cells for white
		assert.Equal(t, TokenWhite, game.LegalMoves[0][3])
		assert.Equal(t, EmptyCell, game.LegalMoves[5][3])
	})

	t.Run("turn strictly alternates", func(t *testing.T) {
		game := NewGame()

		colors := []string{ColorBlack, ColorWhite, ColorBlack, ColorWhite}
		for i, color := range colors {
			require.Equal(t, color, game.WhoseTurn, "move %d", i)
			game.ApplyMove(0, i, color)
		}

		assert.Equal(t, ColorBlack, game.WhoseTurn)
	})
}

func TestGame_AssignSeat(t *testing.T) {
	game := NewGame()

	// When: two distinct connections arrive in order
	require.True(t, game.AssignSeat("conn-a", "alice"))
	require.True(t, game.AssignSeat("conn-b", "bob"))

	// Then: white goes to the first, black to the second
	assert.Equal(t, Seat{Socket: "conn-a", Username: "alice"}, game.PlayerWhite)
	assert.Equal(t, Seat{Socket: "conn-b", Username: "bob"}, game.PlayerBlack)

	// Then: re-assigning a seated connection is a no-op
	require.True(t, game.AssignSeat("conn-a", "alice"))
	assert.Equal(t, "conn-a", game.PlayerWhite.Socket)

	// Then: a third connection gets no seat
	assert.False(t, game.AssignSeat("conn-c", "carol"))
}

func TestGame_HasWinningLine(t *testing.T) {
	fill := func(game *Game, token string, cells [][2]int) {
		for _, cell := range cells {
			game.Board[cell[0]][cell[1]] = token
		}
	}

	t.Run("vertical", func(t *testing.T) {
		game := NewGame()
		fill(game, TokenBlack, [][2]int{{1, 3}, {2, 3}, {3, 3}, {4, 3}})

		assert.True(t, game.HasWinningLine(1, 3, ColorBlack))
	})

	t.Run("horizontal", func(t *testing.T) {
		game := NewGame()
		fill(game, TokenWhite, [][2]int{{4, 1}, {4, 2}, {4, 3}, {4, 4}})

		assert.True(t, game.HasWinningLine(4, 2, ColorWhite))
	})

	t.Run("diagonal down-right", func(t *testing.T) {
		game := NewGame()
		fill(game, TokenBlack, [][2]int{{1, 1}, {2, 2}, {3, 3}, {4, 4}})

		assert.True(t, game.HasWinningLine(3, 3, ColorBlack))
	})

	t.Run("diagonal down-left", func(t *testing.T) {
		game := NewGame()
		fill(game, TokenWhite, [][2]int{{1, 4}, {2, 3}, {3, 2}, {4, 1}})

		assert.True(t, game.HasWinningLine(2, 3, ColorWhite))
	})

	t.Run("wrong color does not win", func(t *testing.T) {
		game := NewGame()
		fill(game, TokenBlack, [][2]int{{1, 3}, {2, 3}, {3, 3}, {4, 3}})

		assert.False(t, game.HasWinningLine(1, 3, ColorWhite))
	})

	// The scan treats the outer border as a break: cells on row 0, row 5,
	// column 0 or column 6 never count toward a line.
	t.Run("bottom row never forms a line", func(t *testing.T) {
		game := NewGame()
		fill(game, TokenBlack, [][2]int{{5, 1}, {5, 2}, {5, 3}, {5, 4}})

		assert.False(t, game.HasWinningLine(5, 2, ColorBlack))
	})

	t.Run("first column never forms a line", func(t *testing.T) {
		game := NewGame()
		fill(game, TokenWhite, [][2]int{{1, 0}, {2, 0}, {3, 0}, {4, 0}})

		assert.False(t, game.HasWinningLine(2, 0, ColorWhite))
	})

	t.Run("a four-stack touching the bottom row is not a line", func(t *testing.T) {
		// Given: the first four tokens dropped into a column occupy rows
		// 5 down to 2; row 5 is border so the run is broken
		game := NewGame()
		fill(game, TokenBlack, [][2]int{{2, 3}, {3, 3}, {4, 3}, {5, 3}})

		assert.False(t, game.HasWinningLine(2, 3, ColorBlack))
	})
}

func TestGame_OpenSpots(t *testing.T) {
	game := NewGame()
	require.Equal(t, BoardRows*BoardCols, game.OpenSpots())

	game.ApplyMove(0, 3, ColorBlack)
	game.ApplyMove(0, 4, ColorWhite)

	assert.Equal(t, BoardRows*BoardCols-2, game.OpenSpots())
}

func TestValidPosition(t *testing.T) {
	assert.True(t, ValidPosition(0, 0))
	assert.True(t, ValidPosition(5, 6))
	assert.False(t, ValidPosition(-1, 0))
	assert.False(t, ValidPosition(6, 0))
	assert.False(t, ValidPosition(0, 7))
}

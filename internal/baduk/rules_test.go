package baduk

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/baduk-backend/internal/apperror"
	"github.com/rocketscienceinc/baduk-backend/internal/entity"
)

func pos(x, y int) entity.Position {
	return entity.Position{X: x, Y: y}
}

func boardWith(black, white []entity.Position) entity.Board {
	var board entity.Board

	for _, p := range black {
		board.Set(p, entity.Black)
	}

	for _, p := range white {
		board.Set(p, entity.White)
	}

	return board
}

func TestApply(t *testing.T) {
	t.Run("Places a single stone on an empty board", func(t *testing.T) {
		// Given: an empty board
		var board entity.Board

		// When: Black plays (3,3)
		result, err := Apply(board, 3, 3, entity.Black, nil)

		// Then: only (3,3) holds a Black stone and nothing is captured
		require.NoError(t, err)
		assert.Equal(t, 0, result.Captured)
		assert.Nil(t, result.KoPoint)

		expected := boardWith([]entity.Position{pos(3, 3)}, nil)
		assert.Equal(t, expected, result.NewBoard)
	})

	t.Run("Captures a lone corner stone and sets the ko point", func(t *testing.T) {
		// Given: a White stone at (0,0) whose other liberty is already filled by Black
		board := boardWith([]entity.Position{pos(1, 0)}, []entity.Position{pos(0, 0)})

		// When: Black fills the last liberty
		result, err := Apply(board, 0, 1, entity.Black, nil)

		// Then: the stone is removed and the ko point is where it stood
		require.NoError(t, err)
		assert.Equal(t, 1, result.Captured)
		assert.Equal(t, entity.Empty, result.NewBoard[0][0])
		require.NotNil(t, result.KoPoint)
		assert.Equal(t, pos(0, 0), *result.KoPoint)
	})

	t.Run("Rejects suicide and leaves the board unchanged", func(t *testing.T) {
		// Given: a point fully surrounded by White stones that keep other liberties
		board := boardWith(nil, []entity.Position{pos(1, 0), pos(0, 1), pos(2, 1), pos(1, 2)})
		before := board

		// When: Black plays into the point
		_, err := Apply(board, 1, 1, entity.Black, nil)

		// Then: the move is rejected as suicide
		require.ErrorIs(t, err, apperror.ErrSuicideMove)
		assert.Equal(t, before, board)
	})

	t.Run("Rejects suicide of a multi-stone group", func(t *testing.T) {
		// Given: a Black stone at (0,0) whose only liberty is (1,0), walled in by White
		board := boardWith(
			[]entity.Position{pos(0, 0)},
			[]entity.Position{pos(0, 1), pos(1, 1), pos(2, 0)},
		)

		// When: Black fills its own last liberty
		_, err := Apply(board, 1, 0, entity.Black, nil)

		// Then: the two-stone group would have no liberties
		require.ErrorIs(t, err, apperror.ErrSuicideMove)
	})

	t.Run("A placement without liberties that captures is legal", func(t *testing.T) {
		// Given: two White stones in atari next to the corner
		board := boardWith(
			[]entity.Position{pos(2, 0), pos(1, 1), pos(0, 2)},
			[]entity.Position{pos(1, 0), pos(0, 1)},
		)

		// When: Black plays the corner, touching only White stones
		result, err := Apply(board, 0, 0, entity.Black, nil)

		// Then: both groups are captured, counts sum and no ko point is set
		require.NoError(t, err)
		assert.Equal(t, 2, result.Captured)
		assert.Nil(t, result.KoPoint)
		assert.Equal(t, entity.Empty, result.NewBoard[0][1])
		assert.Equal(t, entity.Empty, result.NewBoard[1][0])
		assert.Equal(t, entity.Black, result.NewBoard[0][0])
	})

	t.Run("Capturing a multi-stone group sets no ko point", func(t *testing.T) {
		// Given: a two-stone White group on the edge with one liberty left
		board := boardWith(
			[]entity.Position{pos(0, 1), pos(1, 1), pos(2, 1)},
			[]entity.Position{pos(0, 0), pos(1, 0)},
		)

		// When: Black takes the last liberty
		result, err := Apply(board, 2, 0, entity.Black, nil)

		// Then: two stones are removed
		require.NoError(t, err)
		assert.Equal(t, 2, result.Captured)
		assert.Nil(t, result.KoPoint)
	})

	t.Run("Rejects out of bounds positions", func(t *testing.T) {
		var board entity.Board

		for _, p := range []entity.Position{pos(-1, 0), pos(0, -1), pos(19, 0), pos(0, 19)} {
			_, err := Apply(board, p.X, p.Y, entity.Black, nil)
			require.ErrorIs(t, err, apperror.ErrPositionOutOfBounds, "position %v", p)
		}
	})

	t.Run("Rejects occupied positions", func(t *testing.T) {
		// Given: a stone at (5,5)
		board := boardWith(nil, []entity.Position{pos(5, 5)})

		// When: Black plays on it
		_, err := Apply(board, 5, 5, entity.Black, nil)

		// Then: the move is rejected
		require.ErrorIs(t, err, apperror.ErrPositionOccupied)
	})

	t.Run("Rejects a play on the active ko point", func(t *testing.T) {
		// Given: an empty point flagged as ko
		var board entity.Board
		ko := pos(4, 4)

		// When: a stone is placed there
		_, err := Apply(board, 4, 4, entity.White, &ko)

		// Then: the ko rule rejects it
		require.ErrorIs(t, err, apperror.ErrKoViolation)
	})

	t.Run("Same inputs give the same result", func(t *testing.T) {
		board := boardWith([]entity.Position{pos(1, 0)}, []entity.Position{pos(0, 0)})

		first, err := Apply(board, 0, 1, entity.Black, nil)
		require.NoError(t, err)

		second, err := Apply(board, 0, 1, entity.Black, nil)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestGroupAndLiberties(t *testing.T) {
	t.Run("Counts shared liberties once", func(t *testing.T) {
		// Given: an L-shaped Black group in open space
		board := boardWith([]entity.Position{pos(5, 5), pos(6, 5), pos(5, 6)}, nil)

		// When: collecting the group and its liberties
		group := Group(board, pos(5, 5))
		libs := Liberties(board, group)

		// Then: (6,6) is adjacent to two stones but counted once
		assert.Len(t, group, 3)
		assert.Equal(t, 7, libs)
	})

	t.Run("Empty cells have no group", func(t *testing.T) {
		var board entity.Board

		assert.Empty(t, Group(board, pos(0, 0)))
	})

	t.Run("Corner cells have two neighbors", func(t *testing.T) {
		assert.Len(t, Neighbors(pos(0, 0)), 2)
		assert.Len(t, Neighbors(pos(18, 0)), 2)
		assert.Len(t, Neighbors(pos(9, 0)), 3)
		assert.Len(t, Neighbors(pos(9, 9)), 4)
	})
}

func TestApply_RandomPlayout(t *testing.T) {
	// Given: a seeded sequence of random placements alternating colors
	rnd := rand.New(rand.NewSource(42)) //nolint: gosec // deterministic test input

	var board entity.Board
	var koPoint *entity.Position
	player := entity.Black

	for range 2000 {
		x, y := rnd.Intn(entity.BoardSize), rnd.Intn(entity.BoardSize)

		// When: the placement is applied
		result, err := Apply(board, x, y, player, koPoint)
		if err != nil {
			continue
		}

		// Then: only the placed cell and captured opponent cells changed
		removed := 0
		for cy := range entity.BoardSize {
			for cx := range entity.BoardSize {
				before, after := board[cy][cx], result.NewBoard[cy][cx]
				switch {
				case cx == x && cy == y:
					require.Equal(t, player, after)
				case before != after:
					require.Equal(t, player.Opponent(), before)
					require.Equal(t, entity.Empty, after)
					removed++
				}
			}
		}

		require.Equal(t, result.Captured, removed)
		require.Equal(t, result.Captured == 1, result.KoPoint != nil)

		// And: the mover's group always keeps a liberty
		require.Positive(t, Liberties(result.NewBoard, Group(result.NewBoard, pos(x, y))))

		board = result.NewBoard
		koPoint = result.KoPoint
		player = player.Opponent()
	}
}

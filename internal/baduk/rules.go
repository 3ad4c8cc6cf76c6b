// Package baduk implements the rules of Go: move validation, captures, suicide and
// simple ko. Every function works on explicit inputs and returns fresh values.
package baduk

import (
	"fmt"

	"github.com/rocketscienceinc/baduk-backend/internal/apperror"
	"github.com/rocketscienceinc/baduk-backend/internal/entity"
)

// Result is the outcome of a legal placement.
type Result struct {
	NewBoard entity.Board
	Captured int
	KoPoint  *entity.Position
}

var directions = [4]entity.Position{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}

// Apply - validates a placement of player's stone at (x, y) and returns the board after
// captures. board is never modified.
func Apply(board entity.Board, x, y int, player entity.Stone, koPoint *entity.Position) (Result, error) {
	if !InBounds(x, y) {
		return Result{}, fmt.Errorf("%w: (%d, %d)", apperror.ErrPositionOutOfBounds, x, y)
	}

	pos := entity.Position{X: x, Y: y}

	if board.At(pos) != entity.Empty {
		return Result{}, fmt.Errorf("%w: (%d, %d)", apperror.ErrPositionOccupied, x, y)
	}

	if koPoint != nil && *koPoint == pos {
		return Result{}, fmt.Errorf("%w: (%d, %d)", apperror.ErrKoViolation, x, y)
	}

	if player != entity.Black && player != entity.White {
		return Result{}, fmt.Errorf("%w: unknown player %d", apperror.ErrInvalidMove, player)
	}

	next := board
	next.Set(pos, player)

	// opponent groups go first, so a placement that captures is never suicide
	captured := removeCaptured(&next, player.Opponent())

	var visited [entity.BoardSize][entity.BoardSize]bool
	if liberties(&next, flood(&next, pos, &visited)) == 0 {
		return Result{}, fmt.Errorf("%w: (%d, %d)", apperror.ErrSuicideMove, x, y)
	}

	result := Result{
		NewBoard: next,
		Captured: len(captured),
	}

	if len(captured) == 1 {
		koPoint := captured[0]
		result.KoPoint = &koPoint
	}

	return result, nil
}

// removeCaptured - removes every opponent group left without liberties and returns the
// removed positions.
func removeCaptured(board *entity.Board, opponent entity.Stone) []entity.Position {
	var visited [entity.BoardSize][entity.BoardSize]bool
	var captured []entity.Position

	for y := range entity.BoardSize {
		for x := range entity.BoardSize {
			p := entity.Position{X: x, Y: y}
			if board.At(p) != opponent || visited[y][x] {
				continue
			}

			group := flood(board, p, &visited)
			if liberties(board, group) > 0 {
				continue
			}

			for _, stone := range group {
				board.Set(stone, entity.Empty)
			}

			captured = append(captured, group...)
		}
	}

	return captured
}

// InBounds - reports whether (x, y) lies on the board.
func InBounds(x, y int) bool {
	return x >= 0 && x < entity.BoardSize && y >= 0 && y < entity.BoardSize
}

// Neighbors - returns the on-board 4-neighbors of p.
func Neighbors(p entity.Position) []entity.Position {
	neighbors := make([]entity.Position, 0, len(directions))

	for _, d := range directions {
		n := entity.Position{X: p.X + d.X, Y: p.Y + d.Y}
		if InBounds(n.X, n.Y) {
			neighbors = append(neighbors, n)
		}
	}

	return neighbors
}

// Group - returns the maximal connected group of same-colored stones containing p.
// An empty or off-board p has no group.
func Group(board entity.Board, p entity.Position) []entity.Position {
	if !InBounds(p.X, p.Y) || board.At(p) == entity.Empty {
		return nil
	}

	var visited [entity.BoardSize][entity.BoardSize]bool

	return flood(&board, p, &visited)
}

// Liberties - counts the distinct empty cells adjacent to group.
func Liberties(board entity.Board, group []entity.Position) int {
	return liberties(&board, group)
}

func flood(board *entity.Board, seed entity.Position, visited *[entity.BoardSize][entity.BoardSize]bool) []entity.Position {
	color := board.At(seed)
	group := make([]entity.Position, 0, 8)
	stack := []entity.Position{seed}
	visited[seed.Y][seed.X] = true

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		group = append(group, p)

		for _, n := range Neighbors(p) {
			if !visited[n.Y][n.X] && board.At(n) == color {
				visited[n.Y][n.X] = true
				stack = append(stack, n)
			}
		}
	}

	return group
}

func liberties(board *entity.Board, group []entity.Position) int {
	seen := make(map[entity.Position]struct{})

	for _, p := range group {
		for _, n := range Neighbors(p) {
			if board.At(n) == entity.Empty {
				seen[n] = struct{}{}
			}
		}
	}

	return len(seen)
}

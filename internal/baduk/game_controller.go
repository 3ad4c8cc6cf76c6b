package baduk

import (
	"fmt"

	"github.com/rocketscienceinc/baduk-backend/internal/apperror"
	"github.com/rocketscienceinc/baduk-backend/internal/entity"
)

// PlayMove - places the current player's stone at (x, y). On error game is left untouched.
func PlayMove(game *entity.GameState, x, y int) error {
	if err := game.ConfirmActive(); err != nil {
		return err
	}

	result, err := Apply(game.Board, x, y, game.CurrentPlayer, game.KoPoint)
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	game.Board = result.NewBoard
	game.LastMove = &entity.Position{X: x, Y: y}
	game.KoPoint = result.KoPoint
	game.Passed = false

	switch game.CurrentPlayer {
	case entity.Black:
		game.CapturedStones.Black += result.Captured
	case entity.White:
		game.CapturedStones.White += result.Captured
	case entity.Empty:
	}

	game.CurrentPlayer = game.CurrentPlayer.Opponent()

	return nil
}

// Pass - passes the current player's turn. A pass answering a pass ends the game with no
// winner; scoring is not computed.
func Pass(game *entity.GameState) error {
	if err := game.ConfirmActive(); err != nil {
		return err
	}

	if game.Passed {
		game.KoPoint = nil
		game.CurrentPlayer = game.CurrentPlayer.Opponent()
		game.Finish(entity.Empty)

		return nil
	}

	game.Passed = true
	game.LastMove = nil
	game.KoPoint = nil
	game.CurrentPlayer = game.CurrentPlayer.Opponent()

	return nil
}

// Resign - ends the game in favour of the other seat. Resigning before an opponent has
// joined is accepted; callers decide whether to allow it.
func Resign(game *entity.GameState, seat entity.Seat) error {
	if game.IsEnded() {
		return fmt.Errorf("%w: game has ended", apperror.ErrIllegalState)
	}

	if seat == entity.Unseated {
		return apperror.ErrNotSeated
	}

	game.Finish(seat.Stone().Opponent())

	return nil
}

package apperror

import "errors"

// Error texts are shown to participants as is.
//
//nolint: stylecheck // capitalized on purpose
var (
	ErrRoomNotFound        = errors.New("Room not found")
	ErrRoomFull            = errors.New("Room is full")
	ErrNotSeated           = errors.New("Player not in this game")
	ErrNotYourTurn         = errors.New("Not your turn")
	ErrPositionOutOfBounds = errors.New("Invalid position")
	ErrPositionOccupied    = errors.New("Position already occupied")
	ErrSuicideMove         = errors.New("Suicide move not allowed")
	ErrKoViolation         = errors.New("Ko rule violation")
	ErrIllegalState        = errors.New("Game is not in progress")
	ErrInvalidMove         = errors.New("Invalid move")
	ErrRateLimited         = errors.New("Too many requests")
)

// known lists every error whose text may be shown to a participant.
var known = []error{
	ErrRoomNotFound,
	ErrRoomFull,
	ErrNotSeated,
	ErrNotYourTurn,
	ErrPositionOutOfBounds,
	ErrPositionOccupied,
	ErrSuicideMove,
	ErrKoViolation,
	ErrIllegalState,
	ErrRateLimited,
}

// Message - returns the user-facing text for err. Anything outside the taxonomy
// collapses to the generic invalid move message.
func Message(err error) string {
	for _, target := range known {
		if errors.Is(err, target) {
			return target.Error()
		}
	}

	return ErrInvalidMove.Error()
}

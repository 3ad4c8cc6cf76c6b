package entity

import (
	"fmt"

	"github.com/rocketscienceinc/baduk-backend/internal/apperror"
)

const (
	StatusWaiting = "waiting"
	StatusActive  = "active"
	StatusEnded   = "ended"
)

// CapturedStones counts the stones each color has taken from the opponent.
type CapturedStones struct {
	Black int `json:"black"`
	White int `json:"white"`
}

type GameState struct {
	Board          Board          `json:"board"`
	CurrentPlayer  Stone          `json:"currentPlayer"`
	CapturedStones CapturedStones `json:"capturedStones"`
	LastMove       *Position      `json:"lastMove"`
	KoPoint        *Position      `json:"koPoint"`
	Passed         bool           `json:"passed"`
	Winner         *Stone         `json:"winner"`
	RoomID         string         `json:"roomId"`
	Players        Players        `json:"players"`
	Status         string         `json:"status"`
}

// NewGameState - returns an empty game waiting for players, Black to move.
func NewGameState(roomID string) *GameState {
	return &GameState{
		CurrentPlayer: Black,
		RoomID:        roomID,
		Status:        StatusWaiting,
	}
}

// SeatOf - resolves which seat id occupies in this game.
func (that *GameState) SeatOf(id string) Seat {
	switch {
	case that.Players.Black != nil && *that.Players.Black == id:
		return SeatBlack
	case that.Players.White != nil && *that.Players.White == id:
		return SeatWhite
	default:
		return Unseated
	}
}

// SeatOwner - binds the room creator to Black.
func (that *GameState) SeatOwner(id string) {
	that.Players.Black = &id
}

// Join - seats id in the free seat, White for a room created the usual way, and
// starts the game once both seats are taken. Occupied seats are never reassigned and
// joining a room one already sits in is a no-op.
func (that *GameState) Join(id string) error {
	if that.Players.Has(id) {
		return nil
	}

	switch {
	case that.Players.IsFull():
		return fmt.Errorf("%w: room %s", apperror.ErrRoomFull, that.RoomID)
	case that.Players.White == nil:
		that.Players.White = &id
	default:
		that.Players.Black = &id
	}

	if that.Players.IsFull() && that.IsWaiting() {
		that.Status = StatusActive
	}

	return nil
}

// Finish - moves the game to its terminal state. winner may be Empty for no winner.
func (that *GameState) Finish(winner Stone) {
	if winner != Empty {
		that.Winner = &winner
	}

	that.Status = StatusEnded
}

func (that *GameState) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *GameState) IsActive() bool {
	return that.Status == StatusActive
}

func (that *GameState) IsEnded() bool {
	return that.Status == StatusEnded || that.Winner != nil
}

// ConfirmActive - returns nil only while moves and passes are accepted.
func (that *GameState) ConfirmActive() error {
	switch {
	case that.IsEnded():
		return fmt.Errorf("%w: game has ended", apperror.ErrIllegalState)
	case that.IsWaiting():
		return fmt.Errorf("%w: waiting for an opponent", apperror.ErrIllegalState)
	case that.IsActive():
		return nil
	default:
		return fmt.Errorf("%w: unknown status %q", apperror.ErrIllegalState, that.Status)
	}
}

// Clone - returns a deep copy that shares no pointers with the receiver.
func (that *GameState) Clone() *GameState {
	clone := *that

	if that.LastMove != nil {
		lastMove := *that.LastMove
		clone.LastMove = &lastMove
	}

	if that.KoPoint != nil {
		koPoint := *that.KoPoint
		clone.KoPoint = &koPoint
	}

	if that.Winner != nil {
		winner := *that.Winner
		clone.Winner = &winner
	}

	if that.Players.Black != nil {
		black := *that.Players.Black
		clone.Players.Black = &black
	}

	if that.Players.White != nil {
		white := *that.Players.White
		clone.Players.White = &white
	}

	return &clone
}

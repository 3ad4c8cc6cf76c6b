// Package session turns participant requests into room operations and fans the results
// out to the members of the room.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/baduk-backend/internal/apperror"
	"github.com/rocketscienceinc/baduk-backend/internal/baduk"
	"github.com/rocketscienceinc/baduk-backend/internal/entity"
)

const (
	msgCreateFailed  = "Failed to create room"
	msgUnknownAction = "Unknown action"
)

type roomRegistry interface {
	CreateRoom(ctx context.Context, ownerID string) (string, *entity.GameState, error)
	JoinRoom(ctx context.Context, roomID, playerID string) (*entity.GameState, error)
	Mutate(ctx context.Context, roomID string, fn func(game *entity.GameState) error) (*entity.GameState, error)
	ScheduleDeletion(roomID string, delay time.Duration)
	CleanupByPlayer(ctx context.Context, playerID string) []string
}

// Broadcaster delivers outbound messages. Room groups are keyed by room id, connections
// by participant id.
type Broadcaster interface {
	Join(roomID, connID string)
	Leave(roomID, connID string)
	Disband(roomID string)
	Send(connID string, msg Outbound)
	Broadcast(roomID string, msg Outbound)
}

// Timeouts of the deferred room deletions. Zero disables the corresponding timer.
type Timeouts struct {
	Waiting  time.Duration
	Finished time.Duration
}

type Handler struct {
	logger   *slog.Logger
	rooms    roomRegistry
	out      Broadcaster
	timeouts Timeouts
}

func New(logger *slog.Logger, rooms roomRegistry, out Broadcaster, timeouts Timeouts) *Handler {
	return &Handler{
		logger:   logger.With("component", "session"),
		rooms:    rooms,
		out:      out,
		timeouts: timeouts,
	}
}

// Handle - processes one request from connID. Failures are reported to connID only.
func (that *Handler) Handle(ctx context.Context, connID string, msg Inbound) {
	switch req := msg.(type) {
	case CreateRoom:
		that.handleCreateRoom(ctx, connID)
	case JoinRoom:
		that.handleJoinRoom(ctx, connID, req)
	case MakeMove:
		that.handleMakeMove(ctx, connID, req)
	case Pass:
		that.handlePass(ctx, connID, req)
	case Resign:
		that.handleResign(ctx, connID, req)
	default:
		that.logger.Warn("unknown request", "connID", connID, "type", fmt.Sprintf("%T", msg))
		that.out.Send(connID, Error{Message: msgUnknownAction})
	}
}

// Reject - reports a request that never reached the handler, e.g. a malformed payload.
func (that *Handler) Reject(connID string, err error) {
	if errors.Is(err, ErrUnknownAction) {
		that.logger.Warn("unknown action", "connID", connID, "error", err)
		that.out.Send(connID, Error{Message: msgUnknownAction})

		return
	}

	that.reject(connID, "request", err)
}

// Disconnect - deletes every room connID was seated in and tells the remaining members.
func (that *Handler) Disconnect(ctx context.Context, connID string) {
	log := that.logger.With("method", "Disconnect", "connID", connID)

	for _, roomID := range that.rooms.CleanupByPlayer(ctx, connID) {
		that.out.Leave(roomID, connID)
		that.out.Broadcast(roomID, PlayerDisconnected{})
		that.out.Disband(roomID)

		log.Info("room closed after disconnect", "roomID", roomID)
	}
}

func (that *Handler) handleCreateRoom(ctx context.Context, connID string) {
	log := that.logger.With("method", "handleCreateRoom", "connID", connID)

	roomID, state, err := that.rooms.CreateRoom(ctx, connID)
	if err != nil {
		log.Error("failed to create room", "error", err)
		that.out.Send(connID, Error{Message: msgCreateFailed})

		return
	}

	that.out.Join(roomID, connID)
	that.out.Send(connID, RoomCreated{RoomID: roomID, GameState: state})

	if that.timeouts.Waiting > 0 {
		that.rooms.ScheduleDeletion(roomID, that.timeouts.Waiting)
	}

	log.Info("room created", "roomID", roomID)
}

func (that *Handler) handleJoinRoom(ctx context.Context, connID string, req JoinRoom) {
	log := that.logger.With("method", "handleJoinRoom", "connID", connID, "roomID", req.RoomID)

	state, err := that.rooms.JoinRoom(ctx, req.RoomID, connID)
	if err != nil {
		that.reject(connID, "join-room", err)
		return
	}

	that.out.Join(req.RoomID, connID)

	if !state.IsActive() {
		that.out.Send(connID, GameUpdate{State: state})
		return
	}

	that.out.Broadcast(req.RoomID, GameStart{State: state})

	log.Info("game started")
}

func (that *Handler) handleMakeMove(ctx context.Context, connID string, req MakeMove) {
	state, err := that.rooms.Mutate(ctx, req.RoomID, guarded(func(game *entity.GameState) error {
		if _, err := authorize(game, connID, true); err != nil {
			return err
		}

		return baduk.PlayMove(game, req.X, req.Y)
	}))
	if err != nil {
		that.reject(connID, "make-move", err)
		return
	}

	that.out.Broadcast(req.RoomID, GameUpdate{State: state})
}

func (that *Handler) handlePass(ctx context.Context, connID string, req Pass) {
	state, err := that.rooms.Mutate(ctx, req.RoomID, guarded(func(game *entity.GameState) error {
		if _, err := authorize(game, connID, true); err != nil {
			return err
		}

		return baduk.Pass(game)
	}))
	if err != nil {
		that.reject(connID, "pass", err)
		return
	}

	if state.IsEnded() {
		that.finish(req.RoomID, state)
		return
	}

	that.out.Broadcast(req.RoomID, GameUpdate{State: state})
}

func (that *Handler) handleResign(ctx context.Context, connID string, req Resign) {
	state, err := that.rooms.Mutate(ctx, req.RoomID, guarded(func(game *entity.GameState) error {
		seat, err := authorize(game, connID, false)
		if err != nil {
			return err
		}

		return baduk.Resign(game, seat)
	}))
	if err != nil {
		that.reject(connID, "resign", err)
		return
	}

	that.finish(req.RoomID, state)
}

func (that *Handler) finish(roomID string, state *entity.GameState) {
	that.out.Broadcast(roomID, GameEnd{State: state})

	if that.timeouts.Finished > 0 {
		that.rooms.ScheduleDeletion(roomID, that.timeouts.Finished)
	}

	that.logger.Info("game ended", "roomID", roomID, "winner", state.Winner)
}

func (that *Handler) reject(connID, action string, err error) {
	that.logger.Warn("request rejected", "connID", connID, "action", action, "error", err)
	that.out.Send(connID, Error{Message: apperror.Message(err)})
}

// authorize - resolves the seat of connID; with checkTurn the seat must also be on move.
// Game status is checked afterwards by the state transition itself.
func authorize(game *entity.GameState, connID string, checkTurn bool) (entity.Seat, error) {
	seat := game.SeatOf(connID)
	if seat == entity.Unseated {
		return seat, apperror.ErrNotSeated
	}

	if checkTurn && seat.Stone() != game.CurrentPlayer {
		return seat, apperror.ErrNotYourTurn
	}

	return seat, nil
}

// guarded - turns a panic inside fn into an invalid-move error; the registry then
// discards the half-applied clone.
func guarded(fn func(game *entity.GameState) error) func(game *entity.GameState) error {
	return func(game *entity.GameState) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: recovered: %v", apperror.ErrInvalidMove, r)
			}
		}()

		return fn(game)
	}
}

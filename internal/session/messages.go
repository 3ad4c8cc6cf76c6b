package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/baduk-backend/internal/entity"
)

// Inbound event names.
const (
	ActionCreateRoom = "create-room"
	ActionJoinRoom   = "join-room"
	ActionMakeMove   = "make-move"
	ActionPass       = "pass"
	ActionResign     = "resign"
)

// Outbound event names.
const (
	EventRoomCreated        = "room-created"
	EventGameStart          = "game-start"
	EventGameUpdate         = "game-update"
	EventGameEnd            = "game-end"
	EventPlayerDisconnected = "player-disconnected"
	EventError              = "error"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrBadPayload    = errors.New("malformed payload")
)

// Inbound is a participant request. The set of implementations is closed.
type Inbound interface {
	Action() string
	inbound()
}

type CreateRoom struct{}

type JoinRoom struct {
	RoomID string `json:"roomId"`
}

type MakeMove struct {
	RoomID string `json:"roomId"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

type Pass struct {
	RoomID string `json:"roomId"`
}

type Resign struct {
	RoomID string `json:"roomId"`
}

func (CreateRoom) Action() string { return ActionCreateRoom }
func (JoinRoom) Action() string   { return ActionJoinRoom }
func (MakeMove) Action() string   { return ActionMakeMove }
func (Pass) Action() string       { return ActionPass }
func (Resign) Action() string     { return ActionResign }

func (CreateRoom) inbound() {}
func (JoinRoom) inbound()   {}
func (MakeMove) inbound()   {}
func (Pass) inbound()       {}
func (Resign) inbound()     {}

// Outbound is a server notification. Payload is what goes on the wire.
type Outbound interface {
	Event() string
	Payload() any
}

type RoomCreated struct {
	RoomID    string            `json:"roomId"`
	GameState *entity.GameState `json:"gameState"`
}

type GameStart struct {
	State *entity.GameState
}

type GameUpdate struct {
	State *entity.GameState
}

type GameEnd struct {
	State *entity.GameState
}

type PlayerDisconnected struct{}

type Error struct {
	Message string `json:"message"`
}

func (RoomCreated) Event() string        { return EventRoomCreated }
func (GameStart) Event() string          { return EventGameStart }
func (GameUpdate) Event() string         { return EventGameUpdate }
func (GameEnd) Event() string            { return EventGameEnd }
func (PlayerDisconnected) Event() string { return EventPlayerDisconnected }
func (Error) Event() string              { return EventError }

func (that RoomCreated) Payload() any   { return that }
func (that GameStart) Payload() any     { return that.State }
func (that GameUpdate) Payload() any    { return that.State }
func (that GameEnd) Payload() any       { return that.State }
func (PlayerDisconnected) Payload() any { return nil }
func (that Error) Payload() any         { return that }

// DecodeInbound - turns an action name and its raw payload into a typed request.
// Room-scoped actions accept either {"roomId": "..."} or a bare JSON string.
func DecodeInbound(action string, payload json.RawMessage) (Inbound, error) {
	switch action {
	case ActionCreateRoom:
		return CreateRoom{}, nil
	case ActionJoinRoom:
		roomID, err := decodeRoomID(payload)
		if err != nil {
			return nil, err
		}

		return JoinRoom{RoomID: roomID}, nil
	case ActionMakeMove:
		var move MakeMove
		if err := json.Unmarshal(payload, &move); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadPayload, err)
		}

		move.RoomID = normalizeRoomID(move.RoomID)

		return move, nil
	case ActionPass:
		roomID, err := decodeRoomID(payload)
		if err != nil {
			return nil, err
		}

		return Pass{RoomID: roomID}, nil
	case ActionResign:
		roomID, err := decodeRoomID(payload)
		if err != nil {
			return nil, err
		}

		return Resign{RoomID: roomID}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

func decodeRoomID(payload json.RawMessage) (string, error) {
	var roomID string
	if err := json.Unmarshal(payload, &roomID); err == nil {
		return normalizeRoomID(roomID), nil
	}

	var body struct {
		RoomID string `json:"roomId"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadPayload, err)
	}

	return normalizeRoomID(body.RoomID), nil
}

// normalizeRoomID - room codes are uppercase; clients often send them as typed.
func normalizeRoomID(roomID string) string {
	return strings.ToUpper(strings.TrimSpace(roomID))
}

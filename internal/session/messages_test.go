package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInbound(t *testing.T) {
	tests := []struct {
		name    string
		action  string
		payload string
		want    Inbound
	}{
		{"create", ActionCreateRoom, ``, CreateRoom{}},
		{"join with object", ActionJoinRoom, `{"roomId":"ABC123"}`, JoinRoom{RoomID: "ABC123"}},
		{"join with bare string", ActionJoinRoom, `"abc123"`, JoinRoom{RoomID: "ABC123"}},
		{"move", ActionMakeMove, `{"roomId":"ABC123","x":3,"y":15}`, MakeMove{RoomID: "ABC123", X: 3, Y: 15}},
		{"pass", ActionPass, `"ABC123"`, Pass{RoomID: "ABC123"}},
		{"resign", ActionResign, `{"roomId":" abc123 "}`, Resign{RoomID: "ABC123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeInbound(tt.action, json.RawMessage(tt.payload))

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.action, got.Action())
		})
	}

	t.Run("Unknown action", func(t *testing.T) {
		_, err := DecodeInbound("teleport", nil)
		require.ErrorIs(t, err, ErrUnknownAction)
	})

	t.Run("Malformed payload", func(t *testing.T) {
		_, err := DecodeInbound(ActionJoinRoom, json.RawMessage(`[1,2]`))
		require.ErrorIs(t, err, ErrBadPayload)
	})
}

func TestOutbound_Payload(t *testing.T) {
	raw, err := json.Marshal(Error{Message: "Not your turn"}.Payload())
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Not your turn"}`, string(raw))

	assert.Nil(t, PlayerDisconnected{}.Payload())
	assert.Equal(t, EventGameEnd, GameEnd{}.Event())
}

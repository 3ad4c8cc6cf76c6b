package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/baduk-backend/internal/session"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func encode(msg session.Outbound) ([]byte, error) {
	envelope := Message{Action: msg.Event()}

	if payload := msg.Payload(); payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", msg.Event(), err)
		}

		envelope.Payload = raw
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return data, nil
}

func decode(data []byte) (session.Inbound, error) {
	var envelope Message
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", session.ErrBadPayload, err)
	}

	return session.DecodeInbound(envelope.Action, envelope.Payload)
}

// Package natsfeed mirrors room broadcasts to NATS so other services can follow games.
package natsfeed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/rocketscienceinc/baduk-backend/internal/session"
)

const subjectPrefix = "baduk.rooms"

type publisher interface {
	Publish(subject string, data []byte) error
}

// Event is the JSON body published for every room broadcast.
type Event struct {
	RoomID  string          `json:"roomId"`
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Feed wraps a Broadcaster and publishes every room broadcast as well.
// Direct sends to a single connection are not published.
type Feed struct {
	logger *slog.Logger
	next   session.Broadcaster
	conn   publisher
}

// Connect - dials the broker with reconnects enabled.
func Connect(url, name string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.Timeout(10 * time.Second),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(5),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return conn, nil
}

func New(logger *slog.Logger, next session.Broadcaster, conn publisher) *Feed {
	return &Feed{
		logger: logger.With("component", "natsfeed"),
		next:   next,
		conn:   conn,
	}
}

// Subject - returns the subject a room event is published on.
func Subject(roomID, event string) string {
	return fmt.Sprintf("%s.%s.%s", subjectPrefix, roomID, event)
}

func (that *Feed) Join(roomID, connID string) {
	that.next.Join(roomID, connID)
}

func (that *Feed) Leave(roomID, connID string) {
	that.next.Leave(roomID, connID)
}

func (that *Feed) Disband(roomID string) {
	that.next.Disband(roomID)
}

func (that *Feed) Send(connID string, msg session.Outbound) {
	that.next.Send(connID, msg)
}

// Broadcast - delivers msg to the room, then publishes it. A failed publish is logged
// and never affects delivery.
func (that *Feed) Broadcast(roomID string, msg session.Outbound) {
	that.next.Broadcast(roomID, msg)

	if err := that.publish(roomID, msg); err != nil {
		that.logger.Warn("failed to publish room event", "roomID", roomID, "event", msg.Event(), "error", err)
	}
}

func (that *Feed) publish(roomID string, msg session.Outbound) error {
	event := Event{RoomID: roomID, Action: msg.Event()}

	if payload := msg.Payload(); payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}

		event.Payload = raw
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err = that.conn.Publish(Subject(roomID, msg.Event()), data); err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}

	return nil
}

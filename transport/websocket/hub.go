package websocket

import (
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/baduk-backend/internal/session"
)

// Hub tracks live connections and the room groups they belong to.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*client
	groups  map[string]map[string]struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With("component", "hub"),
		clients: make(map[string]*client),
		groups:  make(map[string]map[string]struct{}),
	}
}

func (that *Hub) Join(roomID, connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.clients[connID]; !ok {
		return
	}

	members, ok := that.groups[roomID]
	if !ok {
		members = make(map[string]struct{})
		that.groups[roomID] = members
	}

	members[connID] = struct{}{}
}

func (that *Hub) Leave(roomID, connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.leave(roomID, connID)
}

func (that *Hub) Disband(roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.groups, roomID)
}

// Send - queues msg for one connection. Unknown connections are ignored.
func (that *Hub) Send(connID string, msg session.Outbound) {
	data, err := encode(msg)
	if err != nil {
		that.logger.Error("failed to encode message", "event", msg.Event(), "error", err)
		return
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	if c, ok := that.clients[connID]; ok {
		that.deliver(c, data)
	}
}

// Broadcast - queues msg for every member of the room.
func (that *Hub) Broadcast(roomID string, msg session.Outbound) {
	data, err := encode(msg)
	if err != nil {
		that.logger.Error("failed to encode message", "event", msg.Event(), "error", err)
		return
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for connID := range that.groups[roomID] {
		if c, ok := that.clients[connID]; ok {
			that.deliver(c, data)
		}
	}
}

// Connections - returns the number of live connections.
func (that *Hub) Connections() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.clients)
}

func (that *Hub) register(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[c.id] = c
}

// unregister - forgets the connection, drops it from every group and stops its writer.
func (that *Hub) unregister(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	c, ok := that.clients[connID]
	if !ok {
		return
	}

	delete(that.clients, connID)

	for roomID := range that.groups {
		that.leave(roomID, connID)
	}

	close(c.send)
}

func (that *Hub) leave(roomID, connID string) {
	members, ok := that.groups[roomID]
	if !ok {
		return
	}

	delete(members, connID)

	if len(members) == 0 {
		delete(that.groups, roomID)
	}
}

// deliver - must be called with the hub lock held, so c.send is still open.
// A client that cannot keep up is disconnected.
func (that *Hub) deliver(c *client, data []byte) {
	select {
	case c.send <- data:
	default:
		that.logger.Warn("send buffer full, closing connection", "connID", c.id)
		_ = c.conn.Close()
	}
}

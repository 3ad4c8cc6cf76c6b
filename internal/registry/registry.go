// Package registry keeps the live rooms of the server. Each room is guarded by its own
// lock, so games never wait on each other; the room table lock is held only for map access.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/baduk-backend/internal/apperror"
	"github.com/rocketscienceinc/baduk-backend/internal/entity"
	"github.com/rocketscienceinc/baduk-backend/internal/pkg"
)

const (
	defaultMaxIDAttempts = 64
	mirrorTimeout        = 5 * time.Second
)

var ErrRoomIDExhausted = errors.New("could not generate a free room id")

type snapshotStore interface {
	CreateOrUpdate(ctx context.Context, game *entity.GameState) error
	DeleteByID(ctx context.Context, id string) error
}

// room owns one game. room.mu may be held while taking Registry.mu for a map update;
// Registry.mu is never held while waiting for the lock of a room another goroutine can see.
type room struct {
	mu      sync.Mutex
	id      string
	state   *entity.GameState
	pending *deletion
	deleted bool
}

// deletion is the cancelable token of a deferred delete.
type deletion struct {
	timer *time.Timer
}

type Registry struct {
	logger *slog.Logger

	mu    sync.RWMutex
	rooms map[string]*room

	store         snapshotStore
	onExpire      func(roomID string)
	generateID    func() (string, error)
	maxIDAttempts int
}

type Option func(*Registry)

// WithSnapshotStore - mirrors every committed state and deletion to store.
func WithSnapshotStore(store snapshotStore) Option {
	return func(that *Registry) {
		that.store = store
	}
}

// WithExpireHook - calls fn with the room id after a deferred deletion fires.
// fn runs on the timer goroutine once every registry lock is released.
func WithExpireHook(fn func(roomID string)) Option {
	return func(that *Registry) {
		that.onExpire = fn
	}
}

// WithIDGenerator - replaces the room code generator.
func WithIDGenerator(generate func() (string, error)) Option {
	return func(that *Registry) {
		that.generateID = generate
	}
}

func New(logger *slog.Logger, opts ...Option) *Registry {
	registry := &Registry{
		logger:        logger.With("component", "registry"),
		rooms:         make(map[string]*room),
		generateID:    pkg.GenerateRoomCode,
		maxIDAttempts: defaultMaxIDAttempts,
	}

	for _, opt := range opts {
		opt(registry)
	}

	return registry
}

// CreateRoom - creates a room with a fresh game and seats ownerID as Black.
func (that *Registry) CreateRoom(ctx context.Context, ownerID string) (string, *entity.GameState, error) {
	for range that.maxIDAttempts {
		roomID, err := that.generateID()
		if err != nil {
			return "", nil, fmt.Errorf("failed to generate room id: %w", err)
		}

		that.mu.Lock()
		if _, exists := that.rooms[roomID]; exists {
			that.mu.Unlock()
			continue
		}

		state := entity.NewGameState(roomID)
		state.SeatOwner(ownerID)

		r := &room{id: roomID, state: state}
		r.mu.Lock()
		that.rooms[roomID] = r
		that.mu.Unlock()

		that.mirrorSave(ctx, state)
		snapshot := state.Clone()
		r.mu.Unlock()

		that.logger.Info("room created", "roomID", roomID, "playerID", ownerID)

		return roomID, snapshot, nil
	}

	return "", nil, ErrRoomIDExhausted
}

// JoinRoom - seats playerID in the room's free seat.
// A join that starts the game also drops the room's pending deletion before the room
// lock is released, so a waiting-room timer cannot remove a game that has begun.
func (that *Registry) JoinRoom(ctx context.Context, roomID, playerID string) (*entity.GameState, error) {
	state, err := that.mutate(ctx, roomID, func(game *entity.GameState) error {
		return game.Join(playerID)
	}, func(r *room) {
		if r.state.IsActive() {
			r.cancelPending()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to join room %s: %w", roomID, err)
	}

	that.logger.Info("player joined room", "roomID", roomID, "playerID", playerID)

	return state, nil
}

// GetRoom - returns a copy of the room's current state.
func (that *Registry) GetRoom(roomID string) (*entity.GameState, bool) {
	r, ok := that.lookup(roomID)
	if !ok {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deleted {
		return nil, false
	}

	return r.state.Clone(), true
}

// UpdateRoom - replaces the room's state with state.
func (that *Registry) UpdateRoom(ctx context.Context, roomID string, state *entity.GameState) error {
	_, err := that.Mutate(ctx, roomID, func(game *entity.GameState) error {
		*game = *state.Clone()
		game.RoomID = roomID

		return nil
	})

	return err
}

// Mutate - runs fn on a copy of the room's state while holding the room lock and commits
// the copy only when fn succeeds. Calls for the same room run one at a time.
func (that *Registry) Mutate(ctx context.Context, roomID string, fn func(game *entity.GameState) error) (*entity.GameState, error) {
	return that.mutate(ctx, roomID, fn, nil)
}

// mutate - Mutate with a commit callback that runs under the room lock.
func (that *Registry) mutate(
	ctx context.Context, roomID string, fn func(game *entity.GameState) error, committed func(r *room),
) (*entity.GameState, error) {
	r, ok := that.lookup(roomID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deleted {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	next := r.state.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}

	r.state = next

	if committed != nil {
		committed(r)
	}

	that.mirrorSave(ctx, next)

	return next.Clone(), nil
}

// DeleteRoom - removes the room now and cancels its pending deletion. Deleting an absent
// room is a no-op.
func (that *Registry) DeleteRoom(ctx context.Context, roomID string) {
	r, ok := that.lookup(roomID)
	if !ok {
		return
	}

	if that.remove(r) {
		that.retire(ctx, r)
	}
}

// ScheduleDeletion - deletes the room after delay unless cancelled. Scheduling again
// replaces the previous timer.
func (that *Registry) ScheduleDeletion(roomID string, delay time.Duration) {
	r, ok := that.lookup(roomID)
	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deleted {
		return
	}

	if r.pending != nil {
		r.pending.timer.Stop()
	}

	token := &deletion{}
	token.timer = time.AfterFunc(delay, func() {
		that.expire(r, token)
	})
	r.pending = token

	that.logger.Debug("room deletion scheduled", "roomID", roomID, "delay", delay)
}

// CancelDeletion - cancels the room's pending deletion, if any.
func (that *Registry) CancelDeletion(roomID string) {
	r, ok := that.lookup(roomID)
	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancelPending() {
		that.logger.Debug("room deletion cancelled", "roomID", roomID)
	}
}

// FindRoomByPlayer - returns the id of a room in which playerID holds a seat.
func (that *Registry) FindRoomByPlayer(playerID string) (string, bool) {
	for _, r := range that.snapshot() {
		if r.seats(playerID) {
			return r.id, true
		}
	}

	return "", false
}

// CleanupByPlayer - deletes every room in which playerID holds a seat and returns their ids.
func (that *Registry) CleanupByPlayer(ctx context.Context, playerID string) []string {
	var deleted []string

	for _, r := range that.snapshot() {
		if !r.seats(playerID) {
			continue
		}

		if that.remove(r) {
			that.retire(ctx, r)
			deleted = append(deleted, r.id)
		}
	}

	return deleted
}

// Count - returns the number of live rooms.
func (that *Registry) Count() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}

// Close - stops every pending deletion timer. Rooms stay readable.
func (that *Registry) Close() {
	for _, r := range that.snapshot() {
		r.mu.Lock()
		r.cancelPending()
		r.mu.Unlock()
	}
}

func (that *Registry) lookup(roomID string) (*room, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	r, ok := that.rooms[roomID]

	return r, ok
}

func (that *Registry) snapshot() []*room {
	that.mu.RLock()
	defer that.mu.RUnlock()

	rooms := make([]*room, 0, len(that.rooms))
	for _, r := range that.rooms {
		rooms = append(rooms, r)
	}

	return rooms
}

// remove - drops r from the table if the id still maps to this very room.
func (that *Registry) remove(r *room) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if current, ok := that.rooms[r.id]; !ok || current != r {
		return false
	}

	delete(that.rooms, r.id)

	return true
}

// retire - marks a removed room dead and cancels its timer.
func (that *Registry) retire(ctx context.Context, r *room) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deleted = true
	r.cancelPending()

	that.mirrorDelete(ctx, r.id)

	that.logger.Info("room deleted", "roomID", r.id)
}

// expire - fires a deferred deletion. A token that was replaced or cancelled, or a room
// that was already deleted and recreated under the same id, is left alone. The table lock
// is taken only after the token check, so a busy room never stalls the others.
func (that *Registry) expire(r *room, token *deletion) {
	r.mu.Lock()

	if r.pending != token || r.deleted || !that.remove(r) {
		r.mu.Unlock()
		return
	}

	r.deleted = true
	r.pending = nil

	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	that.mirrorDelete(ctx, r.id)
	cancel()

	r.mu.Unlock()

	that.logger.Info("room auto-deleted after timeout", "roomID", r.id)

	if that.onExpire != nil {
		that.onExpire(r.id)
	}
}

// cancelPending - stops the pending deletion; must be called with the room lock held.
func (that *room) cancelPending() bool {
	if that.pending == nil {
		return false
	}

	that.pending.timer.Stop()
	that.pending = nil

	return true
}

func (that *room) seats(playerID string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return !that.deleted && that.state.Players.Has(playerID)
}

func (that *Registry) mirrorSave(ctx context.Context, state *entity.GameState) {
	if that.store == nil {
		return
	}

	if err := that.store.CreateOrUpdate(ctx, state); err != nil {
		that.logger.Warn("failed to mirror room snapshot", "roomID", state.RoomID, "error", err)
	}
}

func (that *Registry) mirrorDelete(ctx context.Context, roomID string) {
	if that.store == nil {
		return
	}

	if err := that.store.DeleteByID(ctx, roomID); err != nil {
		that.logger.Warn("failed to delete room snapshot", "roomID", roomID, "error", err)
	}
}

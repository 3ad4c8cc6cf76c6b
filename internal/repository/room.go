package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/baduk-backend/internal/entity"
)

const roomKeyPrefix = "room:"

// RoomRepository mirrors room snapshots to Redis for observers outside the process.
// The in-memory registry stays the source of truth, so the server only writes here.
type RoomRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.GameState) error
	DeleteByID(ctx context.Context, id string) error
}

type dbRoom struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRoomRepository - snapshots expire after ttl without updates; zero keeps them forever.
func NewRoomRepository(client *redis.Client, ttl time.Duration) RoomRepository {
	return &dbRoom{
		client: client,
		ttl:    ttl,
	}
}

// RoomKey - returns the Redis key holding the snapshot of room id.
func RoomKey(id string) string {
	return roomKeyPrefix + id
}

func (that *dbRoom) CreateOrUpdate(ctx context.Context, game *entity.GameState) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal room: %w", err)
	}

	if err = that.client.Set(ctx, RoomKey(game.RoomID), gameJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	return nil
}

// DeleteByID - removes the snapshot. Deleting an unknown room is not an error.
func (that *dbRoom) DeleteByID(ctx context.Context, id string) error {
	if err := that.client.Del(ctx, RoomKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete room by id: %w", err)
	}

	return nil
}

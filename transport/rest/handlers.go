package rest

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/baduk-backend/internal/apperror"
	"github.com/rocketscienceinc/baduk-backend/internal/entity"
)

type roomReader interface {
	GetRoom(roomID string) (*entity.GameState, bool)
	Count() int
}

type connectionCounter interface {
	Connections() int
}

type Handlers interface {
	Ping(ctx *gin.Context)
	GetRoom(ctx *gin.Context)
	Stats(ctx *gin.Context)
}

type handlers struct {
	logger *slog.Logger
	rooms  roomReader
	conns  connectionCounter
}

func NewHandlers(logger *slog.Logger, rooms roomReader, conns connectionCounter) Handlers {
	return &handlers{
		logger: logger.With("component", "rest"),
		rooms:  rooms,
		conns:  conns,
	}
}

func (that *handlers) Ping(ctx *gin.Context) {
	ctx.String(http.StatusOK, "pong")
}

// GetRoom - returns the current state of a room, for spectators and debugging.
func (that *handlers) GetRoom(ctx *gin.Context) {
	roomID := strings.ToUpper(ctx.Param("id"))

	state, ok := that.rooms.GetRoom(roomID)
	if !ok {
		that.logger.Debug("room not found", "method", "GetRoom", "roomID", roomID)
		ctx.JSON(http.StatusNotFound, gin.H{"error": apperror.ErrRoomNotFound.Error()})

		return
	}

	ctx.JSON(http.StatusOK, state)
}

func (that *handlers) Stats(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"rooms":       that.rooms.Count(),
		"connections": that.conns.Connections(),
	})
}

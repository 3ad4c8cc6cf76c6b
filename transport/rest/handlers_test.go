package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/baduk-backend/internal/entity"
)

type stubRooms map[string]*entity.GameState

func (s stubRooms) GetRoom(roomID string) (*entity.GameState, bool) {
	state, ok := s[roomID]
	return state, ok
}

func (s stubRooms) Count() int { return len(s) }

type stubConns int

func (s stubConns) Connections() int { return int(s) }

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	game := entity.NewGameState("ABC123")
	game.SeatOwner("alice")

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	return NewRouter(NewHandlers(logger, stubRooms{"ABC123": game}, stubConns(3)))
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	return rec
}

func TestHandlers(t *testing.T) {
	router := newTestRouter()

	t.Run("Ping", func(t *testing.T) {
		rec := get(router, "/ping")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "pong", rec.Body.String())
	})

	t.Run("Existing room, code in any case", func(t *testing.T) {
		rec := get(router, "/rooms/abc123")

		require.Equal(t, http.StatusOK, rec.Code)

		var state entity.GameState
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
		assert.Equal(t, "ABC123", state.RoomID)
		assert.Equal(t, entity.StatusWaiting, state.Status)
	})

	t.Run("Missing room", func(t *testing.T) {
		rec := get(router, "/rooms/NOPE00")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Room not found"}`, rec.Body.String())
	})

	t.Run("Stats", func(t *testing.T) {
		rec := get(router, "/stats")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"rooms":1,"connections":3}`, rec.Body.String())
	})
}

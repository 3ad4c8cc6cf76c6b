package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	t.Run("Returns sentinel text for wrapped errors", func(t *testing.T) {
		// Given: a wrapped taxonomy error
		err := fmt.Errorf("failed to join room ABC123: %w", ErrRoomFull)

		// When: resolving the user-facing message
		msg := Message(err)

		// Then: the wrapping context is not leaked
		assert.Equal(t, "Room is full", msg)
	})

	t.Run("Unknown errors degrade to invalid move", func(t *testing.T) {
		// Given: an unexpected internal error
		err := errors.New("redis: connection refused")

		// When: resolving the user-facing message
		msg := Message(err)

		// Then: the generic message is returned
		assert.Equal(t, ErrInvalidMove.Error(), msg)
	})
}

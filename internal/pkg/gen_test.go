package pkg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRoomCode(t *testing.T) {
	for range 100 {
		code, err := GenerateRoomCode()
		require.NoError(t, err)

		require.Len(t, code, RoomCodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(RoomCodeAlphabet, r), "unexpected symbol %q", r)
		}
	}
}

func TestGenerateConnectionID(t *testing.T) {
	assert.NotEqual(t, GenerateConnectionID(), GenerateConnectionID())
}

package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	RoomCodeLength   = 6
	RoomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateRoomCode - generates a random room code of RoomCodeLength symbols.
func GenerateRoomCode() (string, error) {
	code := make([]byte, RoomCodeLength)
	alphabetLen := big.NewInt(int64(len(RoomCodeAlphabet)))

	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to read random number: %w", err)
		}

		code[i] = RoomCodeAlphabet[n.Int64()]
	}

	return string(code), nil
}

// GenerateConnectionID - generates a new unique connection identity.
func GenerateConnectionID() string {
	return uuid.NewString()
}

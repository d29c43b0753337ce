package pkg

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// GenerateGameID - generates a short opaque token that doubles as the game room name.
func GenerateGameID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate game id: %w", err)
	}

	return hex.EncodeToString(b), nil
}

// GenerateConnectionID - generates a unique identifier for a websocket connection.
func GenerateConnectionID() string {
	return uuid.NewString()
}

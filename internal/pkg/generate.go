package pkg

import (
	"crypto/rand"
	"crypto/sha1" //nolint: gosec // mandated by the WebSocket handshake (RFC 6455)
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const websocketMagicGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// GenerateGameID returns a short random identifier for a new game.
func GenerateGameID() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate game id: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// GenerateNewSessionID returns a random identifier for a guest session.
func GenerateNewSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Errorf("failed to generate session id: %w", err))
	}

	return hex.EncodeToString(buf)
}

// GenerateAcceptKey derives the Sec-WebSocket-Accept value for a handshake
// key.
func GenerateAcceptKey(key string) string {
	hash := sha1.Sum([]byte(key + websocketMagicGUID)) //nolint: gosec // handshake, not integrity
	return base64.StdEncoding.EncodeToString(hash[:])
}

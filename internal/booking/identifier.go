package booking

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// IdentifierIssuer mints the stable external identifier a booking carries
// for its whole life, and derives the checkin token from it.
type IdentifierIssuer struct{}

func (IdentifierIssuer) Issue() string {
	return uuid.NewString()
}

const checksumLen = 10

// CheckinToken derives the scannable token for a booking identifier.
// It is a pure function of the identifier: the 32 hex digits of the
// identifier followed by a short sha256 checksum. Deriving it twice for
// the same identifier always yields the same token.
func CheckinToken(identifier string) string {
	return strings.ReplaceAll(identifier, "-", "") + "-" + checksum(identifier)
}

// ParseCheckinToken validates a token's shape and checksum and returns
// the embedded booking identifier. Malformed tokens fail with
// ErrInvalidToken before any lookup happens.
func ParseCheckinToken(token string) (string, error) {
	raw, check, ok := strings.Cut(token, "-")
	if !ok || len(raw) != 32 {
		return "", ErrInvalidToken
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", ErrInvalidToken
	}
	identifier := id.String()
	if check != checksum(identifier) {
		return "", ErrInvalidToken
	}
	return identifier, nil
}

func checksum(identifier string) string {
	sum := sha256.Sum256([]byte(identifier))
	return hex.EncodeToString(sum[:])[:checksumLen]
}

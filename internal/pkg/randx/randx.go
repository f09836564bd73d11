/*
Package randx generates cryptographically secure identifiers.

It produces fixed-length Base62 room IDs and UUID-based per-room session keys.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set.
	Base62Len = int64(len(Base62Chars))

	// RoomIDLength is the fixed length of a generated room ID.
	RoomIDLength = 6
)

// RoomID generates a Base62 room identifier using crypto/rand.
func RoomID() (string, error) {
	result := make([]byte, RoomIDLength)

	for i := 0; i < RoomIDLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for room id: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// IsValidRoomID reports whether the given string is a well-formed room ID:
// exactly RoomIDLength characters, all from the Base62 set.
func IsValidRoomID(id string) bool {
	if len(id) != RoomIDLength {
		return false
	}

	for _, char := range id {
		if !strings.ContainsRune(Base62Chars, char) {
			return false
		}
	}

	return true
}

// SessionKey generates a UUID v4 string used as a short-lived per-room
// credential that lets a reconnecting client prove it is the same participant.
func SessionKey() string {
	return uuid.New().String()
}

// MessageID generates a UUID v4 string to uniquely identify a broadcast message.
func MessageID() string {
	return uuid.New().String()
}

// Nickname generates a fallback display name for identities that arrive
// without one, e.g. "painter-3Fb9".
func Nickname() string {
	suffix := make([]byte, 4)

	for i := range suffix {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			// crypto/rand failing is unrecoverable elsewhere too; fall back to
			// a constant rather than propagate an error for a display name.
			return "painter"
		}
		suffix[i] = Base62Chars[num.Int64()]
	}

	return "painter-" + string(suffix)
}

/*
Package auth is the boundary to the external identity service.

The game core treats identity tokens as opaque: it only needs Verify to map a
token to a stable user ID. The default implementation validates JWTs signed by
the identity issuer; tests substitute the Verifier interface.
*/
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// Identity is the result of a successful token verification.
type Identity struct {
	// UserID is the stable identifier issued by the identity service.
	UserID string

	// Nickname is the display name carried in the token, if any.
	Nickname string

	// IsNewUser reports whether the identity service marked this account as
	// newly created.
	IsNewUser bool
}

// ErrInvalidToken is returned when a token fails verification for any reason.
var ErrInvalidToken = errors.New("invalid or expired identity token")

// Verifier validates an opaque identity token.
type Verifier interface {
	Verify(token string) (Identity, error)
}

// IdentityClaims defines the JWT claims expected from the identity issuer.
type IdentityClaims struct {
	jwt.StandardClaims

	// UserID is the stable user identifier.
	UserID string `json:"uid"`

	// Nickname is the display name chosen at sign-up.
	Nickname string `json:"nickname"`

	// IsNewUser marks accounts created within the current session.
	IsNewUser bool `json:"is_new_user,omitempty"`
}

// JWTVerifier validates identity tokens as HMAC-signed JWTs.
type JWTVerifier struct {
	secretKey string
}

// NewJWTVerifier constructs a JWTVerifier using the shared issuer secret.
func NewJWTVerifier(secretKey string) *JWTVerifier {
	return &JWTVerifier{secretKey: secretKey}
}

// Verify parses and validates the token, returning the embedded identity.
func (v *JWTVerifier) Verify(tokenString string) (Identity, error) {
	claims := &IdentityClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(v.secretKey), nil
	})

	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	if claims.UserID == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		UserID:    claims.UserID,
		Nickname:  claims.Nickname,
		IsNewUser: claims.IsNewUser,
	}, nil
}

// IssueToken signs an identity token. It exists for development tooling and
// tests; production tokens come from the external identity service.
func IssueToken(identity Identity, secretKey string, duration time.Duration) (string, error) {
	now := time.Now()

	claims := &IdentityClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(duration).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    "Scrawl-Identity",
		},
		UserID:    identity.UserID,
		Nickname:  identity.Nickname,
		IsNewUser: identity.IsNewUser,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secretKey))
}

package ws

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errNoIdentity = errors.New("token carries no subject")

// identity is the authenticated player behind a connection.
type identity struct {
	PlayerID string
	Name     string
}

// sessionClaims is the claims shape of a session token: registered claims
// plus the display name.
type sessionClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

// verifyToken validates an HS256 session token and extracts the player
// identity. The subject claim is the player id.
func verifyToken(token string, secret []byte, now func() time.Time) (identity, error) {
	if now == nil {
		now = time.Now
	}

	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(token), &parsed, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return identity{}, fmt.Errorf("parse session token: %w", err)
	}

	playerID := strings.TrimSpace(parsed.Subject)
	if playerID == "" {
		return identity{}, errNoIdentity
	}
	name := strings.TrimSpace(parsed.Name)
	if name == "" {
		name = playerID
	}
	return identity{PlayerID: playerID, Name: name}, nil
}

// IssueToken signs a session token for a player. Exposed for local tooling
// and tests; production deployments mint tokens in their auth service.
func IssueToken(playerID, name string, secret []byte, ttl time.Duration, now func() time.Time) (string, error) {
	if now == nil {
		now = time.Now
	}
	issued := now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		},
		Name: name,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

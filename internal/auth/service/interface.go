// Package service provides technical services for authentication: session
// token generation and hashing, and the in-memory store of login challenges.
package service

import (
	"time"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
)

// TokenService issues session tokens. Only the SHA-256 hash of a token is
// ever stored; the plain value is returned to the client once, at login.
type TokenService interface {
	// GenerateToken returns a fresh plain token and the hash to persist.
	GenerateToken() (plainToken string, tokenHash string, err error)

	// HashToken returns the hex SHA-256 of plainToken.
	HashToken(plainToken string) string

	// ParseToken checks that plainToken has the shape GenerateToken produces
	// and returns its hash. Anything else yields ErrMalformedToken.
	ParseToken(plainToken string) (tokenHash string, err error)
}

// ChallengeStore holds outstanding login challenges.
//
// Consume is the only way a challenge leaves the pending state. Lookup and
// marking happen in one critical section, so two concurrent answers to the
// same challenge can never both see it unconsumed.
type ChallengeStore interface {
	// Put stores a new challenge. Returns ErrChallengeExists on a value collision.
	Put(challenge *authDomain.Challenge) error

	// Consume marks the challenge used and reports its state before the call:
	// AuthStatusChallengeUnknown, AuthStatusChallengeExpired,
	// AuthStatusChallengeAlreadyConsumed, or AuthStatusSuccess when it was pending.
	Consume(value string, now time.Time) authDomain.AuthStatus

	// PurgeExpired removes challenges whose expiry is at or before now.
	PurgeExpired(now time.Time) int

	// Len returns the number of stored challenges.
	Len() int
}

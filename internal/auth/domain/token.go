package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token is a bearer session issued after a successful login.
// Only the SHA-256 hash of the plain token is stored.
type Token struct {
	ID        uuid.UUID
	TokenHash string
	UserID    uuid.UUID
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// IsActive reports whether the token can still authenticate requests at now.
func (t *Token) IsActive(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

// LoginInput is a signed answer to a previously issued challenge.
type LoginInput struct {
	Username  string
	Challenge string
	Signature string
}

// LoginOutput is returned once on successful login.
type LoginOutput struct {
	PlainToken string
	ExpiresAt  time.Time
	User       *User
}

package domain

import "time"

// Challenge is a single-use random value a client signs to prove key possession.
type Challenge struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Consumed  bool
}

// IsExpired reports whether the challenge can no longer be answered at now.
func (c *Challenge) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// AuthStatus is the outcome of a challenge-response verification.
type AuthStatus string

const (
	AuthStatusSuccess                  AuthStatus = "success"
	AuthStatusChallengeUnknown         AuthStatus = "challenge_unknown"
	AuthStatusChallengeExpired         AuthStatus = "challenge_expired"
	AuthStatusChallengeAlreadyConsumed AuthStatus = "challenge_already_consumed"
	AuthStatusInvalidCertificate       AuthStatus = "invalid_certificate"
	AuthStatusInvalidSignature         AuthStatus = "invalid_signature"
)

// AuthResult carries the status and, on success, the authenticated subject.
type AuthResult struct {
	Status      AuthStatus
	CommonName  string
	Email       string
	Serial      string
	CompletedAt time.Time
}

// Succeeded reports whether the verification passed.
func (r *AuthResult) Succeeded() bool {
	return r != nil && r.Status == AuthStatusSuccess
}

// Err maps a failed status to the error returned to remote callers.
// Certificate and signature failures are not distinguished.
func (r *AuthResult) Err() error {
	if r == nil {
		return ErrInvalidCredentials
	}
	switch r.Status {
	case AuthStatusSuccess:
		return nil
	case AuthStatusChallengeExpired:
		return ErrChallengeExpired
	case AuthStatusChallengeAlreadyConsumed:
		return ErrChallengeAlreadyConsumed
	default:
		return ErrInvalidCredentials
	}
}

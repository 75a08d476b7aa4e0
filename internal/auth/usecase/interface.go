// Package usecase implements challenge-response login, user registration and
// bearer sessions on top of the certificate authority.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
)

// UserRepository defines persistence operations for users.
// Implementations must support transaction-aware operations via context propagation.
type UserRepository interface {
	// Create stores a new user. Returns ErrUserAlreadyExists on a username or email collision.
	Create(ctx context.Context, user *authDomain.User) error

	// GetByID retrieves a user by ID. Returns ErrUserNotFound if not found.
	GetByID(ctx context.Context, userID uuid.UUID) (*authDomain.User, error)

	// GetByUsername retrieves a user by exact username. Returns ErrUserNotFound if not found.
	GetByUsername(ctx context.Context, username string) (*authDomain.User, error)

	// ExistsByUsernameOrEmail reports whether either value is taken.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)

	// UpdateLastLogin records a successful login.
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}

// TokenRepository defines persistence operations for session tokens.
type TokenRepository interface {
	// Create stores a new token.
	Create(ctx context.Context, token *authDomain.Token) error

	// GetByTokenHash retrieves a token by hash. Returns ErrTokenNotFound if not found.
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error)

	// Revoke marks the token revoked. Revoking twice keeps the first timestamp.
	Revoke(ctx context.Context, tokenID uuid.UUID, revokedAt time.Time) error

	// DeleteExpired deletes tokens that expired before olderThan.
	DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error)

	// CountExpired counts tokens that expired before olderThan.
	CountExpired(ctx context.Context, olderThan time.Time) (int64, error)
}

// ChallengeAuthenticator runs the challenge-response login protocol.
type ChallengeAuthenticator interface {
	// IssueChallenge creates and stores a fresh single-use challenge.
	IssueChallenge(ctx context.Context) (*authDomain.Challenge, error)

	// Verify consumes challenge and checks that cert is trusted by the CA and
	// that signature is a valid signature over the challenge by cert's key.
	// The challenge is consumed whatever the outcome. Failures are reported
	// in the result status; the error is reserved for a cancelled context.
	Verify(
		ctx context.Context,
		challenge string,
		cert *pkiDomain.Certificate,
		signature string,
	) (*authDomain.AuthResult, error)

	// PurgeExpired drops expired challenges and returns how many were removed.
	PurgeExpired() int

	// Run purges expired challenges every interval until ctx is cancelled.
	Run(ctx context.Context, interval time.Duration) error
}

// UserUseCase manages user registration and lookup.
type UserUseCase interface {
	// Register creates a key pair and certificate for a new user.
	// The private key is returned once and never stored.
	Register(ctx context.Context, input *authDomain.RegisterUserInput) (*authDomain.RegisterUserOutput, error)

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, userID uuid.UUID) (*authDomain.User, error)

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*authDomain.User, error)
}

// SessionUseCase issues and validates bearer tokens.
type SessionUseCase interface {
	// Login verifies a signed challenge and issues a session token.
	Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.LoginOutput, error)

	// Authenticate resolves a token hash to its user.
	// Expired or revoked tokens and users with an untrusted certificate yield ErrInvalidCredentials.
	Authenticate(ctx context.Context, tokenHash string) (*authDomain.User, *authDomain.Token, error)

	// Logout revokes the token.
	Logout(ctx context.Context, tokenID uuid.UUID) error

	// CleanupExpired deletes (or with dryRun counts) tokens expired more than days ago.
	CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error)
}

package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
	"github.com/allisson/securevault/internal/metrics"
	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
)

const metricsDomain = "auth"

// userUseCaseWithMetrics decorates UserUseCase with metrics instrumentation.
type userUseCaseWithMetrics struct {
	next    UserUseCase
	metrics metrics.BusinessMetrics
}

// NewUserUseCaseWithMetrics wraps a UserUseCase with metrics recording.
func NewUserUseCaseWithMetrics(useCase UserUseCase, m metrics.BusinessMetrics) UserUseCase {
	return &userUseCaseWithMetrics{next: useCase, metrics: m}
}

// Register records metrics for user registration.
func (u *userUseCaseWithMetrics) Register(
	ctx context.Context,
	input *authDomain.RegisterUserInput,
) (*authDomain.RegisterUserOutput, error) {
	start := time.Now()
	output, err := u.next.Register(ctx, input)
	metrics.Observe(ctx, u.metrics, metricsDomain, "user_register", start, err != nil)
	return output, err
}

// GetByID records metrics for user lookup by id.
func (u *userUseCaseWithMetrics) GetByID(ctx context.Context, userID uuid.UUID) (*authDomain.User, error) {
	start := time.Now()
	user, err := u.next.GetByID(ctx, userID)
	metrics.Observe(ctx, u.metrics, metricsDomain, "user_get", start, err != nil)
	return user, err
}

// GetByUsername records metrics for user lookup by username.
func (u *userUseCaseWithMetrics) GetByUsername(ctx context.Context, username string) (*authDomain.User, error) {
	start := time.Now()
	user, err := u.next.GetByUsername(ctx, username)
	metrics.Observe(ctx, u.metrics, metricsDomain, "user_get_by_username", start, err != nil)
	return user, err
}

// sessionUseCaseWithMetrics decorates SessionUseCase with metrics instrumentation.
type sessionUseCaseWithMetrics struct {
	next    SessionUseCase
	metrics metrics.BusinessMetrics
}

// NewSessionUseCaseWithMetrics wraps a SessionUseCase with metrics recording.
func NewSessionUseCaseWithMetrics(useCase SessionUseCase, m metrics.BusinessMetrics) SessionUseCase {
	return &sessionUseCaseWithMetrics{next: useCase, metrics: m}
}

// Login records metrics for login attempts.
func (s *sessionUseCaseWithMetrics) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.LoginOutput, error) {
	start := time.Now()
	output, err := s.next.Login(ctx, input)
	metrics.Observe(ctx, s.metrics, metricsDomain, "login", start, err != nil)
	return output, err
}

// Authenticate records metrics for token authentication.
func (s *sessionUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	tokenHash string,
) (*authDomain.User, *authDomain.Token, error) {
	start := time.Now()
	user, token, err := s.next.Authenticate(ctx, tokenHash)
	metrics.Observe(ctx, s.metrics, metricsDomain, "authenticate", start, err != nil)
	return user, token, err
}

// Logout records metrics for logout.
func (s *sessionUseCaseWithMetrics) Logout(ctx context.Context, tokenID uuid.UUID) error {
	start := time.Now()
	err := s.next.Logout(ctx, tokenID)
	metrics.Observe(ctx, s.metrics, metricsDomain, "logout", start, err != nil)
	return err
}

// CleanupExpired records metrics for token cleanup.
func (s *sessionUseCaseWithMetrics) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	start := time.Now()
	count, err := s.next.CleanupExpired(ctx, days, dryRun)
	metrics.Observe(ctx, s.metrics, metricsDomain, "token_cleanup", start, err != nil)
	return count, err
}

// challengeAuthenticatorWithMetrics decorates ChallengeAuthenticator with metrics instrumentation.
type challengeAuthenticatorWithMetrics struct {
	next    ChallengeAuthenticator
	metrics metrics.BusinessMetrics
}

// NewChallengeAuthenticatorWithMetrics wraps a ChallengeAuthenticator with metrics recording.
// A verification that completes with a non-success status counts as an error.
func NewChallengeAuthenticatorWithMetrics(
	authenticator ChallengeAuthenticator,
	m metrics.BusinessMetrics,
) ChallengeAuthenticator {
	return &challengeAuthenticatorWithMetrics{next: authenticator, metrics: m}
}

// IssueChallenge records metrics for challenge issuance.
func (c *challengeAuthenticatorWithMetrics) IssueChallenge(ctx context.Context) (*authDomain.Challenge, error) {
	start := time.Now()
	challenge, err := c.next.IssueChallenge(ctx)
	metrics.Observe(ctx, c.metrics, metricsDomain, "challenge_issue", start, err != nil)
	return challenge, err
}

// Verify records metrics for challenge verification.
func (c *challengeAuthenticatorWithMetrics) Verify(
	ctx context.Context,
	challenge string,
	cert *pkiDomain.Certificate,
	signature string,
) (*authDomain.AuthResult, error) {
	start := time.Now()
	result, err := c.next.Verify(ctx, challenge, cert, signature)
	metrics.Observe(ctx, c.metrics, metricsDomain, "challenge_verify", start, err != nil || !result.Succeeded())
	return result, err
}

// PurgeExpired is not instrumented.
func (c *challengeAuthenticatorWithMetrics) PurgeExpired() int {
	return c.next.PurgeExpired()
}

// Run is not instrumented.
func (c *challengeAuthenticatorWithMetrics) Run(ctx context.Context, interval time.Duration) error {
	return c.next.Run(ctx, interval)
}

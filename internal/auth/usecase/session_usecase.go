package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
	authService "github.com/allisson/securevault/internal/auth/service"
	"github.com/allisson/securevault/internal/config"
	apperrors "github.com/allisson/securevault/internal/errors"
	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
	pkiUseCase "github.com/allisson/securevault/internal/pki/usecase"
)

// sessionUseCase implements SessionUseCase.
type sessionUseCase struct {
	config        *config.Config
	userRepo      UserRepository
	tokenRepo     TokenRepository
	authenticator ChallengeAuthenticator
	ca            pkiUseCase.CertificateAuthority
	tokenService  authService.TokenService
	logger        *slog.Logger
}

// NewSessionUseCase creates a new SessionUseCase.
func NewSessionUseCase(
	cfg *config.Config,
	userRepo UserRepository,
	tokenRepo TokenRepository,
	authenticator ChallengeAuthenticator,
	ca pkiUseCase.CertificateAuthority,
	tokenService authService.TokenService,
	logger *slog.Logger,
) SessionUseCase {
	return &sessionUseCase{
		config:        cfg,
		userRepo:      userRepo,
		tokenRepo:     tokenRepo,
		authenticator: authenticator,
		ca:            ca,
		tokenService:  tokenService,
		logger:        logger,
	}
}

// Login verifies the signed challenge against the user's stored certificate
// and issues a session token.
//
// Security Notes:
//   - An unknown username still consumes the challenge and returns
//     ErrInvalidCredentials, like a bad certificate or signature
//   - Expired and replayed challenges get their own errors so clients know
//     to request a new challenge
//   - The plain token is only returned once
func (s *sessionUseCase) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.LoginOutput, error) {
	username := strings.TrimSpace(input.Username)

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, authDomain.ErrUserNotFound) {
		return nil, err
	}

	var cert *pkiDomain.Certificate
	if user != nil {
		// An unparseable stored certificate is treated like an untrusted one.
		cert, _ = pkiDomain.ParseCertificatePEM(user.CertificatePEM)
	}

	result, err := s.authenticator.Verify(ctx, input.Challenge, cert, input.Signature)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.logger.Warn("login failed", slog.String("reason", "unknown user"))
		return nil, authDomain.ErrInvalidCredentials
	}
	if !result.Succeeded() {
		s.logger.Warn("login failed",
			slog.String("user_id", user.ID.String()),
			slog.String("status", string(result.Status)),
		)
		return nil, result.Err()
	}

	plainToken, tokenHash, err := s.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	token := &authDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: tokenHash,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.config.AuthTokenExpiration),
		CreatedAt: now,
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	s.logger.Info("login succeeded", slog.String("user_id", user.ID.String()))

	return &authDomain.LoginOutput{
		PlainToken: plainToken,
		ExpiresAt:  token.ExpiresAt,
		User:       user,
	}, nil
}

// Authenticate resolves tokenHash to an active token and a user whose
// certificate is neither revoked nor expired.
func (s *sessionUseCase) Authenticate(
	ctx context.Context,
	tokenHash string,
) (*authDomain.User, *authDomain.Token, error) {
	token, err := s.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, authDomain.ErrTokenNotFound) {
			return nil, nil, authDomain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	now := time.Now().UTC()
	if !token.IsActive(now) {
		return nil, nil, authDomain.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, authDomain.ErrUserNotFound) {
			return nil, nil, authDomain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if now.After(user.ExpiresAt) || s.ca.IsRevoked(user.CertificateSerial) {
		return nil, nil, authDomain.ErrInvalidCredentials
	}

	return user, token, nil
}

// Logout revokes the token.
func (s *sessionUseCase) Logout(ctx context.Context, tokenID uuid.UUID) error {
	return s.tokenRepo.Revoke(ctx, tokenID, time.Now().UTC())
}

// CleanupExpired removes tokens expired more than days ago.
func (s *sessionUseCase) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.New("days must be non-negative")
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	if dryRun {
		return s.tokenRepo.CountExpired(ctx, cutoff)
	}
	return s.tokenRepo.DeleteExpired(ctx, cutoff)
}

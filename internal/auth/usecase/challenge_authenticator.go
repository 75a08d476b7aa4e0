package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
	authService "github.com/allisson/securevault/internal/auth/service"
	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	cryptoService "github.com/allisson/securevault/internal/crypto/service"
	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
	pkiUseCase "github.com/allisson/securevault/internal/pki/usecase"
)

// challengeAuthenticator implements ChallengeAuthenticator.
type challengeAuthenticator struct {
	store           authService.ChallengeStore
	ca              pkiUseCase.CertificateAuthority
	signatureEngine cryptoService.SignatureEngine
	ttl             time.Duration
	logger          *slog.Logger
	now             func() time.Time
}

// NewChallengeAuthenticator creates a ChallengeAuthenticator.
// A non-positive ttl falls back to DefaultChallengeTTL.
func NewChallengeAuthenticator(
	store authService.ChallengeStore,
	ca pkiUseCase.CertificateAuthority,
	signatureEngine cryptoService.SignatureEngine,
	ttl time.Duration,
	logger *slog.Logger,
) ChallengeAuthenticator {
	if ttl <= 0 {
		ttl = authDomain.DefaultChallengeTTL
	}
	return &challengeAuthenticator{
		store:           store,
		ca:              ca,
		signatureEngine: signatureEngine,
		ttl:             ttl,
		logger:          logger,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// IssueChallenge returns 32 random bytes as unpadded base64url.
func (a *challengeAuthenticator) IssueChallenge(ctx context.Context) (*authDomain.Challenge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf := make([]byte, authDomain.ChallengeSize)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate challenge: %w", err)
	}

	now := a.now()
	challenge := &authDomain.Challenge{
		Value:     base64.RawURLEncoding.EncodeToString(buf),
		IssuedAt:  now,
		ExpiresAt: now.Add(a.ttl),
	}
	if err := a.store.Put(challenge); err != nil {
		return nil, fmt.Errorf("failed to store challenge: %w", err)
	}
	return challenge, nil
}

// Verify consumes the challenge before looking at the certificate or signature,
// so a failed attempt cannot be retried with the same challenge.
func (a *challengeAuthenticator) Verify(
	ctx context.Context,
	challenge string,
	cert *pkiDomain.Certificate,
	signature string,
) (*authDomain.AuthResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := a.now()
	result := &authDomain.AuthResult{CompletedAt: now}

	status := a.store.Consume(challenge, now)
	if status != authDomain.AuthStatusSuccess {
		result.Status = status
		return result, nil
	}

	if cert == nil || !a.ca.VerifyCertificate(cert) {
		result.Status = authDomain.AuthStatusInvalidCertificate
		return result, nil
	}

	sig, err := cryptoDomain.ParseSignature(signature)
	if err != nil || !a.signatureEngine.VerifyWithKey([]byte(challenge), sig, cert.PublicKey()) {
		result.Status = authDomain.AuthStatusInvalidSignature
		return result, nil
	}

	result.Status = authDomain.AuthStatusSuccess
	result.CommonName = cert.Subject.CommonName
	result.Email = cert.Subject.Email
	result.Serial = cert.Serial
	return result, nil
}

// PurgeExpired drops challenges past their expiry.
func (a *challengeAuthenticator) PurgeExpired() int {
	return a.store.PurgeExpired(a.now())
}

// Run purges expired challenges every interval until ctx is cancelled.
func (a *challengeAuthenticator) Run(ctx context.Context, interval time.Duration) error {
	a.logger.Info("starting challenge cleanup", slog.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("stopping challenge cleanup")
			return ctx.Err()
		case <-ticker.C:
			if purged := a.PurgeExpired(); purged > 0 {
				a.logger.Debug("purged expired challenges", slog.Int("count", purged))
			}
		}
	}
}

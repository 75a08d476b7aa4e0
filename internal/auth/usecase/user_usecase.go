package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
	cryptoService "github.com/allisson/securevault/internal/crypto/service"
	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
	pkiUseCase "github.com/allisson/securevault/internal/pki/usecase"
)

// orphanRevocationReason is recorded when a certificate was issued for a
// registration that could not be stored.
const orphanRevocationReason = "registration aborted"

// userUseCase implements UserUseCase.
type userUseCase struct {
	userRepo        UserRepository
	ca              pkiUseCase.CertificateAuthority
	keyPairProvider cryptoService.KeyPairProvider
	logger          *slog.Logger
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(
	userRepo UserRepository,
	ca pkiUseCase.CertificateAuthority,
	keyPairProvider cryptoService.KeyPairProvider,
	logger *slog.Logger,
) UserUseCase {
	return &userUseCase{
		userRepo:        userRepo,
		ca:              ca,
		keyPairProvider: keyPairProvider,
		logger:          logger,
	}
}

// Register validates the identity, generates a key pair, has the CA certify it
// and stores the user without the private key.
//
// If storing the user fails after issuance, the fresh certificate is revoked
// so no valid certificate exists for an identity the service does not know.
func (u *userUseCase) Register(
	ctx context.Context,
	input *authDomain.RegisterUserInput,
) (*authDomain.RegisterUserOutput, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	exists, err := u.userRepo.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, authDomain.ErrUserAlreadyExists
	}

	keyPair, err := u.keyPairProvider.Generate()
	if err != nil {
		return nil, err
	}

	cert, err := u.ca.IssueCertificate(ctx, keyPair.PublicKeyPEM, pkiDomain.Subject{
		CommonName:   input.Username,
		Organization: authDomain.UserOrganization,
		Email:        input.Email,
	})
	if err != nil {
		return nil, err
	}

	user := &authDomain.User{
		ID:                uuid.Must(uuid.NewV7()),
		Username:          input.Username,
		Email:             input.Email,
		PublicKeyPEM:      keyPair.PublicKeyPEM,
		CertificatePEM:    cert.PEM,
		CertificateSerial: cert.Serial,
		IssuedAt:          cert.NotBefore,
		ExpiresAt:         cert.NotAfter,
		CreatedAt:         time.Now().UTC(),
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		u.revokeOrphan(ctx, cert.Serial)
		return nil, err
	}

	u.logger.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username),
		slog.String("certificate_serial", user.CertificateSerial),
	)

	return &authDomain.RegisterUserOutput{
		User:          user,
		PrivateKeyPEM: keyPair.PrivateKeyPEM,
	}, nil
}

func (u *userUseCase) revokeOrphan(ctx context.Context, serial string) {
	if err := u.ca.Revoke(ctx, serial, orphanRevocationReason); err != nil {
		u.logger.Error("failed to revoke certificate of aborted registration",
			slog.String("certificate_serial", serial),
			slog.Any("error", err),
		)
	}
}

// GetByID retrieves a user by ID.
func (u *userUseCase) GetByID(ctx context.Context, userID uuid.UUID) (*authDomain.User, error) {
	return u.userRepo.GetByID(ctx, userID)
}

// GetByUsername retrieves a user by username.
func (u *userUseCase) GetByUsername(ctx context.Context, username string) (*authDomain.User, error) {
	return u.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
}

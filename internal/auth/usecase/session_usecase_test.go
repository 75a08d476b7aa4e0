package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
	authService "github.com/allisson/securevault/internal/auth/service"
	authMocks "github.com/allisson/securevault/internal/auth/usecase/mocks"
	"github.com/allisson/securevault/internal/config"
	cryptoService "github.com/allisson/securevault/internal/crypto/service"
	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
	pkiMocks "github.com/allisson/securevault/internal/pki/usecase/mocks"
)

type sessionFixture struct {
	userRepo      *authMocks.MockUserRepository
	tokenRepo     *authMocks.MockTokenRepository
	authenticator *authMocks.MockChallengeAuthenticator
	ca            *pkiMocks.MockCertificateAuthority
	useCase       SessionUseCase
}

func newSessionFixture() *sessionFixture {
	f := &sessionFixture{
		userRepo:      &authMocks.MockUserRepository{},
		tokenRepo:     &authMocks.MockTokenRepository{},
		authenticator: &authMocks.MockChallengeAuthenticator{},
		ca:            &pkiMocks.MockCertificateAuthority{},
	}
	f.useCase = NewSessionUseCase(
		&config.Config{AuthTokenExpiration: time.Hour},
		f.userRepo,
		f.tokenRepo,
		f.authenticator,
		f.ca,
		authService.NewTokenService(),
		testLogger(),
	)
	return f
}

func userFromIdentity(id *identity) *authDomain.User {
	return &authDomain.User{
		ID:                uuid.New(),
		Username:          id.cert.Subject.CommonName,
		Email:             id.cert.Subject.Email,
		PublicKeyPEM:      id.cert.PublicKeyPEM,
		CertificatePEM:    id.cert.PEM,
		CertificateSerial: id.cert.Serial,
		IssuedAt:          id.cert.NotBefore,
		ExpiresAt:         id.cert.NotAfter,
		CreatedAt:         time.Now().UTC(),
	}
}

func TestSessionUseCase_Login(t *testing.T) {
	ctx := context.Background()
	alice, _ := testIdentities(t)
	input := &authDomain.LoginInput{Username: "alice", Challenge: "challenge", Signature: "signature"}

	t.Run("Success", func(t *testing.T) {
		f := newSessionFixture()
		user := userFromIdentity(alice)

		f.userRepo.On("GetByUsername", ctx, "alice").Return(user, nil).Once()
		f.authenticator.On("Verify", ctx, "challenge", mock.Anything, "signature").
			Return(&authDomain.AuthResult{Status: authDomain.AuthStatusSuccess, CommonName: "alice"}, nil).
			Once()
		f.tokenRepo.On("Create", ctx, mock.MatchedBy(func(token *authDomain.Token) bool {
			return token.UserID == user.ID && len(token.TokenHash) == 64 && token.RevokedAt == nil
		})).Return(nil).Once()
		f.userRepo.On("UpdateLastLogin", ctx, user.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()

		before := time.Now().UTC()
		output, err := f.useCase.Login(ctx, input)

		require.NoError(t, err)
		assert.NotEmpty(t, output.PlainToken)
		assert.Equal(t, user, output.User)
		assert.NotNil(t, output.User.LastLoginAt)
		assert.WithinDuration(t, before.Add(time.Hour), output.ExpiresAt, 5*time.Second)
		f.userRepo.AssertExpectations(t)
		f.tokenRepo.AssertExpectations(t)

		verifiedCert, ok := f.authenticator.Calls[0].Arguments.Get(2).(*pkiDomain.Certificate)
		require.True(t, ok)
		assert.Equal(t, alice.cert.Serial, verifiedCert.Serial)
	})

	t.Run("Error_UnknownUserStillConsumesChallenge", func(t *testing.T) {
		f := newSessionFixture()

		f.userRepo.On("GetByUsername", ctx, "alice").Return(nil, authDomain.ErrUserNotFound).Once()
		f.authenticator.On("Verify", ctx, "challenge", mock.Anything, "signature").
			Return(&authDomain.AuthResult{Status: authDomain.AuthStatusInvalidCertificate}, nil).
			Once()

		output, err := f.useCase.Login(ctx, input)

		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		assert.Nil(t, output)
		f.authenticator.AssertExpectations(t)
		f.tokenRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		f := newSessionFixture()
		dbErr := errors.New("database down")

		f.userRepo.On("GetByUsername", ctx, "alice").Return(nil, dbErr).Once()

		_, err := f.useCase.Login(ctx, input)

		assert.ErrorIs(t, err, dbErr)
		f.authenticator.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	statusCases := []struct {
		name   string
		status authDomain.AuthStatus
		err    error
	}{
		{"Error_ChallengeExpired", authDomain.AuthStatusChallengeExpired, authDomain.ErrChallengeExpired},
		{
			"Error_ChallengeReplayed",
			authDomain.AuthStatusChallengeAlreadyConsumed,
			authDomain.ErrChallengeAlreadyConsumed,
		},
		{"Error_ChallengeUnknown", authDomain.AuthStatusChallengeUnknown, authDomain.ErrInvalidCredentials},
		{"Error_InvalidCertificate", authDomain.AuthStatusInvalidCertificate, authDomain.ErrInvalidCredentials},
		{"Error_InvalidSignature", authDomain.AuthStatusInvalidSignature, authDomain.ErrInvalidCredentials},
	}

	for _, tc := range statusCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newSessionFixture()

			f.userRepo.On("GetByUsername", ctx, "alice").Return(userFromIdentity(alice), nil).Once()
			f.authenticator.On("Verify", ctx, "challenge", mock.Anything, "signature").
				Return(&authDomain.AuthResult{Status: tc.status}, nil).
				Once()

			_, err := f.useCase.Login(ctx, input)

			assert.ErrorIs(t, err, tc.err)
			f.tokenRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("Error_TokenCreate", func(t *testing.T) {
		f := newSessionFixture()
		dbErr := errors.New("insert failed")

		f.userRepo.On("GetByUsername", ctx, "alice").Return(userFromIdentity(alice), nil).Once()
		f.authenticator.On("Verify", ctx, "challenge", mock.Anything, "signature").
			Return(&authDomain.AuthResult{Status: authDomain.AuthStatusSuccess}, nil).
			Once()
		f.tokenRepo.On("Create", ctx, mock.Anything).Return(dbErr).Once()

		_, err := f.useCase.Login(ctx, input)

		assert.ErrorIs(t, err, dbErr)
		f.userRepo.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSessionUseCase_LoginWithChallengeAuthenticator(t *testing.T) {
	ctx := context.Background()
	alice, other := testIdentities(t)
	user := userFromIdentity(alice)

	userRepo := &authMocks.MockUserRepository{}
	tokenRepo := &authMocks.MockTokenRepository{}
	ca := &pkiMocks.MockCertificateAuthority{}
	authenticator := NewChallengeAuthenticator(
		authService.NewChallengeStore(),
		ca,
		cryptoService.NewSignatureEngine(),
		time.Minute,
		testLogger(),
	)
	uc := NewSessionUseCase(
		&config.Config{AuthTokenExpiration: time.Hour},
		userRepo,
		tokenRepo,
		authenticator,
		ca,
		authService.NewTokenService(),
		testLogger(),
	)

	userRepo.On("GetByUsername", ctx, "alice").Return(user, nil)
	userRepo.On("UpdateLastLogin", ctx, user.ID, mock.AnythingOfType("time.Time")).Return(nil)
	tokenRepo.On("Create", ctx, mock.Anything).Return(nil)
	ca.On("VerifyCertificate", mock.Anything).Return(true)

	t.Run("Success_ThenReplayRejected", func(t *testing.T) {
		challenge, err := authenticator.IssueChallenge(ctx)
		require.NoError(t, err)
		login := &authDomain.LoginInput{
			Username:  "alice",
			Challenge: challenge.Value,
			Signature: alice.sign(t, challenge.Value),
		}

		output, err := uc.Login(ctx, login)
		require.NoError(t, err)
		assert.NotEmpty(t, output.PlainToken)

		_, err = uc.Login(ctx, login)
		assert.ErrorIs(t, err, authDomain.ErrChallengeAlreadyConsumed)
	})

	t.Run("Error_SignedByAnotherKey", func(t *testing.T) {
		challenge, err := authenticator.IssueChallenge(ctx)
		require.NoError(t, err)

		_, err = uc.Login(ctx, &authDomain.LoginInput{
			Username:  "alice",
			Challenge: challenge.Value,
			Signature: other.sign(t, challenge.Value),
		})

		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})
}

func TestSessionUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()
	alice, _ := testIdentities(t)

	activeToken := func(userID uuid.UUID) *authDomain.Token {
		return &authDomain.Token{
			ID:        uuid.New(),
			TokenHash: "hash",
			UserID:    userID,
			ExpiresAt: time.Now().UTC().Add(time.Hour),
			CreatedAt: time.Now().UTC(),
		}
	}

	t.Run("Success", func(t *testing.T) {
		f := newSessionFixture()
		user := userFromIdentity(alice)
		token := activeToken(user.ID)

		f.tokenRepo.On("GetByTokenHash", ctx, "hash").Return(token, nil).Once()
		f.userRepo.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		f.ca.On("IsRevoked", user.CertificateSerial).Return(false).Once()

		gotUser, gotToken, err := f.useCase.Authenticate(ctx, "hash")

		require.NoError(t, err)
		assert.Equal(t, user, gotUser)
		assert.Equal(t, token, gotToken)
	})

	t.Run("Error_TokenNotFound", func(t *testing.T) {
		f := newSessionFixture()
		f.tokenRepo.On("GetByTokenHash", ctx, "hash").Return(nil, authDomain.ErrTokenNotFound).Once()

		_, _, err := f.useCase.Authenticate(ctx, "hash")

		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})

	t.Run("Error_TokenRevoked", func(t *testing.T) {
		f := newSessionFixture()
		token := activeToken(uuid.New())
		revokedAt := time.Now().UTC()
		token.RevokedAt = &revokedAt
		f.tokenRepo.On("GetByTokenHash", ctx, "hash").Return(token, nil).Once()

		_, _, err := f.useCase.Authenticate(ctx, "hash")

		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		f.userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Error_TokenExpired", func(t *testing.T) {
		f := newSessionFixture()
		token := activeToken(uuid.New())
		token.ExpiresAt = time.Now().UTC().Add(-time.Minute)
		f.tokenRepo.On("GetByTokenHash", ctx, "hash").Return(token, nil).Once()

		_, _, err := f.useCase.Authenticate(ctx, "hash")

		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})

	t.Run("Error_UserDeleted", func(t *testing.T) {
		f := newSessionFixture()
		token := activeToken(uuid.New())
		f.tokenRepo.On("GetByTokenHash", ctx, "hash").Return(token, nil).Once()
		f.userRepo.On("GetByID", ctx, token.UserID).Return(nil, authDomain.ErrUserNotFound).Once()

		_, _, err := f.useCase.Authenticate(ctx, "hash")

		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})

	t.Run("Error_CertificateRevoked", func(t *testing.T) {
		f := newSessionFixture()
		user := userFromIdentity(alice)
		f.tokenRepo.On("GetByTokenHash", ctx, "hash").Return(activeToken(user.ID), nil).Once()
		f.userRepo.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		f.ca.On("IsRevoked", user.CertificateSerial).Return(true).Once()

		_, _, err := f.useCase.Authenticate(ctx, "hash")

		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})

	t.Run("Error_CertificateExpired", func(t *testing.T) {
		f := newSessionFixture()
		user := userFromIdentity(alice)
		user.ExpiresAt = time.Now().UTC().Add(-time.Minute)
		f.tokenRepo.On("GetByTokenHash", ctx, "hash").Return(activeToken(user.ID), nil).Once()
		f.userRepo.On("GetByID", ctx, user.ID).Return(user, nil).Once()

		_, _, err := f.useCase.Authenticate(ctx, "hash")

		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		f.ca.AssertNotCalled(t, "IsRevoked", mock.Anything)
	})
}

func TestSessionUseCase_Logout(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture()
	tokenID := uuid.New()

	f.tokenRepo.On("Revoke", ctx, tokenID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	assert.NoError(t, f.useCase.Logout(ctx, tokenID))
	f.tokenRepo.AssertExpectations(t)
}

func TestSessionUseCase_CleanupExpired(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Delete", func(t *testing.T) {
		f := newSessionFixture()
		f.tokenRepo.On("DeleteExpired", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
			return time.Since(cutoff) > 6*24*time.Hour
		})).Return(int64(4), nil).Once()

		count, err := f.useCase.CleanupExpired(ctx, 7, false)

		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
		f.tokenRepo.AssertNotCalled(t, "CountExpired", mock.Anything, mock.Anything)
	})

	t.Run("Success_DryRun", func(t *testing.T) {
		f := newSessionFixture()
		f.tokenRepo.On("CountExpired", ctx, mock.AnythingOfType("time.Time")).Return(int64(2), nil).Once()

		count, err := f.useCase.CleanupExpired(ctx, 0, true)

		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
		f.tokenRepo.AssertNotCalled(t, "DeleteExpired", mock.Anything, mock.Anything)
	})

	t.Run("Error_NegativeDays", func(t *testing.T) {
		f := newSessionFixture()

		_, err := f.useCase.CleanupExpired(ctx, -1, false)

		assert.Error(t, err)
	})
}

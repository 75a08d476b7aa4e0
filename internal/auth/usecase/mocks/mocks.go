// Package mocks provides mock implementations of the authentication use cases
// and repositories for testing.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockUserRepository) Create(ctx context.Context, user *authDomain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// GetByID mocks the GetByID method.
func (m *MockUserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*authDomain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

// GetByUsername mocks the GetByUsername method.
func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*authDomain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

// ExistsByUsernameOrEmail mocks the ExistsByUsernameOrEmail method.
func (m *MockUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

// UpdateLastLogin mocks the UpdateLastLogin method.
func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

// MockTokenRepository is a mock implementation of TokenRepository.
type MockTokenRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockTokenRepository) Create(ctx context.Context, token *authDomain.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// GetByTokenHash mocks the GetByTokenHash method.
func (m *MockTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Token), args.Error(1)
}

// Revoke mocks the Revoke method.
func (m *MockTokenRepository) Revoke(ctx context.Context, tokenID uuid.UUID, revokedAt time.Time) error {
	args := m.Called(ctx, tokenID, revokedAt)
	return args.Error(0)
}

// DeleteExpired mocks the DeleteExpired method.
func (m *MockTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// CountExpired mocks the CountExpired method.
func (m *MockTokenRepository) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// MockChallengeAuthenticator is a mock implementation of ChallengeAuthenticator.
type MockChallengeAuthenticator struct {
	mock.Mock
}

// IssueChallenge mocks the IssueChallenge method.
func (m *MockChallengeAuthenticator) IssueChallenge(ctx context.Context) (*authDomain.Challenge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Challenge), args.Error(1)
}

// Verify mocks the Verify method.
func (m *MockChallengeAuthenticator) Verify(
	ctx context.Context,
	challenge string,
	cert *pkiDomain.Certificate,
	signature string,
) (*authDomain.AuthResult, error) {
	args := m.Called(ctx, challenge, cert, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.AuthResult), args.Error(1)
}

// PurgeExpired mocks the PurgeExpired method.
func (m *MockChallengeAuthenticator) PurgeExpired() int {
	args := m.Called()
	return args.Int(0)
}

// Run mocks the Run method.
func (m *MockChallengeAuthenticator) Run(ctx context.Context, interval time.Duration) error {
	args := m.Called(ctx, interval)
	return args.Error(0)
}

// MockUserUseCase is a mock implementation of UserUseCase.
type MockUserUseCase struct {
	mock.Mock
}

// Register mocks the Register method.
func (m *MockUserUseCase) Register(
	ctx context.Context,
	input *authDomain.RegisterUserInput,
) (*authDomain.RegisterUserOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.RegisterUserOutput), args.Error(1)
}

// GetByID mocks the GetByID method.
func (m *MockUserUseCase) GetByID(ctx context.Context, userID uuid.UUID) (*authDomain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

// GetByUsername mocks the GetByUsername method.
func (m *MockUserUseCase) GetByUsername(ctx context.Context, username string) (*authDomain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

// MockSessionUseCase is a mock implementation of SessionUseCase.
type MockSessionUseCase struct {
	mock.Mock
}

// Login mocks the Login method.
func (m *MockSessionUseCase) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.LoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.LoginOutput), args.Error(1)
}

// Authenticate mocks the Authenticate method.
func (m *MockSessionUseCase) Authenticate(
	ctx context.Context,
	tokenHash string,
) (*authDomain.User, *authDomain.Token, error) {
	args := m.Called(ctx, tokenHash)
	var (
		user  *authDomain.User
		token *authDomain.Token
	)
	if args.Get(0) != nil {
		user = args.Get(0).(*authDomain.User)
	}
	if args.Get(1) != nil {
		token = args.Get(1).(*authDomain.Token)
	}
	return user, token, args.Error(2)
}

// Logout mocks the Logout method.
func (m *MockSessionUseCase) Logout(ctx context.Context, tokenID uuid.UUID) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

// CleanupExpired mocks the CleanupExpired method.
func (m *MockSessionUseCase) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

package app

import (
	"fmt"

	authHTTP "github.com/allisson/securevault/internal/auth/http"
	authRepository "github.com/allisson/securevault/internal/auth/repository"
	authService "github.com/allisson/securevault/internal/auth/service"
	authUseCase "github.com/allisson/securevault/internal/auth/usecase"
)

func (c *Container) UserRepository() (authUseCase.UserRepository, error) {
	return c.userRepository.get(func() (authUseCase.UserRepository, error) {
		db, err := c.driverDB("user repository")
		if err != nil {
			return nil, err
		}
		if c.isMySQL() {
			return authRepository.NewMySQLUserRepository(db), nil
		}
		return authRepository.NewPostgreSQLUserRepository(db), nil
	})
}

func (c *Container) TokenRepository() (authUseCase.TokenRepository, error) {
	return c.tokenRepository.get(func() (authUseCase.TokenRepository, error) {
		db, err := c.driverDB("token repository")
		if err != nil {
			return nil, err
		}
		if c.isMySQL() {
			return authRepository.NewMySQLTokenRepository(db), nil
		}
		return authRepository.NewPostgreSQLTokenRepository(db), nil
	})
}

// TokenService returns the session token generator and hasher.
func (c *Container) TokenService() authService.TokenService {
	return c.tokenService.must(authService.NewTokenService)
}

// ChallengeAuthenticator returns the challenge-response authenticator. Its
// challenge store lives in process memory.
func (c *Container) ChallengeAuthenticator() (authUseCase.ChallengeAuthenticator, error) {
	return c.challengeAuthenticator.get(func() (authUseCase.ChallengeAuthenticator, error) {
		ca, err := c.CertificateAuthority()
		if err != nil {
			return nil, fmt.Errorf("failed to get certificate authority for challenge authenticator: %w", err)
		}
		authenticator := authUseCase.NewChallengeAuthenticator(
			authService.NewChallengeStore(),
			ca,
			c.SignatureEngine(),
			c.config.ChallengeTTL,
			c.Logger(),
		)
		return withMetrics(c, authenticator, authUseCase.NewChallengeAuthenticatorWithMetrics)
	})
}

// UserUseCase returns the registration and lookup use case.
func (c *Container) UserUseCase() (authUseCase.UserUseCase, error) {
	return c.userUseCase.get(func() (authUseCase.UserUseCase, error) {
		userRepo, err := c.UserRepository()
		if err != nil {
			return nil, err
		}
		ca, err := c.CertificateAuthority()
		if err != nil {
			return nil, fmt.Errorf("failed to get certificate authority for user use case: %w", err)
		}
		useCase := authUseCase.NewUserUseCase(userRepo, ca, c.KeyPairProvider(), c.Logger())
		return withMetrics(c, useCase, authUseCase.NewUserUseCaseWithMetrics)
	})
}

// SessionUseCase returns the login and session use case.
func (c *Container) SessionUseCase() (authUseCase.SessionUseCase, error) {
	return c.sessionUseCase.get(c.initSessionUseCase)
}

// AuthHandler returns the HTTP handler for registration and login.
func (c *Container) AuthHandler() (*authHTTP.AuthHandler, error) {
	return c.authHandler.get(func() (*authHTTP.AuthHandler, error) {
		users, err := c.UserUseCase()
		if err != nil {
			return nil, fmt.Errorf("failed to get user use case for auth handler: %w", err)
		}
		sessions, err := c.SessionUseCase()
		if err != nil {
			return nil, fmt.Errorf("failed to get session use case for auth handler: %w", err)
		}
		authenticator, err := c.ChallengeAuthenticator()
		if err != nil {
			return nil, err
		}
		return authHTTP.NewAuthHandler(users, sessions, authenticator, c.Logger()), nil
	})
}

// UserHandler returns the HTTP handler for user lookups.
func (c *Container) UserHandler() (*authHTTP.UserHandler, error) {
	return c.userHandler.get(func() (*authHTTP.UserHandler, error) {
		users, err := c.UserUseCase()
		if err != nil {
			return nil, fmt.Errorf("failed to get user use case for user handler: %w", err)
		}
		return authHTTP.NewUserHandler(users, c.Logger()), nil
	})
}

func (c *Container) initSessionUseCase() (authUseCase.SessionUseCase, error) {
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, err
	}
	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, err
	}
	authenticator, err := c.ChallengeAuthenticator()
	if err != nil {
		return nil, err
	}
	ca, err := c.CertificateAuthority()
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate authority for session use case: %w", err)
	}

	useCase := authUseCase.NewSessionUseCase(
		c.config,
		userRepo,
		tokenRepo,
		authenticator,
		ca,
		c.TokenService(),
		c.Logger(),
	)
	return withMetrics(c, useCase, authUseCase.NewSessionUseCaseWithMetrics)
}

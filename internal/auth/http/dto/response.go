package dto

import (
	"time"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID                string     `json:"id"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	CertificateSerial string     `json:"certificate_serial"`
	IssuedAt          time.Time  `json:"issued_at"`
	ExpiresAt         time.Time  `json:"expires_at"`
	LastLoginAt       *time.Time `json:"last_login_at"`
	CreatedAt         time.Time  `json:"created_at"`
}

// MapUserToResponse converts a domain user to an API response.
func MapUserToResponse(user *authDomain.User) UserResponse {
	return UserResponse{
		ID:                user.ID.String(),
		Username:          user.Username,
		Email:             user.Email,
		CertificateSerial: user.CertificateSerial,
		IssuedAt:          user.IssuedAt,
		ExpiresAt:         user.ExpiresAt,
		LastLoginAt:       user.LastLoginAt,
		CreatedAt:         user.CreatedAt,
	}
}

// RegisterResponse contains the new user with its credentials.
// SECURITY: The private key is only returned once and is not stored.
type RegisterResponse struct {
	User          UserResponse `json:"user"`
	Certificate   string       `json:"certificate"`
	PublicKey     string       `json:"public_key"`
	PrivateKeyPEM string       `json:"private_key"` //nolint:gosec // returned once on registration
}

// MapRegisterOutputToResponse converts a registration result to an API response.
func MapRegisterOutputToResponse(output *authDomain.RegisterUserOutput) RegisterResponse {
	return RegisterResponse{
		User:          MapUserToResponse(output.User),
		Certificate:   output.User.CertificatePEM,
		PublicKey:     output.User.PublicKeyPEM,
		PrivateKeyPEM: output.PrivateKeyPEM,
	}
}

// ChallengeResponse contains a fresh login challenge.
type ChallengeResponse struct {
	Challenge string    `json:"challenge"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginResponse contains the session token.
// SECURITY: The token is only returned once and must be saved securely.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// MapLoginOutputToResponse converts a login result to an API response.
func MapLoginOutputToResponse(output *authDomain.LoginOutput) LoginResponse {
	return LoginResponse{
		Token:     output.PlainToken,
		ExpiresAt: output.ExpiresAt,
		User:      MapUserToResponse(output.User),
	}
}

// PublicKeyResponse exposes the material other users need to encrypt for a user.
type PublicKeyResponse struct {
	Username          string    `json:"username"`
	PublicKey         string    `json:"public_key"`
	Certificate       string    `json:"certificate"`
	CertificateSerial string    `json:"certificate_serial"`
	ExpiresAt         time.Time `json:"expires_at"`
}

// MapUserToPublicKeyResponse converts a domain user to a public key response.
func MapUserToPublicKeyResponse(user *authDomain.User) PublicKeyResponse {
	return PublicKeyResponse{
		Username:          user.Username,
		PublicKey:         user.PublicKeyPEM,
		Certificate:       user.CertificatePEM,
		CertificateSerial: user.CertificateSerial,
		ExpiresAt:         user.ExpiresAt,
	}
}

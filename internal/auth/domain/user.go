package domain

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

// User is a registered identity. The private key never reaches the server
// after registration; only the public key and certificate are stored.
type User struct {
	ID                uuid.UUID
	Username          string
	Email             string
	PublicKeyPEM      string
	CertificatePEM    string
	CertificateSerial string
	IssuedAt          time.Time
	ExpiresAt         time.Time
	LastLoginAt       *time.Time
	CreatedAt         time.Time
}

// RegisterUserInput contains the identity requested at registration.
type RegisterUserInput struct {
	Username string
	Email    string
}

// Normalize trims the username and lowercases the email.
func (i *RegisterUserInput) Normalize() {
	i.Username = strings.TrimSpace(i.Username)
	i.Email = strings.ToLower(strings.TrimSpace(i.Email))
}

// Validate checks the username format and email syntax.
func (i *RegisterUserInput) Validate() error {
	if !usernamePattern.MatchString(i.Username) {
		return ErrInvalidUsername
	}
	addr, err := mail.ParseAddress(i.Email)
	if err != nil || addr.Address != i.Email {
		return ErrInvalidEmail
	}
	return nil
}

// RegisterUserOutput is returned once at registration.
// PrivateKeyPEM is not stored and cannot be recovered later.
type RegisterUserOutput struct {
	User          *User
	PrivateKeyPEM string
}

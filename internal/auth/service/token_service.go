package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
	apperrors "github.com/allisson/securevault/internal/errors"
)

// tokenSize is the number of random bytes behind a session token.
const tokenSize = 32

// tokenEncoding keeps tokens safe in headers and URLs without escaping.
var tokenEncoding = base64.RawURLEncoding

type tokenService struct {
	random io.Reader
}

func NewTokenService() TokenService {
	return &tokenService{random: rand.Reader}
}

func (t *tokenService) GenerateToken() (string, string, error) {
	raw := make([]byte, tokenSize)
	if _, err := io.ReadFull(t.random, raw); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random token")
	}

	plainToken := tokenEncoding.EncodeToString(raw)
	return plainToken, t.HashToken(plainToken), nil
}

func (t *tokenService) HashToken(plainToken string) string {
	sum := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(sum[:])
}

func (t *tokenService) ParseToken(plainToken string) (string, error) {
	if tokenEncoding.DecodedLen(len(plainToken)) != tokenSize {
		return "", authDomain.ErrMalformedToken
	}
	if _, err := tokenEncoding.DecodeString(plainToken); err != nil {
		return "", authDomain.ErrMalformedToken
	}
	return t.HashToken(plainToken), nil
}

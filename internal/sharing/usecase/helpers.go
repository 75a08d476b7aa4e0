package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	cryptoService "github.com/allisson/securevault/internal/crypto/service"
	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
	pkiUseCase "github.com/allisson/securevault/internal/pki/usecase"
	sharingDomain "github.com/allisson/securevault/internal/sharing/domain"
)

// resolveRecipients looks up usernames in order, dropping blanks, duplicates and
// users listed in skip. Every returned user holds a certificate the CA still trusts.
func resolveRecipients(
	ctx context.Context,
	users UserDirectory,
	ca pkiUseCase.CertificateAuthority,
	usernames []string,
	skip map[uuid.UUID]bool,
) ([]*authDomain.User, error) {
	seen := make(map[string]bool, len(usernames))
	resolved := make([]*authDomain.User, 0, len(usernames))

	for _, username := range usernames {
		username = strings.TrimSpace(username)
		if username == "" || seen[username] {
			continue
		}
		seen[username] = true

		user, err := users.GetByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, authDomain.ErrUserNotFound) {
				return nil, fmt.Errorf("%w: %s", sharingDomain.ErrRecipientNotFound, username)
			}
			return nil, err
		}
		if skip[user.ID] {
			continue
		}
		if !ca.VerifyCertificatePEM(user.CertificatePEM) {
			return nil, fmt.Errorf("%w: %s", sharingDomain.ErrRecipientCertificateInvalid, username)
		}
		resolved = append(resolved, user)
	}
	return resolved, nil
}

// recipientKeys maps user ids to public keys in the form HybridCipher expects.
func recipientKeys(users ...*authDomain.User) map[string]string {
	keys := make(map[string]string, len(users))
	for _, user := range users {
		keys[user.ID.String()] = user.PublicKeyPEM
	}
	return keys
}

// signedBy reports whether signature over payload was made by the key certified to user.
func signedBy(
	engine cryptoService.SignatureEngine,
	user *authDomain.User,
	payload []byte,
	signature cryptoDomain.Signature,
) bool {
	cert, err := pkiDomain.ParseCertificatePEM(user.CertificatePEM)
	if err != nil {
		return false
	}
	pub := cert.PublicKey()
	if pub == nil {
		return false
	}
	return engine.VerifyWithKey(payload, signature, pub)
}

// mapOpenError hides whether a wrong key or a corrupt payload caused the failure.
func mapOpenError(err error) error {
	switch {
	case errors.Is(err, cryptoDomain.ErrKeyUnwrapFailed), errors.Is(err, cryptoDomain.ErrDecryptionFailed):
		return sharingDomain.ErrPayloadUnreadable
	case errors.Is(err, cryptoDomain.ErrRecipientNotFound):
		return sharingDomain.ErrAccessDenied
	default:
		return err
	}
}

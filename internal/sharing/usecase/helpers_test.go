package usecase

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	cryptoService "github.com/allisson/securevault/internal/crypto/service"
	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// member is a registered user together with the private key only they hold.
type member struct {
	user          *authDomain.User
	privateKeyPEM string
}

var (
	membersOnce sync.Once
	members     []*member
	membersErr  error
)

// testMembers returns alice, bob and carol, generated once per test binary.
func testMembers(t *testing.T) (alice, bob, carol *member) {
	t.Helper()
	membersOnce.Do(func() {
		for _, name := range []string{"alice", "bob", "carol"} {
			m, err := newMember(name)
			if err != nil {
				membersErr = err
				return
			}
			members = append(members, m)
		}
	})
	require.NoError(t, membersErr)
	return members[0], members[1], members[2]
}

func newMember(username string) (*member, error) {
	key, err := rsa.GenerateKey(rand.Reader, cryptoDomain.RSAKeyBits)
	if err != nil {
		return nil, err
	}
	publicKeyPEM, err := cryptoDomain.EncodePublicKeyPEM(&key.PublicKey)
	if err != nil {
		return nil, err
	}
	privateKeyPEM, err := cryptoDomain.EncodePrivateKeyPEM(key)
	if err != nil {
		return nil, err
	}

	subject := pkiDomain.Subject{
		CommonName:   username,
		Organization: authDomain.UserOrganization,
		Email:        username + "@example.com",
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 127))
	if err != nil {
		return nil, err
	}
	template := &x509.Certificate{
		SerialNumber: serial,
		Subject:      subject.PKIXName(),
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, err
	}
	cert, err := pkiDomain.ParseCertificatePEM(
		string(pem.EncodeToMemory(&pem.Block{Type: pkiDomain.PEMTypeCertificate, Bytes: der})),
	)
	if err != nil {
		return nil, err
	}

	return &member{
		user: &authDomain.User{
			ID:                uuid.Must(uuid.NewV7()),
			Username:          username,
			Email:             subject.Email,
			PublicKeyPEM:      publicKeyPEM,
			CertificatePEM:    cert.PEM,
			CertificateSerial: cert.Serial,
			IssuedAt:          cert.NotBefore,
			ExpiresAt:         cert.NotAfter,
			CreatedAt:         time.Now().UTC(),
		},
		privateKeyPEM: privateKeyPEM,
	}, nil
}

func newTestCipher(t *testing.T) (cryptoService.HybridCipher, cryptoService.SignatureEngine) {
	t.Helper()
	engine := cryptoService.NewSignatureEngine()
	hybrid, err := cryptoService.NewHybridCipher(cryptoService.NewAEADManager(), engine, cryptoDomain.AESGCM)
	require.NoError(t, err)
	return hybrid, engine
}

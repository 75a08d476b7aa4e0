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

	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	cryptoService "github.com/allisson/securevault/internal/crypto/service"
	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// identity is a user key with a certificate binding it to a subject.
type identity struct {
	key  *rsa.PrivateKey
	cert *pkiDomain.Certificate
}

var (
	identityOnce sync.Once
	aliceID      *identity
	mallory      *identity
	identityErr  error
)

// testIdentities returns two identities generated once per test binary.
func testIdentities(t *testing.T) (alice, other *identity) {
	t.Helper()
	identityOnce.Do(func() {
		aliceID, identityErr = newIdentity("alice", "alice@example.com")
		if identityErr != nil {
			return
		}
		mallory, identityErr = newIdentity("mallory", "mallory@example.com")
	})
	require.NoError(t, identityErr)
	return aliceID, mallory
}

func newIdentity(commonName, email string) (*identity, error) {
	key, err := rsa.GenerateKey(rand.Reader, cryptoDomain.RSAKeyBits)
	if err != nil {
		return nil, err
	}

	subject := pkiDomain.Subject{
		CommonName:   commonName,
		Organization: authDomain.UserOrganization,
		Email:        email,
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
	return &identity{key: key, cert: cert}, nil
}

// sign returns the canonical signature of payload by id.
func (id *identity) sign(t *testing.T, payload string) string {
	t.Helper()
	sig, err := cryptoService.NewSignatureEngine().SignWithKey([]byte(payload), id.key)
	require.NoError(t, err)
	return sig.String()
}

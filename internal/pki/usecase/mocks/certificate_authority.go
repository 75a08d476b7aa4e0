// Package mocks provides mock implementations of the certificate authority for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
)

// MockCertificateAuthority is a mock implementation of CertificateAuthority.
type MockCertificateAuthority struct {
	mock.Mock
}

// Activate mocks the Activate method.
func (m *MockCertificateAuthority) Activate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ActivateExisting mocks the ActivateExisting method.
func (m *MockCertificateAuthority) ActivateExisting(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// InitializeRoot mocks the InitializeRoot method.
func (m *MockCertificateAuthority) InitializeRoot(ctx context.Context) (*pkiDomain.Certificate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pkiDomain.Certificate), args.Error(1)
}

// IssueCertificate mocks the IssueCertificate method.
func (m *MockCertificateAuthority) IssueCertificate(
	ctx context.Context,
	publicKeyPEM string,
	subject pkiDomain.Subject,
) (*pkiDomain.Certificate, error) {
	args := m.Called(ctx, publicKeyPEM, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pkiDomain.Certificate), args.Error(1)
}

// VerifyCertificate mocks the VerifyCertificate method.
func (m *MockCertificateAuthority) VerifyCertificate(cert *pkiDomain.Certificate) bool {
	args := m.Called(cert)
	return args.Bool(0)
}

// VerifyCertificatePEM mocks the VerifyCertificatePEM method.
func (m *MockCertificateAuthority) VerifyCertificatePEM(certificatePEM string) bool {
	args := m.Called(certificatePEM)
	return args.Bool(0)
}

// Revoke mocks the Revoke method.
func (m *MockCertificateAuthority) Revoke(ctx context.Context, serial, reason string) error {
	args := m.Called(ctx, serial, reason)
	return args.Error(0)
}

// IsRevoked mocks the IsRevoked method.
func (m *MockCertificateAuthority) IsRevoked(serial string) bool {
	args := m.Called(serial)
	return args.Bool(0)
}

// RootCertificate mocks the RootCertificate method.
func (m *MockCertificateAuthority) RootCertificate() (*pkiDomain.Certificate, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pkiDomain.Certificate), args.Error(1)
}

// Info mocks the Info method.
func (m *MockCertificateAuthority) Info() (*pkiDomain.CAInfo, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pkiDomain.CAInfo), args.Error(1)
}

// ListRevocations mocks the ListRevocations method.
func (m *MockCertificateAuthority) ListRevocations(ctx context.Context) ([]*pkiDomain.Revocation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pkiDomain.Revocation), args.Error(1)
}

// RefreshRevocations mocks the RefreshRevocations method.
func (m *MockCertificateAuthority) RefreshRevocations(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

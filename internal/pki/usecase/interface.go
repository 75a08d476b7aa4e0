// Package usecase implements the certificate authority: root lifecycle, leaf
// issuance, verification and revocation.
package usecase

import (
	"context"

	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
)

// RootRepository persists the single root CA identity.
type RootRepository interface {
	// Get returns the root or ErrRootNotFound.
	Get(ctx context.Context) (*pkiDomain.Root, error)
	// Create stores the root or returns ErrRootAlreadyExists.
	Create(ctx context.Context, root *pkiDomain.Root) error
}

// RevocationRepository persists the append-only revocation list.
type RevocationRepository interface {
	// Create inserts the entry unless the serial is already revoked.
	// Returns true when a row was written.
	Create(ctx context.Context, revocation *pkiDomain.Revocation) (bool, error)
	// List returns all entries ordered by revocation time.
	List(ctx context.Context) ([]*pkiDomain.Revocation, error)
}

// IssuedCertificateRepository records allocated leaf serials.
type IssuedCertificateRepository interface {
	// Create stores the record or returns ErrSerialConflict.
	Create(ctx context.Context, issued *pkiDomain.IssuedCertificate) error
	// GetBySerial returns the record or ErrCertificateNotFound.
	GetBySerial(ctx context.Context, serial string) (*pkiDomain.IssuedCertificate, error)
}

// CertificateAuthority issues, verifies and revokes leaf certificates under one root.
//
// All operations except Activate, ActivateExisting, InitializeRoot and
// ListRevocations return ErrCANotActive (or false) until activation succeeds. Verification outcomes are booleans; only
// malformed input is reported as an error.
type CertificateAuthority interface {
	// Activate loads or creates the root and the revocation set.
	// A root that fails validation yields ErrRootCorrupt and is never replaced.
	Activate(ctx context.Context) error

	// ActivateExisting is Activate without root creation. Returns ErrRootNotFound
	// when no root is persisted.
	ActivateExisting(ctx context.Context) error

	// InitializeRoot creates the root. Returns ErrRootAlreadyExists when one is persisted.
	InitializeRoot(ctx context.Context) (*pkiDomain.Certificate, error)

	// IssueCertificate binds publicKeyPEM to subject in a new leaf certificate.
	IssueCertificate(
		ctx context.Context,
		publicKeyPEM string,
		subject pkiDomain.Subject,
	) (*pkiDomain.Certificate, error)

	// VerifyCertificate checks validity window, revocation state and root signature.
	VerifyCertificate(cert *pkiDomain.Certificate) bool

	// VerifyCertificatePEM parses certificatePEM and verifies it. Malformed input is false.
	VerifyCertificatePEM(certificatePEM string) bool

	// Revoke adds serial to the revocation set. Repeated or unknown serials are not errors.
	Revoke(ctx context.Context, serial, reason string) error

	// IsRevoked reports whether serial is in the revocation set.
	IsRevoked(serial string) bool

	// RootCertificate returns the root for distribution to clients.
	RootCertificate() (*pkiDomain.Certificate, error)

	// Info summarizes the active root.
	Info() (*pkiDomain.CAInfo, error)

	// ListRevocations returns the persisted revocation list.
	ListRevocations(ctx context.Context) ([]*pkiDomain.Revocation, error)

	// RefreshRevocations merges persisted revocations into the in-memory set.
	RefreshRevocations(ctx context.Context) error
}

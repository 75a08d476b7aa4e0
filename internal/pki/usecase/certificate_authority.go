package usecase

import (
	"bytes"
	"context"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	cryptoService "github.com/allisson/securevault/internal/crypto/service"
	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
	pkiService "github.com/allisson/securevault/internal/pki/service"
)

// maxSerialAttempts bounds serial allocation retries on a unique constraint collision.
const maxSerialAttempts = 3

// Config holds certificate authority configuration.
type Config struct {
	Subject      pkiDomain.Subject
	RootValidity time.Duration
	CertValidity time.Duration
	KMSKeyURI    string
}

// certificateAuthority implements CertificateAuthority.
//
// mu guards every field below it. Issue, Revoke, Activate and RefreshRevocations
// take the write lock; verification and reads take the read lock.
type certificateAuthority struct {
	config          Config
	rootRepo        RootRepository
	revocationRepo  RevocationRepository
	issuedRepo      IssuedCertificateRepository
	keyPairProvider cryptoService.KeyPairProvider
	signer          pkiService.CertificateSigner
	kmsService      cryptoService.KMSService
	logger          *slog.Logger
	now             func() time.Time

	mu          sync.RWMutex
	active      bool
	root        *pkiDomain.Certificate
	rootKey     *rsa.PrivateKey
	revoked     map[string]*pkiDomain.Revocation
	activatedAt time.Time
}

// NewCertificateAuthority creates an uninitialized CertificateAuthority.
// Activate must succeed before certificates can be issued or verified.
func NewCertificateAuthority(
	config Config,
	rootRepo RootRepository,
	revocationRepo RevocationRepository,
	issuedRepo IssuedCertificateRepository,
	keyPairProvider cryptoService.KeyPairProvider,
	signer pkiService.CertificateSigner,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
) CertificateAuthority {
	if config.RootValidity <= 0 {
		config.RootValidity = pkiDomain.DefaultRootValidity
	}
	if config.CertValidity <= 0 {
		config.CertValidity = pkiDomain.DefaultCertValidity
	}
	return &certificateAuthority{
		config:          config,
		rootRepo:        rootRepo,
		revocationRepo:  revocationRepo,
		issuedRepo:      issuedRepo,
		keyPairProvider: keyPairProvider,
		signer:          signer,
		kmsService:      kmsService,
		logger:          logger,
		now:             time.Now,
		revoked:         make(map[string]*pkiDomain.Revocation),
	}
}

// Activate loads the persisted root or creates one on first start, then loads
// the revocation list.
func (c *certificateAuthority) Activate(ctx context.Context) error {
	return c.activate(ctx, true)
}

// ActivateExisting loads the persisted root and the revocation list.
func (c *certificateAuthority) ActivateExisting(ctx context.Context) error {
	return c.activate(ctx, false)
}

func (c *certificateAuthority) activate(ctx context.Context, create bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		return nil
	}

	var (
		root    *pkiDomain.Certificate
		rootKey *rsa.PrivateKey
		created bool
		err     error
	)
	if create {
		root, rootKey, created, err = c.loadOrCreateRoot(ctx)
	} else {
		root, rootKey, err = c.loadExistingRoot(ctx)
	}
	if err != nil {
		return err
	}

	revocations, err := c.revocationRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load revocation list: %w", err)
	}
	revoked := make(map[string]*pkiDomain.Revocation, len(revocations))
	for _, r := range revocations {
		revoked[r.Serial] = r
	}

	if !root.ValidAt(c.now()) {
		c.logger.Warn("root certificate is outside its validity window",
			slog.String("serial", root.Serial),
			slog.Time("not_after", root.NotAfter),
		)
	}

	c.root = root
	c.rootKey = rootKey
	c.revoked = revoked
	c.activatedAt = c.now().UTC()
	c.active = true

	c.logger.Info("certificate authority active",
		slog.String("serial", root.Serial),
		slog.String("fingerprint", root.Fingerprint()),
		slog.Bool("root_created", created),
		slog.Int("revoked_count", len(revoked)),
	)
	return nil
}

// loadOrCreateRoot returns the persisted root, creating it when none exists.
// When another process creates the root concurrently, that root wins.
func (c *certificateAuthority) loadOrCreateRoot(
	ctx context.Context,
) (*pkiDomain.Certificate, *rsa.PrivateKey, bool, error) {
	stored, err := c.rootRepo.Get(ctx)
	if err == nil {
		root, key, err := c.loadRoot(ctx, stored)
		return root, key, false, err
	}
	if !errors.Is(err, pkiDomain.ErrRootNotFound) {
		return nil, nil, false, fmt.Errorf("failed to load root: %w", err)
	}

	root, key, err := c.createRoot(ctx)
	if errors.Is(err, pkiDomain.ErrRootAlreadyExists) {
		stored, err := c.rootRepo.Get(ctx)
		if err != nil {
			return nil, nil, false, fmt.Errorf("failed to load root: %w", err)
		}
		root, key, err := c.loadRoot(ctx, stored)
		return root, key, false, err
	}
	if err != nil {
		return nil, nil, false, err
	}
	return root, key, true, nil
}

// loadExistingRoot returns the persisted root, or ErrRootNotFound.
func (c *certificateAuthority) loadExistingRoot(ctx context.Context) (*pkiDomain.Certificate, *rsa.PrivateKey, error) {
	stored, err := c.rootRepo.Get(ctx)
	if errors.Is(err, pkiDomain.ErrRootNotFound) {
		return nil, nil, err
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load root: %w", err)
	}
	return c.loadRoot(ctx, stored)
}

// createRoot generates, self-signs, seals and persists a new root.
func (c *certificateAuthority) createRoot(ctx context.Context) (*pkiDomain.Certificate, *rsa.PrivateKey, error) {
	if err := c.config.Subject.Validate(); err != nil {
		return nil, nil, fmt.Errorf("root subject: %w", err)
	}

	key, err := c.keyPairProvider.GenerateKey()
	if err != nil {
		return nil, nil, err
	}

	serial, err := c.signer.NewSerial()
	if err != nil {
		return nil, nil, err
	}

	notBefore := c.now().UTC()
	root, err := c.signer.SignRoot(c.config.Subject, key, serial, notBefore, notBefore.Add(c.config.RootValidity))
	if err != nil {
		return nil, nil, err
	}

	sealed, err := c.sealRootKey(ctx, key)
	if err != nil {
		return nil, nil, err
	}

	if err := c.rootRepo.Create(ctx, &pkiDomain.Root{
		ID:               uuid.Must(uuid.NewV7()),
		Serial:           root.Serial,
		CertificatePEM:   root.PEM,
		SealedPrivateKey: sealed,
		CreatedAt:        notBefore,
	}); err != nil {
		return nil, nil, err
	}

	c.logger.Info("root certificate created",
		slog.String("serial", root.Serial),
		slog.String("subject", root.Subject.String()),
		slog.Time("not_after", root.NotAfter),
	)
	return root, key, nil
}

// loadRoot parses and validates a persisted root. Any inconsistency is ErrRootCorrupt.
func (c *certificateAuthority) loadRoot(
	ctx context.Context,
	stored *pkiDomain.Root,
) (*pkiDomain.Certificate, *rsa.PrivateKey, error) {
	root, err := pkiDomain.ParseCertificatePEM(stored.CertificatePEM)
	if err != nil {
		return nil, nil, c.corrupt(err)
	}
	if root.Serial != stored.Serial {
		return nil, nil, c.corrupt(errors.New("stored serial does not match the certificate"))
	}

	key, err := c.unsealRootKey(ctx, stored.SealedPrivateKey)
	if err != nil {
		return nil, nil, err
	}

	if err := c.signer.CheckRoot(root, key); err != nil {
		return nil, nil, c.corrupt(err)
	}
	return root, key, nil
}

func (c *certificateAuthority) corrupt(cause error) error {
	c.logger.Error("root certificate authority failed validation", slog.Any("error", cause))
	return fmt.Errorf("%w: %v", pkiDomain.ErrRootCorrupt, cause)
}

func (c *certificateAuthority) sealRootKey(ctx context.Context, key *rsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to encode root key: %w", err)
	}
	defer cryptoDomain.Wipe(der)

	sealed, err := c.kmsService.Seal(ctx, c.config.KMSKeyURI, der)
	if err != nil {
		return nil, fmt.Errorf("failed to seal root key: %w", err)
	}
	return sealed, nil
}

// unsealRootKey decrypts the root key. An unreachable KMS is an ordinary error;
// a ciphertext the KMS rejects is ErrRootCorrupt.
func (c *certificateAuthority) unsealRootKey(ctx context.Context, sealed []byte) (*rsa.PrivateKey, error) {
	der, err := c.kmsService.Unseal(ctx, c.config.KMSKeyURI, sealed)
	if errors.Is(err, cryptoService.ErrUnsealFailed) {
		return nil, c.corrupt(err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unseal root key: %w", err)
	}
	defer cryptoDomain.Wipe(der)

	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, c.corrupt(errors.New("root key is not PKCS#8"))
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, c.corrupt(errors.New("root key is not RSA"))
	}
	return key, nil
}

// InitializeRoot creates the root without activating the authority.
func (c *certificateAuthority) InitializeRoot(ctx context.Context) (*pkiDomain.Certificate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.rootRepo.Get(ctx)
	if err == nil {
		return nil, pkiDomain.ErrRootAlreadyExists
	}
	if !errors.Is(err, pkiDomain.ErrRootNotFound) {
		return nil, fmt.Errorf("failed to load root: %w", err)
	}

	root, _, err := c.createRoot(ctx)
	if err != nil {
		return nil, err
	}
	return root, nil
}

// IssueCertificate signs a leaf certificate binding publicKeyPEM to subject.
func (c *certificateAuthority) IssueCertificate(
	ctx context.Context,
	publicKeyPEM string,
	subject pkiDomain.Subject,
) (*pkiDomain.Certificate, error) {
	if err := subject.Validate(); err != nil {
		return nil, err
	}
	pub, err := cryptoDomain.ParsePublicKeyPEM(publicKeyPEM)
	if err != nil {
		return nil, pkiDomain.ErrInvalidPublicKey
	}
	if pub.N.BitLen() < cryptoDomain.MinRSAKeyBits {
		return nil, fmt.Errorf("%w: key must be at least %d bits", pkiDomain.ErrInvalidPublicKey, cryptoDomain.MinRSAKeyBits)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return nil, pkiDomain.ErrCANotActive
	}

	notBefore := c.now().UTC()
	notAfter := notBefore.Add(c.config.CertValidity)
	if notAfter.After(c.root.NotAfter) {
		notAfter = c.root.NotAfter
	}

	for range maxSerialAttempts {
		serial, err := c.signer.NewSerial()
		if err != nil {
			return nil, err
		}

		cert, err := c.signer.SignLeaf(subject, pub, serial, notBefore, notAfter, c.root, c.rootKey)
		if err != nil {
			return nil, err
		}

		err = c.issuedRepo.Create(ctx, &pkiDomain.IssuedCertificate{
			Serial:            cert.Serial,
			SubjectCommonName: subject.CommonName,
			SubjectEmail:      subject.Email,
			Fingerprint:       cert.Fingerprint(),
			NotBefore:         cert.NotBefore,
			NotAfter:          cert.NotAfter,
			CreatedAt:         notBefore,
		})
		if errors.Is(err, pkiDomain.ErrSerialConflict) {
			c.logger.Warn("certificate serial collision, retrying", slog.String("serial", serial))
			continue
		}
		if err != nil {
			return nil, err
		}

		c.logger.Info("certificate issued",
			slog.String("serial", cert.Serial),
			slog.String("common_name", subject.CommonName),
			slog.Time("not_after", cert.NotAfter),
		)
		return cert, nil
	}

	return nil, pkiDomain.ErrSerialExhausted
}

// VerifyCertificate reports whether cert is within its validity window, not
// revoked, and signed by the root. Only the DER encoding is consulted.
func (c *certificateAuthority) VerifyCertificate(cert *pkiDomain.Certificate) bool {
	x := cert.X509()
	if x == nil {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.active {
		return false
	}

	now := c.now()
	if now.Before(x.NotBefore) || now.After(x.NotAfter) {
		return false
	}

	if _, revoked := c.revoked[pkiDomain.FormatSerial(x.SerialNumber)]; revoked {
		return false
	}

	if bytes.Equal(x.Raw, c.root.X509().Raw) {
		return true
	}
	if x.BasicConstraintsValid && x.IsCA {
		return false
	}

	return c.signer.CheckIssuedBy(cert, c.root)
}

// VerifyCertificatePEM parses certificatePEM and verifies it.
func (c *certificateAuthority) VerifyCertificatePEM(certificatePEM string) bool {
	cert, err := pkiDomain.ParseCertificatePEM(certificatePEM)
	if err != nil {
		return false
	}
	return c.VerifyCertificate(cert)
}

// Revoke persists the revocation before adding it to the in-memory set.
func (c *certificateAuthority) Revoke(ctx context.Context, serial, reason string) error {
	normalized, err := pkiDomain.NormalizeSerial(serial)
	if err != nil {
		return err
	}
	if reason == "" {
		reason = pkiDomain.DefaultRevocationReason
	}
	if utf8.RuneCountInString(reason) > pkiDomain.MaxRevocationReasonLength {
		return fmt.Errorf("%w: exceeds %d characters", pkiDomain.ErrInvalidRevocationReason,
			pkiDomain.MaxRevocationReasonLength)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return pkiDomain.ErrCANotActive
	}
	if _, ok := c.revoked[normalized]; ok {
		return nil
	}

	revocation := &pkiDomain.Revocation{
		Serial:    normalized,
		Reason:    reason,
		RevokedAt: c.now().UTC(),
	}
	created, err := c.revocationRepo.Create(ctx, revocation)
	if err != nil {
		return err
	}
	c.revoked[normalized] = revocation

	if created {
		c.logger.Info("certificate revoked",
			slog.String("serial", normalized),
			slog.String("reason", reason),
		)
	}
	return nil
}

// IsRevoked reports whether serial is in the revocation set.
func (c *certificateAuthority) IsRevoked(serial string) bool {
	normalized, err := pkiDomain.NormalizeSerial(serial)
	if err != nil {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	_, revoked := c.revoked[normalized]
	return revoked
}

// RootCertificate returns the active root.
func (c *certificateAuthority) RootCertificate() (*pkiDomain.Certificate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.active {
		return nil, pkiDomain.ErrCANotActive
	}
	return c.root, nil
}

// Info summarizes the active root.
func (c *certificateAuthority) Info() (*pkiDomain.CAInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.active {
		return nil, pkiDomain.ErrCANotActive
	}
	return &pkiDomain.CAInfo{
		Subject:      c.root.Subject,
		Serial:       c.root.Serial,
		NotBefore:    c.root.NotBefore,
		NotAfter:     c.root.NotAfter,
		Fingerprint:  c.root.Fingerprint(),
		RevokedCount: len(c.revoked),
		ActivatedAt:  c.activatedAt,
	}, nil
}

// ListRevocations reads the persisted list. It does not require activation so
// operators can inspect revocations without unsealing the root key.
func (c *certificateAuthority) ListRevocations(ctx context.Context) ([]*pkiDomain.Revocation, error) {
	return c.revocationRepo.List(ctx)
}

// RefreshRevocations merges revocations written by other processes.
func (c *certificateAuthority) RefreshRevocations(ctx context.Context) error {
	revocations, err := c.revocationRepo.List(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return pkiDomain.ErrCANotActive
	}

	added := 0
	for _, r := range revocations {
		if _, ok := c.revoked[r.Serial]; ok {
			continue
		}
		c.revoked[r.Serial] = r
		added++
	}
	if added > 0 {
		c.logger.Info("revocation list refreshed", slog.Int("added", added))
	}
	return nil
}

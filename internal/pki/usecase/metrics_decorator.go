package usecase

import (
	"context"
	"time"

	"github.com/allisson/securevault/internal/metrics"
	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
)

const metricsDomain = "pki"

// certificateAuthorityWithMetrics decorates CertificateAuthority with metrics instrumentation.
type certificateAuthorityWithMetrics struct {
	next    CertificateAuthority
	metrics metrics.BusinessMetrics
}

// NewCertificateAuthorityWithMetrics wraps a CertificateAuthority with metrics recording.
func NewCertificateAuthorityWithMetrics(ca CertificateAuthority, m metrics.BusinessMetrics) CertificateAuthority {
	return &certificateAuthorityWithMetrics{
		next:    ca,
		metrics: m,
	}
}

// Activate records metrics for activation.
func (c *certificateAuthorityWithMetrics) Activate(ctx context.Context) error {
	start := time.Now()
	err := c.next.Activate(ctx)
	metrics.Observe(ctx, c.metrics, metricsDomain, "ca_activate", start, err != nil)
	return err
}

// ActivateExisting records metrics for activation without root creation.
func (c *certificateAuthorityWithMetrics) ActivateExisting(ctx context.Context) error {
	start := time.Now()
	err := c.next.ActivateExisting(ctx)
	metrics.Observe(ctx, c.metrics, metricsDomain, "ca_activate", start, err != nil)
	return err
}

// InitializeRoot records metrics for root creation.
func (c *certificateAuthorityWithMetrics) InitializeRoot(ctx context.Context) (*pkiDomain.Certificate, error) {
	start := time.Now()
	cert, err := c.next.InitializeRoot(ctx)
	metrics.Observe(ctx, c.metrics, metricsDomain, "ca_initialize_root", start, err != nil)
	return cert, err
}

// IssueCertificate records metrics for certificate issuance.
func (c *certificateAuthorityWithMetrics) IssueCertificate(
	ctx context.Context,
	publicKeyPEM string,
	subject pkiDomain.Subject,
) (*pkiDomain.Certificate, error) {
	start := time.Now()
	cert, err := c.next.IssueCertificate(ctx, publicKeyPEM, subject)
	metrics.Observe(ctx, c.metrics, metricsDomain, "certificate_issue", start, err != nil)
	return cert, err
}

// VerifyCertificate records a failed verification as status "error".
func (c *certificateAuthorityWithMetrics) VerifyCertificate(cert *pkiDomain.Certificate) bool {
	start := time.Now()
	ok := c.next.VerifyCertificate(cert)
	metrics.Observe(context.Background(), c.metrics, metricsDomain, "certificate_verify", start, !ok)
	return ok
}

// VerifyCertificatePEM records a failed verification as status "error".
func (c *certificateAuthorityWithMetrics) VerifyCertificatePEM(certificatePEM string) bool {
	start := time.Now()
	ok := c.next.VerifyCertificatePEM(certificatePEM)
	metrics.Observe(context.Background(), c.metrics, metricsDomain, "certificate_verify", start, !ok)
	return ok
}

// Revoke records metrics for revocation.
func (c *certificateAuthorityWithMetrics) Revoke(ctx context.Context, serial, reason string) error {
	start := time.Now()
	err := c.next.Revoke(ctx, serial, reason)
	metrics.Observe(ctx, c.metrics, metricsDomain, "certificate_revoke", start, err != nil)
	return err
}

// IsRevoked is not instrumented.
func (c *certificateAuthorityWithMetrics) IsRevoked(serial string) bool {
	return c.next.IsRevoked(serial)
}

// RootCertificate is not instrumented.
func (c *certificateAuthorityWithMetrics) RootCertificate() (*pkiDomain.Certificate, error) {
	return c.next.RootCertificate()
}

// Info is not instrumented.
func (c *certificateAuthorityWithMetrics) Info() (*pkiDomain.CAInfo, error) {
	return c.next.Info()
}

// ListRevocations records metrics for revocation listing.
func (c *certificateAuthorityWithMetrics) ListRevocations(ctx context.Context) ([]*pkiDomain.Revocation, error) {
	start := time.Now()
	revocations, err := c.next.ListRevocations(ctx)
	metrics.Observe(ctx, c.metrics, metricsDomain, "revocation_list", start, err != nil)
	return revocations, err
}

// RefreshRevocations records metrics for revocation refreshes.
func (c *certificateAuthorityWithMetrics) RefreshRevocations(ctx context.Context) error {
	start := time.Now()
	err := c.next.RefreshRevocations(ctx)
	metrics.Observe(ctx, c.metrics, metricsDomain, "revocation_refresh", start, err != nil)
	return err
}

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
	pkiUseCase "github.com/allisson/securevault/internal/pki/usecase"
)

// RunInitCA creates the root certificate authority and prints its certificate.
// Fails with ErrRootAlreadyExists when a root is already persisted.
func RunInitCA(
	ctx context.Context,
	ca pkiUseCase.CertificateAuthority,
	logger *slog.Logger,
	w io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	root, err := ca.InitializeRoot(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize root certificate: %w", err)
	}

	logger.Info("root certificate initialized",
		slog.String("serial", root.Serial),
		slog.String("fingerprint", root.Fingerprint()),
	)

	if format == formatJSON {
		return writeJSON(w, map[string]any{
			"serial":          root.Serial,
			"subject":         root.Subject,
			"not_before":      root.NotBefore,
			"not_after":       root.NotAfter,
			"fingerprint":     root.Fingerprint(),
			"certificate_pem": root.PEM,
		})
	}

	_, _ = fmt.Fprintln(w, "Root certificate created successfully")
	_, _ = fmt.Fprintf(w, "Serial:      %s\n", root.Serial)
	_, _ = fmt.Fprintf(w, "Subject:     %s\n", root.Subject.String())
	_, _ = fmt.Fprintf(w, "Valid until: %s\n", root.NotAfter.Format(time.RFC3339))
	_, _ = fmt.Fprintf(w, "Fingerprint: %s\n\n", root.Fingerprint())
	_, _ = fmt.Fprint(w, root.PEM)
	return nil
}

// RunCAInfo activates the certificate authority from its persisted root and prints
// a summary. Fails with ErrRootNotFound when no root exists.
func RunCAInfo(ctx context.Context, ca pkiUseCase.CertificateAuthority, w io.Writer, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if err := ca.ActivateExisting(ctx); err != nil {
		return fmt.Errorf("failed to activate certificate authority: %w", err)
	}

	info, err := ca.Info()
	if err != nil {
		return fmt.Errorf("failed to read certificate authority info: %w", err)
	}

	if format == formatJSON {
		return writeJSON(w, map[string]any{
			"subject":       info.Subject,
			"serial":        info.Serial,
			"not_before":    info.NotBefore,
			"not_after":     info.NotAfter,
			"fingerprint":   info.Fingerprint,
			"revoked_count": info.RevokedCount,
		})
	}

	_, _ = fmt.Fprintf(w, "Subject:       %s\n", info.Subject.String())
	_, _ = fmt.Fprintf(w, "Serial:        %s\n", info.Serial)
	_, _ = fmt.Fprintf(w, "Not before:    %s\n", info.NotBefore.Format(time.RFC3339))
	_, _ = fmt.Fprintf(w, "Not after:     %s\n", info.NotAfter.Format(time.RFC3339))
	_, _ = fmt.Fprintf(w, "Fingerprint:   %s\n", info.Fingerprint)
	_, _ = fmt.Fprintf(w, "Revoked certs: %d\n", info.RevokedCount)
	return nil
}

// RunRevokeCertificate adds serial to the revocation list.
// Revoking an already revoked serial succeeds without changing the original entry.
func RunRevokeCertificate(
	ctx context.Context,
	ca pkiUseCase.CertificateAuthority,
	logger *slog.Logger,
	w io.Writer,
	serial, reason, format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if err := ca.ActivateExisting(ctx); err != nil {
		return fmt.Errorf("failed to activate certificate authority: %w", err)
	}
	if err := ca.Revoke(ctx, serial, reason); err != nil {
		return fmt.Errorf("failed to revoke certificate: %w", err)
	}

	logger.Info("certificate revoked", slog.String("serial", serial), slog.String("reason", reason))

	if format == formatJSON {
		return writeJSON(w, map[string]any{
			"serial":  serial,
			"reason":  reason,
			"revoked": true,
		})
	}

	_, _ = fmt.Fprintf(w, "Certificate %s revoked (reason: %s)\n", serial, reason)
	return nil
}

// RunListRevocations prints the persisted revocation list.
func RunListRevocations(ctx context.Context, ca pkiUseCase.CertificateAuthority, w io.Writer, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	revocations, err := ca.ListRevocations(ctx)
	if err != nil {
		return fmt.Errorf("failed to list revocations: %w", err)
	}

	if format == formatJSON {
		return writeJSON(w, revocationsToJSON(revocations))
	}

	if len(revocations) == 0 {
		_, _ = fmt.Fprintln(w, "No revoked certificates")
		return nil
	}
	for _, r := range revocations {
		_, _ = fmt.Fprintf(w, "%s  %s  %s\n", r.Serial, r.RevokedAt.Format(time.RFC3339), r.Reason)
	}
	return nil
}

func revocationsToJSON(revocations []*pkiDomain.Revocation) []map[string]any {
	items := make([]map[string]any, 0, len(revocations))
	for _, r := range revocations {
		items = append(items, map[string]any{
			"serial":     r.Serial,
			"reason":     r.Reason,
			"revoked_at": r.RevokedAt,
		})
	}
	return items
}

// RunVerifyCertificate checks certificatePEM against the root and the revocation list.
// An untrusted certificate is reported in the output and as an error so the exit code is non-zero.
func RunVerifyCertificate(
	ctx context.Context,
	ca pkiUseCase.CertificateAuthority,
	w io.Writer,
	certificatePEM, format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if err := ca.ActivateExisting(ctx); err != nil {
		return fmt.Errorf("failed to activate certificate authority: %w", err)
	}

	cert, err := pkiDomain.ParseCertificatePEM(certificatePEM)
	if err != nil {
		return fmt.Errorf("failed to parse certificate: %w", err)
	}

	valid := ca.VerifyCertificate(cert)
	revoked := ca.IsRevoked(cert.Serial)

	if format == formatJSON {
		if err := writeJSON(w, map[string]any{
			"serial":    cert.Serial,
			"subject":   cert.Subject,
			"not_after": cert.NotAfter,
			"valid":     valid,
			"revoked":   revoked,
		}); err != nil {
			return err
		}
	} else {
		status := "VALID"
		if !valid {
			status = "INVALID"
		}
		_, _ = fmt.Fprintf(w, "Certificate %s (%s): %s\n", cert.Serial, cert.Subject.String(), status)
		if revoked {
			_, _ = fmt.Fprintln(w, "The certificate has been revoked")
		}
	}

	if !valid {
		return fmt.Errorf("certificate %s is not trusted", cert.Serial)
	}
	return nil
}

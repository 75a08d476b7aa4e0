// Package domain defines the certificate authority domain models and errors.
package domain

import (
	"github.com/allisson/securevault/internal/errors"
)

// Certificate authority error definitions.
//
// Input errors wrap ErrInvalidInput and are safe to return to remote callers.
// ErrRootCorrupt is fatal: the process must stop and an operator must intervene.
var (
	// ErrInvalidSubject indicates a required subject field is empty or malformed.
	ErrInvalidSubject = errors.Wrap(errors.ErrInvalidInput, "invalid subject")

	// ErrInvalidPublicKey indicates the subject public key cannot be parsed or is too weak.
	ErrInvalidPublicKey = errors.Wrap(errors.ErrInvalidInput, "invalid public key")

	// ErrInvalidCertificate indicates a certificate cannot be decoded.
	ErrInvalidCertificate = errors.Wrap(errors.ErrInvalidInput, "invalid certificate")

	// ErrInvalidSerial indicates a serial is not a 32 character hex string.
	ErrInvalidSerial = errors.Wrap(errors.ErrInvalidInput, "invalid certificate serial")

	// ErrInvalidRevocationReason indicates a revocation reason longer than MaxRevocationReasonLength.
	ErrInvalidRevocationReason = errors.Wrap(errors.ErrInvalidInput, "invalid revocation reason")

	// ErrCANotActive indicates the certificate authority has not been activated.
	ErrCANotActive = errors.Wrap(errors.ErrUnavailable, "certificate authority is not active")

	// ErrRootNotFound indicates no root has been persisted yet.
	ErrRootNotFound = errors.Wrap(errors.ErrNotFound, "root certificate not found")

	// ErrRootAlreadyExists indicates a root has already been persisted.
	ErrRootAlreadyExists = errors.Wrap(errors.ErrConflict, "root certificate already exists")

	// ErrCertificateNotFound indicates no certificate was issued with the serial.
	ErrCertificateNotFound = errors.Wrap(errors.ErrNotFound, "certificate not found")

	// ErrSerialConflict indicates the serial was already allocated.
	ErrSerialConflict = errors.Wrap(errors.ErrConflict, "certificate serial already issued")

	// ErrSerialExhausted indicates no unique serial could be allocated.
	ErrSerialExhausted = errors.New("failed to allocate a unique certificate serial")

	// ErrRootCorrupt indicates the persisted root cannot be trusted.
	ErrRootCorrupt = errors.New("root certificate authority is corrupt")
)

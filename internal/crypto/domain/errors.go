package domain

import (
	"github.com/allisson/securevault/internal/errors"
)

// Cryptographic operation error definitions.
//
// These sentinels wrap the base kinds from internal/errors so handlers can map
// them to HTTP status codes without knowing about the crypto layer. Library
// errors are translated into one of these at the service boundary and never
// returned raw.
var (
	// ErrUnsupportedAlgorithm indicates the requested content cipher is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a symmetric key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrKeyGeneration indicates the entropy source or key generator failed.
	// Callers abort the operation; there is no fallback to weaker parameters.
	ErrKeyGeneration = errors.New("key generation failed")

	// ErrInvalidKeyFormat indicates PEM key material could not be decoded into an RSA key.
	ErrInvalidKeyFormat = errors.Wrap(errors.ErrInvalidInput, "invalid key format")

	// ErrInvalidSignatureFormat indicates a signature is not canonical standard base64.
	ErrInvalidSignatureFormat = errors.Wrap(errors.ErrInvalidInput, "invalid signature format")

	// ErrKeyUnwrapFailed indicates a wrapped content key could not be recovered with
	// the supplied private key (wrong recipient or malformed wrapped key).
	ErrKeyUnwrapFailed = errors.Wrap(errors.ErrInvalidInput, "key unwrap failed")

	// ErrDecryptionFailed indicates the payload failed authentication or was malformed.
	// No partial plaintext accompanies this error.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrRecipientNotFound indicates the envelope holds no wrapped key for the recipient.
	ErrRecipientNotFound = errors.Wrap(errors.ErrForbidden, "recipient not found in envelope")

	// ErrNoRecipients indicates an envelope was requested without any recipient.
	ErrNoRecipients = errors.Wrap(errors.ErrInvalidInput, "at least one recipient is required")
)

// Package domain defines the encrypted file and message models and their errors.
package domain

import (
	"github.com/allisson/securevault/internal/errors"
)

// Sharing error definitions.
var (
	// ErrFileNotFound indicates no file matches the id.
	ErrFileNotFound = errors.Wrap(errors.ErrNotFound, "file not found")

	// ErrMessageNotFound indicates no message matches the id.
	ErrMessageNotFound = errors.Wrap(errors.ErrNotFound, "message not found")

	// ErrContentNotFound indicates the ciphertext is missing from blob storage.
	ErrContentNotFound = errors.Wrap(errors.ErrNotFound, "file content not found")

	// ErrRecipientNotFound indicates a named recipient does not exist.
	ErrRecipientNotFound = errors.Wrap(errors.ErrNotFound, "recipient not found")

	// ErrAccessDenied indicates the user is neither owner nor recipient.
	ErrAccessDenied = errors.Wrap(errors.ErrForbidden, "access denied")

	// ErrNotOwner indicates an owner-only operation was attempted by someone else.
	ErrNotOwner = errors.Wrap(errors.ErrForbidden, "only the owner can perform this operation")

	// ErrNotSender indicates a message was deleted by someone other than its sender.
	ErrNotSender = errors.Wrap(errors.ErrForbidden, "only the sender can delete a message")

	// ErrRecipientCertificateInvalid indicates a recipient certificate is expired,
	// revoked or not issued by this CA.
	ErrRecipientCertificateInvalid = errors.Wrap(errors.ErrInvalidInput, "recipient certificate is not valid")

	// ErrPrivateKeyMismatch indicates the supplied private key does not belong to the caller.
	ErrPrivateKeyMismatch = errors.Wrap(errors.ErrInvalidInput, "private key does not match your certificate")

	// ErrPayloadUnreadable indicates the content key could not be unwrapped or the
	// payload could not be decrypted with the supplied private key.
	ErrPayloadUnreadable = errors.Wrap(errors.ErrInvalidInput, "payload cannot be decrypted with the supplied key")

	// ErrIntegrityCheckFailed indicates a checksum or originator signature mismatch.
	ErrIntegrityCheckFailed = errors.WithCode(
		errors.Wrap(errors.ErrConflict, "integrity check failed"),
		"integrity_check_failed",
		"The content does not match its checksum or signature",
	)

	// ErrEmptyContent indicates an upload or message without content.
	ErrEmptyContent = errors.Wrap(errors.ErrInvalidInput, "content must not be empty")

	// ErrContentTooLarge indicates the content exceeds the configured limit.
	ErrContentTooLarge = errors.Wrap(errors.ErrInvalidInput, "content exceeds the maximum size")

	// ErrInvalidFileName indicates a missing or unsafe file name.
	ErrInvalidFileName = errors.Wrap(errors.ErrInvalidInput, "invalid file name")
)

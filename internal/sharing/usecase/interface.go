// Package usecase implements end-to-end encrypted file and message sharing.
//
// The server stores ciphertext, per-recipient wrapped content keys and the
// originator signature. Private keys are supplied per request and never persisted.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
	sharingDomain "github.com/allisson/securevault/internal/sharing/domain"
)

// FileRepository defines persistence operations for file metadata and recipients.
// Implementations must support transaction-aware operations via context propagation.
type FileRepository interface {
	// Create stores the file and its initial recipients.
	Create(ctx context.Context, file *sharingDomain.File) error

	// GetByID retrieves a file with its recipients. Returns ErrFileNotFound if not found.
	GetByID(ctx context.Context, fileID uuid.UUID) (*sharingDomain.File, error)

	// ListByUser returns files owned by or shared with userID, newest first.
	// Recipients are not loaded.
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*sharingDomain.File, error)

	// AddRecipients grants access to additional users.
	AddRecipients(ctx context.Context, recipients []*sharingDomain.FileRecipient) error

	// MarkAccessed records a successful download at accessedAt.
	MarkAccessed(ctx context.Context, fileID uuid.UUID, accessedAt time.Time) error

	// Delete removes the file and its recipients. Returns ErrFileNotFound if not found.
	Delete(ctx context.Context, fileID uuid.UUID) error
}

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	// Create stores a message.
	Create(ctx context.Context, message *sharingDomain.Message) error

	// GetByID retrieves a message. Returns ErrMessageNotFound if not found.
	GetByID(ctx context.Context, messageID uuid.UUID) (*sharingDomain.Message, error)

	// ListByUser returns messages sent or received by userID, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*sharingDomain.Message, error)

	// MarkRead flags the message as read by its recipient.
	MarkRead(ctx context.Context, messageID uuid.UUID) error

	// Delete removes the message. Returns ErrMessageNotFound if not found.
	Delete(ctx context.Context, messageID uuid.UUID) error
}

// UserDirectory resolves the identities files and messages are shared with.
type UserDirectory interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*authDomain.User, error)
	GetByUsername(ctx context.Context, username string) (*authDomain.User, error)
}

// BlobStore holds file ciphertext.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// FileUseCase manages encrypted files.
type FileUseCase interface {
	// Upload encrypts content for its owner and the named users and stores it.
	Upload(ctx context.Context, ownerID uuid.UUID, input *sharingDomain.UploadFileInput) (*sharingDomain.File, error)

	// Share grants additional users access. Only the owner may share.
	Share(ctx context.Context, ownerID uuid.UUID, input *sharingDomain.ShareFileInput) (*sharingDomain.ShareFileOutput, error)

	// Download decrypts the file for a recipient, verifies checksum and signature,
	// then records the access time.
	Download(
		ctx context.Context,
		userID, fileID uuid.UUID,
		privateKeyPEM string,
	) (*sharingDomain.DownloadFileOutput, error)

	// Get returns the metadata of a file the user can access.
	Get(ctx context.Context, userID, fileID uuid.UUID) (*sharingDomain.File, error)

	// List returns files owned by or shared with the user.
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*sharingDomain.File, error)

	// Delete removes a file and its content. Only the owner may delete.
	Delete(ctx context.Context, userID, fileID uuid.UUID) error
}

// MessageUseCase manages encrypted messages.
type MessageUseCase interface {
	// Send encrypts content for the sender and recipient and signs it.
	Send(ctx context.Context, senderID uuid.UUID, input *sharingDomain.SendMessageInput) (*sharingDomain.Message, error)

	// List returns messages sent or received by the user, newest first.
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*sharingDomain.Message, error)

	// Read decrypts a message and verifies the sender signature.
	// Reading as the recipient marks the message read.
	Read(
		ctx context.Context,
		userID, messageID uuid.UUID,
		privateKeyPEM string,
	) (*sharingDomain.ReadMessageOutput, error)

	// Delete removes a message. Only the sender may delete.
	Delete(ctx context.Context, userID, messageID uuid.UUID) error
}

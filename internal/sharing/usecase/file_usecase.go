package usecase

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	cryptoService "github.com/allisson/securevault/internal/crypto/service"
	"github.com/allisson/securevault/internal/database"
	pkiUseCase "github.com/allisson/securevault/internal/pki/usecase"
	sharingDomain "github.com/allisson/securevault/internal/sharing/domain"
)

const defaultMimeType = "application/octet-stream"

// fileUseCase implements FileUseCase.
type fileUseCase struct {
	txManager       database.TxManager
	fileRepo        FileRepository
	users           UserDirectory
	blobs           BlobStore
	ca              pkiUseCase.CertificateAuthority
	hybridCipher    cryptoService.HybridCipher
	signatureEngine cryptoService.SignatureEngine
	maxSize         int64
	logger          *slog.Logger
}

// NewFileUseCase creates a FileUseCase accepting files up to maxSize bytes.
func NewFileUseCase(
	txManager database.TxManager,
	fileRepo FileRepository,
	users UserDirectory,
	blobs BlobStore,
	ca pkiUseCase.CertificateAuthority,
	hybridCipher cryptoService.HybridCipher,
	signatureEngine cryptoService.SignatureEngine,
	maxSize int64,
	logger *slog.Logger,
) FileUseCase {
	return &fileUseCase{
		txManager:       txManager,
		fileRepo:        fileRepo,
		users:           users,
		blobs:           blobs,
		ca:              ca,
		hybridCipher:    hybridCipher,
		signatureEngine: signatureEngine,
		maxSize:         maxSize,
		logger:          logger,
	}
}

// Upload encrypts the content once, wraps the key for the owner and every named
// user, stores the ciphertext in the bucket and the envelope in the database.
func (f *fileUseCase) Upload(
	ctx context.Context,
	ownerID uuid.UUID,
	input *sharingDomain.UploadFileInput,
) (*sharingDomain.File, error) {
	name, err := sharingDomain.NormalizeFileName(input.Name)
	if err != nil {
		return nil, err
	}
	if len(input.Content) == 0 {
		return nil, sharingDomain.ErrEmptyContent
	}
	if f.maxSize > 0 && int64(len(input.Content)) > f.maxSize {
		return nil, sharingDomain.ErrContentTooLarge
	}

	owner, err := f.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	recipients, err := resolveRecipients(ctx, f.users, f.ca, input.ShareWith, map[uuid.UUID]bool{ownerID: true})
	if err != nil {
		return nil, err
	}

	all := append([]*authDomain.User{owner}, recipients...)
	envelope, err := f.hybridCipher.Seal(input.Content, recipientKeys(all...), input.PrivateKeyPEM)
	if err != nil {
		return nil, err
	}
	if !signedBy(f.signatureEngine, owner, input.Content, envelope.Signature) {
		return nil, sharingDomain.ErrPrivateKeyMismatch
	}

	fileID, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	checksum := sha256.Sum256(input.Content)
	now := time.Now().UTC()

	mimeType := strings.TrimSpace(input.MimeType)
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	file := &sharingDomain.File{
		ID:            fileID,
		OwnerID:       owner.ID,
		OwnerUsername: owner.Username,
		Name:          name,
		MimeType:      mimeType,
		Size:          int64(len(input.Content)),
		Checksum:      hex.EncodeToString(checksum[:]),
		Algorithm:     envelope.Algorithm,
		IV:            envelope.IV,
		BlobKey:       sharingDomain.BlobKeyFor(owner.ID, fileID),
		Signature:     envelope.Signature,
		Recipients:    fileRecipients(fileID, all, envelope, now),
		CreatedAt:     now,
	}

	if err := f.blobs.Put(ctx, file.BlobKey, envelope.Ciphertext); err != nil {
		return nil, err
	}

	err = f.txManager.WithTx(ctx, func(ctx context.Context) error {
		return f.fileRepo.Create(ctx, file)
	})
	if err != nil {
		if delErr := f.blobs.Delete(ctx, file.BlobKey); delErr != nil {
			f.logger.Error("failed to remove orphaned file content",
				slog.String("blob_key", file.BlobKey),
				slog.Any("error", delErr),
			)
		}
		return nil, err
	}

	f.logger.Info("file uploaded",
		slog.String("file_id", file.ID.String()),
		slog.String("owner_id", owner.ID.String()),
		slog.Int("recipients", len(file.Recipients)),
	)
	return file, nil
}

// Share wraps the owner's content key for users who do not yet have access.
func (f *fileUseCase) Share(
	ctx context.Context,
	ownerID uuid.UUID,
	input *sharingDomain.ShareFileInput,
) (*sharingDomain.ShareFileOutput, error) {
	file, err := f.fileRepo.GetByID(ctx, input.FileID)
	if err != nil {
		return nil, err
	}
	if !file.IsOwner(ownerID) {
		if file.CanAccess(ownerID) {
			return nil, sharingDomain.ErrNotOwner
		}
		return nil, sharingDomain.ErrAccessDenied
	}

	existing := make(map[uuid.UUID]bool, len(file.Recipients))
	for _, r := range file.Recipients {
		existing[r.UserID] = true
	}
	users, err := resolveRecipients(ctx, f.users, f.ca, input.Usernames, existing)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return &sharingDomain.ShareFileOutput{File: file, Added: []string{}}, nil
	}

	envelope := file.Envelope(nil)
	contentKey, err := f.hybridCipher.OpenKey(envelope, ownerID.String(), input.PrivateKeyPEM)
	if err != nil {
		return nil, mapOpenError(err)
	}
	defer cryptoDomain.Wipe(contentKey)

	if _, err := f.hybridCipher.AddRecipients(envelope, contentKey, recipientKeys(users...)); err != nil {
		return nil, err
	}

	added := fileRecipients(file.ID, users, envelope, time.Now().UTC())
	err = f.txManager.WithTx(ctx, func(ctx context.Context) error {
		return f.fileRepo.AddRecipients(ctx, added)
	})
	if err != nil {
		return nil, err
	}

	file.Recipients = append(file.Recipients, added...)
	usernames := make([]string, 0, len(added))
	for _, r := range added {
		usernames = append(usernames, r.Username)
	}

	f.logger.Info("file shared",
		slog.String("file_id", file.ID.String()),
		slog.Any("usernames", usernames),
	)
	return &sharingDomain.ShareFileOutput{File: file, Added: usernames}, nil
}

// Download decrypts the file for userID and checks it against the stored
// checksum and the owner's signature.
func (f *fileUseCase) Download(
	ctx context.Context,
	userID, fileID uuid.UUID,
	privateKeyPEM string,
) (*sharingDomain.DownloadFileOutput, error) {
	file, err := f.Get(ctx, userID, fileID)
	if err != nil {
		return nil, err
	}

	ciphertext, err := f.blobs.Get(ctx, file.BlobKey)
	if err != nil {
		return nil, err
	}

	plaintext, err := f.hybridCipher.Open(file.Envelope(ciphertext), userID.String(), privateKeyPEM)
	if err != nil {
		return nil, mapOpenError(err)
	}

	checksum := sha256.Sum256(plaintext)
	if subtle.ConstantTimeCompare([]byte(hex.EncodeToString(checksum[:])), []byte(file.Checksum)) != 1 {
		return nil, sharingDomain.ErrIntegrityCheckFailed
	}

	owner, err := f.users.GetByID(ctx, file.OwnerID)
	if err != nil {
		return nil, err
	}
	if !signedBy(f.signatureEngine, owner, plaintext, file.Signature) {
		return nil, sharingDomain.ErrIntegrityCheckFailed
	}

	accessedAt := time.Now().UTC()
	if err := f.fileRepo.MarkAccessed(ctx, file.ID, accessedAt); err != nil {
		f.logger.Warn("failed to record file access",
			slog.String("file_id", file.ID.String()),
			slog.Any("error", err),
		)
	} else {
		file.LastAccessedAt = &accessedAt
	}

	return &sharingDomain.DownloadFileOutput{File: file, Content: plaintext}, nil
}

// Get returns the file if userID is one of its recipients.
func (f *fileUseCase) Get(ctx context.Context, userID, fileID uuid.UUID) (*sharingDomain.File, error) {
	file, err := f.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if !file.CanAccess(userID) {
		return nil, sharingDomain.ErrAccessDenied
	}
	return file, nil
}

// List returns files owned by or shared with userID.
func (f *fileUseCase) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*sharingDomain.File, error) {
	return f.fileRepo.ListByUser(ctx, userID, offset, limit)
}

// Delete removes the file row, then its content. A failed content delete is logged only.
func (f *fileUseCase) Delete(ctx context.Context, userID, fileID uuid.UUID) error {
	file, err := f.Get(ctx, userID, fileID)
	if err != nil {
		return err
	}
	if !file.IsOwner(userID) {
		return sharingDomain.ErrNotOwner
	}

	if err := f.fileRepo.Delete(ctx, file.ID); err != nil {
		return err
	}
	if err := f.blobs.Delete(ctx, file.BlobKey); err != nil {
		f.logger.Error("failed to delete file content",
			slog.String("file_id", file.ID.String()),
			slog.String("blob_key", file.BlobKey),
			slog.Any("error", err),
		)
	}

	f.logger.Info("file deleted", slog.String("file_id", file.ID.String()))
	return nil
}

// fileRecipients builds access entries for users from the wrapped keys in envelope.
func fileRecipients(
	fileID uuid.UUID,
	users []*authDomain.User,
	envelope *cryptoDomain.Envelope,
	sharedAt time.Time,
) []*sharingDomain.FileRecipient {
	recipients := make([]*sharingDomain.FileRecipient, 0, len(users))
	for _, user := range users {
		recipients = append(recipients, &sharingDomain.FileRecipient{
			FileID:     fileID,
			UserID:     user.ID,
			Username:   user.Username,
			WrappedKey: envelope.WrappedKeys[user.ID.String()],
			SharedAt:   sharedAt,
		})
	}
	return recipients
}

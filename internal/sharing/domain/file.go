package domain

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
)

// File is an uploaded file encrypted once under a content key.
//
// The ciphertext lives in blob storage under BlobKey. Every recipient,
// including the owner, holds the content key wrapped under their public key.
type File struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	OwnerUsername string
	Name          string
	MimeType      string
	Size          int64
	Checksum      string
	Algorithm     cryptoDomain.Algorithm
	IV            []byte
	BlobKey       string
	Signature     cryptoDomain.Signature
	Recipients    []*FileRecipient
	CreatedAt     time.Time

	// LastAccessedAt is the time of the last verified download, nil if never downloaded.
	LastAccessedAt *time.Time
}

// FileRecipient grants a user access to a file.
type FileRecipient struct {
	FileID     uuid.UUID
	UserID     uuid.UUID
	Username   string
	WrappedKey []byte
	SharedAt   time.Time
}

// IsOwner reports whether userID owns the file.
func (f *File) IsOwner(userID uuid.UUID) bool {
	return f.OwnerID == userID
}

// Recipient returns the access entry of userID, or nil.
func (f *File) Recipient(userID uuid.UUID) *FileRecipient {
	for _, r := range f.Recipients {
		if r.UserID == userID {
			return r
		}
	}
	return nil
}

// CanAccess reports whether userID may download the file.
func (f *File) CanAccess(userID uuid.UUID) bool {
	return f.Recipient(userID) != nil
}

// Envelope assembles the stored envelope fields around ciphertext.
func (f *File) Envelope(ciphertext []byte) *cryptoDomain.Envelope {
	wrapped := make(map[string][]byte, len(f.Recipients))
	for _, r := range f.Recipients {
		wrapped[r.UserID.String()] = r.WrappedKey
	}
	return &cryptoDomain.Envelope{
		Algorithm:   f.Algorithm,
		IV:          f.IV,
		Ciphertext:  ciphertext,
		WrappedKeys: wrapped,
		Signature:   f.Signature,
	}
}

// BlobKeyFor returns the storage key of a file's ciphertext.
func BlobKeyFor(ownerID, fileID uuid.UUID) string {
	return "files/" + ownerID.String() + "/" + fileID.String()
}

// UploadFileInput describes a new file. PrivateKeyPEM signs the plaintext and is not stored.
type UploadFileInput struct {
	Name          string
	MimeType      string
	Content       []byte
	ShareWith     []string
	PrivateKeyPEM string
}

// ShareFileInput names additional recipients. PrivateKeyPEM unwraps the owner's key.
type ShareFileInput struct {
	FileID        uuid.UUID
	Usernames     []string
	PrivateKeyPEM string
}

// ShareFileOutput lists the usernames that gained access.
type ShareFileOutput struct {
	File  *File
	Added []string
}

// DownloadFileOutput is a decrypted and verified file.
type DownloadFileOutput struct {
	File    *File
	Content []byte
}

// MaxFileNameLength bounds stored file names.
const MaxFileNameLength = 255

// NormalizeFileName strips any directory part from name and rejects names
// that are empty, dot segments or too long.
func NormalizeFileName(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return "", ErrInvalidFileName
	}
	base := path.Base(name)
	if base == "." || base == ".." || base == "/" || len(base) > MaxFileNameLength {
		return "", ErrInvalidFileName
	}
	return base, nil
}

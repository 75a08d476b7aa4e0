package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
)

func TestFile_Access(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV7())
	recipientID := uuid.Must(uuid.NewV7())
	strangerID := uuid.Must(uuid.NewV7())

	file := &File{
		OwnerID: ownerID,
		Recipients: []*FileRecipient{
			{UserID: ownerID, WrappedKey: []byte("owner-key")},
			{UserID: recipientID, WrappedKey: []byte("recipient-key")},
		},
	}

	assert.True(t, file.IsOwner(ownerID))
	assert.False(t, file.IsOwner(recipientID))
	assert.True(t, file.CanAccess(ownerID))
	assert.True(t, file.CanAccess(recipientID))
	assert.False(t, file.CanAccess(strangerID))
	assert.Nil(t, file.Recipient(strangerID))
	assert.Equal(t, []byte("recipient-key"), file.Recipient(recipientID).WrappedKey)
}

func TestFile_Envelope(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV7())
	file := &File{
		OwnerID:   ownerID,
		Algorithm: cryptoDomain.AESGCM,
		IV:        []byte("iv"),
		Signature: cryptoDomain.Signature("sig"),
		Recipients: []*FileRecipient{
			{UserID: ownerID, WrappedKey: []byte("owner-key")},
		},
	}

	env := file.Envelope([]byte("ciphertext"))

	assert.Equal(t, cryptoDomain.AESGCM, env.Algorithm)
	assert.Equal(t, []byte("iv"), env.IV)
	assert.Equal(t, []byte("ciphertext"), env.Ciphertext)
	assert.Equal(t, cryptoDomain.Signature("sig"), env.Signature)
	key, err := env.WrappedKeyFor(ownerID.String())
	require.NoError(t, err)
	assert.Equal(t, []byte("owner-key"), key)
}

func TestBlobKeyFor(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV7())
	fileID := uuid.Must(uuid.NewV7())

	assert.Equal(t, "files/"+ownerID.String()+"/"+fileID.String(), BlobKeyFor(ownerID, fileID))
}

func TestNormalizeFileName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "report.pdf", want: "report.pdf"},
		{name: "trimmed", input: "  notes.txt ", want: "notes.txt"},
		{name: "unix path", input: "../../etc/passwd", want: "passwd"},
		{name: "windows path", input: `C:\Users\alice\photo.png`, want: "photo.png"},
		{name: "empty", input: "  ", wantErr: true},
		{name: "dot dot", input: "..", wantErr: true},
		{name: "root", input: "/", wantErr: true},
		{name: "too long", input: string(make([]byte, MaxFileNameLength+1)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeFileName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFileName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
)

// MaxMessageSize is the largest plaintext message accepted, in bytes.
const MaxMessageSize = 64 * 1024

// Message is a signed text payload encrypted for its sender and recipient.
type Message struct {
	ID                  uuid.UUID
	SenderID            uuid.UUID
	SenderUsername      string
	RecipientID         uuid.UUID
	RecipientUsername   string
	Algorithm           cryptoDomain.Algorithm
	IV                  []byte
	Ciphertext          []byte
	SenderWrappedKey    []byte
	RecipientWrappedKey []byte
	Signature           cryptoDomain.Signature
	IsRead              bool
	CreatedAt           time.Time
}

// CanAccess reports whether userID sent or received the message.
func (m *Message) CanAccess(userID uuid.UUID) bool {
	return m.SenderID == userID || m.RecipientID == userID
}

// Envelope assembles the stored envelope fields.
func (m *Message) Envelope() *cryptoDomain.Envelope {
	return &cryptoDomain.Envelope{
		Algorithm:  m.Algorithm,
		IV:         m.IV,
		Ciphertext: m.Ciphertext,
		WrappedKeys: map[string][]byte{
			m.SenderID.String():    m.SenderWrappedKey,
			m.RecipientID.String(): m.RecipientWrappedKey,
		},
		Signature: m.Signature,
	}
}

// SendMessageInput describes a new message. PrivateKeyPEM signs the content and is not stored.
type SendMessageInput struct {
	RecipientUsername string
	Content           string
	PrivateKeyPEM     string
}

// ReadMessageOutput is a decrypted and verified message.
type ReadMessageOutput struct {
	Message *Message
	Content string
}

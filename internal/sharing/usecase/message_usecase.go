package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	cryptoService "github.com/allisson/securevault/internal/crypto/service"
	pkiUseCase "github.com/allisson/securevault/internal/pki/usecase"
	sharingDomain "github.com/allisson/securevault/internal/sharing/domain"
)

// messageUseCase implements MessageUseCase.
type messageUseCase struct {
	messageRepo     MessageRepository
	users           UserDirectory
	ca              pkiUseCase.CertificateAuthority
	hybridCipher    cryptoService.HybridCipher
	signatureEngine cryptoService.SignatureEngine
	logger          *slog.Logger
}

// NewMessageUseCase creates a MessageUseCase.
func NewMessageUseCase(
	messageRepo MessageRepository,
	users UserDirectory,
	ca pkiUseCase.CertificateAuthority,
	hybridCipher cryptoService.HybridCipher,
	signatureEngine cryptoService.SignatureEngine,
	logger *slog.Logger,
) MessageUseCase {
	return &messageUseCase{
		messageRepo:     messageRepo,
		users:           users,
		ca:              ca,
		hybridCipher:    hybridCipher,
		signatureEngine: signatureEngine,
		logger:          logger,
	}
}

// Send seals content for the sender and the recipient.
func (m *messageUseCase) Send(
	ctx context.Context,
	senderID uuid.UUID,
	input *sharingDomain.SendMessageInput,
) (*sharingDomain.Message, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, sharingDomain.ErrEmptyContent
	}
	if len(input.Content) > sharingDomain.MaxMessageSize {
		return nil, sharingDomain.ErrContentTooLarge
	}
	if strings.TrimSpace(input.RecipientUsername) == "" {
		return nil, sharingDomain.ErrRecipientNotFound
	}

	sender, err := m.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	recipients, err := resolveRecipients(ctx, m.users, m.ca, []string{input.RecipientUsername}, nil)
	if err != nil {
		return nil, err
	}
	recipient := recipients[0]

	payload := []byte(input.Content)
	envelope, err := m.hybridCipher.Seal(payload, recipientKeys(sender, recipient), input.PrivateKeyPEM)
	if err != nil {
		return nil, err
	}
	if !signedBy(m.signatureEngine, sender, payload, envelope.Signature) {
		return nil, sharingDomain.ErrPrivateKeyMismatch
	}

	messageID, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	message := &sharingDomain.Message{
		ID:                  messageID,
		SenderID:            sender.ID,
		SenderUsername:      sender.Username,
		RecipientID:         recipient.ID,
		RecipientUsername:   recipient.Username,
		Algorithm:           envelope.Algorithm,
		IV:                  envelope.IV,
		Ciphertext:          envelope.Ciphertext,
		SenderWrappedKey:    envelope.WrappedKeys[sender.ID.String()],
		RecipientWrappedKey: envelope.WrappedKeys[recipient.ID.String()],
		Signature:           envelope.Signature,
		CreatedAt:           time.Now().UTC(),
	}

	if err := m.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	m.logger.Info("message sent",
		slog.String("message_id", message.ID.String()),
		slog.String("sender_id", sender.ID.String()),
		slog.String("recipient_id", recipient.ID.String()),
	)
	return message, nil
}

// List returns messages sent or received by userID.
func (m *messageUseCase) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*sharingDomain.Message, error) {
	return m.messageRepo.ListByUser(ctx, userID, offset, limit)
}

// Read decrypts the message for userID and verifies the sender's signature.
func (m *messageUseCase) Read(
	ctx context.Context,
	userID, messageID uuid.UUID,
	privateKeyPEM string,
) (*sharingDomain.ReadMessageOutput, error) {
	message, err := m.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if !message.CanAccess(userID) {
		return nil, sharingDomain.ErrAccessDenied
	}

	plaintext, err := m.hybridCipher.Open(message.Envelope(), userID.String(), privateKeyPEM)
	if err != nil {
		return nil, mapOpenError(err)
	}

	sender, err := m.users.GetByID(ctx, message.SenderID)
	if err != nil {
		return nil, err
	}
	if !signedBy(m.signatureEngine, sender, plaintext, message.Signature) {
		return nil, sharingDomain.ErrIntegrityCheckFailed
	}

	if message.RecipientID == userID && !message.IsRead {
		if err := m.messageRepo.MarkRead(ctx, message.ID); err != nil {
			return nil, err
		}
		message.IsRead = true
	}

	return &sharingDomain.ReadMessageOutput{Message: message, Content: string(plaintext)}, nil
}

// Delete removes a message sent by userID.
func (m *messageUseCase) Delete(ctx context.Context, userID, messageID uuid.UUID) error {
	message, err := m.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if !message.CanAccess(userID) {
		return sharingDomain.ErrAccessDenied
	}
	if message.SenderID != userID {
		return sharingDomain.ErrNotSender
	}

	if err := m.messageRepo.Delete(ctx, message.ID); err != nil {
		return err
	}

	m.logger.Info("message deleted", slog.String("message_id", message.ID.String()))
	return nil
}

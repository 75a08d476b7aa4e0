package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	"github.com/allisson/securevault/internal/database"
	apperrors "github.com/allisson/securevault/internal/errors"
	sharingDomain "github.com/allisson/securevault/internal/sharing/domain"
)

// MySQLMessageRepository implements Message persistence for MySQL.
type MySQLMessageRepository struct {
	db *sql.DB
}

// NewMySQLMessageRepository creates a new MySQL Message repository.
func NewMySQLMessageRepository(db *sql.DB) *MySQLMessageRepository {
	return &MySQLMessageRepository{db: db}
}

// Create inserts a new Message.
func (m *MySQLMessageRepository) Create(ctx context.Context, message *sharingDomain.Message) error {
	querier := database.GetTx(ctx, m.db)

	ids, err := marshalIDs(message.ID, message.SenderID, message.RecipientID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal message ids")
	}

	query := `INSERT INTO messages (id, sender_id, recipient_id, algorithm, iv, ciphertext,
			  sender_wrapped_key, recipient_wrapped_key, signature, is_read, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		ids[0],
		ids[1],
		ids[2],
		string(message.Algorithm),
		message.IV,
		message.Ciphertext,
		message.SenderWrappedKey,
		message.RecipientWrappedKey,
		[]byte(message.Signature),
		message.IsRead,
		message.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create message")
	}
	return nil
}

// GetByID retrieves a Message. Returns ErrMessageNotFound if it doesn't exist.
func (m *MySQLMessageRepository) GetByID(ctx context.Context, messageID uuid.UUID) (*sharingDomain.Message, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := messageID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal message id")
	}

	query := `SELECT ` + messageColumns + ` ` + messageJoins + ` WHERE m.id = ?`

	message, err := scanMySQLMessage(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sharingDomain.ErrMessageNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get message")
	}
	return message, nil
}

// ListByUser returns messages sent or received by userID, newest first.
func (m *MySQLMessageRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*sharingDomain.Message, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT ` + messageColumns + ` ` + messageJoins + `
			  WHERE m.sender_id = ? OR m.recipient_id = ?
			  ORDER BY m.created_at DESC, m.id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, id, id, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list messages")
	}
	defer func() {
		_ = rows.Close()
	}()

	messages := make([]*sharingDomain.Message, 0)
	for rows.Next() {
		message, err := scanMySQLMessage(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan message")
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate messages")
	}
	return messages, nil
}

// MarkRead sets is_read.
func (m *MySQLMessageRepository) MarkRead(ctx context.Context, messageID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := messageID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal message id")
	}

	if _, err := querier.ExecContext(ctx, `UPDATE messages SET is_read = TRUE WHERE id = ?`, id); err != nil {
		return apperrors.Wrap(err, "failed to mark message read")
	}
	return nil
}

// Delete removes a Message. Returns ErrMessageNotFound if it doesn't exist.
func (m *MySQLMessageRepository) Delete(ctx context.Context, messageID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := messageID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal message id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete message")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if affected == 0 {
		return sharingDomain.ErrMessageNotFound
	}
	return nil
}

func marshalIDs(ids ...uuid.UUID) ([][]byte, error) {
	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		b, err := id.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func scanMySQLMessage(row scanner) (*sharingDomain.Message, error) {
	var (
		message                        sharingDomain.Message
		idBytes, senderID, recipientID []byte
		algorithm                      string
		signature                      []byte
	)
	err := row.Scan(
		&idBytes,
		&senderID,
		&message.SenderUsername,
		&recipientID,
		&message.RecipientUsername,
		&algorithm,
		&message.IV,
		&message.Ciphertext,
		&message.SenderWrappedKey,
		&message.RecipientWrappedKey,
		&signature,
		&message.IsRead,
		&message.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := message.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, err
	}
	if err := message.SenderID.UnmarshalBinary(senderID); err != nil {
		return nil, err
	}
	if err := message.RecipientID.UnmarshalBinary(recipientID); err != nil {
		return nil, err
	}
	message.Algorithm = cryptoDomain.Algorithm(algorithm)
	message.Signature = cryptoDomain.Signature(signature)
	return &message, nil
}

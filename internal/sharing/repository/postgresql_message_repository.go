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

const messageColumns = `m.id, m.sender_id, s.username, m.recipient_id, r.username, m.algorithm, m.iv,
			  m.ciphertext, m.sender_wrapped_key, m.recipient_wrapped_key, m.signature, m.is_read,
			  m.created_at`

const messageJoins = `FROM messages m
			  JOIN users s ON s.id = m.sender_id
			  JOIN users r ON r.id = m.recipient_id`

// PostgreSQLMessageRepository implements Message persistence for PostgreSQL.
type PostgreSQLMessageRepository struct {
	db *sql.DB
}

// NewPostgreSQLMessageRepository creates a new PostgreSQL Message repository.
func NewPostgreSQLMessageRepository(db *sql.DB) *PostgreSQLMessageRepository {
	return &PostgreSQLMessageRepository{db: db}
}

// Create inserts a new Message.
func (p *PostgreSQLMessageRepository) Create(ctx context.Context, message *sharingDomain.Message) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO messages (id, sender_id, recipient_id, algorithm, iv, ciphertext,
			  sender_wrapped_key, recipient_wrapped_key, signature, is_read, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		message.ID,
		message.SenderID,
		message.RecipientID,
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
func (p *PostgreSQLMessageRepository) GetByID(
	ctx context.Context,
	messageID uuid.UUID,
) (*sharingDomain.Message, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + messageColumns + ` ` + messageJoins + ` WHERE m.id = $1`

	message, err := scanPostgreSQLMessage(querier.QueryRowContext(ctx, query, messageID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sharingDomain.ErrMessageNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get message")
	}
	return message, nil
}

// ListByUser returns messages sent or received by userID, newest first.
func (p *PostgreSQLMessageRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*sharingDomain.Message, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + messageColumns + ` ` + messageJoins + `
			  WHERE m.sender_id = $1 OR m.recipient_id = $1
			  ORDER BY m.created_at DESC, m.id DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list messages")
	}
	defer func() {
		_ = rows.Close()
	}()

	messages := make([]*sharingDomain.Message, 0)
	for rows.Next() {
		message, err := scanPostgreSQLMessage(rows)
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
func (p *PostgreSQLMessageRepository) MarkRead(ctx context.Context, messageID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(ctx, `UPDATE messages SET is_read = TRUE WHERE id = $1`, messageID); err != nil {
		return apperrors.Wrap(err, "failed to mark message read")
	}
	return nil
}

// Delete removes a Message. Returns ErrMessageNotFound if it doesn't exist.
func (p *PostgreSQLMessageRepository) Delete(ctx context.Context, messageID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, messageID)
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

func scanPostgreSQLMessage(row scanner) (*sharingDomain.Message, error) {
	var (
		message   sharingDomain.Message
		algorithm string
		signature []byte
	)
	err := row.Scan(
		&message.ID,
		&message.SenderID,
		&message.SenderUsername,
		&message.RecipientID,
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
	message.Algorithm = cryptoDomain.Algorithm(algorithm)
	message.Signature = cryptoDomain.Signature(signature)
	return &message, nil
}

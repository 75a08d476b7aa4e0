package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	"github.com/allisson/securevault/internal/database"
	apperrors "github.com/allisson/securevault/internal/errors"
	sharingDomain "github.com/allisson/securevault/internal/sharing/domain"
)

// MySQLFileRepository implements File persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLFileRepository struct {
	db *sql.DB
}

// NewMySQLFileRepository creates a new MySQL File repository.
func NewMySQLFileRepository(db *sql.DB) *MySQLFileRepository {
	return &MySQLFileRepository{db: db}
}

// Create inserts the file and its initial recipients. It must run inside a
// transaction.
func (m *MySQLFileRepository) Create(ctx context.Context, file *sharingDomain.File) error {
	querier := database.GetTx(ctx, m.db)

	id, err := file.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal file id")
	}
	ownerID, err := file.OwnerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal owner id")
	}

	query := `INSERT INTO files (id, owner_id, name, mime_type, size, checksum, algorithm, iv,
			  blob_key, signature, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		ownerID,
		file.Name,
		file.MimeType,
		file.Size,
		file.Checksum,
		string(file.Algorithm),
		file.IV,
		file.BlobKey,
		[]byte(file.Signature),
		file.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create file")
	}

	return m.AddRecipients(ctx, file.Recipients)
}

// GetByID retrieves a file with its recipients. Returns ErrFileNotFound if it doesn't exist.
func (m *MySQLFileRepository) GetByID(ctx context.Context, fileID uuid.UUID) (*sharingDomain.File, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := fileID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal file id")
	}

	query := `SELECT ` + fileColumns + `
			  FROM files f JOIN users u ON u.id = f.owner_id
			  WHERE f.id = ?`

	file, err := scanMySQLFile(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sharingDomain.ErrFileNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get file")
	}

	recipientsQuery := `SELECT ` + recipientColumns + `
			  FROM file_recipients r JOIN users u ON u.id = r.user_id
			  WHERE r.file_id = ?
			  ORDER BY r.shared_at ASC, u.username ASC`

	rows, err := querier.QueryContext(ctx, recipientsQuery, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list file recipients")
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var (
			r                      sharingDomain.FileRecipient
			fileIDBytes, userBytes []byte
		)
		if err := rows.Scan(&fileIDBytes, &userBytes, &r.Username, &r.WrappedKey, &r.SharedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan file recipient")
		}
		if err := r.FileID.UnmarshalBinary(fileIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal file id")
		}
		if err := r.UserID.UnmarshalBinary(userBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal user id")
		}
		file.Recipients = append(file.Recipients, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate file recipients")
	}
	return file, nil
}

// ListByUser returns files the user can access, newest first, without recipients.
func (m *MySQLFileRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*sharingDomain.File, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT ` + fileColumns + `
			  FROM files f JOIN users u ON u.id = f.owner_id
			  WHERE f.id IN (SELECT file_id FROM file_recipients WHERE user_id = ?)
			  ORDER BY f.created_at DESC, f.id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, id, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list files")
	}
	defer func() {
		_ = rows.Close()
	}()

	files := make([]*sharingDomain.File, 0)
	for rows.Next() {
		file, err := scanMySQLFile(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan file")
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate files")
	}
	return files, nil
}

// AddRecipients grants access. A recipient that already exists keeps its original key.
func (m *MySQLFileRepository) AddRecipients(
	ctx context.Context,
	recipients []*sharingDomain.FileRecipient,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO file_recipients (file_id, user_id, wrapped_key, shared_at)
			  VALUES (?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE file_id = file_id`

	for _, r := range recipients {
		fileID, err := r.FileID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal file id")
		}
		userID, err := r.UserID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal user id")
		}
		if _, err := querier.ExecContext(ctx, query, fileID, userID, r.WrappedKey, r.SharedAt); err != nil {
			return apperrors.Wrap(err, "failed to add file recipient")
		}
	}
	return nil
}

// MarkAccessed sets last_accessed_at.
func (m *MySQLFileRepository) MarkAccessed(ctx context.Context, fileID uuid.UUID, accessedAt time.Time) error {
	querier := database.GetTx(ctx, m.db)

	id, err := fileID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal file id")
	}

	if _, err := querier.ExecContext(ctx, `UPDATE files SET last_accessed_at = ? WHERE id = ?`, accessedAt, id); err != nil {
		return apperrors.Wrap(err, "failed to mark file accessed")
	}
	return nil
}

// Delete removes the file. Recipients are removed by the foreign key cascade.
func (m *MySQLFileRepository) Delete(ctx context.Context, fileID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := fileID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal file id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete file")
	}
	return fileAffected(result)
}

func scanMySQLFile(row scanner) (*sharingDomain.File, error) {
	var (
		file             sharingDomain.File
		idBytes, ownerID []byte
		algorithm        string
		signature        []byte
		lastAccessed     sql.NullTime
	)
	err := row.Scan(
		&idBytes,
		&ownerID,
		&file.OwnerUsername,
		&file.Name,
		&file.MimeType,
		&file.Size,
		&file.Checksum,
		&algorithm,
		&file.IV,
		&file.BlobKey,
		&signature,
		&file.CreatedAt,
		&lastAccessed,
	)
	if err != nil {
		return nil, err
	}
	if lastAccessed.Valid {
		file.LastAccessedAt = &lastAccessed.Time
	}
	if err := file.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, err
	}
	if err := file.OwnerID.UnmarshalBinary(ownerID); err != nil {
		return nil, err
	}
	file.Algorithm = cryptoDomain.Algorithm(algorithm)
	file.Signature = cryptoDomain.Signature(signature)
	return &file, nil
}

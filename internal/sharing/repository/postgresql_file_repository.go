// Package repository implements file and message persistence for PostgreSQL and MySQL.
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

const fileColumns = `f.id, f.owner_id, u.username, f.name, f.mime_type, f.size, f.checksum,
			  f.algorithm, f.iv, f.blob_key, f.signature, f.created_at, f.last_accessed_at`

const recipientColumns = `r.file_id, r.user_id, u.username, r.wrapped_key, r.shared_at`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// PostgreSQLFileRepository implements File persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLFileRepository struct {
	db *sql.DB
}

// NewPostgreSQLFileRepository creates a new PostgreSQL File repository.
func NewPostgreSQLFileRepository(db *sql.DB) *PostgreSQLFileRepository {
	return &PostgreSQLFileRepository{db: db}
}

// Create inserts the file and its initial recipients. It must run inside a
// transaction.
func (p *PostgreSQLFileRepository) Create(ctx context.Context, file *sharingDomain.File) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO files (id, owner_id, name, mime_type, size, checksum, algorithm, iv,
			  blob_key, signature, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		file.ID,
		file.OwnerID,
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

	return p.AddRecipients(ctx, file.Recipients)
}

// GetByID retrieves a file with its recipients. Returns ErrFileNotFound if it doesn't exist.
func (p *PostgreSQLFileRepository) GetByID(ctx context.Context, fileID uuid.UUID) (*sharingDomain.File, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + fileColumns + `
			  FROM files f JOIN users u ON u.id = f.owner_id
			  WHERE f.id = $1`

	file, err := scanPostgreSQLFile(querier.QueryRowContext(ctx, query, fileID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sharingDomain.ErrFileNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get file")
	}

	recipientsQuery := `SELECT ` + recipientColumns + `
			  FROM file_recipients r JOIN users u ON u.id = r.user_id
			  WHERE r.file_id = $1
			  ORDER BY r.shared_at ASC, u.username ASC`

	rows, err := querier.QueryContext(ctx, recipientsQuery, fileID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list file recipients")
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var r sharingDomain.FileRecipient
		if err := rows.Scan(&r.FileID, &r.UserID, &r.Username, &r.WrappedKey, &r.SharedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan file recipient")
		}
		file.Recipients = append(file.Recipients, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate file recipients")
	}
	return file, nil
}

// ListByUser returns files the user can access, newest first, without recipients.
func (p *PostgreSQLFileRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*sharingDomain.File, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + fileColumns + `
			  FROM files f JOIN users u ON u.id = f.owner_id
			  WHERE f.id IN (SELECT file_id FROM file_recipients WHERE user_id = $1)
			  ORDER BY f.created_at DESC, f.id DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list files")
	}
	defer func() {
		_ = rows.Close()
	}()

	files := make([]*sharingDomain.File, 0)
	for rows.Next() {
		file, err := scanPostgreSQLFile(rows)
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
func (p *PostgreSQLFileRepository) AddRecipients(
	ctx context.Context,
	recipients []*sharingDomain.FileRecipient,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO file_recipients (file_id, user_id, wrapped_key, shared_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (file_id, user_id) DO NOTHING`

	for _, r := range recipients {
		if _, err := querier.ExecContext(ctx, query, r.FileID, r.UserID, r.WrappedKey, r.SharedAt); err != nil {
			return apperrors.Wrap(err, "failed to add file recipient")
		}
	}
	return nil
}

// MarkAccessed sets last_accessed_at.
func (p *PostgreSQLFileRepository) MarkAccessed(ctx context.Context, fileID uuid.UUID, accessedAt time.Time) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE files SET last_accessed_at = $1 WHERE id = $2`
	if _, err := querier.ExecContext(ctx, query, accessedAt, fileID); err != nil {
		return apperrors.Wrap(err, "failed to mark file accessed")
	}
	return nil
}

// Delete removes the file. Recipients are removed by the foreign key cascade.
func (p *PostgreSQLFileRepository) Delete(ctx context.Context, fileID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, fileID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete file")
	}
	return fileAffected(result)
}

// fileAffected maps an update or delete that matched no row to ErrFileNotFound.
func fileAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if affected == 0 {
		return sharingDomain.ErrFileNotFound
	}
	return nil
}

func scanPostgreSQLFile(row scanner) (*sharingDomain.File, error) {
	var (
		file         sharingDomain.File
		algorithm    string
		signature    []byte
		lastAccessed sql.NullTime
	)
	err := row.Scan(
		&file.ID,
		&file.OwnerID,
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
	file.Algorithm = cryptoDomain.Algorithm(algorithm)
	file.Signature = cryptoDomain.Signature(signature)
	return &file, nil
}

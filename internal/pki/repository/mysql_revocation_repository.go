package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/securevault/internal/database"
	apperrors "github.com/allisson/securevault/internal/errors"
	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
)

// MySQLRevocationRepository persists the append-only revocation list in MySQL.
type MySQLRevocationRepository struct {
	db *sql.DB
}

// NewMySQLRevocationRepository creates a new MySQLRevocationRepository.
func NewMySQLRevocationRepository(db *sql.DB) *MySQLRevocationRepository {
	return &MySQLRevocationRepository{db: db}
}

// Create inserts the revocation unless the serial is already present. Only a
// duplicate serial is a no-op; any other failure is returned.
func (m *MySQLRevocationRepository) Create(
	ctx context.Context,
	revocation *pkiDomain.Revocation,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO certificate_revocations (serial, reason, revoked_at)
			  VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE serial = serial`

	result, err := querier.ExecContext(ctx, query, revocation.Serial, revocation.Reason, revocation.RevokedAt)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to create revocation")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}
	return rows > 0, nil
}

// List returns every revocation ordered by revocation time.
func (m *MySQLRevocationRepository) List(ctx context.Context) ([]*pkiDomain.Revocation, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT serial, reason, revoked_at
			  FROM certificate_revocations
			  ORDER BY revoked_at ASC, serial ASC`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list revocations")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanRevocations(rows)
}

package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/securevault/internal/database"
	apperrors "github.com/allisson/securevault/internal/errors"
	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
)

// PostgreSQLRevocationRepository persists the append-only revocation list in PostgreSQL.
type PostgreSQLRevocationRepository struct {
	db *sql.DB
}

// NewPostgreSQLRevocationRepository creates a new PostgreSQLRevocationRepository.
func NewPostgreSQLRevocationRepository(db *sql.DB) *PostgreSQLRevocationRepository {
	return &PostgreSQLRevocationRepository{db: db}
}

// Create inserts the revocation unless the serial is already present.
func (p *PostgreSQLRevocationRepository) Create(
	ctx context.Context,
	revocation *pkiDomain.Revocation,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO certificate_revocations (serial, reason, revoked_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (serial) DO NOTHING`

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
func (p *PostgreSQLRevocationRepository) List(ctx context.Context) ([]*pkiDomain.Revocation, error) {
	querier := database.GetTx(ctx, p.db)

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

func scanRevocations(rows *sql.Rows) ([]*pkiDomain.Revocation, error) {
	revocations := make([]*pkiDomain.Revocation, 0)
	for rows.Next() {
		var r pkiDomain.Revocation
		if err := rows.Scan(&r.Serial, &r.Reason, &r.RevokedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan revocation")
		}
		revocations = append(revocations, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate revocations")
	}
	return revocations, nil
}

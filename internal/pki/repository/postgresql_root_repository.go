// Package repository implements persistence for the certificate authority in
// PostgreSQL and MySQL: the sealed root, the revocation list and the issued
// serial registry.
//
// All repositories resolve their querier with database.GetTx, so they work
// inside and outside a database.TxManager transaction.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/securevault/internal/database"
	apperrors "github.com/allisson/securevault/internal/errors"
	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
)

// rootKind is the value of the unique kind column; it limits ca_roots to one row.
const rootKind = "root"

// PostgreSQLRootRepository persists the root CA in PostgreSQL.
//
// Schema: ca_roots(id UUID PK, kind VARCHAR UNIQUE, serial, certificate_pem TEXT,
// sealed_private_key BYTEA, created_at TIMESTAMPTZ).
type PostgreSQLRootRepository struct {
	db *sql.DB
}

// NewPostgreSQLRootRepository creates a new PostgreSQLRootRepository.
func NewPostgreSQLRootRepository(db *sql.DB) *PostgreSQLRootRepository {
	return &PostgreSQLRootRepository{db: db}
}

// Create inserts the root. A second root is rejected with ErrRootAlreadyExists.
func (p *PostgreSQLRootRepository) Create(ctx context.Context, root *pkiDomain.Root) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO ca_roots (id, kind, serial, certificate_pem, sealed_private_key, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		root.ID,
		rootKind,
		root.Serial,
		root.CertificatePEM,
		root.SealedPrivateKey,
		root.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return pkiDomain.ErrRootAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create root")
	}
	return nil
}

// Get returns the root or ErrRootNotFound.
func (p *PostgreSQLRootRepository) Get(ctx context.Context) (*pkiDomain.Root, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, serial, certificate_pem, sealed_private_key, created_at
			  FROM ca_roots
			  WHERE kind = $1`

	var root pkiDomain.Root
	err := querier.QueryRowContext(ctx, query, rootKind).Scan(
		&root.ID,
		&root.Serial,
		&root.CertificatePEM,
		&root.SealedPrivateKey,
		&root.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkiDomain.ErrRootNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get root")
	}
	return &root, nil
}

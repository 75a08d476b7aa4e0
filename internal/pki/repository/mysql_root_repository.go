package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/securevault/internal/database"
	apperrors "github.com/allisson/securevault/internal/errors"
	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
)

// MySQLRootRepository persists the root CA in MySQL.
// The id column is BINARY(16) written with uuid.MarshalBinary.
type MySQLRootRepository struct {
	db *sql.DB
}

// NewMySQLRootRepository creates a new MySQLRootRepository.
func NewMySQLRootRepository(db *sql.DB) *MySQLRootRepository {
	return &MySQLRootRepository{db: db}
}

// Create inserts the root. A second root is rejected with ErrRootAlreadyExists.
func (m *MySQLRootRepository) Create(ctx context.Context, root *pkiDomain.Root) error {
	querier := database.GetTx(ctx, m.db)

	id, err := root.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal root id")
	}

	query := `INSERT INTO ca_roots (id, kind, serial, certificate_pem, sealed_private_key, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLRootRepository) Get(ctx context.Context) (*pkiDomain.Root, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, serial, certificate_pem, sealed_private_key, created_at
			  FROM ca_roots
			  WHERE kind = ?`

	var (
		root    pkiDomain.Root
		idBytes []byte
	)
	err := querier.QueryRowContext(ctx, query, rootKind).Scan(
		&idBytes,
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

	if err := root.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal root id")
	}
	return &root, nil
}

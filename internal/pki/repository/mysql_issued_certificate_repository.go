package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/securevault/internal/database"
	apperrors "github.com/allisson/securevault/internal/errors"
	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
)

// MySQLIssuedCertificateRepository records issued serials in MySQL.
// The serial primary key enforces uniqueness across processes.
type MySQLIssuedCertificateRepository struct {
	db *sql.DB
}

// NewMySQLIssuedCertificateRepository creates a new MySQLIssuedCertificateRepository.
func NewMySQLIssuedCertificateRepository(db *sql.DB) *MySQLIssuedCertificateRepository {
	return &MySQLIssuedCertificateRepository{db: db}
}

// Create inserts the record or returns ErrSerialConflict.
func (m *MySQLIssuedCertificateRepository) Create(
	ctx context.Context,
	issued *pkiDomain.IssuedCertificate,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO issued_certificates
			  (serial, subject_common_name, subject_email, fingerprint, not_before, not_after, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		issued.Serial,
		issued.SubjectCommonName,
		issued.SubjectEmail,
		issued.Fingerprint,
		issued.NotBefore,
		issued.NotAfter,
		issued.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return pkiDomain.ErrSerialConflict
		}
		return apperrors.Wrap(err, "failed to create issued certificate")
	}
	return nil
}

// GetBySerial returns the record or ErrCertificateNotFound.
func (m *MySQLIssuedCertificateRepository) GetBySerial(
	ctx context.Context,
	serial string,
) (*pkiDomain.IssuedCertificate, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT serial, subject_common_name, subject_email, fingerprint, not_before, not_after, created_at
			  FROM issued_certificates
			  WHERE serial = ?`

	var issued pkiDomain.IssuedCertificate
	err := querier.QueryRowContext(ctx, query, serial).Scan(
		&issued.Serial,
		&issued.SubjectCommonName,
		&issued.SubjectEmail,
		&issued.Fingerprint,
		&issued.NotBefore,
		&issued.NotAfter,
		&issued.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkiDomain.ErrCertificateNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get issued certificate")
	}
	return &issued, nil
}

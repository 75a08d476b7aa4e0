package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func testRoot() *pkiDomain.Root {
	return &pkiDomain.Root{
		ID:               uuid.Must(uuid.NewV7()),
		Serial:           "0123456789abcdef0123456789abcdef",
		CertificatePEM:   "-----BEGIN CERTIFICATE-----\n...\n-----END CERTIFICATE-----\n",
		SealedPrivateKey: []byte("sealed"),
		CreatedAt:        time.Now().UTC().Truncate(time.Second),
	}
}

func TestPostgreSQLRootRepository(t *testing.T) {
	ctx := context.Background()
	insert := regexp.QuoteMeta(`INSERT INTO ca_roots`)
	selectRoot := regexp.QuoteMeta(`SELECT id, serial, certificate_pem, sealed_private_key, created_at`)

	t.Run("Success_Create", func(t *testing.T) {
		db, mock := newMockDB(t)
		root := testRoot()

		mock.ExpectExec(insert).
			WithArgs(root.ID, "root", root.Serial, root.CertificatePEM, root.SealedPrivateKey, root.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, NewPostgreSQLRootRepository(db).Create(ctx, root))
	})

	t.Run("Error_CreateDuplicate", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectExec(insert).WillReturnError(&pq.Error{Code: "23505"})

		err := NewPostgreSQLRootRepository(db).Create(ctx, testRoot())
		assert.ErrorIs(t, err, pkiDomain.ErrRootAlreadyExists)
	})

	t.Run("Error_CreateDatabaseFailure", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectExec(insert).WillReturnError(errors.New("connection reset"))

		err := NewPostgreSQLRootRepository(db).Create(ctx, testRoot())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create root")
	})

	t.Run("Success_Get", func(t *testing.T) {
		db, mock := newMockDB(t)
		root := testRoot()

		mock.ExpectQuery(selectRoot).
			WithArgs("root").
			WillReturnRows(sqlmock.NewRows([]string{"id", "serial", "certificate_pem", "sealed_private_key", "created_at"}).
				AddRow(root.ID.String(), root.Serial, root.CertificatePEM, root.SealedPrivateKey, root.CreatedAt))

		got, err := NewPostgreSQLRootRepository(db).Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, root, got)
	})

	t.Run("Error_GetNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectQuery(selectRoot).WithArgs("root").WillReturnError(sql.ErrNoRows)

		_, err := NewPostgreSQLRootRepository(db).Get(ctx)
		assert.ErrorIs(t, err, pkiDomain.ErrRootNotFound)
	})
}

func TestMySQLRootRepository(t *testing.T) {
	ctx := context.Background()
	insert := regexp.QuoteMeta(`INSERT INTO ca_roots`)
	selectRoot := regexp.QuoteMeta(`SELECT id, serial, certificate_pem, sealed_private_key, created_at`)

	t.Run("Success_Create", func(t *testing.T) {
		db, mock := newMockDB(t)
		root := testRoot()
		id, err := root.ID.MarshalBinary()
		require.NoError(t, err)

		mock.ExpectExec(insert).
			WithArgs(id, "root", root.Serial, root.CertificatePEM, root.SealedPrivateKey, root.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, NewMySQLRootRepository(db).Create(ctx, root))
	})

	t.Run("Error_CreateDuplicate", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectExec(insert).WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

		err := NewMySQLRootRepository(db).Create(ctx, testRoot())
		assert.ErrorIs(t, err, pkiDomain.ErrRootAlreadyExists)
	})

	t.Run("Success_Get", func(t *testing.T) {
		db, mock := newMockDB(t)
		root := testRoot()
		id, err := root.ID.MarshalBinary()
		require.NoError(t, err)

		mock.ExpectQuery(selectRoot).
			WithArgs("root").
			WillReturnRows(sqlmock.NewRows([]string{"id", "serial", "certificate_pem", "sealed_private_key", "created_at"}).
				AddRow(id, root.Serial, root.CertificatePEM, root.SealedPrivateKey, root.CreatedAt))

		got, err := NewMySQLRootRepository(db).Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, root, got)
	})

	t.Run("Error_GetNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectQuery(selectRoot).WithArgs("root").WillReturnError(sql.ErrNoRows)

		_, err := NewMySQLRootRepository(db).Get(ctx)
		assert.ErrorIs(t, err, pkiDomain.ErrRootNotFound)
	})

	t.Run("Error_GetInvalidID", func(t *testing.T) {
		db, mock := newMockDB(t)
		root := testRoot()

		mock.ExpectQuery(selectRoot).
			WithArgs("root").
			WillReturnRows(sqlmock.NewRows([]string{"id", "serial", "certificate_pem", "sealed_private_key", "created_at"}).
				AddRow([]byte{1, 2, 3}, root.Serial, root.CertificatePEM, root.SealedPrivateKey, root.CreatedAt))

		_, err := NewMySQLRootRepository(db).Get(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal root id")
	})
}

func TestRevocationRepositories(t *testing.T) {
	ctx := context.Background()
	revokedAt := time.Now().UTC().Truncate(time.Second)
	revocation := &pkiDomain.Revocation{
		Serial:    "0123456789abcdef0123456789abcdef",
		Reason:    "key compromise",
		RevokedAt: revokedAt,
	}

	type repo interface {
		Create(ctx context.Context, revocation *pkiDomain.Revocation) (bool, error)
		List(ctx context.Context) ([]*pkiDomain.Revocation, error)
	}

	const insert = `INSERT INTO certificate_revocations (serial, reason, revoked_at)`

	dialects := []struct {
		name     string
		conflict string
		build    func(db *sql.DB) repo
	}{
		{
			name:     "postgresql",
			conflict: `ON CONFLICT (serial) DO NOTHING`,
			build:    func(db *sql.DB) repo { return NewPostgreSQLRevocationRepository(db) },
		},
		{
			name:     "mysql",
			conflict: `ON DUPLICATE KEY UPDATE serial = serial`,
			build:    func(db *sql.DB) repo { return NewMySQLRevocationRepository(db) },
		},
	}

	for _, d := range dialects {
		t.Run(d.name, func(t *testing.T) {
			insertQuery := regexp.QuoteMeta(insert) + `(?s).*` + regexp.QuoteMeta(d.conflict)

			t.Run("Success_CreateInserted", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectExec(insertQuery).
					WithArgs(revocation.Serial, revocation.Reason, revocation.RevokedAt).
					WillReturnResult(sqlmock.NewResult(0, 1))

				created, err := d.build(db).Create(ctx, revocation)
				require.NoError(t, err)
				assert.True(t, created)
			})

			t.Run("Success_CreateAlreadyRevoked", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectExec(insertQuery).
					WillReturnResult(sqlmock.NewResult(0, 0))

				created, err := d.build(db).Create(ctx, revocation)
				require.NoError(t, err)
				assert.False(t, created)
			})

			t.Run("Error_Create", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectExec(insertQuery).WillReturnError(errors.New("disk full"))

				_, err := d.build(db).Create(ctx, revocation)
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "failed to create revocation")
			})

			t.Run("Success_List", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT serial, reason, revoked_at`)).
					WillReturnRows(sqlmock.NewRows([]string{"serial", "reason", "revoked_at"}).
						AddRow(revocation.Serial, revocation.Reason, revocation.RevokedAt).
						AddRow("fedcba9876543210fedcba9876543210", "superseded", revokedAt.Add(time.Minute)))

				list, err := d.build(db).List(ctx)
				require.NoError(t, err)
				require.Len(t, list, 2)
				assert.Equal(t, revocation, list[0])
				assert.Equal(t, "superseded", list[1].Reason)
			})

			t.Run("Success_ListEmpty", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT serial, reason, revoked_at`)).
					WillReturnRows(sqlmock.NewRows([]string{"serial", "reason", "revoked_at"}))

				list, err := d.build(db).List(ctx)
				require.NoError(t, err)
				assert.NotNil(t, list)
				assert.Empty(t, list)
			})

			t.Run("Error_ListRowError", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT serial, reason, revoked_at`)).
					WillReturnRows(sqlmock.NewRows([]string{"serial", "reason", "revoked_at"}).
						AddRow(revocation.Serial, revocation.Reason, revocation.RevokedAt).
						RowError(0, errors.New("network error")))

				_, err := d.build(db).List(ctx)
				assert.Error(t, err)
			})
		})
	}
}

func TestIssuedCertificateRepositories(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	issued := &pkiDomain.IssuedCertificate{
		Serial:            "0123456789abcdef0123456789abcdef",
		SubjectCommonName: "alice",
		SubjectEmail:      "alice@example.com",
		Fingerprint:       "ab",
		NotBefore:         now,
		NotAfter:          now.Add(365 * 24 * time.Hour),
		CreatedAt:         now,
	}
	columns := []string{
		"serial", "subject_common_name", "subject_email", "fingerprint", "not_before", "not_after", "created_at",
	}

	type repo interface {
		Create(ctx context.Context, issued *pkiDomain.IssuedCertificate) error
		GetBySerial(ctx context.Context, serial string) (*pkiDomain.IssuedCertificate, error)
	}

	dialects := []struct {
		name      string
		build     func(db *sql.DB) repo
		duplicate error
	}{
		{
			name:      "postgresql",
			build:     func(db *sql.DB) repo { return NewPostgreSQLIssuedCertificateRepository(db) },
			duplicate: &pq.Error{Code: "23505"},
		},
		{
			name:      "mysql",
			build:     func(db *sql.DB) repo { return NewMySQLIssuedCertificateRepository(db) },
			duplicate: &mysql.MySQLError{Number: 1062},
		},
	}

	for _, d := range dialects {
		t.Run(d.name, func(t *testing.T) {
			t.Run("Success_Create", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO issued_certificates`)).
					WithArgs(issued.Serial, issued.SubjectCommonName, issued.SubjectEmail, issued.Fingerprint,
						issued.NotBefore, issued.NotAfter, issued.CreatedAt).
					WillReturnResult(sqlmock.NewResult(0, 1))

				assert.NoError(t, d.build(db).Create(ctx, issued))
			})

			t.Run("Error_CreateSerialConflict", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO issued_certificates`)).WillReturnError(d.duplicate)

				assert.ErrorIs(t, d.build(db).Create(ctx, issued), pkiDomain.ErrSerialConflict)
			})

			t.Run("Success_GetBySerial", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectQuery(regexp.QuoteMeta(`FROM issued_certificates`)).
					WithArgs(issued.Serial).
					WillReturnRows(sqlmock.NewRows(columns).AddRow(
						issued.Serial, issued.SubjectCommonName, issued.SubjectEmail, issued.Fingerprint,
						issued.NotBefore, issued.NotAfter, issued.CreatedAt,
					))

				got, err := d.build(db).GetBySerial(ctx, issued.Serial)
				require.NoError(t, err)
				assert.Equal(t, issued, got)
			})

			t.Run("Error_GetBySerialNotFound", func(t *testing.T) {
				db, mock := newMockDB(t)
				mock.ExpectQuery(regexp.QuoteMeta(`FROM issued_certificates`)).WillReturnError(sql.ErrNoRows)

				_, err := d.build(db).GetBySerial(ctx, issued.Serial)
				assert.ErrorIs(t, err, pkiDomain.ErrCertificateNotFound)
			})
		})
	}
}

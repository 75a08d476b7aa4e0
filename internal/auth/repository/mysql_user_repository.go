package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
	"github.com/allisson/securevault/internal/database"
	apperrors "github.com/allisson/securevault/internal/errors"
)

// MySQLUserRepository implements User persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQL User repository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

// Create inserts a new User. A duplicate username, email or certificate serial
// returns ErrUserAlreadyExists.
func (m *MySQLUserRepository) Create(ctx context.Context, user *authDomain.User) error {
	querier := database.GetTx(ctx, m.db)

	id, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `INSERT INTO users (` + userColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		user.Username,
		user.Email,
		user.PublicKeyPEM,
		user.CertificatePEM,
		user.CertificateSerial,
		user.IssuedAt,
		user.ExpiresAt,
		user.LastLoginAt,
		user.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return authDomain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a User by ID. Returns ErrUserNotFound if it doesn't exist.
func (m *MySQLUserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*authDomain.User, error) {
	id, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return m.get(ctx, query, id)
}

// GetByUsername retrieves a User by username. Returns ErrUserNotFound if it doesn't exist.
func (m *MySQLUserRepository) GetByUsername(ctx context.Context, username string) (*authDomain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return m.get(ctx, query, username)
}

func (m *MySQLUserRepository) get(ctx context.Context, query string, arg any) (*authDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	var (
		user    authDomain.User
		idBytes []byte
	)
	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&idBytes,
		&user.Username,
		&user.Email,
		&user.PublicKeyPEM,
		&user.CertificatePEM,
		&user.CertificateSerial,
		&user.IssuedAt,
		&user.ExpiresAt,
		&user.LastLoginAt,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	if err := user.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	return &user, nil
}

// ExistsByUsernameOrEmail reports whether either identifier is taken.
func (m *MySQLUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = ? OR email = ?)`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, username, email).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check user existence")
	}
	return exists, nil
}

// UpdateLastLogin sets last_login_at.
func (m *MySQLUserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	querier := database.GetTx(ctx, m.db)

	id, err := userID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `UPDATE users SET last_login_at = ? WHERE id = ?`

	if _, err := querier.ExecContext(ctx, query, at, id); err != nil {
		return apperrors.Wrap(err, "failed to update last login")
	}
	return nil
}

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

const userColumns = `id, username, email, public_key_pem, certificate_pem, certificate_serial,
			  issued_at, expires_at, last_login_at, created_at`

// PostgreSQLUserRepository implements User persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQL User repository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}

// Create inserts a new User. A duplicate username, email or certificate serial
// returns ErrUserAlreadyExists.
func (p *PostgreSQLUserRepository) Create(ctx context.Context, user *authDomain.User) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO users (` + userColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := querier.ExecContext(
		ctx,
		query,
		user.ID,
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
func (p *PostgreSQLUserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*authDomain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return p.get(ctx, query, userID)
}

// GetByUsername retrieves a User by username. Returns ErrUserNotFound if it doesn't exist.
func (p *PostgreSQLUserRepository) GetByUsername(ctx context.Context, username string) (*authDomain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return p.get(ctx, query, username)
}

func (p *PostgreSQLUserRepository) get(ctx context.Context, query string, arg any) (*authDomain.User, error) {
	querier := database.GetTx(ctx, p.db)

	var user authDomain.User
	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
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
	return &user, nil
}

// ExistsByUsernameOrEmail reports whether either identifier is taken.
func (p *PostgreSQLUserRepository) ExistsByUsernameOrEmail(
	ctx context.Context,
	username, email string,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, username, email).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check user existence")
	}
	return exists, nil
}

// UpdateLastLogin sets last_login_at.
func (p *PostgreSQLUserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE users SET last_login_at = $1 WHERE id = $2`

	if _, err := querier.ExecContext(ctx, query, at, userID); err != nil {
		return apperrors.Wrap(err, "failed to update last login")
	}
	return nil
}

// Package repository provides data persistence implementations for accounts.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/allisson/wemakepass/internal/database"
	apperrors "github.com/allisson/wemakepass/internal/errors"
	"github.com/allisson/wemakepass/internal/user/domain"
)

// postgresUniqueViolation is the SQLSTATE for unique_violation.
const postgresUniqueViolation = "23505"

// PostgreSQLAccountRepository handles account persistence for PostgreSQL
type PostgreSQLAccountRepository struct {
	db *sql.DB
}

// NewPostgreSQLAccountRepository creates a new PostgreSQLAccountRepository
func NewPostgreSQLAccountRepository(db *sql.DB) *PostgreSQLAccountRepository {
	return &PostgreSQLAccountRepository{
		db: db,
	}
}

// Create inserts a new account
func (r *PostgreSQLAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (id, password, email, nickname, role, certified, registered_at, withdrawn_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		account.ID,
		account.PasswordHash,
		account.Email,
		account.Nickname,
		account.Role,
		account.Certified,
		account.RegisteredAt,
		account.WithdrawnAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrAccountAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create account")
	}
	return nil
}

// GetByID retrieves an account by ID
func (r *PostgreSQLAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	var account domain.Account
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, password, email, nickname, role, certified, registered_at, withdrawn_at
			  FROM users WHERE id = $1`

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&account.ID,
		&account.PasswordHash,
		&account.Email,
		&account.Nickname,
		&account.Role,
		&account.Certified,
		&account.RegisteredAt,
		&account.WithdrawnAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account by id")
	}

	return &account, nil
}

// UpdatePasswordHash replaces the stored password hash of an account
func (r *PostgreSQLAccountRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `UPDATE users SET password = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update password hash")
	}
	return requireAffected(result)
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == postgresUniqueViolation
	}
	return false
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

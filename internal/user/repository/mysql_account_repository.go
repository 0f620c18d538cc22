package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/allisson/wemakepass/internal/database"
	apperrors "github.com/allisson/wemakepass/internal/errors"
	"github.com/allisson/wemakepass/internal/user/domain"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// MySQLAccountRepository handles account persistence for MySQL
type MySQLAccountRepository struct {
	db *sql.DB
}

// NewMySQLAccountRepository creates a new MySQLAccountRepository
func NewMySQLAccountRepository(db *sql.DB) *MySQLAccountRepository {
	return &MySQLAccountRepository{
		db: db,
	}
}

// Create inserts a new account
func (r *MySQLAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (id, password, email, nickname, role, certified, registered_at, withdrawn_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

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
		if isMySQLUniqueViolation(err) {
			return domain.ErrAccountAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create account")
	}
	return nil
}

// GetByID retrieves an account by ID
func (r *MySQLAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	var account domain.Account
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, password, email, nickname, role, certified, registered_at, withdrawn_at
			  FROM users WHERE id = ?`

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
func (r *MySQLAccountRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `UPDATE users SET password = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update password hash")
	}
	return requireAffected(result)
}

// isMySQLUniqueViolation checks if the error is a MySQL duplicate entry error
func isMySQLUniqueViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return false
}

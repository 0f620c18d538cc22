// Package mysql implements the credential store on MySQL.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	authDomain "github.com/allisson/wemakepass/internal/auth/domain"
	"github.com/allisson/wemakepass/internal/database"
	apperrors "github.com/allisson/wemakepass/internal/errors"
)

// CredentialRepository persists one refresh token per user in the user_tokens table.
// Uses transaction support via database.GetTx(); reads inside a transaction lock the row.
type CredentialRepository struct {
	db *sql.DB
}

// Get retrieves the credential record for userID. Returns ErrCredentialNotFound when no
// record exists.
func (p *CredentialRepository) Get(ctx context.Context, userID string) (*authDomain.CredentialRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT user_id, refresh_token, updated_at FROM user_tokens WHERE user_id = ?`
	if database.InTx(ctx) {
		query += ` FOR UPDATE`
	}

	var record authDomain.CredentialRecord
	err := querier.QueryRowContext(ctx, query, userID).Scan(
		&record.UserID,
		&record.RefreshToken,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential")
	}

	return &record, nil
}

// Save creates or overwrites the credential record for record.UserID.
func (p *CredentialRepository) Save(ctx context.Context, record *authDomain.CredentialRecord) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO user_tokens (user_id, refresh_token, updated_at)
			  VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  refresh_token = VALUES(refresh_token), updated_at = VALUES(updated_at)`

	_, err := querier.ExecContext(ctx, query, record.UserID, record.RefreshToken, record.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to save credential")
	}
	return nil
}

// Replace overwrites the stored token only if it still equals expected. Returns
// ErrCredentialConflict when another writer got there first or the record is gone.
func (p *CredentialRepository) Replace(ctx context.Context, userID, expected, next string) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE user_tokens SET refresh_token = ?, updated_at = ?
			  WHERE user_id = ? AND refresh_token = ?`

	result, err := querier.ExecContext(ctx, query, next, time.Now().UTC(), userID, expected)
	if err != nil {
		return apperrors.Wrap(err, "failed to replace credential")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to replace credential")
	}
	if affected == 0 {
		return authDomain.ErrCredentialConflict
	}
	return nil
}

// Delete removes the credential record for userID. Deleting a missing record succeeds.
func (p *CredentialRepository) Delete(ctx context.Context, userID string) error {
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM user_tokens WHERE user_id = ?`, userID); err != nil {
		return apperrors.Wrap(err, "failed to delete credential")
	}
	return nil
}

// NewCredentialRepository creates a new MySQL credential repository.
func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

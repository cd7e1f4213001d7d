package postgres

import (
	"context"
	"fmt"

	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACCOUNT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AccountRepository implements profile.AccountRepository for PostgreSQL.
type AccountRepository struct {
	conn *Connection
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(conn *Connection) *AccountRepository {
	return &AccountRepository{conn: conn}
}

// Create creates a new account row.
func (r *AccountRepository) Create(ctx context.Context, account *profile.Account) error {
	query := `
		INSERT INTO accounts (id, name, credential_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.conn.Exec(ctx, query,
		account.ID,
		account.Name,
		account.CredentialHash,
		account.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrProfileAlreadyExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID returns an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*profile.Account, error) {
	query := `
		SELECT id, name, credential_hash, created_at
		FROM accounts
		WHERE id = $1
	`

	account := &profile.Account{}
	err := r.conn.QueryRow(ctx, query, id).Scan(
		&account.ID,
		&account.Name,
		&account.CredentialHash,
		&account.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, fmt.Errorf("account %s: %w", id, shared.ErrProfileNotFound)
		}
		return nil, fmt.Errorf("failed to get account %s: %w", id, err)
	}

	return account, nil
}

// Delete removes an account row. Deleting an absent row is not an error.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", id, err)
	}
	return nil
}

// Exists reports whether an account with the given ID exists.
func (r *AccountRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account %s: %w", id, err)
	}
	return exists, nil
}

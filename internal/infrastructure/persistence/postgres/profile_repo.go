package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/profile"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
	"github.com/arise-hub/hunter-hub/internal/infrastructure/persistence/codec"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE REPOSITORY IMPLEMENTATION
// The aggregate is one JSONB document per account. Load and save move the
// whole document; the application layer serializes writes per account
// through the locker, so the upsert never races with itself.
// ══════════════════════════════════════════════════════════════════════════════

// ProfileRepository implements profile.Store for PostgreSQL.
type ProfileRepository struct {
	conn *Connection
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(conn *Connection) *ProfileRepository {
	return &ProfileRepository{conn: conn}
}

// Load returns the full aggregate for an account.
func (r *ProfileRepository) Load(ctx context.Context, accountID string) (*profile.State, error) {
	query := `
		SELECT state, updated_at
		FROM profiles
		WHERE account_id = $1
	`

	var data []byte
	var updatedAt time.Time
	err := r.conn.QueryRow(ctx, query, accountID).Scan(&data, &updatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, fmt.Errorf("profile %s: %w", accountID, shared.ErrProfileNotFound)
		}
		return nil, fmt.Errorf("failed to load profile %s: %w", accountID, err)
	}

	state, err := codec.DecodeState(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", accountID, err)
	}
	state.LastSaved = updatedAt

	return state, nil
}

// Save persists the full aggregate.
func (r *ProfileRepository) Save(ctx context.Context, state *profile.State) error {
	now := time.Now().UTC()
	state.LastSaved = now

	data, err := codec.EncodeState(state)
	if err != nil {
		return fmt.Errorf("failed to encode profile %s: %w", state.AccountID, err)
	}

	query := `
		INSERT INTO profiles (account_id, state, schema_version, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id) DO UPDATE SET
			state = EXCLUDED.state,
			schema_version = EXCLUDED.schema_version,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.conn.Exec(ctx, query, state.AccountID, data, codec.SchemaVersion, now)
	if err != nil {
		return fmt.Errorf("failed to save profile %s: %w", state.AccountID, err)
	}

	return nil
}

// ListAccountIDs returns the IDs of every stored profile.
func (r *ProfileRepository) ListAccountIDs(ctx context.Context) ([]string, error) {
	query := `SELECT account_id FROM profiles ORDER BY updated_at`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan profile id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Count returns the number of stored profiles.
func (r *ProfileRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT count(*) FROM profiles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}

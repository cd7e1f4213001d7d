package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/arise-hub/hunter-hub/internal/domain/notification"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DEDUP LOG IMPLEMENTATION
// Append-only. Duplicate (account, key) inserts are swallowed: a key is
// either in the log or it is not, and repeating Record is harmless.
// ══════════════════════════════════════════════════════════════════════════════

// DedupRepository implements notification.DedupLog for PostgreSQL.
type DedupRepository struct {
	conn *Connection
}

// NewDedupRepository creates a new DedupRepository.
func NewDedupRepository(conn *Connection) *DedupRepository {
	return &DedupRepository{conn: conn}
}

// Seen reports whether the key was already sent to the account.
func (r *DedupRepository) Seen(ctx context.Context, accountID shared.AccountID, key notification.Key) (bool, error) {
	var seen bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM notification_dedup WHERE account_id = $1 AND key = $2)`,
		string(accountID), string(key),
	).Scan(&seen)
	if err != nil {
		return false, fmt.Errorf("failed to check dedup key: %w", err)
	}
	return seen, nil
}

// Record appends an entry to the log.
func (r *DedupRepository) Record(ctx context.Context, entry notification.DedupEntry) error {
	query := `
		INSERT INTO notification_dedup (account_id, key, sent_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id, key) DO NOTHING
	`

	_, err := r.conn.Exec(ctx, query, string(entry.AccountID), string(entry.Key), entry.SentAt)
	if err != nil {
		return fmt.Errorf("failed to record dedup entry: %w", err)
	}
	return nil
}

// History returns the account's most recent entries.
func (r *DedupRepository) History(ctx context.Context, accountID shared.AccountID, limit int) ([]notification.DedupEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT account_id, key, sent_at
		FROM notification_dedup
		WHERE account_id = $1
		ORDER BY sent_at DESC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, string(accountID), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query dedup history: %w", err)
	}
	defer rows.Close()

	var entries []notification.DedupEntry
	for rows.Next() {
		var entry notification.DedupEntry
		var account, key string
		if err := rows.Scan(&account, &key, &entry.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan dedup entry: %w", err)
		}
		entry.AccountID = shared.AccountID(account)
		entry.Key = notification.Key(key)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// PurgeOlderThan deletes entries older than the given time.
func (r *DedupRepository) PurgeOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.conn.Exec(ctx,
		`DELETE FROM notification_dedup WHERE sent_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to purge dedup log: %w", err)
	}
	return result.RowsAffected(), nil
}

// Package postgres implements the PostgreSQL persistence layer for Hunter Hub.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE ACCOUNTS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create accounts table
-- Version: 001

CREATE TABLE IF NOT EXISTS accounts (
    id UUID PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    credential_hash TEXT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT nonempty_name CHECK (length(trim(name)) > 0)
);
`

const migration001Down = `
DROP TABLE IF EXISTS accounts;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE PROFILES
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create profiles table
-- Version: 002
-- The whole aggregate is one JSONB document. Load and save are whole-document
-- operations guarded by the per-account lock, so no per-collection tables.

CREATE TABLE IF NOT EXISTS profiles (
    account_id UUID PRIMARY KEY REFERENCES accounts(id) ON DELETE CASCADE,
    state JSONB NOT NULL,
    schema_version INTEGER NOT NULL DEFAULT 1,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

-- The batch reset scans profiles with uncompleted-vs-date predicates on the
-- document; these expression indexes keep the scan off a full JSONB parse.
CREATE INDEX IF NOT EXISTS idx_profiles_updated_at ON profiles(updated_at);
CREATE INDEX IF NOT EXISTS idx_profiles_level
    ON profiles(((state->'character'->>'level')::int) DESC);
`

const migration002Down = `
DROP TABLE IF EXISTS profiles;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE NOTIFICATIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create notification tables
-- Version: 003

-- Delivered and pending notifications. Persistent reminders (duration 0)
-- stay here until replaced by a newer counter key.
CREATE TABLE IF NOT EXISTS notifications (
    id VARCHAR(120) PRIMARY KEY,
    account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
    key VARCHAR(100) NOT NULL,
    type VARCHAR(20) NOT NULL,
    priority SMALLINT NOT NULL,
    status VARCHAR(20) NOT NULL,
    title VARCHAR(200) NOT NULL,
    message TEXT NOT NULL,
    duration_ms BIGINT NOT NULL DEFAULT 0,
    action JSONB,
    sent_at TIMESTAMP WITH TIME ZONE,
    delivered_at TIMESTAMP WITH TIME ZONE,
    retry_count SMALLINT NOT NULL DEFAULT 0,
    max_retries SMALLINT NOT NULL DEFAULT 3,
    last_error TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_type CHECK (type IN ('success', 'error', 'warning', 'info', 'achievement')),
    CONSTRAINT valid_status CHECK (status IN ('pending', 'sending', 'delivered', 'failed', 'suppressed')),
    CONSTRAINT valid_priority CHECK (priority BETWEEN 1 AND 4)
);

CREATE INDEX IF NOT EXISTS idx_notifications_account ON notifications(account_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_notifications_persistent
    ON notifications(account_id) WHERE duration_ms = 0 AND status = 'delivered';
CREATE INDEX IF NOT EXISTS idx_notifications_retry
    ON notifications(status) WHERE status = 'failed';

-- Append-only dedup log. A (account_id, key) pair present here means the
-- notification was already delivered once and must be suppressed.
CREATE TABLE IF NOT EXISTS notification_dedup (
    account_id UUID NOT NULL,
    key VARCHAR(100) NOT NULL,
    sent_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    PRIMARY KEY (account_id, key)
);

CREATE INDEX IF NOT EXISTS idx_notification_dedup_sent_at ON notification_dedup(sent_at);
`

const migration003Down = `
DROP TABLE IF EXISTS notification_dedup;
DROP TABLE IF EXISTS notifications;
`

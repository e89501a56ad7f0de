// internal/common/database/migrations.go
// Idempotent schema bootstrap

package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Tables lists every table the service owns, in creation order.
var Tables = []string{"users", "gyms", "saved_gyms", "user_matches", "messages"}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		display_name VARCHAR(100) NOT NULL DEFAULT '',
		fitness_goals TEXT[] NOT NULL DEFAULT '{}',
		gym_preferences TEXT[] NOT NULL DEFAULT '{}',
		role VARCHAR(20) NOT NULL DEFAULT 'user',
		is_banned BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS gyms (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		amenities TEXT[] NOT NULL DEFAULT '{}',
		rating DOUBLE PRECISION CHECK (rating IS NULL OR (rating >= 0 AND rating <= 5)),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS saved_gyms (
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		gym_id BIGINT NOT NULL REFERENCES gyms(id) ON DELETE CASCADE,
		match_score INTEGER,
		saved_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, gym_id)
	)`,
	`CREATE TABLE IF NOT EXISTS user_matches (
		id BIGSERIAL PRIMARY KEY,
		sender_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		receiver_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		pair_key VARCHAR(64) NOT NULL UNIQUE,
		status VARCHAR(20) NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'accepted', 'rejected')),
		score DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (sender_id <> receiver_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_matches_sender ON user_matches(sender_id)`,
	`CREATE INDEX IF NOT EXISTS idx_user_matches_receiver ON user_matches(receiver_id)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		sender_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		receiver_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_pair ON messages(sender_id, receiver_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_unread ON messages(receiver_id) WHERE is_read = FALSE`,
}

// Migrate creates any missing tables and indexes.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

// MissingTables returns the owned tables that do not exist yet.
func MissingTables(ctx context.Context, db *sqlx.DB) ([]string, error) {
	var missing []string
	for _, table := range Tables {
		var exists bool
		err := db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)`,
			table)
		if err != nil {
			return nil, fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if !exists {
			missing = append(missing, table)
		}
	}
	return missing, nil
}

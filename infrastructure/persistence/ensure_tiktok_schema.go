package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureTikTokSchema creates the tiktok_accounts table if missing and adds
// columns introduced after the first release. Safe to call at startup.
func EnsureTikTokSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ddl := `CREATE TABLE IF NOT EXISTS tiktok_accounts (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		open_id TEXT NOT NULL,
		access_token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		scope TEXT NOT NULL DEFAULT '',
		expires_at TIMESTAMPTZ NOT NULL,
		refresh_expires_at TIMESTAMPTZ NOT NULL,
		display_name TEXT,
		handle TEXT,
		avatar_url TEXT,
		follower_count BIGINT,
		last_synced_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create tiktok_accounts: %w", err)
	}

	checks := []struct {
		table  string
		column string
		ddl    string
	}{
		{"tiktok_accounts", "handle", "ALTER TABLE tiktok_accounts ADD COLUMN handle TEXT"},
		{"tiktok_accounts", "follower_count", "ALTER TABLE tiktok_accounts ADD COLUMN follower_count BIGINT"},
	}

	for _, c := range checks {
		exists, err := columnExists(ctx, db, c.table, c.column)
		if err != nil {
			return err
		}
		if !exists {
			if _, err := db.ExecContext(ctx, c.ddl); err != nil {
				return fmt.Errorf("adding column %s.%s failed: %w", c.table, c.column, err)
			}
		}
	}
	return nil
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	row := db.QueryRowContext(ctx, `SELECT 1 FROM information_schema.columns WHERE table_name=$1 AND column_name=$2`, table, column)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

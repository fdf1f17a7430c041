package persistence

import (
	"database/sql"
	"fmt"
)

// EnsureTikTokSchemaMSSQL creates the tiktok_accounts table for SQL Server if it does not exist.
func EnsureTikTokSchemaMSSQL(db *sql.DB) error {
	ddl := `IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.tiktok_accounts') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.[tiktok_accounts] (
        id BIGINT IDENTITY(1,1) PRIMARY KEY,
        user_id NVARCHAR(128) NOT NULL,
        open_id NVARCHAR(128) NOT NULL,
        access_token NVARCHAR(MAX) NOT NULL,
        refresh_token NVARCHAR(MAX) NOT NULL,
        scope NVARCHAR(MAX) NOT NULL,
        expires_at DATETIME2 NOT NULL,
        refresh_expires_at DATETIME2 NOT NULL,
        display_name NVARCHAR(255) NULL,
        handle NVARCHAR(255) NULL,
        avatar_url NVARCHAR(MAX) NULL,
        follower_count BIGINT NULL,
        last_synced_at DATETIME2 NULL,
        created_at DATETIME2 NOT NULL,
        updated_at DATETIME2 NOT NULL
    );
    CREATE UNIQUE INDEX UX_tiktok_accounts_user ON dbo.[tiktok_accounts](user_id);
END`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create tiktok_accounts (mssql): %w", err)
	}
	return nil
}

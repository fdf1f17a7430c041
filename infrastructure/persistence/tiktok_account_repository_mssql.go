package persistence

import (
	"context"
	"database/sql"
	"time"

	"creator-hub/domain/model"
	"creator-hub/domain/repository"
	"creator-hub/infrastructure/logger"
)

type TikTokAccountRepositoryMSSQL struct{ db *sql.DB }

func NewTikTokAccountRepositoryMSSQL(db *sql.DB) repository.ITikTokAccount {
	return &TikTokAccountRepositoryMSSQL{db: db}
}

func (r *TikTokAccountRepositoryMSSQL) Get(ctx context.Context, userID string) (*model.TikTokAccount, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, user_id, open_id, access_token, refresh_token, scope, expires_at, refresh_expires_at, display_name, handle, avatar_url, follower_count, last_synced_at, created_at, updated_at FROM dbo.[tiktok_accounts] WHERE user_id = @p1`, userID)

	acc := &model.TikTokAccount{}
	var displayName, handle, avatarURL sql.NullString
	var followerCount sql.NullInt64
	var lastSyncedAt sql.NullTime
	err := row.Scan(&acc.ID, &acc.UserID, &acc.OpenID, &acc.AccessToken, &acc.RefreshToken, &acc.Scope,
		&acc.ExpiresAt, &acc.RefreshExpiresAt, &displayName, &handle, &avatarURL, &followerCount, &lastSyncedAt,
		&acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.GetLogger().WithField("error", err).Error("mssql: query tiktok account failed")
		return nil, err
	}
	if displayName.Valid {
		v := displayName.String
		acc.DisplayName = &v
	}
	if handle.Valid {
		v := handle.String
		acc.Handle = &v
	}
	if avatarURL.Valid {
		v := avatarURL.String
		acc.AvatarURL = &v
	}
	if followerCount.Valid {
		v := followerCount.Int64
		acc.FollowerCount = &v
	}
	if lastSyncedAt.Valid {
		v := lastSyncedAt.Time
		acc.LastSyncedAt = &v
	}
	return acc, nil
}

func (r *TikTokAccountRepositoryMSSQL) Upsert(ctx context.Context, account *model.TikTokAccount) error {
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now
	// Normalize nullable values for MSSQL driver
	var displayName, handle, avatarURL sql.NullString
	if account.DisplayName != nil {
		displayName.Valid = true
		displayName.String = *account.DisplayName
	}
	if account.Handle != nil {
		handle.Valid = true
		handle.String = *account.Handle
	}
	if account.AvatarURL != nil {
		avatarURL.Valid = true
		avatarURL.String = *account.AvatarURL
	}
	var followerCount sql.NullInt64
	if account.FollowerCount != nil {
		followerCount.Valid = true
		followerCount.Int64 = *account.FollowerCount
	}
	var lastSyncedAt sql.NullTime
	if account.LastSyncedAt != nil {
		lastSyncedAt.Valid = true
		lastSyncedAt.Time = *account.LastSyncedAt
	}
	// MERGE upsert by user_id
	q := `MERGE dbo.[tiktok_accounts] AS target
USING (VALUES (@p1)) AS src(user_id)
ON target.user_id = src.user_id
WHEN MATCHED THEN UPDATE SET
    open_id=@p2,
    access_token=@p3,
    refresh_token=@p4,
    scope=@p5,
    expires_at=@p6,
    refresh_expires_at=@p7,
    display_name=@p8,
    handle=@p9,
    avatar_url=@p10,
    follower_count=@p11,
    last_synced_at=@p12,
    updated_at=@p14
WHEN NOT MATCHED THEN
    INSERT (user_id, open_id, access_token, refresh_token, scope, expires_at, refresh_expires_at, display_name, handle, avatar_url, follower_count, last_synced_at, created_at, updated_at)
    VALUES (@p1,@p2,@p3,@p4,@p5,@p6,@p7,@p8,@p9,@p10,@p11,@p12,@p13,@p14);`
	_, err := r.db.ExecContext(ctx, q,
		account.UserID,
		account.OpenID,
		account.AccessToken,
		account.RefreshToken,
		account.Scope,
		account.ExpiresAt,
		account.RefreshExpiresAt,
		displayName,
		handle,
		avatarURL,
		followerCount,
		lastSyncedAt,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":   err,
			"user_id": account.UserID,
		}).Error("mssql: upsert tiktok account failed")
	}
	return err
}

func (r *TikTokAccountRepositoryMSSQL) Delete(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM dbo.[tiktok_accounts] WHERE user_id = @p1`, userID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mssql: delete tiktok account failed")
	}
	return err
}

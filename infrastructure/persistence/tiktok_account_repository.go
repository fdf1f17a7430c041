package persistence

import (
	"context"
	"database/sql"
	"time"

	"creator-hub/domain/model"
	"creator-hub/domain/repository"
	"creator-hub/infrastructure/logger"
)

type TikTokAccountRepository struct{ db *sql.DB }

func NewTikTokAccountRepository(db *sql.DB) repository.ITikTokAccount {
	return &TikTokAccountRepository{db: db}
}

func (r *TikTokAccountRepository) Get(ctx context.Context, userID string) (*model.TikTokAccount, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, user_id, open_id, access_token, refresh_token, scope, expires_at, refresh_expires_at, display_name, handle, avatar_url, follower_count, last_synced_at, created_at, updated_at FROM tiktok_accounts WHERE user_id = $1`, userID)

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
		logger.GetLogger().WithField("error", err).Error("psql: query tiktok account failed")
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

func (r *TikTokAccountRepository) Upsert(ctx context.Context, account *model.TikTokAccount) error {
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now
	q := `INSERT INTO tiktok_accounts (user_id, open_id, access_token, refresh_token, scope, expires_at, refresh_expires_at, display_name, handle, avatar_url, follower_count, last_synced_at, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		  ON CONFLICT (user_id) DO UPDATE SET
			open_id=EXCLUDED.open_id,
			access_token=EXCLUDED.access_token,
			refresh_token=EXCLUDED.refresh_token,
			scope=EXCLUDED.scope,
			expires_at=EXCLUDED.expires_at,
			refresh_expires_at=EXCLUDED.refresh_expires_at,
			display_name=EXCLUDED.display_name,
			handle=EXCLUDED.handle,
			avatar_url=EXCLUDED.avatar_url,
			follower_count=EXCLUDED.follower_count,
			last_synced_at=EXCLUDED.last_synced_at,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, account.UserID, account.OpenID, account.AccessToken, account.RefreshToken,
		account.Scope, account.ExpiresAt, account.RefreshExpiresAt, account.DisplayName, account.Handle,
		account.AvatarURL, account.FollowerCount, account.LastSyncedAt, account.CreatedAt, account.UpdatedAt)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":   err,
			"user_id": account.UserID,
		}).Error("psql: upsert tiktok account failed")
	}
	return err
}

func (r *TikTokAccountRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tiktok_accounts WHERE user_id = $1`, userID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("psql: delete tiktok account failed")
	}
	return err
}

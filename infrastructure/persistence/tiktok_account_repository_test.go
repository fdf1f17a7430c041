package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"creator-hub/domain/model"
)

func accountRows(acc *model.TikTokAccount) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "open_id", "access_token", "refresh_token", "scope",
		"expires_at", "refresh_expires_at", "display_name", "handle", "avatar_url",
		"follower_count", "last_synced_at", "created_at", "updated_at",
	}).AddRow(
		acc.ID, acc.UserID, acc.OpenID, acc.AccessToken, acc.RefreshToken, acc.Scope,
		acc.ExpiresAt, acc.RefreshExpiresAt, acc.DisplayName, acc.Handle, acc.AvatarURL,
		acc.FollowerCount, acc.LastSyncedAt, acc.CreatedAt, acc.UpdatedAt,
	)
}

func TestTikTokAccountRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTikTokAccountRepository(db)

	now := time.Date(2025, 11, 14, 9, 30, 0, 0, time.UTC)
	displayName := "Creator One"
	followers := int64(1204)
	stored := &model.TikTokAccount{
		ID:               7,
		UserID:           "user-1",
		OpenID:           "open-abc",
		AccessToken:      "act.token",
		RefreshToken:     "rft.token",
		Scope:            "user.info.basic,video.publish",
		ExpiresAt:        now.Add(24 * time.Hour),
		RefreshExpiresAt: now.Add(365 * 24 * time.Hour),
		DisplayName:      &displayName,
		FollowerCount:    &followers,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, open_id, access_token, refresh_token, scope, expires_at, refresh_expires_at, display_name, handle, avatar_url, follower_count, last_synced_at, created_at, updated_at FROM tiktok_accounts WHERE user_id = $1`)).
		WithArgs("user-1").
		WillReturnRows(accountRows(stored))

	got, err := repo.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "open-abc", got.OpenID)
	require.Equal(t, &displayName, got.DisplayName)
	require.Equal(t, &followers, got.FollowerCount)
	require.Nil(t, got.Handle)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTikTokAccountRepository_Get_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTikTokAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, open_id, access_token, refresh_token, scope, expires_at, refresh_expires_at, display_name, handle, avatar_url, follower_count, last_synced_at, created_at, updated_at FROM tiktok_accounts WHERE user_id = $1`)).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := repo.Get(context.Background(), "nobody")
	require.NoError(t, err)
	require.Nil(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTikTokAccountRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTikTokAccountRepository(db)

	now := time.Date(2025, 11, 14, 9, 30, 0, 0, time.UTC)
	acc := &model.TikTokAccount{
		UserID:           "user-1",
		OpenID:           "open-abc",
		AccessToken:      "act.new",
		RefreshToken:     "rft.new",
		Scope:            "video.publish",
		ExpiresAt:        now.Add(24 * time.Hour),
		RefreshExpiresAt: now.Add(365 * 24 * time.Hour),
	}

	mock.ExpectExec("INSERT INTO tiktok_accounts").
		WithArgs(acc.UserID, acc.OpenID, acc.AccessToken, acc.RefreshToken, acc.Scope,
			acc.ExpiresAt, acc.RefreshExpiresAt, nil, nil, nil, nil, nil,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Upsert(context.Background(), acc)
	require.NoError(t, err)
	require.False(t, acc.CreatedAt.IsZero())
	require.False(t, acc.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTikTokAccountRepository_Delete_Idempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTikTokAccountRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tiktok_accounts WHERE user_id = $1`)).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "user-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"creator-hub/domain/dto"
	"creator-hub/domain/model"
)

var testNow = time.Date(2025, 11, 14, 12, 0, 0, 0, time.UTC)

func newAccountUsecase(repo *MockTikTokAccountRepo, platform *MockTikTokPlatform) *TikTokAccountUsecase {
	u := NewTikTokAccountUsecase(repo, platform, nil).(*TikTokAccountUsecase)
	u.now = func() time.Time { return testNow }
	return u
}

func storedAccount(expiresAt, refreshExpiresAt time.Time) *model.TikTokAccount {
	return &model.TikTokAccount{
		ID:               1,
		UserID:           "user-1",
		OpenID:           "open-1",
		AccessToken:      "act.old",
		RefreshToken:     "rft.old",
		Scope:            "video.publish",
		ExpiresAt:        expiresAt,
		RefreshExpiresAt: refreshExpiresAt,
	}
}

func TestEnsureValid_NoBinding(t *testing.T) {
	repo := new(MockTikTokAccountRepo)
	platform := new(MockTikTokPlatform)
	repo.On("Get", mock.Anything, "user-1").Return(nil, nil)

	u := newAccountUsecase(repo, platform)
	account, err := u.EnsureValid(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Nil(t, account)
}

// An access token expiring exactly at the evaluation instant must be
// treated as expired and refreshed.
func TestEnsureValid_RefreshAtExpiryBoundary(t *testing.T) {
	repo := new(MockTikTokAccountRepo)
	platform := new(MockTikTokPlatform)
	acc := storedAccount(testNow, testNow.Add(300*24*time.Hour))
	repo.On("Get", mock.Anything, "user-1").Return(acc, nil)
	platform.On("RefreshToken", mock.Anything, "rft.old").Return(&dto.TikTokTokenResponse{
		AccessToken:      "act.new",
		RefreshToken:     "rft.new",
		ExpiresIn:        86400,
		RefreshExpiresIn: 31536000,
	}, nil).Once()
	repo.On("Upsert", mock.Anything, mock.AnythingOfType("*model.TikTokAccount")).Return(nil).Once()

	u := newAccountUsecase(repo, platform)
	account, err := u.EnsureValid(context.Background(), "user-1")

	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "act.new", account.AccessToken)
	assert.Equal(t, "rft.new", account.RefreshToken)
	assert.Equal(t, testNow.Add(86400*time.Second), account.ExpiresAt)
	platform.AssertExpectations(t)
	repo.AssertExpectations(t)
}

// A still-valid access token must pass through without touching TikTok.
func TestEnsureValid_NoPrematureRefresh(t *testing.T) {
	repo := new(MockTikTokAccountRepo)
	platform := new(MockTikTokPlatform)
	acc := storedAccount(testNow.Add(time.Minute), testNow.Add(300*24*time.Hour))
	repo.On("Get", mock.Anything, "user-1").Return(acc, nil)

	u := newAccountUsecase(repo, platform)
	account, err := u.EnsureValid(context.Background(), "user-1")

	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "act.old", account.AccessToken)
	platform.AssertNotCalled(t, "RefreshToken", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

// An expired refresh token kills the binding outright.
func TestEnsureValid_RefreshExpiredDeletesBinding(t *testing.T) {
	repo := new(MockTikTokAccountRepo)
	platform := new(MockTikTokPlatform)
	acc := storedAccount(testNow.Add(-time.Hour), testNow.Add(-time.Minute))
	repo.On("Get", mock.Anything, "user-1").Return(acc, nil)
	repo.On("Delete", mock.Anything, "user-1").Return(nil).Once()

	u := newAccountUsecase(repo, platform)
	account, err := u.EnsureValid(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Nil(t, account)
	repo.AssertExpectations(t)
	platform.AssertNotCalled(t, "RefreshToken", mock.Anything, mock.Anything)
}

// A refresh failure must fail open: stale record back, nothing persisted.
func TestEnsureValid_FailOpenOnRefreshError(t *testing.T) {
	repo := new(MockTikTokAccountRepo)
	platform := new(MockTikTokPlatform)
	acc := storedAccount(testNow.Add(-time.Hour), testNow.Add(300*24*time.Hour))
	repo.On("Get", mock.Anything, "user-1").Return(acc, nil)
	platform.On("RefreshToken", mock.Anything, "rft.old").Return(nil, errors.New("upstream 500")).Once()

	u := newAccountUsecase(repo, platform)
	account, err := u.EnsureValid(context.Background(), "user-1")

	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "act.old", account.AccessToken)
	assert.Equal(t, "rft.old", account.RefreshToken)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

// TikTok may omit refresh_token and the ttl fields from a refresh grant;
// the previous values carry over.
func TestEnsureValid_PartialRefreshResponseRetainsPrevious(t *testing.T) {
	repo := new(MockTikTokAccountRepo)
	platform := new(MockTikTokPlatform)
	acc := storedAccount(testNow.Add(-time.Hour), testNow.Add(300*24*time.Hour))
	repo.On("Get", mock.Anything, "user-1").Return(acc, nil)
	platform.On("RefreshToken", mock.Anything, "rft.old").Return(&dto.TikTokTokenResponse{
		AccessToken: "act.new",
	}, nil).Once()
	repo.On("Upsert", mock.Anything, mock.AnythingOfType("*model.TikTokAccount")).Return(nil).Once()

	u := newAccountUsecase(repo, platform)
	account, err := u.EnsureValid(context.Background(), "user-1")

	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "act.new", account.AccessToken)
	assert.Equal(t, "rft.old", account.RefreshToken)
	assert.Equal(t, acc.ExpiresAt, account.ExpiresAt)
	assert.Equal(t, acc.RefreshExpiresAt, account.RefreshExpiresAt)
}

// A persist failure after a successful refresh also fails open.
func TestEnsureValid_FailOpenOnPersistError(t *testing.T) {
	repo := new(MockTikTokAccountRepo)
	platform := new(MockTikTokPlatform)
	acc := storedAccount(testNow.Add(-time.Hour), testNow.Add(300*24*time.Hour))
	repo.On("Get", mock.Anything, "user-1").Return(acc, nil)
	platform.On("RefreshToken", mock.Anything, "rft.old").Return(&dto.TikTokTokenResponse{
		AccessToken:  "act.new",
		RefreshToken: "rft.new",
	}, nil).Once()
	repo.On("Upsert", mock.Anything, mock.AnythingOfType("*model.TikTokAccount")).Return(errors.New("db down")).Once()

	u := newAccountUsecase(repo, platform)
	account, err := u.EnsureValid(context.Background(), "user-1")

	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "act.old", account.AccessToken)
}

func TestEnsureProfile_CheapPathSkipsFetch(t *testing.T) {
	repo := new(MockTikTokAccountRepo)
	platform := new(MockTikTokPlatform)
	displayName := "Creator One"
	acc := storedAccount(testNow.Add(time.Hour), testNow.Add(300*24*time.Hour))
	acc.DisplayName = &displayName

	u := newAccountUsecase(repo, platform)
	got := u.EnsureProfile(context.Background(), acc)

	assert.Same(t, acc, got)
	platform.AssertNotCalled(t, "GetUserInfo", mock.Anything, mock.Anything)
}

func TestEnsureProfile_FetchesAndPersists(t *testing.T) {
	repo := new(MockTikTokAccountRepo)
	platform := new(MockTikTokPlatform)
	acc := storedAccount(testNow.Add(time.Hour), testNow.Add(300*24*time.Hour))
	platform.On("GetUserInfo", mock.Anything, "act.old").Return(&dto.TikTokUserInfo{
		OpenID:        "open-1",
		DisplayName:   "Creator One",
		Username:      "creator.one",
		AvatarURL:     "https://cdn/avatar.jpg",
		FollowerCount: 1204,
	}, nil).Once()
	repo.On("Upsert", mock.Anything, mock.AnythingOfType("*model.TikTokAccount")).Return(nil).Once()

	u := newAccountUsecase(repo, platform)
	got := u.EnsureProfile(context.Background(), acc)

	require.NotNil(t, got)
	require.NotNil(t, got.DisplayName)
	assert.Equal(t, "Creator One", *got.DisplayName)
	require.NotNil(t, got.Handle)
	assert.Equal(t, "creator.one", *got.Handle)
	require.NotNil(t, got.FollowerCount)
	assert.Equal(t, int64(1204), *got.FollowerCount)
	require.NotNil(t, got.LastSyncedAt)
	repo.AssertExpectations(t)
}

// A failed profile fetch is non-fatal.
func TestEnsureProfile_FetchFailureReturnsUnchanged(t *testing.T) {
	repo := new(MockTikTokAccountRepo)
	platform := new(MockTikTokPlatform)
	acc := storedAccount(testNow.Add(time.Hour), testNow.Add(300*24*time.Hour))
	platform.On("GetUserInfo", mock.Anything, "act.old").Return(nil, errors.New("upstream 500")).Once()

	u := newAccountUsecase(repo, platform)
	got := u.EnsureProfile(context.Background(), acc)

	assert.Same(t, acc, got)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestCreatorInfo_CacheHitSkipsPlatform(t *testing.T) {
	repo := new(MockTikTokAccountRepo)
	platform := new(MockTikTokPlatform)
	infoCache := new(MockCreatorInfoCache)
	cached := &dto.TikTokCreatorInfo{CreatorCanPost: true}
	infoCache.On("Get", mock.Anything, "user-1").Return(cached, nil).Once()

	u := NewTikTokAccountUsecase(repo, platform, infoCache)
	acc := storedAccount(testNow.Add(time.Hour), testNow.Add(300*24*time.Hour))
	info, err := u.CreatorInfo(context.Background(), acc)

	require.NoError(t, err)
	assert.Same(t, cached, info)
	platform.AssertNotCalled(t, "GetCreatorInfo", mock.Anything, mock.Anything)
}

func TestCreatorInfo_CacheMissFetchesAndStores(t *testing.T) {
	repo := new(MockTikTokAccountRepo)
	platform := new(MockTikTokPlatform)
	infoCache := new(MockCreatorInfoCache)
	fetched := &dto.TikTokCreatorInfo{CreatorCanPost: true, MaxVideoPostDurationSec: 600}
	infoCache.On("Get", mock.Anything, "user-1").Return(nil, nil).Once()
	platform.On("GetCreatorInfo", mock.Anything, "act.old").Return(fetched, nil).Once()
	infoCache.On("Set", mock.Anything, "user-1", fetched, creatorInfoTTL).Return(nil).Once()

	u := NewTikTokAccountUsecase(repo, platform, infoCache)
	acc := storedAccount(testNow.Add(time.Hour), testNow.Add(300*24*time.Hour))
	info, err := u.CreatorInfo(context.Background(), acc)

	require.NoError(t, err)
	assert.Same(t, fetched, info)
	infoCache.AssertExpectations(t)
}

package usecase

import (
	"context"
	"sync"
	"time"

	"creator-hub/domain/dto"
	"creator-hub/domain/model"
	"creator-hub/domain/repository"
	"creator-hub/infrastructure/logger"
)

const creatorInfoTTL = 2 * time.Minute

// Fallback lifetimes when TikTok omits the ttl fields on a code exchange.
const (
	defaultAccessTokenTTL  = 24 * time.Hour
	defaultRefreshTokenTTL = 30 * 24 * time.Hour
)

type ITikTokAccountUsecase interface {
	// Connect exchanges an OAuth code and persists the resulting binding.
	Connect(ctx context.Context, userID string, code string) (*model.TikTokAccount, error)
	// EnsureValid returns a usable account or nil when the user has no
	// (recoverable) binding. A failed refresh returns the stale record.
	EnsureValid(ctx context.Context, userID string) (*model.TikTokAccount, error)
	// EnsureProfile backfills the denormalized profile summary when absent.
	EnsureProfile(ctx context.Context, account *model.TikTokAccount) *model.TikTokAccount
	// CreatorInfo runs the publish preflight, cached for a short TTL.
	CreatorInfo(ctx context.Context, account *model.TikTokAccount) (*dto.TikTokCreatorInfo, error)
	Disconnect(ctx context.Context, userID string) error
}

type TikTokAccountUsecase struct {
	accountRepo repository.ITikTokAccount
	platform    repository.ITikTokPlatform
	creatorInfo repository.ICreatorInfoCache
	now         func() time.Time

	refreshMu sync.Mutex
	refreshes map[string]*sync.Mutex
}

func NewTikTokAccountUsecase(
	accountRepo repository.ITikTokAccount,
	platform repository.ITikTokPlatform,
	creatorInfo repository.ICreatorInfoCache,
) ITikTokAccountUsecase {
	return &TikTokAccountUsecase{
		accountRepo: accountRepo,
		platform:    platform,
		creatorInfo: creatorInfo,
		now:         func() time.Time { return time.Now().UTC() },
		refreshes:   map[string]*sync.Mutex{},
	}
}

// userLock returns the per-user mutex serializing refresh-and-persist, so
// concurrent requests from the same user don't race token rotation.
func (u *TikTokAccountUsecase) userLock(userID string) *sync.Mutex {
	u.refreshMu.Lock()
	defer u.refreshMu.Unlock()
	lock, ok := u.refreshes[userID]
	if !ok {
		lock = &sync.Mutex{}
		u.refreshes[userID] = lock
	}
	return lock
}

func (u *TikTokAccountUsecase) Connect(ctx context.Context, userID string, code string) (*model.TikTokAccount, error) {
	tok, err := u.platform.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	now := u.now()
	account := &model.TikTokAccount{
		UserID:           userID,
		OpenID:           tok.OpenID,
		AccessToken:      tok.AccessToken,
		RefreshToken:     tok.RefreshToken,
		Scope:            tok.Scope,
		ExpiresAt:        now.Add(defaultAccessTokenTTL),
		RefreshExpiresAt: now.Add(defaultRefreshTokenTTL),
	}
	if tok.ExpiresIn > 0 {
		account.ExpiresAt = now.Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	if tok.RefreshExpiresIn > 0 {
		account.RefreshExpiresAt = now.Add(time.Duration(tok.RefreshExpiresIn) * time.Second)
	}
	if err := u.accountRepo.Upsert(ctx, account); err != nil {
		return nil, err
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"user_id": userID,
		"open_id": account.OpenID,
	}).Info("TikTok account connected")
	return account, nil
}

func (u *TikTokAccountUsecase) EnsureValid(ctx context.Context, userID string) (*model.TikTokAccount, error) {
	account, err := u.accountRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}

	now := u.now()
	if account.RefreshExpired(now) {
		// The binding cannot be recovered without a new OAuth flow.
		if err := u.accountRepo.Delete(ctx, userID); err != nil {
			logger.GetLogger().WithField("error", err).Error("Failed deleting expired TikTok binding")
		}
		return nil, nil
	}
	if account.AccessValid(now) {
		return account, nil
	}

	lock := u.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	// Another request may have rotated the tokens while we waited.
	account, err = u.accountRepo.Get(ctx, userID)
	if err != nil || account == nil {
		return account, err
	}
	now = u.now()
	if account.AccessValid(now) {
		return account, nil
	}

	if account.RefreshToken == "" {
		logger.GetLogger().WithField("user_id", userID).Error("TikTok access token expired without refresh token")
		return account, nil
	}

	tok, err := u.platform.RefreshToken(ctx, account.RefreshToken)
	if err != nil {
		// Fail open: the caller gets the stale record and TikTok's own
		// 401 surfaces downstream.
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":   err,
			"user_id": userID,
		}).Error("TikTok token refresh failed")
		return account, nil
	}

	updated := *account
	if tok.AccessToken != "" {
		updated.AccessToken = tok.AccessToken
	}
	if tok.RefreshToken != "" {
		updated.RefreshToken = tok.RefreshToken
	} else {
		logger.GetLogger().WithField("user_id", userID).Warn("TikTok refresh response omitted refresh_token, retaining previous")
	}
	if tok.Scope != "" {
		updated.Scope = tok.Scope
	}
	if tok.OpenID != "" {
		updated.OpenID = tok.OpenID
	}
	// Omitted ttl fields leave the previous expiries untouched.
	if tok.ExpiresIn > 0 {
		updated.ExpiresAt = now.Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	if tok.RefreshExpiresIn > 0 {
		updated.RefreshExpiresAt = now.Add(time.Duration(tok.RefreshExpiresIn) * time.Second)
	}

	if err := u.accountRepo.Upsert(ctx, &updated); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":   err,
			"user_id": userID,
		}).Error("Failed persisting refreshed TikTok tokens")
		return account, nil
	}
	return &updated, nil
}

func (u *TikTokAccountUsecase) EnsureProfile(ctx context.Context, account *model.TikTokAccount) *model.TikTokAccount {
	if account == nil {
		return nil
	}
	if (account.DisplayName != nil && *account.DisplayName != "") ||
		(account.Handle != nil && *account.Handle != "") {
		return account
	}

	info, err := u.platform.GetUserInfo(ctx, account.AccessToken)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("TikTok user info fetch failed")
		return account
	}

	now := u.now()
	updated := *account
	if info.DisplayName != "" {
		updated.DisplayName = &info.DisplayName
	}
	if info.Username != "" {
		updated.Handle = &info.Username
	} else if info.DisplayName != "" {
		updated.Handle = &info.DisplayName
	}
	if info.AvatarURL != "" {
		updated.AvatarURL = &info.AvatarURL
	}
	if info.FollowerCount > 0 {
		updated.FollowerCount = &info.FollowerCount
	}
	if info.OpenID != "" {
		updated.OpenID = info.OpenID
	}
	updated.LastSyncedAt = &now

	if err := u.accountRepo.Upsert(ctx, &updated); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed persisting TikTok profile summary")
		return account
	}
	return &updated
}

func (u *TikTokAccountUsecase) CreatorInfo(ctx context.Context, account *model.TikTokAccount) (*dto.TikTokCreatorInfo, error) {
	if u.creatorInfo != nil {
		if cached, err := u.creatorInfo.Get(ctx, account.UserID); err == nil && cached != nil {
			return cached, nil
		}
	}
	info, err := u.platform.GetCreatorInfo(ctx, account.AccessToken)
	if err != nil {
		return nil, err
	}
	if u.creatorInfo != nil {
		_ = u.creatorInfo.Set(ctx, account.UserID, info, creatorInfoTTL)
	}
	return info, nil
}

func (u *TikTokAccountUsecase) Disconnect(ctx context.Context, userID string) error {
	return u.accountRepo.Delete(ctx, userID)
}

package repository

import (
	"context"
	"time"

	"creator-hub/domain/dto"
	"creator-hub/domain/model"
)

// ITikTokAccount is the durable store of one TikTokAccount per user.
type ITikTokAccount interface {
	// Get returns (nil, nil) when no binding exists.
	Get(ctx context.Context, userID string) (*model.TikTokAccount, error)
	// Upsert merges the record into the store, creating it if absent,
	// and always bumps updated_at.
	Upsert(ctx context.Context, account *model.TikTokAccount) error
	// Delete is idempotent; removing a missing record is not an error.
	Delete(ctx context.Context, userID string) error
}

// ITikTokPlatform is the TikTok Open API surface this service consumes.
type ITikTokPlatform interface {
	ExchangeCode(ctx context.Context, code string) (*dto.TikTokTokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TikTokTokenResponse, error)
	GetUserInfo(ctx context.Context, accessToken string) (*dto.TikTokUserInfo, error)
	GetCreatorInfo(ctx context.Context, accessToken string) (*dto.TikTokCreatorInfo, error)
}

// ICreatorInfoCache keeps creator-info preflight responses for a short TTL
// so repeated publish-page loads don't each hit TikTok.
type ICreatorInfoCache interface {
	Get(ctx context.Context, userID string) (*dto.TikTokCreatorInfo, error)
	Set(ctx context.Context, userID string, info *dto.TikTokCreatorInfo, ttl time.Duration) error
}

// PublishEvent is emitted when a publish item reaches a terminal state.
type PublishEvent struct {
	UserID    string             `json:"user_id"`
	ItemID    string             `json:"item_id"`
	PublishID string             `json:"publish_id"`
	State     model.PublishState `json:"state"`
	Detail    string             `json:"detail,omitempty"`
}

// IPublishEvents fans terminal publish states out to an external channel
// (Pub/Sub, Service Bus). Implementations must tolerate being optional.
type IPublishEvents interface {
	Publish(ctx context.Context, event *PublishEvent) error
}

package model

import "time"

// TikTokAccount stores the OAuth credential bundle and the denormalized
// profile summary for one user's TikTok connection. There is at most one
// row per user; the record is deleted outright once the refresh token has
// expired because the binding cannot be recovered without a new OAuth flow.
type TikTokAccount struct {
	ID               int64      `json:"id"`
	UserID           string     `json:"user_id"`
	OpenID           string     `json:"open_id"`
	AccessToken      string     `json:"access_token"`
	RefreshToken     string     `json:"refresh_token"`
	Scope            string     `json:"scope"`
	ExpiresAt        time.Time  `json:"expires_at"`
	RefreshExpiresAt time.Time  `json:"refresh_expires_at"`
	DisplayName      *string    `json:"display_name,omitempty"`
	Handle           *string    `json:"handle,omitempty"`
	AvatarURL        *string    `json:"avatar_url,omitempty"`
	FollowerCount    *int64     `json:"follower_count,omitempty"`
	LastSyncedAt     *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// AccessValid reports whether the access token is still usable at now.
func (a *TikTokAccount) AccessValid(now time.Time) bool {
	return a.ExpiresAt.After(now)
}

// RefreshExpired reports whether the refresh token is past its expiry,
// which makes the whole credential unusable.
func (a *TikTokAccount) RefreshExpired(now time.Time) bool {
	return !a.RefreshExpiresAt.After(now)
}

// PublishState is the lifecycle state of one video submitted to TikTok.
type PublishState string

const (
	PublishStateSubmitting PublishState = "submitting"
	PublishStateTracking   PublishState = "tracking"
	PublishStateSucceeded  PublishState = "succeeded"
	PublishStateFailed     PublishState = "failed"
)

// Terminal reports whether no further transition can occur.
func (s PublishState) Terminal() bool {
	return s == PublishStateSucceeded || s == PublishStateFailed
}

// PublishItem tracks one media asset through dispatch and status polling.
// Items live only for the duration of the owning request/stream; they are
// never persisted.
type PublishItem struct {
	ID        string       `json:"id"`
	SourceURL string       `json:"source_url"`
	Title     string       `json:"title"`
	PublishID string       `json:"publish_id,omitempty"`
	State     PublishState `json:"state"`
	Detail    string       `json:"detail,omitempty"`
}

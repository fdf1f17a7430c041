package dto

// TikTokTokenRequest is the form-encoded body of the refresh grant against
// /v2/oauth/token/. Encoded with go-querystring; TikTok uses client_key in
// place of the usual client_id.
type TikTokTokenRequest struct {
	ClientKey    string `url:"client_key"`
	ClientSecret string `url:"client_secret"`
	GrantType    string `url:"grant_type"`
	Code         string `url:"code,omitempty"`
	RedirectURI  string `url:"redirect_uri,omitempty"`
	RefreshToken string `url:"refresh_token,omitempty"`
}

// TikTokTokenResponse covers both the authorization_code and refresh_token
// grants. TikTok reports errors in-band with a 200 on some failure modes,
// so Error must be checked alongside the HTTP status.
type TikTokTokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	OpenID           string `json:"open_id"`
	Scope            string `json:"scope"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// TikTokUserInfoFields is the query string of the user-info call.
type TikTokUserInfoFields struct {
	Fields string `url:"fields"`
}

// TikTokUserInfo is the strict projection of /v2/user/info/. The platform
// has shipped both snake_case and camelCase variants of these fields; the
// client maps either onto this one shape at the boundary.
type TikTokUserInfo struct {
	OpenID        string `json:"open_id"`
	DisplayName   string `json:"display_name"`
	Username      string `json:"username"`
	AvatarURL     string `json:"avatar_url"`
	FollowerCount int64  `json:"follower_count"`
}

// TikTokCreatorInfo is the publish preflight returned by
// /v2/post/publish/creator_info/query/.
type TikTokCreatorInfo struct {
	CreatorAvatarURL        string   `json:"creator_avatar_url,omitempty"`
	CreatorUsername         string   `json:"creator_username,omitempty"`
	CreatorNickname         string   `json:"creator_nickname,omitempty"`
	CreatorCanPost          bool     `json:"creator_can_post"`
	MaxVideoPostDurationSec int64    `json:"max_video_post_duration_sec"`
	CommentDisabled         bool     `json:"comment_disabled"`
	DuetDisabled            bool     `json:"duet_disabled"`
	StitchDisabled          bool     `json:"stitch_disabled"`
	PrivacyLevelOptions     []string `json:"privacy_level_options"`
}

// UploadRequest is the batched submission sent to the video API, which
// performs the actual init/transfer/complete dance against TikTok.
type UploadRequest struct {
	AccessToken string        `json:"access_token"`
	Videos      []UploadVideo `json:"videos"`
}

type UploadVideo struct {
	ID       string `json:"id"`
	VideoURL string `json:"videoUrl"`
	Title    string `json:"title"`
}

// UploadResult is one per-item outcome of the batched upload call.
type UploadResult struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"` // "ok" | "error"
	PublishID     string          `json:"publish_id,omitempty"`
	PublishStatus *PublishPayload `json:"publish_status,omitempty"`
	Error         *UpstreamError  `json:"error,omitempty"`
}

type UploadResponse struct {
	Results []UploadResult `json:"results"`
}

// PublishStatusRequest is the batched status query for in-flight publishes.
type PublishStatusRequest struct {
	AccessToken string   `json:"access_token"`
	PublishIDs  []string `json:"publish_ids"`
}

// PublishStatusResult carries TikTok's raw status envelope for one handle.
type PublishStatusResult struct {
	PublishID string          `json:"publish_id"`
	Status    string          `json:"status"` // "ok" | "error"
	Payload   *PublishPayload `json:"payload,omitempty"`
	Error     *UpstreamError  `json:"error,omitempty"`
}

type PublishStatusResponse struct {
	Results []PublishStatusResult `json:"results"`
}

// PublishPayload wraps TikTok's {data: {status, fail_reason}} envelope.
type PublishPayload struct {
	Data PublishPayloadData `json:"data"`
}

type PublishPayloadData struct {
	Status     string `json:"status"`
	FailReason string `json:"fail_reason,omitempty"`
}

// UpstreamError is the loose error object both collaborators return.
type UpstreamError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// PublishRequest is the body of POST /api/tiktok/publish.
type PublishRequest struct {
	Videos []PublishRequestVideo `json:"videos" binding:"required"`
}

type PublishRequestVideo struct {
	ID       string   `json:"id" binding:"required"`
	VideoURL string   `json:"video_url" binding:"required"`
	Title    string   `json:"title"`
	Tags     []string `json:"tags"`
}

// PollRequest is the body of POST /api/tiktok/publish-status.
type PollRequest struct {
	PublishIDs []string `json:"publish_ids" binding:"required"`
}

// TikTokAccountResponse is the connection summary returned to the portal.
// Tokens never leave the service.
type TikTokAccountResponse struct {
	Connected        bool    `json:"connected"`
	OpenID           string  `json:"open_id,omitempty"`
	DisplayName      *string `json:"display_name,omitempty"`
	Handle           *string `json:"handle,omitempty"`
	AvatarURL        *string `json:"avatar_url,omitempty"`
	FollowerCount    *int64  `json:"follower_count,omitempty"`
	Scope            string  `json:"scope,omitempty"`
	ExpiresAt        string  `json:"expires_at,omitempty"`
	RefreshExpiresAt string  `json:"refresh_expires_at,omitempty"`
	LastSyncedAt     string  `json:"last_synced_at,omitempty"`
}

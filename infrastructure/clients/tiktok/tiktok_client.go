package tiktok

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"creator-hub/domain/dto"
	"creator-hub/domain/repository"
	"creator-hub/infrastructure/logger"
)

// UserInfoFields is the field list requested from /v2/user/info/.
const UserInfoFields = "open_id,avatar_url,display_name,follower_count"

// Client talks to the TikTok Open API directly. The upload/status relay
// lives in the video API client; this one covers OAuth and profile reads.
type Client struct {
	apiBase      string
	clientKey    string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client
}

func NewClient(apiBase, clientKey, clientSecret, redirectURI string) repository.ITikTokPlatform {
	return &Client{
		apiBase:      strings.TrimRight(apiBase, "/"),
		clientKey:    clientKey,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) ExchangeCode(ctx context.Context, code string) (*dto.TikTokTokenResponse, error) {
	return c.token(ctx, dto.TikTokTokenRequest{
		ClientKey:    c.clientKey,
		ClientSecret: c.clientSecret,
		GrantType:    "authorization_code",
		Code:         code,
		RedirectURI:  c.redirectURI,
	})
}

func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*dto.TikTokTokenResponse, error) {
	return c.token(ctx, dto.TikTokTokenRequest{
		ClientKey:    c.clientKey,
		ClientSecret: c.clientSecret,
		GrantType:    "refresh_token",
		RefreshToken: refreshToken,
	})
}

func (c *Client) token(ctx context.Context, form dto.TikTokTokenRequest) (*dto.TikTokTokenResponse, error) {
	values, err := query.Values(form)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/v2/oauth/token/", strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	var tok dto.TikTokTokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("tiktok token response parse: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		logger.GetLogger().WithFields(map[string]interface{}{
			"status": resp.StatusCode,
			"body":   string(body),
		}).Error("tiktok token request failed")
		return nil, fmt.Errorf("tiktok token request failed: status %d", resp.StatusCode)
	}
	// TikTok reports some grant failures in-band with HTTP 200.
	if tok.Error != "" {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":       tok.Error,
			"description": tok.ErrorDescription,
		}).Error("tiktok token grant rejected")
		return nil, fmt.Errorf("tiktok token grant rejected: %s", tok.Error)
	}
	return &tok, nil
}

func (c *Client) GetUserInfo(ctx context.Context, accessToken string) (*dto.TikTokUserInfo, error) {
	values, err := query.Values(dto.TikTokUserInfoFields{Fields: UserInfoFields})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/v2/user/info/?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		logger.GetLogger().WithFields(map[string]interface{}{
			"status": resp.StatusCode,
			"body":   string(body),
		}).Error("tiktok user info request failed")
		return nil, fmt.Errorf("tiktok user info request failed: status %d", resp.StatusCode)
	}

	// Envelope: {"data": {"user": {...}}, "error": {...}}
	var envelope struct {
		Data struct {
			User dto.TikTokUserInfo `json:"user"`
		} `json:"data"`
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("tiktok user info parse: %w", err)
	}
	if envelope.Error.Code != "" && envelope.Error.Code != "ok" {
		return nil, fmt.Errorf("tiktok user info error: %s", envelope.Error.Code)
	}
	return &envelope.Data.User, nil
}

func (c *Client) GetCreatorInfo(ctx context.Context, accessToken string) (*dto.TikTokCreatorInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/v2/post/publish/creator_info/query/", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		logger.GetLogger().WithFields(map[string]interface{}{
			"status": resp.StatusCode,
			"body":   string(body),
		}).Error("tiktok creator info request failed")
		return nil, fmt.Errorf("tiktok creator info request failed: status %d", resp.StatusCode)
	}

	var envelope struct {
		Data  dto.TikTokCreatorInfo `json:"data"`
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("tiktok creator info parse: %w", err)
	}
	if envelope.Error.Code != "" && envelope.Error.Code != "ok" {
		return nil, fmt.Errorf("tiktok creator info error: %s", envelope.Error.Code)
	}
	return &envelope.Data, nil
}

package http

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"creator-hub/domain/dto"
	"creator-hub/infrastructure/configuration"
	"creator-hub/infrastructure/logger"
	"creator-hub/usecase"
)

const tiktokAuthorizeURL = "https://www.tiktok.com/v2/auth/authorize/"

// States expire after ten minutes; long enough for the consent screen,
// short enough that a leaked state is useless.
const stateTTL = 10 * time.Minute

type ITikTokAuthHandler interface {
	GetAuthURL(c *gin.Context)
	Callback(c *gin.Context)
}

type stateEntry struct {
	userID    string
	expiresAt time.Time
}

type TikTokAuthHandler struct {
	accountUsecase usecase.ITikTokAccountUsecase

	mu     sync.Mutex
	states map[string]stateEntry
}

func NewTikTokAuthHandler(accountUsecase usecase.ITikTokAccountUsecase) ITikTokAuthHandler {
	return &TikTokAuthHandler{
		accountUsecase: accountUsecase,
		states:         make(map[string]stateEntry),
	}
}

// GetAuthURL starts the OAuth consent flow by redirecting to TikTok with a
// one-time state bound to the requesting user.
func (h *TikTokAuthHandler) GetAuthURL(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		userID = c.Query("user_id")
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: "user_id is required"})
		return
	}

	state, err := randomState()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed generating OAuth state")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Internal server error"})
		return
	}
	h.storeState(state, userID)

	values := url.Values{}
	values.Set("client_key", configuration.C.TikTok.ClientKey)
	values.Set("scope", strings.Join(configuration.C.TikTok.Scopes, ","))
	values.Set("response_type", "code")
	values.Set("redirect_uri", configuration.C.TikTok.RedirectURI)
	values.Set("state", state)

	c.Redirect(http.StatusTemporaryRedirect, tiktokAuthorizeURL+"?"+values.Encode())
}

// Callback completes the flow: it validates the state, exchanges the code
// and persists the account binding.
func (h *TikTokAuthHandler) Callback(c *gin.Context) {
	if errCode := c.Query("error"); errCode != "" {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":       errCode,
			"description": c.Query("error_description"),
		}).Warn("TikTok consent denied")
		c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: "TikTok authorization was denied"})
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: "Missing code or state"})
		return
	}

	userID, ok := h.popState(state)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: "Invalid or expired state"})
		return
	}

	account, err := h.accountUsecase.Connect(c.Request.Context(), userID, code)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":   err,
			"user_id": userID,
		}).Error("TikTok code exchange failed")
		c.JSON(http.StatusBadGateway, dto.Res{ResponseCode: "502", ResponseMessage: "TikTok authorization failed"})
		return
	}
	// Best effort; the summary backfills on the next account read anyway.
	account = h.accountUsecase.EnsureProfile(c.Request.Context(), account)

	c.JSON(http.StatusOK, dto.Res{
		ResponseCode:    "200",
		ResponseMessage: "Success",
		Data:            accountResponse(account),
	})
}

func (h *TikTokAuthHandler) storeState(state string, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := time.Now()
	for s, entry := range h.states {
		if entry.expiresAt.Before(now) {
			delete(h.states, s)
		}
	}
	h.states[state] = stateEntry{userID: userID, expiresAt: now.Add(stateTTL)}
}

func (h *TikTokAuthHandler) popState(state string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	entry, ok := h.states[state]
	if !ok {
		return "", false
	}
	delete(h.states, state)
	if entry.expiresAt.Before(time.Now()) {
		return "", false
	}
	return entry.userID, true
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"creator-hub/domain/dto"
	"creator-hub/domain/model"
	"creator-hub/infrastructure/logger"
	"creator-hub/usecase"
)

type ITikTokAccountHandler interface {
	Status(c *gin.Context)
	Disconnect(c *gin.Context)
	CreatorInfo(c *gin.Context)
}

type TikTokAccountHandler struct {
	accountUsecase usecase.ITikTokAccountUsecase
}

func NewTikTokAccountHandler(accountUsecase usecase.ITikTokAccountUsecase) ITikTokAccountHandler {
	return &TikTokAccountHandler{accountUsecase: accountUsecase}
}

// Status reports the connection summary. Reading the status is also what
// keeps the binding fresh: tokens rotate and the profile backfills here.
func (h *TikTokAccountHandler) Status(c *gin.Context) {
	userID := c.GetString("user_id")

	account, err := h.accountUsecase.EnsureValid(c.Request.Context(), userID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed loading TikTok account")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Internal server error"})
		return
	}
	account = h.accountUsecase.EnsureProfile(c.Request.Context(), account)

	c.JSON(http.StatusOK, dto.Res{
		ResponseCode:    "200",
		ResponseMessage: "Success",
		Data:            accountResponse(account),
	})
}

func (h *TikTokAccountHandler) Disconnect(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := h.accountUsecase.Disconnect(c.Request.Context(), userID); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed disconnecting TikTok account")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Success"})
}

// CreatorInfo runs TikTok's publish preflight for the connected account.
func (h *TikTokAccountHandler) CreatorInfo(c *gin.Context) {
	userID := c.GetString("user_id")

	account, err := h.accountUsecase.EnsureValid(c.Request.Context(), userID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed loading TikTok account")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Internal server error"})
		return
	}
	if account == nil {
		c.JSON(http.StatusConflict, dto.Res{ResponseCode: "409", ResponseMessage: "TikTok account not connected"})
		return
	}

	info, err := h.accountUsecase.CreatorInfo(c.Request.Context(), account)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("TikTok creator info query failed")
		c.JSON(http.StatusBadGateway, dto.Res{ResponseCode: "502", ResponseMessage: "TikTok creator info unavailable"})
		return
	}

	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Success", Data: info})
}

// accountResponse maps the stored binding onto the portal-facing summary.
// Tokens stay server-side.
func accountResponse(account *model.TikTokAccount) dto.TikTokAccountResponse {
	if account == nil {
		return dto.TikTokAccountResponse{Connected: false}
	}
	res := dto.TikTokAccountResponse{
		Connected:        true,
		OpenID:           account.OpenID,
		DisplayName:      account.DisplayName,
		Handle:           account.Handle,
		AvatarURL:        account.AvatarURL,
		FollowerCount:    account.FollowerCount,
		Scope:            account.Scope,
		ExpiresAt:        account.ExpiresAt.Format(time.RFC3339),
		RefreshExpiresAt: account.RefreshExpiresAt.Format(time.RFC3339),
	}
	if account.LastSyncedAt != nil {
		res.LastSyncedAt = account.LastSyncedAt.Format(time.RFC3339)
	}
	return res
}

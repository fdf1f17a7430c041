package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"creator-hub/domain/dto"
	"creator-hub/domain/model"
	"creator-hub/infrastructure/logger"
	"creator-hub/infrastructure/realtime"
	"creator-hub/usecase"
)

// Tracking a slow publish can outlive the request by a while.
const publishTrackingTimeout = 10 * time.Minute

type IPublishHandler interface {
	Publish(c *gin.Context)
	PublishStatus(c *gin.Context)
}

type PublishHandler struct {
	accountUsecase usecase.ITikTokAccountUsecase
	publishUsecase usecase.IPublishUsecase
	hub            *realtime.Hub
}

func NewPublishHandler(
	accountUsecase usecase.ITikTokAccountUsecase,
	publishUsecase usecase.IPublishUsecase,
	hub *realtime.Hub,
) IPublishHandler {
	return &PublishHandler{
		accountUsecase: accountUsecase,
		publishUsecase: publishUsecase,
		hub:            hub,
	}
}

// Publish submits the selected videos to TikTok and keeps tracking them in
// the background, streaming transitions over the SSE hub.
func (h *PublishHandler) Publish(c *gin.Context) {
	var req dto.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, fmt.Sprintf("%s %v", ErrorUnmarshal, err.Error()))
		return
	}
	if len(req.Videos) == 0 {
		c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: "No videos selected"})
		return
	}

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

	items := make([]model.PublishItem, 0, len(req.Videos))
	for _, video := range req.Videos {
		title := video.Title
		if title == "" {
			title = usecase.DefaultTitle(video.Tags)
		}
		items = append(items, model.PublishItem{
			ID:        video.ID,
			SourceURL: video.VideoURL,
			Title:     title,
		})
	}

	items = h.publishUsecase.Dispatch(c.Request.Context(), account, items)
	for i := range items {
		if h.hub != nil {
			h.hub.BroadcastPublishStatus(userID, &items[i])
		}
	}

	if h.hasTracking(items) {
		go h.track(account, items)
	}

	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Success", Data: items})
}

// PublishStatus answers a one-shot status query for in-flight handles.
func (h *PublishHandler) PublishStatus(c *gin.Context) {
	var req dto.PollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, fmt.Sprintf("%s %v", ErrorUnmarshal, err.Error()))
		return
	}

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

	results, err := h.publishUsecase.PollOnce(c.Request.Context(), account, req.PublishIDs)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Publish status query failed")
		c.JSON(http.StatusBadGateway, dto.Res{ResponseCode: "502", ResponseMessage: "TikTok publish status unavailable"})
		return
	}

	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Success", Data: results})
}

func (h *PublishHandler) hasTracking(items []model.PublishItem) bool {
	for i := range items {
		if items[i].State == model.PublishStateTracking && items[i].PublishID != "" {
			return true
		}
	}
	return false
}

func (h *PublishHandler) track(account *model.TikTokAccount, items []model.PublishItem) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTrackingTimeout)
	defer cancel()

	h.publishUsecase.Poll(ctx, account, items, usecase.DefaultPollInterval, func(userID string, item *model.PublishItem) {
		if h.hub != nil {
			h.hub.BroadcastPublishStatus(userID, item)
		}
	})
}

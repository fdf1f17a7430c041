package http

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"creator-hub/domain/dto"
	"creator-hub/infrastructure/logger"
	"creator-hub/usecase"
)

type IAiVideoHandler interface {
	Generate(c *gin.Context)
	Library(c *gin.Context)
}

type AiVideoHandler struct {
	aiVideoUsecase usecase.IAiVideoUsecase
}

func NewAiVideoHandler(aiVideoUsecase usecase.IAiVideoUsecase) IAiVideoHandler {
	return &AiVideoHandler{aiVideoUsecase: aiVideoUsecase}
}

// Generate proxies the multipart generation request through to the video
// API. The creator defaults to the authenticated user.
func (h *AiVideoHandler) Generate(c *gin.Context) {
	req := &dto.GenerateVideoRequest{
		CreatorID: c.PostForm("creator_id"),
		Prompt:    c.PostForm("prompt"),
	}
	if req.CreatorID == "" {
		req.CreatorID = c.GetString("user_id")
	}

	if file, err := c.FormFile("voice_sample"); err == nil {
		name, data, err := readUpload(file)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Failed reading voice sample upload")
			c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: "Unreadable voice sample"})
			return
		}
		req.VoiceSampleName = name
		req.VoiceSample = data
	}
	if file, err := c.FormFile("reference_image"); err == nil {
		name, data, err := readUpload(file)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Failed reading reference image upload")
			c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: "Unreadable reference image"})
			return
		}
		req.ReferenceImageName = name
		req.ReferenceImage = data
	}

	resp, err := h.aiVideoUsecase.Generate(c.Request.Context(), req)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("AI video generation failed")
		c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Success", Data: resp})
}

// Library lists the creator's generated videos with expiry applied.
func (h *AiVideoHandler) Library(c *gin.Context) {
	creatorID := c.Query("creator_id")
	if creatorID == "" {
		creatorID = c.GetString("user_id")
	}

	videos, err := h.aiVideoUsecase.Library(c.Request.Context(), creatorID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("AI video library fetch failed")
		c.JSON(http.StatusBadGateway, dto.Res{ResponseCode: "502", ResponseMessage: "Video library unavailable"})
		return
	}

	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Success", Data: videos})
}

func readUpload(file *multipart.FileHeader) (string, []byte, error) {
	f, err := file.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}
	return file.Filename, data, nil
}

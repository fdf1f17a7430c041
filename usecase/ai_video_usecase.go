package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"creator-hub/domain/dto"
	"creator-hub/domain/model"
	"creator-hub/domain/repository"
	"creator-hub/infrastructure/logger"
)

// Generated assets stay downloadable for seven days.
const aiVideoRetention = 7 * 24 * time.Hour

type IAiVideoUsecase interface {
	Generate(ctx context.Context, req *dto.GenerateVideoRequest) (*dto.GenerateVideoResponse, error)
	Library(ctx context.Context, creatorID string) ([]model.AiVideo, error)
}

type AiVideoUsecase struct {
	videoAPI repository.IVideoAPI
	now      func() time.Time
}

func NewAiVideoUsecase(videoAPI repository.IVideoAPI) IAiVideoUsecase {
	return &AiVideoUsecase{
		videoAPI: videoAPI,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (u *AiVideoUsecase) Generate(ctx context.Context, req *dto.GenerateVideoRequest) (*dto.GenerateVideoResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("prompt is required")
	}
	if strings.TrimSpace(req.CreatorID) == "" {
		return nil, fmt.Errorf("creator_id is required")
	}
	return u.videoAPI.Generate(ctx, req)
}

func (u *AiVideoUsecase) Library(ctx context.Context, creatorID string) ([]model.AiVideo, error) {
	items, err := u.videoAPI.Library(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	videos := make([]model.AiVideo, 0, len(items))
	for _, item := range items {
		videos = append(videos, u.mapItem(item, now))
	}
	return videos, nil
}

func (u *AiVideoUsecase) mapItem(item dto.AiVideoLibraryItem, now time.Time) model.AiVideo {
	generatedAt := now
	raw := item.GeneratedTime
	if raw == "" {
		raw = item.CreatedAt
	}
	if raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			generatedAt = parsed
		} else {
			logger.GetLogger().WithFields(map[string]interface{}{
				"id":    item.ID,
				"value": raw,
			}).Warn("Unparseable generation timestamp, assuming now")
		}
	}
	expiresAt := generatedAt.Add(aiVideoRetention)

	status := model.AiVideoStatusReady
	if expiresAt.Before(now) {
		status = model.AiVideoStatusExpired
	}

	videoURL := item.VideoURL
	if videoURL == "" {
		videoURL = item.Video
	}

	return model.AiVideo{
		ID:           item.ID,
		CreatorID:    item.CreatorID,
		GeneratedAt:  generatedAt,
		ExpiresAt:    expiresAt,
		VideoURL:     videoURL,
		ThumbnailURL: item.ThumbnailURL,
		Tags:         normalizeTags(item),
		Status:       status,
	}
}

// normalizeTags absorbs the three tag shapes the backend has shipped:
// tags as an array, tag as an array, and tag as a comma-joined string.
func normalizeTags(item dto.AiVideoLibraryItem) []string {
	if len(item.Tags) > 0 {
		return item.Tags
	}
	if len(item.Tag) == 0 {
		return []string{}
	}

	var asList []string
	if err := json.Unmarshal(item.Tag, &asList); err == nil {
		return asList
	}
	var asString string
	if err := json.Unmarshal(item.Tag, &asString); err == nil {
		parts := strings.Split(asString, ",")
		tags := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				tags = append(tags, trimmed)
			}
		}
		return tags
	}
	return []string{}
}

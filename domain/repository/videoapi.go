package repository

import (
	"context"

	"creator-hub/domain/dto"
)

// IVideoAPI is the backing Python video service: AI generation jobs, the
// generated-asset library, and the TikTok upload/status relay.
type IVideoAPI interface {
	// UploadVideos submits the whole batch in a single call; per-item
	// outcomes come back in the response.
	UploadVideos(ctx context.Context, req *dto.UploadRequest) (*dto.UploadResponse, error)
	// PublishStatus queries every given handle in a single call.
	PublishStatus(ctx context.Context, req *dto.PublishStatusRequest) (*dto.PublishStatusResponse, error)
	Generate(ctx context.Context, req *dto.GenerateVideoRequest) (*dto.GenerateVideoResponse, error)
	Library(ctx context.Context, creatorID string) ([]dto.AiVideoLibraryItem, error)
}

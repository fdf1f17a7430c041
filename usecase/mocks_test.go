package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"creator-hub/domain/dto"
	"creator-hub/domain/model"
	"creator-hub/domain/repository"
)

// Mock implementations

type MockTikTokAccountRepo struct {
	mock.Mock
}

func (m *MockTikTokAccountRepo) Get(ctx context.Context, userID string) (*model.TikTokAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TikTokAccount), args.Error(1)
}

func (m *MockTikTokAccountRepo) Upsert(ctx context.Context, account *model.TikTokAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockTikTokAccountRepo) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockTikTokPlatform struct {
	mock.Mock
}

func (m *MockTikTokPlatform) ExchangeCode(ctx context.Context, code string) (*dto.TikTokTokenResponse, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TikTokTokenResponse), args.Error(1)
}

func (m *MockTikTokPlatform) RefreshToken(ctx context.Context, refreshToken string) (*dto.TikTokTokenResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TikTokTokenResponse), args.Error(1)
}

func (m *MockTikTokPlatform) GetUserInfo(ctx context.Context, accessToken string) (*dto.TikTokUserInfo, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TikTokUserInfo), args.Error(1)
}

func (m *MockTikTokPlatform) GetCreatorInfo(ctx context.Context, accessToken string) (*dto.TikTokCreatorInfo, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TikTokCreatorInfo), args.Error(1)
}

type MockCreatorInfoCache struct {
	mock.Mock
}

func (m *MockCreatorInfoCache) Get(ctx context.Context, userID string) (*dto.TikTokCreatorInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TikTokCreatorInfo), args.Error(1)
}

func (m *MockCreatorInfoCache) Set(ctx context.Context, userID string, info *dto.TikTokCreatorInfo, ttl time.Duration) error {
	args := m.Called(ctx, userID, info, ttl)
	return args.Error(0)
}

type MockVideoAPI struct {
	mock.Mock
}

func (m *MockVideoAPI) UploadVideos(ctx context.Context, req *dto.UploadRequest) (*dto.UploadResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UploadResponse), args.Error(1)
}

func (m *MockVideoAPI) PublishStatus(ctx context.Context, req *dto.PublishStatusRequest) (*dto.PublishStatusResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PublishStatusResponse), args.Error(1)
}

func (m *MockVideoAPI) Generate(ctx context.Context, req *dto.GenerateVideoRequest) (*dto.GenerateVideoResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GenerateVideoResponse), args.Error(1)
}

func (m *MockVideoAPI) Library(ctx context.Context, creatorID string) ([]dto.AiVideoLibraryItem, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.AiVideoLibraryItem), args.Error(1)
}

type MockPublishEvents struct {
	mock.Mock
}

func (m *MockPublishEvents) Publish(ctx context.Context, event *repository.PublishEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

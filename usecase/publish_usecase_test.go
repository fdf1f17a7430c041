package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"creator-hub/domain/dto"
	"creator-hub/domain/model"
	"creator-hub/domain/repository"
)

func publishAccount() *model.TikTokAccount {
	return &model.TikTokAccount{
		UserID:      "user-1",
		AccessToken: "act.token",
	}
}

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		raw      string
		state    model.PublishState
		terminal bool
	}{
		{"SUCCESS", model.PublishStateSucceeded, true},
		{"published", model.PublishStateSucceeded, true},
		{"Completed", model.PublishStateSucceeded, true},
		{"PUBLISH_COMPLETE", model.PublishStateSucceeded, true},
		{"FAILED", model.PublishStateFailed, true},
		{"failed", model.PublishStateFailed, true},
		{"PROCESSING_DOWNLOAD", model.PublishStateTracking, false},
		{"", model.PublishStateTracking, false},
		{"  success  ", model.PublishStateSucceeded, true},
	}
	for _, tc := range cases {
		state, terminal := ClassifyStatus(tc.raw)
		assert.Equal(t, tc.state, state, "raw=%q", tc.raw)
		assert.Equal(t, tc.terminal, terminal, "raw=%q", tc.raw)
	}
}

// Classifying an already-terminal status again yields the same state.
func TestClassifyStatus_Idempotent(t *testing.T) {
	for _, raw := range []string{"SUCCESS", "FAILED", "PROCESSING"} {
		first, firstTerminal := ClassifyStatus(raw)
		second, secondTerminal := ClassifyStatus(raw)
		assert.Equal(t, first, second)
		assert.Equal(t, firstTerminal, secondTerminal)
	}
}

func TestDefaultTitle(t *testing.T) {
	assert.Equal(t, "AI video - fitness", DefaultTitle([]string{"fitness", "gym"}))
	assert.Equal(t, "AI video upload", DefaultTitle(nil))
	assert.Equal(t, "AI video upload", DefaultTitle([]string{"  "}))
}

func TestDispatch_MapsPerItemResults(t *testing.T) {
	videoAPI := new(MockVideoAPI)
	videoAPI.On("UploadVideos", mock.Anything, mock.AnythingOfType("*dto.UploadRequest")).
		Return(&dto.UploadResponse{Results: []dto.UploadResult{
			{ID: "vid-1", Status: "ok", PublishID: "pub-1"},
			{ID: "vid-2", Status: "error", Error: &dto.UpstreamError{Message: "file too large"}},
			{ID: "vid-3", Status: "ok", PublishID: "pub-3", PublishStatus: &dto.PublishPayload{
				Data: dto.PublishPayloadData{Status: "PUBLISH_COMPLETE"},
			}},
		}}, nil).Once()

	u := NewPublishUsecase(videoAPI)
	items := []model.PublishItem{
		{ID: "vid-1", SourceURL: "https://cdn/1.mp4", Title: "First"},
		{ID: "vid-2", SourceURL: "https://cdn/2.mp4", Title: "Second"},
		{ID: "vid-3", SourceURL: "https://cdn/3.mp4", Title: "Third"},
	}
	out := u.Dispatch(context.Background(), publishAccount(), items)

	require.Len(t, out, 3)
	assert.Equal(t, model.PublishStateTracking, out[0].State)
	assert.Equal(t, "pub-1", out[0].PublishID)
	assert.Equal(t, model.PublishStateFailed, out[1].State)
	assert.Equal(t, "file too large", out[1].Detail)
	assert.Equal(t, model.PublishStateSucceeded, out[2].State)
}

// One transport failure fails the whole batch: no item is left in limbo.
func TestDispatch_BatchFailureFailsAllItems(t *testing.T) {
	videoAPI := new(MockVideoAPI)
	videoAPI.On("UploadVideos", mock.Anything, mock.AnythingOfType("*dto.UploadRequest")).
		Return(nil, errors.New("connection refused")).Once()

	u := NewPublishUsecase(videoAPI)
	items := []model.PublishItem{
		{ID: "vid-1", SourceURL: "https://cdn/1.mp4"},
		{ID: "vid-2", SourceURL: "https://cdn/2.mp4"},
	}
	out := u.Dispatch(context.Background(), publishAccount(), items)

	require.Len(t, out, 2)
	for _, item := range out {
		assert.Equal(t, model.PublishStateFailed, item.State)
		assert.Equal(t, "TikTok upload failed", item.Detail)
	}
}

func TestPollOnce_MapsFailReason(t *testing.T) {
	videoAPI := new(MockVideoAPI)
	videoAPI.On("PublishStatus", mock.Anything, mock.AnythingOfType("*dto.PublishStatusRequest")).
		Return(&dto.PublishStatusResponse{Results: []dto.PublishStatusResult{
			{PublishID: "pub-1", Status: "ok", Payload: &dto.PublishPayload{
				Data: dto.PublishPayloadData{Status: "FAILED", FailReason: "video_duration_too_long"},
			}},
			{PublishID: "pub-2", Status: "ok", Payload: &dto.PublishPayload{
				Data: dto.PublishPayloadData{Status: "PROCESSING_UPLOAD"},
			}},
			{PublishID: "pub-3", Status: "error", Error: &dto.UpstreamError{Message: "unknown publish id"}},
		}}, nil).Once()

	u := NewPublishUsecase(videoAPI)
	results, err := u.PollOnce(context.Background(), publishAccount(), []string{"pub-1", "pub-2", "pub-3"})

	require.NoError(t, err)
	assert.Equal(t, model.PublishStateFailed, results["pub-1"].State)
	assert.Equal(t, "video_duration_too_long", results["pub-1"].Detail)
	assert.Equal(t, model.PublishStateTracking, results["pub-2"].State)
	assert.Equal(t, "PROCESSING_UPLOAD", results["pub-2"].Detail)
	assert.Equal(t, model.PublishStateFailed, results["pub-3"].State)
	assert.Equal(t, "unknown publish id", results["pub-3"].Detail)
}

// An ok result whose payload has not materialized yet keeps the handle
// tracking; only a platform-reported error fails it.
func TestPollOnce_OkWithoutPayloadKeepsTracking(t *testing.T) {
	videoAPI := new(MockVideoAPI)
	videoAPI.On("PublishStatus", mock.Anything, mock.AnythingOfType("*dto.PublishStatusRequest")).
		Return(&dto.PublishStatusResponse{Results: []dto.PublishStatusResult{
			{PublishID: "pub-1", Status: "ok"},
		}}, nil).Once()

	u := NewPublishUsecase(videoAPI)
	results, err := u.PollOnce(context.Background(), publishAccount(), []string{"pub-1"})

	require.NoError(t, err)
	assert.Equal(t, model.PublishStateTracking, results["pub-1"].State)
	assert.Equal(t, "Checking TikTok publish status", results["pub-1"].Detail)
}

// The loop stops as soon as every handle is terminal: two scripted rounds
// mean exactly two status calls, never a third.
func TestPoll_TerminatesWhenAllTerminal(t *testing.T) {
	videoAPI := new(MockVideoAPI)
	videoAPI.On("PublishStatus", mock.Anything, mock.AnythingOfType("*dto.PublishStatusRequest")).
		Return(&dto.PublishStatusResponse{Results: []dto.PublishStatusResult{
			{PublishID: "pub-1", Status: "ok", Payload: &dto.PublishPayload{
				Data: dto.PublishPayloadData{Status: "PROCESSING_UPLOAD"},
			}},
		}}, nil).Once()
	videoAPI.On("PublishStatus", mock.Anything, mock.AnythingOfType("*dto.PublishStatusRequest")).
		Return(&dto.PublishStatusResponse{Results: []dto.PublishStatusResult{
			{PublishID: "pub-1", Status: "ok", Payload: &dto.PublishPayload{
				Data: dto.PublishPayloadData{Status: "PUBLISH_COMPLETE"},
			}},
		}}, nil).Once()

	var updates []model.PublishItem
	u := NewPublishUsecase(videoAPI)
	items := []model.PublishItem{
		{ID: "vid-1", PublishID: "pub-1", State: model.PublishStateTracking},
	}
	out := u.Poll(context.Background(), publishAccount(), items, time.Millisecond, func(userID string, item *model.PublishItem) {
		assert.Equal(t, "user-1", userID)
		updates = append(updates, *item)
	})

	require.Len(t, out, 1)
	assert.Equal(t, model.PublishStateSucceeded, out[0].State)
	videoAPI.AssertNumberOfCalls(t, "PublishStatus", 2)
	require.NotEmpty(t, updates)
	assert.Equal(t, model.PublishStateSucceeded, updates[len(updates)-1].State)
}

func TestPoll_ContextCancellationStopsLoop(t *testing.T) {
	videoAPI := new(MockVideoAPI)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u := NewPublishUsecase(videoAPI)
	items := []model.PublishItem{
		{ID: "vid-1", PublishID: "pub-1", State: model.PublishStateTracking},
	}
	out := u.Poll(ctx, publishAccount(), items, time.Millisecond, nil)

	require.Len(t, out, 1)
	assert.Equal(t, model.PublishStateTracking, out[0].State)
	videoAPI.AssertNotCalled(t, "PublishStatus", mock.Anything, mock.Anything)
}

// Terminal transitions reach every configured emitter.
func TestPoll_EmitsTerminalEvents(t *testing.T) {
	videoAPI := new(MockVideoAPI)
	emitter := new(MockPublishEvents)
	videoAPI.On("PublishStatus", mock.Anything, mock.AnythingOfType("*dto.PublishStatusRequest")).
		Return(&dto.PublishStatusResponse{Results: []dto.PublishStatusResult{
			{PublishID: "pub-1", Status: "ok", Payload: &dto.PublishPayload{
				Data: dto.PublishPayloadData{Status: "FAILED", FailReason: "spam_risk"},
			}},
		}}, nil).Once()
	emitter.On("Publish", mock.Anything, mock.MatchedBy(func(e *repository.PublishEvent) bool {
		return e.PublishID == "pub-1" && e.State == model.PublishStateFailed && e.Detail == "spam_risk"
	})).Return(nil).Once()

	u := NewPublishUsecase(videoAPI, emitter)
	items := []model.PublishItem{
		{ID: "vid-1", PublishID: "pub-1", State: model.PublishStateTracking},
	}
	out := u.Poll(context.Background(), publishAccount(), items, time.Millisecond, nil)

	assert.Equal(t, model.PublishStateFailed, out[0].State)
	emitter.AssertExpectations(t)
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"creator-hub/domain/dto"
	"creator-hub/domain/model"
	"creator-hub/domain/repository"
	"creator-hub/infrastructure/logger"
)

// DefaultPollInterval is the cadence of the publish-status loop.
const DefaultPollInterval = 5 * time.Second

const trackingDetail = "Checking TikTok publish status"

// PollResult is the classified outcome of one publish handle.
type PollResult struct {
	State  model.PublishState
	Detail string
}

type IPublishUsecase interface {
	// Dispatch submits the whole batch in one call and maps the per-item
	// outcomes. A transport-level failure marks every item failed.
	Dispatch(ctx context.Context, account *model.TikTokAccount, items []model.PublishItem) []model.PublishItem
	// PollOnce queries every handle in one call.
	PollOnce(ctx context.Context, account *model.TikTokAccount, publishIDs []string) (map[string]PollResult, error)
	// Poll drives items to terminal states, invoking onUpdate for every
	// transition. Returns when nothing is left tracking or ctx ends.
	Poll(ctx context.Context, account *model.TikTokAccount, items []model.PublishItem, interval time.Duration, onUpdate func(userID string, item *model.PublishItem)) []model.PublishItem
}

type PublishUsecase struct {
	videoAPI repository.IVideoAPI
	emitters []repository.IPublishEvents
}

func NewPublishUsecase(videoAPI repository.IVideoAPI, emitters ...repository.IPublishEvents) IPublishUsecase {
	return &PublishUsecase{videoAPI: videoAPI, emitters: emitters}
}

// ClassifyStatus maps TikTok's raw publish status onto the item lifecycle.
// Classification is case-insensitive and idempotent.
func ClassifyStatus(raw string) (model.PublishState, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "SUCCESS", "PUBLISHED", "COMPLETED", "PUBLISH_COMPLETE":
		return model.PublishStateSucceeded, true
	case "FAILED":
		return model.PublishStateFailed, true
	default:
		return model.PublishStateTracking, false
	}
}

// DefaultTitle derives an upload title when the caller supplied none.
func DefaultTitle(tags []string) string {
	if len(tags) > 0 && strings.TrimSpace(tags[0]) != "" {
		return fmt.Sprintf("AI video - %s", strings.TrimSpace(tags[0]))
	}
	return "AI video upload"
}

func (u *PublishUsecase) Dispatch(ctx context.Context, account *model.TikTokAccount, items []model.PublishItem) []model.PublishItem {
	out := make([]model.PublishItem, len(items))
	copy(out, items)

	req := &dto.UploadRequest{
		AccessToken: account.AccessToken,
		Videos:      make([]dto.UploadVideo, 0, len(items)),
	}
	for i := range out {
		out[i].State = model.PublishStateSubmitting
		title := out[i].Title
		if strings.TrimSpace(title) == "" {
			title = "AI video upload"
		}
		req.Videos = append(req.Videos, dto.UploadVideo{
			ID:       out[i].ID,
			VideoURL: out[i].SourceURL,
			Title:    title,
		})
	}

	resp, err := u.videoAPI.UploadVideos(ctx, req)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("TikTok upload batch failed")
		for i := range out {
			out[i].State = model.PublishStateFailed
			out[i].Detail = "TikTok upload failed"
			u.emitTerminal(ctx, account.UserID, &out[i])
		}
		return out
	}

	byID := make(map[string]dto.UploadResult, len(resp.Results))
	for _, res := range resp.Results {
		byID[res.ID] = res
	}

	for i := range out {
		res, ok := byID[out[i].ID]
		if !ok {
			out[i].State = model.PublishStateFailed
			out[i].Detail = "TikTok upload returned no result for this video"
			u.emitTerminal(ctx, account.UserID, &out[i])
			continue
		}
		if res.Status != "ok" {
			out[i].State = model.PublishStateFailed
			out[i].Detail = upstreamDetail(res.Error, "TikTok upload failed")
			u.emitTerminal(ctx, account.UserID, &out[i])
			continue
		}

		out[i].PublishID = res.PublishID
		out[i].State = model.PublishStateTracking
		out[i].Detail = trackingDetail
		// Some uploads come back with the publish outcome already decided.
		if res.PublishStatus != nil {
			state, terminal := ClassifyStatus(res.PublishStatus.Data.Status)
			if terminal {
				out[i].State = state
				out[i].Detail = terminalDetail(state, res.PublishStatus.Data.FailReason)
				u.emitTerminal(ctx, account.UserID, &out[i])
			}
		}
	}
	return out
}

func (u *PublishUsecase) PollOnce(ctx context.Context, account *model.TikTokAccount, publishIDs []string) (map[string]PollResult, error) {
	resp, err := u.videoAPI.PublishStatus(ctx, &dto.PublishStatusRequest{
		AccessToken: account.AccessToken,
		PublishIDs:  publishIDs,
	})
	if err != nil {
		return nil, err
	}

	results := make(map[string]PollResult, len(resp.Results))
	for _, res := range resp.Results {
		if res.Status != "ok" {
			results[res.PublishID] = PollResult{
				State:  model.PublishStateFailed,
				Detail: upstreamDetail(res.Error, "TikTok rejected the status query"),
			}
			continue
		}
		// An ok result that carries no payload yet is not a failure; the
		// handle keeps tracking until TikTok reports something.
		if res.Payload == nil {
			results[res.PublishID] = PollResult{
				State:  model.PublishStateTracking,
				Detail: trackingDetail,
			}
			continue
		}
		state, terminal := ClassifyStatus(res.Payload.Data.Status)
		detail := trackingDetail
		if terminal {
			detail = terminalDetail(state, res.Payload.Data.FailReason)
		} else if raw := strings.TrimSpace(res.Payload.Data.Status); raw != "" {
			detail = raw
		}
		results[res.PublishID] = PollResult{State: state, Detail: detail}
	}
	return results, nil
}

func (u *PublishUsecase) Poll(ctx context.Context, account *model.TikTokAccount, items []model.PublishItem, interval time.Duration, onUpdate func(userID string, item *model.PublishItem)) []model.PublishItem {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	out := make([]model.PublishItem, len(items))
	copy(out, items)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		pending := make([]string, 0, len(out))
		for i := range out {
			if out[i].State == model.PublishStateTracking && out[i].PublishID != "" {
				pending = append(pending, out[i].PublishID)
			}
		}
		if len(pending) == 0 {
			return out
		}

		select {
		case <-ctx.Done():
			return out
		case <-ticker.C:
		}

		results, err := u.PollOnce(ctx, account, pending)
		if err != nil {
			// Transient upstream trouble; keep tracking on the next tick.
			logger.GetLogger().WithField("error", err).Warn("Publish status poll failed")
			continue
		}

		for i := range out {
			if out[i].State != model.PublishStateTracking {
				continue
			}
			res, ok := results[out[i].PublishID]
			if !ok {
				continue
			}
			changed := out[i].State != res.State || out[i].Detail != res.Detail
			out[i].State = res.State
			out[i].Detail = res.Detail
			if !changed {
				continue
			}
			if onUpdate != nil {
				onUpdate(account.UserID, &out[i])
			}
			if res.State.Terminal() {
				u.emitTerminal(ctx, account.UserID, &out[i])
			}
		}
	}
}

func (u *PublishUsecase) emitTerminal(ctx context.Context, userID string, item *model.PublishItem) {
	for _, emitter := range u.emitters {
		if emitter == nil {
			continue
		}
		err := emitter.Publish(ctx, &repository.PublishEvent{
			UserID:    userID,
			ItemID:    item.ID,
			PublishID: item.PublishID,
			State:     item.State,
			Detail:    item.Detail,
		})
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Publish event emit failed")
		}
	}
}

func upstreamDetail(err *dto.UpstreamError, fallback string) string {
	if err != nil && strings.TrimSpace(err.Message) != "" {
		return err.Message
	}
	return fallback
}

func terminalDetail(state model.PublishState, failReason string) string {
	if state == model.PublishStateSucceeded {
		return "Published to TikTok"
	}
	if strings.TrimSpace(failReason) != "" {
		return failReason
	}
	return "TikTok reported a failure"
}

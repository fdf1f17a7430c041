package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"creator-hub/domain/dto"
	"creator-hub/domain/repository"
	"creator-hub/infrastructure/logger"
)

// CreatorInfoCache keeps creator-info preflight responses in Redis so the
// publish page does not hit TikTok on every load. A nil client degrades to
// a no-op cache.
type CreatorInfoCache struct {
	client *redis.Client
}

func NewCreatorInfoCache(client *redis.Client) repository.ICreatorInfoCache {
	return &CreatorInfoCache{client: client}
}

func creatorInfoKey(userID string) string {
	return fmt.Sprintf("tiktok:creator-info:%s", userID)
}

func (c *CreatorInfoCache) Get(ctx context.Context, userID string) (*dto.TikTokCreatorInfo, error) {
	if c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, creatorInfoKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logger.GetLogger().WithField("error", err).Warn("redis: get creator info failed")
		return nil, nil
	}
	var info dto.TikTokCreatorInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		logger.GetLogger().WithField("error", err).Warn("redis: creator info entry corrupt, dropping")
		_ = c.client.Del(ctx, creatorInfoKey(userID)).Err()
		return nil, nil
	}
	return &info, nil
}

func (c *CreatorInfoCache) Set(ctx context.Context, userID string, info *dto.TikTokCreatorInfo, ttl time.Duration) error {
	if c.client == nil || info == nil {
		return nil
	}
	raw, err := json.Marshal(info)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, creatorInfoKey(userID), raw, ttl).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("redis: set creator info failed")
		return err
	}
	return nil
}

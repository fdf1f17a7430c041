package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-hub/domain/dto"
	"creator-hub/infrastructure/cache"
)

func TestNewCreatorInfoCache(t *testing.T) {
	c := cache.NewCreatorInfoCache(nil)
	assert.NotNil(t, c)
}

// A nil Redis client must behave as an always-empty cache rather than fail.
func TestCreatorInfoCache_NilClient(t *testing.T) {
	c := cache.NewCreatorInfoCache(nil)

	got, err := c.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.Nil(t, got)

	err = c.Set(context.Background(), "user-1", &dto.TikTokCreatorInfo{CreatorCanPost: true}, time.Minute)
	require.NoError(t, err)
}

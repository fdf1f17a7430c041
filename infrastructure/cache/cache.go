package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	"creator-hub/infrastructure/logger"
)

// NewCache connects a Redis client. A failed ping is reported but the client
// is still returned; callers treat Redis as optional.
func NewCache(ctx context.Context, addr string, username string, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not reachable")
		return client, err
	}
	return client, nil
}
